package features

import (
	"math"

	"github.com/gcbaptista/go-job-matcher/internal/tokenizer"
)

// BM25Extractor weights terms with the BM25 formula so that long profiles do not win
// simply by repeating words.
type BM25Extractor struct {
	tokenizer *tokenizer.Tokenizer
	corpus    *Corpus
	k1        float64 // Controls term frequency saturation
	b         float64 // Controls how much effect document length has
}

// NewBM25Extractor creates a new BM25 extractor
func NewBM25Extractor(tok *tokenizer.Tokenizer, corpus *Corpus, k1, b float64) *BM25Extractor {
	return &BM25Extractor{tokenizer: tok, corpus: corpus, k1: k1, b: b}
}

// calculateIDF calculates the inverse document frequency
// IDF = ln(1 + (N - df + 0.5) / (df + 0.5)), which never goes negative
func (e *BM25Extractor) calculateIDF(term string) float64 {
	totalDocs := float64(e.corpus.NumDocs())
	docFreq := float64(e.corpus.DocFreq(term))
	if totalDocs == 0 {
		return 0.0
	}
	return math.Log(1 + (totalDocs-docFreq+0.5)/(docFreq+0.5))
}

// Extract tokenizes text and weighs it.
func (e *BM25Extractor) Extract(text string) Vector {
	return e.Weigh(e.tokenizer.Tokenize(text))
}

// Weigh builds the BM25 vector of an already tokenized document
// BM25 = IDF * (tf * (k1 + 1)) / (tf + k1 * (1 - b + b * (|d| / avgdl)))
func (e *BM25Extractor) Weigh(tokens []string) Vector {
	if len(tokens) == 0 {
		return Vector{}
	}

	avgDocLength := e.corpus.AverageDocLength()
	if avgDocLength == 0 {
		avgDocLength = 1
	}
	lengthNorm := 1 - e.b + e.b*(float64(len(tokens))/avgDocLength)

	weights := termFrequencies(tokens)
	for term, tf := range weights {
		weights[term] = e.calculateIDF(term) * (tf * (e.k1 + 1)) / (tf + e.k1*lengthNorm)
	}
	return NewVector(weights)
}
