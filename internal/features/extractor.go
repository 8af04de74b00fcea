package features

import (
	"fmt"
	"math"

	"github.com/gcbaptista/go-job-matcher/config"
	"github.com/gcbaptista/go-job-matcher/internal/tokenizer"
)

// Extractor converts text into a Vector. Implementations are deterministic and read only
// the Corpus they were built with.
type Extractor interface {
	Extract(text string) Vector
	Weigh(tokens []string) Vector
}

// TFIDFExtractor weights terms with sublinear term frequency times smoothed IDF.
type TFIDFExtractor struct {
	tokenizer *tokenizer.Tokenizer
	corpus    *Corpus
}

// NewTFIDFExtractor creates a TF-IDF extractor over corpus.
func NewTFIDFExtractor(tok *tokenizer.Tokenizer, corpus *Corpus) *TFIDFExtractor {
	return &TFIDFExtractor{tokenizer: tok, corpus: corpus}
}

// Extract tokenizes text and weighs it.
func (e *TFIDFExtractor) Extract(text string) Vector {
	return e.Weigh(e.tokenizer.Tokenize(text))
}

// Weigh computes (1 + ln tf) * idf for every distinct token.
func (e *TFIDFExtractor) Weigh(tokens []string) Vector {
	if len(tokens) == 0 {
		return Vector{}
	}
	weights := termFrequencies(tokens)
	for term, tf := range weights {
		weights[term] = (1 + math.Log(tf)) * e.corpus.SmoothIDF(term)
	}
	return NewVector(weights)
}

// NewExtractor returns the extractor selected by settings.Strategy.
func NewExtractor(settings config.MatcherSettings, tok *tokenizer.Tokenizer, corpus *Corpus) (Extractor, error) {
	switch settings.Strategy {
	case config.StrategyTFIDF, "":
		return NewTFIDFExtractor(tok, corpus), nil
	case config.StrategyBM25:
		return NewBM25Extractor(tok, corpus, settings.BM25K1, settings.BM25B), nil
	default:
		return nil, fmt.Errorf("unknown feature strategy '%s'", settings.Strategy)
	}
}

// TokenizerFor builds the tokenizer described by settings.
func TokenizerFor(settings config.MatcherSettings) *tokenizer.Tokenizer {
	return tokenizer.New(tokenizer.Options{
		SplitCamelCase:   settings.SplitCamelCase,
		FoldAccents:      settings.FoldAccents,
		MinTokenLength:   settings.MinTokenLength,
		DisableStopWords: settings.DisableStopWords,
		ExtraStopWords:   settings.StopWords,
	})
}
