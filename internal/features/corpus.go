package features

import "math"

// Corpus holds the document statistics shared by every vector of one matching request:
// document frequency per term, document count and average document length.
// It is built once and only read afterwards, so it is safe for concurrent use.
type Corpus struct {
	docFreq      map[string]int
	numDocs      int
	avgDocLength float64
}

// NewCorpus computes statistics over tokenized documents. Each element of docs is one
// document (a job or a candidate); a term counts once per document.
func NewCorpus(docs [][]string) *Corpus {
	c := &Corpus{docFreq: make(map[string]int), numDocs: len(docs)}

	totalLength := 0
	for _, tokens := range docs {
		totalLength += len(tokens)
		seen := make(map[string]struct{}, len(tokens))
		for _, token := range tokens {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			c.docFreq[token]++
		}
	}

	if c.numDocs > 0 {
		c.avgDocLength = float64(totalLength) / float64(c.numDocs)
	}
	return c
}

// NumDocs returns the number of documents the corpus was built from.
func (c *Corpus) NumDocs() int {
	return c.numDocs
}

// DocFreq returns the number of documents containing term.
func (c *Corpus) DocFreq(term string) int {
	return c.docFreq[term]
}

// VocabularySize returns the number of distinct terms.
func (c *Corpus) VocabularySize() int {
	return len(c.docFreq)
}

// AverageDocLength returns the mean token count per document.
func (c *Corpus) AverageDocLength() float64 {
	return c.avgDocLength
}

// SmoothIDF is the smoothed inverse document frequency ln((1+N)/(1+df)) + 1.
// It stays positive for terms present in every document, so shared vocabulary still
// contributes to similarity.
func (c *Corpus) SmoothIDF(term string) float64 {
	n := float64(c.numDocs)
	df := float64(c.docFreq[term])
	return math.Log((1+n)/(1+df)) + 1
}

// termFrequencies counts tokens.
func termFrequencies(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		tf[token]++
	}
	return tf
}
