package index

import (
	"sort"

	"github.com/gcbaptista/go-job-matcher/internal/features"
)

// InvertedIndex maps a term to the candidates whose vectors contain it.
// It is built once per matching request and is read-only afterwards.
type InvertedIndex struct {
	Index         map[string]PostingList
	NumCandidates int
}

// Build indexes candidate vectors; the position of a vector is its internal candidate id.
func Build(vectors []features.Vector) *InvertedIndex {
	ii := &InvertedIndex{
		Index:         make(map[string]PostingList),
		NumCandidates: len(vectors),
	}
	for id, vector := range vectors {
		for _, term := range vector.Terms {
			ii.Index[term.Token] = append(ii.Index[term.Token], PostingEntry{CandID: uint32(id)})
		}
	}
	return ii
}

// Candidates returns, in ascending order, the internal ids of candidates sharing at
// least one term with vector. Every other candidate has a similarity of exactly 0.
func (ii *InvertedIndex) Candidates(vector features.Vector) []uint32 {
	seen := make(map[uint32]struct{})
	for _, term := range vector.Terms {
		for _, entry := range ii.Index[term.Token] {
			seen[entry.CandID] = struct{}{}
		}
	}

	ids := make([]uint32, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
