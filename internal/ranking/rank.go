// Package ranking selects the top-k candidates of a job with deterministic tie-breaking.
package ranking

import (
	"container/heap"
	"sort"

	"github.com/gcbaptista/go-job-matcher/model"
)

// Rank selects the k candidates with the highest score for job. Candidates missing from
// scores count as 0. Ties are broken by ascending candidate id. With fewer than k
// candidates all of them are returned; an empty pool yields an empty, non-nil Top.
func Rank(job model.TransformedJob, candidates []model.Candidate, scores map[string]float64, k int) model.TopMatch {
	entries := make([]model.CandidateScore, len(candidates))
	for i, candidate := range candidates {
		entries[i] = model.CandidateScore{CandID: candidate.ID, MatchScore: scores[candidate.ID]}
	}
	return TopK(job.JobID, entries, k)
}

// TopK keeps the k best entries in ranking order. entries is not modified.
func TopK(jobID string, entries []model.CandidateScore, k int) model.TopMatch {
	if k <= 0 || len(entries) == 0 {
		return model.TopMatch{JobID: jobID, Top: []model.CandidateScore{}}
	}

	if len(entries) <= k {
		top := make([]model.CandidateScore, len(entries))
		copy(top, entries)
		sort.Slice(top, func(i, j int) bool { return Less(top[i], top[j]) })
		return model.TopMatch{JobID: jobID, Top: top}
	}

	// Bounded min-heap: the root is the worst entry kept so far
	h := make(worstFirst, 0, k)
	for _, entry := range entries {
		if h.Len() < k {
			heap.Push(&h, entry)
			continue
		}
		if Less(entry, h[0]) {
			h[0] = entry
			heap.Fix(&h, 0)
		}
	}

	top := []model.CandidateScore(h)
	sort.Slice(top, func(i, j int) bool { return Less(top[i], top[j]) })
	return model.TopMatch{JobID: jobID, Top: top}
}

// Less reports whether a ranks before b: higher score first, then ascending candidate id.
func Less(a, b model.CandidateScore) bool {
	if a.MatchScore != b.MatchScore {
		return a.MatchScore > b.MatchScore
	}
	return a.CandID < b.CandID
}

// worstFirst implements heap.Interface with the lowest-ranked entry at the root.
type worstFirst []model.CandidateScore

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return Less(h[j], h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *worstFirst) Push(x interface{}) {
	*h = append(*h, x.(model.CandidateScore))
}

func (h *worstFirst) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
