package store

import (
	"strings"

	"github.com/gcbaptista/go-job-matcher/model"
)

// CandidatePool is the read-only candidate collection of one matching request.
// Candidates are addressed by a dense internal id, their position in Candidates.
type CandidatePool struct {
	Candidates             []model.Candidate // Internal ID to candidate
	ExternalIDtoInternalID map[string]uint32 // User-provided cand_id to internal uint32 ID
	Duplicates             int               // Records dropped because their cand_id was already seen
	MissingID              int               // Records dropped because they had no cand_id
}

// NewCandidatePool indexes candidates in input order. Ids are trimmed; a candidate without
// an id is dropped and a repeated id keeps its first occurrence. The input is not modified.
func NewCandidatePool(candidates []model.Candidate) *CandidatePool {
	pool := &CandidatePool{
		Candidates:             make([]model.Candidate, 0, len(candidates)),
		ExternalIDtoInternalID: make(map[string]uint32, len(candidates)),
	}

	for _, candidate := range candidates {
		id := strings.TrimSpace(candidate.ID)
		if id == "" {
			pool.MissingID++
			continue
		}
		if _, exists := pool.ExternalIDtoInternalID[id]; exists {
			pool.Duplicates++
			continue
		}
		pool.ExternalIDtoInternalID[id] = uint32(len(pool.Candidates))
		pool.Candidates = append(pool.Candidates, model.Candidate{ID: id, ProfileText: candidate.ProfileText})
	}

	return pool
}

// Len returns the number of candidates in the pool.
func (p *CandidatePool) Len() int {
	return len(p.Candidates)
}
