package model

// Candidate is a profile from the candidate pool. The matcher never mutates it.
type Candidate struct {
	ID          string `json:"cand_id"`
	ProfileText string `json:"profile_text"`
}
