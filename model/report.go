package model

// CandidateScore is one entry of a shortlist.
type CandidateScore struct {
	CandID     string  `json:"cand_id"`
	MatchScore float64 `json:"match_score"`
}

// TopMatch is the ranked shortlist for one job, ordered by descending score.
type TopMatch struct {
	JobID string           `json:"job_id"`
	Top   []CandidateScore `json:"top"`
}

// MatchReport holds one TopMatch per surviving job, in input job order.
type MatchReport struct {
	TopMatches []TopMatch `json:"top_matches"`
}
