package model

// RawJob is a job record as received from outside: any JSON object.
// Its shape is not guaranteed; only the normalizer reads it.
type RawJob map[string]interface{}

// Job is the canonical, validated job posting.
// ID is unique within a batch and Description is never empty.
type Job struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
}

// TransformedJob is the exact text blob fed to feature extraction for one job.
type TransformedJob struct {
	JobID string `json:"job_id"`
	Text  string `json:"text"`
}
