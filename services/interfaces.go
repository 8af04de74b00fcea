package services

import (
	"context"

	"github.com/gcbaptista/go-job-matcher/config"
	"github.com/gcbaptista/go-job-matcher/internal/metrics"
	"github.com/gcbaptista/go-job-matcher/model"
)

// BulkMatcher matches a batch of raw job records against a candidate pool
type BulkMatcher interface {
	Match(ctx context.Context, raw []model.RawJob, candidates []model.Candidate) (*model.MatchReport, error)
}

// SingleMatcher matches one free-text job description against a candidate pool
type SingleMatcher interface {
	MatchDescription(ctx context.Context, description string, candidates []model.Candidate) (*model.TopMatch, error)
}

// Matcher combines both matching modes with access to settings and metrics
type Matcher interface {
	BulkMatcher
	SingleMatcher
	Settings() config.MatcherSettings
	Metrics() metrics.MatchMetricsData
}

// CandidateSource provides the candidate pool for a request
type CandidateSource interface {
	Candidates(ctx context.Context) ([]model.Candidate, error)
}
