// Package testing provides fixtures and assertions shared by the matcher tests.
package testing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gcbaptista/go-job-matcher/model"
)

// ScenarioCandidates is the two-candidate pool where a python job must prefer C1 over C2.
func ScenarioCandidates() []model.Candidate {
	return []model.Candidate{
		{ID: "C1", ProfileText: "experienced python developer"},
		{ID: "C2", ProfileText: "java frontend developer"},
	}
}

// GenerateCandidates builds n candidates with ids C000.. and overlapping vocabulary.
func GenerateCandidates(n int) []model.Candidate {
	skills := []string{"python", "golang", "java", "kubernetes", "sql", "react"}
	candidates := make([]model.Candidate, n)
	for i := range candidates {
		candidates[i] = model.Candidate{
			ID:          fmt.Sprintf("C%03d", i),
			ProfileText: fmt.Sprintf("%s engineer with %s and %s, level %d", skills[i%len(skills)], skills[(i+1)%len(skills)], skills[(i*7)%len(skills)], i%5),
		}
	}
	return candidates
}

// GenerateRawJobs builds n raw job records with ids J000..
func GenerateRawJobs(n int) []model.RawJob {
	skills := []string{"python", "golang", "java", "kubernetes", "sql", "react"}
	raw := make([]model.RawJob, n)
	for i := range raw {
		raw[i] = model.RawJob{
			"id":          fmt.Sprintf("J%03d", i),
			"description": fmt.Sprintf("senior %s engineer, %s a plus", skills[i%len(skills)], skills[(i+2)%len(skills)]),
		}
	}
	return raw
}

// WriteJSONFile marshals v (or writes it as is when it is a string) into dir/name.
func WriteJSONFile(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()

	var data []byte
	switch content := v.(type) {
	case string:
		data = []byte(content)
	default:
		var err error
		data, err = json.Marshal(v)
		require.NoError(t, err, "Failed to marshal fixture")
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0600), "Failed to write fixture")
	return path
}

// NewObservedLogger returns a logger whose entries at level and above can be inspected.
func NewObservedLogger(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, observed := observer.New(level)
	return zap.New(core), observed
}

// AssertRanked verifies the shortlist invariants: at most k entries, scores in [0,1],
// non-increasing scores and ascending candidate ids among equal scores.
func AssertRanked(t *testing.T, top []model.CandidateScore, k int) {
	t.Helper()

	assert.NotNil(t, top, "Top must never be nil")
	assert.LessOrEqual(t, len(top), k, "Top must hold at most k entries")

	for i, entry := range top {
		assert.GreaterOrEqual(t, entry.MatchScore, 0.0, "score of %s below 0", entry.CandID)
		assert.LessOrEqual(t, entry.MatchScore, 1.0, "score of %s above 1", entry.CandID)
		if i == 0 {
			continue
		}
		prev := top[i-1]
		assert.GreaterOrEqual(t, prev.MatchScore, entry.MatchScore, "scores out of order at %d", i)
		if prev.MatchScore == entry.MatchScore {
			assert.Less(t, prev.CandID, entry.CandID, "tie not broken by candidate id at %d", i)
		}
	}
}
