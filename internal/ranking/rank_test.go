package ranking

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-job-matcher/model"
)

func candidates(ids ...string) []model.Candidate {
	out := make([]model.Candidate, len(ids))
	for i, id := range ids {
		out[i] = model.Candidate{ID: id, ProfileText: "profile " + id}
	}
	return out
}

func TestRank_BasicOrdering(t *testing.T) {
	job := model.TransformedJob{JobID: "J1", Text: "python developer"}
	scores := map[string]float64{"C1": 0.2, "C2": 0.9, "C3": 0.5, "C4": 0.1}

	got := Rank(job, candidates("C1", "C2", "C3", "C4"), scores, 3)

	assert.Equal(t, "J1", got.JobID)
	assert.Equal(t, []model.CandidateScore{
		{CandID: "C2", MatchScore: 0.9},
		{CandID: "C3", MatchScore: 0.5},
		{CandID: "C1", MatchScore: 0.2},
	}, got.Top)
}

func TestRank_TiesBreakByCandidateID(t *testing.T) {
	job := model.TransformedJob{JobID: "J1"}
	scores := map[string]float64{"b": 0.5, "a": 0.5, "d": 0.5, "c": 0.7}

	got := Rank(job, candidates("d", "b", "c", "a"), scores, 3)

	assert.Equal(t, []model.CandidateScore{
		{CandID: "c", MatchScore: 0.7},
		{CandID: "a", MatchScore: 0.5},
		{CandID: "b", MatchScore: 0.5},
	}, got.Top)
}

func TestRank_FewerThanK(t *testing.T) {
	job := model.TransformedJob{JobID: "J1"}
	got := Rank(job, candidates("C2", "C1"), map[string]float64{"C1": 0.4}, 3)

	require.Len(t, got.Top, 2)
	assert.Equal(t, "C1", got.Top[0].CandID)
	assert.Equal(t, "C2", got.Top[1].CandID)
	assert.Equal(t, 0.0, got.Top[1].MatchScore, "missing scores count as zero")
}

func TestRank_EmptyPool(t *testing.T) {
	got := Rank(model.TransformedJob{JobID: "J1"}, nil, nil, 3)

	assert.NotNil(t, got.Top)
	assert.Empty(t, got.Top)
}

func TestTopK_NonPositiveK(t *testing.T) {
	got := TopK("J1", []model.CandidateScore{{CandID: "C1", MatchScore: 1}}, 0)
	assert.Empty(t, got.Top)
}

func TestTopK_DoesNotModifyInput(t *testing.T) {
	entries := []model.CandidateScore{{CandID: "C1", MatchScore: 0.1}, {CandID: "C2", MatchScore: 0.9}}
	TopK("J1", entries, 5)

	assert.Equal(t, "C1", entries[0].CandID)
}

// TopK with the heap must agree with a full sort for any input order.
func TestTopK_MatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		n := 1 + rng.Intn(60)
		entries := make([]model.CandidateScore, n)
		for i := range entries {
			// Few distinct scores so ties are frequent
			entries[i] = model.CandidateScore{CandID: fmt.Sprintf("C%03d", i), MatchScore: float64(rng.Intn(5)) / 4}
		}
		rng.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
		k := 1 + rng.Intn(10)

		expected := make([]model.CandidateScore, n)
		copy(expected, entries)
		sort.Slice(expected, func(i, j int) bool { return Less(expected[i], expected[j]) })
		if len(expected) > k {
			expected = expected[:k]
		}

		got := TopK("J", entries, k)
		require.Equal(t, expected, got.Top, "round %d (n=%d, k=%d)", round, n, k)
	}
}
