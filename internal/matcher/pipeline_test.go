package matcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/gcbaptista/go-job-matcher/config"
	matchErrors "github.com/gcbaptista/go-job-matcher/internal/errors"
	"github.com/gcbaptista/go-job-matcher/internal/features"
	"github.com/gcbaptista/go-job-matcher/internal/metrics"
	testutil "github.com/gcbaptista/go-job-matcher/internal/testing"
	"github.com/gcbaptista/go-job-matcher/model"
)

func newPipeline(t *testing.T, mutate func(*config.MatcherSettings), opts ...Option) *Pipeline {
	t.Helper()
	settings := config.DefaultSettings()
	if mutate != nil {
		mutate(&settings)
	}
	p, err := NewPipeline(settings, opts...)
	require.NoError(t, err)
	return p
}

func TestMatch_BasicScenario(t *testing.T) {
	p := newPipeline(t, nil)
	raw := []model.RawJob{{"id": "J1", "description": "python backend developer"}}

	report, err := p.Match(context.Background(), raw, testutil.ScenarioCandidates())
	require.NoError(t, err)
	require.Len(t, report.TopMatches, 1)

	match := report.TopMatches[0]
	assert.Equal(t, "J1", match.JobID)
	require.Len(t, match.Top, 2)
	assert.Equal(t, "C1", match.Top[0].CandID)
	assert.Equal(t, "C2", match.Top[1].CandID)
	assert.Greater(t, match.Top[0].MatchScore, match.Top[1].MatchScore)
	assert.Greater(t, match.Top[1].MatchScore, 0.0)
	assert.LessOrEqual(t, match.Top[0].MatchScore, 1.0)
}

func TestMatch_DuplicateJobIDsKeepFirst(t *testing.T) {
	p := newPipeline(t, nil)
	raw := []model.RawJob{
		{"id": "J1", "description": "python backend developer"},
		{"id": "J1", "description": "java frontend developer"},
	}

	report, err := p.Match(context.Background(), raw, testutil.ScenarioCandidates())
	require.NoError(t, err)
	require.Len(t, report.TopMatches, 1)
	assert.Equal(t, "C1", report.TopMatches[0].Top[0].CandID, "only the first J1 is scored")
}

func TestMatch_DropsUnusableJobsAndKeepsOrder(t *testing.T) {
	p := newPipeline(t, nil)
	raw := []model.RawJob{
		{"id": "J3", "description": "java developer"},
		{"id": "J2", "description": "   "},
		nil,
		{"description": "no id"},
		{"id": "J1", "description": "python developer"},
	}

	report, err := p.Match(context.Background(), raw, testutil.ScenarioCandidates())
	require.NoError(t, err)
	require.Len(t, report.TopMatches, 2)
	assert.Equal(t, "J3", report.TopMatches[0].JobID)
	assert.Equal(t, "J1", report.TopMatches[1].JobID)
}

func TestMatch_DropsJobsWithoutUsableTerms(t *testing.T) {
	tests := []struct {
		name        string
		description string
	}{
		{"markup only", "<br/>"},
		{"stop words only", "the and of"},
		{"punctuation only", "!!! ---"},
		{"empty tags", "<p></p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, observed := testutil.NewObservedLogger(zapcore.DebugLevel)
			p := newPipeline(t, nil, WithLogger(log))
			raw := []model.RawJob{
				{"id": "J1", "description": "python backend developer"},
				{"id": "J2", "description": tt.description},
			}

			report, err := p.Match(context.Background(), raw, testutil.ScenarioCandidates())
			require.NoError(t, err)
			require.Len(t, report.TopMatches, 1)
			assert.Equal(t, "J1", report.TopMatches[0].JobID)

			skipped := observed.FilterMessage("skipping job without usable terms").All()
			require.Len(t, skipped, 1)
			assert.Equal(t, "J2", skipped[0].ContextMap()["job_id"])

			completed := observed.FilterMessage("match completed").All()
			require.Len(t, completed, 1)
			assert.Equal(t, int64(1), completed[0].ContextMap()["jobs_kept"])
			assert.Equal(t, int64(1), completed[0].ContextMap()["jobs_dropped"])

			data := p.Metrics()
			assert.Equal(t, int64(1), data.JobsKept)
			assert.Equal(t, int64(2), data.PairsScored+data.PairsPruned, "only J1 is ranked")

			_, err = p.Match(context.Background(), raw[1:], testutil.ScenarioCandidates())
			require.Error(t, err)
			assert.True(t, errors.Is(err, matchErrors.ErrNoJobs))

			_, err = p.MatchDescription(context.Background(), tt.description, testutil.ScenarioCandidates())
			require.Error(t, err)
			assert.True(t, errors.Is(err, matchErrors.ErrNoJobs))
		})
	}
}

func TestMatch_TopKBound(t *testing.T) {
	candidates := make([]model.Candidate, 10)
	for i := range candidates {
		candidates[i] = model.Candidate{ID: fmt.Sprintf("C%02d", i), ProfileText: "go developer"}
	}
	raw := []model.RawJob{{"id": "J1", "description": "go developer"}}

	for _, k := range []int{1, 3, 10, 25} {
		p := newPipeline(t, func(s *config.MatcherSettings) { s.TopK = k })
		report, err := p.Match(context.Background(), raw, candidates)
		require.NoError(t, err)

		top := report.TopMatches[0].Top
		assert.Len(t, top, min(k, len(candidates)), "k=%d", k)
		testutil.AssertRanked(t, top, k)
		assert.Equal(t, "C00", top[0].CandID, "equal scores are ordered by candidate id")
	}
}

func TestMatch_NonOverlappingCandidatesScoreZero(t *testing.T) {
	p := newPipeline(t, nil)
	candidates := []model.Candidate{
		{ID: "C1", ProfileText: "chef de cozinha"},
		{ID: "C2", ProfileText: "python"},
		{ID: "C3", ProfileText: ""},
	}
	raw := []model.RawJob{{"id": "J1", "description": "python engineer"}}

	report, err := p.Match(context.Background(), raw, candidates)
	require.NoError(t, err)

	top := report.TopMatches[0].Top
	require.Len(t, top, 3)
	assert.Equal(t, "C2", top[0].CandID)
	assert.Equal(t, model.CandidateScore{CandID: "C1", MatchScore: 0}, top[1])
	assert.Equal(t, model.CandidateScore{CandID: "C3", MatchScore: 0}, top[2])

	data := p.Metrics()
	assert.Equal(t, int64(1), data.PairsScored)
	assert.Equal(t, int64(2), data.PairsPruned)
}

func TestMatch_Deterministic(t *testing.T) {
	raw := testutil.GenerateRawJobs(20)
	candidates := testutil.GenerateCandidates(40)

	var encoded [][]byte
	for _, workers := range []int{1, 8, 8} {
		p := newPipeline(t, func(s *config.MatcherSettings) { s.Workers = workers })
		report, err := p.Match(context.Background(), raw, candidates)
		require.NoError(t, err)
		require.Len(t, report.TopMatches, 20)
		for _, match := range report.TopMatches {
			testutil.AssertRanked(t, match.Top, config.DefaultTopK)
		}

		data, err := json.Marshal(report)
		require.NoError(t, err)
		encoded = append(encoded, data)
	}

	assert.Equal(t, string(encoded[0]), string(encoded[1]))
	assert.Equal(t, string(encoded[1]), string(encoded[2]))
}

func TestMatch_NoJobs(t *testing.T) {
	p := newPipeline(t, nil)

	_, err := p.Match(context.Background(), nil, testutil.ScenarioCandidates())
	require.Error(t, err)
	assert.True(t, errors.Is(err, matchErrors.ErrNoJobs))

	_, err = p.Match(context.Background(), []model.RawJob{{"id": "J1"}, {"description": "x"}}, testutil.ScenarioCandidates())
	assert.True(t, errors.Is(err, matchErrors.ErrNoJobs))

	assert.Equal(t, int64(2), p.Metrics().FailuresByKind[matchErrors.KindNoJobs])
}

func TestMatch_EmptyCandidatePool(t *testing.T) {
	raw := []model.RawJob{{"id": "J1", "description": "python"}}

	t.Run("required", func(t *testing.T) {
		p := newPipeline(t, nil)
		_, err := p.Match(context.Background(), raw, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, matchErrors.ErrNoCandidates))
		assert.Equal(t, matchErrors.KindNoCandidates, matchErrors.KindOf(err))
	})

	t.Run("optional", func(t *testing.T) {
		p := newPipeline(t, func(s *config.MatcherSettings) { s.RequireCandidates = false })
		report, err := p.Match(context.Background(), raw, []model.Candidate{{ID: ""}})
		require.NoError(t, err)
		require.Len(t, report.TopMatches, 1)
		assert.NotNil(t, report.TopMatches[0].Top)
		assert.Empty(t, report.TopMatches[0].Top)

		data, err := json.Marshal(report)
		require.NoError(t, err)
		assert.JSONEq(t, `{"top_matches":[{"job_id":"J1","top":[]}]}`, string(data))
	})
}

func TestMatch_BM25Strategy(t *testing.T) {
	p := newPipeline(t, func(s *config.MatcherSettings) { s.Strategy = config.StrategyBM25 })
	raw := []model.RawJob{{"id": "J1", "description": "python backend developer"}}

	report, err := p.Match(context.Background(), raw, testutil.ScenarioCandidates())
	require.NoError(t, err)
	top := report.TopMatches[0].Top
	require.Len(t, top, 2)
	assert.Equal(t, "C1", top[0].CandID)
	assert.Greater(t, top[0].MatchScore, top[1].MatchScore)
}

func TestMatch_Cancelled(t *testing.T) {
	p := newPipeline(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := p.Match(ctx, []model.RawJob{{"id": "J1", "description": "python"}}, testutil.ScenarioCandidates())
	assert.Nil(t, report)
	require.Error(t, err)
	assert.True(t, errors.Is(err, matchErrors.ErrInternal))
	assert.True(t, errors.Is(err, context.Canceled))
}

type panickingScorer struct{}

func (panickingScorer) Score(_, _ features.Vector) float64 {
	panic("boom")
}

func TestMatch_PanicBecomesInternalError(t *testing.T) {
	p := newPipeline(t, nil, WithScorer(panickingScorer{}))

	_, err := p.Match(context.Background(), []model.RawJob{{"id": "J1", "description": "python developer"}}, testutil.ScenarioCandidates())
	require.Error(t, err)
	assert.Equal(t, matchErrors.KindInternalError, matchErrors.KindOf(err))
	assert.Contains(t, err.Error(), "boom")
}

func TestMatchJobs(t *testing.T) {
	p := newPipeline(t, nil)
	jobs := []model.Job{
		{ID: "J1", Title: "Python Developer", Description: "backend services"},
		{ID: "J2", Description: ""},
	}

	report, err := p.MatchJobs(context.Background(), jobs, testutil.ScenarioCandidates())
	require.NoError(t, err)
	require.Len(t, report.TopMatches, 1)
	assert.Equal(t, "C1", report.TopMatches[0].Top[0].CandID, "title contributes to the job text")
}

func TestMatchDescription(t *testing.T) {
	m := metrics.NewMatchMetrics()
	p := newPipeline(t, nil, WithMetrics(m))

	match, err := p.MatchDescription(context.Background(), "<p>Python <b>backend</b> developer</p>", testutil.ScenarioCandidates())
	require.NoError(t, err)
	assert.NotEmpty(t, match.JobID)
	require.Len(t, match.Top, 2)
	assert.Equal(t, "C1", match.Top[0].CandID)

	_, err = p.MatchDescription(context.Background(), "   ", testutil.ScenarioCandidates())
	assert.True(t, errors.Is(err, matchErrors.ErrNoJobs))

	data := m.GetMetrics()
	assert.Equal(t, int64(2), data.BatchesByType[metrics.BatchTypeSingle])
	assert.Equal(t, int64(1), data.BatchesCompleted)
}

func TestPipeline_LogsBatchSummary(t *testing.T) {
	log, observed := testutil.NewObservedLogger(zapcore.InfoLevel)
	p := newPipeline(t, nil, WithLogger(log))

	_, err := p.Match(context.Background(), []model.RawJob{{"id": "J1", "description": "python"}, {"id": "J1", "description": "dup"}}, testutil.ScenarioCandidates())
	require.NoError(t, err)

	entries := observed.FilterMessage("match completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(2), fields["jobs_received"])
	assert.Equal(t, int64(1), fields["jobs_kept"])
	assert.Equal(t, int64(2), fields["candidates"])
}

func TestNewPipeline_InvalidSettings(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Strategy = "word2vec"

	_, err := NewPipeline(settings)
	require.Error(t, err)
	assert.True(t, errors.Is(err, matchErrors.ErrInvalidInput))
}
