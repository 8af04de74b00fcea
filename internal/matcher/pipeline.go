// Package matcher runs the matching pipeline: normalize, transform, extract features,
// score and rank, for a batch of jobs against a candidate pool.
package matcher

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-job-matcher/config"
	"github.com/gcbaptista/go-job-matcher/index"
	"github.com/gcbaptista/go-job-matcher/internal/errors"
	"github.com/gcbaptista/go-job-matcher/internal/features"
	"github.com/gcbaptista/go-job-matcher/internal/logger"
	"github.com/gcbaptista/go-job-matcher/internal/metrics"
	"github.com/gcbaptista/go-job-matcher/internal/normalize"
	"github.com/gcbaptista/go-job-matcher/internal/ranking"
	"github.com/gcbaptista/go-job-matcher/internal/scoring"
	"github.com/gcbaptista/go-job-matcher/internal/tokenizer"
	"github.com/gcbaptista/go-job-matcher/internal/transform"
	"github.com/gcbaptista/go-job-matcher/model"
	"github.com/gcbaptista/go-job-matcher/store"
)

// Pipeline implements services.Matcher. It holds no per-request state: corpus statistics,
// vectors and the candidate index are built inside every call, so a Pipeline is safe for
// concurrent use.
type Pipeline struct {
	settings    config.MatcherSettings
	logger      *zap.Logger
	metrics     *metrics.MatchMetrics
	normalizer  *normalize.Normalizer
	transformer transform.Transformer
	scorer      scoring.Scorer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger.OrNop(log)
	}
}

// WithMetrics shares a metrics collector, e.g. with the HTTP layer.
func WithMetrics(m *metrics.MatchMetrics) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithScorer replaces the cosine scorer.
func WithScorer(s scoring.Scorer) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.scorer = s
		}
	}
}

// NewPipeline validates settings (after applying defaults) and builds a Pipeline.
func NewPipeline(settings config.MatcherSettings, opts ...Option) (*Pipeline, error) {
	settings.ApplyDefaults()
	if errs := settings.Validate(); len(errs) > 0 {
		return nil, errors.NewValidationError("matcher", strings.Join(errs, "; "))
	}

	p := &Pipeline{
		settings: settings,
		logger:   zap.NewNop(),
		metrics:  metrics.NewMatchMetrics(),
		scorer:   scoring.NewCosineScorer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.normalizer = normalize.NewNormalizer(p.logger)
	p.transformer = transform.Transformer{SplitCamelCase: settings.SplitCamelCase}
	return p, nil
}

// Settings returns the effective settings.
func (p *Pipeline) Settings() config.MatcherSettings {
	return p.settings
}

// Metrics returns a snapshot of the pipeline metrics.
func (p *Pipeline) Metrics() metrics.MatchMetricsData {
	return p.metrics.GetMetrics()
}

// Match normalizes raw and returns one TopMatch per surviving job, in input order.
func (p *Pipeline) Match(ctx context.Context, raw []model.RawJob, candidates []model.Candidate) (*model.MatchReport, error) {
	jobs, stats, err := p.normalizer.Normalize(raw)
	if err != nil {
		p.logger.Info("no usable jobs in batch", zap.Int("received", stats.Received), zap.Int("malformed", stats.Malformed),
			zap.Int("missing_id", stats.MissingID), zap.Int("missing_description", stats.MissingDescription))
		p.metrics.RecordBatchFailed(metrics.BatchTypeBulk, stats.Received, err)
		return nil, err
	}
	return p.run(ctx, metrics.BatchTypeBulk, jobs, stats, candidates)
}

// MatchJobs is Match for callers already holding canonical jobs. They go through the
// same filtering and deduplication as raw records.
func (p *Pipeline) MatchJobs(ctx context.Context, jobs []model.Job, candidates []model.Candidate) (*model.MatchReport, error) {
	kept, stats, err := p.normalizer.FromJobs(jobs)
	if err != nil {
		p.metrics.RecordBatchFailed(metrics.BatchTypeBulk, stats.Received, err)
		return nil, err
	}
	return p.run(ctx, metrics.BatchTypeBulk, kept, stats, candidates)
}

// MatchDescription matches a single free-text description. The job gets a generated id.
func (p *Pipeline) MatchDescription(ctx context.Context, description string, candidates []model.Candidate) (*model.TopMatch, error) {
	job := model.Job{ID: uuid.NewString(), Description: description}
	kept, stats, err := p.normalizer.FromJobs([]model.Job{job})
	if err != nil {
		p.metrics.RecordBatchFailed(metrics.BatchTypeSingle, 1, err)
		return nil, errors.NewNoJobsError("job description is empty")
	}

	report, err := p.run(ctx, metrics.BatchTypeSingle, kept, stats, candidates)
	if err != nil {
		return nil, err
	}
	return &report.TopMatches[0], nil
}

// run executes every stage after normalization and records the outcome.
func (p *Pipeline) run(ctx context.Context, batchType metrics.BatchType, jobs []model.Job, stats normalize.Stats, candidates []model.Candidate) (*model.MatchReport, error) {
	start := time.Now()
	batchID := uuid.NewString()
	log := logger.WithFields(p.logger, zap.String(logger.FieldBatch, batchID))

	report, counters, err := p.execute(ctx, log, jobs, candidates)
	duration := time.Since(start)
	stats.MissingDescription += counters.emptyJobs
	stats.Kept -= counters.emptyJobs
	if err != nil {
		log.Warn("match failed", zap.Error(err), zap.Duration("duration", duration))
		p.metrics.RecordBatchFailed(batchType, stats.Received, err)
		return nil, err
	}

	log.Info("match completed",
		zap.String("type", string(batchType)),
		zap.Int("jobs_received", stats.Received),
		zap.Int("jobs_kept", stats.Kept),
		zap.Int("jobs_dropped", stats.Dropped()),
		zap.Int("candidates", counters.candidates),
		zap.Int64("pairs_scored", counters.scored),
		zap.Int64("pairs_pruned", counters.pruned),
		zap.Duration("duration", duration),
	)
	p.metrics.RecordBatchCompleted(batchType, metrics.BatchStats{
		JobsReceived: stats.Received,
		JobsKept:     stats.Kept,
		Candidates:   counters.candidates,
		PairsScored:  counters.scored,
		PairsPruned:  counters.pruned,
		Duration:     duration,
	})
	return report, nil
}

type runCounters struct {
	emptyJobs  int
	candidates int
	scored     int64
	pruned     int64
}

// descriptionLogLimit bounds how much of a skipped description is logged.
const descriptionLogLimit = 80

func (p *Pipeline) execute(ctx context.Context, log *zap.Logger, jobs []model.Job, candidates []model.Candidate) (report *model.MatchReport, counters runCounters, err error) {
	defer func() {
		if r := recover(); r != nil {
			report = nil
			err = errors.NewInternalError("match", fmt.Errorf("panic: %v", r))
		}
	}()

	tok := features.TokenizerFor(p.settings)
	transformed := p.transformer.Transform(jobs)
	jobTexts := make([]string, len(transformed))
	for i, job := range transformed {
		jobTexts[i] = job.Text
	}
	jobTokens, err := p.tokenize(ctx, tok, jobTexts)
	if err != nil {
		return nil, counters, err
	}

	// A description made only of markup, punctuation or stop words has no terms left.
	kept := make([]model.TransformedJob, 0, len(transformed))
	texts := make([]string, 0, len(transformed)+len(candidates))
	docs := make([][]string, 0, len(transformed)+len(candidates))
	for i, job := range transformed {
		if len(jobTokens[i]) == 0 {
			counters.emptyJobs++
			log.Debug("skipping job without usable terms",
				zap.String(logger.FieldJobID, job.JobID),
				zap.String("description", logger.Truncate(jobs[i].Description, descriptionLogLimit)))
			continue
		}
		kept = append(kept, job)
		texts = append(texts, job.Text)
		docs = append(docs, jobTokens[i])
	}
	if len(kept) == 0 {
		return nil, counters, errors.NewNoJobsError(fmt.Sprintf("none of the %d jobs has usable terms after cleanup", len(jobs)))
	}

	pool := store.NewCandidatePool(candidates)
	counters.candidates = pool.Len()
	if pool.Duplicates > 0 || pool.MissingID > 0 {
		log.Debug("candidate pool cleaned", zap.Int("duplicates", pool.Duplicates), zap.Int("missing_id", pool.MissingID))
	}
	if pool.Len() == 0 && p.settings.RequireCandidates {
		return nil, counters, errors.NewNoCandidatesError("candidate pool is empty")
	}

	profiles := make([]string, pool.Len())
	for i, candidate := range pool.Candidates {
		profiles[i] = p.transformer.CleanText(candidate.ProfileText)
	}
	profileTokens, err := p.tokenize(ctx, tok, profiles)
	if err != nil {
		return nil, counters, err
	}
	texts = append(texts, profiles...)
	docs = append(docs, profileTokens...)

	vectors, err := p.vectorize(ctx, log, tok, texts, docs)
	if err != nil {
		return nil, counters, err
	}
	jobVectors := vectors[:len(kept)]
	candidateVectors := vectors[len(kept):]

	matches, scored, err := p.rankAll(ctx, kept, pool, jobVectors, candidateVectors)
	if err != nil {
		return nil, counters, err
	}
	counters.scored = scored
	counters.pruned = int64(len(kept))*int64(pool.Len()) - scored

	return &model.MatchReport{TopMatches: matches}, counters, nil
}

// distinctTexts maps every text to a slot shared by equal texts. first[slot] is the index
// of the first text using that slot.
func distinctTexts(texts []string) (slotOf []int, first []int) {
	slotOf = make([]int, len(texts))
	seen := make(map[string]int, len(texts))
	for i, text := range texts {
		slot, ok := seen[text]
		if !ok {
			slot = len(first)
			seen[text] = slot
			first = append(first, i)
		}
		slotOf[i] = slot
	}
	return slotOf, first
}

// tokenize tokenizes each distinct text once. The result is aligned with texts.
func (p *Pipeline) tokenize(ctx context.Context, tok *tokenizer.Tokenizer, texts []string) ([][]string, error) {
	slotOf, first := distinctTexts(texts)
	tokens := make([][]string, len(first))
	if err := p.forEach(ctx, "tokenize", len(first), func(i int) {
		tokens[i] = tok.Tokenize(texts[first[i]])
	}); err != nil {
		return nil, err
	}

	out := make([][]string, len(texts))
	for i, slot := range slotOf {
		out[i] = tokens[slot]
	}
	return out, nil
}

// vectorize builds corpus statistics over docs and weighs each distinct text once.
// docs[i] holds the tokens of texts[i]; the returned slice is aligned with both.
func (p *Pipeline) vectorize(ctx context.Context, log *zap.Logger, tok *tokenizer.Tokenizer, texts []string, docs [][]string) ([]features.Vector, error) {
	corpus := features.NewCorpus(docs)
	log.Debug("corpus built", zap.Int("documents", corpus.NumDocs()), zap.Int("vocabulary", corpus.VocabularySize()))

	extractor, err := features.NewExtractor(p.settings, tok, corpus)
	if err != nil {
		return nil, errors.NewInternalError("feature extraction", err)
	}

	slotOf, first := distinctTexts(texts)
	weighed := make([]features.Vector, len(first))
	if err := p.forEach(ctx, "feature extraction", len(first), func(i int) {
		weighed[i] = extractor.Weigh(docs[first[i]])
	}); err != nil {
		return nil, err
	}

	vectors := make([]features.Vector, len(texts))
	for i, slot := range slotOf {
		vectors[i] = weighed[slot]
	}
	return vectors, nil
}

// rankAll scores each job against the candidates sharing at least one term with it and
// ranks the full pool. Candidates outside that subset keep a score of exactly 0.
func (p *Pipeline) rankAll(ctx context.Context, jobs []model.TransformedJob, pool *store.CandidatePool, jobVectors, candidateVectors []features.Vector) ([]model.TopMatch, int64, error) {
	ii := index.Build(candidateVectors)
	matches := make([]model.TopMatch, len(jobs))
	var scored int64

	err := p.forEach(ctx, "scoring", len(jobs), func(i int) {
		entries := make([]model.CandidateScore, pool.Len())
		for id, candidate := range pool.Candidates {
			entries[id] = model.CandidateScore{CandID: candidate.ID}
		}

		overlapping := ii.Candidates(jobVectors[i])
		for _, id := range overlapping {
			entries[id].MatchScore = p.scorer.Score(jobVectors[i], candidateVectors[id])
		}
		atomic.AddInt64(&scored, int64(len(overlapping)))

		matches[i] = ranking.TopK(jobs[i].JobID, entries, p.settings.TopK)
	})
	if err != nil {
		return nil, 0, err
	}
	return matches, scored, nil
}

// forEach runs fn for 0..n-1 on at most settings.Workers goroutines. Each call writes only
// its own index, so results never depend on scheduling. A panic in fn or a cancelled
// context aborts the whole batch with an internal_error.
func (p *Pipeline) forEach(ctx context.Context, stage string, n int, fn func(i int)) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.settings.Workers)

	for i := 0; i < n; i++ {
		if gCtx.Err() != nil {
			break
		}
		i := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.NewInternalError(stage, fmt.Errorf("panic: %v", r))
				}
			}()
			if err := gCtx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		return nil
	}
	if matchErr, ok := errors.AsMatchError(err); ok {
		return matchErr
	}
	return errors.NewInternalError(stage, err)
}
