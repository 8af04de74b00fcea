// Package normalize validates raw job records and turns them into canonical model.Job values.
package normalize

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-job-matcher/internal/errors"
	"github.com/gcbaptista/go-job-matcher/internal/logger"
	"github.com/gcbaptista/go-job-matcher/model"
)

// Stats describes what happened to a batch of raw jobs.
type Stats struct {
	Received           int `json:"received"`
	Kept               int `json:"kept"`
	Malformed          int `json:"malformed"`
	MissingID          int `json:"missing_id"`
	MissingDescription int `json:"missing_description"`
	Duplicates         int `json:"duplicates"`
}

// Dropped returns the number of records that did not survive normalization.
func (s Stats) Dropped() int {
	return s.Received - s.Kept
}

// rawJobFields lists every key a job record may carry. Several aliases exist for the same
// concept because uploads come from different exporters (English and Portuguese).
type rawJobFields struct {
	ID           string      `mapstructure:"id"`
	JobID        string      `mapstructure:"job_id"`
	Codigo       string      `mapstructure:"codigo"`
	Code         string      `mapstructure:"code"`
	Description  string      `mapstructure:"description"`
	Descricao    string      `mapstructure:"descricao"`
	Text         string      `mapstructure:"text"`
	Title        string      `mapstructure:"title"`
	Titulo       string      `mapstructure:"titulo"`
	Requirements interface{} `mapstructure:"requirements"`
	Requisitos   interface{} `mapstructure:"requisitos"`
}

// descriptionLogLimit bounds how much of a skipped description is logged.
const descriptionLogLimit = 80

// IDKeys are the record keys recognised as a job identifier, in priority order.
var IDKeys = []string{"id", "job_id", "codigo", "code"}

// Normalizer is the validation boundary between external job records and the pipeline.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a Normalizer. A nil logger disables logging.
func NewNormalizer(log *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger.OrNop(log)}
}

// Normalize is a convenience wrapper using a Normalizer without logging.
func Normalize(raw []model.RawJob) ([]model.Job, Stats, error) {
	return NewNormalizer(nil).Normalize(raw)
}

// Normalize validates every record, skipping those without a usable id or description,
// and deduplicates by id keeping the first occurrence. It returns a no_jobs MatchError
// only when nothing survives.
func (n *Normalizer) Normalize(raw []model.RawJob) ([]model.Job, Stats, error) {
	stats := Stats{Received: len(raw)}
	jobs := make([]model.Job, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for i, record := range raw {
		if record == nil {
			stats.Malformed++
			n.logger.Debug("skipping malformed job record", zap.Int("index", i))
			continue
		}

		job, err := decodeJob(record)
		if err != nil {
			stats.Malformed++
			n.logger.Debug("skipping malformed job record", zap.Int("index", i), zap.Error(err))
			continue
		}
		if job.ID == "" {
			stats.MissingID++
			n.logger.Debug("skipping job record without id", zap.Int("index", i))
			continue
		}
		if job.Description == "" {
			stats.MissingDescription++
			n.logger.Debug("skipping job record without description", zap.Int("index", i), zap.String(logger.FieldJobID, job.ID))
			continue
		}
		if _, dup := seen[job.ID]; dup {
			stats.Duplicates++
			n.logger.Debug("skipping duplicate job id", zap.Int("index", i), zap.String(logger.FieldJobID, job.ID),
				zap.String("description", logger.Truncate(job.Description, descriptionLogLimit)))
			continue
		}

		seen[job.ID] = struct{}{}
		jobs = append(jobs, job)
	}

	stats.Kept = len(jobs)
	if len(jobs) == 0 {
		if stats.Received == 0 {
			return nil, stats, errors.NewNoJobsError("job collection is empty")
		}
		return nil, stats, errors.NewNoJobsError(fmt.Sprintf("none of the %d job records had a usable id and description", stats.Received))
	}

	return jobs, stats, nil
}

// FromJobs runs already canonical jobs through the same checks as raw records, so callers
// holding model.Job values get identical filtering and deduplication.
func (n *Normalizer) FromJobs(jobs []model.Job) ([]model.Job, Stats, error) {
	raw := make([]model.RawJob, len(jobs))
	for i, job := range jobs {
		raw[i] = model.RawJob{"id": job.ID, "title": job.Title, "description": job.Description}
	}
	return n.Normalize(raw)
}

func decodeJob(record model.RawJob) (model.Job, error) {
	var fields rawJobFields
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &fields,
	})
	if err != nil {
		return model.Job{}, err
	}
	if err := decoder.Decode(map[string]interface{}(record)); err != nil {
		return model.Job{}, err
	}

	requirements, err := flattenText(firstNonNil(fields.Requirements, fields.Requisitos))
	if err != nil {
		return model.Job{}, fmt.Errorf("requirements: %w", err)
	}

	description := firstNonEmpty(fields.Description, fields.Descricao, fields.Text)
	if description != "" && requirements != "" {
		description = description + "\n" + requirements
	}

	return model.Job{
		ID:          firstNonEmpty(fields.ID, fields.JobID, fields.Codigo, fields.Code),
		Title:       firstNonEmpty(fields.Title, fields.Titulo),
		Description: description,
	}, nil
}

// flattenText accepts a string or a list of strings and joins it into one text.
func flattenText(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case []string:
		return strings.TrimSpace(strings.Join(v, "\n")), nil
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return "", fmt.Errorf("unexpected %T in list", item)
			}
			parts = append(parts, s)
		}
		return strings.TrimSpace(strings.Join(parts, "\n")), nil
	default:
		return "", fmt.Errorf("unexpected type %T", value)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func firstNonNil(values ...interface{}) interface{} {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
