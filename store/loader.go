package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/gcbaptista/go-job-matcher/internal/errors"
	"github.com/gcbaptista/go-job-matcher/internal/normalize"
	"github.com/gcbaptista/go-job-matcher/model"
)

// candidateIDKeys are the record keys recognised as a candidate identifier.
var candidateIDKeys = []string{"cand_id", "id", "codigo"}

type rawCandidateFields struct {
	CandID      string      `mapstructure:"cand_id"`
	ID          string      `mapstructure:"id"`
	Codigo      string      `mapstructure:"codigo"`
	ProfileText interface{} `mapstructure:"profile_text"`
	Text        interface{} `mapstructure:"text"`
	CV          interface{} `mapstructure:"cv"`
	CVPt        interface{} `mapstructure:"cv_pt"`
	Resume      interface{} `mapstructure:"resume"`
}

// LoadCandidates decodes a candidates document: a JSON array of records, or an object of
// records keyed by candidate id. Records that are not objects or cannot be decoded are
// skipped; a record without profile text is kept with an empty profile.
func LoadCandidates(r io.Reader) ([]model.Candidate, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}

	records, err := normalize.ParseRecords(data, "candidates", candidateIDKeys)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.Candidate, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		candidate, err := decodeCandidate(record)
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func decodeCandidate(record map[string]interface{}) (model.Candidate, error) {
	var fields rawCandidateFields
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &fields,
	})
	if err != nil {
		return model.Candidate{}, err
	}
	if err := decoder.Decode(record); err != nil {
		return model.Candidate{}, err
	}

	id := fields.CandID
	for _, alt := range []string{fields.ID, fields.Codigo} {
		if strings.TrimSpace(id) != "" {
			break
		}
		id = alt
	}

	text := ""
	for _, value := range []interface{}{fields.ProfileText, fields.Text, fields.CV, fields.CVPt, fields.Resume} {
		if text = profileText(value); text != "" {
			break
		}
	}

	return model.Candidate{ID: strings.TrimSpace(id), ProfileText: text}, nil
}

// profileText accepts a string or a list of strings; anything else yields no text.
func profileText(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.TrimSpace(strings.Join(parts, "\n"))
	default:
		return ""
	}
}

// FileSource loads candidates from a JSON file on every call, so edits to the file are
// picked up without a restart.
type FileSource struct {
	Path string
}

// NewFileSource creates a new FileSource
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Candidates reads and decodes the candidate file. A missing file is reported as a
// no_candidates MatchError.
func (s *FileSource) Candidates(ctx context.Context) ([]model.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.Path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNoCandidatesError("candidate file not found")
		}
		return nil, fmt.Errorf("failed to open candidate file %s: %w", s.Path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	return LoadCandidates(file)
}

// StaticSource serves a fixed, already materialized candidate collection.
type StaticSource []model.Candidate

// Candidates returns the collection.
func (s StaticSource) Candidates(_ context.Context) ([]model.Candidate, error) {
	return []model.Candidate(s), nil
}
