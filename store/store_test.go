package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	matchErrors "github.com/gcbaptista/go-job-matcher/internal/errors"
	"github.com/gcbaptista/go-job-matcher/model"
)

func TestNewCandidatePool(t *testing.T) {
	input := []model.Candidate{
		{ID: "C2", ProfileText: "java"},
		{ID: " C1 ", ProfileText: "python"},
		{ID: "", ProfileText: "anonymous"},
		{ID: "C2", ProfileText: "duplicate"},
		{ID: "C3"},
	}

	pool := NewCandidatePool(input)

	require.Equal(t, 3, pool.Len())
	assert.Equal(t, 1, pool.Duplicates)
	assert.Equal(t, 1, pool.MissingID)

	assert.Equal(t, map[string]uint32{"C2": 0, "C1": 1, "C3": 2}, pool.ExternalIDtoInternalID)
	assert.Equal(t, "java", pool.Candidates[0].ProfileText, "first occurrence wins")
	assert.Equal(t, "C1", pool.Candidates[1].ID)
	assert.Equal(t, " C1 ", input[1].ID, "input must not be modified")
}

func TestLoadCandidates(t *testing.T) {
	t.Run("array with aliases", func(t *testing.T) {
		doc := `[
			{"cand_id": "C1", "profile_text": "experienced python developer"},
			{"id": 2, "cv_pt": "desenvolvedor java"},
			{"codigo": "C3", "text": ["sql", "python"]},
			{"cand_id": "C4"},
			"not an object"
		]`

		candidates, err := LoadCandidates(strings.NewReader(doc))
		require.NoError(t, err)

		assert.Equal(t, []model.Candidate{
			{ID: "C1", ProfileText: "experienced python developer"},
			{ID: "2", ProfileText: "desenvolvedor java"},
			{ID: "C3", ProfileText: "sql\npython"},
			{ID: "C4", ProfileText: ""},
		}, candidates)
	})

	t.Run("keyed object", func(t *testing.T) {
		candidates, err := LoadCandidates(strings.NewReader(`{"31000": {"cv": "engenheiro de dados"}, "31001": {"cv": "analista"}}`))
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, "31000", candidates[0].ID)
		assert.Equal(t, "analista", candidates[1].ProfileText)
	})

	t.Run("invalid document", func(t *testing.T) {
		_, err := LoadCandidates(strings.NewReader(`42`))
		assert.True(t, errors.Is(err, matchErrors.ErrInvalidInput))
	})
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "candidates.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"cand_id":"C1","profile_text":"go"}]`), 0600))

	candidates, err := NewFileSource(path).Candidates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Candidate{{ID: "C1", ProfileText: "go"}}, candidates)

	_, err = NewFileSource(filepath.Join(dir, "absent.json")).Candidates(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, matchErrors.ErrNoCandidates))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileSource(path).Candidates(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{{ID: "C1"}}
	candidates, err := src.Candidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}
