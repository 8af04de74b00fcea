package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	settings := MatcherSettings{}
	settings.ApplyDefaults()

	if settings.TopK != DefaultTopK {
		t.Errorf("Expected TopK %d, got %d", DefaultTopK, settings.TopK)
	}
	if settings.Strategy != StrategyTFIDF {
		t.Errorf("Expected strategy %s, got %s", StrategyTFIDF, settings.Strategy)
	}
	if settings.Workers <= 0 {
		t.Errorf("Expected positive worker count, got %d", settings.Workers)
	}
	if settings.StopWords == nil {
		t.Error("Expected StopWords to be initialized")
	}
}

func TestApplyDefaults_NormalizesStrategy(t *testing.T) {
	settings := MatcherSettings{Strategy: "  BM25 "}
	settings.ApplyDefaults()

	if settings.Strategy != StrategyBM25 {
		t.Errorf("Expected strategy %q, got %q", StrategyBM25, settings.Strategy)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name           string
		settings       MatcherSettings
		expectedErrors int
	}{
		{
			name:           "defaults are valid",
			settings:       DefaultSettings(),
			expectedErrors: 0,
		},
		{
			name: "unknown strategy",
			settings: MatcherSettings{
				TopK: 3, Strategy: "embeddings", Workers: 1, MinTokenLength: 1, BM25K1: 1.2, BM25B: 0.75,
			},
			expectedErrors: 1,
		},
		{
			name: "negative top k",
			settings: MatcherSettings{
				TopK: -1, Strategy: StrategyTFIDF, Workers: 1, MinTokenLength: 1, BM25K1: 1.2, BM25B: 0.75,
			},
			expectedErrors: 1,
		},
		{
			name: "bm25 b out of range",
			settings: MatcherSettings{
				TopK: 3, Strategy: StrategyBM25, Workers: 1, MinTokenLength: 1, BM25K1: 1.2, BM25B: 1.5,
			},
			expectedErrors: 1,
		},
		{
			name: "duplicate and empty stop words",
			settings: MatcherSettings{
				TopK: 3, Strategy: StrategyTFIDF, Workers: 1, MinTokenLength: 1, BM25K1: 1.2, BM25B: 0.75,
				StopWords: []string{"remote", "Remote", " "},
			},
			expectedErrors: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflicts := tt.settings.Validate()
			if len(conflicts) != tt.expectedErrors {
				t.Errorf("Expected %d errors, got %d: %v", tt.expectedErrors, len(conflicts), conflicts)
			}
		})
	}
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("MATCHER_PORT", "9090")
	t.Setenv("MATCHER_MATCHER_TOP_K", "5")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5, cfg.Matcher.TopK)
	assert.Equal(t, StrategyTFIDF, cfg.Matcher.Strategy)
	assert.Equal(t, "JSONs/candidates.json", cfg.CandidatesPath)
	assert.True(t, cfg.Matcher.RequireCandidates)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matcher.yaml")
	content := "port: \"7000\"\nmatcher:\n  strategy: bm25\n  top_k: 10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, StrategyBM25, cfg.Matcher.Strategy)
	assert.Equal(t, 10, cfg.Matcher.TopK)
}

func TestLoad_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matcher.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matcher:\n  strategy: word2vec\n"), 0600))

	_, err := Load(viper.New(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid matcher settings")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
