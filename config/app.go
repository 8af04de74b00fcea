package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding configuration keys,
// e.g. MATCHER_PORT or MATCHER_MATCHER_TOP_K.
const EnvPrefix = "MATCHER"

// AppConfig is the configuration of the matcher binary.
type AppConfig struct {
	Port           string          `mapstructure:"port"`
	CandidatesPath string          `mapstructure:"candidates"`
	MaxUploadBytes int64           `mapstructure:"max_upload_bytes"`
	Debug          bool            `mapstructure:"debug"`
	JSONLogs       bool            `mapstructure:"json"`
	Matcher        MatcherSettings `mapstructure:"matcher"`
}

// SetDefaults registers default values for every key on v.
func SetDefaults(v *viper.Viper) {
	defaults := DefaultSettings()

	v.SetDefault("port", "8080")
	v.SetDefault("candidates", "JSONs/candidates.json")
	v.SetDefault("max_upload_bytes", int64(10<<20))
	v.SetDefault("debug", false)
	v.SetDefault("json", false)
	v.SetDefault("matcher.top_k", defaults.TopK)
	v.SetDefault("matcher.strategy", defaults.Strategy)
	v.SetDefault("matcher.workers", defaults.Workers)
	v.SetDefault("matcher.min_token_length", defaults.MinTokenLength)
	v.SetDefault("matcher.stop_words", []string{})
	v.SetDefault("matcher.disable_stop_words", defaults.DisableStopWords)
	v.SetDefault("matcher.fold_accents", defaults.FoldAccents)
	v.SetDefault("matcher.split_camel_case", defaults.SplitCamelCase)
	v.SetDefault("matcher.require_candidates", defaults.RequireCandidates)
	v.SetDefault("matcher.bm25_k1", defaults.BM25K1)
	v.SetDefault("matcher.bm25_b", defaults.BM25B)
}

// Load reads an optional config file, environment variables and defaults into an AppConfig.
// An empty path skips the file; a missing explicit file is an error.
func Load(v *viper.Viper, path string) (*AppConfig, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Matcher.ApplyDefaults()
	if conflicts := cfg.Matcher.Validate(); len(conflicts) > 0 {
		return nil, fmt.Errorf("invalid matcher settings: %s", strings.Join(conflicts, "; "))
	}

	return &cfg, nil
}
