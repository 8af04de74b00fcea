// Package config provides configuration structures for the job matcher.
// It defines the matching settings and the application level configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Feature weighting strategies understood by the matcher.
const (
	StrategyTFIDF = "tfidf"
	StrategyBM25  = "bm25"
)

// DefaultTopK is the shortlist length returned per job when none is configured.
const DefaultTopK = 3

// MatcherSettings contains all configuration options for a matching run.
// Settings are read-only once a pipeline has been built from them.
type MatcherSettings struct {
	TopK              int      `json:"top_k" mapstructure:"top_k" validate:"gte=1,lte=1000"`                   // Number of candidates kept per job
	Strategy          string   `json:"strategy" mapstructure:"strategy" validate:"oneof=tfidf bm25"`           // Term weighting used by the feature extractor
	Workers           int      `json:"workers" mapstructure:"workers" validate:"gte=1,lte=256"`                // Upper bound on concurrent extraction/scoring goroutines
	MinTokenLength    int      `json:"min_token_length" mapstructure:"min_token_length" validate:"gte=1"`      // Tokens shorter than this are dropped
	StopWords         []string `json:"stop_words" mapstructure:"stop_words"`                                   // Extra stop words on top of the built-in list
	DisableStopWords  bool     `json:"disable_stop_words" mapstructure:"disable_stop_words"`                   // Keep the built-in stop words as features
	FoldAccents       bool     `json:"fold_accents" mapstructure:"fold_accents"`                               // "programação" and "programacao" become the same token
	SplitCamelCase    bool     `json:"split_camel_case" mapstructure:"split_camel_case"`                       // "NodeJS" -> "node", "js"
	RequireCandidates bool     `json:"require_candidates" mapstructure:"require_candidates"`                   // Empty pool fails with no_candidates instead of empty shortlists
	BM25K1            float64  `json:"bm25_k1" mapstructure:"bm25_k1" validate:"gt=0"`                         // Term frequency saturation for the bm25 strategy
	BM25B             float64  `json:"bm25_b" mapstructure:"bm25_b" validate:"gte=0,lte=1"`                    // Length normalization for the bm25 strategy
}

// DefaultSettings returns the settings used by the HTTP layer and CLI when no
// configuration is supplied.
func DefaultSettings() MatcherSettings {
	settings := MatcherSettings{
		FoldAccents:       true,
		SplitCamelCase:    true,
		RequireCandidates: true,
	}
	settings.ApplyDefaults()
	return settings
}

// ApplyDefaults applies default values to the settings
func (settings *MatcherSettings) ApplyDefaults() {
	if settings.TopK == 0 {
		settings.TopK = DefaultTopK
	}
	if settings.Strategy == "" {
		settings.Strategy = StrategyTFIDF
	}
	settings.Strategy = strings.ToLower(strings.TrimSpace(settings.Strategy))
	if settings.Workers == 0 {
		settings.Workers = 4
	}
	if settings.MinTokenLength == 0 {
		settings.MinTokenLength = 1
	}
	if settings.BM25K1 == 0 {
		settings.BM25K1 = 1.2
	}
	if settings.BM25B == 0 {
		settings.BM25B = 0.75
	}

	// Initialize empty slices if nil to prevent nil pointer issues
	if settings.StopWords == nil {
		settings.StopWords = []string{}
	}
}

var validate = validator.New()

// Validate checks the settings and returns one message per problem found.
// An empty result means the settings are usable.
func (settings *MatcherSettings) Validate() []string {
	var conflicts []string

	if err := validate.Struct(settings); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				conflicts = append(conflicts, describeFieldError(fe))
			}
		} else {
			conflicts = append(conflicts, err.Error())
		}
	}

	conflicts = append(conflicts, checkDuplicates("stop_words", settings.StopWords)...)

	for _, word := range settings.StopWords {
		if strings.TrimSpace(word) == "" {
			conflicts = append(conflicts, "Stop word cannot be empty or whitespace-only")
		}
	}

	return conflicts
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("Invalid value '%v' for %s (must be one of: %s)", fe.Value(), fe.Field(), fe.Param())
	case "gte", "gt", "lte":
		return fmt.Sprintf("Invalid value '%v' for %s (must be %s %s)", fe.Value(), fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("Invalid value '%v' for %s (%s)", fe.Value(), fe.Field(), fe.Tag())
	}
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, values []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, value := range values {
		key := strings.ToLower(value)
		if seen[key] {
			errors = append(errors, "Duplicate value '"+value+"' found in "+fieldName)
		}
		seen[key] = true
	}

	return errors
}
