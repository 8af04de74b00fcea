package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonAlphanumericRegex matches sequences of characters that are neither letters nor digits.
var nonAlphanumericRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// acronymRegex handles cases like "HTTPRequest" -> "HTTP Request"
var acronymRegex = regexp.MustCompile(`(\p{Lu}+)(\p{Lu}\p{Ll})`)

// camelCaseRegex handles cases like "theOffice" -> "the Office" or "myAPI" -> "my API"
var camelCaseRegex = regexp.MustCompile(`([\p{Ll}\p{N}])(\p{Lu})`)

// Options controls how text is turned into tokens.
type Options struct {
	SplitCamelCase   bool
	FoldAccents      bool
	MinTokenLength   int      // in runes; tokens shorter than this are dropped
	DisableStopWords bool     // keep the built-in stop words
	ExtraStopWords   []string // appended to the built-in list
}

// Tokenizer turns free text into feature tokens. It is safe for concurrent use.
type Tokenizer struct {
	opts      Options
	stopWords map[string]struct{}
}

// New creates a Tokenizer. Extra stop words go through the same folding as the text.
func New(opts Options) *Tokenizer {
	t := &Tokenizer{opts: opts, stopWords: make(map[string]struct{})}
	if !opts.DisableStopWords {
		for _, w := range defaultStopWords {
			t.stopWords[t.fold(w)] = struct{}{}
		}
	}
	for _, w := range opts.ExtraStopWords {
		w = strings.TrimSpace(strings.ToLower(w))
		if w != "" {
			t.stopWords[t.fold(w)] = struct{}{}
		}
	}
	return t
}

// Tokenize converts a string into a slice of feature tokens: camel case split (if enabled),
// lowercased, accent folded (if enabled), split on non-alphanumerics, with stop words and
// short tokens removed. Order and duplicates are preserved since they carry term frequency.
func (t *Tokenizer) Tokenize(text string) []string {
	if t.opts.SplitCamelCase {
		text = SplitCamelCase(text)
	}
	text = t.fold(strings.ToLower(text))

	split := nonAlphanumericRegex.Split(text, -1)

	tokens := make([]string, 0, len(split))
	for _, s := range split {
		if s == "" {
			continue
		}
		if utf8.RuneCountInString(s) < t.opts.MinTokenLength {
			continue
		}
		if _, stop := t.stopWords[s]; stop {
			continue
		}
		tokens = append(tokens, s)
	}
	return tokens
}

func (t *Tokenizer) fold(s string) string {
	if !t.opts.FoldAccents {
		return s
	}
	return FoldAccents(s)
}

// SplitCamelCase inserts a space at camelCase/PascalCase and acronym boundaries.
func SplitCamelCase(text string) string {
	processedText := acronymRegex.ReplaceAllString(text, "$1 $2")
	return camelCaseRegex.ReplaceAllString(processedText, "$1 $2")
}

// FoldAccents removes combining marks, e.g. "programação" -> "programacao".
func FoldAccents(s string) string {
	// transform.Chain keeps state, so a fresh one is built per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
