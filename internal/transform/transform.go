// Package transform flattens canonical jobs and candidate profiles into the text blobs
// consumed by feature extraction.
package transform

import (
	"html"
	"regexp"
	"strings"

	"github.com/gcbaptista/go-job-matcher/internal/tokenizer"
	"github.com/gcbaptista/go-job-matcher/model"
)

var (
	markupTagRegex = regexp.MustCompile(`<[^<>]*>`)
	urlRegex       = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	bulletRegex    = regexp.MustCompile(`[•·▪►■◦*]+`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// Transformer cleans text. The zero value lowercases, strips markup and collapses whitespace.
type Transformer struct {
	SplitCamelCase bool
}

// Transform maps jobs 1:1 to TransformedJob with the default Transformer.
func Transform(jobs []model.Job) []model.TransformedJob {
	return Transformer{SplitCamelCase: true}.Transform(jobs)
}

// Transform maps jobs 1:1 to TransformedJob. The title, when present, is prepended to the
// description. No job is filtered here.
func (t Transformer) Transform(jobs []model.Job) []model.TransformedJob {
	out := make([]model.TransformedJob, len(jobs))
	for i, job := range jobs {
		text := job.Description
		if job.Title != "" {
			text = job.Title + "\n" + job.Description
		}
		out[i] = model.TransformedJob{JobID: job.ID, Text: t.CleanText(text)}
	}
	return out
}

// CleanText decodes HTML entities, removes markup tags, URLs and bullet glyphs, splits camel
// case (when enabled), lowercases and collapses whitespace.
// It is idempotent: CleanText(CleanText(s)) == CleanText(s).
func (t Transformer) CleanText(text string) string {
	for {
		cleaned := t.cleanOnce(text)
		if cleaned == text {
			return cleaned
		}
		text = cleaned
	}
}

func (t Transformer) cleanOnce(text string) string {
	text = html.UnescapeString(text)
	text = markupTagRegex.ReplaceAllString(text, " ")
	text = urlRegex.ReplaceAllString(text, " ")
	text = bulletRegex.ReplaceAllString(text, " ")
	if t.SplitCamelCase {
		text = tokenizer.SplitCamelCase(text)
	}
	text = strings.ToLower(text)
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CleanText cleans text with the default Transformer.
func CleanText(text string) string {
	return Transformer{SplitCamelCase: true}.CleanText(text)
}
