package domain

import (
	"strings"
	"time"
	"unicode"
)

// PlanMeta is the document metadata carried into a persisted plan.
type PlanMeta struct {
	// Title is the document title.
	Title string `json:"title"`

	// Author is the document author, when known.
	Author string `json:"author,omitempty"`

	// FileName is the base name of the source file.
	FileName string `json:"file_name"`

	// WordCount is the word count of the source document.
	WordCount int `json:"word_count"`
}

// TopicPassages pairs a topic with its ranked supporting passages.
type TopicPassages struct {
	Topic    Topic     `json:"topic"`
	Passages []Passage `json:"passages"`
}

// LearningPlan is the single unit of persistence: document metadata plus the
// ordered topics and their ranked passages. A plan is written wholesale and
// fully replaced on reprocessing; there is no incremental merge with a prior
// plan.
type LearningPlan struct {
	// ID is the unique identifier for the plan.
	ID string `json:"id"`

	// CacheKey fingerprints the document content and pipeline configuration
	// that produced this plan. Reprocessing the same content with the same
	// configuration reuses the stored plan instead of recomputing it.
	CacheKey string `json:"cache_key"`

	// Meta describes the source document.
	Meta PlanMeta `json:"meta"`

	// Topics holds the canonical topics in document order, each with its
	// ranked passages.
	Topics []TopicPassages `json:"topics"`

	// CreatedAt is when the plan was generated.
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeTitle reduces a topic title to its comparison form: lowercase,
// punctuation removed, whitespace collapsed to single spaces. Two candidate
// titles normalising to the same string (or one containing the other) are
// treated as the same concept by the merger.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	space := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		case !space:
			b.WriteRune(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
