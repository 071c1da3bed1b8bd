package domain

import (
	"strings"
	"time"
)

// Document is the decoded plain-text input to the pipeline.
// It is produced by a normaliser from a source file and never mutated
// afterwards; all pipeline stages share it read-only.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path).
	URI string

	// Title is the human-readable title.
	Title string

	// Author is the document author, when known.
	Author string

	// Content is the full text content after normalisation.
	Content string

	// WordCount is the number of whitespace-separated words in Content.
	WordCount int

	// LoadedAt is when the document was read.
	LoadedAt time.Time
}

// Unit is a bounded slice of a Document used as one extraction input.
// Offsets are byte positions into Document.Content.
//
// Invariants: End-Start == len(Text); units produced by a splitter are
// sorted by Start, cover [0, len(content)) with no gaps, and consecutive
// units may overlap by a configured amount.
type Unit struct {
	// Text is the unit content, equal to content[Start:End].
	Text string

	// Start is the byte offset of the unit within the document.
	Start int

	// End is the byte offset one past the last byte of the unit.
	End int

	// Index is the ordinal position of the unit in the sequence.
	Index int

	// Title is an optional heading, set when the unit came from a
	// detected section rather than character splitting.
	Title string
}

// Section is a logical division of a document found by heading detection.
type Section struct {
	// Title is the detected heading text.
	Title string

	// Start is the byte offset where the section body begins.
	Start int

	// End is the byte offset one past the section body.
	End int
}

// Importance grades how central a topic is to the document.
type Importance int

// Importance levels, ordered so that a larger value outranks a smaller one.
const (
	ImportanceLow Importance = iota
	ImportanceMedium
	ImportanceHigh
)

// String returns the canonical label for the importance level.
func (i Importance) String() string {
	switch i {
	case ImportanceHigh:
		return "High"
	case ImportanceLow:
		return "Low"
	default:
		return "Medium"
	}
}

// ParseImportance maps a free-form label to an Importance level.
// Unknown labels map to ImportanceMedium, matching how completion output
// is treated when the model invents its own grading.
func ParseImportance(s string) Importance {
	switch normalizeLabel(s) {
	case "high", "critical", "essential":
		return ImportanceHigh
	case "low", "minor", "optional":
		return ImportanceLow
	default:
		return ImportanceMedium
	}
}

// MarshalJSON serialises the importance as its label so persisted plans
// stay readable.
func (i Importance) MarshalJSON() ([]byte, error) {
	return []byte(`"` + i.String() + `"`), nil
}

// UnmarshalJSON accepts any label ParseImportance understands.
func (i *Importance) UnmarshalJSON(data []byte) error {
	*i = ParseImportance(strings.Trim(string(data), `"`))
	return nil
}

// TopicCandidate is an unreconciled topic proposal extracted from a single
// unit. Candidates exist only within one pipeline run; the merger collapses
// them into canonical Topics.
type TopicCandidate struct {
	// Title is the proposed topic title.
	Title string

	// Description explains what the topic covers.
	Description string

	// Importance is the grading reported by the extraction call.
	Importance Importance

	// SourceUnit is the index of the unit the candidate came from.
	SourceUnit int

	// Keywords are optional retrieval hints reported with the candidate.
	Keywords []string
}

// Topic is a final, deduplicated, document-wide learning concept.
// Topics are immutable once created by the merger; the ID is stable for a
// given title so downstream conversation and exercise state can key on it.
type Topic struct {
	// ID is the stable identifier, derived from the normalized title.
	ID string `json:"id"`

	// Position is the 1-based ordinal in document order.
	Position int `json:"position"`

	// Title is the canonical topic title.
	Title string `json:"title"`

	// Description is the most detailed description among merged candidates.
	Description string `json:"description"`

	// Importance is the highest level observed among merged candidates.
	Importance Importance `json:"importance"`
}

// Passage is a ranked supporting excerpt retrieved for a specific Topic.
// Passages are created fresh per (topic, strategy) ranking call and are not
// persisted independently of the topic they were ranked for.
type Passage struct {
	// Text is the passage content.
	Text string `json:"text"`

	// Start is the byte offset of the passage within the document.
	Start int `json:"start"`

	// Score is the relevance score under the ranking strategy used.
	Score float64 `json:"score"`

	// Rank is the 1-based position after sorting.
	Rank int `json:"rank"`
}
