package services

import (
	"fmt"
	"strings"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
)

// Splitter cuts text into overlapping units with character-precise offsets.
// Cuts prefer a separator boundary (paragraph break) near the size limit,
// then a sentence boundary, then a hard cut, so typical prose is never cut
// mid-word while pathological input (no separators at all) still terminates.
//
// Splitting is a pure function of (text, size, overlap, separator): the same
// input always yields the same units.
type Splitter struct {
	unitSize    int
	overlapSize int
	separator   string
}

// NewSplitter validates the sizing parameters and returns a splitter.
func NewSplitter(unitSize, overlapSize int, separator string) (*Splitter, error) {
	if unitSize <= 0 {
		return nil, fmt.Errorf("%w: unit size must be positive, got %d", domain.ErrInvalidConfig, unitSize)
	}
	if overlapSize < 0 {
		return nil, fmt.Errorf("%w: overlap size must not be negative, got %d", domain.ErrInvalidConfig, overlapSize)
	}
	if overlapSize >= unitSize {
		return nil, fmt.Errorf("%w: overlap size %d must be smaller than unit size %d",
			domain.ErrInvalidConfig, overlapSize, unitSize)
	}
	if separator == "" {
		separator = DefaultSeparator
	}
	return &Splitter{unitSize: unitSize, overlapSize: overlapSize, separator: separator}, nil
}

// Split produces the ordered unit sequence covering [0, len(text)).
//
// Guarantees for every result:
//   - units[0].Start == 0 and units[len-1].End == len(text)
//   - units[i+1].Start <= units[i].End (no gaps)
//   - unit.End - unit.Start == len(unit.Text)
//   - with overlapSize == 0, units[i+1].Start == units[i].End exactly
func (s *Splitter) Split(text string) ([]domain.Unit, error) {
	if len(text) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	var units []domain.Unit
	start := 0
	for {
		end := start + s.unitSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = s.cut(text, start, end)
		}

		units = append(units, domain.Unit{
			Text:  text[start:end],
			Start: start,
			End:   end,
			Index: len(units),
		})
		if end == len(text) {
			break
		}
		start = s.nextStart(text, start, end)
	}
	return units, nil
}

// cut picks the best boundary at or before the size limit. The search window
// covers the trailing half of the would-be unit; a boundary earlier than that
// would waste too much of the unit budget.
func (s *Splitter) cut(text string, start, limit int) int {
	window := limit - s.unitSize/2
	if window < start {
		window = start
	}

	// Preferred: end the unit just after the last paragraph separator.
	if i := strings.LastIndex(text[window:limit], s.separator); i >= 0 {
		if b := window + i + len(s.separator); b > start {
			return b
		}
	}

	// Fallback: end just after the last sentence boundary.
	if b := lastSentenceEnd(text[window:limit]); b > 0 && window+b > start {
		return window + b
	}

	// Hard cut. Guarantees termination on separator-free input.
	return limit
}

// nextStart computes where the following unit begins: prevEnd - overlap,
// clamped back to the nearest preceding whitespace so the overlap text starts
// at a clean token instead of mid-word. Clamping never reaches back to or
// before the previous start, which keeps the sequence strictly advancing.
func (s *Splitter) nextStart(text string, prevStart, prevEnd int) int {
	if s.overlapSize == 0 {
		return prevEnd
	}

	pos := prevEnd - s.overlapSize
	if pos <= prevStart {
		// Overlap would swallow the whole previous unit; skip it here.
		return prevEnd
	}

	// Search back at most one extra overlap's worth for a clean boundary.
	lo := pos - s.overlapSize
	if lo <= prevStart {
		lo = prevStart + 1
	}
	for i := pos - 1; i >= lo; i-- {
		if isSpace(text[i]) {
			return i + 1
		}
	}
	return pos
}

// lastSentenceEnd returns the offset just past the final sentence terminator
// in window, or 0 when none is present. A terminator is '.', '!' or '?'
// followed by whitespace.
func lastSentenceEnd(window string) int {
	for i := len(window) - 2; i >= 0; i-- {
		c := window[i]
		if (c == '.' || c == '!' || c == '?') && isSpace(window[i+1]) {
			return i + 2
		}
	}
	return 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}
