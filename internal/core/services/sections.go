package services

import (
	"regexp"
	"strings"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
)

// Heading heuristics. These are inherently noisy on text extracted from
// page-based formats: running headers, captions, and emphasis lines all look
// like headings. The pipeline therefore only trusts the result when the
// detected count falls inside the configured plausibility band.
var (
	chapterHeading = regexp.MustCompile(`(?i)^(?:chapter|part)\s+(?:\d+|[ivxlc]+)\b.{0,80}$`)
	numberHeading  = regexp.MustCompile(`^\d+(?:\.\d+)*\.?\s+\S.{0,70}$`)
	capsHeading    = regexp.MustCompile(`^[A-Z][A-Z0-9 ,'\-]{14,59}$`)
)

// Titles of front and back matter that carry no learning content.
var skipTitleKeywords = []string{
	"table of contents",
	"contents",
	"copyright",
	"preface",
	"foreword",
	"acknowledgment",
	"about the author",
	"revision history",
	"index",
	"glossary",
	"bibliography",
	"references",
}

// SectionDetector finds logical sections in a document by scanning for
// heading-shaped lines. It never fails; an implausible or empty result is
// simply not used by the caller.
type SectionDetector struct{}

// NewSectionDetector returns a detector.
func NewSectionDetector() *SectionDetector {
	return &SectionDetector{}
}

// Detect returns the sections found in text, ordered by offset. Front and
// back matter (contents, copyright, index ...) is filtered out. Each section
// spans from its heading line to the start of the next heading; text before
// the first heading belongs to no section.
func (d *SectionDetector) Detect(text string) []domain.Section {
	type heading struct {
		title string
		start int
	}

	var headings []heading
	offset := 0
	for offset < len(text) {
		next := len(text)
		line := text[offset:]
		if rel := strings.IndexByte(line, '\n'); rel >= 0 {
			line = line[:rel]
			next = offset + rel + 1
		}

		if trimmed := strings.TrimSpace(line); isHeadingLine(trimmed) {
			headings = append(headings, heading{title: trimmed, start: offset})
		}
		offset = next
	}

	sections := make([]domain.Section, 0, len(headings))
	for i, h := range headings {
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1].start
		}
		if skipSectionTitle(h.title) {
			continue
		}
		sections = append(sections, domain.Section{
			Title: h.title,
			Start: h.start,
			End:   end,
		})
	}
	return sections
}

// Accept reports whether a detected section count is plausible enough to use
// instead of character splitting. Counts outside the band are segmentation
// anomalies: not errors, just a signal that the heuristic misfired.
func Accept(sections []domain.Section, cfg SectionConfig) bool {
	n := len(sections)
	return n >= cfg.MinSections && n <= cfg.MaxSections
}

// SectionUnits converts accepted sections to extraction units. No overlap is
// applied between them: chapter boundaries are semantically real breaks,
// unlike arbitrary character cuts.
func SectionUnits(text string, sections []domain.Section) []domain.Unit {
	units := make([]domain.Unit, 0, len(sections))
	for _, sec := range sections {
		units = append(units, domain.Unit{
			Text:  text[sec.Start:sec.End],
			Start: sec.Start,
			End:   sec.End,
			Index: len(units),
			Title: sec.Title,
		})
	}
	return units
}

func isHeadingLine(line string) bool {
	if line == "" || len(line) > 90 {
		return false
	}
	return chapterHeading.MatchString(line) ||
		numberHeading.MatchString(line) ||
		capsHeading.MatchString(line)
}

func skipSectionTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range skipTitleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
