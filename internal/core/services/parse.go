package services

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
)

// CandidateParse is the tagged result of parsing a completion response:
// either Ok with the parsed candidates, or malformed with the raw text kept
// for diagnostics. There is no implicit coercion of half-valid output.
type CandidateParse struct {
	Ok         bool
	Candidates []domain.TopicCandidate
	Raw        string
}

// topicPayload mirrors the JSON shape the extraction prompt requests.
type topicPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Importance  string   `json:"importance"`
	Keywords    []string `json:"keywords"`
}

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// parseTopicResponse extracts a JSON array of topic candidates from raw
// completion output. Models wrap the array in prose, markdown fences, and
// leave trailing commas; all of that is stripped before unmarshalling.
// Candidates without a title are dropped; zero usable candidates means the
// response is malformed.
func parseTopicResponse(raw string, sourceUnit int) CandidateParse {
	payload := extractJSONArray(raw)
	if payload == "" {
		return CandidateParse{Raw: raw}
	}

	var topics []topicPayload
	if err := json.Unmarshal([]byte(payload), &topics); err != nil {
		return CandidateParse{Raw: raw}
	}

	candidates := make([]domain.TopicCandidate, 0, len(topics))
	for _, t := range topics {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			continue
		}
		candidates = append(candidates, domain.TopicCandidate{
			Title:       title,
			Description: strings.TrimSpace(t.Description),
			Importance:  domain.ParseImportance(t.Importance),
			SourceUnit:  sourceUnit,
			Keywords:    t.Keywords,
		})
	}
	if len(candidates) == 0 {
		return CandidateParse{Raw: raw}
	}
	return CandidateParse{Ok: true, Candidates: candidates}
}

// parsePassageNumbers extracts 1-based passage numbers from a relevance
// response, in the order the model listed them. Returns nil when nothing
// number-like can be found.
func parsePassageNumbers(raw string) []int {
	payload := extractJSONArray(raw)
	if payload == "" {
		return nil
	}

	var numbers []float64
	if err := json.Unmarshal([]byte(payload), &numbers); err != nil {
		return nil
	}

	out := make([]int, 0, len(numbers))
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		v := int(n)
		if v < 1 || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// extractJSONArray returns the first balanced JSON array in raw, with
// markdown fences removed and trailing commas repaired. Empty string when no
// array is present.
func extractJSONArray(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.IndexByte(cleaned, '[')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return trailingComma.ReplaceAllString(cleaned[start:i+1], "$1")
			}
		}
	}
	return ""
}
