package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
	"github.com/studyforge/studyforge-cli/internal/core/ports/driven"
	"github.com/studyforge/studyforge-cli/internal/logger"
)

// stopwords are excluded from keyword scoring. Topic titles and
// descriptions are dominated by connective words that match everywhere and
// would drown the discriminating terms.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "her": {}, "was": {}, "one": {},
	"our": {}, "out": {}, "has": {}, "have": {}, "this": {}, "that": {},
	"with": {}, "from": {}, "they": {}, "will": {}, "what": {}, "when": {},
	"which": {}, "their": {}, "about": {}, "would": {}, "there": {},
	"these": {}, "into": {}, "more": {}, "other": {}, "some": {},
	"such": {}, "than": {}, "then": {}, "them": {}, "were": {}, "been": {},
	"being": {}, "also": {}, "each": {}, "between": {}, "through": {},
	"during": {}, "before": {}, "after": {}, "under": {}, "over": {},
	"most": {}, "very": {}, "chapter": {}, "section": {}, "introduction": {},
}

// Ranker selects the passages of a document most relevant to each topic.
// Two strategies are available: a local keyword-frequency score, and an
// LLM relevance judgement with the keyword score as prefilter and fallback.
type Ranker struct {
	llm      driven.LLMService
	cfg      PassageConfig
	splitter *Splitter
}

// NewRanker creates a ranker. llm may be nil, in which case only the
// keyword strategy is available.
func NewRanker(llm driven.LLMService, cfg PassageConfig) (*Ranker, error) {
	if cfg.Size <= 0 {
		cfg.Size = DefaultPassageSize
	}
	if cfg.OverlapRatio < 0 || cfg.OverlapRatio >= 1 {
		cfg.OverlapRatio = DefaultPassageOverlap
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.PrefilterLimit <= 0 {
		cfg.PrefilterLimit = DefaultPrefilterLimit
	}

	splitter, err := NewSplitter(cfg.Size, int(float64(cfg.Size)*cfg.OverlapRatio), DefaultSeparator)
	if err != nil {
		return nil, fmt.Errorf("passage splitter: %w", err)
	}
	return &Ranker{llm: llm, cfg: cfg, splitter: splitter}, nil
}

// Passages splits a document into scoring-granularity passages. The split
// is independent of the unit split used for extraction.
func (r *Ranker) Passages(content string) ([]domain.Passage, error) {
	units, err := r.splitter.Split(content)
	if err != nil {
		return nil, err
	}
	passages := make([]domain.Passage, len(units))
	for i, u := range units {
		passages[i] = domain.Passage{Text: u.Text, Start: u.Start}
	}
	return passages, nil
}

// Rank returns the top passages for a topic, ordered best first with Rank
// assigned from 1. useLLM selects the LLM strategy; any LLM failure falls
// back to the keyword score so ranking never fails the pipeline.
func (r *Ranker) Rank(ctx context.Context, topic domain.Topic, passages []domain.Passage, useLLM bool) []domain.Passage {
	if len(passages) == 0 {
		return nil
	}
	if useLLM && r.llm != nil {
		if ranked, err := r.rankWithLLM(ctx, topic, passages); err == nil {
			return ranked
		} else {
			logger.Info("LLM ranking failed for %q, falling back to keyword scoring: %v", topic.Title, err)
		}
	}
	return r.rankByKeywords(topic, passages)
}

// rankByKeywords scores each passage by keyword occurrence count and keeps
// the TopK best. Keywords come from the topic title and description. Score
// ties and zero scores resolve by document offset so early passages fill the
// remaining slots.
func (r *Ranker) rankByKeywords(topic domain.Topic, passages []domain.Passage) []domain.Passage {
	keywords := topicKeywords(topic)

	scored := make([]domain.Passage, len(passages))
	copy(scored, passages)
	for i := range scored {
		scored[i].Score = float64(keywordScore(scored[i].Text, keywords))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Start < scored[j].Start
	})

	if len(scored) > r.cfg.TopK {
		scored = scored[:r.cfg.TopK]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}

// rankWithLLM asks the model which numbered passages best cover the topic.
// Large passage sets are cut down to PrefilterLimit by keyword score first
// so the prompt stays within context limits.
func (r *Ranker) rankWithLLM(ctx context.Context, topic domain.Topic, passages []domain.Passage) ([]domain.Passage, error) {
	candidates := passages
	if len(candidates) > r.cfg.PrefilterLimit {
		keywords := topicKeywords(topic)
		pre := make([]domain.Passage, len(candidates))
		copy(pre, candidates)
		for i := range pre {
			pre[i].Score = float64(keywordScore(pre[i].Text, keywords))
		}
		sort.SliceStable(pre, func(i, j int) bool {
			if pre[i].Score != pre[j].Score {
				return pre[i].Score > pre[j].Score
			}
			return pre[i].Start < pre[j].Start
		})
		pre = pre[:r.cfg.PrefilterLimit]
		// Restore document order so the prompt numbering follows the text.
		sort.SliceStable(pre, func(i, j int) bool { return pre[i].Start < pre[j].Start })
		candidates = pre
	}

	raw, err := r.llm.Generate(ctx, passageRelevancePrompt(topic, candidates, r.cfg.TopK), driven.GenerateOptions{
		MaxTokens:   256,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	numbers := parsePassageNumbers(raw)
	if len(numbers) == 0 {
		return nil, fmt.Errorf("no passage numbers in response: %w", domain.ErrMalformedResponse)
	}

	var ranked []domain.Passage
	for pos, n := range numbers {
		if n < 1 || n > len(candidates) {
			continue
		}
		p := candidates[n-1]
		p.Score = float64(len(numbers) - pos)
		ranked = append(ranked, p)
		if len(ranked) == r.cfg.TopK {
			break
		}
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("all passage numbers out of range: %w", domain.ErrMalformedResponse)
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// topicKeywords extracts deduplicated scoring terms from a topic's title
// and description, dropping stopwords and short words.
func topicKeywords(topic domain.Topic) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(topic.Title + " " + topic.Description)) {
		word = strings.Trim(word, ".,;:!?\"'()[]")
		if len(word) <= 3 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}

// keywordScore counts keyword occurrences in a passage.
func keywordScore(text string, keywords []string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, kw := range keywords {
		score += strings.Count(lower, kw)
	}
	return score
}
