package services

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
	"github.com/studyforge/studyforge-cli/internal/logger"
)

// topicNamespace seeds deterministic topic IDs. The same normalized title
// always produces the same UUID, so downstream state keyed on a topic
// survives reprocessing.
var topicNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("studyforge:topic"))

// containmentMinLen guards the substring check in title grouping: a very
// short normalized title ("art", "the") would otherwise swallow unrelated
// longer ones. Exact matches are not subject to the guard.
const containmentMinLen = 5

// Merger collapses topic candidates from all units into a canonical,
// deduplicated, bounded topic list. Merging is deterministic for a given
// candidate sequence: grouping, capping, and ordering all derive from
// candidate content and first appearance, never from call timing.
type Merger struct {
	cfg TopicConfig
}

// NewMerger creates a merger with the given topic bounds.
func NewMerger(cfg TopicConfig) *Merger {
	if cfg.TargetMin <= 0 {
		cfg.TargetMin = DefaultTopicMin
	}
	if cfg.TargetMax < cfg.TargetMin {
		cfg.TargetMax = DefaultTopicMax
	}
	return &Merger{cfg: cfg}
}

// topicGroup accumulates candidates that describe the same concept.
type topicGroup struct {
	key         string // normalized title of the first member
	title       string
	description string
	importance  domain.Importance
	firstSeen   int // index of the first member in the candidate sequence
}

// Merge deduplicates candidates into final topics.
//
// Two candidates belong to the same group when their normalized titles are
// equal, or when one title contains the other (both at least
// containmentMinLen long). The group keeps the most detailed description and
// the highest importance observed. When more than TargetMax groups survive,
// the highest-importance groups win, ties broken by first appearance; the
// final list is then re-ordered by first appearance so topics follow the
// document's natural progression. Fewer than TargetMin groups are returned
// as-is: the merger never fabricates topics.
func (m *Merger) Merge(candidates []domain.TopicCandidate) []domain.Topic {
	logger.Section("Topic Merge")
	logger.Debug("Candidates: %d, target range: [%d, %d]", len(candidates), m.cfg.TargetMin, m.cfg.TargetMax)

	var groups []*topicGroup
	for idx, cand := range candidates {
		norm := domain.NormalizeTitle(cand.Title)
		if norm == "" {
			continue
		}

		group := findGroup(groups, norm)
		if group == nil {
			groups = append(groups, &topicGroup{
				key:         norm,
				title:       cand.Title,
				description: cand.Description,
				importance:  cand.Importance,
				firstSeen:   idx,
			})
			continue
		}

		if len(cand.Description) > len(group.description) {
			group.description = cand.Description
		}
		if cand.Importance > group.importance {
			group.importance = cand.Importance
		}
	}

	logger.Debug("Merged into %d groups", len(groups))

	if len(groups) > m.cfg.TargetMax {
		groups = capGroups(groups, m.cfg.TargetMax)
		logger.Debug("Capped to %d highest-importance groups", len(groups))
	}
	if len(groups) < m.cfg.TargetMin {
		logger.Info("Only %d topics found (target minimum %d); returning a short plan", len(groups), m.cfg.TargetMin)
	}

	topics := make([]domain.Topic, 0, len(groups))
	for i, g := range groups {
		topics = append(topics, domain.Topic{
			ID:          uuid.NewSHA1(topicNamespace, []byte(g.key)).String(),
			Position:    i + 1,
			Title:       g.title,
			Description: g.description,
			Importance:  g.importance,
		})
	}
	return topics
}

// findGroup locates the group a normalized title belongs to.
func findGroup(groups []*topicGroup, norm string) *topicGroup {
	for _, g := range groups {
		if g.key == norm {
			return g
		}
		if len(norm) >= containmentMinLen && len(g.key) >= containmentMinLen &&
			(strings.Contains(g.key, norm) || strings.Contains(norm, g.key)) {
			return g
		}
	}
	return nil
}

// capGroups keeps the limit highest-importance groups (ties by first
// appearance) and restores document order among the survivors.
func capGroups(groups []*topicGroup, limit int) []*topicGroup {
	ranked := make([]*topicGroup, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].importance != ranked[j].importance {
			return ranked[i].importance > ranked[j].importance
		}
		return ranked[i].firstSeen < ranked[j].firstSeen
	})
	ranked = ranked[:limit]

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].firstSeen < ranked[j].firstSeen
	})
	return ranked
}
