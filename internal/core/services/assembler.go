package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
)

// Assembler joins merged topics with their ranked passages into a
// persistable learning plan.
type Assembler struct{}

// NewAssembler creates an assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble builds a plan from topics and their ranked passages. Topics are
// emitted in position order. Every topic must have a passage entry, even an
// empty one; a missing entry means ranking was skipped for that topic and
// the plan would silently lose material.
func (a *Assembler) Assemble(meta domain.PlanMeta, cacheKey string, topics []domain.Topic, passagesByTopic map[string][]domain.Passage) (*domain.LearningPlan, error) {
	entries := make([]domain.TopicPassages, 0, len(topics))
	for _, topic := range topics {
		passages, ok := passagesByTopic[topic.ID]
		if !ok {
			return nil, fmt.Errorf("topic %q has no ranked passages: %w", topic.Title, domain.ErrMissingPassages)
		}
		entries = append(entries, domain.TopicPassages{
			Topic:    topic,
			Passages: passages,
		})
	}

	return &domain.LearningPlan{
		ID:        uuid.NewString(),
		CacheKey:  cacheKey,
		Meta:      meta,
		Topics:    entries,
		CreatedAt: time.Now().UTC(),
	}, nil
}
