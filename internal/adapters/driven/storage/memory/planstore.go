// Package memory provides in-memory implementations of driven port
// interfaces, used for tests and throwaway runs where persistence across
// invocations is not wanted.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
	"github.com/studyforge/studyforge-cli/internal/core/ports/driven"
)

// Ensure PlanStore implements the interface.
var _ driven.PlanStore = (*PlanStore)(nil)

// PlanStore is an in-memory implementation of driven.PlanStore.
type PlanStore struct {
	mu    sync.RWMutex
	plans map[string]domain.LearningPlan
}

// NewPlanStore creates a new in-memory plan store.
func NewPlanStore() *PlanStore {
	return &PlanStore{
		plans: make(map[string]domain.LearningPlan),
	}
}

// SavePlan stores a plan, replacing any existing plan with the same cache
// key.
func (s *PlanStore) SavePlan(_ context.Context, plan *domain.LearningPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.plans {
		if existing.CacheKey == plan.CacheKey {
			delete(s.plans, id)
		}
	}
	s.plans[plan.ID] = *plan
	return nil
}

// GetPlan retrieves a plan by ID.
func (s *PlanStore) GetPlan(_ context.Context, id string) (*domain.LearningPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &plan, nil
}

// GetPlanByCacheKey retrieves the plan for a content + configuration
// fingerprint.
func (s *PlanStore) GetPlanByCacheKey(_ context.Context, key string) (*domain.LearningPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, plan := range s.plans {
		if plan.CacheKey == key {
			return &plan, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListPlans returns plan summaries, newest first.
func (s *PlanStore) ListPlans(_ context.Context) ([]domain.LearningPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plans := make([]domain.LearningPlan, 0, len(s.plans))
	for _, plan := range s.plans {
		summary := plan
		summary.Topics = nil
		plans = append(plans, summary)
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

// DeletePlan removes a plan.
func (s *PlanStore) DeletePlan(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.plans, id)
	return nil
}
