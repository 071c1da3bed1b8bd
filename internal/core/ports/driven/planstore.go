package driven

import (
	"context"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
)

// PlanStore persists learning plans.
// Plans are written wholesale: SavePlan fully replaces any prior plan for the
// same cache key rather than merging into it.
type PlanStore interface {
	// SavePlan stores a plan, replacing any existing plan with the same
	// cache key.
	SavePlan(ctx context.Context, plan *domain.LearningPlan) error

	// GetPlan retrieves a plan by ID.
	GetPlan(ctx context.Context, id string) (*domain.LearningPlan, error)

	// GetPlanByCacheKey retrieves the plan produced from a given document
	// content + configuration fingerprint. Returns domain.ErrNotFound when
	// no such plan exists.
	GetPlanByCacheKey(ctx context.Context, key string) (*domain.LearningPlan, error)

	// ListPlans returns summaries of all stored plans.
	ListPlans(ctx context.Context) ([]domain.LearningPlan, error)

	// DeletePlan removes a plan.
	DeletePlan(ctx context.Context, id string) error
}
