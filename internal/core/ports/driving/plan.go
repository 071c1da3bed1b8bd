// Package driving provides interfaces exposed to primary adapters (CLI).
package driving

import (
	"context"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
)

// ProcessOptions controls a single pipeline run.
type ProcessOptions struct {
	// Force regenerates the plan even when a cached plan exists for the
	// same document content and configuration.
	Force bool

	// UseLLMRanking selects completion-based passage ranking instead of
	// the deterministic keyword strategy.
	UseLLMRanking bool
}

// PlanService is the driving port of the pipeline: ingest a document and
// produce (or retrieve) its learning plan.
type PlanService interface {
	// Process runs the full segmentation, extraction, merge, and ranking
	// pipeline over the file at path. The caller receives either a complete
	// plan (possibly with fewer topics than the configured minimum) or a
	// single fatal error; per-unit completion failures surface only as
	// reduced coverage.
	Process(ctx context.Context, path string, opts ProcessOptions) (*domain.LearningPlan, error)

	// Get retrieves a stored plan by ID.
	Get(ctx context.Context, id string) (*domain.LearningPlan, error)

	// List returns summaries of all stored plans.
	List(ctx context.Context) ([]domain.LearningPlan, error)
}
