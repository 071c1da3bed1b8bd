package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
	"github.com/studyforge/studyforge-cli/internal/core/ports/driven"
	"github.com/studyforge/studyforge-cli/internal/core/ports/driving"
	"github.com/studyforge/studyforge-cli/internal/logger"
)

// Pipeline implements the full document-to-plan flow: load, segment,
// extract topics, merge, rank passages, assemble, persist.
type Pipeline struct {
	source    driven.DocumentSource
	store     driven.PlanStore
	cfg       Config
	sections  *SectionDetector
	splitter  *Splitter
	extractor *Extractor
	merger    *Merger
	ranker    *Ranker
	assembler *Assembler
}

var _ driving.PlanService = (*Pipeline)(nil)

// NewPipeline wires the pipeline stages. cfg is validated here so every
// stage can trust its parameters.
func NewPipeline(source driven.DocumentSource, store driven.PlanStore, llm driven.LLMService, cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Extraction has no degraded mode without a completion service; fail
	// construction rather than the first Process call.
	if llm == nil {
		return nil, fmt.Errorf("pipeline: %w", domain.ErrLLMUnavailable)
	}

	splitter, err := NewSplitter(cfg.Chunking.UnitSize, cfg.Chunking.OverlapSize, cfg.Chunking.Separator)
	if err != nil {
		return nil, err
	}
	ranker, err := NewRanker(llm, cfg.Passages)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		source:    source,
		store:     store,
		cfg:       cfg,
		sections:  NewSectionDetector(),
		splitter:  splitter,
		extractor: NewExtractor(llm, cfg.Extraction),
		merger:    NewMerger(cfg.Topics),
		ranker:    ranker,
		assembler: NewAssembler(),
	}, nil
}

// Process runs the pipeline over the file at path. A cached plan for the
// same content and configuration is returned directly unless opts.Force is
// set. Unit-level extraction failures degrade coverage but never fail the
// run; only load errors, empty input, and persistence errors are fatal.
func (p *Pipeline) Process(ctx context.Context, path string, opts driving.ProcessOptions) (*domain.LearningPlan, error) {
	doc, err := p.source.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	key := CacheKey(doc.Content, p.cfg)
	if !opts.Force {
		if cached, err := p.store.GetPlanByCacheKey(ctx, key); err == nil {
			logger.Info("Found cached plan %s for %s", cached.ID, doc.Title)
			return cached, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("cache lookup: %w", err)
		}
	}

	units, err := p.segment(doc)
	if err != nil {
		return nil, err
	}

	candidates := p.extractor.Extract(ctx, doc, units)
	topics := p.merger.Merge(candidates)
	if len(topics) == 0 {
		return nil, fmt.Errorf("document %q: %w", doc.Title, domain.ErrNoTopics)
	}

	passages, err := p.ranker.Passages(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("passage split: %w", err)
	}

	logger.Section("Passage Ranking")
	passagesByTopic := make(map[string][]domain.Passage, len(topics))
	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ranked := p.ranker.Rank(ctx, topic, passages, opts.UseLLMRanking)
		passagesByTopic[topic.ID] = ranked
		logger.Debug("Topic %q: %d passages", topic.Title, len(ranked))
	}

	meta := domain.PlanMeta{
		Title:     doc.Title,
		Author:    doc.Author,
		FileName:  doc.URI,
		WordCount: doc.WordCount,
	}
	plan, err := p.assembler.Assemble(meta, key, topics, passagesByTopic)
	if err != nil {
		return nil, err
	}

	if err := p.store.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	logger.Info("Plan %s saved with %d topics", plan.ID, len(plan.Topics))
	return plan, nil
}

// Get retrieves a stored plan by ID.
func (p *Pipeline) Get(ctx context.Context, id string) (*domain.LearningPlan, error) {
	return p.store.GetPlan(ctx, id)
}

// List returns summaries of all stored plans.
func (p *Pipeline) List(ctx context.Context) ([]domain.LearningPlan, error) {
	return p.store.ListPlans(ctx)
}

// segment produces extraction units, preferring structural sections when
// the document exposes a plausible heading structure and falling back to
// size-based splitting otherwise.
func (p *Pipeline) segment(doc *domain.Document) ([]domain.Unit, error) {
	logger.Section("Segmentation")

	sections := p.sections.Detect(doc.Content)
	if Accept(sections, p.cfg.Sections) {
		logger.Info("Using %d detected sections", len(sections))
		return SectionUnits(doc.Content, sections), nil
	}
	if len(sections) > 0 {
		logger.Debug("Rejecting %d detected sections, falling back to size-based units", len(sections))
	}

	units, err := p.splitter.Split(doc.Content)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("document %q: %w", doc.Title, domain.ErrNoUnits)
	}
	logger.Info("Split into %d units of up to %d characters", len(units), p.cfg.Chunking.UnitSize)
	return units, nil
}
