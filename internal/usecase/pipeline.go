package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/ports"
	"BiasFeed/internal/scoring"
)

const defaultTopSources = 5

// BeliefContexter renders belief text for a set of categories.
type BeliefContexter interface {
	BeliefContext(categories []string) string
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ContentSource[domain.Article]
	Engine     *scoring.Engine
	Beliefs    BeliefContexter
	TopSources int
	Logger     *slog.Logger
}

// Pipeline implements fetch -> score -> rank -> summarize for article batches.
type Pipeline struct {
	source     ports.ContentSource[domain.Article]
	engine     *scoring.Engine
	beliefs    BeliefContexter
	topSources int
	logger     *slog.Logger
}

// PipelineResult is one processed batch.
type PipelineResult struct {
	Articles []domain.Article
	Summary  scoring.Summary
	Belief   string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	top := deps.TopSources
	if top <= 0 {
		top = defaultTopSources
	}
	return &Pipeline{
		source:     deps.Source,
		engine:     deps.Engine,
		beliefs:    deps.Beliefs,
		topSources: top,
		logger:     deps.Logger,
	}
}

// Run fetches through the content source, attaches analysis, ranks and summarizes.
func (p *Pipeline) Run(ctx context.Context, req domain.FetchRequest) (PipelineResult, error) {
	if p.source == nil {
		return PipelineResult{}, fmt.Errorf("content source is not configured")
	}

	articles, err := p.source.Fetch(ctx, req)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("fetch %s: %w", req.Kind, err)
	}

	belief := ""
	if p.beliefs != nil {
		belief = p.beliefs.BeliefContext(req.Categories)
	}

	scored, err := p.engine.Annotate(ctx, articles, scoring.BeliefContext{Belief: belief, Bias: req.Bias})
	if err != nil {
		return PipelineResult{}, fmt.Errorf("score articles: %w", err)
	}

	ranked := scoring.Rank(scored)
	summary := scoring.Summarize(ranked, p.topSources)
	p.debug("pipeline done", "kind", req.Kind, "articles", len(ranked), "analyzed", summary.Analyzed)

	return PipelineResult{Articles: ranked, Summary: summary, Belief: belief}, nil
}

func (p *Pipeline) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
