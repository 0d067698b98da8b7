package usecase

import (
	"context"
	"sync"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/ports"
)

// sourceFunc adapts a function to ports.ContentSource.
type sourceFunc[T any] func(ctx context.Context, req domain.FetchRequest) ([]T, error)

func (f sourceFunc[T]) Fetch(ctx context.Context, req domain.FetchRequest) ([]T, error) {
	return f(ctx, req)
}

// emptyProvider is a live provider that never has content.
type emptyProvider[T any] struct {
	mu    sync.Mutex
	calls int
}

func (p *emptyProvider[T]) Name() string { return "live" }

func (p *emptyProvider[T]) Fetch(context.Context, domain.FetchRequest) ([]T, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return nil, nil
}

func (p *emptyProvider[T]) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type staticBeliefs string

func (s staticBeliefs) BeliefContext([]string) string { return string(s) }

type fakeScorer struct {
	match float64
}

func (f fakeScorer) Score(_ context.Context, _ domain.ScoreRequest) (domain.ScoreResult, error) {
	m := f.match
	return domain.ScoreResult{Stance: domain.StanceSupport, BiasMatch: &m}, nil
}

func (f fakeScorer) ScoreBatch(ctx context.Context, reqs []domain.ScoreRequest) ([]domain.ScoreResult, error) {
	out := make([]domain.ScoreResult, len(reqs))
	for i, r := range reqs {
		out[i], _ = f.Score(ctx, r)
	}
	return out, nil
}

type generatorFunc func(ctx context.Context, prompt ports.ChatPrompt) (domain.ChatMessage, error)

func (g generatorFunc) Reply(ctx context.Context, prompt ports.ChatPrompt) (domain.ChatMessage, error) {
	return g(ctx, prompt)
}
