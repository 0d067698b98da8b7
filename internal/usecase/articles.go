package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/ports"
	"BiasFeed/internal/scoring"
	"BiasFeed/internal/state"
)

// ArticleFeedDeps wires the article controller. A nil InitialBias means neutral.
type ArticleFeedDeps struct {
	Pipeline         *Pipeline
	Token            func() string
	RequireAuth      bool
	LimitPerCategory int
	InitialBias      *float64
	Logger           *slog.Logger
	Sink             ports.EventSink
}

// ArticleFeed drives category aggregation and article search through one state machine.
type ArticleFeed struct {
	machine          *state.Machine[domain.Article]
	pipeline         *Pipeline
	token            func() string
	requireAuth      bool
	limitPerCategory int
	logger           *slog.Logger

	mu      sync.Mutex
	summary scoring.Summary
}

// NewArticleFeed builds the controller in the empty ready state.
func NewArticleFeed(deps ArticleFeedDeps) *ArticleFeed {
	token := deps.Token
	if token == nil {
		token = func() string { return "" }
	}
	bias := domain.NeutralBias
	if deps.InitialBias != nil {
		bias = domain.NormalizeBias(*deps.InitialBias)
	}
	return &ArticleFeed{
		machine:          state.New[domain.Article]("articles", bias, deps.Sink),
		pipeline:         deps.Pipeline,
		token:            token,
		requireAuth:      deps.RequireAuth,
		limitPerCategory: deps.LimitPerCategory,
		logger:           deps.Logger,
	}
}

// State returns the current snapshot.
func (f *ArticleFeed) State() state.State[domain.Article] {
	return f.machine.Snapshot()
}

// Subscribe registers a transition listener.
func (f *ArticleFeed) Subscribe(fn func(state.State[domain.Article])) func() {
	return f.machine.Subscribe(fn)
}

// Summary returns the summary of the last applied batch.
func (f *ArticleFeed) Summary() scoring.Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summary
}

// AggregateByCategories replaces the collection with articles for the categories.
func (f *ArticleFeed) AggregateByCategories(ctx context.Context, categories []string, bias float64) (state.State[domain.Article], error) {
	cats := cleanList(categories)
	bias = domain.NormalizeBias(bias)
	return f.replace(ctx, domain.FetchRequest{
		Kind:             domain.FetchCategories,
		Categories:       cats,
		Bias:             bias,
		LimitPerCategory: f.limitPerCategory,
	}, func(PipelineResult) []string { return cats })
}

// Search replaces the collection with articles matching query. Covered topics
// are the union of the results' topics.
func (f *ArticleFeed) Search(ctx context.Context, query string, bias float64) (state.State[domain.Article], error) {
	bias = domain.NormalizeBias(bias)
	return f.replace(ctx, domain.FetchRequest{
		Kind:  domain.FetchSearch,
		Query: strings.TrimSpace(query),
		Bias:  bias,
	}, func(res PipelineResult) []string {
		var topics []string
		for _, a := range res.Articles {
			topics = append(topics, a.Topics...)
		}
		return topics
	})
}

// Clear resets to the empty ready state.
func (f *ArticleFeed) Clear() state.State[domain.Article] {
	st := f.machine.Clear()
	f.mu.Lock()
	f.summary = scoring.Summary{}
	f.mu.Unlock()
	return st
}

// ClearError leaves the failed state, keeping the last known articles.
func (f *ArticleFeed) ClearError() state.State[domain.Article] {
	return f.machine.ClearError()
}

func (f *ArticleFeed) replace(ctx context.Context, req domain.FetchRequest, covered func(PipelineResult) []string) (state.State[domain.Article], error) {
	st, err := f.machine.Replace(ctx, func(ctx context.Context) (state.Result[domain.Article], error) {
		if f.pipeline == nil {
			return state.Result[domain.Article]{}, fmt.Errorf("article pipeline is not configured")
		}
		token := f.token()
		if f.requireAuth && token == "" {
			return state.Result[domain.Article]{}, &domain.ValidationError{Field: "authToken", Reason: "an authenticated user is required"}
		}
		req.AuthToken = token

		res, err := f.pipeline.Run(ctx, req)
		if err != nil {
			return state.Result[domain.Article]{}, err
		}
		return state.Result[domain.Article]{
			Items:   res.Articles,
			Covered: covered(res),
			Bias:    req.Bias,
			OnApply: func() {
				f.mu.Lock()
				f.summary = res.Summary
				f.mu.Unlock()
			},
		}, nil
	})
	if err != nil {
		return st, err
	}
	f.debug("batch applied", "kind", req.Kind, "articles", len(st.Items))
	return st, nil
}

func (f *ArticleFeed) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
