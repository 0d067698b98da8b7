package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/ports"
	"BiasFeed/internal/state"
)

const defaultPageSize = 20

// StoryFeedDeps wires the story list controller. A nil InitialBias means neutral.
type StoryFeedDeps struct {
	Source      ports.ContentSource[domain.Story]
	Token       func() string
	PageSize    int
	InitialBias *float64
	Logger      *slog.Logger
	Sink        ports.EventSink
}

// StoryFeed pages through stories. Refresh, FilterByCategory and Search replace
// the list; LoadMore appends the next page.
type StoryFeed struct {
	machine  *state.Machine[domain.Story]
	source   ports.ContentSource[domain.Story]
	token    func() string
	pageSize int
	logger   *slog.Logger

	mu          sync.Mutex
	page        int
	hasMore     bool
	topics      []string
	query       string
	bias        float64
	loadingMore bool
}

// NewStoryFeed builds the controller in the empty ready state.
func NewStoryFeed(deps StoryFeedDeps) *StoryFeed {
	token := deps.Token
	if token == nil {
		token = func() string { return "" }
	}
	size := deps.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	bias := domain.NeutralBias
	if deps.InitialBias != nil {
		bias = domain.NormalizeBias(*deps.InitialBias)
	}
	return &StoryFeed{
		machine:  state.New[domain.Story]("stories", bias, deps.Sink),
		source:   deps.Source,
		token:    token,
		pageSize: size,
		logger:   deps.Logger,
		bias:     bias,
		hasMore:  true,
	}
}

// State returns the current snapshot.
func (f *StoryFeed) State() state.State[domain.Story] {
	return f.machine.Snapshot()
}

// Subscribe registers a transition listener.
func (f *StoryFeed) Subscribe(fn func(state.State[domain.Story])) func() {
	return f.machine.Subscribe(fn)
}

// HasMore reports whether the last page was non-empty.
func (f *StoryFeed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// Page is the last page applied to the list.
func (f *StoryFeed) Page() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page
}

// SetBias changes the bias used by subsequent fetches.
func (f *StoryFeed) SetBias(bias float64) {
	f.mu.Lock()
	f.bias = domain.NormalizeBias(bias)
	f.mu.Unlock()
}

// Refresh reloads page one with the current filter.
func (f *StoryFeed) Refresh(ctx context.Context) (state.State[domain.Story], error) {
	f.mu.Lock()
	topics, query, bias := append([]string(nil), f.topics...), f.query, f.bias
	f.mu.Unlock()
	return f.replace(ctx, f.request(topics, query, bias, 1))
}

// FilterByCategory replaces the list with stories tagged with any of the topics.
// An empty list removes the filter.
func (f *StoryFeed) FilterByCategory(ctx context.Context, topics []string) (state.State[domain.Story], error) {
	topics = cleanList(topics)
	f.mu.Lock()
	bias := f.bias
	f.mu.Unlock()
	return f.replace(ctx, f.request(topics, "", bias, 1))
}

// Search replaces the list with stories matching query.
func (f *StoryFeed) Search(ctx context.Context, query string) (state.State[domain.Story], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return f.machine.Snapshot(), &domain.ValidationError{Field: "query", Reason: "must not be empty"}
	}
	f.mu.Lock()
	bias := f.bias
	f.mu.Unlock()
	return f.replace(ctx, f.request(nil, query, bias, 1))
}

// LoadMore appends the next page. Failures leave the list as it was. A call
// made while another LoadMore is running returns state.ErrLoading.
func (f *StoryFeed) LoadMore(ctx context.Context) (state.State[domain.Story], error) {
	f.mu.Lock()
	busy, more := f.loadingMore, f.hasMore
	if !busy && more {
		f.loadingMore = true
	}
	req := f.request(append([]string(nil), f.topics...), f.query, f.bias, f.page+1)
	f.mu.Unlock()

	switch {
	case busy:
		return f.machine.Snapshot(), state.ErrLoading
	case !more:
		return f.machine.Snapshot(), nil
	}

	defer func() {
		f.mu.Lock()
		f.loadingMore = false
		f.mu.Unlock()
	}()

	st, err := f.machine.LoadMore(ctx, func(ctx context.Context, _ state.State[domain.Story]) (state.Result[domain.Story], error) {
		items, err := f.fetch(ctx, req)
		if err != nil {
			return state.Result[domain.Story]{}, err
		}
		return state.Result[domain.Story]{
			Items:   items,
			Covered: topicsOf(items),
			OnApply: f.applyPage(req, len(items), false),
		}, nil
	})
	if err != nil {
		f.debug("load more dropped", "page", req.Page, "error", err)
	}
	return st, err
}

// Clear resets the list and pagination. The machine is cleared first so no
// in-flight result can apply its page afterwards.
func (f *StoryFeed) Clear() state.State[domain.Story] {
	st := f.machine.Clear()
	f.mu.Lock()
	f.page = 0
	f.hasMore = true
	f.topics = nil
	f.query = ""
	f.mu.Unlock()
	return st
}

// ClearError leaves the failed state, keeping the last known stories.
func (f *StoryFeed) ClearError() state.State[domain.Story] {
	return f.machine.ClearError()
}

func (f *StoryFeed) request(topics []string, query string, bias float64, page int) domain.FetchRequest {
	kind := domain.FetchStories
	if query != "" {
		kind = domain.FetchSearch
	}
	return domain.FetchRequest{
		Kind:       kind,
		Categories: topics,
		Query:      query,
		Bias:       bias,
		Page:       page,
		Limit:      f.pageSize,
	}
}

func (f *StoryFeed) replace(ctx context.Context, req domain.FetchRequest) (state.State[domain.Story], error) {
	st, err := f.machine.Replace(ctx, func(ctx context.Context) (state.Result[domain.Story], error) {
		items, err := f.fetch(ctx, req)
		if err != nil {
			return state.Result[domain.Story]{}, err
		}
		covered := req.Categories
		if len(covered) == 0 {
			covered = topicsOf(items)
		}
		return state.Result[domain.Story]{
			Items:   items,
			Covered: covered,
			Bias:    req.Bias,
			OnApply: f.applyPage(req, len(items), true),
		}, nil
	})
	if err != nil {
		return st, err
	}
	f.debug("stories applied", "kind", req.Kind, "page", req.Page, "items", len(st.Items))
	return st, nil
}

// applyPage records pagination for req; it runs inside the machine's guard so
// only the result that wins the state also sets page and filter.
func (f *StoryFeed) applyPage(req domain.FetchRequest, fetched int, filter bool) func() {
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.page = req.Page
		f.hasMore = fetched > 0
		if filter {
			f.topics = req.Categories
			f.query = req.Query
		}
	}
}

func (f *StoryFeed) fetch(ctx context.Context, req domain.FetchRequest) ([]domain.Story, error) {
	if f.source == nil {
		return nil, fmt.Errorf("story source is not configured")
	}
	req.AuthToken = f.token()
	items, err := f.source.Fetch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch stories page %d: %w", req.Page, err)
	}
	return items, nil
}

func (f *StoryFeed) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

func topicsOf(stories []domain.Story) []string {
	var out []string
	for _, s := range stories {
		out = append(out, s.Topics...)
	}
	return out
}
