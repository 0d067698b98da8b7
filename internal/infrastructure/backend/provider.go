package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/ports"
)

// Name is the registry name of the live providers.
const Name = "live"

// ArticleProvider fetches articles from the live backend.
type ArticleProvider struct {
	client *Client
}

var _ ports.ArticleProvider = (*ArticleProvider)(nil)

// NewArticleProvider wraps a backend client.
func NewArticleProvider(client *Client) *ArticleProvider {
	return &ArticleProvider{client: client}
}

// Name implements ports.ContentProvider.
func (p *ArticleProvider) Name() string { return Name }

// Fetch maps the request onto aggregate, search or mock endpoints.
// Category aggregation requires an auth token.
func (p *ArticleProvider) Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.Article, error) {
	var (
		body []byte
		err  error
	)
	switch req.Kind {
	case domain.FetchCategories:
		if req.AuthToken == "" {
			return nil, &domain.ValidationError{Field: "authToken", Reason: "category aggregation requires authentication"}
		}
		body, err = p.client.post(ctx, "/articles/aggregate", map[string]any{
			"topics":          req.Categories,
			"beliefs":         map[string][]string{},
			"bias":            req.Bias,
			"limit_per_topic": req.LimitPerCategory,
		}, req.AuthToken)
	case domain.FetchSearch:
		body, err = p.client.get(ctx, "/articles/search", url.Values{
			"q":     {req.Query},
			"bias":  {formatBias(req.Bias)},
			"limit": {strconv.Itoa(req.Limit)},
		}, req.AuthToken)
	case domain.FetchMock:
		body, err = p.client.get(ctx, "/articles/mock", nil, req.AuthToken)
	default:
		return nil, fmt.Errorf("article provider cannot serve %s requests", req.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("live %s: %w", req.Kind, err)
	}

	articles := parseArticles(body)
	if req.Kind == domain.FetchCategories {
		tagCategories(articles, req.Categories)
	}
	return articles, nil
}

// tagCategories gives untagged aggregate results the requested categories.
func tagCategories(articles []domain.Article, categories []string) {
	for i := range articles {
		if len(articles[i].Topics) == 0 {
			articles[i].Topics = append([]string(nil), categories...)
		}
	}
}

// StoryProvider fetches stories from the live backend.
type StoryProvider struct {
	client *Client
}

var _ ports.StoryProvider = (*StoryProvider)(nil)

// NewStoryProvider wraps a backend client.
func NewStoryProvider(client *Client) *StoryProvider {
	return &StoryProvider{client: client}
}

// Name implements ports.ContentProvider.
func (p *StoryProvider) Name() string { return Name }

// Fetch lists a page of stories, or searches them when the request is a search.
func (p *StoryProvider) Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.Story, error) {
	var query url.Values
	path := "/stories"
	switch req.Kind {
	case domain.FetchStories, domain.FetchCategories, domain.FetchMock:
		query = url.Values{
			"page":  {strconv.Itoa(req.Page)},
			"limit": {strconv.Itoa(req.Limit)},
			"bias":  {formatBias(req.Bias)},
		}
		for _, t := range req.Categories {
			query.Add("topics", t)
		}
	case domain.FetchSearch:
		// search results are not paginated upstream
		if req.Page > 1 {
			return []domain.Story{}, nil
		}
		path = "/stories/search"
		query = url.Values{"q": {req.Query}}
	default:
		return nil, fmt.Errorf("story provider cannot serve %s requests", req.Kind)
	}

	body, err := p.client.get(ctx, path, query, req.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("live stories: %w", err)
	}
	return parseStories(body), nil
}

func formatBias(b float64) string {
	return strconv.FormatFloat(b, 'f', -1, 64)
}
