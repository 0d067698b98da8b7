package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BiasFeed/internal/domain"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/v1/", time.Second, nil)
}

func TestAggregateSendsTokenAndBody(t *testing.T) {
	t.Parallel()

	var (
		auth string
		body map[string]any
	)
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/articles/aggregate", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"articles":[
			{"title":"Tariffs rise","description":"<p>Duties &amp; levies</p>","url":"https://a.example/1","source":{"name":"Reuters"},"publishedAt":"2024-01-15T10:00:00Z"},
			{"title":"Second","content":"plain","url":"https://a.example/2","source_name":"AP","topics":["trade"]}
		]}`))
	})

	articles, err := NewArticleProvider(client).Fetch(context.Background(), domain.FetchRequest{
		Kind:             domain.FetchCategories,
		Categories:       []string{"economy"},
		Bias:             0.7,
		LimitPerCategory: 5,
		AuthToken:        "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, []any{"economy"}, body["topics"])
	assert.Equal(t, 0.7, body["bias"])
	assert.Equal(t, float64(5), body["limit_per_topic"])

	require.Len(t, articles, 2)
	assert.Equal(t, "https://a.example/1", articles[0].ID)
	assert.Equal(t, "Duties & levies", articles[0].Description)
	assert.Equal(t, "Reuters", articles[0].Source)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), articles[0].PublishedAt)
	assert.Equal(t, []string{"economy"}, articles[0].Topics, "untagged results get the requested categories")
	assert.Equal(t, "plain", articles[1].Description)
	assert.Equal(t, "AP", articles[1].Source)
	assert.Equal(t, []string{"trade"}, articles[1].Topics)
}

func TestAggregateRequiresToken(t *testing.T) {
	t.Parallel()

	called := false
	client := newTestServer(t, func(http.ResponseWriter, *http.Request) { called = true })

	_, err := NewArticleProvider(client).Fetch(context.Background(), domain.FetchRequest{
		Kind:       domain.FetchCategories,
		Categories: []string{"economy"},
	})
	assert.True(t, domain.IsValidation(err))
	assert.False(t, called)
}

func TestSearchParsesBiasAnalysis(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/articles/search", r.URL.Path)
		assert.Equal(t, "climate", r.URL.Query().Get("q"))
		assert.Equal(t, "0.25", r.URL.Query().Get("bias"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"articles":[{
			"id":"a1","title":"Heat","source_domain":"bbc.co.uk","published_at":"2024-02-01",
			"summary_modulated":"Framed summary",
			"bias_analysis":{"stance":"OPPOSE","stance_confidence":0.9,"stance_evidence":["x"],"final_score":0.4}
		}]}`))
	})

	articles, err := NewArticleProvider(client).Fetch(context.Background(), domain.FetchRequest{
		Kind: domain.FetchSearch, Query: "climate", Bias: 0.25, Limit: 20,
	})
	require.NoError(t, err)
	require.Len(t, articles, 1)

	a := articles[0]
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "bbc.co.uk", a.Source)
	assert.Equal(t, "Framed summary", a.DisplaySummary())
	require.NotNil(t, a.Analysis)
	assert.Equal(t, domain.StanceChallenge, a.Analysis.Stance)
	assert.Nil(t, a.Analysis.BiasMatch)
	assert.Equal(t, 0.5, a.Analysis.UserBiasPreference)
	require.NotNil(t, a.Analysis.FinalScore)
	assert.Equal(t, 0.4, *a.Analysis.FinalScore)
	assert.Nil(t, a.Analysis.RelevanceScore)
}

func TestArticleStatusError(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := NewArticleProvider(client).Fetch(context.Background(), domain.FetchRequest{Kind: domain.FetchMock})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestStoriesListAndSearch(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/stories":
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, []string{"AI", "Climate"}, r.URL.Query()["topics"])
			_, _ = w.Write([]byte(`{"stories":[{
				"event_key":"ai_2024","title":"AI","summary_neutral":"n","summary_modulated":"m",
				"sources":["Wired"],"topics":["AI"],"confidence":0.9,
				"timeline_chunks":[{"id":"c1","content":"<b>first</b>","has_contradictions":true,"contradictions":["dates"]}]
			}]}`))
		case "/v1/stories/search":
			assert.Equal(t, "ukraine", r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`{"stories":[{"id":"s1","title":"Ukraine"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	p := NewStoryProvider(client)

	stories, err := p.Fetch(context.Background(), domain.FetchRequest{
		Kind: domain.FetchStories, Categories: []string{"AI", "Climate"}, Page: 2, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "ai_2024", stories[0].ID)
	require.Len(t, stories[0].Timeline, 1)
	assert.Equal(t, "first", stories[0].Timeline[0].Content)
	assert.True(t, stories[0].Timeline[0].HasContradictions)
	assert.Equal(t, "m", stories[0].Summary(0.8))

	found, err := p.Fetch(context.Background(), domain.FetchRequest{Kind: domain.FetchSearch, Query: "ukraine", Page: 1})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "s1", found[0].ID)

	next, err := p.Fetch(context.Background(), domain.FetchRequest{Kind: domain.FetchSearch, Query: "ukraine", Page: 2})
	require.NoError(t, err)
	assert.Empty(t, next)
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no markup", plainText("  no markup "))
	assert.Equal(t, "bold and text", plainText("<b>bold</b>\n and <i>text</i>"))
	assert.Equal(t, "Tom & Jerry", plainText("Tom &amp; Jerry"))
}

func TestUnconfiguredClient(t *testing.T) {
	t.Parallel()

	_, err := NewArticleProvider(NewClient("", 0, nil)).Fetch(context.Background(), domain.FetchRequest{Kind: domain.FetchMock})
	assert.Error(t, err)
}
