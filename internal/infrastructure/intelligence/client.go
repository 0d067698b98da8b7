package intelligence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/ports"
)

// Client talks to the stance detection service.
type Client struct {
	endpoint string
	apiKey   string
	http     *retryablehttp.Client
	logger   *slog.Logger
}

var _ ports.Scorer = (*Client)(nil)

// Options tunes the transport; zero values use defaults.
type Options struct {
	Timeout  time.Duration
	RetryMax int
	Logger   *slog.Logger
}

// NewClient creates a reusable client. Network errors and 5xx answers are
// retried up to RetryMax times.
func NewClient(endpoint, apiKey string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	retryMax := opts.RetryMax
	if retryMax <= 0 {
		retryMax = 2
	}

	rc := retryablehttp.NewClient()
	rc.Logger = log.New(io.Discard, "", 0)
	rc.RetryMax = retryMax
	rc.RetryWaitMin = 50 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.HTTPClient.Timeout = timeout

	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		http:     rc,
		logger:   opts.Logger,
	}
}

type stanceRequest struct {
	Belief           string `json:"belief"`
	ArticleText      string `json:"article_text"`
	MethodPreference string `json:"method_preference,omitempty"`
}

type stanceResponse struct {
	Stance              string   `json:"stance"`
	Confidence          float64  `json:"confidence"`
	Method              string   `json:"method"`
	Evidence            []string `json:"evidence"`
	BiasMatch           *float64 `json:"bias_match"`
	RelevanceScore      *float64 `json:"relevance_score"`
	FinalScore          *float64 `json:"final_score"`
	TopicSentimentScore float64  `json:"topic_sentiment_score"`
	TopicSentiment      string   `json:"topic_sentiment"`
	TopicMentions       int      `json:"topic_mentions"`
}

func (r stanceResponse) result() domain.ScoreResult {
	return domain.ScoreResult{
		Stance:              domain.ParseStance(strings.ToLower(r.Stance)),
		StanceConfidence:    r.Confidence,
		StanceMethod:        r.Method,
		StanceEvidence:      r.Evidence,
		BiasMatch:           r.BiasMatch,
		RelevanceScore:      r.RelevanceScore,
		FinalScore:          r.FinalScore,
		TopicSentimentScore: r.TopicSentimentScore,
		TopicSentiment:      r.TopicSentiment,
		TopicMentions:       r.TopicMentions,
	}
}

// Score classifies one belief/text pair.
func (c *Client) Score(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResult, error) {
	var resp stanceResponse
	if err := c.post(ctx, "/stance/detect", toWire(req), &resp); err != nil {
		return domain.ScoreResult{}, err
	}
	return resp.result(), nil
}

// ScoreBatch classifies every pair in one call. Results keep request order.
func (c *Client) ScoreBatch(ctx context.Context, reqs []domain.ScoreRequest) ([]domain.ScoreResult, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	payload := make([]stanceRequest, len(reqs))
	for i, r := range reqs {
		payload[i] = toWire(r)
	}

	var resp []stanceResponse
	if err := c.post(ctx, "/stance/batch", payload, &resp); err != nil {
		return nil, err
	}
	if len(resp) != len(reqs) {
		return nil, fmt.Errorf("batch returned %d results for %d pairs", len(resp), len(reqs))
	}

	out := make([]domain.ScoreResult, len(resp))
	for i, r := range resp {
		out[i] = r.result()
	}
	if c.logger != nil {
		c.logger.Debug("stance batch scored", "pairs", len(out))
	}
	return out, nil
}

func toWire(r domain.ScoreRequest) stanceRequest {
	return stanceRequest{Belief: r.Belief, ArticleText: r.Text, MethodPreference: string(r.Method)}
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	if c.endpoint == "" {
		return fmt.Errorf("intelligence endpoint is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
