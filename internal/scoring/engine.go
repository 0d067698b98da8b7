package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/logging"
	"BiasFeed/internal/ports"
)

// BeliefContext is the belief text and bias preference articles are scored against.
type BeliefContext struct {
	Belief string
	Bias   float64
}

// Engine attaches provider analysis to articles.
type Engine struct {
	scorer ports.Scorer
	method domain.ScoreMethod
	logger *slog.Logger
	sink   ports.EventSink
}

// EngineDeps wires the scoring collaborators.
type EngineDeps struct {
	Scorer ports.Scorer
	Method domain.ScoreMethod
	Logger *slog.Logger
	Sink   ports.EventSink
}

// NewEngine builds an engine; a nil scorer makes Annotate a pass-through.
func NewEngine(deps EngineDeps) *Engine {
	method := deps.Method
	if method == "" {
		method = domain.MethodAuto
	}
	return &Engine{
		scorer: deps.Scorer,
		method: method,
		logger: deps.Logger,
		sink:   logging.OrNop(deps.Sink),
	}
}

// Annotate returns a new slice where every article lacking analysis carries the
// scorer's result. Articles that arrived with provider analysis are left alone.
// Input articles are never modified.
func (e *Engine) Annotate(ctx context.Context, articles []domain.Article, bc BeliefContext) ([]domain.Article, error) {
	out := make([]domain.Article, len(articles))
	copy(out, articles)

	belief := strings.TrimSpace(bc.Belief)
	if e == nil || e.scorer == nil || belief == "" {
		return out, nil
	}

	var (
		reqs    []domain.ScoreRequest
		targets []int
	)
	for i, article := range out {
		if article.Analysis != nil {
			continue
		}
		reqs = append(reqs, domain.ScoreRequest{
			Belief: belief,
			Text:   scoringText(article),
			Method: e.method,
		})
		targets = append(targets, i)
	}
	if len(reqs) == 0 {
		return out, nil
	}

	results, err := e.scorer.ScoreBatch(ctx, reqs)
	if err != nil {
		e.sink.Record(ctx, "scoring.batch_failed", slog.Int("requests", len(reqs)), slog.String("error", err.Error()))
		return nil, &domain.ScoringError{Cause: err}
	}
	if len(results) != len(reqs) {
		err := fmt.Errorf("expected %d results, got %d", len(reqs), len(results))
		e.sink.Record(ctx, "scoring.batch_failed", slog.Int("requests", len(reqs)), slog.String("error", err.Error()))
		return nil, &domain.ScoringError{Cause: err}
	}

	bias := domain.NormalizeBias(bc.Bias)
	for n, idx := range targets {
		out[idx] = out[idx].WithAnalysis(ToAnalysis(results[n], belief, bias))
	}
	e.debug("annotated articles", "scored", len(targets), "total", len(out))
	return out, nil
}

// ToAnalysis converts a provider result into the analysis attached to an article.
// Scores are clamped to [0,1]. Scores the provider did not send stay nil.
func ToAnalysis(res domain.ScoreResult, belief string, bias float64) domain.BiasAnalysis {
	stance := res.Stance
	if stance == "" {
		stance = domain.StanceUnknown
	}
	evidence := make([]string, len(res.StanceEvidence))
	copy(evidence, res.StanceEvidence)

	return domain.BiasAnalysis{
		Stance:              stance,
		StanceConfidence:    domain.Clamp01(res.StanceConfidence),
		StanceMethod:        res.StanceMethod,
		StanceEvidence:      evidence,
		UserBelief:          belief,
		BiasMatch:           domain.ClampPtr(res.BiasMatch),
		UserBiasPreference:  domain.NormalizeBias(bias),
		RelevanceScore:      domain.ClampPtr(res.RelevanceScore),
		FinalScore:          domain.ClampPtr(res.FinalScore),
		TopicSentimentScore: res.TopicSentimentScore,
		TopicSentiment:      res.TopicSentiment,
		TopicMentions:       res.TopicMentions,
	}
}

func scoringText(a domain.Article) string {
	if a.Description == "" {
		return a.Title
	}
	return a.Title + ". " + a.Description
}

func (e *Engine) debug(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
