// Package mock is the offline fallback provider for articles and stories.
package mock

import (
	"context"
	"time"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/ports"
)

// Name is the registry name of the mock providers.
const Name = "mock"

// ArticleProvider serves a fixed article set. Only the first page has content.
type ArticleProvider struct{}

var _ ports.ArticleProvider = ArticleProvider{}

// Name implements ports.ContentProvider.
func (ArticleProvider) Name() string { return Name }

// Fetch returns fresh copies of the fixture. Category requests tag every
// article with the requested categories.
func (ArticleProvider) Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Page > 1 {
		return []domain.Article{}, nil
	}
	out := Articles()
	if req.Kind == domain.FetchCategories && len(req.Categories) > 0 {
		for i := range out {
			out[i].Topics = append([]string(nil), req.Categories...)
		}
	}
	return out, nil
}

// Articles builds the fixture.
func Articles() []domain.Article {
	at := func(hour int) time.Time { return time.Date(2024, 1, 15, hour, 0, 0, 0, time.UTC) }
	analysis := func(stance domain.Stance, conf float64, evidence []string, match, pref float64, belief string) *domain.BiasAnalysis {
		return &domain.BiasAnalysis{
			Stance:             stance,
			StanceConfidence:   conf,
			StanceMethod:       "rule_based",
			StanceEvidence:     evidence,
			UserBelief:         belief,
			BiasMatch:          &match,
			UserBiasPreference: pref,
		}
	}
	return []domain.Article{
		{
			ID:          "https://example.com/trump-legal-challenges",
			Title:       "Trump faces new legal challenges in multiple states",
			Description: "Former president confronts lawsuits and investigations as legal pressure mounts across the country.",
			Source:      "Mock News",
			URL:         "https://example.com/trump-legal-challenges",
			PublishedAt: at(10),
			Topics:      []string{"politics"},
			Confidence:  0.5,
			Analysis:    analysis(domain.StanceChallenge, 0.8, []string{"challenges", "lawsuits", "investigations"}, 0.8, 0.0, "trump I hate him"),
		},
		{
			ID:          "https://example.com/trump-economy",
			Title:       "Trump defends economic record, highlights job creation",
			Description: "Former president emphasizes economic achievements and job growth during his administration.",
			Source:      "Mock News",
			URL:         "https://example.com/trump-economy",
			PublishedAt: at(11),
			Topics:      []string{"economy"},
			Confidence:  0.5,
			Analysis:    analysis(domain.StanceSupport, 0.7, []string{"defends", "achievements", "growth"}, 0.7, 1.0, "trump I love him"),
		},
		{
			ID:          "https://example.com/nato-ukraine",
			Title:       "NATO increases military support to Ukraine",
			Description: "Alliance approves additional weapons and training, marking significant escalation in Western involvement.",
			Source:      "Mock News",
			URL:         "https://example.com/nato-ukraine",
			PublishedAt: at(12),
			Topics:      []string{"geopolitics"},
			Confidence:  0.5,
			Analysis:    analysis(domain.StanceSupport, 0.6, []string{"increases", "support"}, 0.6, 0.5, "NATO escalation"),
		},
	}
}
