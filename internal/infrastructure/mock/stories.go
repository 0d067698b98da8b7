package mock

import (
	"context"
	"strings"
	"time"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/ports"
)

// StoryProvider serves a fixed story set filtered by topic or query.
type StoryProvider struct{}

var _ ports.StoryProvider = StoryProvider{}

// Name implements ports.ContentProvider.
func (StoryProvider) Name() string { return Name }

// Fetch filters the fixture. Topics match case-insensitively; a query matches
// title or neutral summary.
func (StoryProvider) Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []domain.Story{}
	if req.Page > 1 {
		return out, nil
	}
	query := strings.ToLower(strings.TrimSpace(req.Query))
	for _, s := range Stories() {
		if len(req.Categories) > 0 && !matchesTopic(s, req.Categories) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(s.Title+" "+s.SummaryNeutral), query) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func matchesTopic(s domain.Story, topics []string) bool {
	for _, want := range topics {
		for _, have := range s.Topics {
			if strings.EqualFold(want, have) {
				return true
			}
		}
	}
	return false
}

// Stories builds the fixture.
func Stories() []domain.Story {
	story := func(id, key, title, neutral, modulated string, sources, topics []string, conf float64, hour int) domain.Story {
		at := time.Date(2024, 1, 15, hour, 0, 0, 0, time.UTC)
		return domain.Story{
			ID:               id,
			EventKey:         key,
			Title:            title,
			SummaryNeutral:   neutral,
			SummaryModulated: modulated,
			Sources:          sources,
			Topics:           topics,
			Confidence:       conf,
			PublishedAt:      at,
			UpdatedAt:        at,
			Timeline: []domain.TimelineChunk{{
				ID:         "chunk_" + id,
				Timestamp:  at,
				Content:    neutral,
				Sources:    append([]string(nil), sources...),
				Confidence: conf,
			}},
		}
	}
	return []domain.Story{
		story("1", "ukraine_conflict_2024", "Ukraine Conflict: Latest Developments",
			"Recent developments in the ongoing conflict between Ukraine and Russia, including diplomatic efforts and military updates.",
			"The situation in Ukraine continues to evolve with new diplomatic initiatives and military developments.",
			[]string{"Reuters", "BBC", "CNN"}, []string{"Ukraine", "Russia", "War", "Politics"}, 0.85, 10),
		story("2", "ai_breakthrough_2024", "AI Breakthrough: New Language Model Released",
			"A major technology company has released a new advanced language model with improved capabilities.",
			"The latest AI breakthrough shows significant progress in natural language processing technology.",
			[]string{"TechCrunch", "Wired", "MIT Technology Review"}, []string{"AI", "Technology", "Machine Learning"}, 0.92, 11),
		story("3", "climate_summit_2024", "Global Climate Summit: New Commitments Made",
			"World leaders gathered for the annual climate summit, announcing new commitments to reduce carbon emissions.",
			"The climate summit has resulted in promising new commitments from global leaders to address environmental challenges.",
			[]string{"The Guardian", "Reuters", "AP"}, []string{"Climate Change", "Environment", "Politics"}, 0.88, 12),
	}
}
