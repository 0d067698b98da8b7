package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BiasFeed/internal/domain"
)

func scored(id, source string, match float64, stance domain.Stance) domain.Article {
	return domain.Article{ID: id, Source: source}.WithAnalysis(domain.BiasAnalysis{Stance: stance, BiasMatch: &match})
}

func ptr(v float64) *float64 { return &v }

func TestSummarizeAveragesOnlyAnalyzed(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		scored("1", "a", 0.1, domain.StanceChallenge),
		scored("2", "b", 0.4, domain.StanceNeutral),
		scored("3", "a", 0.6, domain.StanceSupport),
		scored("4", "c", 0.9, domain.StanceSupport),
		{ID: "5", Source: "b"},
	}

	s := Summarize(articles, 0)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 4, s.Analyzed)

	avg, ok := s.BiasMatch.Value()
	require.True(t, ok)
	assert.InDelta(t, 0.5, avg, 1e-9)

	total := 0
	for _, n := range s.Stances {
		total += n
	}
	assert.Equal(t, 4, total)
	assert.Equal(t, 2, s.Stances[domain.StanceSupport])
	assert.Equal(t, 1, s.BiasLabels[domain.LabelChallengeMe])
	assert.Equal(t, 1, s.BiasLabels[domain.LabelProveMeRight])

	_, ok = s.Relevance.Value()
	assert.False(t, ok, "no relevance scores present")
	assert.Nil(t, s.Final.Ptr())
}

func TestSummarizeSkipsMissingBiasMatch(t *testing.T) {
	t.Parallel()

	stanceOnly := domain.Article{ID: "2", Source: "a"}.WithAnalysis(domain.BiasAnalysis{Stance: domain.StanceSupport})
	s := Summarize([]domain.Article{stanceOnly}, 0)
	assert.Equal(t, 1, s.Analyzed)
	assert.Equal(t, 1, s.Stances[domain.StanceSupport])
	assert.Nil(t, s.BiasMatch.Ptr())
	assert.Empty(t, s.BiasLabels)

	ranked := Rank([]domain.Article{stanceOnly, scored("1", "a", 0.1, domain.StanceChallenge)})
	assert.Equal(t, "1", ranked[0].ID)
	assert.Equal(t, "2", ranked[1].ID)
}

func TestSummarizeEmptyHasNoData(t *testing.T) {
	t.Parallel()

	s := Summarize(nil, 5)
	assert.Zero(t, s.Total)
	assert.Nil(t, s.BiasMatch.Ptr())
	assert.Nil(t, s.Dates)
	assert.Empty(t, s.TopSources)
}

func TestSummarizeTopSourcesKeepFirstSeenOnTies(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{ID: "1", Source: "x"},
		{ID: "2", Source: "y"},
		{ID: "3", Source: "z"},
		{ID: "4", Source: "z"},
		{ID: "5", Source: "y"},
	}

	s := Summarize(articles, 2)
	assert.Equal(t, []SourceCount{{Source: "y", Count: 2}, {Source: "z", Count: 2}}, s.TopSources)
}

func TestSummarizeDateRange(t *testing.T) {
	t.Parallel()

	early := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)
	articles := []domain.Article{
		{ID: "1", PublishedAt: late},
		{ID: "2"},
		{ID: "3", PublishedAt: early},
	}

	s := Summarize(articles, 0)
	require.NotNil(t, s.Dates)
	assert.Equal(t, early, s.Dates.From)
	assert.Equal(t, late, s.Dates.To)
}

func TestRankOrdersByFinalScoreThenMatch(t *testing.T) {
	t.Parallel()

	low := scored("low", "s", 0.9, domain.StanceSupport)
	low.Analysis.FinalScore = ptr(0.2)
	high := scored("high", "s", 0.1, domain.StanceSupport)
	high.Analysis.FinalScore = ptr(0.8)
	noFinalStrong := scored("nofinal-strong", "s", 0.7, domain.StanceSupport)
	noFinalWeak := scored("nofinal-weak", "s", 0.3, domain.StanceSupport)
	unscored := domain.Article{ID: "unscored"}

	input := []domain.Article{unscored, noFinalWeak, low, noFinalStrong, high}
	ranked := Rank(input)

	ids := make([]string, len(ranked))
	for i, a := range ranked {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"high", "low", "nofinal-strong", "nofinal-weak", "unscored"}, ids)
	assert.Equal(t, "unscored", input[0].ID, "input order is untouched")
}

func TestRankKeepsInputOrderOnTies(t *testing.T) {
	t.Parallel()

	ranked := Rank([]domain.Article{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	assert.Equal(t, "a", ranked[0].ID)
	assert.Equal(t, "b", ranked[1].ID)
	assert.Equal(t, "c", ranked[2].ID)
}
