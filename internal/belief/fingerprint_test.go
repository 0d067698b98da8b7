package belief

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BiasFeed/internal/domain"
)

func initializedStore(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t, StoreDeps{})
	require.NoError(t, s.Initialize(context.Background(), "u1"))
	return s
}

func TestAddBeliefsRequiresSession(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, StoreDeps{})
	err := s.AddBeliefs(context.Background(), []domain.BeliefStatement{{Text: "x"}})
	assert.True(t, domain.IsValidation(err))
}

func TestAddBeliefsMergesAndDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := initializedStore(t)

	require.NoError(t, s.AddBeliefs(ctx, []domain.BeliefStatement{
		{Category: "climate", Text: "Renewable energy should replace fossil fuels", Strength: 0.9},
		{Text: " Unions matter "},
	}))
	require.NoError(t, s.AddBeliefs(ctx, []domain.BeliefStatement{
		{Category: "climate", Text: "Renewable energy should replace fossil fuels", Strength: 0.3},
	}))

	fp, ok := s.Fingerprint()
	require.True(t, ok)
	require.Len(t, fp.Beliefs, 2)
	assert.Equal(t, 0.3, fp.Beliefs[0].Strength, "same category and text refreshes strength")
	assert.Equal(t, "general", fp.Beliefs[1].Category)
	assert.Equal(t, "Unions matter", fp.Beliefs[1].Text)
	assert.Equal(t, 0.5, fp.Beliefs[1].Strength)
	assert.Equal(t, "user_input", fp.Beliefs[1].Origin)
	assert.Equal(t, []string{"climate", "general"}, fp.Categories)
}

func TestAddBeliefsRejectsEmptyTextAtomically(t *testing.T) {
	t.Parallel()

	s := initializedStore(t)
	err := s.AddBeliefs(context.Background(), []domain.BeliefStatement{
		{Category: "climate", Text: "ok"},
		{Category: "climate", Text: "   "},
	})
	assert.True(t, domain.IsValidation(err))

	fp, _ := s.Fingerprint()
	assert.Empty(t, fp.Beliefs)
}

func TestBeliefContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := initializedStore(t)

	assert.Empty(t, s.BeliefContext([]string{"c"}))

	require.True(t, s.UpdateIssueView(ctx, domain.IssueView{IssueID: "x", CategoryID: "c", StanceValue: intPtr(2)}))
	assert.Equal(t, "Issue X (stance 2)", s.BeliefContext([]string{"c"}), "issue views fill in without beliefs")
	assert.Empty(t, s.BeliefContext([]string{"other"}))

	require.NoError(t, s.AddBeliefs(ctx, []domain.BeliefStatement{
		{Category: "c", Text: "first"},
		{Category: "d", Text: "second"},
	}))
	assert.Equal(t, "first", s.BeliefContext([]string{"c"}))
	assert.Equal(t, "first; second", s.BeliefContext(nil))
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	s := initializedStore(t)
	require.NoError(t, s.AddBeliefs(context.Background(), []domain.BeliefStatement{
		{Category: "climate", Text: "a", Strength: 0.2},
		{Category: "climate", Text: "b", Strength: 0.4},
		{Category: "politics", Text: "c", Strength: 0.8},
	}))

	a, err := s.Analyze()
	require.NoError(t, err)
	assert.Equal(t, "u1", a.UserID)
	assert.Equal(t, 3, a.TotalBeliefs)
	assert.Equal(t, 2, a.CategoryDistribution["climate"])
	assert.InDelta(t, 0.3, a.CategoryStrengths["climate"], 1e-9)
	assert.Equal(t, "politics", a.StrongestCategory)
	assert.NotContains(t, a.SuggestedCategories, "climate")
	assert.Contains(t, a.SuggestedCategories, "economy")
}

func TestAnalyzeWithoutSession(t *testing.T) {
	t.Parallel()

	_, err := newTestStore(t, StoreDeps{}).Analyze()
	assert.True(t, domain.IsValidation(err))
}

func TestTemplates(t *testing.T) {
	t.Parallel()

	all := Templates()
	require.Len(t, all, 3)
	assert.Equal(t, "politics", all[0].Category)
	assert.Len(t, all[0].Examples, 5)

	filtered := Templates("climate", "sports")
	require.Len(t, filtered, 2)
	assert.Equal(t, "climate", filtered[0].Category)
	assert.Equal(t, "sports", filtered[1].Category)
	assert.Empty(t, filtered[1].Examples)

	all[0].Examples[0] = "changed"
	assert.NotEqual(t, "changed", Templates()[0].Examples[0])
	assert.Equal(t, Templates("healthcare"), initializedStore(t).BeliefTemplates("healthcare"))
}
