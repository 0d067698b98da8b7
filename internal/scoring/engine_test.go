package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/logging"
)

type fakeScorer struct {
	results []domain.ScoreResult
	err     error
	seen    []domain.ScoreRequest
}

func (f *fakeScorer) Score(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResult, error) {
	res, err := f.ScoreBatch(ctx, []domain.ScoreRequest{req})
	if err != nil {
		return domain.ScoreResult{}, err
	}
	return res[0], nil
}

func (f *fakeScorer) ScoreBatch(_ context.Context, reqs []domain.ScoreRequest) ([]domain.ScoreResult, error) {
	f.seen = append(f.seen, reqs...)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func TestAnnotateWithoutScorerIsPassThrough(t *testing.T) {
	t.Parallel()

	in := []domain.Article{{ID: "1", Title: "t"}}
	out, err := NewEngine(EngineDeps{}).Annotate(context.Background(), in, BeliefContext{Belief: "tariffs help", Bias: 0.5})
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Nil(t, out[0].Analysis)
}

func TestAnnotateWithoutBeliefSkipsScoring(t *testing.T) {
	t.Parallel()

	scorer := &fakeScorer{}
	out, err := NewEngine(EngineDeps{Scorer: scorer}).Annotate(context.Background(), []domain.Article{{ID: "1"}}, BeliefContext{Belief: "  "})
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Empty(t, scorer.seen)
}

func TestAnnotateScoresOnlyUnanalyzed(t *testing.T) {
	t.Parallel()

	existing := domain.Article{ID: "1", Title: "kept"}.WithAnalysis(domain.BiasAnalysis{Stance: domain.StanceSupport, BiasMatch: ptr(0.9)})
	fresh := domain.Article{ID: "2", Title: "Tariffs", Description: "rise again"}
	scorer := &fakeScorer{results: []domain.ScoreResult{{
		Stance:           domain.StanceChallenge,
		StanceConfidence: 1.4,
		BiasMatch:        ptr(0.2),
		FinalScore:       ptr(-1),
	}}}

	in := []domain.Article{existing, fresh}
	out, err := NewEngine(EngineDeps{Scorer: scorer, Method: domain.MethodML}).Annotate(context.Background(), in, BeliefContext{Belief: "tariffs help", Bias: 0.3})
	require.NoError(t, err)

	require.Len(t, scorer.seen, 1)
	assert.Equal(t, "Tariffs. rise again", scorer.seen[0].Text)
	assert.Equal(t, domain.MethodML, scorer.seen[0].Method)

	assert.Equal(t, 0.9, *out[0].Analysis.BiasMatch)
	require.NotNil(t, out[1].Analysis)
	assert.Equal(t, domain.StanceChallenge, out[1].Analysis.Stance)
	assert.Equal(t, 1.0, out[1].Analysis.StanceConfidence)
	require.NotNil(t, out[1].Analysis.BiasMatch)
	assert.Equal(t, 0.2, *out[1].Analysis.BiasMatch)
	assert.Equal(t, 0.3, out[1].Analysis.UserBiasPreference)
	assert.Equal(t, "tariffs help", out[1].Analysis.UserBelief)
	assert.Equal(t, 0.0, *out[1].Analysis.FinalScore)

	assert.Nil(t, in[1].Analysis, "input is not modified")
}

func TestAnnotateBatchFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("timeout")
	rec := &logging.Recorder{}
	engine := NewEngine(EngineDeps{Scorer: &fakeScorer{err: cause}, Sink: rec})

	_, err := engine.Annotate(context.Background(), []domain.Article{{ID: "1"}}, BeliefContext{Belief: "b"})

	var scoreErr *domain.ScoringError
	require.ErrorAs(t, err, &scoreErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []string{"scoring.batch_failed"}, rec.Names())
}

func TestAnnotateRejectsShortBatch(t *testing.T) {
	t.Parallel()

	engine := NewEngine(EngineDeps{Scorer: &fakeScorer{results: []domain.ScoreResult{}}})
	_, err := engine.Annotate(context.Background(), []domain.Article{{ID: "1"}}, BeliefContext{Belief: "b"})

	var scoreErr *domain.ScoringError
	assert.ErrorAs(t, err, &scoreErr)
}

func TestAnnotateStanceOnlyLeavesMatchUnset(t *testing.T) {
	t.Parallel()

	scorer := &fakeScorer{results: []domain.ScoreResult{
		{Stance: domain.StanceSupport, StanceConfidence: 0.9},
		{Stance: domain.StanceChallenge, StanceConfidence: 0.6},
	}}
	out, err := NewEngine(EngineDeps{Scorer: scorer}).Annotate(context.Background(),
		[]domain.Article{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}}, BeliefContext{Belief: "b", Bias: 0.5})
	require.NoError(t, err)

	for _, a := range out {
		require.NotNil(t, a.Analysis)
		assert.Nil(t, a.Analysis.BiasMatch)
	}
	s := Summarize(out, 0)
	assert.Equal(t, 2, s.Analyzed)
	_, ok := s.BiasMatch.Value()
	assert.False(t, ok)
	assert.Empty(t, s.BiasLabels)
}

func TestToAnalysisDefaults(t *testing.T) {
	t.Parallel()

	a := ToAnalysis(domain.ScoreResult{}, "belief", 2)
	assert.Nil(t, a.BiasMatch)
	assert.Equal(t, domain.StanceUnknown, a.Stance)
	assert.Equal(t, 1.0, a.UserBiasPreference)
	assert.Nil(t, a.RelevanceScore)
	assert.Nil(t, a.FinalScore)
	assert.Empty(t, a.StanceEvidence)
}
