package domain

import "math"

// NeutralBias is the default "current bias" for a fresh session.
const NeutralBias = 0.5

// BiasLabel is the display band of a bias preference.
type BiasLabel string

const (
	LabelChallengeMe  BiasLabel = "Challenge Me"
	LabelQuestion     BiasLabel = "Question"
	LabelSupport      BiasLabel = "Support"
	LabelProveMeRight BiasLabel = "Prove Me Right"
)

// BiasLabels lists the bands in order of increasing affirmation.
var BiasLabels = []BiasLabel{LabelChallengeMe, LabelQuestion, LabelSupport, LabelProveMeRight}

// NormalizeBias clamps b into [0,1]; NaN becomes the neutral default.
func NormalizeBias(b float64) float64 {
	if math.IsNaN(b) {
		return NeutralBias
	}
	return Clamp01(b)
}

// LabelFor buckets a bias value. Upper bounds are inclusive, so 0.5 is "Question".
func LabelFor(b float64) BiasLabel {
	b = NormalizeBias(b)
	switch {
	case b <= 0.25:
		return LabelChallengeMe
	case b <= 0.5:
		return LabelQuestion
	case b <= 0.75:
		return LabelSupport
	default:
		return LabelProveMeRight
	}
}

// Rank returns the band position, 0 for Challenge Me.
func (l BiasLabel) Rank() int {
	for i, label := range BiasLabels {
		if label == l {
			return i
		}
	}
	return -1
}
