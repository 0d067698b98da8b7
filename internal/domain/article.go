package domain

import "time"

// Article is a core entity describing metadata fetched from providers.
// Values are never mutated after fetch; updates produce a new copy.
type Article struct {
	ID               string
	Title            string
	Description      string
	ModulatedSummary string
	Source           string
	URL              string
	PublishedAt      time.Time
	Topics           []string
	Confidence       float64
	Analysis         *BiasAnalysis
}

// Key returns the identity used for deduplication.
func (a Article) Key() string {
	return a.ID
}

// WithAnalysis returns a copy of the article carrying the given analysis.
func (a Article) WithAnalysis(analysis BiasAnalysis) Article {
	a.Analysis = &analysis
	return a
}

// DisplaySummary prefers the bias-modulated summary when the provider sent one.
func (a Article) DisplaySummary() string {
	if a.ModulatedSummary != "" {
		return a.ModulatedSummary
	}
	return a.Description
}

// HasTopic reports whether the article is tagged with the topic.
func (a Article) HasTopic(topic string) bool {
	for _, t := range a.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// Stance is the scoring provider's classification of content toward a belief.
type Stance string

const (
	StanceSupport   Stance = "support"
	StanceChallenge Stance = "challenge"
	StanceNeutral   Stance = "neutral"
	StanceUnknown   Stance = "unknown"
)

// ParseStance normalizes provider labels; "oppose" is the upstream spelling of challenge.
func ParseStance(raw string) Stance {
	switch raw {
	case "support", "supports", "pro":
		return StanceSupport
	case "challenge", "oppose", "opposes", "against", "con":
		return StanceChallenge
	case "neutral":
		return StanceNeutral
	default:
		return StanceUnknown
	}
}

// BiasAnalysis is attached per article by the scoring engine.
type BiasAnalysis struct {
	Stance              Stance
	StanceConfidence    float64
	StanceMethod        string
	StanceEvidence      []string
	UserBelief          string
	BiasMatch           *float64
	UserBiasPreference  float64
	RelevanceScore      *float64
	FinalScore          *float64
	TopicSentimentScore float64
	TopicSentiment      string
	TopicMentions       int
}

// Clamp01 bounds v to [0,1].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// ClampPtr bounds an optional score, keeping absence.
func ClampPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := Clamp01(*v)
	return &c
}
