package domain

// FetchKind selects which upstream operation a fetch maps to.
type FetchKind string

const (
	FetchCategories FetchKind = "categories"
	FetchSearch     FetchKind = "search"
	FetchMock       FetchKind = "mock"
	FetchStories    FetchKind = "stories"
)

// FetchRequest carries every parameter a content provider may need.
type FetchRequest struct {
	Kind             FetchKind
	Categories       []string
	Query            string
	Bias             float64
	LimitPerCategory int
	AuthToken        string
	Page             int
	Limit            int
}

// Validate checks the request shape before it reaches a provider.
func (r FetchRequest) Validate() error {
	switch r.Kind {
	case FetchCategories:
		if len(r.Categories) == 0 {
			return &ValidationError{Field: "categories", Reason: "at least one category is required"}
		}
	case FetchSearch:
		if r.Query == "" {
			return &ValidationError{Field: "query", Reason: "must not be empty"}
		}
	case FetchMock, FetchStories:
	default:
		return &ValidationError{Field: "kind", Reason: "unknown fetch kind " + string(r.Kind)}
	}
	return nil
}

// Normalized clamps bias and fills request defaults.
func (r FetchRequest) Normalized() FetchRequest {
	r.Bias = NormalizeBias(r.Bias)
	if r.LimitPerCategory <= 0 {
		r.LimitPerCategory = 10
	}
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = 20
	}
	return r
}

// ScoreMethod is the preferred stance detection technique.
type ScoreMethod string

const (
	MethodAuto      ScoreMethod = "auto"
	MethodML        ScoreMethod = "ml"
	MethodRuleBased ScoreMethod = "rule_based"
)

// ScoreRequest pairs a belief with content to classify.
type ScoreRequest struct {
	Belief string
	Text   string
	Method ScoreMethod
}

// ScoreResult is what a scoring provider returns for one pair.
type ScoreResult struct {
	Stance              Stance
	StanceConfidence    float64
	StanceMethod        string
	StanceEvidence      []string
	BiasMatch           *float64
	RelevanceScore      *float64
	FinalScore          *float64
	TopicSentimentScore float64
	TopicSentiment      string
	TopicMentions       int
}
