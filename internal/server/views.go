package server

import (
	"time"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/scoring"
	"BiasFeed/internal/state"
)

type stateView[T any] struct {
	Status      string   `json:"status"`
	Loading     bool     `json:"isLoading"`
	Items       []T      `json:"items"`
	Error       string   `json:"error,omitempty"`
	TotalCount  int      `json:"totalCount"`
	Covered     []string `json:"covered"`
	CurrentBias float64  `json:"currentBias"`
	BiasLabel   string   `json:"biasLabel"`
}

func viewState[In, Out any](st state.State[In], conv func(In) Out) stateView[Out] {
	items := make([]Out, len(st.Items))
	for i, it := range st.Items {
		items[i] = conv(it)
	}
	covered := st.Covered
	if covered == nil {
		covered = []string{}
	}
	return stateView[Out]{
		Status:      st.Status().String(),
		Loading:     st.Loading,
		Items:       items,
		Error:       st.ErrorMessage(),
		TotalCount:  st.TotalCount,
		Covered:     covered,
		CurrentBias: st.CurrentBias,
		BiasLabel:   string(domain.LabelFor(st.CurrentBias)),
	}
}

type analysisView struct {
	Stance             string   `json:"stance"`
	StanceConfidence   float64  `json:"stanceConfidence"`
	StanceMethod       string   `json:"stanceMethod,omitempty"`
	StanceEvidence     []string `json:"stanceEvidence,omitempty"`
	UserBelief         string   `json:"userBelief,omitempty"`
	BiasMatch          *float64 `json:"biasMatch,omitempty"`
	UserBiasPreference float64  `json:"userBiasPreference"`
	RelevanceScore     *float64 `json:"relevanceScore,omitempty"`
	FinalScore         *float64 `json:"finalScore,omitempty"`
	TopicSentiment     string   `json:"topicSentiment,omitempty"`
}

type articleView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Summary     string        `json:"summary"`
	Source      string        `json:"source"`
	SourceName  string        `json:"sourceName"`
	SourceLean  string        `json:"sourceLean"`
	URL         string        `json:"url"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty"`
	Topics      []string      `json:"topics"`
	Confidence  float64       `json:"confidence"`
	Analysis    *analysisView `json:"analysis,omitempty"`
}

func viewArticle(a domain.Article) articleView {
	info := domain.LookupSource(a.Source)
	v := articleView{
		ID:          a.ID,
		Title:       a.Title,
		Summary:     a.DisplaySummary(),
		Source:      a.Source,
		SourceName:  info.DisplayName,
		SourceLean:  string(info.Lean),
		URL:         a.URL,
		PublishedAt: timePtr(a.PublishedAt),
		Topics:      nonNil(a.Topics),
		Confidence:  a.Confidence,
	}
	if an := a.Analysis; an != nil {
		v.Analysis = &analysisView{
			Stance:             string(an.Stance),
			StanceConfidence:   an.StanceConfidence,
			StanceMethod:       an.StanceMethod,
			StanceEvidence:     an.StanceEvidence,
			UserBelief:         an.UserBelief,
			BiasMatch:          an.BiasMatch,
			UserBiasPreference: an.UserBiasPreference,
			RelevanceScore:     an.RelevanceScore,
			FinalScore:         an.FinalScore,
			TopicSentiment:     an.TopicSentiment,
		}
	}
	return v
}

type storyView struct {
	ID          string     `json:"id"`
	EventKey    string     `json:"eventKey"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Sources     []string   `json:"sources"`
	Topics      []string   `json:"topics"`
	Confidence  float64    `json:"confidence"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Timeline    int        `json:"timelineChunks"`
}

func storyViewer(bias float64) func(domain.Story) storyView {
	return func(s domain.Story) storyView {
		return storyView{
			ID:          s.ID,
			EventKey:    s.EventKey,
			Title:       s.Title,
			Summary:     s.Summary(bias),
			Sources:     nonNil(s.Sources),
			Topics:      nonNil(s.Topics),
			Confidence:  s.Confidence,
			PublishedAt: timePtr(s.PublishedAt),
			Timeline:    len(s.Timeline),
		}
	}
}

type messageView struct {
	ID            string    `json:"id"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	SourceContext string    `json:"sourceContext,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func viewMessage(m domain.ChatMessage) messageView {
	return messageView{
		ID:            m.ID,
		Role:          string(m.Role),
		Content:       m.Content,
		SourceContext: m.SourceContext,
		CreatedAt:     m.CreatedAt,
	}
}

type summaryView struct {
	Total      int            `json:"total"`
	Analyzed   int            `json:"analyzed"`
	BiasMatch  *float64       `json:"avgBiasMatch"`
	Relevance  *float64       `json:"avgRelevance"`
	FinalScore *float64       `json:"avgFinalScore"`
	Stances    map[string]int `json:"stances"`
	TopSources []sourceCount  `json:"topSources"`
}

type sourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

func viewSummary(s scoring.Summary) summaryView {
	out := summaryView{
		Total:      s.Total,
		Analyzed:   s.Analyzed,
		BiasMatch:  s.BiasMatch.Ptr(),
		Relevance:  s.Relevance.Ptr(),
		FinalScore: s.Final.Ptr(),
		Stances:    map[string]int{},
		TopSources: []sourceCount{},
	}
	for stance, n := range s.Stances {
		out.Stances[string(stance)] = n
	}
	for _, sc := range s.TopSources {
		out.TopSources = append(out.TopSources, sourceCount{Source: sc.Source, Count: sc.Count})
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
