package backend

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"BiasFeed/internal/domain"
)

// firstOf returns the first existing path's value.
func firstOf(obj gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := obj.Get(p); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func parseTime(v gjson.Result) time.Time {
	if !v.Exists() {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v.String()); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func stringList(v gjson.Result) []string {
	var out []string
	for _, item := range v.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// plainText drops markup that some feeds leave in descriptions.
func plainText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// parseArticles reads the "articles" array of either the aggregate or the
// search response shape.
func parseArticles(body []byte) []domain.Article {
	list := gjson.GetBytes(body, "articles")
	out := make([]domain.Article, 0, len(list.Array()))
	for _, obj := range list.Array() {
		out = append(out, parseArticle(obj))
	}
	return out
}

func parseArticle(obj gjson.Result) domain.Article {
	a := domain.Article{
		Title:       plainText(obj.Get("title").String()),
		Description: plainText(firstOf(obj, "description", "content", "summary").String()),
		URL:         obj.Get("url").String(),
		Source:      firstOf(obj, "source.name", "source_name", "source_domain", "source").String(),
		PublishedAt: parseTime(firstOf(obj, "publishedAt", "published_at")),
		Topics:      stringList(obj.Get("topics")),
		Confidence:  domain.Clamp01(firstOf(obj, "confidence", "source_reliability").Float()),
	}
	if a.Source == "" || strings.HasPrefix(a.Source, "{") {
		a.Source = obj.Get("source.domain").String()
	}
	a.ID = firstOf(obj, "id", "url").String()
	if a.ID == "" {
		a.ID = a.Source + "|" + a.Title
	}
	if s := firstOf(obj, "summary_modulated", "modulated_summary").String(); s != "" {
		a.ModulatedSummary = plainText(s)
	}
	if ba := obj.Get("bias_analysis"); ba.IsObject() && ba.Get("stance").Exists() {
		analysis := parseAnalysis(ba)
		a.Analysis = &analysis
	}
	return a
}

func parseAnalysis(ba gjson.Result) domain.BiasAnalysis {
	out := domain.BiasAnalysis{
		Stance:              domain.ParseStance(strings.ToLower(ba.Get("stance").String())),
		StanceConfidence:    domain.Clamp01(ba.Get("stance_confidence").Float()),
		StanceMethod:        ba.Get("stance_method").String(),
		StanceEvidence:      stringList(ba.Get("stance_evidence")),
		UserBelief:          ba.Get("user_belief").String(),
		BiasMatch:           domain.ClampPtr(optFloat(ba, "bias_match")),
		UserBiasPreference:  domain.NormalizeBias(ba.Get("user_bias_preference").Float()),
		RelevanceScore:      optFloat(ba, "relevance_score"),
		FinalScore:          optFloat(ba, "final_score"),
		TopicSentimentScore: ba.Get("topic_sentiment_score").Float(),
		TopicSentiment:      ba.Get("topic_sentiment").String(),
		TopicMentions:       int(ba.Get("topic_mentions").Int()),
	}
	if !ba.Get("user_bias_preference").Exists() {
		out.UserBiasPreference = domain.NeutralBias
	}
	return out
}

func optFloat(obj gjson.Result, path string) *float64 {
	v := obj.Get(path)
	if !v.Exists() || v.Type != gjson.Number {
		return nil
	}
	f := v.Float()
	return &f
}

func parseStories(body []byte) []domain.Story {
	list := gjson.GetBytes(body, "stories")
	out := make([]domain.Story, 0, len(list.Array()))
	for _, obj := range list.Array() {
		out = append(out, parseStory(obj))
	}
	return out
}

func parseStory(obj gjson.Result) domain.Story {
	s := domain.Story{
		ID:               obj.Get("id").String(),
		EventKey:         obj.Get("event_key").String(),
		Title:            plainText(obj.Get("title").String()),
		SummaryNeutral:   plainText(obj.Get("summary_neutral").String()),
		SummaryModulated: plainText(obj.Get("summary_modulated").String()),
		Sources:          stringList(obj.Get("sources")),
		Topics:           stringList(obj.Get("topics")),
		Confidence:       domain.Clamp01(obj.Get("confidence").Float()),
		PublishedAt:      parseTime(obj.Get("published_at")),
		UpdatedAt:        parseTime(obj.Get("updated_at")),
	}
	for _, c := range obj.Get("timeline_chunks").Array() {
		s.Timeline = append(s.Timeline, domain.TimelineChunk{
			ID:                c.Get("id").String(),
			Timestamp:         parseTime(c.Get("timestamp")),
			Content:           plainText(c.Get("content").String()),
			Sources:           stringList(c.Get("sources")),
			Confidence:        domain.Clamp01(c.Get("confidence").Float()),
			HasContradictions: c.Get("has_contradictions").Bool(),
			Contradictions:    stringList(c.Get("contradictions")),
		})
	}
	if s.ID == "" {
		s.ID = s.EventKey
	}
	return s
}
