// Package scoring attaches provider bias analysis to articles and summarizes scored batches.
package scoring

import (
	"sort"
	"time"

	"BiasFeed/internal/domain"
)

// Mean accumulates an average that may have no data.
type Mean struct {
	Sum float64
	N   int
}

func (m *Mean) add(v float64) {
	m.Sum += v
	m.N++
}

// Value returns the average and false when nothing was added.
func (m Mean) Value() (float64, bool) {
	if m.N == 0 {
		return 0, false
	}
	return m.Sum / float64(m.N), true
}

// Ptr returns the average or nil when there is no data.
func (m Mean) Ptr() *float64 {
	v, ok := m.Value()
	if !ok {
		return nil
	}
	return &v
}

// SourceCount is a source with its article count.
type SourceCount struct {
	Source string
	Count  int
}

// DateRange spans the publication dates of a batch.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Summary describes a scored batch for ranking, debugging and telemetry.
type Summary struct {
	Total      int
	Analyzed   int
	BiasMatch  Mean
	Relevance  Mean
	Final      Mean
	Stances    map[domain.Stance]int
	BiasLabels map[domain.BiasLabel]int
	TopSources []SourceCount
	Dates      *DateRange
}

// Summarize computes the batch summary. Averages only count articles carrying
// the respective score; topN <= 0 returns every source.
func Summarize(articles []domain.Article, topN int) Summary {
	s := Summary{
		Total:      len(articles),
		Stances:    map[domain.Stance]int{},
		BiasLabels: map[domain.BiasLabel]int{},
	}

	var (
		order  []string
		counts = map[string]int{}
	)
	for _, a := range articles {
		if _, ok := counts[a.Source]; !ok {
			order = append(order, a.Source)
		}
		counts[a.Source]++

		if !a.PublishedAt.IsZero() {
			if s.Dates == nil {
				s.Dates = &DateRange{From: a.PublishedAt, To: a.PublishedAt}
			} else {
				if a.PublishedAt.Before(s.Dates.From) {
					s.Dates.From = a.PublishedAt
				}
				if a.PublishedAt.After(s.Dates.To) {
					s.Dates.To = a.PublishedAt
				}
			}
		}

		if a.Analysis == nil {
			continue
		}
		s.Analyzed++
		if a.Analysis.BiasMatch != nil {
			s.BiasMatch.add(*a.Analysis.BiasMatch)
			s.BiasLabels[domain.LabelFor(*a.Analysis.BiasMatch)]++
		}
		if a.Analysis.RelevanceScore != nil {
			s.Relevance.add(*a.Analysis.RelevanceScore)
		}
		if a.Analysis.FinalScore != nil {
			s.Final.add(*a.Analysis.FinalScore)
		}
		s.Stances[a.Analysis.Stance]++
	}

	s.TopSources = topSources(order, counts, topN)
	return s
}

// topSources relies on SliceStable keeping first-seen order among equal counts.
func topSources(order []string, counts map[string]int, topN int) []SourceCount {
	out := make([]SourceCount, 0, len(order))
	for _, src := range order {
		out = append(out, SourceCount{Source: src, Count: counts[src]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Rank returns a copy ordered by provider final score, then bias match.
// Unscored articles go last; ties keep their input order.
func Rank(articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	copy(out, articles)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[j], out[i])
	})
	return out
}

// less reports whether a ranks below b.
func less(a, b domain.Article) bool {
	if a.Analysis == nil || b.Analysis == nil {
		return a.Analysis == nil && b.Analysis != nil
	}
	if lower, decided := lessScore(a.Analysis.FinalScore, b.Analysis.FinalScore); decided {
		return lower
	}
	lower, _ := lessScore(a.Analysis.BiasMatch, b.Analysis.BiasMatch)
	return lower
}

// lessScore orders optional scores with absent below present. decided is false
// when both are absent or equal.
func lessScore(a, b *float64) (lower, decided bool) {
	switch {
	case a != nil && b != nil && *a != *b:
		return *a < *b, true
	case a == nil && b != nil:
		return true, true
	case a != nil && b == nil:
		return false, true
	}
	return false, false
}
