package belief

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"BiasFeed/internal/domain"
)

// Analysis summarizes a fingerprint.
type Analysis struct {
	UserID               string
	TotalBeliefs         int
	Categories           []string
	CategoryDistribution map[string]int
	CategoryStrengths    map[string]float64
	StrongestCategory    string
	SuggestedCategories  []string
}

// AddBeliefs merges statements into the fingerprint. A statement with the same
// category and text as a held one refreshes its strength and timestamp; anything
// else is appended. Prior beliefs are never dropped.
func (s *Store) AddBeliefs(ctx context.Context, beliefs []domain.BeliefStatement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fingerprint == nil {
		return &domain.ValidationError{Field: "userId", Reason: "an authenticated user is required"}
	}

	now := s.now()
	normalized := make([]domain.BeliefStatement, 0, len(beliefs))
	for i, b := range beliefs {
		b.Text = strings.TrimSpace(b.Text)
		if b.Text == "" {
			return &domain.ValidationError{Field: fmt.Sprintf("beliefs[%d].text", i), Reason: "must not be empty"}
		}
		if b.Category == "" {
			b.Category = defaultCategory
		}
		if b.Origin == "" {
			b.Origin = defaultOrigin
		}
		if b.Strength <= 0 {
			b.Strength = defaultStrength
		}
		b.Strength = domain.Clamp01(b.Strength)
		b.Timestamp = now
		normalized = append(normalized, b)
	}

	for _, b := range normalized {
		if idx := s.findBelief(b.Category, b.Text); idx >= 0 {
			s.fingerprint.Beliefs[idx].Strength = b.Strength
			s.fingerprint.Beliefs[idx].Timestamp = now
			continue
		}
		s.fingerprint.Beliefs = append(s.fingerprint.Beliefs, b)
		if !containsString(s.fingerprint.Categories, b.Category) {
			s.fingerprint.Categories = append(s.fingerprint.Categories, b.Category)
		}
	}
	s.fingerprint.LastUpdated = now

	s.sink.Record(ctx, "profile.beliefs_added", slog.Int("added", len(beliefs)), slog.Int("total", len(s.fingerprint.Beliefs)))
	return nil
}

// Fingerprint returns a copy of the held fingerprint.
func (s *Store) Fingerprint() (domain.UserBeliefFingerprint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fingerprint == nil {
		return domain.UserBeliefFingerprint{}, false
	}
	fp := *s.fingerprint
	fp.Beliefs = append([]domain.BeliefStatement(nil), s.fingerprint.Beliefs...)
	fp.Categories = append([]string(nil), s.fingerprint.Categories...)
	return fp, true
}

// BeliefContext renders the belief text handed to the scoring provider. Beliefs
// in the given categories come first; stated issue views fill in when no belief
// matches. With no categories every belief is used.
func (s *Store) BeliefContext(categories []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var parts []string
	if s.fingerprint != nil {
		for _, b := range s.fingerprint.Beliefs {
			if len(categories) == 0 || containsString(categories, b.Category) {
				parts = append(parts, b.Text)
			}
		}
	}
	if len(parts) > 0 || s.profile == nil {
		return strings.Join(parts, "; ")
	}

	for _, cat := range s.profile.Categories {
		if len(categories) > 0 && !containsString(categories, cat.ID) {
			continue
		}
		for _, issue := range cat.Issues {
			if !issue.HasView() {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s (stance %d)", issue.Title, *issue.StanceValue))
		}
	}
	return strings.Join(parts, "; ")
}

// Analyze reports category coverage and strength of the fingerprint.
func (s *Store) Analyze() (Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fingerprint == nil {
		return Analysis{}, &domain.ValidationError{Field: "userId", Reason: "no belief fingerprint for this session"}
	}

	out := Analysis{
		UserID:               s.fingerprint.UserID,
		TotalBeliefs:         len(s.fingerprint.Beliefs),
		Categories:           append([]string(nil), s.fingerprint.Categories...),
		CategoryDistribution: map[string]int{},
		CategoryStrengths:    map[string]float64{},
	}
	for _, b := range s.fingerprint.Beliefs {
		out.CategoryDistribution[b.Category]++
		out.CategoryStrengths[b.Category] += b.Strength
	}

	best := -1.0
	for _, cat := range sortedKeys(out.CategoryStrengths) {
		avg := out.CategoryStrengths[cat] / float64(out.CategoryDistribution[cat])
		out.CategoryStrengths[cat] = avg
		if avg > best {
			best = avg
			out.StrongestCategory = cat
		}
	}

	for _, cat := range KnownCategories() {
		if _, ok := out.CategoryDistribution[cat]; !ok {
			out.SuggestedCategories = append(out.SuggestedCategories, cat)
		}
	}
	return out, nil
}

// BeliefTemplates exposes the read-only template catalogue.
func (s *Store) BeliefTemplates(categories ...string) []domain.BeliefTemplate {
	return Templates(categories...)
}

func (s *Store) findBelief(category, text string) int {
	for i, b := range s.fingerprint.Beliefs {
		if b.Category == category && b.Text == text {
			return i
		}
	}
	return -1
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
