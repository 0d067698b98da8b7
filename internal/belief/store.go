// Package belief owns the session's view profile and belief fingerprint.
package belief

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/logging"
	"BiasFeed/internal/ports"
)

const (
	defaultCategory = "general"
	defaultOrigin   = "user_input"
	defaultStrength = 0.5
)

// StoreDeps wires the store's collaborators. Seed overrides the built-in taxonomy.
type StoreDeps struct {
	Repository ports.ProfileRepository
	Seed       []domain.IssueCategory
	Logger     *slog.Logger
	Sink       ports.EventSink
	Now        func() time.Time
}

// Store is the single process-wide profile holder. Every mutation goes through
// its methods; readers get copies.
type Store struct {
	mu          sync.Mutex
	profile     *domain.UserViewProfile
	fingerprint *domain.UserBeliefFingerprint
	repo        ports.ProfileRepository
	seed        []domain.IssueCategory
	logger      *slog.Logger
	sink        ports.EventSink
	now         func() time.Time
}

// NewStore builds an uninitialized store.
func NewStore(deps StoreDeps) *Store {
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	seed := deps.Seed
	if len(seed) == 0 {
		seed = seedCategories()
	}
	return &Store{
		repo:   deps.Repository,
		seed:   domain.UserViewProfile{Categories: seed}.Clone().Categories,
		logger: deps.Logger,
		sink:   logging.OrNop(deps.Sink),
		now:    now,
	}
}

// Initialize loads or seeds the profile for userID. It does nothing when a
// profile is already held.
func (s *Store) Initialize(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return &domain.ValidationError{Field: "userId", Reason: "an authenticated user is required"}
	}

	s.mu.Lock()
	if s.profile != nil {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	var loaded *domain.UserViewProfile
	if s.repo != nil {
		p, err := s.repo.LoadProfile(ctx, userID)
		if err != nil {
			return fmt.Errorf("load profile %s: %w", userID, err)
		}
		loaded = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile != nil {
		return nil
	}

	now := s.now()
	source := "seed"
	if loaded != nil {
		p := loaded.Clone()
		p.UserID = userID
		s.profile = &p
		source = "repository"
	} else {
		s.profile = &domain.UserViewProfile{
			UserID:      userID,
			Categories:  domain.UserViewProfile{Categories: s.seed}.Clone().Categories,
			CreatedAt:   now,
			LastUpdated: now,
		}
	}
	s.fingerprint = &domain.UserBeliefFingerprint{UserID: userID, LastUpdated: now}

	s.sink.Record(ctx, "profile.initialized", slog.String("user", userID), slog.String("source", source))
	s.debug("profile initialized", "user", userID, "source", source)
	return nil
}

// Initialized reports whether a profile is held.
func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile != nil
}

// Profile returns a copy of the held profile.
func (s *Store) Profile() (domain.UserViewProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return domain.UserViewProfile{}, false
	}
	return s.profile.Clone(), true
}

// UpdateIssueView replaces the matching issue's record. It reports false when
// the profile is uninitialized or the issue is unknown.
func (s *Store) UpdateIssueView(ctx context.Context, view domain.IssueView) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		s.debug("update ignored", "error", &domain.StateError{Op: "updateIssueView"})
		return false
	}

	ci, ii, ok := s.locate(view.CategoryID, view.IssueID)
	if !ok {
		return false
	}

	now := s.now()
	slot := &s.profile.Categories[ci].Issues[ii]
	if view.Title == "" {
		view.Title = slot.Title
	}
	view.LastUpdated = now
	*slot = view.Clone()
	s.profile.LastUpdated = now

	s.sink.Record(ctx, "profile.issue_updated", slog.String("issue", view.IssueID), slog.String("category", view.CategoryID))
	return true
}

// ClearIssueView resets the value fields of the issue, keeping its slot.
func (s *Store) ClearIssueView(ctx context.Context, issueID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		s.debug("clear ignored", "error", &domain.StateError{Op: "clearIssueView"})
		return false
	}

	now := s.now()
	for ci := range s.profile.Categories {
		issues := s.profile.Categories[ci].Issues
		for ii := range issues {
			if issues[ii].IssueID != issueID {
				continue
			}
			issues[ii] = issues[ii].Cleared(now)
			s.profile.LastUpdated = now
			s.sink.Record(ctx, "profile.issue_cleared", slog.String("issue", issueID))
			return true
		}
	}
	return false
}

// CompletionPercentage is the share of issues with a stance, 0..100.
func (s *Store) CompletionPercentage() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return 0
	}
	var total, answered int
	for _, cat := range s.profile.Categories {
		for _, issue := range cat.Issues {
			total++
			if issue.HasView() {
				answered++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(answered) / float64(total) * 100
}

// IssuesWithViews lists issues that have a stance, in profile order.
func (s *Store) IssuesWithViews() []domain.IssueView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	var out []domain.IssueView
	for _, cat := range s.profile.Clone().Categories {
		for _, issue := range cat.Issues {
			if issue.HasView() {
				out = append(out, issue)
			}
		}
	}
	return out
}

// Save persists the profile through the repository. Without a profile or a
// repository it does nothing.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.profile == nil || s.repo == nil {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.profile.Clone()
	s.mu.Unlock()

	if err := s.repo.SaveProfile(ctx, snapshot); err != nil {
		return fmt.Errorf("save profile %s: %w", snapshot.UserID, err)
	}
	return nil
}

// Reset forgets the profile and fingerprint, as on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	s.profile = nil
	s.fingerprint = nil
	s.mu.Unlock()
}

func (s *Store) locate(categoryID, issueID string) (int, int, bool) {
	for ci, cat := range s.profile.Categories {
		if cat.ID != categoryID {
			continue
		}
		for ii, issue := range cat.Issues {
			if issue.IssueID == issueID {
				return ci, ii, true
			}
		}
	}
	return 0, 0, false
}

func (s *Store) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

// sortedKeys returns map keys in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
