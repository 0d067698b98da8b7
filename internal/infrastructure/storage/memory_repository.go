package storage

import (
	"context"
	"sync"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/ports"
)

// MemoryRepository keeps profiles in process memory.
type MemoryRepository struct {
	mu       sync.Mutex
	profiles map[string]domain.UserViewProfile
}

var _ ports.ProfileRepository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: map[string]domain.UserViewProfile{}}
}

// LoadProfile returns a copy of the stored profile, or nil.
func (r *MemoryRepository) LoadProfile(_ context.Context, userID string) (*domain.UserViewProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	clone := p.Clone()
	return &clone, nil
}

// SaveProfile stores a copy of profile.
func (r *MemoryRepository) SaveProfile(_ context.Context, profile domain.UserViewProfile) error {
	if profile.UserID == "" {
		return &domain.ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	r.mu.Lock()
	r.profiles[profile.UserID] = profile.Clone()
	r.mu.Unlock()
	return nil
}
