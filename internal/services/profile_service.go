// internal/services/profile_service.go
package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/farmlink/backend/internal/models"
	"github.com/farmlink/backend/internal/store"
)

// ProfileListener receives the updated profile after every tracked mutation.
type ProfileListener func(*models.User)

type subscription struct {
	id int
	fn ProfileListener
}

// ProfileService resolves profiles and fans profile changes out to
// subscribers. Delivery is synchronous and in registration order, so a
// subscriber always sees updates in the order they were applied.
type ProfileService struct {
	store *store.Store

	mu     sync.Mutex
	nextID int
	subs   []subscription
}

func NewProfileService(st *store.Store) *ProfileService {
	return &ProfileService{store: st}
}

func (s *ProfileService) GetProfile(userID uuid.UUID) (*models.User, error) {
	return s.store.GetUser(userID)
}

// EnsureProfile returns the stored profile, lazily creating a
// default-initialized one on first sight of the identity. Profiles are
// created exactly once per identity; a concurrent create losing the race
// falls back to reading the winner's record.
func (s *ProfileService) EnsureProfile(id uuid.UUID, email, fullName string) (*models.User, error) {
	user, err := s.store.GetUser(id)
	if err == nil {
		return user, nil
	}
	if err != store.ErrNotFound {
		return nil, err
	}

	user = models.NewDefaultProfile(id, email, fullName)
	if createErr := s.store.CreateUser(user); createErr != nil {
		if createErr == store.ErrDuplicateKey {
			return s.store.GetUser(id)
		}
		return nil, fmt.Errorf("provision profile: %w", createErr)
	}

	s.Notify(user)
	return user, nil
}

// Subscribe registers a listener and returns its handle for Unsubscribe.
func (s *ProfileService) Subscribe(fn ProfileListener) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.subs = append(s.subs, subscription{id: s.nextID, fn: fn})
	return s.nextID
}

func (s *ProfileService) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Notify delivers the updated profile to every subscriber, synchronously, in
// registration order.
func (s *ProfileService) Notify(user *models.User) {
	s.mu.Lock()
	listeners := make([]ProfileListener, len(s.subs))
	for i, sub := range s.subs {
		listeners[i] = sub.fn
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}
