// internal/store/users.go
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmlink/backend/internal/models"
)

// CreateUser inserts a profile. The caller supplies the primary key; the
// unique email index is enforced here and surfaces as ErrDuplicateKey.
func (s *Store) CreateUser(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// GetUserByEmail looks a profile up through the unique email index.
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// UpdateUser merges the given top-level fields into the stored record and
// refreshes last_active. Merge semantics are shallow: JSON-typed columns
// (stats, preferences, dashboard, achievements) are replaced wholesale, not
// deep-merged. Returns ErrNotFound when the key is absent.
func (s *Store) UpdateUser(id uuid.UUID, updates map[string]interface{}) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}

	merged := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		merged[k] = v
	}
	merged["last_active"] = time.Now()

	if err := s.db.Model(&user).Updates(merged).Error; err != nil {
		return nil, translateError(err)
	}

	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// DeleteUser removes a profile. Deleting an absent key is not an error; in
// normal operation profiles are only removed by a bulk import reset.
func (s *Store) DeleteUser(id uuid.UUID) error {
	if err := s.db.Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// TouchLastActive bumps last_active without changing anything else. The
// column is monotonically non-decreasing; an older timestamp is ignored.
func (s *Store) TouchLastActive(id uuid.UUID) error {
	err := s.db.Model(&models.User{}).
		Where("id = ? AND last_active <= ?", id, time.Now()).
		Update("last_active", time.Now()).Error
	if err != nil {
		return fmt.Errorf("touch last active: %w", translateError(err))
	}
	return nil
}

func (s *Store) CountUsers() (int64, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// EmailTaken reports whether a profile with the email already exists.
func (s *Store) EmailTaken(email string) (bool, error) {
	_, err := s.GetUserByEmail(email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}
