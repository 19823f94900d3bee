// internal/store/activities.go
package store

import (
	"github.com/google/uuid"

	"github.com/farmlink/backend/internal/models"
)

func (s *Store) CreateActivity(activity *models.Activity) error {
	if err := s.db.Create(activity).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// GetActivitiesByUser returns up to limit of the user's activity records,
// newest first. A limit of zero or less returns everything.
func (s *Store) GetActivitiesByUser(userID uuid.UUID, limit int) ([]models.Activity, error) {
	query := s.db.Where("user_id = ?", userID).Order("timestamp DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var activities []models.Activity
	if err := query.Find(&activities).Error; err != nil {
		return nil, translateError(err)
	}
	return activities, nil
}

func (s *Store) DeleteActivity(id uint) error {
	if err := s.db.Delete(&models.Activity{}, id).Error; err != nil {
		return translateError(err)
	}
	return nil
}
