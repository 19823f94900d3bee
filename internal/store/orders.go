// internal/store/orders.go
package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmlink/backend/internal/models"
)

func (s *Store) CreateOrder(order *models.Order) error {
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if err := s.db.Create(order).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) GetOrder(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// GetOrdersByUser returns the seller's orders in insertion order.
func (s *Store) GetOrdersByUser(userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&orders).Error; err != nil {
		return nil, translateError(err)
	}
	return orders, nil
}

func (s *Store) GetOrdersByStatus(userID uuid.UUID, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Where("user_id = ? AND status = ?", userID, status).Order("id").Find(&orders).Error
	if err != nil {
		return nil, translateError(err)
	}
	return orders, nil
}

func (s *Store) UpdateOrder(id uint, updates map[string]interface{}) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		return nil, translateError(err)
	}

	if err := s.db.Model(&order).Updates(updates).Error; err != nil {
		return nil, translateError(err)
	}

	if err := s.db.First(&order, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// CompleteOrder flips an order to completed exactly once. The conditional
// write makes the pending/processing -> completed transition idempotent: a
// replayed completion matches zero rows and reports false, so the caller
// cannot credit revenue twice.
func (s *Store) CompleteOrder(id uint) (bool, error) {
	now := time.Now()
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND status <> ?", id, models.OrderStatusCompleted).
		Updates(map[string]interface{}{
			"status":       models.OrderStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		})
	if res.Error != nil {
		return false, translateError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) DeleteOrder(id uint) error {
	if err := s.db.Delete(&models.Order{}, id).Error; err != nil {
		return translateError(err)
	}
	return nil
}
