// internal/store/products.go
package store

import (
	"github.com/google/uuid"

	"github.com/farmlink/backend/internal/models"
)

// CreateProduct inserts a listing and assigns its auto-incremented primary key.
func (s *Store) CreateProduct(product *models.Product) error {
	if err := s.db.Create(product).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// GetProductsByUser returns the user's listings in insertion order.
func (s *Store) GetProductsByUser(userID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&products).Error; err != nil {
		return nil, translateError(err)
	}
	return products, nil
}

func (s *Store) GetProductsByCategory(category string) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("category = ?", category).Order("id").Find(&products).Error; err != nil {
		return nil, translateError(err)
	}
	return products, nil
}

// UpdateProduct merges the given top-level fields and refreshes updated_at.
// Returns ErrNotFound when the key is absent.
func (s *Store) UpdateProduct(id uint, updates map[string]interface{}) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		return nil, translateError(err)
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, translateError(err)
	}

	if err := s.db.First(&product, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// DeleteProduct removes a listing. Deleting an absent key is not an error.
func (s *Store) DeleteProduct(id uint) error {
	if err := s.db.Delete(&models.Product{}, id).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// CountProductsByUser is the ground truth behind the totalListings counter.
func (s *Store) CountProductsByUser(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Product{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}
