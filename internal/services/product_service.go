// internal/services/product_service.go
package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/farmlink/backend/internal/models"
	"github.com/farmlink/backend/internal/store"
	"github.com/farmlink/backend/internal/utils"
)

// ProductService owns the marketplace listings. Every mutation is restricted
// to the owning user and feeds the activity log, which in turn keeps the
// listing counters current.
type ProductService struct {
	store      *store.Store
	activities *ActivityService
}

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"required,min=0.01"`
	Unit        string  `json:"unit,omitempty" validate:"omitempty,max=50"`
	Stock       int     `json:"stock" validate:"min=0"`
	Category    string  `json:"category,omitempty" validate:"omitempty,max=100"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type UpdateProductRequest struct {
	Name        string   `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,min=0.01"`
	Unit        string   `json:"unit,omitempty" validate:"omitempty,max=50"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
	Category    string   `json:"category,omitempty" validate:"omitempty,max=100"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	UserID   *uuid.UUID `json:"userId,omitempty"`
	PriceMin *float64   `json:"priceMin,omitempty"`
	PriceMax *float64   `json:"priceMax,omitempty"`
	InStock  *bool      `json:"inStock,omitempty"`
}

func NewProductService(st *store.Store, activities *ActivityService) *ProductService {
	return &ProductService{store: st, activities: activities}
}

func (s *ProductService) CreateProduct(userID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product := &models.Product{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}

	if err := s.store.CreateProduct(product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.track(userID, models.ActivityProductAdded, models.JSONMap{
		"productName": product.Name,
		"price":       product.Price,
		"stock":       product.Stock,
	})

	return product, nil
}

func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	return s.store.GetProduct(id)
}

func (s *ProductService) GetUserProducts(userID uuid.UUID) ([]models.Product, error) {
	return s.store.GetProductsByUser(userID)
}

func (s *ProductService) UpdateProduct(id uint, userID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.store.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if product.UserID != userID {
		return nil, ErrForbidden
	}

	oldName := product.Name

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Unit != "" {
		updates["unit"] = req.Unit
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	updated, err := s.store.UpdateProduct(id, updates)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.track(userID, models.ActivityProductUpdated, models.JSONMap{
		"oldName":  oldName,
		"newName":  updated.Name,
		"newPrice": updated.Price,
		"newStock": updated.Stock,
	})

	return updated, nil
}

func (s *ProductService) DeleteProduct(id uint, userID uuid.UUID) error {
	product, err := s.store.GetProduct(id)
	if err != nil {
		return err
	}
	if product.UserID != userID {
		return ErrForbidden
	}

	if err := s.store.DeleteProduct(id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.track(userID, models.ActivityProductDeleted, models.JSONMap{
		"productName": product.Name,
	})

	return nil
}

// SearchProducts filters the public catalog. Matching is client-grade: case
// insensitive substring on name and description.
func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.store.DB().Model(&models.Product{})

	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}
	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}
	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}
	if params.InStock != nil && *params.InStock {
		query = query.Where("stock > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "stock"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("fetch products: %w", err)
	}

	return products, total, nil
}

// ViewProduct records a view against the listing's owner.
func (s *ProductService) ViewProduct(id uint, viewerLocation string) (*models.Product, error) {
	product, err := s.store.GetProduct(id)
	if err != nil {
		return nil, err
	}

	payload := models.JSONMap{
		"productName": product.Name,
		"viewCount":   1,
	}
	if viewerLocation != "" {
		payload["viewerLocation"] = viewerLocation
	}
	s.track(product.UserID, models.ActivityProductViewed, payload)

	return product, nil
}

func (s *ProductService) track(userID uuid.UUID, activityType models.ActivityType, payload models.JSONMap) {
	if s.activities == nil {
		return
	}
	if _, err := s.activities.Record(userID, activityType, payload); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"type":    activityType,
		}).Warn("Failed to record product activity")
	}
}
