// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/farmlink/backend/internal/models"
	"github.com/farmlink/backend/internal/store"
	"github.com/farmlink/backend/internal/utils"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// OrderService manages the seller's order book. Status moves one way through
// pending -> processing -> completed, and completion credits revenue exactly
// once no matter how many times it is requested.
type OrderService struct {
	store      *store.Store
	activities *ActivityService
}

type CreateOrderRequest struct {
	ProductID *uint   `json:"productId,omitempty"`
	BuyerName string  `json:"buyerName" validate:"required,max=255"`
	Location  string  `json:"location,omitempty" validate:"omitempty,max=255"`
	Amount    float64 `json:"amount" validate:"required,min=0.01"`
}

func NewOrderService(st *store.Store, activities *ActivityService) *OrderService {
	return &OrderService{store: st, activities: activities}
}

// CreateOrder records an incoming order against the seller's book. The product
// reference is optional so manually-entered orders still work, but when it is
// present the product name is denormalized onto the order.
func (s *OrderService) CreateOrder(sellerID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	order := &models.Order{
		UserID:    sellerID,
		ProductID: req.ProductID,
		BuyerName: req.BuyerName,
		Location:  req.Location,
		Amount:    req.Amount,
		Status:    models.OrderStatusPending,
	}

	if req.ProductID != nil {
		product, err := s.store.GetProduct(*req.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("product %d not found", *req.ProductID)
			}
			return nil, fmt.Errorf("lookup product: %w", err)
		}
		if product.UserID != sellerID {
			return nil, ErrForbidden
		}
		order.ProductName = product.Name
	}

	if err := s.store.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.track(sellerID, models.ActivityOrderReceived, models.JSONMap{
		"orderId":     order.ID,
		"productName": order.ProductName,
		"buyerName":   order.BuyerName,
		"location":    order.Location,
		"amount":      order.Amount,
	})

	return order, nil
}

func (s *OrderService) GetOrder(id uint, sellerID uuid.UUID) (*models.Order, error) {
	order, err := s.store.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != sellerID {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) GetUserOrders(sellerID uuid.UUID) ([]models.Order, error) {
	return s.store.GetOrdersByUser(sellerID)
}

func (s *OrderService) GetOrdersByStatus(sellerID uuid.UUID, status models.OrderStatus) ([]models.Order, error) {
	return s.store.GetOrdersByStatus(sellerID, status)
}

// UpdateStatus advances an order along the status machine. Completion takes
// the conditional path: if another request already completed the order, this
// call is a no-op and no second order_completed activity is recorded.
func (s *OrderService) UpdateStatus(id uint, sellerID uuid.UUID, next models.OrderStatus) (*models.Order, error) {
	order, err := s.store.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != sellerID {
		return nil, ErrForbidden
	}

	if next == order.Status {
		return order, nil
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	if next == models.OrderStatusCompleted {
		return s.complete(order)
	}

	updated, err := s.store.UpdateOrder(id, map[string]interface{}{"status": next})
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return updated, nil
}

func (s *OrderService) complete(order *models.Order) (*models.Order, error) {
	flipped, err := s.store.CompleteOrder(order.ID)
	if err != nil {
		return nil, fmt.Errorf("complete order: %w", err)
	}

	updated, err := s.store.GetOrder(order.ID)
	if err != nil {
		return nil, err
	}

	// Only the request that actually flipped the row credits the sale.
	if flipped {
		s.track(order.UserID, models.ActivityOrderCompleted, models.JSONMap{
			"orderId":     updated.ID,
			"productName": updated.ProductName,
			"buyerName":   updated.BuyerName,
			"amount":      updated.Amount,
		})
	}

	return updated, nil
}

func (s *OrderService) track(userID uuid.UUID, activityType models.ActivityType, payload models.JSONMap) {
	if s.activities == nil {
		return
	}
	if _, err := s.activities.Record(userID, activityType, payload); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"type":    activityType,
		}).Warn("Failed to record order activity")
	}
}
