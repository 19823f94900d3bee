// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is a buyer's order against one seller's listing. UserID references the
// seller. Status moves one way (pending -> processing -> completed); the
// completion timestamp is set exactly once so replayed transitions cannot
// credit revenue twice.
type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uuid.UUID   `json:"userId" gorm:"type:uuid;index;not null"`
	ProductID   *uint       `json:"productId,omitempty"`
	ProductName string      `json:"productName" gorm:"size:255"`
	BuyerName   string      `json:"buyerName" gorm:"size:255"`
	Location    string      `json:"location" gorm:"size:255"`
	Amount      float64     `json:"amount"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20);index;default:'pending'"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
}

// Ref returns the dashboard view of the order.
func (o *Order) Ref() OrderRef {
	return OrderRef{
		ID:          o.ID,
		ProductName: o.ProductName,
		BuyerName:   o.BuyerName,
		Amount:      o.Amount,
	}
}
