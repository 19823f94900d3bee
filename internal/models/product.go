// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a marketplace listing owned by one user. The store assigns IDs
// from an auto-incrementing counter; ownership is a forward reference only,
// resolved in reverse through the user_id index.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null"`
	Unit        string    `json:"unit" gorm:"size:50"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category" gorm:"size:100;index"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
