// internal/store/snapshot.go
package store

import (
	"gorm.io/gorm"

	"github.com/farmlink/backend/internal/models"
)

// Snapshot is the bulk export/import format: one JSON document with all four
// collections. Collections are serialized in foreign-key order (users first)
// so readers can resolve userId references while scanning; the store itself
// does not validate them at write time.
type Snapshot struct {
	Users      []UserRecord      `json:"users"`
	Products   []models.Product  `json:"products"`
	Orders     []models.Order    `json:"orders"`
	Activities []models.Activity `json:"activities"`
}

// UserRecord carries the password hash that the User model otherwise hides
// from JSON, so a backup restores working credentials.
type UserRecord struct {
	models.User
	PasswordHash string `json:"passwordHash,omitempty"`
}

// ExportAll serializes every collection as one unit.
func (s *Store) ExportAll() (*Snapshot, error) {
	snap := &Snapshot{
		Users:      []UserRecord{},
		Products:   []models.Product{},
		Orders:     []models.Order{},
		Activities: []models.Activity{},
	}

	var users []models.User
	if err := s.db.Order("created_at").Find(&users).Error; err != nil {
		return nil, translateError(err)
	}
	for _, u := range users {
		snap.Users = append(snap.Users, UserRecord{User: u, PasswordHash: u.PasswordHash})
	}

	if err := s.db.Order("id").Find(&snap.Products).Error; err != nil {
		return nil, translateError(err)
	}
	if err := s.db.Order("id").Find(&snap.Orders).Error; err != nil {
		return nil, translateError(err)
	}
	if err := s.db.Order("id").Find(&snap.Activities).Error; err != nil {
		return nil, translateError(err)
	}

	return snap, nil
}

// ImportAll replaces all data with the snapshot: every collection is cleared,
// then records are inserted in the order users, products, orders, activities.
// The whole operation runs in one transaction, so a failed import leaves the
// previous data intact.
func (s *Store) ImportAll(snap *Snapshot) error {
	return s.withTx(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Activity{}, &models.Order{}, &models.Product{}, &models.User{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return translateError(err)
			}
		}

		for _, rec := range snap.Users {
			user := rec.User
			user.PasswordHash = rec.PasswordHash
			if err := tx.Create(&user).Error; err != nil {
				return translateError(err)
			}
		}
		for i := range snap.Products {
			if err := tx.Create(&snap.Products[i]).Error; err != nil {
				return translateError(err)
			}
		}
		for i := range snap.Orders {
			if err := tx.Create(&snap.Orders[i]).Error; err != nil {
				return translateError(err)
			}
		}
		for i := range snap.Activities {
			if err := tx.Create(&snap.Activities[i]).Error; err != nil {
				return translateError(err)
			}
		}

		return nil
	})
}
