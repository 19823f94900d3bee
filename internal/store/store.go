// internal/store/store.go
package store

import (
	"fmt"

	"gorm.io/gorm"
)

// Store is the persistence layer for the four collections (users, products,
// orders, activities). Each operation is atomic with respect to its own
// collection; there is no cross-collection transaction. A caller coordinating
// a product write plus a stats update must tolerate the window where the
// first succeeded and the second did not. StatsService.Reconcile is the
// drift-correction path for exactly that case.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for callers that need a transaction scope.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// withTx runs fn inside a single database transaction.
func (s *Store) withTx(fn func(tx *gorm.DB) error) error {
	if err := s.db.Transaction(fn); err != nil {
		return fmt.Errorf("store transaction: %w", err)
	}
	return nil
}
