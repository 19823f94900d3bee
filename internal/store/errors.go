// internal/store/errors.go
package store

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateKey is returned when a create violates a unique index,
	// e.g. two users with the same email.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound is returned by lookups and updates on absent keys.
	ErrNotFound = errors.New("record not found")

	// ErrStorageUnavailable is returned when the underlying database failed
	// to open or initialize.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// translateError maps driver-level errors onto the store's taxonomy. Unique
// violations surface as *pq.Error code 23505 on PostgreSQL and as a plain
// "UNIQUE constraint failed" message on SQLite.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateKey
	}

	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateKey
	}

	return err
}
