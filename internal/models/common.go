// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap is a free-form JSON object column, usable on both SQLite and PostgreSQL.
type JSONMap map[string]interface{}

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value interface{}) error {
	return scanJSON(value, j)
}

// StringList is a JSON-encoded string array column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// Contains reports whether the list already holds s.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// scanJSON unmarshals a database value that may arrive as []byte (PostgreSQL)
// or string (SQLite) into dest.
func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T for JSON scan", value)
	}
}

// Enums
type UserRole string

const (
	UserRoleFarmer UserRole = "Farmer"
	UserRoleBuyer  UserRole = "Buyer"
	UserRoleAdmin  UserRole = "Admin"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
)

// NextStatuses returns the statuses reachable from s. The order lifecycle is
// one-way: pending -> processing -> completed, with no reverse transition.
func (s OrderStatus) NextStatuses() []OrderStatus {
	switch s {
	case OrderStatusPending:
		return []OrderStatus{OrderStatusProcessing, OrderStatusCompleted}
	case OrderStatusProcessing:
		return []OrderStatus{OrderStatusCompleted}
	default:
		return nil
	}
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range s.NextStatuses() {
		if allowed == next {
			return true
		}
	}
	return false
}
