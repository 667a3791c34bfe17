package domain

import (
	"time"

	"github.com/google/uuid"
)

// StoreStatus is the moderation state of a store
type StoreStatus string

const (
	StoreStatusPending   StoreStatus = "PENDING"
	StoreStatusActive    StoreStatus = "ACTIVE"
	StoreStatusSuspended StoreStatus = "SUSPENDED"
)

// Valid reports whether s is a known store status
func (s StoreStatus) Valid() bool {
	switch s {
	case StoreStatusPending, StoreStatusActive, StoreStatusSuspended:
		return true
	}
	return false
}

// Store represents a seller's storefront
type Store struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description" db:"description"`
	Email       string      `json:"email" db:"email"`
	Phone       string      `json:"phone" db:"phone"`
	URL         string      `json:"url" db:"url"`
	Logo        string      `json:"logo" db:"logo"`
	Cover       string      `json:"cover" db:"cover"`
	Featured    bool        `json:"featured" db:"featured"`
	Status      StoreStatus `json:"status" db:"status"`
	OwnerID     string      `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}
