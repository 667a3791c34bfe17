package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a top-level catalog category
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	URL       string    `json:"url" db:"url"`
	Image     string    `json:"image" db:"image"`
	Featured  bool      `json:"featured" db:"featured"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SubCategory represents a category nested under exactly one Category
type SubCategory struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	URL        string    `json:"url" db:"url"`
	Image      string    `json:"image" db:"image"`
	Featured   bool      `json:"featured" db:"featured"`
	CategoryID uuid.UUID `json:"category_id" db:"category_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	// Category is populated by queries that join the parent row.
	Category *Category `json:"category,omitempty"`
}
