package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront-admin/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

// Conflict reports which unique fields of another record match the input
type Conflict struct {
	Name bool
	URL  bool
}

// Any reports whether either field collides
func (c Conflict) Any() bool { return c.Name || c.URL }

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Upsert(ctx context.Context, category *domain.Category) error
	FindConflict(ctx context.Context, name, url string, excludeID uuid.UUID) (Conflict, error)
	List(ctx context.Context) ([]*domain.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	db DBTX
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db DBTX) CategoryRepository {
	return &categoryRepository{db: db}
}

// Upsert inserts the category or updates the row with the same id.
// Timestamps are filled from the stored row.
func (r *categoryRepository) Upsert(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, name, url, image, featured)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, url = EXCLUDED.url, image = EXCLUDED.image,
		    featured = EXCLUDED.featured, updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx,
		query,
		category.ID,
		category.Name,
		category.URL,
		category.Image,
		category.Featured,
	).Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return wrapError("upsert category", err)
	}

	return nil
}

// FindConflict looks for other categories sharing the name or the url
func (r *categoryRepository) FindConflict(ctx context.Context, name, url string, excludeID uuid.UUID) (Conflict, error) {
	query := `
		SELECT COALESCE(bool_or(name = $1), FALSE), COALESCE(bool_or(url = $2), FALSE)
		FROM categories
		WHERE (name = $1 OR url = $2) AND id <> $3
	`

	var c Conflict
	if err := r.db.QueryRow(ctx, query, name, url, excludeID).Scan(&c.Name, &c.URL); err != nil {
		return Conflict{}, fmt.Errorf("failed to check category uniqueness: %w", err)
	}
	return c, nil
}

// List retrieves all categories, most recently updated first
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, url, image, featured, created_at, updated_at
		FROM categories
		ORDER BY updated_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category := &domain.Category{}
		if err := scanCategory(rows, category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// FindByID retrieves a category by ID
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `
		SELECT id, name, url, image, featured, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	category := &domain.Category{}
	if err := scanCategory(r.db.QueryRow(ctx, query, id), category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// Delete removes a category. Referenced categories fail with ErrForeignKeyViolation.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return wrapError("delete category", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

func scanCategory(row pgx.Row, c *domain.Category) error {
	return row.Scan(&c.ID, &c.Name, &c.URL, &c.Image, &c.Featured, &c.CreatedAt, &c.UpdatedAt)
}
