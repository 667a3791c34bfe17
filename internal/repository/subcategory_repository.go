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
	ErrSubCategoryNotFound = errors.New("sub-category not found")
)

// SubCategoryRepository defines the interface for sub-category data access
type SubCategoryRepository interface {
	Upsert(ctx context.Context, sub *domain.SubCategory) error
	FindConflict(ctx context.Context, name, url string, excludeID uuid.UUID) (Conflict, error)
	List(ctx context.Context) ([]*domain.SubCategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type subCategoryRepository struct {
	db DBTX
}

// NewSubCategoryRepository creates a new instance of SubCategoryRepository
func NewSubCategoryRepository(db DBTX) SubCategoryRepository {
	return &subCategoryRepository{db: db}
}

const subCategoryColumns = `
	s.id, s.name, s.url, s.image, s.featured, s.category_id, s.created_at, s.updated_at,
	c.id, c.name, c.url, c.image, c.featured, c.created_at, c.updated_at
`

// Upsert inserts the sub-category or updates the row with the same id.
// A missing parent category fails with ErrForeignKeyViolation.
func (r *subCategoryRepository) Upsert(ctx context.Context, sub *domain.SubCategory) error {
	query := `
		INSERT INTO subcategories (id, name, url, image, featured, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, url = EXCLUDED.url, image = EXCLUDED.image,
		    featured = EXCLUDED.featured, category_id = EXCLUDED.category_id, updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx,
		query,
		sub.ID,
		sub.Name,
		sub.URL,
		sub.Image,
		sub.Featured,
		sub.CategoryID,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return wrapError("upsert sub-category", err)
	}

	return nil
}

// FindConflict looks for other sub-categories sharing the name or the url
func (r *subCategoryRepository) FindConflict(ctx context.Context, name, url string, excludeID uuid.UUID) (Conflict, error) {
	query := `
		SELECT COALESCE(bool_or(name = $1), FALSE), COALESCE(bool_or(url = $2), FALSE)
		FROM subcategories
		WHERE (name = $1 OR url = $2) AND id <> $3
	`

	var c Conflict
	if err := r.db.QueryRow(ctx, query, name, url, excludeID).Scan(&c.Name, &c.URL); err != nil {
		return Conflict{}, fmt.Errorf("failed to check sub-category uniqueness: %w", err)
	}
	return c, nil
}

// List retrieves all sub-categories with their parent, most recently updated first
func (r *subCategoryRepository) List(ctx context.Context) ([]*domain.SubCategory, error) {
	query := `SELECT ` + subCategoryColumns + `
		FROM subcategories s
		JOIN categories c ON c.id = s.category_id
		ORDER BY s.updated_at DESC
	`
	return r.list(ctx, query)
}

// ListByCategory retrieves the sub-categories of one category ordered by name
func (r *subCategoryRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	query := `SELECT ` + subCategoryColumns + `
		FROM subcategories s
		JOIN categories c ON c.id = s.category_id
		WHERE s.category_id = $1
		ORDER BY s.name ASC
	`
	return r.list(ctx, query, categoryID)
}

func (r *subCategoryRepository) list(ctx context.Context, query string, args ...any) ([]*domain.SubCategory, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-categories: %w", err)
	}
	defer rows.Close()

	subs := []*domain.SubCategory{}
	for rows.Next() {
		sub, err := scanSubCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sub-category: %w", err)
		}
		subs = append(subs, sub)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sub-categories: %w", err)
	}

	return subs, nil
}

// FindByID retrieves a sub-category and its parent by ID
func (r *subCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	query := `SELECT ` + subCategoryColumns + `
		FROM subcategories s
		JOIN categories c ON c.id = s.category_id
		WHERE s.id = $1
	`

	sub, err := scanSubCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find sub-category by ID: %w", err)
	}

	return sub, nil
}

// Delete removes a sub-category. Referenced rows fail with ErrForeignKeyViolation.
func (r *subCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		return wrapError("delete sub-category", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrSubCategoryNotFound
	}

	return nil
}

func scanSubCategory(row pgx.Row) (*domain.SubCategory, error) {
	s := &domain.SubCategory{Category: &domain.Category{}}
	c := s.Category
	err := row.Scan(
		&s.ID, &s.Name, &s.URL, &s.Image, &s.Featured, &s.CategoryID, &s.CreatedAt, &s.UpdatedAt,
		&c.ID, &c.Name, &c.URL, &c.Image, &c.Featured, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
