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
	ErrStoreNotFound = errors.New("store not found")
	// ErrStoreNotOwned is returned when an upsert targets another seller's store
	ErrStoreNotOwned = errors.New("store belongs to another owner")
)

// StoreRepository defines the interface for store data access
type StoreRepository interface {
	Upsert(ctx context.Context, store *domain.Store) error
	URLTaken(ctx context.Context, url string, excludeID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Store, error)
	FindByURL(ctx context.Context, url string) (*domain.Store, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Store, error)
	List(ctx context.Context) ([]*domain.Store, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StoreStatus) (*domain.Store, error)
}

type storeRepository struct {
	db DBTX
}

// NewStoreRepository creates a new instance of StoreRepository
func NewStoreRepository(db DBTX) StoreRepository {
	return &storeRepository{db: db}
}

const storeColumns = `id, name, description, email, phone, url, logo, cover, featured, status, owner_id, created_at, updated_at`

// Upsert inserts the store or updates the seller-editable columns of the
// row with the same id. Status and owner are never changed on update, and a
// row owned by someone else is left untouched with ErrStoreNotOwned.
func (r *storeRepository) Upsert(ctx context.Context, store *domain.Store) error {
	query := `
		INSERT INTO stores (id, name, description, email, phone, url, logo, cover, featured, status, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, email = EXCLUDED.email,
		    phone = EXCLUDED.phone, url = EXCLUDED.url, logo = EXCLUDED.logo, cover = EXCLUDED.cover,
		    featured = EXCLUDED.featured, updated_at = NOW()
		WHERE stores.owner_id = EXCLUDED.owner_id
		RETURNING status, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx,
		query,
		store.ID,
		store.Name,
		store.Description,
		store.Email,
		store.Phone,
		store.URL,
		store.Logo,
		store.Cover,
		store.Featured,
		store.Status,
		store.OwnerID,
	).Scan(&store.Status, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStoreNotOwned
		}
		return wrapError("upsert store", err)
	}

	return nil
}

// URLTaken reports whether another store already uses url
func (r *storeRepository) URLTaken(ctx context.Context, url string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stores WHERE url = $1 AND id <> $2)`, url, excludeID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check store url: %w", err)
	}
	return taken, nil
}

func (r *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	return r.findOne(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id)
}

func (r *storeRepository) FindByURL(ctx context.Context, url string) (*domain.Store, error) {
	return r.findOne(ctx, `SELECT `+storeColumns+` FROM stores WHERE url = $1`, url)
}

func (r *storeRepository) findOne(ctx context.Context, query string, arg any) (*domain.Store, error) {
	store := &domain.Store{}
	if err := scanStore(r.db.QueryRow(ctx, query, arg), store); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to find store: %w", err)
	}
	return store, nil
}

// ListByOwner retrieves the stores of one seller, newest first
func (r *storeRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, ownerID)
}

// List retrieves every store, most recently updated first
func (r *storeRepository) List(ctx context.Context) ([]*domain.Store, error) {
	return r.list(ctx, `SELECT `+storeColumns+` FROM stores ORDER BY updated_at DESC`)
}

func (r *storeRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Store, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	stores := []*domain.Store{}
	for rows.Next() {
		store := &domain.Store{}
		if err := scanStore(rows, store); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, store)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stores: %w", err)
	}

	return stores, nil
}

// UpdateStatus moves a store to a new moderation status
func (r *storeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StoreStatus) (*domain.Store, error) {
	query := `UPDATE stores SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + storeColumns

	store := &domain.Store{}
	if err := scanStore(r.db.QueryRow(ctx, query, id, status), store); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to update store status: %w", err)
	}
	return store, nil
}

func scanStore(row pgx.Row, s *domain.Store) error {
	return row.Scan(
		&s.ID, &s.Name, &s.Description, &s.Email, &s.Phone, &s.URL, &s.Logo, &s.Cover,
		&s.Featured, &s.Status, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
	)
}
