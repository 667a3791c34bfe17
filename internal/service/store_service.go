package service

import (
	"context"
	"errors"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/repository"
	"storefront-admin/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoreService defines the seller store operations and store moderation
type StoreService interface {
	UpsertStore(ctx context.Context, caller *domain.Identity, in domain.StoreInput) (*domain.Store, error)
	GetSellerStores(ctx context.Context, caller *domain.Identity) ([]*domain.Store, error)
	GetStoreByURL(ctx context.Context, caller *domain.Identity, url string) (*domain.Store, error)
	GetAllStores(ctx context.Context, caller *domain.Identity) ([]*domain.Store, error)
	UpdateStoreStatus(ctx context.Context, caller *domain.Identity, id uuid.UUID, status domain.StoreStatus) (*domain.Store, error)
}

type storeService struct {
	stores repository.StoreRepository
	logger *zap.Logger
}

// NewStoreService creates a new instance of StoreService
func NewStoreService(stores repository.StoreRepository, logger *zap.Logger) StoreService {
	return &storeService{stores: stores, logger: logger}
}

// UpsertStore creates a store owned by the caller or updates one of the
// caller's stores. New stores start PENDING; updates keep the stored status.
func (s *storeService) UpsertStore(ctx context.Context, caller *domain.Identity, in domain.StoreInput) (*domain.Store, error) {
	if err := requireRole(caller, domain.RoleSeller); err != nil {
		return nil, err
	}

	in.Normalize()
	if err := validate(validation.StoreRules, in); err != nil {
		return nil, err
	}

	status := domain.StoreStatusPending
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	} else {
		existing, err := s.stores.FindByID(ctx, in.ID)
		switch {
		case errors.Is(err, repository.ErrStoreNotFound):
		case err != nil:
			return nil, &OperationError{Op: "find store", Err: err}
		case existing.OwnerID != caller.UserID:
			return nil, ErrUnauthorized
		default:
			status = existing.Status
		}
	}

	taken, err := s.stores.URLTaken(ctx, in.URL, in.ID)
	if err != nil {
		return nil, &OperationError{Op: "check store url", Err: err}
	}
	if taken {
		return nil, &ConflictError{Entity: "store", Field: "url"}
	}

	store := &domain.Store{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Email:       in.Email,
		Phone:       in.Phone,
		URL:         in.URL,
		Logo:        in.Logo,
		Cover:       in.Cover,
		Featured:    in.Featured,
		Status:      status,
		OwnerID:     caller.UserID,
	}
	if err := s.stores.Upsert(ctx, store); err != nil {
		return nil, storageError("store", "upsert store", err)
	}

	s.logger.Info("Store saved",
		zap.String("store_id", store.ID.String()),
		zap.String("status", string(store.Status)),
		zap.String("user_id", caller.UserID),
	)
	return store, nil
}

// GetSellerStores lists the caller's stores, newest first. The seller
// dashboard opens the first one.
func (s *storeService) GetSellerStores(ctx context.Context, caller *domain.Identity) ([]*domain.Store, error) {
	if err := requireRole(caller, domain.RoleSeller); err != nil {
		return nil, err
	}

	stores, err := s.stores.ListByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, &OperationError{Op: "list seller stores", Err: err}
	}
	return stores, nil
}

func (s *storeService) GetStoreByURL(ctx context.Context, caller *domain.Identity, url string) (*domain.Store, error) {
	return ownedStore(ctx, s.stores, caller, url)
}

func (s *storeService) GetAllStores(ctx context.Context, caller *domain.Identity) ([]*domain.Store, error) {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}

	stores, err := s.stores.List(ctx)
	if err != nil {
		return nil, &OperationError{Op: "list stores", Err: err}
	}
	return stores, nil
}

// UpdateStoreStatus moves a store between PENDING, ACTIVE and SUSPENDED
func (s *storeService) UpdateStoreStatus(ctx context.Context, caller *domain.Identity, id uuid.UUID, status domain.StoreStatus) (*domain.Store, error) {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, newValidationError("id", "Store id is required.")
	}
	if !status.Valid() {
		return nil, newValidationError("status", "Status must be PENDING, ACTIVE or SUSPENDED.")
	}

	store, err := s.stores.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, storageError("store", "update store status", err)
	}

	s.logger.Info("Store status changed",
		zap.String("store_id", id.String()),
		zap.String("status", string(status)),
		zap.String("user_id", caller.UserID),
	)
	return store, nil
}
