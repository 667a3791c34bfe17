package service

import (
	"context"
	"errors"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/repository"
)

func requireIdentity(caller *domain.Identity) error {
	if caller == nil || caller.UserID == "" {
		return ErrUnauthenticated
	}
	return nil
}

func requireRole(caller *domain.Identity, role domain.Role) error {
	if err := requireIdentity(caller); err != nil {
		return err
	}
	if !caller.HasRole(role) {
		return ErrUnauthorized
	}
	return nil
}

// ownedStore resolves a store by url and checks it belongs to the seller.
// Stores of other sellers are reported as unauthorized, not missing.
func ownedStore(ctx context.Context, stores repository.StoreRepository, caller *domain.Identity, storeURL string) (*domain.Store, error) {
	if err := requireRole(caller, domain.RoleSeller); err != nil {
		return nil, err
	}
	if storeURL == "" {
		return nil, newValidationError("storeUrl", "Store url is required.")
	}

	store, err := stores.FindByURL(ctx, storeURL)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, ErrNotFound
		}
		return nil, &OperationError{Op: "find store", Err: err}
	}
	if store.OwnerID != caller.UserID {
		return nil, ErrUnauthorized
	}
	return store, nil
}
