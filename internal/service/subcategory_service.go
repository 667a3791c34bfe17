package service

import (
	"context"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/repository"
	"storefront-admin/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubCategoryService defines the admin sub-category operations
type SubCategoryService interface {
	UpsertSubCategory(ctx context.Context, caller *domain.Identity, in domain.SubCategoryInput) (*domain.SubCategory, error)
	GetAllSubCategories(ctx context.Context) ([]*domain.SubCategory, error)
	GetSubCategory(ctx context.Context, caller *domain.Identity, id uuid.UUID) (*domain.SubCategory, error)
	GetSubCategoriesForCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error)
	DeleteSubCategory(ctx context.Context, caller *domain.Identity, id uuid.UUID) error
}

type subCategoryService struct {
	subCategories repository.SubCategoryRepository
	logger        *zap.Logger
}

// NewSubCategoryService creates a new instance of SubCategoryService
func NewSubCategoryService(subCategories repository.SubCategoryRepository, logger *zap.Logger) SubCategoryService {
	return &subCategoryService{subCategories: subCategories, logger: logger}
}

// UpsertSubCategory creates the sub-category or updates the one with the
// same id. A parent category that does not exist surfaces as an OperationError.
func (s *subCategoryService) UpsertSubCategory(ctx context.Context, caller *domain.Identity, in domain.SubCategoryInput) (*domain.SubCategory, error) {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}

	in.Normalize()
	if err := validate(validation.SubCategoryRules, in); err != nil {
		return nil, err
	}
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}

	conflict, err := s.subCategories.FindConflict(ctx, in.Name, in.URL, in.ID)
	if err != nil {
		return nil, &OperationError{Op: "check sub-category uniqueness", Err: err}
	}
	if err := conflictError("sub-category", conflict); err != nil {
		return nil, err
	}

	sub := &domain.SubCategory{
		ID:         in.ID,
		Name:       in.Name,
		URL:        in.URL,
		Image:      in.Image,
		Featured:   in.Featured,
		CategoryID: in.CategoryID,
	}
	if err := s.subCategories.Upsert(ctx, sub); err != nil {
		return nil, storageError("sub-category", "upsert sub-category", err)
	}

	s.logger.Info("Sub-category saved",
		zap.String("sub_category_id", sub.ID.String()),
		zap.String("category_id", sub.CategoryID.String()),
		zap.String("user_id", caller.UserID),
	)
	return sub, nil
}

// GetAllSubCategories lists every sub-category with its parent category
func (s *subCategoryService) GetAllSubCategories(ctx context.Context) ([]*domain.SubCategory, error) {
	subs, err := s.subCategories.List(ctx)
	if err != nil {
		return nil, &OperationError{Op: "list sub-categories", Err: err}
	}
	return subs, nil
}

// GetSubCategory requires a signed-in caller of any role
func (s *subCategoryService) GetSubCategory(ctx context.Context, caller *domain.Identity, id uuid.UUID) (*domain.SubCategory, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, newValidationError("id", "Sub-category id is required.")
	}

	sub, err := s.subCategories.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("sub-category", "get sub-category", err)
	}
	return sub, nil
}

func (s *subCategoryService) GetSubCategoriesForCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	if categoryID == uuid.Nil {
		return nil, newValidationError("categoryId", "Category id is required.")
	}

	subs, err := s.subCategories.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, &OperationError{Op: "list category sub-categories", Err: err}
	}
	return subs, nil
}

func (s *subCategoryService) DeleteSubCategory(ctx context.Context, caller *domain.Identity, id uuid.UUID) error {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return err
	}
	if id == uuid.Nil {
		return newValidationError("id", "Sub-category id is required.")
	}

	if err := s.subCategories.Delete(ctx, id); err != nil {
		return storageError("sub-category", "delete sub-category", err)
	}

	s.logger.Info("Sub-category deleted", zap.String("sub_category_id", id.String()), zap.String("user_id", caller.UserID))
	return nil
}
