package service

import (
	"context"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/repository"
	"storefront-admin/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService defines the admin category operations
type CategoryService interface {
	UpsertCategory(ctx context.Context, caller *domain.Identity, in domain.CategoryInput) (*domain.Category, error)
	GetAllCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	DeleteCategory(ctx context.Context, caller *domain.Identity, id uuid.UUID) error
}

type categoryService struct {
	categories repository.CategoryRepository
	logger     *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categories repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryService{categories: categories, logger: logger}
}

// UpsertCategory creates the category or updates the one with the same id.
// Name and url must not be used by any other category.
func (s *categoryService) UpsertCategory(ctx context.Context, caller *domain.Identity, in domain.CategoryInput) (*domain.Category, error) {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}

	in.Normalize()
	if err := validate(validation.CategoryRules, in); err != nil {
		return nil, err
	}
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}

	conflict, err := s.categories.FindConflict(ctx, in.Name, in.URL, in.ID)
	if err != nil {
		return nil, &OperationError{Op: "check category uniqueness", Err: err}
	}
	if err := conflictError("category", conflict); err != nil {
		return nil, err
	}

	category := &domain.Category{
		ID:       in.ID,
		Name:     in.Name,
		URL:      in.URL,
		Image:    in.Image,
		Featured: in.Featured,
	}
	if err := s.categories.Upsert(ctx, category); err != nil {
		return nil, storageError("category", "upsert category", err)
	}

	s.logger.Info("Category saved",
		zap.String("category_id", category.ID.String()),
		zap.String("user_id", caller.UserID),
	)
	return category, nil
}

// GetAllCategories lists every category, most recently updated first
func (s *categoryService) GetAllCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, &OperationError{Op: "list categories", Err: err}
	}
	return categories, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if id == uuid.Nil {
		return nil, newValidationError("id", "Category id is required.")
	}

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("category", "get category", err)
	}
	return category, nil
}

// DeleteCategory removes a category that nothing references anymore
func (s *categoryService) DeleteCategory(ctx context.Context, caller *domain.Identity, id uuid.UUID) error {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return err
	}
	if id == uuid.Nil {
		return newValidationError("id", "Category id is required.")
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return storageError("category", "delete category", err)
	}

	s.logger.Info("Category deleted", zap.String("category_id", id.String()), zap.String("user_id", caller.UserID))
	return nil
}

// conflictError reports a name collision before a url collision
func conflictError(entity string, c repository.Conflict) error {
	switch {
	case c.Name:
		return &ConflictError{Entity: entity, Field: "name"}
	case c.URL:
		return &ConflictError{Entity: entity, Field: "url"}
	}
	return nil
}

