package service

import (
	"context"
	"errors"
	"fmt"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/repository"
	"storefront-admin/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService defines the seller product operations scoped to a store
type ProductService interface {
	UpsertProduct(ctx context.Context, caller *domain.Identity, storeURL string, in domain.ProductInput) (*domain.Product, error)
	GetStoreProducts(ctx context.Context, caller *domain.Identity, storeURL string) ([]*domain.ProductSummary, error)
	GetStoreProduct(ctx context.Context, caller *domain.Identity, storeURL string, id uuid.UUID) (*domain.Product, error)
	DeleteProduct(ctx context.Context, caller *domain.Identity, storeURL string, id uuid.UUID) error
}

type productService struct {
	products      repository.ProductRepository
	stores        repository.StoreRepository
	subCategories repository.SubCategoryRepository
	logger        *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	products repository.ProductRepository,
	stores repository.StoreRepository,
	subCategories repository.SubCategoryRepository,
	logger *zap.Logger,
) ProductService {
	return &productService{
		products:      products,
		stores:        stores,
		subCategories: subCategories,
		logger:        logger,
	}
}

// UpsertProduct writes a product with all of its variants in one transaction.
// The sub-category must belong to the chosen category.
func (s *productService) UpsertProduct(ctx context.Context, caller *domain.Identity, storeURL string, in domain.ProductInput) (*domain.Product, error) {
	store, err := ownedStore(ctx, s.stores, caller, storeURL)
	if err != nil {
		return nil, err
	}

	in.Normalize()
	if err := validate(validation.ProductRules, in); err != nil {
		return nil, err
	}

	sub, err := s.subCategories.FindByID(ctx, in.SubCategoryID)
	switch {
	case errors.Is(err, repository.ErrSubCategoryNotFound):
		return nil, newValidationError("subCategoryId", "Choose a valid sub-category.")
	case err != nil:
		return nil, &OperationError{Op: "find sub-category", Err: err}
	case sub.CategoryID != in.CategoryID:
		return nil, newValidationError("subCategoryId", "The sub-category does not belong to the selected category.")
	}

	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	} else {
		existing, err := s.products.FindByID(ctx, in.ID)
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
		case err != nil:
			return nil, &OperationError{Op: "find product", Err: err}
		case existing.StoreID != store.ID:
			return nil, ErrUnauthorized
		}
	}
	if err := s.checkVariantIDs(ctx, in.ID, in.Variants); err != nil {
		return nil, err
	}

	product, err := s.buildProduct(ctx, store.ID, in)
	if err != nil {
		return nil, &OperationError{Op: "generate product slugs", Err: err}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, storageError("product", "save product", err)
	}

	s.logger.Info("Product saved",
		zap.String("product_id", product.ID.String()),
		zap.String("store_id", store.ID.String()),
		zap.Int("variants", len(product.Variants)),
		zap.String("user_id", caller.UserID),
	)
	return product, nil
}

// checkVariantIDs lets the client pick ids for new variants but rejects ids
// repeated in the payload or already used by another product.
func (s *productService) checkVariantIDs(ctx context.Context, productID uuid.UUID, variants []domain.VariantInput) error {
	ids := make([]uuid.UUID, 0, len(variants))
	seen := map[uuid.UUID]bool{}
	for i, v := range variants {
		if v.ID == uuid.Nil {
			continue
		}
		if seen[v.ID] {
			return newValidationError(fmt.Sprintf("variants[%d].id", i), "Each variant must have its own id.")
		}
		seen[v.ID] = true
		ids = append(ids, v.ID)
	}

	owners, err := s.products.VariantOwners(ctx, ids)
	if err != nil {
		return &OperationError{Op: "check variant ids", Err: err}
	}
	for i, v := range variants {
		if owner, ok := owners[v.ID]; ok && owner != productID {
			return newValidationError(fmt.Sprintf("variants[%d].id", i), "The variant belongs to another product.")
		}
	}
	return nil
}

func (s *productService) buildProduct(ctx context.Context, storeID uuid.UUID, in domain.ProductInput) (*domain.Product, error) {
	reserved := map[string]bool{}

	slug, err := uniqueSlug(ctx, slugify(in.Name), reserved, slugExistsIn(s.products, repository.ProductSlugs, in.ID))
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:                          in.ID,
		Name:                        in.Name,
		Slug:                        slug,
		Description:                 in.Description,
		Brand:                       in.Brand,
		SKU:                         in.SKU,
		Weight:                      in.Weight,
		CategoryID:                  in.CategoryID,
		SubCategoryID:               in.SubCategoryID,
		StoreID:                     storeID,
		FreeShippingForAllCountries: in.FreeShippingForAllCountries,
		ShippingFeeMethod:           in.ShippingFeeMethod,
		Specs:                       toSpecs(in.Specs),
		Variants:                    make([]domain.ProductVariant, 0, len(in.Variants)),
	}

	variantSlugs := slugExistsIn(s.products, repository.VariantSlugs, in.ID)
	for _, vin := range in.Variants {
		vslug, err := uniqueSlug(ctx, slugify(in.Name+" "+vin.Name), reserved, variantSlugs)
		if err != nil {
			return nil, err
		}

		id := vin.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		variant := domain.ProductVariant{
			ID:          id,
			ProductID:   in.ID,
			Name:        vin.Name,
			Slug:        vslug,
			Description: vin.Description,
			SKU:         vin.SKU,
			Image:       vin.Image,
			Images:      append([]string(nil), vin.Images...),
			Specs:       toSpecs(vin.Specs),
		}
		for _, size := range vin.Sizes {
			variant.Sizes = append(variant.Sizes, domain.Size{
				ID:       uuid.New(),
				Size:     size.Size,
				Quantity: size.Quantity,
				Price:    size.Price,
				Discount: size.Discount,
			})
		}
		for _, color := range vin.Colors {
			variant.Colors = append(variant.Colors, domain.Color{ID: uuid.New(), Name: color})
		}
		product.Variants = append(product.Variants, variant)
	}

	return product, nil
}

func toSpecs(in []domain.SpecInput) []domain.Spec {
	specs := make([]domain.Spec, 0, len(in))
	for _, s := range in {
		specs = append(specs, domain.Spec{ID: uuid.New(), Name: s.Name, Value: s.Value})
	}
	return specs
}

// GetStoreProducts returns the products page rows of one of the caller's stores
func (s *productService) GetStoreProducts(ctx context.Context, caller *domain.Identity, storeURL string) ([]*domain.ProductSummary, error) {
	store, err := ownedStore(ctx, s.stores, caller, storeURL)
	if err != nil {
		return nil, err
	}

	products, err := s.products.ListSummariesByStore(ctx, store.ID)
	if err != nil {
		return nil, &OperationError{Op: "list store products", Err: err}
	}
	return products, nil
}

func (s *productService) GetStoreProduct(ctx context.Context, caller *domain.Identity, storeURL string, id uuid.UUID) (*domain.Product, error) {
	store, err := ownedStore(ctx, s.stores, caller, storeURL)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, newValidationError("id", "Product id is required.")
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("product", "get product", err)
	}
	if product.StoreID != store.ID {
		return nil, ErrNotFound
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, caller *domain.Identity, storeURL string, id uuid.UUID) error {
	store, err := ownedStore(ctx, s.stores, caller, storeURL)
	if err != nil {
		return err
	}
	if id == uuid.Nil {
		return newValidationError("id", "Product id is required.")
	}

	if err := s.products.Delete(ctx, store.ID, id); err != nil {
		return storageError("product", "delete product", err)
	}

	s.logger.Info("Product deleted",
		zap.String("product_id", id.String()),
		zap.String("store_id", store.ID.String()),
		zap.String("user_id", caller.UserID),
	)
	return nil
}
