package transport

import (
	"context"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/storage"

	"github.com/google/uuid"
)

type fakeCategoryService struct {
	categories []*domain.Category
	err        error
	caller     *domain.Identity
	input      domain.CategoryInput
}

func (f *fakeCategoryService) UpsertCategory(ctx context.Context, caller *domain.Identity, in domain.CategoryInput) (*domain.Category, error) {
	f.caller, f.input = caller, in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Category{ID: in.ID, Name: in.Name, URL: in.URL, Image: in.Image}, nil
}

func (f *fakeCategoryService) GetAllCategories(ctx context.Context) ([]*domain.Category, error) {
	return f.categories, f.err
}

func (f *fakeCategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Category{ID: id, Name: "Shoes"}, nil
}

func (f *fakeCategoryService) DeleteCategory(ctx context.Context, caller *domain.Identity, id uuid.UUID) error {
	f.caller = caller
	return f.err
}

type fakeSubCategoryService struct {
	subCategories []*domain.SubCategory
	err           error
	categoryID    uuid.UUID
}

func (f *fakeSubCategoryService) UpsertSubCategory(ctx context.Context, caller *domain.Identity, in domain.SubCategoryInput) (*domain.SubCategory, error) {
	return &domain.SubCategory{ID: in.ID, Name: in.Name, CategoryID: in.CategoryID}, f.err
}

func (f *fakeSubCategoryService) GetAllSubCategories(ctx context.Context) ([]*domain.SubCategory, error) {
	return f.subCategories, f.err
}

func (f *fakeSubCategoryService) GetSubCategory(ctx context.Context, caller *domain.Identity, id uuid.UUID) (*domain.SubCategory, error) {
	return &domain.SubCategory{ID: id}, f.err
}

func (f *fakeSubCategoryService) GetSubCategoriesForCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	f.categoryID = categoryID
	return f.subCategories, f.err
}

func (f *fakeSubCategoryService) DeleteSubCategory(ctx context.Context, caller *domain.Identity, id uuid.UUID) error {
	return f.err
}

type fakeStoreService struct {
	stores []*domain.Store
	err    error
	status domain.StoreStatus
}

func (f *fakeStoreService) UpsertStore(ctx context.Context, caller *domain.Identity, in domain.StoreInput) (*domain.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Store{ID: in.ID, Name: in.Name, URL: in.URL, OwnerID: caller.UserID, Status: domain.StoreStatusPending}, nil
}

func (f *fakeStoreService) GetSellerStores(ctx context.Context, caller *domain.Identity) ([]*domain.Store, error) {
	return f.stores, f.err
}

func (f *fakeStoreService) GetStoreByURL(ctx context.Context, caller *domain.Identity, url string) (*domain.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Store{URL: url, OwnerID: caller.UserID}, nil
}

func (f *fakeStoreService) GetAllStores(ctx context.Context, caller *domain.Identity) ([]*domain.Store, error) {
	return f.stores, f.err
}

func (f *fakeStoreService) UpdateStoreStatus(ctx context.Context, caller *domain.Identity, id uuid.UUID, status domain.StoreStatus) (*domain.Store, error) {
	f.status = status
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Store{ID: id, Status: status}, nil
}

type fakeProductService struct {
	summaries []*domain.ProductSummary
	err       error
	storeURL  string
}

func (f *fakeProductService) UpsertProduct(ctx context.Context, caller *domain.Identity, storeURL string, in domain.ProductInput) (*domain.Product, error) {
	f.storeURL = storeURL
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Product{ID: in.ID, Name: in.Name}, nil
}

func (f *fakeProductService) GetStoreProducts(ctx context.Context, caller *domain.Identity, storeURL string) ([]*domain.ProductSummary, error) {
	f.storeURL = storeURL
	return f.summaries, f.err
}

func (f *fakeProductService) GetStoreProduct(ctx context.Context, caller *domain.Identity, storeURL string, id uuid.UUID) (*domain.Product, error) {
	f.storeURL = storeURL
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Product{ID: id}, nil
}

func (f *fakeProductService) DeleteProduct(ctx context.Context, caller *domain.Identity, storeURL string, id uuid.UUID) error {
	f.storeURL = storeURL
	return f.err
}

type fakePresigner struct {
	err error
}

func (f *fakePresigner) PresignUpload(ctx context.Context, filename, contentType, folder string) (*storage.PresignedUpload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &storage.PresignedUpload{
		UploadURL: "https://bucket.example/" + folder + "/key.png?sig",
		FileURL:   "https://cdn.example/" + folder + "/key.png",
		Key:       folder + "/key.png",
	}, nil
}
