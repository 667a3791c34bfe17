package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing. They enforce the same unique and foreign
// key rules as the schema.

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
	referenced map[uuid.UUID]bool
	writes     int
	clock      time.Time
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{
		categories: make(map[uuid.UUID]*domain.Category),
		referenced: make(map[uuid.UUID]bool),
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockCategoryRepository) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *mockCategoryRepository) Upsert(ctx context.Context, c *domain.Category) error {
	for id, other := range m.categories {
		if id == c.ID {
			continue
		}
		if other.Name == c.Name {
			return &repository.DuplicateError{Constraint: "categories_name_key", Field: "name"}
		}
		if other.URL == c.URL {
			return &repository.DuplicateError{Constraint: "categories_url_key", Field: "url"}
		}
	}

	m.writes++
	now := m.tick()
	c.CreatedAt, c.UpdatedAt = now, now
	if existing, ok := m.categories[c.ID]; ok {
		c.CreatedAt = existing.CreatedAt
	}
	stored := *c
	m.categories[c.ID] = &stored
	return nil
}

func (m *mockCategoryRepository) FindConflict(ctx context.Context, name, url string, excludeID uuid.UUID) (repository.Conflict, error) {
	var c repository.Conflict
	for id, other := range m.categories {
		if id == excludeID {
			continue
		}
		c.Name = c.Name || other.Name == name
		c.URL = c.URL || other.URL == url
	}
	return c, nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	list := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	return list, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	if m.referenced[id] {
		return fmt.Errorf("failed to delete category: %w", repository.ErrForeignKeyViolation)
	}
	m.writes++
	delete(m.categories, id)
	return nil
}

type mockSubCategoryRepository struct {
	categories *mockCategoryRepository
	subs       map[uuid.UUID]*domain.SubCategory
	writes     int
}

func newMockSubCategoryRepository(categories *mockCategoryRepository) *mockSubCategoryRepository {
	return &mockSubCategoryRepository{categories: categories, subs: make(map[uuid.UUID]*domain.SubCategory)}
}

func (m *mockSubCategoryRepository) Upsert(ctx context.Context, s *domain.SubCategory) error {
	parent, ok := m.categories.categories[s.CategoryID]
	if !ok {
		return fmt.Errorf("failed to upsert sub-category: %w", repository.ErrForeignKeyViolation)
	}
	m.writes++
	stored := *s
	stored.Category = parent
	m.subs[s.ID] = &stored
	m.categories.referenced[s.CategoryID] = true
	return nil
}

func (m *mockSubCategoryRepository) FindConflict(ctx context.Context, name, url string, excludeID uuid.UUID) (repository.Conflict, error) {
	var c repository.Conflict
	for id, other := range m.subs {
		if id == excludeID {
			continue
		}
		c.Name = c.Name || other.Name == name
		c.URL = c.URL || other.URL == url
	}
	return c, nil
}

func (m *mockSubCategoryRepository) List(ctx context.Context) ([]*domain.SubCategory, error) {
	list := []*domain.SubCategory{}
	for _, s := range m.subs {
		list = append(list, s)
	}
	return list, nil
}

func (m *mockSubCategoryRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	list := []*domain.SubCategory{}
	for _, s := range m.subs {
		if s.CategoryID == categoryID {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *mockSubCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	s, ok := m.subs[id]
	if !ok {
		return nil, repository.ErrSubCategoryNotFound
	}
	return s, nil
}

func (m *mockSubCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.subs[id]; !ok {
		return repository.ErrSubCategoryNotFound
	}
	m.writes++
	delete(m.subs, id)
	return nil
}

type mockStoreRepository struct {
	stores map[uuid.UUID]*domain.Store
	writes int
}

func newMockStoreRepository() *mockStoreRepository {
	return &mockStoreRepository{stores: make(map[uuid.UUID]*domain.Store)}
}

func (m *mockStoreRepository) Upsert(ctx context.Context, s *domain.Store) error {
	if existing, ok := m.stores[s.ID]; ok {
		if existing.OwnerID != s.OwnerID {
			return repository.ErrStoreNotOwned
		}
		s.Status = existing.Status
	}
	m.writes++
	stored := *s
	m.stores[s.ID] = &stored
	return nil
}

func (m *mockStoreRepository) URLTaken(ctx context.Context, url string, excludeID uuid.UUID) (bool, error) {
	for id, s := range m.stores {
		if id != excludeID && s.URL == url {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	s, ok := m.stores[id]
	if !ok {
		return nil, repository.ErrStoreNotFound
	}
	return s, nil
}

func (m *mockStoreRepository) FindByURL(ctx context.Context, url string) (*domain.Store, error) {
	for _, s := range m.stores {
		if s.URL == url {
			return s, nil
		}
	}
	return nil, repository.ErrStoreNotFound
}

func (m *mockStoreRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Store, error) {
	list := []*domain.Store{}
	for _, s := range m.stores {
		if s.OwnerID == ownerID {
			list = append(list, s)
		}
	}
	return list, nil
}

func (m *mockStoreRepository) List(ctx context.Context) ([]*domain.Store, error) {
	list := []*domain.Store{}
	for _, s := range m.stores {
		list = append(list, s)
	}
	return list, nil
}

func (m *mockStoreRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StoreStatus) (*domain.Store, error) {
	s, ok := m.stores[id]
	if !ok {
		return nil, repository.ErrStoreNotFound
	}
	m.writes++
	s.Status = status
	return s, nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
	saveErr  error
	writes   int
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Save(ctx context.Context, p *domain.Product) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.writes++
	stored := *p
	m.products[p.ID] = &stored
	return nil
}

func (m *mockProductRepository) SlugExists(ctx context.Context, scope repository.SlugScope, slug string, productID uuid.UUID) (bool, error) {
	for id, p := range m.products {
		if id == productID {
			continue
		}
		if scope == repository.ProductSlugs && p.Slug == slug {
			return true, nil
		}
		if scope == repository.VariantSlugs {
			for _, v := range p.Variants {
				if v.Slug == slug {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepository) VariantOwners(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	owners := map[uuid.UUID]uuid.UUID{}
	for _, p := range m.products {
		for _, v := range p.Variants {
			if slices.Contains(variantIDs, v.ID) {
				owners[v.ID] = p.ID
			}
		}
	}
	return owners, nil
}

func (m *mockProductRepository) ListSummariesByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.ProductSummary, error) {
	list := []*domain.ProductSummary{}
	for _, p := range m.products {
		if p.StoreID == storeID {
			list = append(list, &domain.ProductSummary{ID: p.ID, Name: p.Name, Slug: p.Slug, VariantCount: len(p.Variants)})
		}
	}
	return list, nil
}

func (m *mockProductRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	p, ok := m.products[id]
	if !ok || p.StoreID != storeID {
		return repository.ErrProductNotFound
	}
	m.writes++
	delete(m.products, id)
	return nil
}
