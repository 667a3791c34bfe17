package service

import (
	"context"
	"testing"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSubCategoryFixture(t *testing.T) (*mockCategoryRepository, *mockSubCategoryRepository, SubCategoryService, *domain.Category) {
	t.Helper()
	categories := newMockCategoryRepository()
	subs := newMockSubCategoryRepository(categories)

	cat, err := NewCategoryService(categories, zap.NewNop()).UpsertCategory(context.Background(), admin, shoes())
	require.NoError(t, err)

	return categories, subs, NewSubCategoryService(subs, zap.NewNop()), cat
}

func TestUpsertSubCategory_UnknownCategoryIsOperationError(t *testing.T) {
	_, subs, svc, _ := newSubCategoryFixture(t)

	_, err := svc.UpsertSubCategory(context.Background(), admin, domain.SubCategoryInput{
		Name: "Sneakers", URL: "sneakers", Image: "http://x/s.png", CategoryID: uuid.New(),
	})

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.ErrorIs(t, err, repository.ErrForeignKeyViolation)
	assert.Zero(t, subs.writes)
}

func TestUpsertSubCategory_CarriesParent(t *testing.T) {
	_, _, svc, cat := newSubCategoryFixture(t)
	ctx := context.Background()

	sub, err := svc.UpsertSubCategory(ctx, admin, domain.SubCategoryInput{
		Name: "  Sneakers ", URL: " sneakers", Image: "http://x/s.png", CategoryID: cat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sneakers", sub.Name)
	assert.Equal(t, "sneakers", sub.URL)

	got, err := svc.GetSubCategory(ctx, seller, sub.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, cat.ID, got.Category.ID)

	list, err := svc.GetSubCategoriesForCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	all, err := svc.GetAllSubCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpsertSubCategory_Conflict(t *testing.T) {
	_, _, svc, cat := newSubCategoryFixture(t)
	ctx := context.Background()

	_, err := svc.UpsertSubCategory(ctx, admin, domain.SubCategoryInput{
		Name: "Sneakers", URL: "sneakers", Image: "http://x/s.png", CategoryID: cat.ID,
	})
	require.NoError(t, err)

	_, err = svc.UpsertSubCategory(ctx, admin, domain.SubCategoryInput{
		Name: "Trainers", URL: "sneakers", Image: "http://x/t.png", CategoryID: cat.ID,
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "url", conflict.Field)
	assert.Equal(t, "sub-category", conflict.Entity)
}

func TestGetSubCategory_RequiresIdentity(t *testing.T) {
	_, _, svc, _ := newSubCategoryFixture(t)
	ctx := context.Background()

	_, err := svc.GetSubCategory(ctx, nil, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.GetSubCategory(ctx, buyer, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetSubCategory(ctx, buyer, uuid.Nil)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
