package form

import (
	"context"
	"errors"
	"testing"

	"storefront-admin/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalog struct {
	subCategories []*domain.SubCategory
	calls         int
}

func (c *catalog) load(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	c.calls++
	var out []*domain.SubCategory
	for _, s := range c.subCategories {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func newCatalog() (*catalog, uuid.UUID, uuid.UUID) {
	a, b := uuid.New(), uuid.New()
	return &catalog{subCategories: []*domain.SubCategory{
		{ID: uuid.New(), Name: "Sneakers", CategoryID: a},
		{ID: uuid.New(), Name: "Boots", CategoryID: a},
		{ID: uuid.New(), Name: "Totes", CategoryID: b},
	}}, a, b
}

func TestProductForm_ChangingCategoryClearsSubCategory(t *testing.T) {
	c, a, b := newCatalog()
	ctx := context.Background()

	p, err := NewProductForm(ctx, domain.ProductInput{}, c.load)
	require.NoError(t, err)
	assert.Empty(t, p.SubCategoryOptions())

	require.NoError(t, p.SelectCategory(ctx, a))
	assert.Len(t, p.SubCategoryOptions(), 2)

	sneakers := c.subCategories[0].ID
	require.NoError(t, p.SelectSubCategory(sneakers))
	assert.Equal(t, sneakers, p.Values().SubCategoryID)

	require.NoError(t, p.SelectCategory(ctx, b))
	options := p.SubCategoryOptions()
	require.Len(t, options, 1)
	assert.Equal(t, "Totes", options[0].Name)
	assert.Equal(t, uuid.Nil, p.Values().SubCategoryID)
	assert.Equal(t, b, p.Values().CategoryID)

	msg, ok := p.FieldError("subCategoryId")
	require.True(t, ok)
	assert.NotEmpty(t, msg)
}

func TestProductForm_ClearingCategoryEmptiesOptions(t *testing.T) {
	c, a, _ := newCatalog()
	ctx := context.Background()

	p, err := NewProductForm(ctx, domain.ProductInput{CategoryID: a, SubCategoryID: c.subCategories[1].ID}, c.load)
	require.NoError(t, err)
	assert.Len(t, p.SubCategoryOptions(), 2)

	require.NoError(t, p.SelectCategory(ctx, uuid.Nil))
	assert.Empty(t, p.SubCategoryOptions())
	assert.Equal(t, uuid.Nil, p.Values().SubCategoryID)
	assert.Equal(t, 1, c.calls)
}

func TestProductForm_SameCategoryKeepsSelection(t *testing.T) {
	c, a, _ := newCatalog()
	ctx := context.Background()
	boots := c.subCategories[1].ID

	p, err := NewProductForm(ctx, domain.ProductInput{CategoryID: a, SubCategoryID: boots}, c.load)
	require.NoError(t, err)

	require.NoError(t, p.SelectCategory(ctx, a))
	assert.Equal(t, boots, p.Values().SubCategoryID)
}

func TestProductForm_RejectsForeignSubCategory(t *testing.T) {
	c, a, _ := newCatalog()
	ctx := context.Background()

	p, err := NewProductForm(ctx, domain.ProductInput{CategoryID: a}, c.load)
	require.NoError(t, err)

	assert.ErrorIs(t, p.SelectSubCategory(c.subCategories[2].ID), ErrUnknownSubCategory)
	assert.Equal(t, uuid.Nil, p.Values().SubCategoryID)
}

func TestProductForm_LoaderFailure(t *testing.T) {
	boom := errors.New("boom")
	load := func(context.Context, uuid.UUID) ([]*domain.SubCategory, error) { return nil, boom }

	_, err := NewProductForm(context.Background(), domain.ProductInput{CategoryID: uuid.New()}, load)
	assert.ErrorIs(t, err, boom)
}

func TestProductForm_VariantChangesRevalidate(t *testing.T) {
	c, _, _ := newCatalog()
	p, err := NewProductForm(context.Background(), domain.ProductInput{}, c.load)
	require.NoError(t, err)

	key := p.Variants.Append(domain.VariantInput{Name: "B"})
	require.Len(t, p.Values().Variants, 1)
	msg, ok := p.FieldError("variants[0].name")
	require.True(t, ok)
	assert.Equal(t, "Variant name must be at least 2 characters long.", msg)

	require.True(t, p.Variants.Remove(key))
	assert.Empty(t, p.Values().Variants)
	msg, ok = p.FieldError("variants")
	require.True(t, ok)
	assert.Equal(t, "A product needs at least one variant.", msg)
}
