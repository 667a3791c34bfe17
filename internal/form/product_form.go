package form

import (
	"context"
	"errors"
	"fmt"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/validation"

	"github.com/google/uuid"
)

var ErrUnknownSubCategory = errors.New("sub-category is not available for the selected category")

// SubCategoryLoader fetches the sub-categories of one category
type SubCategoryLoader func(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error)

// ProductForm is the seller product editor. The sub-category select only
// offers children of the selected category.
type ProductForm struct {
	*Form[domain.ProductInput]
	Variants *FieldArray[domain.VariantInput]

	load    SubCategoryLoader
	options []*domain.SubCategory
}

// NewProductForm builds the editor for initial. When initial already names a
// category its sub-categories are loaded immediately.
func NewProductForm(ctx context.Context, initial domain.ProductInput, load SubCategoryLoader) (*ProductForm, error) {
	p := &ProductForm{
		Form: New(initial, validation.ProductRules),
		load: load,
	}
	p.Variants = NewFieldArray(initial.Variants, func(variants []domain.VariantInput) {
		p.Set("variants", func(in *domain.ProductInput) { in.Variants = variants })
	})

	if initial.CategoryID != uuid.Nil {
		options, err := load(ctx, initial.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to load sub-categories: %w", err)
		}
		p.options = options
	}
	return p, nil
}

// SelectCategory changes the category, refreshes the sub-category options and
// clears a selected sub-category that does not belong to the new category.
// A nil id clears the category, the options and the selection.
func (p *ProductForm) SelectCategory(ctx context.Context, categoryID uuid.UUID) error {
	var options []*domain.SubCategory
	if categoryID != uuid.Nil {
		var err error
		options, err = p.load(ctx, categoryID)
		if err != nil {
			return fmt.Errorf("failed to load sub-categories: %w", err)
		}
	}
	p.options = options

	p.Set("categoryId", func(in *domain.ProductInput) { in.CategoryID = categoryID })
	if current := p.Values().SubCategoryID; current != uuid.Nil && !p.offers(current) {
		p.Set("subCategoryId", func(in *domain.ProductInput) { in.SubCategoryID = uuid.Nil })
	}
	return nil
}

// SelectSubCategory picks one of the current options
func (p *ProductForm) SelectSubCategory(id uuid.UUID) error {
	if id != uuid.Nil && !p.offers(id) {
		return ErrUnknownSubCategory
	}
	p.Set("subCategoryId", func(in *domain.ProductInput) { in.SubCategoryID = id })
	return nil
}

// SubCategoryOptions lists the selectable sub-categories
func (p *ProductForm) SubCategoryOptions() []*domain.SubCategory {
	return p.options
}

func (p *ProductForm) offers(id uuid.UUID) bool {
	for _, s := range p.options {
		if s.ID == id {
			return true
		}
	}
	return false
}
