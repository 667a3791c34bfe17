package domain

import (
	"strings"

	"github.com/google/uuid"
)

// CategoryInput carries the editable fields of a Category.
// ID is client-generated; a zero ID asks the server to assign one.
type CategoryInput struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	URL      string    `json:"url"`
	Image    string    `json:"image"`
	Featured bool      `json:"featured"`
}

// Normalize trims the string fields in place
func (in *CategoryInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.URL = strings.TrimSpace(in.URL)
	in.Image = strings.TrimSpace(in.Image)
}

// SubCategoryInput carries the editable fields of a SubCategory
type SubCategoryInput struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Image      string    `json:"image"`
	Featured   bool      `json:"featured"`
	CategoryID uuid.UUID `json:"category_id"`
}

func (in *SubCategoryInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.URL = strings.TrimSpace(in.URL)
	in.Image = strings.TrimSpace(in.Image)
}

// StoreInput carries the seller-editable fields of a Store.
// Status and owner are never taken from the input.
type StoreInput struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	URL         string    `json:"url"`
	Logo        string    `json:"logo"`
	Cover       string    `json:"cover"`
	Featured    bool      `json:"featured"`
}

func (in *StoreInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.URL = strings.TrimSpace(in.URL)
	in.Logo = strings.TrimSpace(in.Logo)
	in.Cover = strings.TrimSpace(in.Cover)
}

// SpecInput is a name/value pair entered on the product form
type SpecInput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SizeInput is one row of the sizes table on the product form
type SizeInput struct {
	Size     string  `json:"size"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"`
}

// VariantInput carries one product variant with its children
type VariantInput struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	SKU         string      `json:"sku"`
	Image       string      `json:"image"`
	Images      []string    `json:"images"`
	Colors      []string    `json:"colors"`
	Sizes       []SizeInput `json:"sizes"`
	Specs       []SpecInput `json:"specs"`
}

// ProductInput carries a product and its variants as one composite record
type ProductInput struct {
	ID                          uuid.UUID         `json:"id"`
	Name                        string            `json:"name"`
	Description                 string            `json:"description"`
	Brand                       string            `json:"brand"`
	SKU                         string            `json:"sku"`
	Weight                      float64           `json:"weight"`
	CategoryID                  uuid.UUID         `json:"category_id"`
	SubCategoryID               uuid.UUID         `json:"sub_category_id"`
	FreeShippingForAllCountries bool              `json:"free_shipping_for_all_countries"`
	ShippingFeeMethod           ShippingFeeMethod `json:"shipping_fee_method"`
	Specs                       []SpecInput       `json:"specs"`
	Variants                    []VariantInput    `json:"variants"`
}

func (in *ProductInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Brand = strings.TrimSpace(in.Brand)
	in.SKU = strings.TrimSpace(in.SKU)
	if in.ShippingFeeMethod == "" {
		in.ShippingFeeMethod = ShippingFeeByItem
	}
	trimSpecs(in.Specs)
	for i := range in.Variants {
		v := &in.Variants[i]
		v.Name = strings.TrimSpace(v.Name)
		v.Description = strings.TrimSpace(v.Description)
		v.SKU = strings.TrimSpace(v.SKU)
		v.Image = strings.TrimSpace(v.Image)
		for j := range v.Images {
			v.Images[j] = strings.TrimSpace(v.Images[j])
		}
		for j := range v.Colors {
			v.Colors[j] = strings.TrimSpace(v.Colors[j])
		}
		for j := range v.Sizes {
			v.Sizes[j].Size = strings.TrimSpace(v.Sizes[j].Size)
		}
		trimSpecs(v.Specs)
	}
}

func trimSpecs(specs []SpecInput) {
	for i := range specs {
		specs[i].Name = strings.TrimSpace(specs[i].Name)
		specs[i].Value = strings.TrimSpace(specs[i].Value)
	}
}
