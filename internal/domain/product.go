package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShippingFeeMethod selects how shipping is charged for a product
type ShippingFeeMethod string

const (
	ShippingFeeByItem   ShippingFeeMethod = "ITEM"
	ShippingFeeByWeight ShippingFeeMethod = "KG"
	ShippingFeeFixed    ShippingFeeMethod = "FIXED"
)

// Valid reports whether m is a known shipping fee method
func (m ShippingFeeMethod) Valid() bool {
	switch m {
	case ShippingFeeByItem, ShippingFeeByWeight, ShippingFeeFixed:
		return true
	}
	return false
}

// Product represents a sellable item owned by a store
type Product struct {
	ID                          uuid.UUID         `json:"id" db:"id"`
	Name                        string            `json:"name" db:"name"`
	Slug                        string            `json:"slug" db:"slug"`
	Description                 string            `json:"description" db:"description"`
	Brand                       string            `json:"brand" db:"brand"`
	SKU                         string            `json:"sku" db:"sku"`
	Weight                      float64           `json:"weight" db:"weight"`
	CategoryID                  uuid.UUID         `json:"category_id" db:"category_id"`
	SubCategoryID               uuid.UUID         `json:"sub_category_id" db:"sub_category_id"`
	StoreID                     uuid.UUID         `json:"store_id" db:"store_id"`
	FreeShippingForAllCountries bool              `json:"free_shipping_for_all_countries" db:"free_shipping_for_all_countries"`
	ShippingFeeMethod           ShippingFeeMethod `json:"shipping_fee_method" db:"shipping_fee_method"`
	Specs                       []Spec            `json:"specs"`
	Variants                    []ProductVariant  `json:"variants"`
	CreatedAt                   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt                   time.Time         `json:"updated_at" db:"updated_at"`
}

// ProductVariant is one purchasable configuration of a product
type ProductVariant struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	SKU         string    `json:"sku" db:"sku"`
	Image       string    `json:"image" db:"image"`
	Images      []string  `json:"images"`
	Sizes       []Size    `json:"sizes"`
	Colors      []Color   `json:"colors"`
	Specs       []Spec    `json:"specs"`
}

// Size is a stock-keeping size of a variant
type Size struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Size     string    `json:"size" db:"size"`
	Quantity int       `json:"quantity" db:"quantity"`
	Price    float64   `json:"price" db:"price"`
	Discount float64   `json:"discount" db:"discount"`
}

// FinalPrice applies the percentage discount to the size price
func (s Size) FinalPrice() float64 {
	return s.Price - s.Price*s.Discount/100
}

// Color is a color offered for a variant
type Color struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// Spec is a free-form name/value specification
type Spec struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Value string    `json:"value" db:"value"`
}

// ProductSummary is the listing row shown on a store's products page
type ProductSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Brand           string    `json:"brand"`
	CategoryName    string    `json:"category_name"`
	SubCategoryName string    `json:"sub_category_name"`
	VariantCount    int       `json:"variant_count"`
	Image           string    `json:"image,omitempty"`
	MinPrice        float64   `json:"min_price"`
	MaxPrice        float64   `json:"max_price"`
	Stock           int       `json:"stock"`
	CreatedAt       time.Time `json:"created_at"`
}
