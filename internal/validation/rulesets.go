package validation

import (
	"regexp"
	"unicode/utf8"

	"storefront-admin/internal/domain"

	"github.com/google/uuid"
)

var (
	taxonomyNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s'&-]+$`)
	slugPattern         = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	slugRepeatPattern   = regexp.MustCompile(`[-_ ]{2,}`)
	storeNamePattern    = regexp.MustCompile(`^[a-zA-Z0-9_ &-]+$`)
	storeRepeatPattern  = regexp.MustCompile(`[-_& ]{2,}`)
	phonePattern        = regexp.MustCompile(`^\+?\d+$`)
)

// slugRules is shared by every url field: 2-50 characters of letters,
// digits, hyphen and underscore, with no consecutive separators.
func slugRules(entity string) []Rule[string] {
	msg := "Only letters, numbers, hyphen, and underscore are allowed in the " + entity +
		" url, and consecutive hyphens, underscores, or spaces are not permitted."
	return []Rule[string]{
		Required(entity + " url is required."),
		MinLen(2, entity+" url must be at least 2 characters long."),
		MaxLen(50, entity+" url cannot exceed 50 characters."),
		Matches(slugPattern, msg),
		NotMatches(slugRepeatPattern, msg),
	}
}

func taxonomyNameRules(entity string) []Rule[string] {
	return []Rule[string]{
		Required(entity + " name is required."),
		MinLen(2, entity+" name must be at least 2 characters long."),
		MaxLen(50, entity+" name cannot exceed 50 characters."),
		Matches(taxonomyNamePattern, "Only letters, numbers, and spaces are allowed in the "+entity+" name."),
	}
}

// CategoryRules validates the admin category form
var CategoryRules = NewRuleSet(
	Field("name", func(in domain.CategoryInput) string { return in.Name }, taxonomyNameRules("Category")...),
	Field("image", func(in domain.CategoryInput) string { return in.Image },
		Required("Choose a category image."),
		HTTPURL("Category image must be a valid URL."),
	),
	Field("url", func(in domain.CategoryInput) string { return in.URL }, slugRules("Category")...),
)

// SubCategoryRules validates the admin sub-category form
var SubCategoryRules = NewRuleSet(
	Field("name", func(in domain.SubCategoryInput) string { return in.Name }, taxonomyNameRules("Sub-category")...),
	Field("image", func(in domain.SubCategoryInput) string { return in.Image },
		Required("Choose a sub-category image."),
		HTTPURL("Sub-category image must be a valid URL."),
	),
	Field("url", func(in domain.SubCategoryInput) string { return in.URL }, slugRules("Sub-category")...),
	Field("categoryId", func(in domain.SubCategoryInput) uuid.UUID { return in.CategoryID },
		NotNilUUID("Choose a parent category."),
	),
)

// StoreRules validates the seller store form
var StoreRules = NewRuleSet(
	Field("name", func(in domain.StoreInput) string { return in.Name },
		Required("Store name is required."),
		MinLen(2, "Store name must be at least 2 characters long."),
		MaxLen(50, "Store name cannot exceed 50 characters."),
		Matches(storeNamePattern, "Only letters, numbers, spaces, hyphens, ampersands and underscores are allowed in the store name."),
		NotMatches(storeRepeatPattern, "Consecutive spaces, hyphens, ampersands or underscores are not allowed in the store name."),
	),
	Field("description", func(in domain.StoreInput) string { return in.Description },
		Required("Store description is required."),
		MinLen(30, "Store description must be at least 30 characters long."),
		MaxLen(500, "Store description cannot exceed 500 characters."),
	),
	Field("email", func(in domain.StoreInput) string { return in.Email },
		Required("Store email is required."),
		MaxLen(255, "Store email cannot exceed 255 characters."),
		Email("Invalid email format."),
	),
	Field("phone", func(in domain.StoreInput) string { return in.Phone },
		Required("Store phone number is required."),
		Matches(phonePattern, "Invalid phone number format."),
		MaxLen(32, "Store phone number cannot exceed 32 characters."),
	),
	Field("logo", func(in domain.StoreInput) string { return in.Logo },
		Required("Choose a logo image."),
		HTTPURL("Logo must be a valid URL."),
	),
	Field("cover", func(in domain.StoreInput) string { return in.Cover },
		Required("Choose a cover image."),
		HTTPURL("Cover must be a valid URL."),
	),
	Field("url", func(in domain.StoreInput) string { return in.URL }, slugRules("Store")...),
)

func specFilled(s domain.SpecInput) bool { return s.Name != "" && s.Value != "" }

func specNameFits(s domain.SpecInput) bool { return utf8.RuneCountInString(s.Name) <= 255 }

func atMost(n int) func(string) bool {
	return func(s string) bool { return utf8.RuneCountInString(s) <= n }
}

// VariantRules validates one variant of the product form
var VariantRules = NewRuleSet(
	Field("name", func(in domain.VariantInput) string { return in.Name },
		Required("Variant name is required."),
		MinLen(2, "Variant name must be at least 2 characters long."),
		MaxLen(100, "Variant name cannot exceed 100 characters."),
	),
	Field("sku", func(in domain.VariantInput) string { return in.SKU },
		MaxLen(50, "Variant SKU cannot exceed 50 characters."),
	),
	Field("image", func(in domain.VariantInput) string { return in.Image },
		Required("Choose an image for the product variant."),
	),
	Field("images", func(in domain.VariantInput) []string { return in.Images },
		MinItems[string](3, "Please upload at least 3 images for the product."),
		MaxItems[string](6, "You can upload up to 6 images for the product."),
		Every(func(s string) bool { return s != "" }, "Every product image needs a URL."),
	),
	Field("colors", func(in domain.VariantInput) []string { return in.Colors },
		MinItems[string](1, "Please provide at least one color."),
		Every(func(s string) bool { return s != "" }, "All color fields must be filled in."),
		Every(atMost(50), "Color names cannot exceed 50 characters."),
	),
	Field("sizes", func(in domain.VariantInput) []domain.SizeInput { return in.Sizes },
		MinItems[domain.SizeInput](1, "Please provide at least one size."),
		Every(func(s domain.SizeInput) bool { return s.Size != "" && s.Price > 0 && s.Quantity > 0 },
			"All size fields must be filled in correctly."),
		Every(func(s domain.SizeInput) bool { return s.Price >= 0.01 }, "Price must be greater than 0."),
		Every(func(s domain.SizeInput) bool { return s.Discount >= 0 && s.Discount <= 100 },
			"Discount must be between 0 and 100 percent."),
		Every(func(s domain.SizeInput) bool { return atMost(50)(s.Size) }, "Size names cannot exceed 50 characters."),
	),
	Field("specs", func(in domain.VariantInput) []domain.SpecInput { return in.Specs },
		MinItems[domain.SpecInput](1, "Please provide at least one variant specification."),
		Every(specFilled, "All variant specification fields must be filled in correctly."),
		Every(specNameFits, "Specification names cannot exceed 255 characters."),
	),
)

// ProductRules validates the seller product form including every variant
var ProductRules = NewRuleSet(
	Field("name", func(in domain.ProductInput) string { return in.Name },
		Required("Product name is required."),
		MinLen(2, "Product name must be at least 2 characters long."),
		MaxLen(200, "Product name cannot exceed 200 characters."),
	),
	Field("description", func(in domain.ProductInput) string { return in.Description },
		Required("Product description is required."),
		MinLen(50, "Product description must be at least 50 characters long."),
	),
	Field("categoryId", func(in domain.ProductInput) uuid.UUID { return in.CategoryID },
		NotNilUUID("Product category is required."),
	),
	Field("subCategoryId", func(in domain.ProductInput) uuid.UUID { return in.SubCategoryID },
		NotNilUUID("Product sub-category is required."),
	),
	Field("brand", func(in domain.ProductInput) string { return in.Brand },
		Required("Product brand is required."),
		MinLen(2, "Product brand must be at least 2 characters long."),
		MaxLen(50, "Product brand cannot exceed 50 characters."),
	),
	Field("sku", func(in domain.ProductInput) string { return in.SKU },
		Required("Product SKU is required."),
		MinLen(6, "Product SKU must be at least 6 characters long."),
		MaxLen(50, "Product SKU cannot exceed 50 characters."),
	),
	Field("weight", func(in domain.ProductInput) float64 { return in.Weight },
		Min(0.01, "Please provide a valid product weight."),
	),
	Field("shippingFeeMethod", func(in domain.ProductInput) domain.ShippingFeeMethod { return in.ShippingFeeMethod },
		Valid[domain.ShippingFeeMethod]("Shipping fee method must be ITEM, KG or FIXED."),
	),
	Field("specs", func(in domain.ProductInput) []domain.SpecInput { return in.Specs },
		MinItems[domain.SpecInput](1, "Please provide at least one product specification."),
		Every(specFilled, "All product specification fields must be filled in correctly."),
		Every(specNameFits, "Specification names cannot exceed 255 characters."),
	),
	Field("variants", func(in domain.ProductInput) []domain.VariantInput { return in.Variants },
		MinItems[domain.VariantInput](1, "A product needs at least one variant."),
	),
	Dive("variants", func(in domain.ProductInput) []domain.VariantInput { return in.Variants }, VariantRules),
)
