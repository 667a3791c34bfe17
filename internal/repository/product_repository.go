package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront-admin/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// SlugScope names the table whose slug column is checked
type SlugScope string

const (
	ProductSlugs SlugScope = "products"
	VariantSlugs SlugScope = "product_variants"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Save(ctx context.Context, product *domain.Product) error
	SlugExists(ctx context.Context, scope SlugScope, slug string, productID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	VariantOwners(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
	ListSummariesByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.ProductSummary, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}

type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

// Save writes the product with all its specs, variants and variant children
// in one transaction. Existing children are replaced. Updating a product that
// belongs to a different store fails with ErrProductNotFound.
func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO products (id, name, slug, description, brand, sku, weight, category_id,
			                      sub_category_id, store_id, free_shipping_for_all_countries, shipping_fee_method)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, slug = EXCLUDED.slug, description = EXCLUDED.description,
			    brand = EXCLUDED.brand, sku = EXCLUDED.sku, weight = EXCLUDED.weight,
			    category_id = EXCLUDED.category_id, sub_category_id = EXCLUDED.sub_category_id,
			    free_shipping_for_all_countries = EXCLUDED.free_shipping_for_all_countries,
			    shipping_fee_method = EXCLUDED.shipping_fee_method, updated_at = NOW()
			WHERE products.store_id = EXCLUDED.store_id
			RETURNING created_at, updated_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			product.ID,
			product.Name,
			product.Slug,
			product.Description,
			product.Brand,
			product.SKU,
			product.Weight,
			product.CategoryID,
			product.SubCategoryID,
			product.StoreID,
			product.FreeShippingForAllCountries,
			product.ShippingFeeMethod,
		).Scan(&product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrProductNotFound
			}
			return wrapError("save product", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM product_specs WHERE product_id = $1`, product.ID); err != nil {
			return wrapError("clear product specs", err)
		}
		for i := range product.Specs {
			spec := &product.Specs[i]
			if _, err := tx.Exec(ctx,
				`INSERT INTO product_specs (id, product_id, name, value) VALUES ($1, $2, $3, $4)`,
				spec.ID, product.ID, spec.Name, spec.Value,
			); err != nil {
				return wrapError("insert product spec", err)
			}
		}

		// Cascades to images, sizes, colors and variant specs.
		if _, err := tx.Exec(ctx, `DELETE FROM product_variants WHERE product_id = $1`, product.ID); err != nil {
			return wrapError("clear product variants", err)
		}
		for i := range product.Variants {
			if err := insertVariant(ctx, tx, product.ID, i, &product.Variants[i]); err != nil {
				return err
			}
		}

		return nil
	})
}

func insertVariant(ctx context.Context, tx pgx.Tx, productID uuid.UUID, position int, v *domain.ProductVariant) error {
	v.ProductID = productID

	_, err := tx.Exec(ctx, `
		INSERT INTO product_variants (id, product_id, name, slug, description, sku, image, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, v.ID, productID, v.Name, v.Slug, v.Description, v.SKU, v.Image, position)
	if err != nil {
		return wrapError("insert product variant", err)
	}

	for i, url := range v.Images {
		if _, err := tx.Exec(ctx,
			`INSERT INTO variant_images (id, variant_id, url, position) VALUES ($1, $2, $3, $4)`,
			uuid.New(), v.ID, url, i,
		); err != nil {
			return wrapError("insert variant image", err)
		}
	}

	for i := range v.Sizes {
		s := &v.Sizes[i]
		if _, err := tx.Exec(ctx,
			`INSERT INTO sizes (id, variant_id, size, quantity, price, discount) VALUES ($1, $2, $3, $4, $5, $6)`,
			s.ID, v.ID, s.Size, s.Quantity, s.Price, s.Discount,
		); err != nil {
			return wrapError("insert variant size", err)
		}
	}

	for i := range v.Colors {
		c := &v.Colors[i]
		if _, err := tx.Exec(ctx,
			`INSERT INTO colors (id, variant_id, name) VALUES ($1, $2, $3)`,
			c.ID, v.ID, c.Name,
		); err != nil {
			return wrapError("insert variant color", err)
		}
	}

	for i := range v.Specs {
		spec := &v.Specs[i]
		if _, err := tx.Exec(ctx,
			`INSERT INTO variant_specs (id, variant_id, name, value) VALUES ($1, $2, $3, $4)`,
			spec.ID, v.ID, spec.Name, spec.Value,
		); err != nil {
			return wrapError("insert variant spec", err)
		}
	}

	return nil
}

// slugOwnerColumn is the column identifying the product a slug belongs to
var slugOwnerColumn = map[SlugScope]string{
	ProductSlugs: "id",
	VariantSlugs: "product_id",
}

// SlugExists reports whether a product other than productID, or one of its
// variants, already uses slug
func (r *productRepository) SlugExists(ctx context.Context, scope SlugScope, slug string, productID uuid.UUID) (bool, error) {
	column, ok := slugOwnerColumn[scope]
	if !ok {
		return false, fmt.Errorf("unknown slug scope %q", scope)
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1 AND %s <> $2)`, scope, column)

	var exists bool
	if err := r.db.QueryRow(ctx, query, slug, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s slug: %w", scope, err)
	}
	return exists, nil
}

// VariantOwners maps each stored variant id among variantIDs to its product.
// Ids with no stored variant are absent from the result.
func (r *productRepository) VariantOwners(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	owners := make(map[uuid.UUID]uuid.UUID, len(variantIDs))
	if len(variantIDs) == 0 {
		return owners, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, product_id FROM product_variants WHERE id = ANY($1)`, variantIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up variant owners: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, productID uuid.UUID
		if err := rows.Scan(&id, &productID); err != nil {
			return nil, fmt.Errorf("failed to scan variant owner: %w", err)
		}
		owners[id] = productID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variant owners: %w", err)
	}
	return owners, nil
}

// FindByID loads a product with its specs and variants
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, name, slug, description, brand, sku, weight, category_id, sub_category_id, store_id,
		       free_shipping_for_all_countries, shipping_fee_method, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	p := &domain.Product{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Brand, &p.SKU, &p.Weight,
		&p.CategoryID, &p.SubCategoryID, &p.StoreID,
		&p.FreeShippingForAllCountries, &p.ShippingFeeMethod, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	if p.Specs, err = r.productSpecs(ctx, id); err != nil {
		return nil, err
	}

	if err := r.loadVariants(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (r *productRepository) loadVariants(ctx context.Context, p *domain.Product) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, name, slug, description, sku, image
		FROM product_variants
		WHERE product_id = $1
		ORDER BY position
	`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to list product variants: %w", err)
	}

	p.Variants = []domain.ProductVariant{}
	index := map[uuid.UUID]int{}
	ids := []uuid.UUID{}
	for rows.Next() {
		var v domain.ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Slug, &v.Description, &v.SKU, &v.Image); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan product variant: %w", err)
		}
		index[v.ID] = len(p.Variants)
		ids = append(ids, v.ID)
		p.Variants = append(p.Variants, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating product variants: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	images, err := r.db.Query(ctx, `SELECT variant_id, url FROM variant_images WHERE variant_id = ANY($1) ORDER BY position`, ids)
	if err != nil {
		return fmt.Errorf("failed to list variant images: %w", err)
	}
	err = forEachRow(images, func(row pgx.Rows) error {
		var variantID uuid.UUID
		var url string
		if err := row.Scan(&variantID, &url); err != nil {
			return err
		}
		v := &p.Variants[index[variantID]]
		v.Images = append(v.Images, url)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load variant images: %w", err)
	}

	sizes, err := r.db.Query(ctx, `SELECT variant_id, id, size, quantity, price, discount FROM sizes WHERE variant_id = ANY($1) ORDER BY price`, ids)
	if err != nil {
		return fmt.Errorf("failed to list variant sizes: %w", err)
	}
	err = forEachRow(sizes, func(row pgx.Rows) error {
		var variantID uuid.UUID
		var s domain.Size
		if err := row.Scan(&variantID, &s.ID, &s.Size, &s.Quantity, &s.Price, &s.Discount); err != nil {
			return err
		}
		v := &p.Variants[index[variantID]]
		v.Sizes = append(v.Sizes, s)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load variant sizes: %w", err)
	}

	colors, err := r.db.Query(ctx, `SELECT variant_id, id, name FROM colors WHERE variant_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("failed to list variant colors: %w", err)
	}
	err = forEachRow(colors, func(row pgx.Rows) error {
		var variantID uuid.UUID
		var c domain.Color
		if err := row.Scan(&variantID, &c.ID, &c.Name); err != nil {
			return err
		}
		v := &p.Variants[index[variantID]]
		v.Colors = append(v.Colors, c)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load variant colors: %w", err)
	}

	specs, err := r.db.Query(ctx, `SELECT variant_id, id, name, value FROM variant_specs WHERE variant_id = ANY($1) ORDER BY name`, ids)
	if err != nil {
		return fmt.Errorf("failed to list variant specs: %w", err)
	}
	err = forEachRow(specs, func(row pgx.Rows) error {
		var variantID uuid.UUID
		var s domain.Spec
		if err := row.Scan(&variantID, &s.ID, &s.Name, &s.Value); err != nil {
			return err
		}
		v := &p.Variants[index[variantID]]
		v.Specs = append(v.Specs, s)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load variant specs: %w", err)
	}

	return nil
}

func (r *productRepository) productSpecs(ctx context.Context, productID uuid.UUID) ([]domain.Spec, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, value FROM product_specs WHERE product_id = $1 ORDER BY name`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list product specs: %w", err)
	}

	specs := []domain.Spec{}
	err = forEachRow(rows, func(row pgx.Rows) error {
		var s domain.Spec
		if err := row.Scan(&s.ID, &s.Name, &s.Value); err != nil {
			return err
		}
		specs = append(specs, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load product specs: %w", err)
	}
	return specs, nil
}

// ListSummariesByStore returns the products page rows of a store, newest first.
// Price range and stock are taken from the first variant.
func (r *productRepository) ListSummariesByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.ProductSummary, error) {
	query := `
		SELECT p.id, p.name, p.slug, p.brand, c.name, sc.name,
		       (SELECT COUNT(*) FROM product_variants pv WHERE pv.product_id = p.id),
		       COALESCE(fv.image, ''),
		       COALESCE(MIN(s.price - s.price * s.discount / 100), 0),
		       COALESCE(MAX(s.price - s.price * s.discount / 100), 0),
		       COALESCE(SUM(s.quantity), 0),
		       p.created_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		JOIN subcategories sc ON sc.id = p.sub_category_id
		LEFT JOIN LATERAL (
			SELECT v.id, v.image FROM product_variants v
			WHERE v.product_id = p.id
			ORDER BY v.position
			LIMIT 1
		) fv ON TRUE
		LEFT JOIN sizes s ON s.variant_id = fv.id
		WHERE p.store_id = $1
		GROUP BY p.id, c.name, sc.name, fv.image
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list store products: %w", err)
	}

	summaries := []*domain.ProductSummary{}
	err = forEachRow(rows, func(row pgx.Rows) error {
		s := &domain.ProductSummary{}
		if err := row.Scan(
			&s.ID, &s.Name, &s.Slug, &s.Brand, &s.CategoryName, &s.SubCategoryName,
			&s.VariantCount, &s.Image, &s.MinPrice, &s.MaxPrice, &s.Stock, &s.CreatedAt,
		); err != nil {
			return err
		}
		summaries = append(summaries, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan store products: %w", err)
	}

	return summaries, nil
}

// Delete removes a product of the given store; children cascade
func (r *productRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1 AND store_id = $2`, id, storeID)
	if err != nil {
		return wrapError("delete product", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func forEachRow(rows pgx.Rows, fn func(pgx.Rows) error) error {
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
