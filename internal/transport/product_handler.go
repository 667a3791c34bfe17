package transport

import (
	"net/http"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/middleware"
	"storefront-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var productColumns = []Column[*domain.ProductSummary]{
	{Key: "image", Header: "Image", Value: func(p *domain.ProductSummary) interface{} { return p.Image }},
	{Key: "name", Header: "Name", Value: func(p *domain.ProductSummary) interface{} { return p.Name }},
	{Key: "category", Header: "Category", Value: func(p *domain.ProductSummary) interface{} { return p.CategoryName }},
	{Key: "sub_category", Header: "Sub-category", Value: func(p *domain.ProductSummary) interface{} { return p.SubCategoryName }},
	{Key: "variants", Header: "Variants", Value: func(p *domain.ProductSummary) interface{} { return p.VariantCount }},
	{Key: "price", Header: "Price", Value: func(p *domain.ProductSummary) interface{} { return []float64{p.MinPrice, p.MaxPrice} }},
	{Key: "stock", Header: "Stock", Value: func(p *domain.ProductSummary) interface{} { return p.Stock }},
}

// ProductHandler serves the product pages of one seller store
type ProductHandler struct {
	products service.ProductService
	logger   *zap.Logger
}

func NewProductHandler(products service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

func (h *ProductHandler) RegisterRoutes(r chi.Router, g Gates) {
	const base = "/api/seller/stores/{storeUrl}/products"

	r.With(compact(g.Seller)...).Get(base, h.List)
	r.With(compact(g.Seller)...).Get(base+"/{id}", h.Get)
	r.With(g.seller()...).Put(base, h.Upsert)
	r.With(g.seller()...).Delete(base+"/{id}", h.Delete)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetStoreProducts(r.Context(), middleware.IdentityFromContext(r.Context()), chi.URLParam(r, "storeUrl"))
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithList(w, r, products, productColumns)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.products.GetStoreProduct(r.Context(), middleware.IdentityFromContext(r.Context()), chi.URLParam(r, "storeUrl"), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Upsert writes a product with its variants as a single composite
func (h *ProductHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in domain.ProductInput
	if !decodeInput(w, r, h.logger, &in) {
		return
	}

	product, err := h.products.UpsertProduct(r.Context(), middleware.IdentityFromContext(r.Context()), chi.URLParam(r, "storeUrl"), in)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(r.Context(), middleware.IdentityFromContext(r.Context()), chi.URLParam(r, "storeUrl"), id); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
