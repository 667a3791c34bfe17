package transport

import (
	"net/http"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/middleware"
	"storefront-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var categoryColumns = []Column[*domain.Category]{
	{Key: "image", Header: "Image", Value: func(c *domain.Category) interface{} { return c.Image }},
	{Key: "name", Header: "Name", Value: func(c *domain.Category) interface{} { return c.Name }},
	{Key: "url", Header: "URL", Value: func(c *domain.Category) interface{} { return c.URL }},
	{Key: "featured", Header: "Featured", Value: func(c *domain.Category) interface{} { return c.Featured }},
	{Key: "updated_at", Header: "Updated", Value: func(c *domain.Category) interface{} { return c.UpdatedAt }},
}

// CategoryHandler serves the public category reads and the admin category pages
type CategoryHandler struct {
	categories service.CategoryService
	logger     *zap.Logger
}

func NewCategoryHandler(categories service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

func (h *CategoryHandler) RegisterRoutes(r chi.Router, g Gates) {
	r.Get("/api/categories", h.List)
	r.Get("/api/categories/{id}", h.Get)

	r.With(g.admin()...).Put("/api/admin/categories", h.Upsert)
	r.With(g.admin()...).Delete("/api/admin/categories/{id}", h.Delete)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.GetAllCategories(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithList(w, r, categories, categoryColumns)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.categories.GetCategory(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Upsert creates or updates the category identified by the body id
func (h *CategoryHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if !decodeInput(w, r, h.logger, &in) {
		return
	}

	category, err := h.categories.UpsertCategory(r.Context(), middleware.IdentityFromContext(r.Context()), in)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.categories.DeleteCategory(r.Context(), middleware.IdentityFromContext(r.Context()), id); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
