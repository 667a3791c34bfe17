package transport

import (
	"net/http"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/middleware"
	"storefront-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var subCategoryColumns = []Column[*domain.SubCategory]{
	{Key: "image", Header: "Image", Value: func(s *domain.SubCategory) interface{} { return s.Image }},
	{Key: "name", Header: "Name", Value: func(s *domain.SubCategory) interface{} { return s.Name }},
	{Key: "url", Header: "URL", Value: func(s *domain.SubCategory) interface{} { return s.URL }},
	{Key: "category", Header: "Category", Value: func(s *domain.SubCategory) interface{} {
		if s.Category == nil {
			return nil
		}
		return s.Category.Name
	}},
	{Key: "featured", Header: "Featured", Value: func(s *domain.SubCategory) interface{} { return s.Featured }},
	{Key: "updated_at", Header: "Updated", Value: func(s *domain.SubCategory) interface{} { return s.UpdatedAt }},
}

type SubCategoryHandler struct {
	subCategories service.SubCategoryService
	logger        *zap.Logger
}

func NewSubCategoryHandler(subCategories service.SubCategoryService, logger *zap.Logger) *SubCategoryHandler {
	return &SubCategoryHandler{subCategories: subCategories, logger: logger}
}

func (h *SubCategoryHandler) RegisterRoutes(r chi.Router, g Gates) {
	r.Get("/api/subcategories", h.List)
	r.Get("/api/categories/{id}/subcategories", h.ListForCategory)
	r.With(g.authenticated()...).Get("/api/subcategories/{id}", h.Get)

	r.With(g.admin()...).Put("/api/admin/subcategories", h.Upsert)
	r.With(g.admin()...).Delete("/api/admin/subcategories/{id}", h.Delete)
}

func (h *SubCategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	subCategories, err := h.subCategories.GetAllSubCategories(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithList(w, r, subCategories, subCategoryColumns)
}

// ListForCategory feeds the sub-category select of the product form
func (h *SubCategoryHandler) ListForCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	subCategories, err := h.subCategories.GetSubCategoriesForCategory(r.Context(), categoryID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithList(w, r, subCategories, subCategoryColumns)
}

func (h *SubCategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	subCategory, err := h.subCategories.GetSubCategory(r.Context(), middleware.IdentityFromContext(r.Context()), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, subCategory)
}

func (h *SubCategoryHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in domain.SubCategoryInput
	if !decodeInput(w, r, h.logger, &in) {
		return
	}

	subCategory, err := h.subCategories.UpsertSubCategory(r.Context(), middleware.IdentityFromContext(r.Context()), in)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, subCategory)
}

func (h *SubCategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.subCategories.DeleteSubCategory(r.Context(), middleware.IdentityFromContext(r.Context()), id); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
