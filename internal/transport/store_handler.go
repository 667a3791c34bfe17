package transport

import (
	"net/http"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/middleware"
	"storefront-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var storeColumns = []Column[*domain.Store]{
	{Key: "logo", Header: "Logo", Value: func(s *domain.Store) interface{} { return s.Logo }},
	{Key: "name", Header: "Name", Value: func(s *domain.Store) interface{} { return s.Name }},
	{Key: "url", Header: "URL", Value: func(s *domain.Store) interface{} { return s.URL }},
	{Key: "status", Header: "Status", Value: func(s *domain.Store) interface{} { return s.Status }},
	{Key: "email", Header: "Email", Value: func(s *domain.Store) interface{} { return s.Email }},
	{Key: "featured", Header: "Featured", Value: func(s *domain.Store) interface{} { return s.Featured }},
}

// StatusRequest is the body of the admin store status change
type StatusRequest struct {
	Status domain.StoreStatus `json:"status" validate:"required,oneof=PENDING ACTIVE SUSPENDED"`
}

type StoreHandler struct {
	stores service.StoreService
	logger *zap.Logger
}

func NewStoreHandler(stores service.StoreService, logger *zap.Logger) *StoreHandler {
	return &StoreHandler{stores: stores, logger: logger}
}

func (h *StoreHandler) RegisterRoutes(r chi.Router, g Gates) {
	r.With(compact(g.Seller)...).Get("/api/seller/stores", h.ListOwn)
	r.With(g.seller()...).Put("/api/seller/stores", h.Upsert)
	r.With(compact(g.Seller)...).Get("/api/seller/stores/{storeUrl}", h.Get)

	r.With(compact(g.Admin)...).Get("/api/admin/stores", h.ListAll)
	r.With(g.admin()...).Patch("/api/admin/stores/{id}/status", h.UpdateStatus)
}

// ListOwn returns the caller's stores, newest first. The dashboard redirects
// to the first one.
func (h *StoreHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	stores, err := h.stores.GetSellerStores(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithList(w, r, stores, storeColumns)
}

func (h *StoreHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in domain.StoreInput
	if !decodeInput(w, r, h.logger, &in) {
		return
	}

	store, err := h.stores.UpsertStore(r.Context(), middleware.IdentityFromContext(r.Context()), in)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, store)
}

func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	store, err := h.stores.GetStoreByURL(r.Context(), middleware.IdentityFromContext(r.Context()), chi.URLParam(r, "storeUrl"))
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, store)
}

func (h *StoreHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	stores, err := h.stores.GetAllStores(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithList(w, r, stores, storeColumns)
}

func (h *StoreHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !decodeInput(w, r, h.logger, &req) {
		return
	}

	store, err := h.stores.UpdateStoreStatus(r.Context(), middleware.IdentityFromContext(r.Context()), id, req.Status)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, store)
}
