package transport

import (
	"errors"
	"net/http"

	"storefront-admin/internal/middleware"
	"storefront-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gates are the route level checks each handler attaches to its routes.
// A nil gate lets every request through.
type Gates struct {
	Authenticated func(http.Handler) http.Handler
	Admin         func(http.Handler) http.Handler
	Seller        func(http.Handler) http.Handler
	// Limit throttles mutating requests
	Limit func(http.Handler) http.Handler
}

func (g Gates) admin() []func(http.Handler) http.Handler {
	return compact(g.Admin, g.Limit)
}

func (g Gates) seller() []func(http.Handler) http.Handler {
	return compact(g.Seller, g.Limit)
}

func (g Gates) authenticated() []func(http.Handler) http.Handler {
	return compact(g.Authenticated)
}

func compact(mws ...func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	out := make([]func(http.Handler) http.Handler, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}

// respondWithServiceError maps the service error taxonomy onto HTTP
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		validationErr *service.ValidationError
		conflictErr   *service.ConflictError
		operationErr  *service.OperationError
	)

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrUnauthorized):
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
	case errors.As(err, &validationErr):
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(validationErr.Fields))
	case errors.As(err, &conflictErr):
		middleware.RespondWithError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, service.ErrNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "resource not found")
	case errors.As(err, &operationErr):
		logger.Error("Operation failed", zap.String("op", operationErr.Op), zap.Error(operationErr.Err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	default:
		logger.Error("Unexpected error", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeInput reads the JSON body into v and answers 400 when it cannot
func decodeInput(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathID parses a uuid route parameter and answers 400 when it is malformed
func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{{Field: param, Message: "Invalid id."}})
		return uuid.Nil, false
	}
	return id, true
}
