package transport

import (
	"context"
	"errors"
	"net/http"

	"storefront-admin/internal/middleware"
	"storefront-admin/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Presigner issues upload URLs for images
type Presigner interface {
	PresignUpload(ctx context.Context, filename, contentType, folder string) (*storage.PresignedUpload, error)
}

// PresignRequest asks for an upload URL. Folder defaults to products.
type PresignRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
	Folder      string `json:"folder"`
}

type UploadHandler struct {
	presigner Presigner
	logger    *zap.Logger
}

func NewUploadHandler(presigner Presigner, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{presigner: presigner, logger: logger}
}

func (h *UploadHandler) RegisterRoutes(r chi.Router, g Gates) {
	r.With(compact(g.Authenticated, g.Limit)...).Post("/api/uploads/presign", h.Presign)
}

func (h *UploadHandler) Presign(w http.ResponseWriter, r *http.Request) {
	var req PresignRequest
	if !decodeInput(w, r, h.logger, &req) {
		return
	}

	upload, err := h.presigner.PresignUpload(r.Context(), req.Filename, req.ContentType, req.Folder)
	switch {
	case errors.Is(err, storage.ErrContentType):
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{{Field: "content_type", Message: err.Error()}})
		return
	case errors.Is(err, storage.ErrFolder):
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{{Field: "folder", Message: err.Error()}})
		return
	case err != nil:
		h.logger.Error("Failed to generate presigned URL",
			zap.Error(err),
			zap.String("filename", req.Filename),
			zap.String("folder", req.Folder),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to generate upload URL")
		return
	}

	h.logger.Info("Presigned URL generated", zap.String("key", upload.Key))
	middleware.RespondWithJSON(w, http.StatusOK, upload)
}
