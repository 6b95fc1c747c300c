package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/middleware"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/platform/metrics"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"
	"go.uber.org/zap"
)

type FileService interface {
	Upload(ctx context.Context, actor *domain.Actor, organizationID string, in usecase.UploadInput) (*domain.StoredObject, error)
	PresignedURL(ctx context.Context, actor *domain.Actor, key string) (string, error)
	MaxBytes() int64
}

type presignedURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type FileHandler struct {
	files   FileService
	auditor *middleware.Auditor
	metrics *metrics.MetricsManager
	logger  *logger.Logger
}

func NewFileHandler(files FileService, auditor *middleware.Auditor, m *metrics.MetricsManager, log *logger.Logger) *FileHandler {
	return &FileHandler{files: files, auditor: auditor, metrics: m, logger: log.Named("FileHTTPHandler")}
}

func (h *FileHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	upload, cleanup, err := readUpload(w, r, h.files.MaxBytes())
	if err != nil {
		handleError(w, err, "Invalid file upload", h.logger)
		return
	}
	defer cleanup()

	obj, err := h.files.Upload(r.Context(), actor, strings.TrimSpace(r.FormValue("organization_id")), upload)
	if err != nil {
		handleError(w, err, "Failed to upload file", h.logger)
		return
	}
	if h.metrics != nil {
		h.metrics.UploadsTotal.WithLabelValues(domain.ModuleFiles).Inc()
	}
	h.auditor.Record(r, actor, domain.ActionUpload, domain.ModuleFiles, obj.Key, http.StatusCreated)
	h.logger.Info("File uploaded", zap.String("key", obj.Key), zap.String("content_type", obj.ContentType), zap.Int64("size", obj.Size))
	respondWithJSON(w, http.StatusCreated, obj)
}

func (h *FileHandler) HandlePresignedURL(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	key := r.URL.Query().Get("key")
	url, err := h.files.PresignedURL(r.Context(), actor, key)
	if err != nil {
		handleError(w, err, "Failed to create download URL", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, presignedURLResponse{Key: key, URL: url})
}
