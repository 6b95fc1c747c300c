package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/middleware"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/platform/metrics"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"
	"go.uber.org/zap"
)

type EmployeeService interface {
	List(ctx context.Context, actor *domain.Actor, filter domain.EmployeeFilter) (*domain.Page[*domain.Employee], error)
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Employee, error)
	Create(ctx context.Context, actor *domain.Actor, in usecase.EmployeeInput) (*domain.Employee, error)
	Update(ctx context.Context, actor *domain.Actor, id string, in usecase.EmployeeInput) (*domain.Employee, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
	AddDocument(ctx context.Context, actor *domain.Actor, id string, in usecase.UploadInput) (*domain.StoredObject, error)
}

type EmployeeHandler struct {
	employees      EmployeeService
	auditor        *middleware.Auditor
	metrics        *metrics.MetricsManager
	maxUploadBytes int64
	logger         *logger.Logger
}

func NewEmployeeHandler(employees EmployeeService, auditor *middleware.Auditor, m *metrics.MetricsManager, maxUploadBytes int64, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		employees:      employees,
		auditor:        auditor,
		metrics:        m,
		maxUploadBytes: maxUploadBytes,
		logger:         log.Named("EmployeeHTTPHandler"),
	}
}

func (h *EmployeeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := domain.EmployeeFilter{
		ListFilter: listFilter(r),
		Department: q.Get("department"),
		Status:     domain.EmployeeStatus(q.Get("status")),
	}
	page, err := h.employees.List(r.Context(), actor, filter)
	if err != nil {
		handleError(w, err, "Failed to list employees", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

func (h *EmployeeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	emp, err := h.employees.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, "Failed to get employee", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, emp)
}

func (h *EmployeeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.EmployeeInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid employee payload", h.logger)
		return
	}
	emp, err := h.employees.Create(r.Context(), actor, in)
	if err != nil {
		handleError(w, err, "Failed to create employee", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, emp)
}

func (h *EmployeeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.EmployeeInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid employee payload", h.logger)
		return
	}
	emp, err := h.employees.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, err, "Failed to update employee", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, emp)
}

func (h *EmployeeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.employees.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleError(w, err, "Failed to delete employee", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EmployeeHandler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	upload, cleanup, err := readUpload(w, r, h.maxUploadBytes)
	if err != nil {
		handleError(w, err, "Invalid document upload", h.logger)
		return
	}
	defer cleanup()

	obj, err := h.employees.AddDocument(r.Context(), actor, id, upload)
	if err != nil {
		handleError(w, err, "Failed to upload employee document", h.logger)
		return
	}
	if h.metrics != nil {
		h.metrics.UploadsTotal.WithLabelValues(domain.ModuleEmployees).Inc()
	}
	h.auditor.Record(r, actor, domain.ActionUpload, domain.ModuleEmployees, id, http.StatusCreated)
	h.logger.Info("Employee document uploaded", zap.String("employee_id", id), zap.String("key", obj.Key))
	respondWithJSON(w, http.StatusCreated, obj)
}
