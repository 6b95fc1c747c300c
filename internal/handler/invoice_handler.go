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
)

type InvoiceService interface {
	List(ctx context.Context, actor *domain.Actor, filter domain.InvoiceFilter) (*domain.Page[*domain.Invoice], error)
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Invoice, error)
	Create(ctx context.Context, actor *domain.Actor, in usecase.InvoiceInput) (*domain.Invoice, error)
	Update(ctx context.Context, actor *domain.Actor, id string, in usecase.InvoiceInput) (*domain.Invoice, error)
	SetStatus(ctx context.Context, actor *domain.Actor, id string, status domain.InvoiceStatus) (*domain.Invoice, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
	Attach(ctx context.Context, actor *domain.Actor, id string, in usecase.UploadInput) (*domain.StoredObject, error)
}

type invoiceStatusRequest struct {
	Status domain.InvoiceStatus `json:"status" validate:"required"`
}

type InvoiceHandler struct {
	invoices       InvoiceService
	auditor        *middleware.Auditor
	metrics        *metrics.MetricsManager
	maxUploadBytes int64
	logger         *logger.Logger
}

func NewInvoiceHandler(invoices InvoiceService, auditor *middleware.Auditor, m *metrics.MetricsManager, maxUploadBytes int64, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoices:       invoices,
		auditor:        auditor,
		metrics:        m,
		maxUploadBytes: maxUploadBytes,
		logger:         log.Named("InvoiceHTTPHandler"),
	}
}

func (h *InvoiceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	from, err := parseTimeQueryParam(r, "from", false)
	if err != nil {
		handleError(w, err, "Invalid invoice filter", h.logger)
		return
	}
	to, err := parseTimeQueryParam(r, "to", true)
	if err != nil {
		handleError(w, err, "Invalid invoice filter", h.logger)
		return
	}
	q := r.URL.Query()
	filter := domain.InvoiceFilter{
		ListFilter: listFilter(r),
		Status:     domain.InvoiceStatus(q.Get("status")),
		VendorName: q.Get("vendor_name"),
		From:       from,
		To:         to,
	}
	page, err := h.invoices.List(r.Context(), actor, filter)
	if err != nil {
		handleError(w, err, "Failed to list invoices", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

func (h *InvoiceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	inv, err := h.invoices.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, "Failed to get invoice", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.InvoiceInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid invoice payload", h.logger)
		return
	}
	inv, err := h.invoices.Create(r.Context(), actor, in)
	if err != nil {
		handleError(w, err, "Failed to create invoice", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.InvoiceInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid invoice payload", h.logger)
		return
	}
	inv, err := h.invoices.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, err, "Failed to update invoice", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req invoiceStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err, "Invalid status payload", h.logger)
		return
	}
	inv, err := h.invoices.SetStatus(r.Context(), actor, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		handleError(w, err, "Failed to change invoice status", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.invoices.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleError(w, err, "Failed to delete invoice", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InvoiceHandler) HandleAttach(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	upload, cleanup, err := readUpload(w, r, h.maxUploadBytes)
	if err != nil {
		handleError(w, err, "Invalid attachment upload", h.logger)
		return
	}
	defer cleanup()

	obj, err := h.invoices.Attach(r.Context(), actor, id, upload)
	if err != nil {
		handleError(w, err, "Failed to attach file to invoice", h.logger)
		return
	}
	if h.metrics != nil {
		h.metrics.UploadsTotal.WithLabelValues(domain.ModuleInvoices).Inc()
	}
	h.auditor.Record(r, actor, domain.ActionUpload, domain.ModuleInvoices, id, http.StatusCreated)
	respondWithJSON(w, http.StatusCreated, obj)
}
