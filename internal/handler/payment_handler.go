package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"
)

type PaymentService interface {
	List(ctx context.Context, actor *domain.Actor, filter domain.PaymentFilter) (*domain.Page[*domain.Payment], error)
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Payment, error)
	Create(ctx context.Context, actor *domain.Actor, in usecase.PaymentInput) (*domain.Payment, error)
	Update(ctx context.Context, actor *domain.Actor, id string, in usecase.PaymentInput) (*domain.Payment, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
}

type PaymentHandler struct {
	payments PaymentService
	logger   *logger.Logger
}

func NewPaymentHandler(payments PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: log.Named("PaymentHTTPHandler")}
}

func (h *PaymentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := domain.PaymentFilter{
		ListFilter: listFilter(r),
		Type:       domain.PaymentType(q.Get("type")),
		Status:     domain.PaymentStatus(q.Get("status")),
		EmployeeID: q.Get("employee_id"),
		InvoiceID:  q.Get("invoice_id"),
		Period:     q.Get("period"),
	}
	page, err := h.payments.List(r.Context(), actor, filter)
	if err != nil {
		handleError(w, err, "Failed to list payments", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

func (h *PaymentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	p, err := h.payments.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, "Failed to get payment", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.PaymentInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid payment payload", h.logger)
		return
	}
	p, err := h.payments.Create(r.Context(), actor, in)
	if err != nil {
		handleError(w, err, "Failed to record payment", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, p)
}

func (h *PaymentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.PaymentInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid payment payload", h.logger)
		return
	}
	p, err := h.payments.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, err, "Failed to update payment", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.payments.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleError(w, err, "Failed to delete payment", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
