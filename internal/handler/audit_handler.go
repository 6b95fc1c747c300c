package handler

import (
	"context"
	"net/http"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
)

type AuditService interface {
	List(ctx context.Context, actor *domain.Actor, filter domain.AuditFilter) (*domain.Page[*domain.AuditLog], error)
}

type AuditHandler struct {
	audit  AuditService
	logger *logger.Logger
}

func NewAuditHandler(audit AuditService, log *logger.Logger) *AuditHandler {
	return &AuditHandler{audit: audit, logger: log.Named("AuditHTTPHandler")}
}

func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	from, err := parseTimeQueryParam(r, "from", false)
	if err != nil {
		handleError(w, err, "Invalid audit filter", h.logger)
		return
	}
	to, err := parseTimeQueryParam(r, "to", true)
	if err != nil {
		handleError(w, err, "Invalid audit filter", h.logger)
		return
	}
	q := r.URL.Query()
	filter := domain.AuditFilter{
		ListFilter: listFilter(r),
		Module:     q.Get("module"),
		UserID:     q.Get("user_id"),
		Action:     domain.AuditAction(q.Get("action")),
		From:       from,
		To:         to,
	}
	page, err := h.audit.List(r.Context(), actor, filter)
	if err != nil {
		handleError(w, err, "Failed to list audit logs", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}
