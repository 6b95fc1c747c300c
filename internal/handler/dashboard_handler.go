package handler

import (
	"context"
	"net/http"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
)

type DashboardService interface {
	Summary(ctx context.Context, actor *domain.Actor, organizationID string) (*domain.DashboardSummary, error)
}

type DashboardHandler struct {
	dashboard DashboardService
	logger    *logger.Logger
}

func NewDashboardHandler(dashboard DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, logger: log.Named("DashboardHTTPHandler")}
}

func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	summary, err := h.dashboard.Summary(r.Context(), actor, r.URL.Query().Get("organization_id"))
	if err != nil {
		handleError(w, err, "Failed to build dashboard summary", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}
