package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status"`
	Mongo  string `json:"mongo"`
}

type HealthHandler struct {
	mongo  Pinger
	logger *logger.Logger
}

func NewHealthHandler(mongo Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{mongo: mongo, logger: log.Named("HealthHTTPHandler")}
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.mongo.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		respondWithJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Mongo: "down"})
		return
	}
	respondWithJSON(w, http.StatusOK, healthResponse{Status: "ok", Mongo: "up"})
}
