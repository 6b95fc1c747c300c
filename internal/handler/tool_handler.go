package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/middleware"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"
)

type ToolService interface {
	List(ctx context.Context, actor *domain.Actor, filter domain.ToolFilter) (*domain.Page[*domain.Tool], error)
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Tool, error)
	Create(ctx context.Context, actor *domain.Actor, in usecase.ToolInput) (*domain.Tool, error)
	Update(ctx context.Context, actor *domain.Actor, id string, in usecase.ToolInput) (*domain.Tool, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
	RevealCredentials(ctx context.Context, actor *domain.Actor, id string) (*domain.ToolCredentials, error)
}

type ToolHandler struct {
	tools   ToolService
	auditor *middleware.Auditor
	logger  *logger.Logger
}

func NewToolHandler(tools ToolService, auditor *middleware.Auditor, log *logger.Logger) *ToolHandler {
	return &ToolHandler{tools: tools, auditor: auditor, logger: log.Named("ToolHTTPHandler")}
}

func (h *ToolHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	filter := domain.ToolFilter{ListFilter: listFilter(r), Category: r.URL.Query().Get("category")}
	page, err := h.tools.List(r.Context(), actor, filter)
	if err != nil {
		handleError(w, err, "Failed to list tools", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

func (h *ToolHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	tool, err := h.tools.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, "Failed to get tool", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.ToolInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid tool payload", h.logger)
		return
	}
	tool, err := h.tools.Create(r.Context(), actor, in)
	if err != nil {
		handleError(w, err, "Failed to create tool", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, tool)
}

func (h *ToolHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.ToolInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid tool payload", h.logger)
		return
	}
	tool, err := h.tools.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, err, "Failed to update tool", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.tools.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleError(w, err, "Failed to delete tool", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRevealCredentials returns the decrypted password. Every reveal is audited.
func (h *ToolHandler) HandleRevealCredentials(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	creds, err := h.tools.RevealCredentials(r.Context(), actor, id)
	if err != nil {
		handleError(w, err, "Failed to reveal credentials", h.logger)
		return
	}
	h.auditor.Record(r, actor, domain.ActionReveal, domain.ModuleTools, id, http.StatusOK)
	w.Header().Set("Cache-Control", "no-store")
	respondWithJSON(w, http.StatusOK, creds)
}
