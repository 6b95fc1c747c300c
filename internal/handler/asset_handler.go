package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"
)

type AssetService interface {
	List(ctx context.Context, actor *domain.Actor, filter domain.AssetFilter) (*domain.Page[*domain.Asset], error)
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Asset, error)
	Create(ctx context.Context, actor *domain.Actor, in usecase.AssetInput) (*domain.Asset, error)
	Update(ctx context.Context, actor *domain.Actor, id string, in usecase.AssetInput) (*domain.Asset, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
	Assign(ctx context.Context, actor *domain.Actor, id, employeeID string) (*domain.Asset, error)
	Unassign(ctx context.Context, actor *domain.Actor, id string) (*domain.Asset, error)
}

type assignRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}

type AssetHandler struct {
	assets AssetService
	logger *logger.Logger
}

func NewAssetHandler(assets AssetService, log *logger.Logger) *AssetHandler {
	return &AssetHandler{assets: assets, logger: log.Named("AssetHTTPHandler")}
}

func (h *AssetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := domain.AssetFilter{
		ListFilter: listFilter(r),
		Category:   domain.AssetCategory(q.Get("category")),
		Status:     domain.AssetStatus(q.Get("status")),
		AssignedTo: q.Get("assigned_to"),
	}
	page, err := h.assets.List(r.Context(), actor, filter)
	if err != nil {
		handleError(w, err, "Failed to list assets", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

func (h *AssetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	asset, err := h.assets.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, "Failed to get asset", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.AssetInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid asset payload", h.logger)
		return
	}
	asset, err := h.assets.Create(r.Context(), actor, in)
	if err != nil {
		handleError(w, err, "Failed to create asset", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, asset)
}

func (h *AssetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.AssetInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid asset payload", h.logger)
		return
	}
	asset, err := h.assets.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, err, "Failed to update asset", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.assets.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleError(w, err, "Failed to delete asset", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AssetHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err, "Invalid assignment payload", h.logger)
		return
	}
	asset, err := h.assets.Assign(r.Context(), actor, chi.URLParam(r, "id"), req.EmployeeID)
	if err != nil {
		handleError(w, err, "Failed to assign asset", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) HandleUnassign(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	asset, err := h.assets.Unassign(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, "Failed to unassign asset", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, asset)
}
