package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"
)

type OrganizationService interface {
	List(ctx context.Context, actor *domain.Actor, filter domain.ListFilter) (*domain.Page[*domain.Organization], error)
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Organization, error)
	Create(ctx context.Context, actor *domain.Actor, in usecase.OrganizationInput) (*domain.Organization, error)
	Update(ctx context.Context, actor *domain.Actor, id string, in usecase.OrganizationInput) (*domain.Organization, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
}

type OrganizationHandler struct {
	orgs   OrganizationService
	logger *logger.Logger
}

func NewOrganizationHandler(orgs OrganizationService, log *logger.Logger) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs, logger: log.Named("OrganizationHTTPHandler")}
}

func (h *OrganizationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	page, err := h.orgs.List(r.Context(), actor, listFilter(r))
	if err != nil {
		handleError(w, err, "Failed to list organizations", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

func (h *OrganizationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	org, err := h.orgs.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, "Failed to get organization", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, org)
}

func (h *OrganizationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.OrganizationInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid organization payload", h.logger)
		return
	}
	org, err := h.orgs.Create(r.Context(), actor, in)
	if err != nil {
		handleError(w, err, "Failed to create organization", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, org)
}

func (h *OrganizationHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.OrganizationInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid organization payload", h.logger)
		return
	}
	org, err := h.orgs.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, err, "Failed to update organization", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, org)
}

func (h *OrganizationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.orgs.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleError(w, err, "Failed to delete organization", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
