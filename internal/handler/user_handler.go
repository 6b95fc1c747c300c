package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"
)

type UserService interface {
	List(ctx context.Context, actor *domain.Actor, filter domain.UserFilter) (*domain.Page[*domain.User], error)
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.User, error)
	Create(ctx context.Context, actor *domain.Actor, in usecase.CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor *domain.Actor, id string, in usecase.UpdateUserInput) (*domain.User, error)
	UpdatePermissions(ctx context.Context, actor *domain.Actor, id string, perms domain.Permissions) (*domain.User, error)
	SetStatus(ctx context.Context, actor *domain.Actor, id string, active bool) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
}

type permissionsRequest struct {
	Permissions domain.Permissions `json:"permissions" validate:"required"`
}

type statusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type UserHandler struct {
	users  UserService
	logger *logger.Logger
}

func NewUserHandler(users UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, logger: log.Named("UserHTTPHandler")}
}

func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	isActive, err := parseBoolQueryParam(r, "is_active")
	if err != nil {
		handleError(w, err, "Invalid user filter", h.logger)
		return
	}
	filter := domain.UserFilter{
		ListFilter: listFilter(r),
		Role:       domain.Role(r.URL.Query().Get("role")),
		IsActive:   isActive,
	}
	page, err := h.users.List(r.Context(), actor, filter)
	if err != nil {
		handleError(w, err, "Failed to list users", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	user, err := h.users.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, "Failed to get user", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.CreateUserInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid user payload", h.logger)
		return
	}
	user, err := h.users.Create(r.Context(), actor, in)
	if err != nil {
		handleError(w, err, "Failed to create user", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in usecase.UpdateUserInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, err, "Invalid user payload", h.logger)
		return
	}
	user, err := h.users.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, err, "Failed to update user", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) HandleUpdatePermissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req permissionsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err, "Invalid permissions payload", h.logger)
		return
	}
	user, err := h.users.UpdatePermissions(r.Context(), actor, chi.URLParam(r, "id"), req.Permissions)
	if err != nil {
		handleError(w, err, "Failed to update permissions", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err, "Invalid status payload", h.logger)
		return
	}
	user, err := h.users.SetStatus(r.Context(), actor, chi.URLParam(r, "id"), *req.IsActive)
	if err != nil {
		handleError(w, err, "Failed to update user status", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleError(w, err, "Failed to delete user", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
