package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/handler"
)

func SetupUserRoutes(mux *chi.Mux, h *handler.UserHandler, mw *Middlewares) {
	mux.Group(func(r chi.Router) {
		r.Use(mw.Auth)
		r.Use(mw.module(domain.ModuleUsers))
		r.Use(mw.Auditor.Audit(domain.ModuleUsers))

		list := mw.access(domain.ModuleUsers, "list")
		r.With(list).Get("/api/users", h.HandleList)
		r.With(list).Post("/api/users", h.HandleCreate)
		r.With(list).Get("/api/users/{id}", h.HandleGet)
		r.With(list).Put("/api/users/{id}", h.HandleUpdate)
		r.With(list).Patch("/api/users/{id}/status", h.HandleSetStatus)
		r.With(list).Delete("/api/users/{id}", h.HandleDelete)

		r.With(mw.access(domain.ModuleUsers, "permissions")).Put("/api/users/{id}/permissions", h.HandleUpdatePermissions)
	})
}
