package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/handler"
)

func SetupOrganizationRoutes(mux *chi.Mux, h *handler.OrganizationHandler, mw *Middlewares) {
	mux.Group(func(r chi.Router) {
		r.Use(mw.Auth)
		r.Use(mw.module(domain.ModuleOrganizations))
		r.Use(mw.Auditor.Audit(domain.ModuleOrganizations))
		r.Use(mw.access(domain.ModuleOrganizations, "list"))

		r.Get("/api/organizations", h.HandleList)
		r.Post("/api/organizations", h.HandleCreate)
		r.Get("/api/organizations/{id}", h.HandleGet)
		r.Put("/api/organizations/{id}", h.HandleUpdate)
		r.Delete("/api/organizations/{id}", h.HandleDelete)
	})
}
