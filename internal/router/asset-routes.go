package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/handler"
)

func SetupAssetRoutes(mux *chi.Mux, h *handler.AssetHandler, mw *Middlewares) {
	mux.Group(func(r chi.Router) {
		r.Use(mw.Auth)
		r.Use(mw.module(domain.ModuleAssets))
		r.Use(mw.Auditor.Audit(domain.ModuleAssets))

		list := mw.access(domain.ModuleAssets, "list")
		r.With(list).Get("/api/assets", h.HandleList)
		r.With(list).Post("/api/assets", h.HandleCreate)
		r.With(list).Get("/api/assets/{id}", h.HandleGet)
		r.With(list).Put("/api/assets/{id}", h.HandleUpdate)
		r.With(list).Delete("/api/assets/{id}", h.HandleDelete)

		assignments := mw.access(domain.ModuleAssets, "assignments")
		r.With(assignments).Post("/api/assets/{id}/assign", h.HandleAssign)
		r.With(assignments).Post("/api/assets/{id}/unassign", h.HandleUnassign)
	})
}
