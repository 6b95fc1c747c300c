package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/handler"
)

func SetupToolRoutes(mux *chi.Mux, h *handler.ToolHandler, mw *Middlewares) {
	mux.Group(func(r chi.Router) {
		r.Use(mw.Auth)
		r.Use(mw.module(domain.ModuleTools))
		r.Use(mw.Auditor.Audit(domain.ModuleTools))

		list := mw.access(domain.ModuleTools, "list")
		r.With(list).Get("/api/tools", h.HandleList)
		r.With(list).Post("/api/tools", h.HandleCreate)
		r.With(list).Get("/api/tools/{id}", h.HandleGet)
		r.With(list).Put("/api/tools/{id}", h.HandleUpdate)
		r.With(list).Delete("/api/tools/{id}", h.HandleDelete)

		r.With(mw.access(domain.ModuleTools, "credentials")).Get("/api/tools/{id}/credentials", h.HandleRevealCredentials)
	})
}
