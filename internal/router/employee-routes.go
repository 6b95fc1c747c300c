package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/handler"
)

func SetupEmployeeRoutes(mux *chi.Mux, h *handler.EmployeeHandler, mw *Middlewares) {
	mux.Group(func(r chi.Router) {
		r.Use(mw.Auth)
		r.Use(mw.module(domain.ModuleEmployees))
		r.Use(mw.Auditor.Audit(domain.ModuleEmployees))

		list := mw.access(domain.ModuleEmployees, "list")
		details := mw.access(domain.ModuleEmployees, "details")
		r.With(list).Get("/api/employees", h.HandleList)
		r.With(list).Post("/api/employees", h.HandleCreate)
		r.With(list).Delete("/api/employees/{id}", h.HandleDelete)
		r.With(details).Get("/api/employees/{id}", h.HandleGet)
		r.With(details).Put("/api/employees/{id}", h.HandleUpdate)

		r.With(mw.access(domain.ModuleEmployees, "documents")).Post("/api/employees/{id}/documents", h.HandleUploadDocument)
	})
}
