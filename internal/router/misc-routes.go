package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/handler"
)

func SetupFileRoutes(mux *chi.Mux, h *handler.FileHandler, mw *Middlewares) {
	mux.Group(func(r chi.Router) {
		r.Use(mw.Auth)
		r.Use(mw.module(domain.ModuleFiles))
		r.Use(mw.Auditor.Audit(domain.ModuleFiles))
		r.Use(mw.access(domain.ModuleFiles, "uploads"))

		r.Post("/api/files", h.HandleUpload)
		r.Get("/api/files/url", h.HandlePresignedURL)
	})
}

func SetupDashboardRoutes(mux *chi.Mux, h *handler.DashboardHandler, mw *Middlewares) {
	mux.Group(func(r chi.Router) {
		r.Use(mw.Auth)
		r.Use(mw.module(domain.ModuleDashboard))
		r.With(mw.access(domain.ModuleDashboard, "overview")).Get("/api/dashboard/summary", h.HandleSummary)
	})
}

func SetupAuditRoutes(mux *chi.Mux, h *handler.AuditHandler, mw *Middlewares) {
	mux.Group(func(r chi.Router) {
		r.Use(mw.Auth)
		r.Use(mw.module(domain.ModuleAudit))
		r.With(mw.access(domain.ModuleAudit, "logs")).Get("/api/audit-logs", h.HandleList)
	})
}
