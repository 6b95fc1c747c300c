package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/handler"
)

func SetupInvoiceRoutes(mux *chi.Mux, h *handler.InvoiceHandler, mw *Middlewares) {
	mux.Group(func(r chi.Router) {
		r.Use(mw.Auth)
		r.Use(mw.module(domain.ModuleInvoices))
		r.Use(mw.Auditor.Audit(domain.ModuleInvoices))

		list := mw.access(domain.ModuleInvoices, "list")
		r.With(list).Get("/api/invoices", h.HandleList)
		r.With(list).Post("/api/invoices", h.HandleCreate)
		r.With(list).Get("/api/invoices/{id}", h.HandleGet)
		r.With(list).Put("/api/invoices/{id}", h.HandleUpdate)
		r.With(list).Patch("/api/invoices/{id}/status", h.HandleSetStatus)
		r.With(list).Delete("/api/invoices/{id}", h.HandleDelete)

		r.With(mw.access(domain.ModuleInvoices, "attachments")).Post("/api/invoices/{id}/attachment", h.HandleAttach)
	})
}

func SetupPaymentRoutes(mux *chi.Mux, h *handler.PaymentHandler, mw *Middlewares) {
	mux.Group(func(r chi.Router) {
		r.Use(mw.Auth)
		r.Use(mw.module(domain.ModulePayments))
		r.Use(mw.Auditor.Audit(domain.ModulePayments))
		r.Use(mw.access(domain.ModulePayments, "list"))

		r.Get("/api/payments", h.HandleList)
		r.Post("/api/payments", h.HandleCreate)
		r.Get("/api/payments/{id}", h.HandleGet)
		r.Put("/api/payments/{id}", h.HandleUpdate)
		r.Delete("/api/payments/{id}", h.HandleDelete)
	})
}
