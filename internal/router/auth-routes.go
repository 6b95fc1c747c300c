package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/handler"
)

// SetupAuthRoutes configures sign-in, OTP and session routes.
func SetupAuthRoutes(mux *chi.Mux, h *handler.AuthHandler, mw *Middlewares) {
	// Public, rate limited per client IP
	mux.Group(func(r chi.Router) {
		if mw.LoginLimiter != nil {
			r.Use(mw.LoginLimiter.Middleware())
		}
		r.Post("/api/auth/login", h.HandleLogin)
		r.Post("/api/auth/otp/send", h.HandleSendOTP)
		r.Post("/api/auth/otp/verify", h.HandleVerifyOTP)
	})

	mux.Group(func(r chi.Router) {
		r.Use(mw.Auth)
		r.Post("/api/auth/logout", h.HandleLogout)
		r.Get("/api/auth/me", h.HandleMe)
		r.Post("/api/auth/change-password", h.HandleChangePassword)
	})
}

// SetupHealthRoutes exposes the liveness check.
func SetupHealthRoutes(mux *chi.Mux, h *handler.HealthHandler) {
	mux.Get("/healthz", h.HandleHealth)
}
