package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/invisiedge/Atreo-sub001/internal/middleware"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/platform/metrics"
)

// Middlewares are the per-route building blocks shared by every Setup*Routes.
type Middlewares struct {
	Auth         func(http.Handler) http.Handler
	Guard        *middleware.Guard
	Auditor      *middleware.Auditor
	LoginLimiter *middleware.RateLimiter
}

// module is the group-level gate: the actor must hold some access in module.
func (mw *Middlewares) module(name string) func(http.Handler) http.Handler {
	return mw.Guard.RequireModule(name)
}

// access is shorthand for the permission guard of module/page.
func (mw *Middlewares) access(module, page string) func(http.Handler) http.Handler {
	return mw.Guard.RequireAccess(module, page)
}

// NewMux builds the root router with the chain every request goes through.
func NewMux(allowedOrigins []string, log *logger.Logger, m *metrics.MetricsManager) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(chimw.RealIP)
	mux.Use(chimw.RequestID)
	mux.Use(middleware.Recoverer(log))
	mux.Use(middleware.Logger(log))
	if m != nil {
		mux.Use(middleware.Metrics(m))
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))
	mux.Use(chimw.Timeout(60 * time.Second))

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	return mux
}
