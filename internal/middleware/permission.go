package middleware

import (
	"net/http"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/platform/metrics"
	"go.uber.org/zap"
)

// AccessForMethod maps safe methods to read access and everything else to write.
func AccessForMethod(method string) domain.AccessType {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return domain.AccessRead
	}
	return domain.AccessWrite
}

// Guard builds permission checks sharing one denial counter.
type Guard struct {
	metrics *metrics.MetricsManager
	logger  *logger.Logger
}

func NewGuard(m *metrics.MetricsManager, log *logger.Logger) *Guard {
	return &Guard{metrics: m, logger: log.Named("PermissionGuard")}
}

// RequireAccess answers 403 unless the actor holds the access the request
// method needs on module/page. It must run after JWTAuth.
func (g *Guard) RequireAccess(module, page string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			access := AccessForMethod(r.Method)
			if !actor.HasPageAccess(module, page, access) {
				if g.metrics != nil {
					g.metrics.PermissionDenials.WithLabelValues(module, page, string(access)).Inc()
				}
				g.logger.Info("Permission denied",
					zap.String("user_id", actor.UserID),
					zap.String("role", string(actor.Role)),
					zap.String("module", module),
					zap.String("page", page),
					zap.String("access", string(access)))
				WriteError(w, http.StatusForbidden, "FORBIDDEN", "you do not have "+string(access)+" access to "+module+"/"+page)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireModule answers 403 unless the actor may enter module at all.
func (g *Guard) RequireModule(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			if !actor.HasModuleAccess(module) {
				if g.metrics != nil {
					g.metrics.PermissionDenials.WithLabelValues(module, "", "module").Inc()
				}
				WriteError(w, http.StatusForbidden, "FORBIDDEN", "you do not have access to "+module)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
