package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"go.uber.org/zap"
)

// Authenticator resolves a bearer token into the calling actor.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Actor, error)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// JWTAuth rejects requests without a valid, unrevoked token of an active user
// and stores the resolved actor in the request context.
func JWTAuth(auth Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	log = log.Named("JWTAuth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}
			actor, err := auth.Authenticate(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrAccountInactive):
				WriteError(w, http.StatusForbidden, "ACCOUNT_INACTIVE", err.Error())
				return
			case errors.Is(err, domain.ErrUnauthorized):
				log.Debug("Token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			default:
				log.Error("Failed to authenticate request", zap.Error(err))
				WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}
