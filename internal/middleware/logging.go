package middleware

import (
	"net/http"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger logs one structured line per request. The level follows the status code.
func Logger(log *logger.Logger) func(http.Handler) http.Handler {
	log = log.Named("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w, 0)

			next.ServeHTTP(rec, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.statusCode),
				zap.Duration("duration", time.Since(start)),
				zap.String("ip", ClientIP(r)),
			}
			if actor, ok := ActorFromContext(r.Context()); ok {
				fields = append(fields, zap.String("user_id", actor.UserID))
			}

			level := zapcore.InfoLevel
			switch {
			case rec.statusCode >= 500:
				level = zapcore.ErrorLevel
			case rec.statusCode >= 400:
				level = zapcore.WarnLevel
			}
			if ce := log.Check(level, "http_request"); ce != nil {
				ce.Write(fields...)
			}
		})
	}
}
