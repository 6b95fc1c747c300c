package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/platform/metrics"
	"go.uber.org/zap"
)

const (
	auditBodyCapture = 4096
	auditTimeout     = 5 * time.Second
)

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry *domain.AuditLog) error
}

// Auditor writes audit entries for successful mutations and for explicit
// events such as logins and credential reveals.
type Auditor struct {
	recorder AuditRecorder
	metrics  *metrics.MetricsManager
	logger   *logger.Logger
}

func NewAuditor(recorder AuditRecorder, m *metrics.MetricsManager, log *logger.Logger) *Auditor {
	return &Auditor{recorder: recorder, metrics: m, logger: log.Named("Auditor")}
}

// ClientIP returns the host part of r.RemoteAddr. chi's RealIP middleware
// rewrites RemoteAddr from proxy headers before this runs.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// EntryFromRequest fills an audit entry with the request metadata and the actor.
func EntryFromRequest(r *http.Request, actor *domain.Actor, action domain.AuditAction, module, resourceID string, status int) *domain.AuditLog {
	entry := &domain.AuditLog{
		Action:     action,
		Module:     module,
		ResourceID: resourceID,
		Method:     r.Method,
		Path:       r.URL.Path,
		StatusCode: status,
		IP:         ClientIP(r),
		UserAgent:  r.UserAgent(),
		Timestamp:  time.Now().UTC(),
	}
	if actor != nil {
		entry.OrganizationID = actor.OrganizationID
		entry.UserID = actor.UserID
		entry.UserEmail = actor.Email
		entry.Role = actor.Role
	}
	return entry
}

// Write stores entry detached from the request lifetime. Failures are logged only.
func (a *Auditor) Write(ctx context.Context, entry *domain.AuditLog) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	result := "ok"
	if err := a.recorder.Record(ctx, entry); err != nil {
		result = "error"
		a.logger.Error("Failed to record audit entry",
			zap.String("module", entry.Module),
			zap.String("action", string(entry.Action)),
			zap.String("resource_id", entry.ResourceID),
			zap.Error(err))
	}
	if a.metrics != nil {
		a.metrics.AuditRecordsTotal.WithLabelValues(entry.Module, result).Inc()
	}
}

// Record writes an explicit entry for r and keeps the middleware from writing a second one.
func (a *Auditor) Record(r *http.Request, actor *domain.Actor, action domain.AuditAction, module, resourceID string, status int) {
	MarkAudited(r.Context())
	a.Write(r.Context(), EntryFromRequest(r, actor, action, module, resourceID, status))
}

// Audit records every POST, PUT, PATCH and DELETE on the wrapped routes that
// completes with a status below 400. The resource id comes from the {id}
// route parameter or, failing that, the "id" field of the JSON response.
// A POST below an {id} route is recorded as an update of that document.
// Entries of actors without an organization are filed under the organization
// of the affected document.
func (a *Auditor) Audit(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			action, mutating := domain.ActionForMethod(r.Method)
			if !mutating {
				next.ServeHTTP(w, r)
				return
			}

			state := &auditState{}
			r = r.WithContext(context.WithValue(r.Context(), auditStateCtxKey, state))
			rec := newStatusRecorder(w, auditBodyCapture)
			next.ServeHTTP(rec, r)

			if state.recorded || rec.statusCode >= http.StatusBadRequest {
				return
			}
			body := parseAuditedBody(rec.body.Bytes())
			resourceID := chi.URLParam(r, "id")
			if resourceID == "" {
				resourceID = body.ID
			} else if action == domain.ActionCreate {
				action = domain.ActionUpdate
			}
			actor, _ := ActorFromContext(r.Context())
			entry := EntryFromRequest(r, actor, action, module, resourceID, rec.statusCode)
			if entry.OrganizationID == "" {
				entry.OrganizationID = affectedOrganization(r, module, resourceID, body)
			}
			a.Write(r.Context(), entry)
		})
	}
}

// auditedBody holds the fields read back from a JSON response.
type auditedBody struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
}

func parseAuditedBody(body []byte) auditedBody {
	var out auditedBody
	if len(body) == 0 {
		return out
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return auditedBody{}
	}
	return out
}

// affectedOrganization resolves the tenant of the changed document for actors
// without one (super-admins): the organization itself, the organization_id of
// the returned document, or the organization_id query parameter.
func affectedOrganization(r *http.Request, module, resourceID string, body auditedBody) string {
	if module == domain.ModuleOrganizations {
		return resourceID
	}
	if body.OrganizationID != "" {
		return body.OrganizationID
	}
	return r.URL.Query().Get("organization_id")
}
