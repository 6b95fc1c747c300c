package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	actor *domain.Actor
	err   error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.Actor, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	return s.actor, s.err
}

type recordingAuditor struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
	err     error
}

func (r *recordingAuditor) Record(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return r.err
}

func okHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestJWTAuth(t *testing.T) {
	actor := &domain.Actor{UserID: "u1", Role: domain.RoleAdmin}
	var seen *domain.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		auth       stubAuthenticator
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "missing header", auth: stubAuthenticator{actor: actor}, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "bad token", auth: stubAuthenticator{actor: actor}, header: "Bearer bad", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "inactive user", auth: stubAuthenticator{err: domain.ErrAccountInactive}, header: "Bearer good", wantStatus: http.StatusForbidden, wantCode: "ACCOUNT_INACTIVE"},
		{name: "store failure", auth: stubAuthenticator{err: domain.ErrRepository}, header: "Bearer good", wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL"},
		{name: "valid token", auth: stubAuthenticator{actor: actor}, header: "bearer good", wantStatus: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			JWTAuth(tt.auth, logger.NewNop())(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rr).Code)
				assert.Nil(t, seen)
				return
			}
			assert.Equal(t, actor, seen)
		})
	}
}

func TestRequireAccess(t *testing.T) {
	m := metrics.NewMetricsManager("test")
	guard := NewGuard(m, logger.NewNop())
	h := guard.RequireAccess(domain.ModuleInvoices, "list")(okHandler(http.StatusOK, `{}`))

	tests := []struct {
		name       string
		actor      *domain.Actor
		method     string
		wantStatus int
	}{
		{name: "no actor", method: http.MethodGet, wantStatus: http.StatusUnauthorized},
		{name: "accountant reads", actor: &domain.Actor{Role: domain.RoleAccountant}, method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "accountant writes", actor: &domain.Actor{Role: domain.RoleAccountant}, method: http.MethodPost, wantStatus: http.StatusForbidden},
		{name: "user with write leaf", actor: &domain.Actor{Role: domain.RoleUser, Permissions: domain.Permissions{"invoices": {"list": {Write: true}}}}, method: http.MethodDelete, wantStatus: http.StatusOK},
		{name: "user with read leaf writes", actor: &domain.Actor{Role: domain.RoleUser, Permissions: domain.Permissions{"invoices": {"list": {Read: true}}}}, method: http.MethodPut, wantStatus: http.StatusForbidden},
		{name: "user without leaf", actor: &domain.Actor{Role: domain.RoleUser}, method: http.MethodHead, wantStatus: http.StatusForbidden},
		{name: "admin", actor: &domain.Actor{Role: domain.RoleAdmin}, method: http.MethodPatch, wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/invoices", nil)
			if tt.actor != nil {
				req = req.WithContext(WithActor(req.Context(), tt.actor))
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PermissionDenials.WithLabelValues("invoices", "list", "write")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PermissionDenials.WithLabelValues("invoices", "list", "read")))
}

func TestRequireModule(t *testing.T) {
	guard := NewGuard(nil, logger.NewNop())
	h := guard.RequireModule(domain.ModuleTools)(okHandler(http.StatusOK, `{}`))

	req := httptest.NewRequest(http.MethodGet, "/api/tools", nil)
	req = req.WithContext(WithActor(req.Context(), &domain.Actor{Role: domain.RoleAccountant}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func newAuditRouter(a *Auditor, handler http.Handler) http.Handler {
	actor := &domain.Actor{UserID: "u1", Email: "a@acme.test", Role: domain.RoleAdmin, OrganizationID: "org-1"}
	return newAuditRouterFor(a, actor, handler)
}

func newAuditRouterFor(a *Auditor, actor *domain.Actor, handler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(WithActor(req.Context(), actor)))
		})
	})
	assets := a.Audit(domain.ModuleAssets)
	r.With(assets).Method(http.MethodPost, "/api/assets", handler)
	r.With(assets).Method(http.MethodPut, "/api/assets/{id}", handler)
	r.With(assets).Method(http.MethodGet, "/api/assets/{id}", handler)
	r.With(assets).Method(http.MethodDelete, "/api/assets/{id}", handler)
	r.With(assets).Method(http.MethodPost, "/api/assets/{id}/assign", handler)
	r.With(a.Audit(domain.ModuleOrganizations)).Method(http.MethodPut, "/api/organizations/{id}", handler)
	return r
}

func TestAudit_RecordsSuccessfulMutations(t *testing.T) {
	m := metrics.NewMetricsManager("test")
	rec := &recordingAuditor{}
	a := NewAuditor(rec, m, logger.NewNop())

	router := newAuditRouter(a, okHandler(http.StatusCreated, `{"id":"64b000000000000000000001","name":"Laptop"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/assets", strings.NewReader(`{}`))
	req.Header.Set("User-Agent", "audit-test")
	req.RemoteAddr = "10.1.2.3:5555"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, rec.entries, 1)
	entry := rec.entries[0]
	assert.Equal(t, domain.ActionCreate, entry.Action)
	assert.Equal(t, domain.ModuleAssets, entry.Module)
	assert.Equal(t, "64b000000000000000000001", entry.ResourceID)
	assert.Equal(t, "org-1", entry.OrganizationID)
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, "10.1.2.3", entry.IP)
	assert.Equal(t, "audit-test", entry.UserAgent)
	assert.Equal(t, http.StatusCreated, entry.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditRecordsTotal.WithLabelValues("assets", "ok")))

	req = httptest.NewRequest(http.MethodPut, "/api/assets/abc123", strings.NewReader(`{}`))
	rr = httptest.NewRecorder()
	newAuditRouter(a, okHandler(http.StatusOK, `[]`)).ServeHTTP(rr, req)
	require.Len(t, rec.entries, 2)
	assert.Equal(t, domain.ActionUpdate, rec.entries[1].Action)
	assert.Equal(t, "abc123", rec.entries[1].ResourceID, "route parameter wins over the body")
}

func TestAudit_SkipsReadsFailuresAndExplicitEntries(t *testing.T) {
	rec := &recordingAuditor{}
	a := NewAuditor(rec, nil, logger.NewNop())

	rr := httptest.NewRecorder()
	newAuditRouter(a, okHandler(http.StatusOK, `{}`)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/assets/abc", nil))
	assert.Empty(t, rec.entries)

	rr = httptest.NewRecorder()
	newAuditRouter(a, okHandler(http.StatusConflict, `{"error":"x"}`)).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/assets/abc", nil))
	assert.Empty(t, rec.entries)

	explicit := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())
		a.Record(r, actor, domain.ActionUpload, domain.ModuleAssets, "abc", http.StatusCreated)
		w.WriteHeader(http.StatusCreated)
	})
	rr = httptest.NewRecorder()
	newAuditRouter(a, explicit).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/assets/abc", nil))
	require.Len(t, rec.entries, 1)
	assert.Equal(t, domain.ActionUpload, rec.entries[0].Action)
}

func TestAudit_SuperAdminEntriesBelongToAffectedOrganization(t *testing.T) {
	rec := &recordingAuditor{}
	a := NewAuditor(rec, nil, logger.NewNop())
	root := &domain.Actor{UserID: "u-root", Email: "root@atreo.test", Role: domain.RoleSuperAdmin}

	tests := []struct {
		name    string
		method  string
		path    string
		status  int
		body    string
		wantOrg string
	}{
		{"created document", http.MethodPost, "/api/assets", http.StatusCreated, `{"id":"a1","organization_id":"org-7"}`, "org-7"},
		{"updated document", http.MethodPut, "/api/assets/a1", http.StatusOK, `{"id":"a1","organization_id":"org-7"}`, "org-7"},
		{"delete scoped by query", http.MethodDelete, "/api/assets/a1?organization_id=org-9", http.StatusNoContent, "", "org-9"},
		{"organization itself", http.MethodPut, "/api/organizations/org-3", http.StatusOK, `{"id":"org-3","name":"Acme"}`, "org-3"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			newAuditRouterFor(a, root, okHandler(tt.status, tt.body)).ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			require.Len(t, rec.entries, i+1)
			entry := rec.entries[i]
			assert.Equal(t, tt.wantOrg, entry.OrganizationID)
			assert.Equal(t, "u-root", entry.UserID)
		})
	}

	rr := httptest.NewRecorder()
	newAuditRouter(a, okHandler(http.StatusOK, `{"id":"a1","organization_id":"org-7"}`)).
		ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/assets/a1", nil))
	assert.Equal(t, "org-1", rec.entries[len(rec.entries)-1].OrganizationID, "tenant actors keep their own organization")
}

func TestAudit_PostOnExistingDocumentIsUpdate(t *testing.T) {
	rec := &recordingAuditor{}
	a := NewAuditor(rec, nil, logger.NewNop())

	rr := httptest.NewRecorder()
	newAuditRouter(a, okHandler(http.StatusOK, `{"id":"a1","status":"assigned"}`)).
		ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/assets/a1/assign", strings.NewReader(`{"employee_id":"e1"}`)))

	require.Len(t, rec.entries, 1)
	assert.Equal(t, domain.ActionUpdate, rec.entries[0].Action)
	assert.Equal(t, "a1", rec.entries[0].ResourceID)
}

func TestAudit_StoreFailureDoesNotFailRequest(t *testing.T) {
	rec := &recordingAuditor{err: domain.ErrRepository}
	a := NewAuditor(rec, nil, logger.NewNop())

	rr := httptest.NewRecorder()
	newAuditRouter(a, okHandler(http.StatusOK, `{"id":"x"}`)).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/assets/x", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, rec.entries, 1)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 2, CleanupInterval: time.Minute}, logger.NewNop())
	defer rl.Stop()
	h := rl.Middleware()(okHandler(http.StatusOK, `{}`))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1:1000").Code)
	assert.Equal(t, http.StatusOK, send("192.0.2.1:1001").Code)
	limited := send("192.0.2.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decodeError(t, limited).Code)

	assert.Equal(t, http.StatusOK, send("192.0.2.2:1000").Code, "other clients keep their own budget")
	assert.Equal(t, 2, rl.Len())

	rl.cleanup(time.Now().Add(3 * time.Minute))
	assert.Equal(t, 0, rl.Len())
}

func TestPerMinute(t *testing.T) {
	cfg := PerMinute(30)
	assert.InDelta(t, 0.5, float64(cfg.Rate), 1e-9)
	assert.Equal(t, 30, cfg.Burst)
	assert.Equal(t, 1, PerMinute(0).Burst)
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(logger.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "INTERNAL", decodeError(t, rr).Code)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	m := metrics.NewMetricsManager("test")
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/assets/{id}", okHandler(http.StatusOK, `{}`).ServeHTTP)

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/assets/"+id, nil))
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/assets/{id}", "GET", "200")))
}

func TestAccessForMethod(t *testing.T) {
	assert.Equal(t, domain.AccessRead, AccessForMethod(http.MethodGet))
	assert.Equal(t, domain.AccessRead, AccessForMethod(http.MethodOptions))
	assert.Equal(t, domain.AccessWrite, AccessForMethod(http.MethodPost))
	assert.Equal(t, domain.AccessWrite, AccessForMethod(http.MethodDelete))
}
