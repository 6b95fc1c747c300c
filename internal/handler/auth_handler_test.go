package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/middleware"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/platform/metrics"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc     *MockAuthService
	store   *recordingAuditStore
	metrics *metrics.MetricsManager
	handler *AuthHandler
}

func newAuthFixture() *authFixture {
	f := &authFixture{svc: new(MockAuthService), store: &recordingAuditStore{}, metrics: metrics.NewMetricsManager("test")}
	auditor := middleware.NewAuditor(f.store, f.metrics, logger.NewNop())
	f.handler = NewAuthHandler(f.svc, auditor, f.metrics, logger.NewNop())
	return f
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("issues a token", func(t *testing.T) {
		f := newAuthFixture()
		expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		user := &domain.User{ID: "u-1", Email: "ana@acme.test", Role: domain.RoleAdmin, OrganizationID: "org-1"}
		f.svc.On("Login", mock.Anything, "ana@acme.test", "S3cretpass").
			Return(&usecase.LoginResult{Token: "jwt", ExpiresAt: &expires, User: user}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ana@acme.test","password":"S3cretpass"}`))
		rr := httptest.NewRecorder()
		f.handler.HandleLogin(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var body usecase.LoginResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "jwt", body.Token)
		assert.False(t, body.OTPRequired)

		entry := f.store.last()
		require.NotNil(t, entry)
		assert.Equal(t, domain.ActionLogin, entry.Action)
		assert.Equal(t, domain.AuditModuleAuth, entry.Module)
		assert.Equal(t, "org-1", entry.OrganizationID)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LoginAttemptsTotal.WithLabelValues("success")))
	})

	t.Run("asks for a verification code", func(t *testing.T) {
		f := newAuthFixture()
		f.svc.On("Login", mock.Anything, "new@acme.test", "S3cretpass").Return(&usecase.LoginResult{OTPRequired: true}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"new@acme.test","password":"S3cretpass"}`))
		rr := httptest.NewRecorder()
		f.handler.HandleLogin(rr, req)

		assert.Equal(t, http.StatusAccepted, rr.Code)
		assert.Contains(t, rr.Body.String(), `"otp_required":true`)
		assert.NotContains(t, rr.Body.String(), "token")
		assert.Nil(t, f.store.last(), "no session was opened")
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OTPIssuedTotal))
	})

	t.Run("wrong password is audited without an actor", func(t *testing.T) {
		f := newAuthFixture()
		f.svc.On("Login", mock.Anything, "ana@acme.test", "wrong").Return(nil, domain.ErrInvalidCredentials)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ana@acme.test","password":"wrong"}`))
		rr := httptest.NewRecorder()
		f.handler.HandleLogin(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		entry := f.store.last()
		require.NotNil(t, entry)
		assert.Empty(t, entry.UserID)
		assert.Equal(t, "ana@acme.test", entry.UserEmail)
		assert.Equal(t, http.StatusUnauthorized, entry.StatusCode)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials")))
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newAuthFixture()
		f.svc.On("Login", mock.Anything, "off@acme.test", "S3cretpass").Return(nil, domain.ErrAccountInactive)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"off@acme.test","password":"S3cretpass"}`))
		rr := httptest.NewRecorder()
		f.handler.HandleLogin(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("invalid payload never reaches the service", func(t *testing.T) {
		f := newAuthFixture()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
		rr := httptest.NewRecorder()
		f.handler.HandleLogin(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		f.svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_OTP(t *testing.T) {
	t.Run("send honours the cooldown", func(t *testing.T) {
		f := newAuthFixture()
		f.svc.On("SendOTP", mock.Anything, "ana@acme.test").Return(domain.ErrOTPCooldown)

		rr := httptest.NewRecorder()
		f.handler.HandleSendOTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/otp/send", strings.NewReader(`{"email":"ana@acme.test"}`)))
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	})

	t.Run("send is accepted", func(t *testing.T) {
		f := newAuthFixture()
		f.svc.On("SendOTP", mock.Anything, "ana@acme.test").Return(nil)

		rr := httptest.NewRecorder()
		f.handler.HandleSendOTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/otp/send", strings.NewReader(`{"email":"ana@acme.test"}`)))
		assert.Equal(t, http.StatusAccepted, rr.Code)
	})

	t.Run("code must be six digits", func(t *testing.T) {
		f := newAuthFixture()
		rr := httptest.NewRecorder()
		f.handler.HandleVerifyOTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/otp/verify", strings.NewReader(`{"email":"ana@acme.test","code":"12ab"}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), `"code":"VALIDATION_FAILED"`)
	})

	t.Run("verify records the event", func(t *testing.T) {
		f := newAuthFixture()
		user := &domain.User{ID: "u-2", Email: "ana@acme.test", Role: domain.RoleUser, OrganizationID: "org-1"}
		f.svc.On("VerifyOTP", mock.Anything, "ana@acme.test", "123456").Return(&usecase.LoginResult{Token: "jwt", User: user}, nil)

		rr := httptest.NewRecorder()
		f.handler.HandleVerifyOTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/otp/verify", strings.NewReader(`{"email":"ana@acme.test","code":"123456"}`)))

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, f.store.last())
		assert.Equal(t, domain.ActionVerify, f.store.last().Action)
		assert.Equal(t, "u-2", f.store.last().ResourceID)
	})

	t.Run("wrong code", func(t *testing.T) {
		f := newAuthFixture()
		f.svc.On("VerifyOTP", mock.Anything, "ana@acme.test", "000000").Return(nil, domain.ErrOTPInvalid)

		rr := httptest.NewRecorder()
		f.handler.HandleVerifyOTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/otp/verify", strings.NewReader(`{"email":"ana@acme.test","code":"000000"}`)))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, http.StatusUnauthorized, f.store.last().StatusCode)
	})
}

func TestAuthHandler_SessionEndpoints(t *testing.T) {
	f := newAuthFixture()
	actor := testActor()
	f.svc.On("Logout", mock.Anything, actor).Return(nil)
	f.svc.On("Me", mock.Anything, actor).Return(&domain.User{ID: actor.UserID, Email: actor.Email}, nil)
	f.svc.On("ChangePassword", mock.Anything, actor, "Old12345", "Old12345").Return(domain.ErrInvalidInput)

	rr := httptest.NewRecorder()
	f.handler.HandleMe(rr, withActor(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), actor))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), actor.Email)

	rr = httptest.NewRecorder()
	f.handler.HandleChangePassword(rr, withActor(httptest.NewRequest(http.MethodPost, "/api/auth/change-password",
		strings.NewReader(`{"old_password":"Old12345","new_password":"Old12345"}`)), actor))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	f.handler.HandleLogout(rr, withActor(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), actor))
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, f.store.last())
	assert.Equal(t, domain.ActionLogout, f.store.last().Action)

	rr = httptest.NewRecorder()
	f.handler.HandleMe(rr, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	f.svc.AssertExpectations(t)
}
