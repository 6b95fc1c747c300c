package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/middleware"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("%w: asset abc", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: period must be YYYY-MM", domain.ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrAccountInactive, http.StatusForbidden, "ACCOUNT_INACTIVE"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrOTPInvalid, http.StatusUnauthorized, "OTP_INVALID"},
		{domain.ErrOTPTooManyAttempts, http.StatusTooManyRequests, "OTP_TOO_MANY_ATTEMPTS"},
		{domain.ErrOTPCooldown, http.StatusTooManyRequests, "OTP_COOLDOWN"},
		{fmt.Errorf("%w: invoice is paid", domain.ErrConflict), http.StatusConflict, "CONFLICT"},
		{fmt.Errorf("%w: socket closed", domain.ErrRepository), http.StatusInternalServerError, "INTERNAL"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handleError(rr, tt.err, "Failed to do the thing", logger.NewNop())

			assert.Equal(t, tt.wantStatus, rr.Code)
			var body middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, "Failed to do the thing", body.Error, "internal details stay in the logs")
			} else {
				assert.Equal(t, tt.err.Error(), body.Error)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		var in loginRequest
		err := decodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("malformed body", func(t *testing.T) {
		var in loginRequest
		err := decodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")), &in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("fields are reported by json name", func(t *testing.T) {
		var in loginRequest
		err := decodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope"}`)), &in)
		var vErr *validationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, map[string]string{"email": "email", "password": "required"}, vErr.fields)
	})

	t.Run("nested items", func(t *testing.T) {
		var in usecase.InvoiceInput
		body := `{"items":[{"description":"ok","quantity":"1","unit_price":"2"},{"quantity":"1"}]}`
		err := decodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), &in)
		var vErr *validationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "required", vErr.fields["items[1].description"])
	})

	t.Run("validation error response", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handleError(rr, &validationError{fields: map[string]string{"currency": "len=3"}}, "x", logger.NewNop())
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"validation failed","code":"VALIDATION_FAILED","details":{"currency":"len=3"}}`, rr.Body.String())
	})
}

func TestListFilter(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/assets?page=0&limit=500&search=%20mac%20&organization_id=org-9", nil)
	f := listFilter(r)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, domain.MaxPageSize, f.Limit)
	assert.Equal(t, "mac", f.Search)
	assert.Equal(t, "org-9", f.OrganizationID)

	f = listFilter(httptest.NewRequest(http.MethodGet, "/api/assets?page=abc", nil))
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, domain.DefaultPageSize, f.Limit)
}

func TestParseTimeQueryParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?from=2024-03-01&to=2024-03-31&at=2024-03-05T10:00:00%2B02:00&bad=03/05", nil)

	from, err := parseTimeQueryParam(r, "from", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *from)

	to, err := parseTimeQueryParam(r, "to", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.UTC), *to)

	at, err := parseTimeQueryParam(r, "at", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC), *at)

	missing, err := parseTimeQueryParam(r, "missing", false)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	_, err = parseTimeQueryParam(r, "bad", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseBoolQueryParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?is_active=false&x=maybe", nil)
	v, err := parseBoolQueryParam(r, "is_active")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, *v)

	_, err = parseBoolQueryParam(r, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
