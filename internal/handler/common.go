package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/middleware"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"
	"go.uber.org/zap"
)

const multipartMemory = 8 << 20

var validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type validationError struct {
	fields map[string]string
}

func (e *validationError) Error() string {
	return "validation failed"
}

func validateStruct(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	out := &validationError{fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		name := fe.Namespace()
		if i := strings.IndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		if fe.Param() != "" {
			out.fields[name] = fe.Tag() + "=" + fe.Param()
		} else {
			out.fields[name] = fe.Tag()
		}
	}
	return out
}

// decodeJSON reads the request body into dst and validates it.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", domain.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidInput, err)
	}
	return validateStruct(dst)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	middleware.WriteJSON(w, code, payload)
}

func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusForbidden, "ACCOUNT_INACTIVE"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrOTPInvalid):
		return http.StatusUnauthorized, "OTP_INVALID"
	case errors.Is(err, domain.ErrOTPTooManyAttempts):
		return http.StatusTooManyRequests, "OTP_TOO_MANY_ATTEMPTS"
	case errors.Is(err, domain.ErrOTPCooldown):
		return http.StatusTooManyRequests, "OTP_COOLDOWN"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// handleError maps domain errors to HTTP responses. Server errors are logged
// and answered with a generic message.
func handleError(w http.ResponseWriter, err error, defaultMessage string, log *logger.Logger) {
	var vErr *validationError
	if errors.As(err, &vErr) {
		middleware.WriteJSON(w, http.StatusBadRequest, middleware.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_FAILED",
			Details: vErr.fields,
		})
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}

	status, code := statusForError(err)
	if status >= http.StatusInternalServerError {
		log.Error(defaultMessage, zap.Error(err))
		middleware.WriteError(w, status, code, defaultMessage)
		return
	}
	log.Debug(defaultMessage, zap.Int("status", status), zap.Error(err))
	middleware.WriteError(w, status, code, err.Error())
}

// actorFrom returns the caller set by the JWT middleware or answers 401.
func actorFrom(w http.ResponseWriter, r *http.Request) (*domain.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return nil, false
	}
	return actor, true
}

func parseIntQueryParam(r *http.Request, key string, defaultValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	return v
}

func parseBoolQueryParam(r *http.Request, key string) (*bool, error) {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(valStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
	}
	return &v, nil
}

// parseTimeQueryParam accepts RFC3339 or YYYY-MM-DD. A bare date used as an
// upper bound covers the whole day.
func parseTimeQueryParam(r *http.Request, key string, endOfDay bool) (*time.Time, error) {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, valStr); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", valStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD) or RFC3339 timestamp", domain.ErrInvalidInput, key)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func listFilter(r *http.Request) domain.ListFilter {
	q := r.URL.Query()
	f := domain.ListFilter{
		OrganizationID: strings.TrimSpace(q.Get("organization_id")),
		Search:         strings.TrimSpace(q.Get("search")),
		Page:           parseIntQueryParam(r, "page", 1),
		Limit:          parseIntQueryParam(r, "limit", domain.DefaultPageSize),
	}
	f.Normalize()
	return f
}

// readUpload parses a multipart request and returns its "file" part. The
// caller must run the returned cleanup once the upload has been consumed.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (usecase.UploadInput, func(), error) {
	noop := func() {}
	limit := maxBytes + multipartMemory/8
	if r.ContentLength > limit {
		return usecase.UploadInput{}, noop, &http.MaxBytesError{Limit: limit}
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return usecase.UploadInput{}, noop, err
		}
		return usecase.UploadInput{}, noop, fmt.Errorf("%w: expected multipart/form-data: %v", domain.ErrInvalidInput, err)
	}
	cleanup := func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		cleanup()
		if errors.Is(err, http.ErrMissingFile) {
			return usecase.UploadInput{}, noop, fmt.Errorf("%w: form field \"file\" is required", domain.ErrInvalidInput)
		}
		return usecase.UploadInput{}, noop, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return uploadFromPart(file, header), func() {
		_ = file.Close()
		cleanup()
	}, nil
}

func uploadFromPart(file multipart.File, header *multipart.FileHeader) usecase.UploadInput {
	return usecase.UploadInput{FileName: header.Filename, Size: header.Size, Body: file}
}
