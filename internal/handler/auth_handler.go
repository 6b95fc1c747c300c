package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/middleware"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/platform/metrics"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"
	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*usecase.LoginResult, error)
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*usecase.LoginResult, error)
	Logout(ctx context.Context, actor *domain.Actor) error
	Me(ctx context.Context, actor *domain.Actor) (*domain.User, error)
	ChangePassword(ctx context.Context, actor *domain.Actor, oldPassword, newPassword string) error
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type otpSendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type otpVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,numeric,len=6"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type messageResponse struct {
	Message     string `json:"message"`
	OTPRequired bool   `json:"otp_required,omitempty"`
}

type AuthHandler struct {
	auth    AuthService
	auditor *middleware.Auditor
	metrics *metrics.MetricsManager
	logger  *logger.Logger
}

func NewAuthHandler(auth AuthService, auditor *middleware.Auditor, m *metrics.MetricsManager, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, auditor: auditor, metrics: m, logger: log.Named("AuthHTTPHandler")}
}

func (h *AuthHandler) countLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *AuthHandler) countOTP() {
	if h.metrics != nil {
		h.metrics.OTPIssuedTotal.Inc()
	}
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	}
	return "error"
}

// auditFailedLogin keeps a trace of rejected sign-ins. No actor exists yet,
// so only the submitted email is stored.
func (h *AuthHandler) auditFailedLogin(r *http.Request, action domain.AuditAction, email string, err error) {
	status, _ := statusForError(err)
	entry := middleware.EntryFromRequest(r, nil, action, domain.AuditModuleAuth, "", status)
	entry.UserEmail = email
	h.auditor.Write(r.Context(), entry)
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err, "Invalid login request", h.logger)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.countLogin(loginOutcome(err))
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrAccountInactive) {
			h.auditFailedLogin(r, domain.ActionLogin, req.Email, err)
		}
		handleError(w, err, "Failed to login", h.logger)
		return
	}

	if result.OTPRequired {
		h.countLogin("otp_required")
		h.countOTP()
		respondWithJSON(w, http.StatusAccepted, messageResponse{
			Message:     "a verification code has been sent to your email",
			OTPRequired: true,
		})
		return
	}

	h.countLogin("success")
	h.auditor.Record(r, domain.ActorFromUser(result.User, "", time.Time{}), domain.ActionLogin, domain.AuditModuleAuth, result.User.ID, http.StatusOK)
	h.logger.Info("User logged in", zap.String("user_id", result.User.ID))
	respondWithJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) HandleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpSendRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err, "Invalid OTP request", h.logger)
		return
	}
	if err := h.auth.SendOTP(r.Context(), req.Email); err != nil {
		handleError(w, err, "Failed to send verification code", h.logger)
		return
	}
	h.countOTP()
	respondWithJSON(w, http.StatusAccepted, messageResponse{
		Message: "if the account exists, a verification code has been sent",
	})
}

func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err, "Invalid OTP verification request", h.logger)
		return
	}

	result, err := h.auth.VerifyOTP(r.Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrOTPInvalid) || errors.Is(err, domain.ErrOTPTooManyAttempts) {
			h.auditFailedLogin(r, domain.ActionVerify, req.Email, err)
		}
		handleError(w, err, "Failed to verify code", h.logger)
		return
	}

	h.countLogin("success")
	h.auditor.Record(r, domain.ActorFromUser(result.User, "", time.Time{}), domain.ActionVerify, domain.AuditModuleAuth, result.User.ID, http.StatusOK)
	respondWithJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.auth.Logout(r.Context(), actor); err != nil {
		handleError(w, err, "Failed to logout", h.logger)
		return
	}
	h.auditor.Record(r, actor, domain.ActionLogout, domain.AuditModuleAuth, actor.UserID, http.StatusOK)
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	user, err := h.auth.Me(r.Context(), actor)
	if err != nil {
		handleError(w, err, "Failed to load profile", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err, "Invalid change password request", h.logger)
		return
	}
	if err := h.auth.ChangePassword(r.Context(), actor, req.OldPassword, req.NewPassword); err != nil {
		handleError(w, err, "Failed to change password", h.logger)
		return
	}
	h.auditor.Record(r, actor, domain.ActionUpdate, domain.AuditModuleAuth, actor.UserID, http.StatusOK)
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "password changed"})
}
