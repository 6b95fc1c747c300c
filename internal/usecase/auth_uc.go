package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/auth"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"go.uber.org/zap"
)

// AuthConfig tunes the login flow.
type AuthConfig struct {
	OTPOnLogin bool
	OTPTTL     time.Duration
}

// LoginResult is returned by Login and VerifyOTP. Token is empty while OTPRequired is set.
type LoginResult struct {
	Token       string       `json:"token,omitempty"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	User        *domain.User `json:"user,omitempty"`
	OTPRequired bool         `json:"otp_required,omitempty"`
}

// AuthUsecase authenticates dashboard users.
type AuthUsecase struct {
	users    domain.UserRepository
	otp      OTPStore
	mailer   Mailer
	tokens   TokenManager
	sessions SessionStore
	cfg      AuthConfig
	logger   *logger.Logger
	now      func() time.Time
}

func NewAuthUsecase(users domain.UserRepository, otp OTPStore, mailer Mailer, tokens TokenManager, sessions SessionStore, cfg AuthConfig, log *logger.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		otp:      otp,
		mailer:   mailer,
		tokens:   tokens,
		sessions: sessions,
		cfg:      cfg,
		logger:   log.Named("AuthUsecase"),
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks the password of email. Unverified accounts, or every account when
// OTP on login is enabled, receive a verification code instead of a token.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		uc.logger.Info("Login rejected: wrong password", zap.String("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}

	if !user.EmailVerified || uc.cfg.OTPOnLogin {
		if err := uc.sendOTP(ctx, user); err != nil && !errors.Is(err, domain.ErrOTPCooldown) {
			return nil, err
		}
		return &LoginResult{OTPRequired: true}, nil
	}
	return uc.issue(ctx, user)
}

// SendOTP emails a fresh verification code. Unknown or inactive accounts are
// answered like known ones so the endpoint cannot be used to enumerate emails.
func (uc *AuthUsecase) SendOTP(ctx context.Context, email string) error {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}
	return uc.sendOTP(ctx, user)
}

func (uc *AuthUsecase) sendOTP(ctx context.Context, user *domain.User) error {
	code, err := uc.otp.Issue(ctx, user.Email)
	if err != nil {
		if errors.Is(err, domain.ErrOTPCooldown) {
			return err
		}
		uc.logger.Error("Failed to issue OTP", zap.String("user_id", user.ID), zap.Error(err))
		return fmt.Errorf("issue verification code: %w", err)
	}
	if err := uc.mailer.SendVerificationCode(user.Email, user.Name, code, uc.cfg.OTPTTL); err != nil {
		uc.logger.Error("Failed to send OTP email", zap.String("user_id", user.ID), zap.Error(err))
		return fmt.Errorf("send verification code: %w", err)
	}
	uc.logger.Info("OTP sent", zap.String("user_id", user.ID))
	return nil
}

// VerifyOTP checks code, marks the email verified and issues a token.
func (uc *AuthUsecase) VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrOTPInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}
	if err := uc.otp.Verify(ctx, user.Email, strings.TrimSpace(code)); err != nil {
		return nil, err
	}
	if !user.EmailVerified {
		if err := uc.users.MarkEmailVerified(ctx, user.ID); err != nil {
			return nil, err
		}
		user.EmailVerified = true
	}
	return uc.issue(ctx, user)
}

func (uc *AuthUsecase) issue(ctx context.Context, user *domain.User) (*LoginResult, error) {
	token, claims, err := uc.tokens.Issue(user.ID, string(user.Role), user.OrganizationID)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	if err := uc.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		uc.logger.Warn("Failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}
	expires := claims.ExpiresAt.Time
	uc.logger.Info("User logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &LoginResult{Token: token, ExpiresAt: &expires, User: user}, nil
}

// Authenticate resolves a bearer token into an actor. The user is reloaded so
// role, permission and status changes apply to tokens already issued.
func (uc *AuthUsecase) Authenticate(ctx context.Context, token string) (*domain.Actor, error) {
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	revoked, err := uc.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: token has been revoked", domain.ErrUnauthorized)
	}
	user, err := uc.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}
	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return domain.ActorFromUser(user, claims.ID, expires), nil
}

// Logout revokes the token of actor until it would have expired anyway.
func (uc *AuthUsecase) Logout(ctx context.Context, actor *domain.Actor) error {
	if actor == nil || actor.TokenID == "" {
		return domain.ErrUnauthorized
	}
	ttl := actor.TokenExpiresAt.Sub(uc.now())
	if ttl <= 0 {
		return nil
	}
	if err := uc.sessions.Revoke(ctx, actor.TokenID, ttl); err != nil {
		uc.logger.Error("Failed to revoke token", zap.String("user_id", actor.UserID), zap.Error(err))
		return err
	}
	uc.logger.Info("User logged out", zap.String("user_id", actor.UserID))
	return nil
}

func (uc *AuthUsecase) Me(ctx context.Context, actor *domain.Actor) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.users.GetByID(ctx, actor.UserID)
}

func (uc *AuthUsecase) ChangePassword(ctx context.Context, actor *domain.Actor, oldPassword, newPassword string) error {
	user, err := uc.Me(ctx, actor)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, oldPassword) {
		return fmt.Errorf("%w: current password is incorrect", domain.ErrInvalidInput)
	}
	if oldPassword == newPassword {
		return fmt.Errorf("%w: new password must differ from the current one", domain.ErrInvalidInput)
	}
	if err := auth.ValidatePasswordStrength(newPassword); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := uc.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	uc.logger.Info("Password changed", zap.String("user_id", user.ID))
	return nil
}

// SeedSuperAdmin creates the first super-admin when none exists yet.
func (uc *AuthUsecase) SeedSuperAdmin(ctx context.Context, email, password, name string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		uc.logger.Info("Super-admin seed skipped: no credentials configured")
		return nil
	}
	count, err := uc.users.CountByRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return fmt.Errorf("seed super-admin: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if name == "" {
		name = "Super Admin"
	}
	user := &domain.User{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Role:          domain.RoleSuperAdmin,
		Permissions:   domain.Permissions{},
		IsActive:      true,
		EmailVerified: true,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("seed super-admin: email %s is taken by a non super-admin user: %w", email, err)
		}
		return err
	}
	uc.logger.Info("Seeded super-admin", zap.String("user_id", user.ID), zap.String("email", email))
	return nil
}
