package usecase

import (
	"context"
	"io"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/auth"
)

// EventPublisher publishes domain events. Failures are logged by callers and never fail a request.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// FileStorage keeps uploaded files.
type FileStorage interface {
	Upload(ctx context.Context, prefix, fileName, contentType string, r io.Reader, size int64) (*domain.StoredObject, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// OTPStore issues and checks email verification codes.
type OTPStore interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
}

// SessionStore tracks revoked access tokens.
type SessionStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Mailer delivers verification codes.
type Mailer interface {
	SendVerificationCode(toEmail, toName, code string, ttl time.Duration) error
}

// TokenManager issues and parses access tokens.
type TokenManager interface {
	Issue(userID, role, orgID string) (string, *auth.Claims, error)
	Parse(token string) (*auth.Claims, error)
	TTL() time.Duration
}

// SecretSealer encrypts stored credentials.
type SecretSealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}
