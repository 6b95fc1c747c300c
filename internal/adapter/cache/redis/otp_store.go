package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/redis/go-redis/v9"
)

// OTPStore keeps pending email verification codes in Redis.
type OTPStore struct {
	client      redis.Cmdable
	codec       otpCodec
	ttl         time.Duration
	cooldown    time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewOTPStore(client redis.Cmdable, issuer string, ttl, cooldown time.Duration, maxAttempts int) *OTPStore {
	return &OTPStore{
		client:      client,
		codec:       newOTPCodec(issuer, ttl),
		ttl:         ttl,
		cooldown:    cooldown,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

func otpKey(email string) string      { return "otp:" + strings.ToLower(email) }
func cooldownKey(email string) string { return "otp:cooldown:" + strings.ToLower(email) }

// Issue creates a new code for email, replacing any pending one. It fails with
// domain.ErrOTPCooldown while the previous code is inside the resend window.
func (s *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	if s.cooldown > 0 {
		ok, err := s.client.SetNX(ctx, cooldownKey(email), 1, s.cooldown).Result()
		if err != nil {
			return "", fmt.Errorf("otp cooldown: %w", err)
		}
		if !ok {
			return "", domain.ErrOTPCooldown
		}
	}

	now := s.now()
	secret, code, err := s.codec.issue(email, now)
	if err != nil {
		return "", err
	}

	key := otpKey(email)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "secret", secret, "issued_at", now.Unix(), "attempts", 0)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Verify checks code for email. A matching code is consumed; each mismatch
// counts against the attempt budget, after which the pending code is discarded.
func (s *OTPStore) Verify(ctx context.Context, email, code string) error {
	key := otpKey(email)
	vals, err := s.client.HGetAll(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("load otp: %w", err)
	}
	if len(vals) == 0 {
		return domain.ErrOTPInvalid
	}

	attempts, _ := strconv.Atoi(vals["attempts"])
	if attempts >= s.maxAttempts {
		s.client.Del(ctx, key)
		return domain.ErrOTPTooManyAttempts
	}

	issuedAt, _ := strconv.ParseInt(vals["issued_at"], 10, 64)
	if s.codec.valid(strings.TrimSpace(code), vals["secret"], time.Unix(issuedAt, 0)) {
		s.client.Del(ctx, key, cooldownKey(email))
		return nil
	}

	n, err := s.client.HIncrBy(ctx, key, "attempts", 1).Result()
	if err != nil {
		return fmt.Errorf("count otp attempt: %w", err)
	}
	if int(n) >= s.maxAttempts {
		s.client.Del(ctx, key)
		return domain.ErrOTPTooManyAttempts
	}
	return domain.ErrOTPInvalid
}
