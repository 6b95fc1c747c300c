package redis

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// otpCodec derives one-time codes from a per-request TOTP secret. The period
// equals the code lifetime, so a code validated against its issue time always
// falls in the same step; expiry itself is enforced by the key TTL.
type otpCodec struct {
	issuer string
	opts   totp.ValidateOpts
}

func newOTPCodec(issuer string, ttl time.Duration) otpCodec {
	period := uint(ttl / time.Second)
	if period == 0 {
		period = 30
	}
	return otpCodec{
		issuer: issuer,
		opts: totp.ValidateOpts{
			Period:    period,
			Skew:      0,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		},
	}
}

// issue returns a fresh secret and the code for it at now.
func (c otpCodec) issue(account string, now time.Time) (secret, code string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      c.issuer,
		AccountName: account,
		Period:      c.opts.Period,
		Digits:      c.opts.Digits,
		Algorithm:   c.opts.Algorithm,
	})
	if err != nil {
		return "", "", fmt.Errorf("generate otp secret: %w", err)
	}
	code, err = totp.GenerateCodeCustom(key.Secret(), now, c.opts)
	if err != nil {
		return "", "", fmt.Errorf("generate otp code: %w", err)
	}
	return key.Secret(), code, nil
}

func (c otpCodec) valid(code, secret string, issuedAt time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, issuedAt, c.opts)
	return err == nil && ok
}
