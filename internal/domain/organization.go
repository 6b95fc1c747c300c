package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Organization is a tenant of the platform.
type Organization struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ContactEmail string    `json:"contact_email,omitempty"`
	Address      string    `json:"address,omitempty"`
	Currency     string    `json:"currency"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Slugify lowers s and collapses anything outside [a-z0-9] into single dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Validate checks the fields that cannot be expressed as struct tags.
func (o *Organization) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !slugPattern.MatchString(o.Slug) {
		return fmt.Errorf("%w: slug must contain only lowercase letters, digits and dashes", ErrInvalidInput)
	}
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
	if len(o.Currency) != 3 {
		return fmt.Errorf("%w: currency must be an ISO-4217 code", ErrInvalidInput)
	}
	return nil
}

// DefaultCurrency is applied when a document does not name one.
const DefaultCurrency = "USD"
