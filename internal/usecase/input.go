package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/sanitize"
)

// Date accepts either RFC 3339 timestamps or plain YYYY-MM-DD dates.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC 3339", s)
}

// Ptr returns nil for an absent date.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// setString copies a sanitized optional value over dst.
func setString(dst *string, src *string) {
	if src != nil {
		*dst = sanitize.Text(*src)
	}
}

func setDate(dst **time.Time, src *Date) {
	if src != nil {
		*dst = src.Ptr()
	}
}

// loadScoped hides documents of other tenants behind ErrNotFound.
func loadScoped[T any](actor *domain.Actor, doc *T, orgID string, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessOrganization(orgID) {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}
