package loans

import (
	"time"

	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
)

const (
	// DefaultRenewalWeeks is the suggested loan extension offered to
	// librarians before they pick a date.
	DefaultRenewalWeeks = 3
	// MaxRenewalWeeks is the furthest ahead a renewal date may be set.
	MaxRenewalWeeks = 4
)

var (
	// ErrRenewalInPast is returned when the proposed date is before today.
	ErrRenewalInPast = errcodes.ValidationError("Invalid date - renewal in past")
	// ErrRenewalTooFarAhead is returned when the proposed date is beyond
	// the maximum renewal window.
	ErrRenewalTooFarAhead = errcodes.ValidationError("Invalid date - renewal more than 4 weeks ahead")
)

// DateOnly truncates t to midnight in its location, so loan dates compare as
// calendar days rather than instants.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ValidateRenewalDate checks a proposed renewal date against today. Both
// bounds are inclusive: today itself is fine, and so is exactly today plus
// four weeks. It returns the date unchanged when valid and has no side
// effects.
func ValidateRenewalDate(proposed, today time.Time) (time.Time, error) {
	p := DateOnly(proposed)
	t := DateOnly(today)

	if p.Before(t) {
		return time.Time{}, ErrRenewalInPast
	}
	if p.After(t.AddDate(0, 0, MaxRenewalWeeks*7)) {
		return time.Time{}, ErrRenewalTooFarAhead
	}
	return p, nil
}

// DefaultRenewalDate is the value pre-filled into the renewal form: three
// weeks from today.
func DefaultRenewalDate(today time.Time) time.Time {
	return DateOnly(today).AddDate(0, 0, DefaultRenewalWeeks*7)
}
