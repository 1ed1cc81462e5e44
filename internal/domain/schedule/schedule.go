// Package schedule decides whether a template's configured time
// windows cover a given instant.
package schedule

import (
	"fmt"
	"strconv"
	"time"

	"github.com/okian/gemba/internal/domain/model"
)

// Window length bounds in hours. DefaultWindowHours applies when a
// template is created without an explicit length.
const (
	MinWindowHours     = 1
	MaxWindowHours     = 8
	DefaultWindowHours = 2
)

const minutesPerHour = 60

// Availability reasons surfaced to administrators. The unrestricted and
// in-window cases are reported distinctly: they mean different things
// when debugging why a template is usable.
const (
	ReasonWithinWindow  = "within evaluation window"
	ReasonOutsideWindow = "outside evaluation window"
	ReasonUnrestricted  = "no restriction configured"
)

// ParseStart parses a strict 24h "HH:MM" slot start and returns it as
// minutes since midnight. Malformed starts are a template configuration
// defect and must be rejected at creation time. Both halves must be
// exactly two digits; anything else, including trailing garbage, is an
// error.
func ParseStart(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrMalformedStart, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q is not HH:MM", ErrMalformedStart, s)
		}
	}
	hour, _ := strconv.Atoi(s[:2])
	minute, _ := strconv.Atoi(s[3:])
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrMalformedStart, s)
	}
	return hour*minutesPerHour + minute, nil
}

// Validate checks a template's schedule configuration. It is the
// fail-fast gate for template creation; the open-window checks below
// assume configuration that passed it.
func Validate(slots []model.ScheduleSlot, windowHours int) error {
	if windowHours < MinWindowHours || windowHours > MaxWindowHours {
		return fmt.Errorf("%w: window_hours %d outside [%d,%d]",
			ErrInvalidWindow, windowHours, MinWindowHours, MaxWindowHours)
	}
	for _, slot := range slots {
		if _, err := ParseStart(slot.Start); err != nil {
			return err
		}
	}
	return nil
}

// IsOpen reports whether any of the template's slots covers the given
// hour and minute. An empty slot list means the template carries no
// time restriction and is always open.
//
// A slot is open from its exact start minute through the exact final
// minute of the window, inclusive on both ends. Windows do not wrap
// past midnight: a slot late in the day is clipped at 23:59.
func IsOpen(slots []model.ScheduleSlot, windowHours, hour, minute int) bool {
	if len(slots) == 0 {
		return true
	}
	nowMinutes := hour*minutesPerHour + minute
	windowMinutes := windowHours * minutesPerHour
	for _, slot := range slots {
		start, err := ParseStart(slot.Start)
		if err != nil {
			// Creation-time validation guarantees well-formed starts;
			// a slot that slipped through counts as closed.
			continue
		}
		delta := nowMinutes - start
		if delta >= 0 && delta <= windowMinutes {
			return true
		}
	}
	return false
}

// IsOpenAt is IsOpen against an instant in time.
func IsOpenAt(tpl model.Template, now time.Time) bool {
	return IsOpen(tpl.Slots, tpl.WindowHours, now.Hour(), now.Minute())
}

// Reason returns the availability reason for a template at an instant.
func Reason(tpl model.Template, now time.Time) string {
	if len(tpl.Slots) == 0 {
		return ReasonUnrestricted
	}
	if IsOpenAt(tpl, now) {
		return ReasonWithinWindow
	}
	return ReasonOutsideWindow
}
