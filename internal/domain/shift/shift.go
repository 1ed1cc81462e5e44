// Package shift maps a wall-clock hour to the factory shift that owns it.
package shift

import "time"

// Shift names one of the three factory shifts.
type Shift string

// The three shifts. Evaluation records persist these labels.
const (
	Morning   Shift = "morning"
	Afternoon Shift = "afternoon"
	Night     Shift = "night"
)

// Shift boundary hours. Lower bounds are inclusive, upper exclusive.
const (
	morningStart   = 6
	afternoonStart = 14
	nightStart     = 22
)

// String returns the persisted shift label.
func (s Shift) String() string { return string(s) }

// Resolve returns the shift that owns the given hour of day. It is
// total over [0,24): hours outside the morning and afternoon ranges,
// including the pre-dawn ones, belong to the night shift.
func Resolve(hour int) Shift {
	switch {
	case hour >= morningStart && hour < afternoonStart:
		return Morning
	case hour >= afternoonStart && hour < nightStart:
		return Afternoon
	default:
		return Night
	}
}

// ResolveAt resolves the shift for an instant in time.
func ResolveAt(t time.Time) Shift {
	return Resolve(t.Hour())
}
