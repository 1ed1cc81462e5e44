package schedule

import "errors"

// Sentinel kinds for schedule configuration errors.
var (
	ErrMalformedStart = errors.New("malformed slot start")
	ErrInvalidWindow  = errors.New("invalid window length")
)
