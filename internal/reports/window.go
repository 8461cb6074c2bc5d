package reports

import (
	"errors"
	"fmt"
	"time"
)

// Errors returned by window validation. Each is a caller mistake; none is retryable.
var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidRange     = errors.New("invalid range")
)

// Window is the half-open UTC interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// TodayWindow covers the UTC calendar day containing now.
func TodayWindow(now time.Time) Window {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// NewRangeWindow validates caller-supplied bounds. Checks run in order:
// missing bound, zero timestamp, then end <= start.
func NewRangeWindow(start, end *time.Time) (Window, error) {
	switch {
	case start == nil && end == nil:
		return Window{}, fmt.Errorf("%w: start_utc and end_utc are required", ErrMissingParameter)
	case start == nil:
		return Window{}, fmt.Errorf("%w: start_utc is required", ErrMissingParameter)
	case end == nil:
		return Window{}, fmt.Errorf("%w: end_utc is required", ErrMissingParameter)
	}

	if start.IsZero() {
		return Window{}, fmt.Errorf("%w: start_utc must not be the zero time", ErrInvalidTimestamp)
	}
	if end.IsZero() {
		return Window{}, fmt.Errorf("%w: end_utc must not be the zero time", ErrInvalidTimestamp)
	}

	w := Window{Start: start.UTC(), End: end.UTC()}
	if !w.End.After(w.Start) {
		return Window{}, fmt.Errorf("%w: end_utc %s must be after start_utc %s",
			ErrInvalidRange, w.End.Format(time.RFC3339Nano), w.Start.Format(time.RFC3339Nano))
	}
	return w, nil
}
