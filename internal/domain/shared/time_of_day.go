package shared

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// TimeOfDay is an offset from midnight, independent of any date
type TimeOfDay struct {
	offset time.Duration
}

// NewTimeOfDay creates a TimeOfDay from an hour (0-23) and minute (0-59)
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, NewValidationError("hour", fmt.Sprintf("must be between 0 and 23, got %d", hour))
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, NewValidationError("minute", fmt.Sprintf("must be between 0 and 59, got %d", minute))
	}
	return TimeOfDay{offset: time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute}, nil
}

// MustTimeOfDay is NewTimeOfDay that panics on invalid input (for constants and tests)
func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay parses exactly "HH:MM" (two digits each, surrounding space ignored)
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	v := strings.TrimSpace(s)
	if len(v) != 5 || v[2] != ':' || !isDigits(v[:2]) || !isDigits(v[3:]) {
		return TimeOfDay{}, NewValidationError("time_of_day", fmt.Sprintf("expected HH:MM, got %q", s))
	}
	hour, _ := strconv.Atoi(v[:2])
	minute, _ := strconv.Atoi(v[3:])
	return NewTimeOfDay(hour, minute)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// TimeOfDayOf extracts the time-of-day component of t
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay{offset: time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())}
}

// Offset returns the duration since midnight
func (t TimeOfDay) Offset() time.Duration {
	return t.offset
}

// Before reports whether t is earlier in the day than other
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.offset < other.offset
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t.offset/time.Hour), int(t.offset%time.Hour/time.Minute))
}

// TimeWindow is a daily interval [Start, End). A window whose End is before
// its Start wraps past midnight. Equal bounds describe an empty window.
type TimeWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewTimeWindow creates a window from start to end
func NewTimeWindow(start, end TimeOfDay) TimeWindow {
	return TimeWindow{Start: start, End: end}
}

// ParseTimeWindow parses "HH:MM-HH:MM"
func ParseTimeWindow(s string) (TimeWindow, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return TimeWindow{}, NewValidationError("time_window", fmt.Sprintf("expected HH:MM-HH:MM, got %q", s))
	}
	start, err := ParseTimeOfDay(parts[0])
	if err != nil {
		return TimeWindow{}, err
	}
	end, err := ParseTimeOfDay(parts[1])
	if err != nil {
		return TimeWindow{}, err
	}
	return NewTimeWindow(start, end), nil
}

// Contains reports whether the time-of-day of t falls inside the window. The date is ignored.
func (w TimeWindow) Contains(t time.Time) bool {
	return w.ContainsTimeOfDay(TimeOfDayOf(t))
}

// ContainsTimeOfDay reports whether tod falls inside the window
func (w TimeWindow) ContainsTimeOfDay(tod TimeOfDay) bool {
	start, end, at := w.Start.offset, w.End.offset, tod.offset
	if start == end {
		return false
	}
	if start < end {
		return at >= start && at < end
	}
	// wraps midnight
	return at >= start || at < end
}

// Duration returns the length of the window
func (w TimeWindow) Duration() time.Duration {
	d := w.End.offset - w.Start.offset
	if d < 0 {
		d += day
	}
	return d
}

func (w TimeWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}
