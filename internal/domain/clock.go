package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrBadClock  = errors.New("expected HH:MM")
	ErrBadHour   = errors.New("hour out of range")
	ErrBadMinute = errors.New("minute out of range")
)

// Clock is a wall-clock time of day with minute granularity.
type Clock struct {
	Hour   int // 0..23
	Minute int // 0..59
}

// ParseClock parses "HH:MM" into a Clock. Input is validated, never clamped.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	if h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("%w: %d", ErrBadHour, h)
	}
	if m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("%w: %d", ErrBadMinute, m)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// String renders the clock back as zero-padded HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
