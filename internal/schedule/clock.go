// Package schedule compiles a shutdown policy into cron trigger windows.
package schedule

import (
	"fmt"
	"strconv"
)

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a 24-hour HHMM string, e.g. "1830".
func ParseClock(s string) (Clock, error) {
	if len(s) != 4 {
		return Clock{}, fmt.Errorf("invalid time %q: want 24hr HHMM, e.g. 0000-2359", s)
	}
	hour, err := strconv.Atoi(s[:2])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	minute, err := strconv.Atoi(s[2:])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("invalid time %q: out of range", s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// TotalMinutes returns minutes since midnight.
func (c Clock) TotalMinutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
