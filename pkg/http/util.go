package http

import (
	"time"

	xutil "SentiPulse/pkg/util"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int { return xutil.ParseIntDefault(s, def) }

// ParseTime tries RFC3339, RFC3339Nano, date-only, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) { return xutil.ParseTime(s) }

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time { return xutil.ParseTimeDefault(s, def) }

// ParseEndTime parses an inclusive range end. A bare calendar date expands
// to the last instant of that day so the whole end day stays in range.
func ParseEndTime(s string) (time.Time, bool) {
	t, ok := xutil.ParseTime(s)
	if !ok || !xutil.DateOnly(s) {
		return t, ok
	}
	return xutil.EndOfDay(t), true
}
