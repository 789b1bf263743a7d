// Package timeparse finds time expressions like "6:15 pm NZDT" in free
// text and resolves them to absolute instants.
package timeparse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"zonebot/internal/tz"
)

// ErrUnknownZone reports an abbreviation missing from the zone table.
var ErrUnknownZone = errors.New("unknown timezone abbreviation")

// ParseClock converts raw hour/minute strings and an optional am/pm
// marker into a 24-hour clock. With a marker, 12am maps to 0, 12pm
// stays 12, and pm adds 12 to hours 1-11. Without one the values are
// taken as already 24-hour and clamped into range rather than rejected.
func ParseClock(hourStr, minuteStr, ampm string) (hour, minute int) {
	hour, _ = strconv.Atoi(hourStr)
	if minuteStr != "" {
		minute, _ = strconv.Atoi(minuteStr)
	}

	switch strings.ToLower(ampm) {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour >= 1 && hour <= 11 {
			hour += 12
		}
	default:
		hour = clamp(hour, 0, 23)
		minute = clamp(minute, 0, 59)
	}
	return hour, minute
}

// Resolve anchors a wall-clock time to today in the zone named by abbr.
// The date component is always the current calendar date in that zone:
// "23:00" parsed just after 23:00 local still resolves to today, never
// tomorrow. That matches the behavior users of the original bot rely
// on, so it must not roll over.
func Resolve(hour, minute int, abbr string) (time.Time, error) {
	return resolveAt(time.Now(), hour, minute, abbr)
}

func resolveAt(now time.Time, hour, minute int, abbr string) (time.Time, error) {
	id, ok := tz.Resolve(abbr)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownZone, abbr)
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return time.Time{}, fmt.Errorf("load zone %s: %w", id, err)
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc), nil
}

// ResolveMatch resolves a scanned expression to an absolute instant.
func ResolveMatch(m *Match) (time.Time, error) {
	hour, minute := ParseClock(m.Hour, m.Minute, m.AmPm)
	return Resolve(hour, minute, m.Zone)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
