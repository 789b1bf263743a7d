// Package format renders absolute instants either as Discord timestamp
// tags (the client localizes those itself) or as a multi-line listing
// across the important zones.
package format

import (
	"fmt"
	"strings"
	"time"

	"zonebot/internal/tz"
)

// TagStyle selects one of Discord's timestamp display modes.
type TagStyle string

const (
	ShortTime     TagStyle = "t" // 6:15 PM
	LongTime      TagStyle = "T" // 6:15:00 PM
	ShortDate     TagStyle = "d" // 15/03/2025
	LongDate      TagStyle = "D" // 15 March 2025
	ShortDateTime TagStyle = "f" // 15 March 2025 6:15 PM
	LongDateTime  TagStyle = "F" // Saturday, 15 March 2025 6:15 PM
	Relative      TagStyle = "R" // in 30 minutes
)

// Tag renders t as an inline timestamp tag.
func Tag(t time.Time, style TagStyle) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// LongWhen is the composite used in event confirmations and listings:
// the long datetime followed by the relative form in parentheses.
func LongWhen(t time.Time) string {
	return fmt.Sprintf("%s (%s)", Tag(t, LongDateTime), Tag(t, Relative))
}

// MultiZoneListing renders src in each important zone, one line per
// zone in table order. A date suffix is appended only when the zone's
// local calendar date differs from src's calendar date in its own zone.
func MultiZoneListing(src time.Time) (string, error) {
	srcY, srcM, srcD := src.Date()
	lines := make([]string, 0, len(tz.Important))
	for _, z := range tz.Important {
		loc, err := time.LoadLocation(z.ID)
		if err != nil {
			return "", fmt.Errorf("load zone %s: %w", z.ID, err)
		}
		local := src.In(loc)
		line := z.Label + ": " + clock12(local)
		if y, m, d := local.Date(); y != srcY || m != srcM || d != srcD {
			line += local.Format(" 02/01/2006")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// clock12 formats like "6:15 PM", no leading zero on the hour.
func clock12(t time.Time) string {
	return t.Format("3:04 PM")
}
