// Package tz maps chat timezone abbreviations to IANA zone identifiers
// and fixes the ordered list of zones shown in multi-zone listings.
package tz

import (
	"strings"
	// Embed the zone database so lookups work on hosts without one.
	_ "time/tzdata"
)

// table is deliberately static. Abbreviation disambiguation beyond this
// fixed set is out of scope, so e.g. CST always means America/Chicago.
var table = map[string]string{
	"NZDT": "Pacific/Auckland",
	"NZST": "Pacific/Auckland",
	"AEST": "Australia/Brisbane",
	"AEDT": "Australia/Sydney",
	"ACST": "Australia/Adelaide",
	"ACDT": "Australia/Adelaide",
	"AWST": "Australia/Perth",
	"PST":  "America/Los_Angeles",
	"PDT":  "America/Los_Angeles",
	"MST":  "America/Denver",
	"MDT":  "America/Denver",
	"CST":  "America/Chicago",
	"CDT":  "America/Chicago",
	"EST":  "America/New_York",
	"EDT":  "America/New_York",
	"UTC":  "UTC",
	"GMT":  "UTC",
	"BST":  "Europe/London",
	"JST":  "Asia/Tokyo",
}

// Zone is one display entry in a multi-zone listing.
type Zone struct {
	Label string
	ID    string
}

// Important lists the display zones, in output order.
var Important = []Zone{
	{"New Zealand", "Pacific/Auckland"},
	{"Sydney", "Australia/Sydney"},
	{"Brisbane", "Australia/Brisbane"},
	{"Perth", "Australia/Perth"},
	{"Los Angeles", "America/Los_Angeles"},
	{"New York", "America/New_York"},
	{"London", "Europe/London"},
}

// Resolve looks up a timezone abbreviation, case-insensitively.
func Resolve(abbr string) (string, bool) {
	id, ok := table[strings.ToUpper(abbr)]
	return id, ok
}
