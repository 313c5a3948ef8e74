package model

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04PM",
	"3:04 PM",
	"03:04 PM",
	"3PM",
}

// ParseDate reads a date or date-time typed by a user. Values without an
// explicit offset are interpreted in loc; a bare date means midnight.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", value)
}

// ParseClock reads a time of day and places it on the calendar day of on, in
// loc. A full date-time is accepted as is.
func ParseClock(value string, on time.Time, loc *time.Location) (time.Time, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	for _, layout := range clockLayouts {
		parsed, err := time.ParseInLocation(layout, trimmed, loc)
		if err != nil {
			continue
		}
		y, m, d := on.In(loc).Date()
		return time.Date(y, m, d, parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc), nil
	}
	if parsed, err := ParseDate(value, loc); err == nil && strings.ContainsAny(value, ":") {
		return parsed, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want HH:MM, HH:MM:SS or 3:04 PM", value)
}
