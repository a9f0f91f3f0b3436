package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date form used for evaluation dates
const DateLayout = "2006-01-02"

var isoLayouts = buildISOLayouts()

// buildISOLayouts enumerates the accepted ISO 8601 shapes: a date, optionally
// followed by T or a space and HH, HH:MM or HH:MM:SS (fractional seconds are
// accepted by the parser), optionally followed by Z or a ±HH:MM or ±HHMM offset.
func buildISOLayouts() []string {
	layouts := []string{DateLayout}
	for _, sep := range []string{"T", " "} {
		for _, clock := range []string{"15", "15:04", "15:04:05"} {
			for _, zone := range []string{"", "Z07:00", "Z0700"} {
				layouts = append(layouts, DateLayout+sep+clock+zone)
			}
		}
	}
	return layouts
}

// ParseISO8601 parses an ISO 8601 date or date-time.
// Values without an offset are interpreted as UTC.
func ParseISO8601(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed != s || s == "" {
		return time.Time{}, fmt.Errorf("invalid ISO 8601 value %q", s)
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO 8601 value %q", s)
}

// IsISO8601 reports whether s parses as an ISO 8601 date or date-time
func IsISO8601(s string) bool {
	_, err := ParseISO8601(s)
	return err == nil
}
