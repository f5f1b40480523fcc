// Package localtime converts upstream UTC kickoff timestamps into Swedish
// wall-clock time with DST-aware zone labels.
package localtime

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the canonical date format (YYYY-MM-DD).
	DateLayout = "2006-01-02"
	// ClockLayout is the wall-clock format (HH:MM).
	ClockLayout = "15:04"

	// DefaultZone is the viewer timezone the service targets.
	DefaultZone = "Europe/Stockholm"

	fallbackClock = "00:00"
)

// Upstream feeds are inconsistent about how they spell UTC, so several
// layouts are tried before falling back to RFC 3339.
var utcLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05+00:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseUTC parses an upstream timestamp into a UTC instant. Layouts without
// an explicit offset are treated as UTC.
func ParseUTC(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range utcLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// Local is a kickoff instant rendered in the viewer's timezone.
type Local struct {
	Date      string `json:"date"`
	Clock     string `json:"time"`
	DayOfWeek string `json:"day_of_week"`
	IsDST     bool   `json:"is_dst"`
	Zone      string `json:"timezone"`
}

// Converter renders UTC instants in a fixed target location.
type Converter struct {
	loc *time.Location

	// standardZone is the location's winter abbreviation, used as the
	// zone label when a timestamp cannot be parsed.
	standardZone string
}

func NewConverter(zone string) (*Converter, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", zone, err)
	}

	name, _ := time.Date(2024, time.January, 1, 12, 0, 0, 0, loc).Zone()
	return &Converter{loc: loc, standardZone: name}, nil
}

// Location returns the converter's target location.
func (c *Converter) Location() *time.Location {
	return c.loc
}

// Convert renders raw in the target timezone. When raw cannot be parsed it
// returns a placeholder with a midnight clock and the standard-time zone
// label, and reports false.
func (c *Converter) Convert(raw string) (Local, bool) {
	t, err := ParseUTC(raw)
	if err != nil {
		return Local{Clock: fallbackClock, Zone: c.standardZone}, false
	}

	local := t.In(c.loc)
	zone, _ := local.Zone()
	return Local{
		Date:      local.Format(DateLayout),
		Clock:     local.Format(ClockLayout),
		DayOfWeek: local.Weekday().String(),
		IsDST:     local.IsDST(),
		Zone:      zone,
	}, true
}

// Clock returns only the local wall-clock time, or "00:00" when raw cannot
// be parsed.
func (c *Converter) Clock(raw string) string {
	local, _ := c.Convert(raw)
	return local.Clock
}

// OffsetHours reports the target zone's UTC offset in whole hours at the
// given instant. Unparseable input defaults to the standard-time offset.
func (c *Converter) OffsetHours(raw string) int {
	t, err := ParseUTC(raw)
	if err != nil {
		t = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	}
	_, offset := t.In(c.loc).Zone()
	return offset / 3600
}
