package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "remind/internal/log"
)

// ParsedEvent is the subset of a VEVENT needed to turn it into reminder
// lines.
type ParsedEvent struct {
	UID     string
	Summary string

	Start  time.Time
	AllDay bool

	RawRRule string
	ExDates  []time.Time
}

// Parse reads an iCalendar stream into ParsedEvents. VEVENTs that cannot
// be used are logged and skipped; overridden instances (RECURRENCE-ID) are
// ignored because reminder lines carry no per-instance changes.
func Parse(r io.Reader) ([]ParsedEvent, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("ics: parse: %w", err)
	}

	events := make([]ParsedEvent, 0)
	for _, comp := range cal.Events() {
		if comp.GetProperty("RECURRENCE-ID") != nil {
			appLog.Debug("ics override instance ignored", "uid", propValue(comp, ical.ComponentPropertyUniqueId))
			continue
		}
		ev, perr := parseVEvent(comp)
		if perr != nil {
			appLog.Error("ics vevent skipped", perr, "uid", propValue(comp, ical.ComponentPropertyUniqueId))
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (ParsedEvent, error) {
	var out ParsedEvent
	out.UID = propValue(ve, ical.ComponentPropertyUniqueId)

	// Reminder lines are single-line, so folded summaries are flattened.
	out.Summary = strings.Join(strings.Fields(propValue(ve, ical.ComponentPropertySummary)), " ")
	if out.Summary == "" {
		return out, errors.New("missing SUMMARY")
	}

	dtStartProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStartProp == nil || dtStartProp.Value == "" {
		return out, errors.New("missing DTSTART")
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("DTSTART: %w", err)
	}
	out.Start = start

	// VALUE=DATE or no 'T' in the value -> all-day
	if vs, ok := dtStartProp.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		out.AllDay = true
	}
	if !strings.Contains(dtStartProp.Value, "T") {
		out.AllDay = true
	}

	out.RawRRule = propValue(ve, ical.ComponentPropertyRrule)

	// EXDATE can appear multiple times, each with a comma list.
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	return out, nil
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// parseICSTime parses a basic ICS date/date-time string for EXDATE values.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	// UTC form, e.g., 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}

	// Local date-time, e.g., 20250101T090000
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, time.Local)
	}

	// Date-only (all-day), e.g., 20250101
	return time.ParseInLocation("20060102", v, time.Local)
}
