package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "remind/internal/log"
	"remind/internal/model"
	"remind/internal/remind"
)

// defaultMaxOccurrencesPerEvent caps a single RRULE expansion.
const defaultMaxOccurrencesPerEvent = 500

// lineLayout writes dates in the full-date grammar of the reminder file.
const lineLayout = "2006 1 2"

// Expand turns parsed VEVENTs into reminder events in file order.
// Non-recurring events are kept whatever their date; recurring events are
// expanded only within win, since a reminder file has no recurrence rules
// beyond weekday lists. Dates are local midnight in win's location.
func Expand(events []ParsedEvent, win remind.Window) []model.Event {
	loc := win.From.Location()
	out := make([]model.Event, 0, len(events))

	for _, ev := range events {
		if ev.RawRRule == "" {
			out = append(out, model.Event{Description: ev.Summary, Date: occurrenceDay(ev, ev.Start, loc)})
			continue
		}

		starts, hitCap := expandRecurring(ev, win)
		if hitCap {
			appLog.Error("ics expand truncated", errors.New("max occurrences reached"),
				"uid", ev.UID, "cap", defaultMaxOccurrencesPerEvent)
		}
		for _, s := range starts {
			out = append(out, model.Event{Description: ev.Summary, Date: occurrenceDay(ev, s, loc)})
		}
	}
	return out
}

// FormatLine renders ev as a reminder file line using the full-date form.
func FormatLine(sep string, ev model.Event) string {
	return ev.Date.Format(lineLayout) + sep + ev.Description
}

func expandRecurring(ev ParsedEvent, win remind.Window) ([]time.Time, bool) {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("ics expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil, false
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	// Widen the upper bound to the end of the last day so timed
	// occurrences on that day are kept.
	from := win.From.In(ev.Start.Location())
	to := win.To.AddDate(0, 0, 1).Add(-time.Nanosecond).In(ev.Start.Location())

	occ := set.Between(from, to, true)
	if len(occ) > defaultMaxOccurrencesPerEvent {
		return occ[:defaultMaxOccurrencesPerEvent], true
	}
	return occ, false
}

// occurrenceDay maps an occurrence to a calendar day. All-day dates keep
// their own year/month/day; timed ones are converted into loc first.
func occurrenceDay(ev ParsedEvent, t time.Time, loc *time.Location) time.Time {
	if !ev.AllDay {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
