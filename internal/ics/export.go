package ics

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "remind/internal/log"
	"remind/internal/model"
)

const (
	productID = "-//remind//remind.txt export//EN"
	uidDomain = "remind.local"
	// uidHashLength is the number of hash bytes kept in an event UID.
	uidHashLength = 8
)

// Export writes events as an iCalendar document with one all-day VEVENT
// per event. now is used as DTSTAMP.
func Export(w io.Writer, events []model.Event, now time.Time) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, ev := range events {
		vevent := cal.AddEvent(eventUID(ev))
		vevent.SetDtStampTime(now.UTC())
		vevent.SetSummary(ev.Description)
		vevent.SetAllDayStartAt(ev.Date)
		vevent.SetAllDayEndAt(ev.Date.AddDate(0, 0, 1))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("ics: write: %w", err)
	}
	appLog.Debug("ics export completed", "event_count", len(events))
	return nil
}

// eventUID is stable across runs for the same description and day, so
// calendar clients update instead of duplicating entries.
func eventUID(ev model.Event) string {
	sum := sha256.Sum256([]byte(ev.Date.Format("20060102") + "\x00" + ev.Description))
	return fmt.Sprintf("%x@%s", sum[:uidHashLength], uidDomain)
}
