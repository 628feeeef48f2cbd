package remind

import (
	"slices"
	"time"

	"remind/internal/model"
)

// Window is the inclusive [From, To] range of dates considered current.
type Window struct {
	From time.Time
	To   time.Time
}

// NewWindow starts at midnight of now's day and spans days calendar days.
func NewWindow(now time.Time, days int) Window {
	y, m, d := now.Date()
	return Window{
		From: midnight(y, m, d, now.Location()),
		To:   midnight(y, m, d+days, now.Location()),
	}
}

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// Select returns the events to show, sorted ascending by date. Events on
// the same instant keep their input order. With printAll every event is
// returned regardless of the window. events is not modified.
func Select(events []model.Event, w Window, printAll bool) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if printAll || w.Contains(ev.Date) {
			out = append(out, ev)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Event) int {
		return a.Date.Compare(b.Date)
	})
	return out
}
