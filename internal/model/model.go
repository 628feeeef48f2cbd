package model

import "time"

// Event is a single dated reminder resolved from one line of the reminder
// file. A line with a weekday list produces one Event per weekday.
type Event struct {
	Description string

	// Date is local midnight of the day the reminder happens on.
	Date time.Time

	// Line is the 1-based line number in the source file, kept for
	// diagnostics and as a stable export key.
	Line int
}
