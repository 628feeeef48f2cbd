package render

import (
	"fmt"
	"io"

	"remind/internal/model"
	"remind/internal/remind"
)

// DateLayout mirrors the en-US numeric locale format, e.g. "10/14/2026, 12:00 AM".
const DateLayout = "1/2/2006, 03:04 PM"

// Text writes the window header followed by one line per event.
func Text(w io.Writer, win remind.Window, events []model.Event, printAll bool) error {
	if printAll {
		if _, err := fmt.Fprintln(w, "window: all events"); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "window: %s - %s\n", win.From.Format(DateLayout), win.To.Format(DateLayout)); err != nil {
			return err
		}
	}

	for _, ev := range events {
		if _, err := fmt.Fprintf(w, "event: %s (happens on %s)\n", ev.Description, ev.Date.Format(DateLayout)); err != nil {
			return err
		}
	}
	return nil
}
