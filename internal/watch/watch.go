// Package watch keeps the reminder list on screen: it reprints on a cron
// schedule and whenever the reminder file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	appLog "remind/internal/log"
)

// debounce groups the burst of events editors emit for a single save.
const debounce = 200 * time.Millisecond

// RenderFunc prints the reminder list. reason is "start", "schedule" or
// "change".
type RenderFunc func(ctx context.Context, reason string) error

// Run calls render once, then on every tick of schedule (standard 5-field
// cron or a descriptor such as "@hourly") and after each change to path,
// until ctx is cancelled. Render errors are logged and do not stop the loop.
func Run(ctx context.Context, path, schedule string, render RenderFunc) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: resolve %s: %w", path, err)
	}

	ticks := make(chan struct{}, 1)
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	}); err != nil {
		return fmt.Errorf("watch: schedule %q: %w", schedule, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors often save by writing a new file and
	// renaming it over the old one, which drops a watch on the file itself.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}

	c.Start()
	defer c.Stop()

	appLog.Info("watch started", "path", abs, "schedule", schedule)
	invoke(ctx, render, "start")

	var changeTimer *time.Timer
	var changeCh <-chan time.Time
	defer func() {
		if changeTimer != nil {
			changeTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			appLog.Info("watch stopped")
			return nil

		case <-ticks:
			invoke(ctx, render, "schedule")

		case <-changeCh:
			changeCh = nil
			invoke(ctx, render, "change")

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			appLog.Debug("reminder file changed", "op", ev.Op.String())
			if changeTimer == nil {
				changeTimer = time.NewTimer(debounce)
			} else {
				changeTimer.Reset(debounce)
			}
			changeCh = changeTimer.C

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			appLog.Error("watch: fsnotify error", werr)
		}
	}
}

func invoke(ctx context.Context, render RenderFunc, reason string) {
	if err := render(ctx, reason); err != nil {
		appLog.Error("watch: render failed", err, "reason", reason)
	}
}
