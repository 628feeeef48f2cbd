package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/urfave/cli/v3"

	"remind/internal/config"
	"remind/internal/editor"
	"remind/internal/ics"
	"remind/internal/locate"
	appLog "remind/internal/log"
	"remind/internal/model"
	"remind/internal/remind"
	"remind/internal/render"
	"remind/internal/watch"
)

// now is replaced in tests.
var now = time.Now

// app is the per-invocation state shared by all actions.
type app struct {
	cfg        *config.Config
	configPath string
	out        io.Writer
}

func setup(cmd *cli.Command) (*app, error) {
	configPath := cmd.String("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Bool("debug") {
		cfg.LogLevel = "debug"
	}
	level, err := appLog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	appLog.SetLevel(level)

	if f := cmd.String("file"); f != "" {
		cfg.File = f
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	appLog.Debug("effective config",
		"config_path", configPath,
		"file", cfg.File,
		"horizon_days", cfg.HorizonDays,
		"refresh", cfg.RefreshCron,
	)
	return &app{cfg: cfg, configPath: configPath, out: out}, nil
}

// reminderFile returns the configured file or the first discovery candidate.
func (a *app) reminderFile() (string, error) {
	candidates := locate.DefaultCandidates()
	if a.cfg.File != "" {
		candidates = []string{a.cfg.File}
	}
	return locate.Find(candidates)
}

// load parses the reminder file and selects the events to show.
func (a *app) load(days int, printAll bool) (remind.Window, []model.Event, error) {
	path, err := a.reminderFile()
	if err != nil {
		return remind.Window{}, nil, err
	}

	t := now()
	res, err := remind.ParseFile(path, t)
	if err != nil {
		return remind.Window{}, nil, err
	}

	win := remind.NewWindow(t, days)
	events := remind.Select(res.Events, win, printAll)
	appLog.Debug("events selected",
		"path", path,
		"parsed", len(res.Events),
		"selected", len(events),
		"skipped_lines", len(res.Diagnostics),
	)
	return win, events, nil
}

func (a *app) list(days int, printAll bool) error {
	win, events, err := a.load(days, printAll)
	if err != nil {
		return err
	}
	return render.Text(a.out, win, events, printAll)
}

func runList(_ context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	return a.list(a.cfg.HorizonDays, false)
}

func runAll(_ context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	return a.list(a.cfg.HorizonDays, true)
}

func runDays(_ context.Context, cmd *cli.Command) error {
	days, err := parseDays(cmd.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("usage: remind d <N>: %v", err), 1)
	}
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	return a.list(days, false)
}

// parseDays validates the lookahead argument of `remind d <N>`.
func parseDays(arg string) (int, error) {
	if arg == "" {
		return 0, errors.New("missing number of days")
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number of days", arg)
	}
	if err := validation.Validate(n, validation.Min(0)); err != nil {
		return 0, fmt.Errorf("%d: %w", n, err)
	}
	return n, nil
}

func runEdit(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	path, err := a.reminderFile()
	if err != nil {
		return err
	}
	return editor.Open(ctx, editor.Resolve(a.cfg.Editor), path)
}

func runExport(_ context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	_, events, err := a.load(a.cfg.HorizonDays, cmd.Bool("all"))
	if err != nil {
		return err
	}

	out := cmd.String("out")
	if out == "" {
		return ics.Export(a.out, events, now())
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := ics.Export(f, events, now()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	appLog.Info("events exported", "path", out, "event_count", len(events))
	return nil
}

func runImport(_ context.Context, cmd *cli.Command) error {
	src := cmd.Args().First()
	if src == "" {
		return cli.Exit("usage: remind import <file.ics>", 1)
	}
	a, err := setup(cmd)
	if err != nil {
		return err
	}

	// Prefer the separator of the existing reminder file so the output can
	// be appended to it as is.
	sep := cmd.String("separator")
	if path, ferr := a.reminderFile(); ferr == nil {
		if res, perr := remind.ParseFile(path, now()); perr == nil {
			sep = res.Separator
		}
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer f.Close()

	parsed, err := ics.Parse(f)
	if err != nil {
		return err
	}

	for _, ev := range ics.Expand(parsed, remind.NewWindow(now(), a.cfg.HorizonDays)) {
		if _, err := fmt.Fprintln(a.out, ics.FormatLine(sep, ev)); err != nil {
			return err
		}
	}
	return nil
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	path, err := a.reminderFile()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return watch.Run(ctx, path, a.cfg.RefreshCron, func(context.Context, string) error {
		return a.list(a.cfg.HorizonDays, false)
	})
}

func runInit(_ context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	if _, err := os.Stat(a.configPath); err == nil {
		return fmt.Errorf("init: %s already exists", a.configPath)
	}
	if err := config.DefaultConfig().Save(a.configPath); err != nil {
		return err
	}
	appLog.Info("config written", "path", a.configPath)
	return nil
}
