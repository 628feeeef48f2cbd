package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"remind/internal/config"
	"remind/internal/remind"
)

const reminders = "separator:|\n" +
	"2026 12 24|Christmas Eve\n" +
	"2026 10 20|Dentist\n" +
	"15|Standup\n" +
	"not a reminder\n"

type fixture struct {
	dir    string
	file   string
	config string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	fixed := time.Date(2026, time.October, 14, 10, 30, 0, 0, time.UTC)
	prev := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = prev })

	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		file:   filepath.Join(dir, "remind.txt"),
		config: filepath.Join(dir, "config.yaml"),
	}
	require.NoError(t, os.WriteFile(f.file, []byte(reminders), 0o644))
	return f
}

// run executes the CLI with the fixture's file and config and returns stdout.
func (f fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out
	cmd.ErrWriter = &errOut
	cmd.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	argv := append([]string{"remind", "--file", f.file, "--config", f.config}, args...)
	err := cmd.Run(context.Background(), argv)
	return out.String(), err
}

func TestList_DefaultWindow(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t)
	require.NoError(t, err)
	assert.Equal(t,
		"window: 10/14/2026, 12:00 AM - 10/21/2026, 12:00 AM\n"+
			"event: Standup (happens on 10/15/2026, 12:00 AM)\n"+
			"event: Dentist (happens on 10/20/2026, 12:00 AM)\n",
		out)
}

func TestList_All(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "a")
	require.NoError(t, err)
	assert.Equal(t,
		"window: all events\n"+
			"event: Standup (happens on 10/15/2026, 12:00 AM)\n"+
			"event: Dentist (happens on 10/20/2026, 12:00 AM)\n"+
			"event: Christmas Eve (happens on 12/24/2026, 12:00 AM)\n",
		out)
}

func TestList_Days(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "d", "1")
	require.NoError(t, err)
	assert.Equal(t,
		"window: 10/14/2026, 12:00 AM - 10/15/2026, 12:00 AM\n"+
			"event: Standup (happens on 10/15/2026, 12:00 AM)\n",
		out)
}

func TestList_DaysRejectsBadArgument(t *testing.T) {
	f := newFixture(t)

	for _, arg := range []string{"soon", "1x"} {
		out, err := f.run(t, "d", arg)
		require.Error(t, err, arg)
		assert.Empty(t, out, arg)
	}
}

func TestList_HorizonFromConfig(t *testing.T) {
	f := newFixture(t)
	cfg := config.DefaultConfig()
	cfg.HorizonDays = 90
	require.NoError(t, config.Save(f.config, cfg))

	out, err := f.run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Christmas Eve")
}

func TestList_MissingFile(t *testing.T) {
	f := newFixture(t)
	f.file = filepath.Join(f.dir, "absent.txt")

	_, err := f.run(t)
	require.Error(t, err)
	assert.True(t, errors.Is(err, remind.KindFileNotFound))
}

func TestList_MissingSeparator(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.file, []byte("15|Standup\n"), 0o644))

	_, err := f.run(t)
	require.Error(t, err)
	assert.True(t, errors.Is(err, remind.KindSeparatorMissing))
}

func TestHelp(t *testing.T) {
	f := newFixture(t)

	for _, arg := range []string{"h", "help"} {
		out, err := f.run(t, arg)
		require.NoError(t, err, arg)
		assert.Contains(t, out, "USAGE:", arg)
		for _, names := range []string{"edit, e", "all, a", "days, d", "export", "import", "watch", "init"} {
			assert.Contains(t, out, names, arg)
		}
		assert.NotContains(t, out, "event:", arg)
	}
}

func TestEdit_OpensReminderFile(t *testing.T) {
	f := newFixture(t)
	opened := filepath.Join(f.dir, "opened")
	script := filepath.Join(f.dir, "fake-editor")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nprintf '%s' \"$1\" > "+opened+"\n"), 0o755))

	cfg := config.DefaultConfig()
	cfg.Editor = script
	require.NoError(t, cfg.Save(f.config))

	for _, arg := range []string{"e", "edit"} {
		require.NoError(t, os.RemoveAll(opened))

		out, err := f.run(t, arg)
		require.NoError(t, err, arg)
		assert.Empty(t, out, arg)

		got, err := os.ReadFile(opened)
		require.NoError(t, err, arg)
		assert.Equal(t, f.file, string(got), arg)
	}
}

func TestParseDays(t *testing.T) {
	n, err := parseDays("0")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = parseDays("30")
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	for _, arg := range []string{"", "x", "1.5", "-1"} {
		_, err := parseDays(arg)
		assert.Error(t, err, arg)
	}
}

func TestExport_Stdout(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Standup")
	assert.Contains(t, out, "SUMMARY:Dentist")
	assert.NotContains(t, out, "Christmas Eve")
}

func TestExport_AllToFile(t *testing.T) {
	f := newFixture(t)
	dest := filepath.Join(f.dir, "out.ics")

	out, err := f.run(t, "export", "--all", "--out", dest)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:Christmas Eve")
}

func TestImport_UsesFileSeparator(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.file, []byte("separator:;;\n"), 0o644))

	src := filepath.Join(f.dir, "in.ics")
	require.NoError(t, os.WriteFile(src, []byte("BEGIN:VCALENDAR\r\n"+
		"VERSION:2.0\r\n"+
		"PRODID:-//test//EN\r\n"+
		"BEGIN:VEVENT\r\n"+
		"UID:a@test\r\n"+
		"DTSTAMP:20261001T000000Z\r\n"+
		"DTSTART;VALUE=DATE:20261102\r\n"+
		"SUMMARY:Renew passport\r\n"+
		"END:VEVENT\r\n"+
		"END:VCALENDAR\r\n"), 0o644))

	out, err := f.run(t, "import", src)
	require.NoError(t, err)
	assert.Equal(t, "2026 11 2;;Renew passport\n", out)
}

func TestInit(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "init")
	require.NoError(t, err)

	cfg, err := config.Load(f.config)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, err = f.run(t, "init")
	assert.Error(t, err, "init does not overwrite an existing config")
}
