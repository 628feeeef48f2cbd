package main

import (
	"context"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"remind/internal/config"
	appLog "remind/internal/log"
)

const version = "0.3.0"

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		appLog.Error("remind failed", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "remind",
		Usage:   "List upcoming events from a plain-text reminder file",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Reminder file (default: first of /etc/remind.txt, ~/remind.txt, remind.txt next to the binary)",
				Sources: cli.EnvVars("REMIND_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.DefaultPath(),
				Sources: cli.EnvVars("REMIND_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Log debug output to stderr",
				Sources: cli.EnvVars("REMIND_DEBUG"),
			},
		},
		Action: runList,
		Commands: []*cli.Command{
			{
				Name:    "edit",
				Aliases: []string{"e"},
				Usage:   "Open the reminder file in $VISUAL / $EDITOR",
				Action:  runEdit,
			},
			{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "List every event, ignoring the window",
				Action:  runAll,
			},
			{
				Name:      "days",
				Aliases:   []string{"d"},
				Usage:     "List events within the next N days",
				ArgsUsage: "<N>",
				Action:    runDays,
			},
			{
				Name:  "export",
				Usage: "Write the listed events as an iCalendar file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output path (default: stdout)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every event, ignoring the window",
					},
				},
				Action: runExport,
			},
			{
				Name:      "import",
				Usage:     "Print reminder lines for the events of an .ics file",
				ArgsUsage: "<file.ics>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "separator",
						Usage: "Separator to use when the reminder file cannot be read",
						Value: "|",
					},
				},
				Action: runImport,
			},
			{
				Name:   "watch",
				Usage:  "Reprint the list on the configured schedule and when the file changes",
				Action: runWatch,
			},
			{
				Name:   "init",
				Usage:  "Write the default config file",
				Action: runInit,
			},
		},
	}
}
