// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "check",
				Usage:  "Check that the analysis server is reachable",
				Action: r.SetupCheck,
			},
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Destination path (default: XDG config dir)",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// analyzeCommand submits URLs once and renders the result in the terminal.
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Submit URLs for analysis",
		ArgsUsage: "[URL...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read URLs from a .txt, .json or .yaml file",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.StringFlag{
				Name:    "report",
				Aliases: []string{"o"},
				Usage:   "Write report artifacts to this directory",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the HTML report in a browser (implies --report)",
			},
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "Do not record the run in history",
			},
		},
		Action: r.Analyze,
	}
}

// watchCommand re-submits a URL file whenever it changes.
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Re-analyze a URL file on every change",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "report",
				Aliases: []string{"o"},
				Usage:   "Rewrite report artifacts in this directory after each run",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Wait this long after the last change before submitting",
				Value: defaultDebounce,
			},
		},
		Action: r.Watch,
	}
}

// tuiCommand returns the top-level TUI command for interactive URL management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for building and submitting a URL list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Seed the list from a URL file",
			},
		},
		Action: r.TUI,
	}
}

// historyCommand manages recorded runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"runs"},
		Usage:   "Inspect previous submissions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only show runs with this status (rendered, invalid, failed)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:      "show",
				Usage:     "Show a run's alert or charts",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the stored response as JSON",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:      "report",
				Usage:     "Export report artifacts for a run",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Output directory (default: report.output_dir)",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the HTML report in a browser",
					},
				},
				Action: r.HistoryReport,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a run",
				ArgsUsage: "ID",
				Action:    r.HistoryDelete,
			},
		},
	}
}

// serveCommand serves recorded runs over HTTP.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve run history and HTML reports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (default: serve.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (default: serve.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the index in a browser",
			},
		},
		Action: r.Serve,
	}
}
