// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag(r *Runner) cli.Flag {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   path,
	}
}

func tokenFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "Use this credential instead of logging in",
		},
		&cli.StringFlag{
			Name:  "redirect-url",
			Usage: "Capture the credential from a redirect URL (http://127.0.0.1:3000/?token=...)",
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive listening stats dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   "Start authenticated with this credential",
			},
		},
		Action: r.TUI,
	}
}

// statsCommand loads the dashboard once and prints it
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Load listening stats once and print them",
		Flags: append(tokenFlags(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, csv, markdown or text",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Archive the snapshot in the local database",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the rendering to a file instead of stdout",
			},
		),
		Action: r.Stats,
	}
}

// loginCommand runs the browser login flow
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Log in through the browser and verify the redirect is captured",
		Action: r.Login,
	}
}

// historyCommand handles archived snapshots
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"hist"},
		Usage:   "Browse archived snapshots",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List archived snapshots, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of snapshots to return",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Only snapshots whose top artist matches",
					},
					&cli.StringFlag{
						Name:  "since",
						Usage: "Only snapshots loaded on or after this date (YYYY-MM-DD)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one archived snapshot by ID or sequence number",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: json, csv, markdown or text",
						Value:   "text",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "delete",
				Usage: "Delete an archived snapshot",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the example configuration file",
				Flags:  []cli.Flag{configFlag(r)},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the snapshot archive and run migrations",
				Flags:  []cli.Flag{configFlag(r)},
				Action: r.SetupDatabase,
			},
		},
	}
}

// apiCommand handles direct backend calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the analytics backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "token",
						Aliases: []string{"t"},
						Usage:   "Send this credential as a bearer token",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}
