// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// newApp builds the root command. Root flags are inherited by every subcommand.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "chinook",
		Usage:   "Create, seed and query the Chinook music-store database",
		Version: "0.1.0",
		Writer:  r.output,

		DisableSliceFlagSeparator: true,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Write transferred rows to the data log",
			},
		},
		Commands: r.register(),
	}
}

func tableFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "table",
		Aliases:  []string{"t"},
		Usage:    "Table name (case-insensitive)",
		Required: true,
	}
}

func whereFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "where",
		Aliases: []string{"w"},
		Usage:   "Exact-match filter as Col=Val (repeatable, joined with AND)",
	}
}

// configCommand handles configuration files
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file operations",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the example config.toml and logging.toml",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "print",
						Usage: "Print the effective default configuration instead of writing files",
					},
				},
				Action: r.ConfigInit,
			},
		},
	}
}

// dbCommand handles the database lifecycle
func dbCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "db",
		Aliases: []string{"database"},
		Usage:   "Database lifecycle operations",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create the store and every table (create-if-missing, never destructive)",
				Action: r.DBInit,
			},
			{
				Name:  "seed",
				Usage: "Load the CSV files named by the seed manifest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "manifest",
						Aliases: []string{"m"},
						Usage:   "Seed manifest path (defaults to seed.manifest from the config)",
					},
				},
				Action: r.withStore(r.DBSeed),
			},
			{
				Name:   "destroy",
				Usage:  "Delete the store file",
				Action: r.DBDestroy,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent schema migration",
				Action: r.withStore(r.DBRollback),
			},
		},
	}
}

// tableCommand handles table and record level CRUD
func tableCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "table",
		Usage: "Table and record operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tables with row counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.withStore(r.TableList),
			},
			{
				Name:  "select",
				Usage: "Print rows, optionally filtered",
				Flags: []cli.Flag{
					tableFlag(),
					whereFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "markdown",
						Usage: "Output a Markdown table",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
				},
				Action: r.withStore(r.TableSelect),
			},
			{
				Name:  "insert",
				Usage: "Insert a row",
				Flags: []cli.Flag{
					tableFlag(),
					&cli.StringSliceFlag{
						Name:     "set",
						Aliases:  []string{"s"},
						Usage:    "Column value as Col=Val (repeatable); an empty value stores NULL",
						Required: true,
					},
				},
				Action: r.withStore(r.TableInsert),
			},
			{
				Name:  "update",
				Usage: "Set one column on every row, or on the rows matching --where",
				Flags: []cli.Flag{
					tableFlag(),
					whereFlag(),
					&cli.StringFlag{
						Name:     "attr",
						Aliases:  []string{"a"},
						Usage:    "Column to set",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "value",
						Usage: "New value",
					},
					&cli.BoolFlag{
						Name:  "null",
						Usage: "Set the column to NULL",
					},
				},
				Action: r.withStore(r.TableUpdate),
			},
			{
				Name:  "delete",
				Usage: "Delete the rows matching --where, or every row with --all",
				Flags: []cli.Flag{
					tableFlag(),
					whereFlag(),
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Delete every row of the table",
					},
				},
				Action: r.withStore(r.TableDelete),
			},
			{
				Name:  "export",
				Usage: "Write every row of a table to a CSV file",
				Flags: []cli.Flag{
					tableFlag(),
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Output file path",
						Required: true,
					},
				},
				Action: r.withStore(r.TableExport),
			},
		},
	}
}

// employeesCommand handles the employee hierarchy
func employeesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "employees",
		Usage: "Employee hierarchy",
		Commands: []*cli.Command{
			{
				Name:  "reports",
				Usage: "List the direct reports of an employee",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Manager employee Id",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.withStore(r.EmployeesReports),
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive table browser",
		Action:  r.withStore(r.TUI),
	}
}
