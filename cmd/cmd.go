// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// newApp builds the root command around r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "mympctl",
		Usage:   "Manage a myMPD home screen, partitions and view state",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "url",
				Usage:   "myMPD base URL, overrides server.url",
				Sources: cli.EnvVars("MYMPD_URL"),
			},
			&cli.StringFlag{
				Name:    "partition",
				Aliases: []string{"p"},
				Usage:   "Partition to work in, overrides server.partition",
				Sources: cli.EnvVars("MYMPD_PARTITION"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Before:   r.configure,
		Commands: r.register(),
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func iconFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "name",
			Usage:    "Display name",
			Required: required,
		},
		&cli.StringFlag{
			Name:    "ligature",
			Aliases: []string{"l"},
			Usage:   "Icon font ligature (see 'home ligatures')",
		},
		&cli.StringFlag{
			Name:  "cmd",
			Usage: "Command to run: appGoto, execScriptFromOptions, replaceQueue, appendQueue, insertAfterCurrentQueue, insertAndPlayQueue or the *QueueAlbum variants",
		},
		&cli.StringSliceFlag{
			Name:    "option",
			Aliases: []string{"o"},
			Usage:   "Command option, repeat in order (the first is the icon type for queue commands)",
		},
		&cli.StringFlag{
			Name:  "bgcolor",
			Usage: "Background color as #rrggbb",
		},
		&cli.StringFlag{
			Name:  "color",
			Usage: "Foreground color as #rrggbb",
		},
		&cli.StringFlag{
			Name:  "image",
			Usage: "Image shown instead of the ligature",
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
				Usage:  "Write an example config.toml",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the latest database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// homeCommand handles home screen operations
func homeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "home",
		Usage: "Manage the myMPD home screen",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List home icons",
				Flags: append(jsonFlags(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, markdown or csv",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Write to a file, format taken from its extension (.md, .csv, .txt)",
					},
				),
				Action: r.HomeList,
			},
			{
				Name:      "get",
				Usage:     "Show one home icon",
				Arguments: []cli.Argument{&cli.StringArg{Name: "pos"}},
				Flags:     jsonFlags(),
				Action:    r.HomeGet,
			},
			{
				Name:   "add",
				Usage:  "Append a home icon",
				Flags:  iconFlags(true),
				Action: r.HomeAdd,
			},
			{
				Name:      "edit",
				Usage:     "Change a home icon, keeping fields that are not given",
				Arguments: []cli.Argument{&cli.StringArg{Name: "pos"}},
				Flags:     iconFlags(false),
				Action:    r.HomeEdit,
			},
			{
				Name:      "duplicate",
				Aliases:   []string{"cp"},
				Usage:     "Copy a home icon to the end",
				Arguments: []cli.Argument{&cli.StringArg{Name: "pos"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Name of the copy",
					},
				},
				Action: r.HomeDuplicate,
			},
			{
				Name:      "rm",
				Usage:     "Remove a home icon",
				Arguments: []cli.Argument{&cli.StringArg{Name: "pos"}},
				Action:    r.HomeRemove,
			},
			{
				Name:    "move",
				Aliases: []string{"mv"},
				Usage:   "Move a home icon to another position",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "from"},
					&cli.StringArg{Name: "to"},
				},
				Action: r.HomeMove,
			},
			{
				Name:      "exec",
				Usage:     "Run a home icon",
				Arguments: []cli.Argument{&cli.StringArg{Name: "pos"}},
				Action:    r.HomeExec,
			},
			{
				Name:  "export",
				Usage: "Save the home screen to YAML or JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (.yaml or .json)",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Format when printing to stdout: yaml or json",
						Value: "yaml",
					},
				},
				Action: r.HomeExport,
			},
			{
				Name:      "import",
				Usage:     "Restore a saved home screen",
				Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Remove every existing icon first",
					},
					&cli.BoolFlag{
						Name:  "skip-duplicates",
						Usage: "Skip icons that are already on the home screen",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Validate only, send nothing",
					},
				},
				Action: r.HomeImport,
			},
			{
				Name:      "diff",
				Usage:     "Compare a saved home screen with the server",
				Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
				Action:    r.HomeDiff,
			},
			{
				Name:      "ligatures",
				Usage:     "List or search icon ligatures",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict to one category: " + ligatureCategories(),
					},
				},
				Action: r.HomeLigatures,
			},
		},
	}
}

// partitionCommand handles partition and output operations
func partitionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "partition",
		Aliases: []string{"part"},
		Usage:   "Manage MPD partitions",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List partitions",
				Flags:   jsonFlags(),
				Action:  r.PartitionList,
			},
			{
				Name:      "new",
				Usage:     "Create a partition",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.PartitionNew,
			},
			{
				Name:      "switch",
				Usage:     "Switch to a partition",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.PartitionSwitch,
			},
			{
				Name:      "rm",
				Usage:     "Remove a partition",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.PartitionRemove,
			},
			{
				Name:      "outputs",
				Usage:     "List the outputs of a partition",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "assignable",
						Usage: "List outputs that can move into the current partition",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PartitionOutputs,
			},
			{
				Name:      "move-outputs",
				Usage:     "Move outputs into the current partition",
				ArgsUsage: "<output> [output...]",
				Action:    r.PartitionMoveOutputs,
			},
		},
	}
}

// viewCommand handles the persisted view state
func viewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "view",
		Usage: "Inspect and navigate the saved view state",
		Commands: []*cli.Command{
			{
				Name:      "goto",
				Usage:     "Navigate to Card[/Tab[/View]] and change its context",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "offset", Usage: "Result offset"},
					&cli.IntFlag{Name: "limit", Usage: "Results per page"},
					&cli.StringFlag{Name: "filter", Usage: "Filter text, or a JSON object for radio filters"},
					&cli.StringFlag{Name: "sort", Usage: "Sort tag"},
					&cli.BoolFlag{Name: "desc", Usage: "Sort descending"},
					&cli.StringFlag{Name: "tag", Usage: "Grouping tag"},
					&cli.StringFlag{Name: "search", Usage: "Search text, empty to clear"},
					&cli.StringFlag{Name: "save-icon", Usage: "Also add a home icon with this name that opens the view"},
					&cli.StringFlag{Name: "ligature", Usage: "Ligature of the saved icon"},
				},
				Action: r.ViewGoto,
			},
			{
				Name:  "show",
				Usage: "Print the view in focus",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "Print every stored context"},
					&cli.BoolFlag{Name: "json", Usage: "Print the whole snapshot as JSON"},
				},
				Action: r.ViewShow,
			},
			{
				Name:      "reset",
				Usage:     "Rewind Card[/Tab[/View]] to its first page",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Action:    r.ViewReset,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive home screen and view browser",
		Action: r.TUI,
	}
}
