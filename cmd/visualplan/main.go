package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/jgoncalves802/visualplan/internal/cli"
	"github.com/jgoncalves802/visualplan/internal/constants"
	"github.com/jgoncalves802/visualplan/internal/controller"
	"github.com/jgoncalves802/visualplan/internal/errors"
	"github.com/jgoncalves802/visualplan/internal/logger"
	"github.com/jgoncalves802/visualplan/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Project database path." type:"string" default:"~/.config/visualplan/visualplan.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize project storage."`
	Compute  cli.ComputeCmd  `cmd:"" help:"Compute the project schedule." default:"1"`
	Validate cli.ValidateCmd `cmd:"" help:"Validate project data for conflicts."`
	Task     struct {
		Add    cli.TaskAddCmd    `cmd:"" help:"Add an activity."`
		List   cli.TaskListCmd   `cmd:"" help:"List activities."`
		Delete cli.TaskDeleteCmd `cmd:"" help:"Delete an activity."`
	} `cmd:"" help:"Manage activities."`
	Dep struct {
		Add    cli.DepAddCmd    `cmd:"" help:"Add a dependency."`
		List   cli.DepListCmd   `cmd:"" help:"List dependencies."`
		Delete cli.DepDeleteCmd `cmd:"" help:"Delete a dependency."`
	} `cmd:"" help:"Manage dependencies."`
	Calendar struct {
		Add  cli.CalendarAddCmd  `cmd:"" help:"Add a working calendar."`
		List cli.CalendarListCmd `cmd:"" help:"List calendars."`
	} `cmd:"" help:"Manage working calendars."`
	Baseline struct {
		Save cli.BaselineSaveCmd `cmd:"" help:"Save the current schedule as a named baseline."`
		Diff cli.BaselineDiffCmd `cmd:"" help:"Diff the current schedule against a baseline."`
		List cli.BaselineListCmd `cmd:"" help:"List saved baselines."`
	} `cmd:"" help:"Manage schedule baselines."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Project scheduling engine: critical path, float, and working calendars"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	dbPath := expandHome(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(dbPath)}); err != nil {
		errors.Fatal(err)
	}

	store := storage.NewSQLiteStore(dbPath)
	appCtx := &cli.Context{
		Store:      store,
		Controller: controller.New(),
	}

	// Commands load the store lazily; init handles its own setup
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
