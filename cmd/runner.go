package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mympctl/internal/ligatures"
	"github.com/desertthunder/mympctl/internal/repositories"
	"github.com/desertthunder/mympctl/internal/services"
	"github.com/desertthunder/mympctl/internal/shared"
	"github.com/desertthunder/mympctl/internal/tasks"
	"github.com/desertthunder/mympctl/internal/viewstate"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *services.Client
	home       *services.HomeService
	partitions *services.PartitionService
	engine     *tasks.HomeEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	r.wire()
	return r
}

// wire builds the myMPD client and the services on top of it from the current config.
func (r *Runner) wire() {
	r.client = services.NewClient(r.config.Server, r.httpClient, shared.WithLogger(r.logger, "component", "client"))
	r.home = services.NewHomeService(r.client, r.logger)
	r.partitions = services.NewPartitionService(r.client, r.logger)
	r.engine = tasks.NewHomeEngine(r.home, r.client.Partition(), r.config.Server.RateLimit, r.logger)
}

// SetLogger replaces the logger of the runner and every service it built.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.wire()
}

// configure loads the config named by --config, applies the global flag overrides and
// rebuilds the services. A missing config file falls back to the defaults.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.configPath = path
	}

	if url := cmd.String("url"); url != "" {
		r.config.Server.URL = url
	}
	if p := cmd.String("partition"); p != "" {
		r.config.Server.Partition = p
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		r.config.Log.Level = lvl
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(r.config.Log.Level))

	r.wire()
	return ctx, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, homeCommand, partitionCommand, viewCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openViewState opens the database, restores the persisted view state and returns the
// repository to save it back with. The caller closes db.
func (r *Runner) openViewState(ctx context.Context) (*viewstate.State, *repositories.NavigationRepository, *sql.DB, error) {
	db, err := shared.OpenDatabase(ctx, r.config.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open view state database: %w", err)
	}

	start, err := viewstate.ParsePath(r.config.UI.StartupView)
	if err != nil {
		r.logger.Warn("invalid startup view, using Home", "view", r.config.UI.StartupView, "err", err)
		start = viewstate.Path{Card: viewstate.CardHome}
	}
	state, err := viewstate.New(viewstate.Options{Limit: r.config.UI.ElementsPerPage, Start: start})
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	nav := repositories.NewNavigationRepository(db)
	snap, ok, err := nav.Load(ctx)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	if ok {
		state.Restore(snap)
		r.logger.Debug("restored view state", "current", snap.Current)
	}
	return state, nav, db, nil
}

// newFileLogger opens the log file named in the config at the configured level.
func (r *Runner) newFileLogger() (*log.Logger, error) {
	path := r.config.Log.File
	if path == "" {
		path = "./tmp/mympctl-tui.log"
	}
	l, err := shared.NewFileLogger(path)
	if err != nil {
		return nil, err
	}
	shared.SetLogLevel(l, shared.ParseLogLevel(r.config.Log.Level))
	return l, nil
}

func (r *Runner) catalog() (*ligatures.Catalog, error) {
	c, err := ligatures.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load ligature catalog: %w", err)
	}
	return c, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(b []byte) error {
	if _, err := r.output.Write(b); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
