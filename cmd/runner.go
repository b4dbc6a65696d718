package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chinook/internal/formatter"
	"github.com/desertthunder/chinook/internal/models"
	"github.com/desertthunder/chinook/internal/repositories"
	"github.com/desertthunder/chinook/internal/shared"
	"github.com/desertthunder/chinook/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Configuration, loggers and the store are loaded on first use so that commands such as
// "config init" run without an existing configuration file.
type Runner struct {
	configPath string
	config     *shared.Config
	logger     *log.Logger
	loggers    *shared.Loggers
	output     io.Writer
	db         *sql.DB
	store      *repositories.Store
	csv        *formatter.CSV
	seeder     *tasks.Seeder
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	ConfigPath string
	Config     *shared.Config
	Logger     *log.Logger
	Loggers    *shared.Loggers
	Output     io.Writer
	DB         *sql.DB
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		configPath: opts.ConfigPath,
		config:     opts.Config,
		logger:     opts.Logger,
		loggers:    opts.Loggers,
		output:     opts.Output,
		db:         opts.DB,
	}
	if r.loggers != nil {
		r.csv = formatter.NewCSV(r.loggers)
		if r.db != nil {
			r.store = repositories.NewStore(r.db, r.loggers)
		}
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		configCommand, dbCommand, tableCommand, employeesCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// bootstrap loads the configuration and the two loggers, then opens the store when open is set.
func (r *Runner) bootstrap(cmd *cli.Command, open bool) error {
	if r.config == nil {
		path := r.configPath
		if cmd != nil && cmd.String("config") != "" {
			path = cmd.String("config")
		}
		config, err := shared.LoadConfig(path)
		if err != nil {
			return err
		}
		r.config = config
		r.configPath = path
	}

	if r.loggers == nil {
		lc, err := shared.LoadLoggingConfig(r.config.Logging.Config)
		if err != nil {
			return err
		}
		loggers, err := shared.NewLoggers(r.config.Logging, lc, time.Now())
		if err != nil {
			return err
		}
		r.loggers = loggers
		r.csv = formatter.NewCSV(loggers)
	}

	if !open {
		return nil
	}

	if r.db == nil {
		db, err := r.openStore()
		if err != nil {
			return err
		}
		r.db = db
	}
	if r.store == nil {
		r.store = repositories.NewStore(r.db, r.loggers)
	}
	if r.seeder == nil {
		seeder, err := tasks.NewSeeder(r.store, r.csv, r.config.Seed.Files, r.loggers)
		if err != nil {
			return err
		}
		r.seeder = seeder
	}
	return nil
}

// openStore opens an existing store file. A private in-memory store is initialized instead.
func (r *Runner) openStore() (*sql.DB, error) {
	cfg := r.config.Database
	if cfg.Name == shared.MemoryDatabase {
		return tasks.Initialize(cfg, r.loggers.App)
	}

	if _, err := os.Stat(cfg.Name); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (run \"chinook db init\" first)", shared.ErrStoreNotFound, cfg.Name)
	}
	return shared.OpenDatabase(cfg)
}

// Close releases the store and the log files.
func (r *Runner) Close() error {
	var errs []error
	if r.db != nil {
		errs = append(errs, r.db.Close())
		r.db = nil
	}
	if r.loggers != nil {
		errs = append(errs, r.loggers.Close())
	}
	return errors.Join(errs...)
}

// withStore wraps action so it runs after a full bootstrap.
func (r *Runner) withStore(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := r.bootstrap(cmd, true); err != nil {
			return err
		}
		return action(ctx, cmd)
	}
}

// lookupTable resolves the --table flag against the registry.
func (r *Runner) lookupTable(cmd *cli.Command) (models.Table, error) {
	name := cmd.String("table")
	if name == "" {
		return models.Table{}, fmt.Errorf("%w: --table", shared.ErrMissingArgument)
	}
	return models.LookupTable(name)
}

// parsePairs splits "Col=Val" arguments. Empty values map to NULL when nullEmpty is set.
func parsePairs(pairs []string, nullEmpty bool) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, p := range pairs {
		col, val, ok := strings.Cut(p, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("%w: expected Col=Val, got %q", shared.ErrInvalidArgument, p)
		}
		if val == "" && nullEmpty {
			values[col] = nil
		} else {
			values[col] = val
		}
	}
	return values, nil
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
