package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
)

//go:embed logging.example.toml
var exampleLoggingConf []byte

const (
	LogFile   = "log"   // date-stamped application log, <dir>/YYYY-MM-DD.log
	TraceFile = "trace" // date-stamped data trace, <dir>/YYYY-MM-DD.trc
)

// LoggingConfig is the logging configuration file. It supplies the application
// diagnostics logger and the data/audit logger.
type LoggingConfig struct {
	Loggers LoggersConfig `toml:"loggers" validate:"required"`
}

// LoggersConfig holds the two named loggers.
type LoggersConfig struct {
	App  LoggerConfig `toml:"app" validate:"required"`
	Data LoggerConfig `toml:"data" validate:"required"`
}

// LoggerConfig configures a single logger.
type LoggerConfig struct {
	Level  string `toml:"level" validate:"required,oneof=debug info warn error"`
	Format string `toml:"format" validate:"required,oneof=text json logfmt"`
	File   string `toml:"file" validate:"required,oneof=log trace"`
	Prefix string `toml:"prefix"`
}

// Loggers carries the application diagnostics logger and the data/audit logger.
//
// Both are created once at startup by [NewLoggers] and released with [Loggers.Close].
type Loggers struct {
	App  *log.Logger
	Data *log.Logger

	closers []io.Closer
}

// LoadLoggingConfig reads and validates a logging configuration file.
func LoadLoggingConfig(path string) (*LoggingConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: could not find %s", ErrLoggingSetup, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoggingSetup, err)
	}

	return parseLoggingConfig(data, path)
}

// DefaultLoggingConfig returns the embedded example logging configuration.
func DefaultLoggingConfig() *LoggingConfig {
	cfg, err := parseLoggingConfig(exampleLoggingConf, "embedded")
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded logging config: %v", err))
	}
	return cfg
}

// CreateLoggingConfigFile writes the embedded example logging config to path.
func CreateLoggingConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("logging config already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleLoggingConf, 0644); err != nil {
		return fmt.Errorf("failed to write logging config: %w", err)
	}

	return nil
}

func parseLoggingConfig(data []byte, path string) (*LoggingConfig, error) {
	var cfg LoggingConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: could not parse %s: %v", ErrLoggingSetup, path, err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoggingSetup, path, err)
	}

	return &cfg, nil
}

// LogPaths returns the date-stamped log and trace file paths for the given day.
func LogPaths(dir string, day time.Time) (logPath, tracePath string) {
	stamp := day.Format("2006-01-02")
	return filepath.Join(dir, stamp+".log"), filepath.Join(dir, stamp+".trc")
}

// NewLoggers opens the date-stamped log files under section.Dir and builds both loggers.
//
// When section.Echo is set, the entries are also written to [os.Stderr].
func NewLoggers(section LoggingSection, cfg *LoggingConfig, now time.Time) (*Loggers, error) {
	if err := os.MkdirAll(section.Dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create log directory: %v", ErrLoggingSetup, err)
	}

	logPath, tracePath := LogPaths(section.Dir, now)
	paths := map[string]string{LogFile: logPath, TraceFile: tracePath}
	files := map[string]*os.File{}

	l := &Loggers{}
	open := func(kind string) (io.Writer, error) {
		if f, ok := files[kind]; ok {
			return f, nil
		}
		f, err := os.OpenFile(paths[kind], os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open %s: %v", ErrLoggingSetup, paths[kind], err)
		}
		files[kind] = f
		l.closers = append(l.closers, f)
		return f, nil
	}

	build := func(lc LoggerConfig) (*log.Logger, error) {
		w, err := open(lc.File)
		if err != nil {
			return nil, err
		}
		if section.Echo {
			w = io.MultiWriter(w, os.Stderr)
		}
		return newConfiguredLogger(w, lc)
	}

	var err error
	if l.App, err = build(cfg.Loggers.App); err != nil {
		l.Close()
		return nil, err
	}
	if l.Data, err = build(cfg.Loggers.Data); err != nil {
		l.Close()
		return nil, err
	}

	return l, nil
}

// NewTestLoggers returns [Loggers] that both write to w and own no files.
func NewTestLoggers(w io.Writer) *Loggers {
	if w == nil {
		w = io.Discard
	}
	return &Loggers{
		App:  log.NewWithOptions(w, log.Options{Prefix: "app", Level: log.DebugLevel}),
		Data: log.NewWithOptions(w, log.Options{Prefix: "data", Level: log.DebugLevel}),
	}
}

// Close releases the log files.
func (l *Loggers) Close() error {
	var errs []error
	for _, c := range l.closers {
		errs = append(errs, c.Close())
	}
	l.closers = nil
	return errors.Join(errs...)
}

func newConfiguredLogger(w io.Writer, lc LoggerConfig) (*log.Logger, error) {
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoggingSetup, err)
	}

	var formatter log.Formatter
	switch lc.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		formatter = log.TextFormatter
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          lc.Prefix,
		Level:           level,
		Formatter:       formatter,
	}), nil
}
