package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

//go:embed config.example.toml
var exampleConf []byte

// MemoryDatabase is the store name for a private in-memory SQLite database.
const MemoryDatabase = ":memory:"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Logging  LoggingSection `toml:"logging" validate:"required"`
	Database DatabaseConfig `toml:"database" validate:"required"`
	Seed     SeedConfig     `toml:"seed"`
}

// LoggingSection points at the logging configuration file and the log directory.
type LoggingSection struct {
	Config string `toml:"config" validate:"required"`
	Dir    string `toml:"dir" validate:"required"`
	Echo   bool   `toml:"echo"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Kind         string `toml:"kind" validate:"required,oneof=sqlite3"`
	Name         string `toml:"name" validate:"required"`
	MaxOpenConns int    `toml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `toml:"max_idle_conns" validate:"gte=0"`
}

// SeedConfig names the seed manifest and maps CSV basenames to table names.
type SeedConfig struct {
	Manifest string            `toml:"manifest"`
	Files    map[string]string `toml:"files" validate:"dive,keys,required,endkeys,required"`
}

// DSN composes the driver connection string from the store kind and name.
func (c DatabaseConfig) DSN() string {
	if c.Name == MemoryDatabase {
		return c.Name
	}
	return fmt.Sprintf("file:%s?_busy_timeout=5000", c.Name)
}

// Validate checks struct tags on the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads, parses and validates a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
