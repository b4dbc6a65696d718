package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Name != "./chinook.db" {
			t.Errorf("expected database name ./chinook.db, got %s", config.Database.Name)
		}

		if config.Database.Kind != "sqlite3" {
			t.Errorf("expected database kind sqlite3, got %s", config.Database.Kind)
		}

		if config.Logging.Config != "./logging.toml" {
			t.Errorf("expected logging config ./logging.toml, got %s", config.Logging.Config)
		}

		if config.Seed.Files["mediatypes.csv"] != "MediaTypes" {
			t.Errorf("expected mediatypes.csv to map to MediaTypes, got %q", config.Seed.Files["mediatypes.csv"])
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Name != defaultConfig.Database.Name {
			t.Errorf("created config database name doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[logging]
config = "/etc/chinook/logging.toml"
dir = "/var/log/chinook"
echo = true

[database]
kind = "sqlite3"
name = "/custom/path.db"
max_open_conns = 4
max_idle_conns = 2

[seed]
manifest = "/seed/manifest.csv"

[seed.files]
"artist_list.csv" = "Artists"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Name != "/custom/path.db" {
			t.Errorf("expected database name /custom/path.db, got %s", config.Database.Name)
		}

		if !config.Logging.Echo {
			t.Error("expected echo to be enabled")
		}

		if config.Database.MaxOpenConns != 4 {
			t.Errorf("expected max_open_conns 4, got %d", config.Database.MaxOpenConns)
		}

		if config.Seed.Files["artist_list.csv"] != "Artists" {
			t.Errorf("expected artist_list.csv mapping, got %v", config.Seed.Files)
		}
	})

	t.Run("LoadConfig Missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		tt := []struct {
			name    string
			content string
		}{
			{name: "unparseable", content: "[database\nkind = "},
			{name: "unsupported kind", content: "[logging]\nconfig = \"l.toml\"\ndir = \"logs\"\n[database]\nkind = \"oracle\"\nname = \"x\"\n"},
			{name: "missing name", content: "[logging]\nconfig = \"l.toml\"\ndir = \"logs\"\n[database]\nkind = \"sqlite3\"\n"},
			{name: "missing logging", content: "[database]\nkind = \"sqlite3\"\nname = \"x.db\"\n"},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(configPath, []byte(tc.content), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}

				if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("DSN", func(t *testing.T) {
		file := DatabaseConfig{Kind: "sqlite3", Name: "./chinook.db"}
		if got := file.DSN(); got != "file:./chinook.db?_busy_timeout=5000" {
			t.Errorf("unexpected file DSN %s", got)
		}

		mem := DatabaseConfig{Kind: "sqlite3", Name: MemoryDatabase}
		if got := mem.DSN(); got != MemoryDatabase {
			t.Errorf("unexpected memory DSN %s", got)
		}
	})
}
