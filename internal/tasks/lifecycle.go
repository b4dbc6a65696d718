package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chinook/internal/formatter"
	"github.com/desertthunder/chinook/internal/models"
	"github.com/desertthunder/chinook/internal/repositories"
	"github.com/desertthunder/chinook/internal/shared"
)

// journalSuffixes are the SQLite files that live next to a store file.
var journalSuffixes = []string{"-wal", "-shm", "-journal"}

// SeededFile records one loaded CSV file.
type SeededFile struct {
	Path  string
	Table string
	Rows  int
}

// SeedReport summarizes a [Seeder.Seed] run.
type SeedReport struct {
	RunID    string
	Store    string
	Manifest string
	Files    []SeededFile
	Total    int
	Elapsed  time.Duration
}

// Initialize opens the store described by cfg and materializes every table.
//
// A missing store file is created. An existing one is brought up to date with create-if-missing
// statements only, so its rows are left untouched.
func Initialize(cfg shared.DatabaseConfig, app *log.Logger) (*sql.DB, error) {
	created := true
	if cfg.Name != shared.MemoryDatabase {
		if _, err := os.Stat(cfg.Name); err == nil {
			created = false
		} else if !errors.Is(err, fs.ErrNotExist) {
			app.Error("failed to stat store", "store", cfg.Name, "err", err)
			return nil, fmt.Errorf("failed to stat store %s: %w", cfg.Name, err)
		}

		if err := os.MkdirAll(filepath.Dir(cfg.Name), 0755); err != nil {
			app.Error("failed to create store directory", "store", cfg.Name, "err", err)
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := shared.OpenDatabase(cfg)
	if err != nil {
		app.Error("failed to open store", "store", cfg.Name, "err", err)
		return nil, err
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		app.Error("failed to run migrations", "store", cfg.Name, "err", err)
		return nil, err
	}

	if err := shared.EnsureSchema(db); err != nil {
		db.Close()
		app.Error("failed to ensure schema", "store", cfg.Name, "err", err)
		return nil, err
	}

	if created {
		app.Info("database created", "store", cfg.Name, "tables", len(models.Tables))
	} else {
		app.Info("database updated", "store", cfg.Name, "tables", len(models.Tables))
	}
	return db, nil
}

// Seeder loads CSV seed files into the store.
type Seeder struct {
	store *repositories.Store
	csv   *formatter.CSV
	files map[string]string
	app   *log.Logger
	data  *log.Logger
}

// NewSeeder creates a [Seeder]. files maps CSV basenames to table names and is validated here.
func NewSeeder(store *repositories.Store, csv *formatter.CSV, files map[string]string, loggers *shared.Loggers) (*Seeder, error) {
	if err := models.ValidateFileMapping(files); err != nil {
		loggers.App.Error("invalid seed mapping", "err", err)
		return nil, err
	}
	return &Seeder{store: store, csv: csv, files: files, app: loggers.App, data: loggers.Data}, nil
}

// Seed inserts the rows of every CSV file listed in the manifest at manifestPath.
//
// Each file is committed on its own. The first failure stops the run and is returned; files
// committed before it stay in the store. Empty CSV values are stored as NULL.
func (s *Seeder) Seed(ctx context.Context, manifestPath, storeName string, verbose bool, progress chan<- ProgressUpdate) (*SeedReport, error) {
	started := time.Now()
	runID := shared.GenerateID()
	data := shared.WithLogger(s.data, "run_id", runID)

	sendProgress(progress, readManifestUpdate(manifestPath))
	lines, err := s.csv.ReadRows(manifestPath, verbose)
	if err != nil {
		s.app.Error("seed manifest could not be read", "manifest", manifestPath, "err", err)
		return nil, fmt.Errorf("failed to read seed manifest: %w", err)
	}

	files := make([]string, 0, len(lines))
	for _, line := range lines {
		if name := strings.TrimSpace(line); name != "" {
			files = append(files, name)
		}
	}

	report := &SeedReport{RunID: runID, Store: storeName, Manifest: manifestPath, Files: []SeededFile{}}
	base := filepath.Dir(manifestPath)
	data.Info("seed started", "store", storeName, "manifest", manifestPath, "files", len(files))

	for i, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, err := models.TableForFile(name, s.files)
		if err != nil {
			s.app.Error("seed file has no table", "file", name, "err", err)
			return nil, err
		}

		path := filepath.Join(base, name)
		sendProgress(progress, loadFileUpdate(i+1, len(files), name, table.Name))

		records, err := s.csv.ReadRecords(path, verbose)
		if err != nil {
			s.app.Error("seed file could not be read", "file", path, "err", err)
			return nil, fmt.Errorf("failed to read seed file %s: %w", name, err)
		}

		n, err := s.store.InsertAll(ctx, table, toRows(records), verbose)
		if err != nil {
			s.app.Error("seed file could not be inserted", "file", path, "table", table.Name, "committed", len(report.Files))
			return nil, fmt.Errorf("failed to seed %s from %s: %w", table.Name, name, err)
		}

		result := SeededFile{Path: path, Table: table.Name, Rows: n}
		report.Files = append(report.Files, result)
		report.Total += n
		data.Info("seeded file", "file", name, "table", table.Name, "rows", n)
		sendProgress(progress, insertRowsUpdate(i+1, len(files), result))
	}

	report.Elapsed = time.Since(started)
	s.app.Info("database populated", "store", storeName, "files", len(report.Files), "rows", report.Total)
	data.Info("seed finished", "rows", report.Total, "elapsed", report.Elapsed)
	sendProgress(progress, seedCompleteUpdate(report))
	return report, nil
}

// toRows converts CSV records to insertable rows, mapping empty values to NULL.
func toRows(records []map[string]string) []map[string]any {
	rows := make([]map[string]any, len(records))
	for i, rec := range records {
		row := make(map[string]any, len(rec))
		for k, v := range rec {
			if v == "" {
				row[k] = nil
			} else {
				row[k] = v
			}
		}
		rows[i] = row
	}
	return rows
}

// Destroy removes the store file at path and any journal files beside it.
//
// A missing store is logged as a warning and reported as [shared.ErrStoreNotFound].
func Destroy(path string, app *log.Logger) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		app.Warn("store could not be found", "store", path)
		return fmt.Errorf("%w: %s", shared.ErrStoreNotFound, path)
	} else if err != nil {
		app.Error("failed to stat store", "store", path, "err", err)
		return err
	}

	if err := os.Remove(path); err != nil {
		app.Error("failed to remove store", "store", path, "err", err)
		return fmt.Errorf("%w: %v", shared.ErrStoreNotRemoved, err)
	}

	for _, suffix := range journalSuffixes {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			app.Warn("failed to remove journal file", "file", path+suffix, "err", err)
		}
	}

	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		app.Error("store still present after removal", "store", path)
		return fmt.Errorf("%w: %s", shared.ErrStoreNotRemoved, path)
	}

	app.Info("store removed", "store", path)
	return nil
}
