package tasks

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/chinook/internal/formatter"
	"github.com/desertthunder/chinook/internal/models"
	"github.com/desertthunder/chinook/internal/repositories"
	"github.com/desertthunder/chinook/internal/shared"
	th "github.com/desertthunder/chinook/internal/testing"
)

func countUserTables(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'").Scan(&n)
	if err != nil {
		t.Fatalf("failed to count tables: %v", err)
	}
	return n
}

func newSeeder(t *testing.T, files map[string]string) (*Seeder, *repositories.Store, *bytes.Buffer) {
	t.Helper()
	loggers, buf := th.NewLoggers(t)
	store := repositories.NewStore(th.MustMemoryDB(t), loggers)
	seeder, err := NewSeeder(store, formatter.NewCSV(loggers), files, loggers)
	if err != nil {
		t.Fatalf("NewSeeder failed: %v", err)
	}
	return seeder, store, buf
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("creates every table then updates idempotently", func(t *testing.T) {
		loggers, buf := th.NewLoggers(t)
		cfg := shared.DatabaseConfig{Kind: "sqlite3", Name: filepath.Join(t.TempDir(), "data", "chinook.db")}

		db, err := Initialize(cfg, loggers.App)
		if err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		th.AssertFileExists(t, cfg.Name)

		store := repositories.NewStore(db, loggers)
		for _, table := range models.Tables {
			n, err := store.Count(ctx, table)
			if err != nil {
				t.Fatalf("Count(%s) failed: %v", table.Name, err)
			}
			if n != 0 {
				t.Errorf("expected %s to be empty, got %d rows", table.Name, n)
			}
		}
		tables := countUserTables(t, db)
		if tables != len(models.Tables)+1 {
			t.Errorf("expected %d tables plus schema_migrations, got %d", len(models.Tables), tables)
		}

		if _, err := store.Insert(ctx, &models.Artist{Name: "Aerosmith"}, false); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		db.Close()

		db, err = Initialize(cfg, loggers.App)
		if err != nil {
			t.Fatalf("second Initialize failed: %v", err)
		}
		defer db.Close()

		store = repositories.NewStore(db, loggers)
		if n, _ := store.Count(ctx, models.ArtistsTable); n != 1 {
			t.Errorf("expected existing row to survive, got %d rows", n)
		}
		if got := countUserTables(t, db); got != tables {
			t.Errorf("expected %d tables after update, got %d", tables, got)
		}

		logs := buf.String()
		if !strings.Contains(logs, "database created") || !strings.Contains(logs, "database updated") {
			t.Errorf("expected created and updated log entries, got %q", logs)
		}
	})

	t.Run("in-memory store", func(t *testing.T) {
		loggers, _ := th.NewLoggers(t)
		db, err := Initialize(shared.DatabaseConfig{Kind: "sqlite3", Name: shared.MemoryDatabase}, loggers.App)
		if err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		defer db.Close()

		if got := countUserTables(t, db); got != len(models.Tables)+1 {
			t.Errorf("expected %d tables, got %d", len(models.Tables)+1, got)
		}
	})
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("populates each table from its file", func(t *testing.T) {
		dir := t.TempDir()
		th.MustWriteFile(t, dir, "artists.csv", "Id,Name\n1,AC/DC\n2,Accept\n")
		th.MustWriteFile(t, dir, "albums.csv", "Id,Title,ArtistId\n1,For Those About To Rock We Salute You,1\n2,Balls to the Wall,2\n3,Restless and Wild,2\n")
		th.MustWriteFile(t, dir, "media.csv", "Id,Name\n1,MPEG audio file\n")
		th.MustWriteFile(t, dir, "customers.csv", "Id,FirstName,LastName,Company,Email\n1,Luís,Gonçalves,,luisg@embraer.com.br\n")
		manifest := th.MustWriteFile(t, dir, "manifest.csv", "artists.csv\nalbums.csv\nmedia.csv\n\ncustomers.csv\n")

		seeder, store, _ := newSeeder(t, map[string]string{"media.csv": "MediaTypes"})
		report, err := seeder.Seed(ctx, manifest, "test", false, nil)
		if err != nil {
			t.Fatalf("Seed failed: %v", err)
		}

		if report.Total != 7 || len(report.Files) != 4 {
			t.Errorf("unexpected report: %+v", report)
		}
		if report.RunID == "" {
			t.Error("expected a run id")
		}

		want := []struct {
			table models.Table
			rows  int
		}{
			{models.ArtistsTable, 2},
			{models.AlbumsTable, 3},
			{models.MediaTypesTable, 1},
			{models.CustomersTable, 1},
		}
		for _, w := range want {
			if got, _ := store.Count(ctx, w.table); got != w.rows {
				t.Errorf("%s has %d rows, want %d", w.table.Name, got, w.rows)
			}
		}

		albums, err := store.Select(ctx, models.AlbumsTable, models.Filters{"ArtistId": 2}, false)
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if len(albums) != 2 || albums[0]["Title"] != "Balls to the Wall" {
			t.Errorf("unexpected albums: %v", albums)
		}

		customers, err := store.SelectAll(ctx, models.CustomersTable, false)
		if err != nil {
			t.Fatalf("SelectAll failed: %v", err)
		}
		if customers[0]["FirstName"] != "Luís" || customers[0]["Company"] != "" {
			t.Errorf("unexpected customer: %v", customers[0])
		}

		if _, err := store.Select(ctx, models.CustomersTable, models.Filters{"Company": ""}, false); !errors.Is(err, shared.ErrNoRowsMatched) {
			t.Errorf("expected empty CSV values to be stored as NULL, got %v", err)
		}
	})

	t.Run("missing file aborts the remaining files", func(t *testing.T) {
		dir := t.TempDir()
		th.MustWriteFile(t, dir, "artists.csv", "Id,Name\n1,AC/DC\n")
		th.MustWriteFile(t, dir, "genres.csv", "Id,Name\n1,Rock\n")
		manifest := th.MustWriteFile(t, dir, "manifest.csv", "artists.csv\nalbums.csv\ngenres.csv\n")

		seeder, store, buf := newSeeder(t, nil)
		report, err := seeder.Seed(ctx, manifest, "test", false, nil)
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected os.ErrNotExist, got %v", err)
		}
		if report != nil {
			t.Errorf("expected nil report on failure, got %+v", report)
		}

		if n, _ := store.Count(ctx, models.ArtistsTable); n != 1 {
			t.Errorf("expected earlier file to stay committed, got %d artists", n)
		}
		if n, _ := store.Count(ctx, models.GenresTable); n != 0 {
			t.Errorf("expected later files to be skipped, got %d genres", n)
		}
		if !strings.Contains(buf.String(), "seed file could not be read") {
			t.Errorf("expected failure in app log, got %q", buf.String())
		}
	})

	t.Run("insert failure rolls back only that file", func(t *testing.T) {
		dir := t.TempDir()
		th.MustWriteFile(t, dir, "genres.csv", "Id,Name\n1,Rock\n")
		th.MustWriteFile(t, dir, "albums.csv", "Id,Title,ArtistId\n1,Orphan,1\n")
		manifest := th.MustWriteFile(t, dir, "manifest.csv", "genres.csv\nalbums.csv\n")

		seeder, store, _ := newSeeder(t, nil)
		if _, err := seeder.Seed(ctx, manifest, "test", false, nil); !errors.Is(err, shared.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}

		if n, _ := store.Count(ctx, models.GenresTable); n != 1 {
			t.Errorf("expected genres to stay committed, got %d", n)
		}
		if n, _ := store.Count(ctx, models.AlbumsTable); n != 0 {
			t.Errorf("expected no albums, got %d", n)
		}
	})

	t.Run("unknown file", func(t *testing.T) {
		dir := t.TempDir()
		th.MustWriteFile(t, dir, "artist.csv", "Id,Name\n1,AC/DC\n")
		manifest := th.MustWriteFile(t, dir, "manifest.csv", "artist.csv\n")

		seeder, _, _ := newSeeder(t, nil)
		if _, err := seeder.Seed(ctx, manifest, "test", false, nil); !errors.Is(err, shared.ErrUnknownTable) {
			t.Errorf("expected ErrUnknownTable, got %v", err)
		}
	})

	t.Run("missing manifest", func(t *testing.T) {
		seeder, _, _ := newSeeder(t, nil)
		_, err := seeder.Seed(ctx, filepath.Join(t.TempDir(), "manifest.csv"), "test", false, nil)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})

	t.Run("reports progress", func(t *testing.T) {
		dir := t.TempDir()
		th.MustWriteFile(t, dir, "genres.csv", "Name\nRock\nJazz\n")
		manifest := th.MustWriteFile(t, dir, "manifest.csv", "genres.csv\n")

		seeder, _, buf := newSeeder(t, nil)
		progress := make(chan ProgressUpdate, 10)
		if _, err := seeder.Seed(ctx, manifest, "test", true, progress); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		close(progress)

		phases := make(map[Phase]bool)
		for update := range progress {
			phases[update.Phase] = true
		}
		for _, p := range []Phase{ReadManifest, LoadFile, InsertRows, SeedComplete} {
			if !phases[p] {
				t.Errorf("missing %s update", p)
			}
		}

		if !strings.Contains(buf.String(), "run_id") {
			t.Errorf("expected run_id in data log, got %q", buf.String())
		}
	})

	t.Run("invalid mapping", func(t *testing.T) {
		loggers, _ := th.NewLoggers(t)
		store := repositories.NewStore(th.MustMemoryDB(t), loggers)
		_, err := NewSeeder(store, formatter.NewCSV(loggers), map[string]string{"x.csv": "Nope"}, loggers)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestDestroy(t *testing.T) {
	t.Run("missing store warns", func(t *testing.T) {
		loggers, buf := th.NewLoggers(t)

		err := Destroy(filepath.Join(t.TempDir(), "missing.db"), loggers.App)
		if !errors.Is(err, shared.ErrStoreNotFound) {
			t.Fatalf("expected ErrStoreNotFound, got %v", err)
		}
		if !strings.Contains(buf.String(), "WARN") {
			t.Errorf("expected warning log, got %q", buf.String())
		}
	})

	t.Run("removes store and journal files", func(t *testing.T) {
		loggers, _ := th.NewLoggers(t)
		dir := t.TempDir()
		path := th.MustWriteFile(t, dir, "chinook.db", "data")
		wal := th.MustWriteFile(t, dir, "chinook.db-wal", "wal")

		if err := Destroy(path, loggers.App); err != nil {
			t.Fatalf("Destroy failed: %v", err)
		}
		th.AssertFileMissing(t, path)
		th.AssertFileMissing(t, wal)
	})

	t.Run("initialized store", func(t *testing.T) {
		loggers, _ := th.NewLoggers(t)
		cfg := shared.DatabaseConfig{Kind: "sqlite3", Name: filepath.Join(t.TempDir(), "chinook.db")}

		db, err := Initialize(cfg, loggers.App)
		if err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		db.Close()

		if err := Destroy(cfg.Name, loggers.App); err != nil {
			t.Fatalf("Destroy failed: %v", err)
		}
		th.AssertFileMissing(t, cfg.Name)
	})
}
