package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/chinook/internal/shared"
	"github.com/desertthunder/chinook/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the example config and, beside it, the example logging config when missing.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("print") {
		if err := toml.NewEncoder(r.output).Encode(shared.DefaultConfig()); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return nil
	}

	configPath := cmd.String("config")
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", configPath)
	r.writePlain("Created %s\n", configPath)

	loggingPath := filepath.Join(filepath.Dir(configPath), "logging.toml")
	if _, err := os.Stat(loggingPath); err == nil {
		r.logger.Info("logging config already present", "path", loggingPath)
		return nil
	}
	if err := shared.CreateLoggingConfigFile(loggingPath); err != nil {
		return err
	}
	r.logger.Info("logging config created", "path", loggingPath)
	r.writePlain("Created %s\n", loggingPath)
	return nil
}

// DBInit creates the store file if needed and materializes every table.
func (r *Runner) DBInit(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(cmd, false); err != nil {
		return err
	}

	db, err := tasks.Initialize(r.config.Database, r.loggers.App)
	if err != nil {
		return err
	}
	if r.db != nil {
		r.db.Close()
	}
	r.db = db

	r.writePlain("Initialized %s\n", r.config.Database.Name)
	return nil
}

// DBSeed loads every CSV file listed in the seed manifest.
func (r *Runner) DBSeed(ctx context.Context, cmd *cli.Command) error {
	manifest := cmd.String("manifest")
	if manifest == "" {
		manifest = r.config.Seed.Manifest
	}
	if manifest == "" {
		return fmt.Errorf("%w: --manifest or seed.manifest", shared.ErrMissingArgument)
	}

	r.writePlain("Seeding %s from %s\n\n", r.config.Database.Name, manifest)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ReadManifest:
				r.writePlain("📄 %s\n", update.Message)
			case tasks.LoadFile:
				r.writePlain("\n📥 %s\n", update.Message)
			case tasks.InsertRows:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	report, err := r.seeder.Seed(ctx, manifest, r.config.Database.Name, cmd.Bool("verbose"), progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Seed Complete!")
	for _, f := range report.Files {
		r.writePlain("%-16s %6d rows  (%s)\n", f.Table, f.Rows, f.Path)
	}
	r.writePlain("Total: %d rows in %s\n", report.Total, report.Elapsed.Round(time.Millisecond))
	r.writePlain("Run: %s\n", report.RunID)
	return nil
}

// DBDestroy deletes the store file.
func (r *Runner) DBDestroy(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(cmd, false); err != nil {
		return err
	}

	name := r.config.Database.Name
	if name == shared.MemoryDatabase {
		return fmt.Errorf("%w: an in-memory store has no file to remove", shared.ErrInvalidArgument)
	}
	if r.db != nil {
		r.db.Close()
		r.db = nil
	}
	if err := tasks.Destroy(name, r.loggers.App); err != nil {
		return err
	}

	r.writePlain("Removed %s\n", name)
	return nil
}

// DBRollback rolls back the most recently applied schema migration.
func (r *Runner) DBRollback(ctx context.Context, cmd *cli.Command) error {
	if err := shared.RollbackMigration(r.db); err != nil {
		r.loggers.App.Error("rollback failed", "store", r.config.Database.Name, "err", err)
		return err
	}
	r.loggers.App.Info("migration rolled back", "store", r.config.Database.Name)
	r.writePlain("Rolled back the latest migration on %s\n", r.config.Database.Name)
	return nil
}
