package shared

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDatabase(t *testing.T) {
	t.Run("OpenDatabase file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "chinook.db")
		db, err := OpenDatabase(DatabaseConfig{Kind: DriverName, Name: path, MaxOpenConns: 2, MaxIdleConns: 1})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if got := db.Stats().MaxOpenConnections; got != 2 {
			t.Errorf("expected 2 max open connections, got %d", got)
		}
	})

	t.Run("OpenDatabase memory", func(t *testing.T) {
		db, err := OpenDatabase(DatabaseConfig{Kind: DriverName, Name: MemoryDatabase, MaxOpenConns: 8})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if got := db.Stats().MaxOpenConnections; got != 1 {
			t.Errorf("expected in-memory pool pinned to 1 connection, got %d", got)
		}
	})

	t.Run("IsConstraintError", func(t *testing.T) {
		db, err := NewDatabase(MemoryDatabase)
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("CREATE TABLE t (name TEXT UNIQUE)"); err != nil {
			t.Fatalf("failed to create table: %v", err)
		}
		if _, err := db.Exec("INSERT INTO t (name) VALUES ('a')"); err != nil {
			t.Fatalf("failed to insert: %v", err)
		}

		_, err = db.Exec("INSERT INTO t (name) VALUES ('a')")
		if !IsConstraintError(err) {
			t.Errorf("expected constraint error, got %v", err)
		}

		if IsConstraintError(errors.New("plain")) {
			t.Error("plain error should not be a constraint error")
		}
	})
}
