// Package testutil provides helpers shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/amartyachowdhury/movie-stack/internal/database"
)

// TestDB wraps a migrated mirror database living in a temp directory.
type TestDB struct {
	DB     *database.DB
	Mirror *database.Mirror
	Path   string
}

// NewTestDB creates and migrates a mirror database. It is closed on test cleanup.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dir := t.TempDir()
	db, err := database.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDB{
		DB:     db,
		Mirror: database.NewMirror(db),
		Path:   dir,
	}
}

// NewTestLogger creates a logger that writes through t.Log.
func NewTestLogger(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}
