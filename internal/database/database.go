package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DB wraps the mirror database connection.
type DB struct {
	conn *sql.DB
	path string
}

// New opens (creating if needed) the SQLite database at path.
func New(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.PingContext(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Migrate runs all pending migrations from the embedded SQL files.
func (db *DB) Migrate(ctx context.Context) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db.conn, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrateDown rolls back the last migration.
func (db *DB) MigrateDown(ctx context.Context) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db.conn, "migrations"); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	return nil
}

// Version returns the current schema version.
func (db *DB) Version(ctx context.Context) (int64, error) {
	if err := setupGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db.conn)
}

func setupGoose() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}
