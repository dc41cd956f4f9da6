package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrMirrorMiss is returned when a movie has never been mirrored.
var ErrMirrorMiss = errors.New("movie not in mirror")

// MirrorRecord is one row of the movie_mirror table. The record columns hold
// the provider's raw JSON exactly as it was received. Each record column keeps
// its own write time; UpdatedAt is the latest write of either.
type MirrorRecord struct {
	ID              int64
	Title           string
	ListRecord      []byte
	DetailRecord    []byte
	ListUpdatedAt   time.Time
	DetailUpdatedAt time.Time
	UpdatedAt       time.Time
}

// HasDetail reports whether a full detail record was mirrored.
func (r *MirrorRecord) HasDetail() bool {
	return len(r.DetailRecord) > 0
}

// ListIsNewer reports whether the list record was written after the detail record.
func (r *MirrorRecord) ListIsNewer() bool {
	return len(r.ListRecord) > 0 && r.ListUpdatedAt.After(r.DetailUpdatedAt)
}

// Mirror is a best-effort copy of provider records keyed by provider id.
// The last successful write for an id wins.
type Mirror struct {
	db  *DB
	now func() time.Time
}

// NewMirror creates a mirror store on top of db.
func NewMirror(db *DB) *Mirror {
	return &Mirror{db: db, now: time.Now}
}

const upsertListSQL = `
INSERT INTO movie_mirror (id, title, list_record, list_updated_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    title = excluded.title,
    list_record = excluded.list_record,
    list_updated_at = excluded.list_updated_at,
    updated_at = excluded.updated_at`

const upsertDetailSQL = `
INSERT INTO movie_mirror (id, title, detail_record, detail_updated_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    title = excluded.title,
    detail_record = excluded.detail_record,
    detail_updated_at = excluded.detail_updated_at,
    updated_at = excluded.updated_at`

// UpsertListRecords stores list records in one transaction.
func (m *Mirror) UpsertListRecords(ctx context.Context, records []MirrorRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := m.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin mirror transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertListSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare mirror upsert: %w", err)
	}
	defer stmt.Close()

	now := m.now()
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ID, r.Title, string(r.ListRecord), now.UnixMilli(), now.Unix()); err != nil {
			return fmt.Errorf("failed to mirror movie %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mirror transaction: %w", err)
	}
	return nil
}

// UpsertDetailRecord stores a detail record.
func (m *Mirror) UpsertDetailRecord(ctx context.Context, id int64, title string, raw []byte) error {
	now := m.now()
	_, err := m.db.conn.ExecContext(ctx, upsertDetailSQL, id, title, string(raw), now.UnixMilli(), now.Unix())
	if err != nil {
		return fmt.Errorf("failed to mirror movie detail %d: %w", id, err)
	}
	return nil
}

// Get returns the mirrored row for id, or ErrMirrorMiss.
func (m *Mirror) Get(ctx context.Context, id int64) (*MirrorRecord, error) {
	var (
		rec                    MirrorRecord
		list, detail           sql.NullString
		listMilli, detailMilli int64
		updatedAtUnix          int64
	)

	err := m.db.conn.QueryRowContext(ctx,
		`SELECT id, title, list_record, detail_record, list_updated_at, detail_updated_at, updated_at
		 FROM movie_mirror WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Title, &list, &detail, &listMilli, &detailMilli, &updatedAtUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMirrorMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read mirror for movie %d: %w", id, err)
	}

	if list.Valid {
		rec.ListRecord = []byte(list.String)
	}
	if detail.Valid {
		rec.DetailRecord = []byte(detail.String)
	}
	rec.ListUpdatedAt = time.UnixMilli(listMilli)
	rec.DetailUpdatedAt = time.UnixMilli(detailMilli)
	rec.UpdatedAt = time.Unix(updatedAtUnix, 0)
	return &rec, nil
}

// Count returns the number of mirrored movies.
func (m *Mirror) Count(ctx context.Context) (int, error) {
	var n int
	if err := m.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM movie_mirror`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count mirror rows: %w", err)
	}
	return n, nil
}
