// Package sqlite is a state.Store backed by SQLite through the pure Go
// modernc driver. Documents are kept as JSON next to the columns the store
// needs for lookups, ownership and ordering.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/pkg/state"
	"github.com/goliatone/go-folio/pkg/state/sqlite/migrations"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store persists portfolios in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

var _ state.Store = (*Store)(nil)

// Open opens the database at path and applies the embedded migrations.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite: storage path is required")
	}
	dsn := path
	if path != MemoryPath {
		dsn = filepath.Clean(path)
	}
	dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != MemoryPath {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if path == MemoryPath {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	store, err := New(ctx, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an open handle and applies the embedded migrations.
func New(ctx context.Context, db *sql.DB, opts ...Option) (*Store, error) {
	if err := ApplyMigrations(ctx, db, migrations.FS); err != nil {
		return nil, err
	}
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load implements state.Store.
func (s *Store) Load(ctx context.Context, idOrSlug, ownerID string) (folio.Portfolio, state.Meta, error) {
	if err := ctx.Err(); err != nil {
		return folio.Portfolio{}, state.Meta{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT document, version, created_at, updated_at
		   FROM portfolios
		  WHERE id = ? OR slug = ?
		  ORDER BY id = ? DESC
		  LIMIT 1`,
		idOrSlug, idOrSlug, idOrSlug,
	)
	var (
		document         string
		version          int64
		created, updated int64
	)
	if err := row.Scan(&document, &version, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return folio.Portfolio{}, state.Meta{}, fmt.Errorf("%w: %s", state.ErrNotFound, idOrSlug)
		}
		return folio.Portfolio{}, state.Meta{}, fmt.Errorf("sqlite: load %s: %w", idOrSlug, err)
	}
	p, err := folio.DecodePortfolio([]byte(document))
	if err != nil {
		return folio.Portfolio{}, state.Meta{}, fmt.Errorf("sqlite: decode %s: %w", idOrSlug, err)
	}
	if !state.CanRead(p, ownerID) {
		return folio.Portfolio{}, state.Meta{}, fmt.Errorf("%w: %s", state.ErrAccessDenied, idOrSlug)
	}
	p.CreatedAt = fromMillis(created)
	p.UpdatedAt = fromMillis(updated)
	return p, state.Meta{ETag: etag(version), CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}, nil
}

// Save implements state.Store.
func (s *Store) Save(ctx context.Context, p folio.Portfolio, meta state.Meta) (state.Saved, error) {
	if err := ctx.Err(); err != nil {
		return state.Saved{}, err
	}
	if p.Slug == "" {
		return state.Saved{}, state.ErrSlugRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return state.Saved{}, fmt.Errorf("sqlite: begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		exists             bool
		currentOwner       string
		version, createdAt int64
	)
	if p.ID != "" {
		err := tx.QueryRowContext(ctx,
			`SELECT owner_id, version, created_at FROM portfolios WHERE id = ?`, p.ID,
		).Scan(&currentOwner, &version, &createdAt)
		switch {
		case err == nil:
			exists = true
		case !errors.Is(err, sql.ErrNoRows):
			return state.Saved{}, fmt.Errorf("sqlite: read %s: %w", p.ID, err)
		}
	}
	if exists {
		if currentOwner != p.OwnerID {
			return state.Saved{}, fmt.Errorf("%w: %s", state.ErrAccessDenied, p.ID)
		}
		if meta.ETag != "" && meta.ETag != etag(version) {
			return state.Saved{}, fmt.Errorf("%w: expected %q, got %q", state.ErrETagMismatch, meta.ETag, etag(version))
		}
	}

	var holderID, holderOwner string
	err = tx.QueryRowContext(ctx,
		`SELECT id, owner_id FROM portfolios WHERE slug = ?`, p.Slug,
	).Scan(&holderID, &holderOwner)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return state.Saved{}, fmt.Errorf("sqlite: read slug %s: %w", p.Slug, err)
	}
	if err := state.SlugConflict(p, holderID, holderOwner); err != nil {
		return state.Saved{}, err
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := s.now().UTC()
	p.UpdatedAt = now
	if exists {
		p.CreatedAt = fromMillis(createdAt)
	} else {
		p.CreatedAt = now
	}
	document, err := folio.EncodePortfolio(p)
	if err != nil {
		return state.Saved{}, fmt.Errorf("sqlite: encode %s: %w", p.ID, err)
	}

	version++
	if exists {
		_, err = tx.ExecContext(ctx,
			`UPDATE portfolios
			    SET slug = ?, name = ?, is_public = ?, components = ?, document = ?, version = ?, updated_at = ?
			  WHERE id = ?`,
			p.Slug, p.Name, p.IsPublic, len(p.Components), string(document), version, toMillis(now), p.ID,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO portfolios (id, slug, owner_id, name, is_public, components, document, version, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Slug, p.OwnerID, p.Name, p.IsPublic, len(p.Components), string(document), version, toMillis(now), toMillis(now),
		)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return state.Saved{}, fmt.Errorf("%w: %s", state.ErrSlugTaken, p.Slug)
		}
		return state.Saved{}, fmt.Errorf("sqlite: save %s: %w", p.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return state.Saved{}, fmt.Errorf("sqlite: commit %s: %w", p.ID, err)
	}
	return state.Saved{
		ID:        p.ID,
		Slug:      p.Slug,
		ETag:      etag(version),
		Created:   !exists,
		UpdatedAt: now,
	}, nil
}

// Delete implements state.Store.
func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var owner string
	err := s.db.QueryRowContext(ctx, `SELECT owner_id FROM portfolios WHERE id = ?`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", state.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("sqlite: read %s: %w", id, err)
	}
	if owner != ownerID {
		return fmt.Errorf("%w: %s", state.ErrAccessDenied, id)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM portfolios WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", id, err)
	}
	return nil
}

// List implements state.Store.
func (s *Store) List(ctx context.Context, ownerID string) ([]state.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, name, owner_id, is_public, components, updated_at
		   FROM portfolios
		  WHERE owner_id = ?
		  ORDER BY updated_at DESC, slug ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	defer rows.Close()

	out := make([]state.Summary, 0)
	for rows.Next() {
		var (
			row     state.Summary
			updated int64
		)
		if err := rows.Scan(&row.ID, &row.Slug, &row.Name, &row.OwnerID, &row.IsPublic, &row.Components, &updated); err != nil {
			return nil, fmt.Errorf("sqlite: scan summary: %w", err)
		}
		row.UpdatedAt = fromMillis(updated)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func etag(version int64) string {
	return strconv.FormatInt(version, 10)
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
