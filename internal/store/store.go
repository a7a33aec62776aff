// Package store keeps panel records in SQLite so a host can restore panels
// after a restart.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atomicstack/satisfying-background/internal/host"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

// Memory opens a store that lives only as long as the process.
const Memory = ":memory:"

// timeLayout is fixed width so updated_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get for unknown panel ids.
var ErrNotFound = errors.New("panel record not found")

//go:embed migrations/*.sql
var migrations embed.FS

// Store is a SQLite-backed host.Store.
type Store struct {
	db *sql.DB
}

var _ host.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	dsn := Memory
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One connection keeps :memory: databases alive and serialises writers.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	// m.Close would close db as well; the store owns it.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(rec host.Record) error {
	return s.SaveContext(context.Background(), rec)
}

func (s *Store) Delete(id string) error {
	return s.DeleteContext(context.Background(), id)
}

func (s *Store) List() ([]host.Record, error) {
	return s.ListContext(context.Background())
}

// SaveContext inserts or replaces rec.
func (s *Store) SaveContext(ctx context.Context, rec host.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("save panel: empty id")
	}
	opts, err := json.Marshal(rec.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	var state sql.NullString
	if rec.HasState {
		state = sql.NullString{String: rec.State, Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO panels (id, view_type, title, markup, program, state, options, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    view_type = excluded.view_type,
    title = excluded.title,
    markup = excluded.markup,
    program = excluded.program,
    state = excluded.state,
    options = excluded.options,
    updated_at = excluded.updated_at`,
		rec.ID, rec.ViewType, rec.Title, rec.Markup, rec.Program, state, string(opts),
		updated.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save panel %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteContext removes the record for id. Unknown ids are not an error.
func (s *Store) DeleteContext(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM panels WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete panel %s: %w", id, err)
	}
	return nil
}

// ListContext returns every record, least recently updated first.
func (s *Store) ListContext(ctx context.Context) ([]host.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, view_type, title, markup, program, state, options, updated_at
FROM panels ORDER BY updated_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list panels: %w", err)
	}
	defer rows.Close()
	var out []host.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list panels: %w", err)
	}
	return out, nil
}

// Get returns the record for id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (host.Record, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, view_type, title, markup, program, state, options, updated_at
FROM panels WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return host.Record{}, fmt.Errorf("get panel %s: %w", id, ErrNotFound)
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(sc scanner) (host.Record, error) {
	var (
		rec     host.Record
		state   sql.NullString
		opts    string
		updated string
	)
	if err := sc.Scan(&rec.ID, &rec.ViewType, &rec.Title, &rec.Markup, &rec.Program, &state, &opts, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return host.Record{}, err
		}
		return host.Record{}, fmt.Errorf("scan panel: %w", err)
	}
	if state.Valid {
		rec.State = state.String
		rec.HasState = true
	}
	if err := json.Unmarshal([]byte(opts), &rec.Options); err != nil {
		return host.Record{}, fmt.Errorf("decode options for %s: %w", rec.ID, err)
	}
	t, err := time.Parse(timeLayout, updated)
	if err != nil {
		return host.Record{}, fmt.Errorf("decode updated_at for %s: %w", rec.ID, err)
	}
	rec.UpdatedAt = t
	return rec, nil
}
