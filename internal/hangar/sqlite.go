package hangar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore keeps entries in a single designs table.
type SQLiteStore struct {
	db   *sql.DB
	log  *zap.Logger
	path string
	now  func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:"
// gives a private in-memory database.
func OpenSQLite(path string, log *zap.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every connection to :memory: is a new database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS designs (
		name    TEXT PRIMARY KEY,
		parent  TEXT NOT NULL DEFAULT '',
		record  TEXT NOT NULL,
		updated INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create designs table: %w", err)
	}
	log.Info("opened hangar", zap.String("path", path))
	return &SQLiteStore{db: db, log: log, path: path, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Path returns the configured database path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Put(ctx context.Context, e Entry) error {
	if err := checkEntry(e); err != nil {
		return err
	}
	if e.Updated.IsZero() {
		e.Updated = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO designs(name, parent, record, updated) VALUES(?,?,?,?)
		 ON CONFLICT(name) DO UPDATE SET parent=excluded.parent, record=excluded.record, updated=excluded.updated`,
		e.Name, e.Parent, e.Record, e.Updated.UnixNano())
	if err != nil {
		return fmt.Errorf("upsert %s: %w", e.Name, err)
	}
	s.log.Debug("stored design", zap.String("name", e.Name), zap.String("parent", e.Parent))
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT name, parent, record, updated FROM designs WHERE name = ?`, name)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("select %s: %w", name, err)
	}
	return e, nil
}

// List returns every entry sorted by name.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, parent, record, updated FROM designs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select designs: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	var child string
	err = tx.QueryRowContext(ctx, `SELECT name FROM designs WHERE parent = ? LIMIT 1`, name).Scan(&child)
	switch {
	case err == nil:
		return fmt.Errorf("%s (parent of %s): %w", name, child, ErrHasChildren)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("select children of %s: %w", name, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM designs WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(r scanner) (Entry, error) {
	var (
		e       Entry
		updated int64
	)
	if err := r.Scan(&e.Name, &e.Parent, &e.Record, &updated); err != nil {
		return Entry{}, err
	}
	e.Updated = time.Unix(0, updated).UTC()
	return e, nil
}
