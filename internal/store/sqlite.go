package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const kvTable = "kv"

// SQLite is a KV backed by a single SQLite table.
type SQLite struct {
	db  *sql.DB
	drv *entsql.Driver
	now func() time.Time
}

// Option configures a SQLite store.
type Option func(*SQLite)

// WithClock sets the clock used to stamp updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *SQLite) { s.now = now }
}

var _ KV = (*SQLite)(nil)

// Open connects to the SQLite database at dsn, applies pragmas and
// creates the document table if needed.
func Open(dsn string, opts ...Option) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them applied.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &SQLite{db: db, drv: entsql.OpenDB(dialect.SQLite, db), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

func (s *SQLite) Close() error {
	return s.drv.Close()
}

const createKV = "CREATE TABLE IF NOT EXISTS `kv` (" +
	"`key` TEXT NOT NULL PRIMARY KEY, " +
	"`value` TEXT NOT NULL, " +
	"`updated_at` DATETIME NOT NULL)"

func (s *SQLite) migrate(ctx context.Context) error {
	return s.drv.Exec(ctx, createKV, []any{}, nil)
}

// UpdatedAt reports when key was last saved; false if it is absent.
func (s *SQLite) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("updated_at").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("key", key)).
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return time.Time{}, false, fmt.Errorf("%w: load %s: %w", ErrUnavailable, key, err)
	}
	defer rows.Close()
	if !rows.Next() {
		return time.Time{}, false, rows.Err()
	}
	var at time.Time
	if err := rows.Scan(&at); err != nil {
		return time.Time{}, false, fmt.Errorf("%w: scan %s: %w", ErrUnavailable, key, err)
	}
	return at, true, nil
}

func (s *SQLite) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, string(raw), s.now().UTC()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrUnavailable, key, err)
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, key string, dst any) (bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("key", key)).
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return false, fmt.Errorf("%w: load %s: %w", ErrUnavailable, key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return false, fmt.Errorf("%w: load %s: %w", ErrUnavailable, key, err)
		}
		return false, nil
	}

	var raw string
	if err := rows.Scan(&raw); err != nil {
		return false, fmt.Errorf("%w: scan %s: %w", ErrUnavailable, key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *SQLite) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	vals := make([]any, len(keys))
	for i, k := range keys {
		vals[i] = k
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Delete(kvTable).
		Where(entsql.In("key", vals...)).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("%w: delete: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLite) Keys(ctx context.Context) ([]string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("key").
		From(entsql.Table(kvTable)).
		OrderBy("key").
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("%w: keys: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("%w: scan key: %w", ErrUnavailable, err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *SQLite) Size(ctx context.Context) (int64, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("COALESCE(SUM(LENGTH(CAST(value AS BLOB))), 0)").
		From(entsql.Table(kvTable)).
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, fmt.Errorf("%w: size: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("%w: scan size: %w", ErrUnavailable, err)
		}
	}
	return n, rows.Err()
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. ODYSSEY_DB environment variable
// 2. $XDG_DATA_HOME/odyssey/odyssey.db
// 3. ~/.local/share/odyssey/odyssey.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("ODYSSEY_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "odyssey", "odyssey.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
