package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
)

const (
	DefaultSQLiteBusyTimeout = 5 * time.Second
	defaultMaxOpenConns      = 10
)

// SQLClient is satisfied by both *sql.DB and *sql.Tx, so the query helpers below can run
// inside or outside a transaction.
type SQLClient interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Store is a jobstore.Store backed by SQLite or Postgres.
type Store struct {
	db      *sql.DB
	dialect dialect
	clock   clock.Clock
}

type Option func(*config)

type config struct {
	maxOpenConns int
	migrate      bool
	clock        clock.Clock
}

// WithMaxOpenConns bounds the connection pool. SQLite stores always use a single connection.
func WithMaxOpenConns(n int) Option {
	return func(c *config) {
		c.maxOpenConns = n
	}
}

// WithClock sets the clock used when a request carries no timestamp.
func WithClock(c clock.Clock) Option {
	return func(cfg *config) {
		cfg.clock = c
	}
}

// WithoutMigrations skips applying the schema migrations on open.
func WithoutMigrations() Option {
	return func(c *config) {
		c.migrate = false
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{maxOpenConns: defaultMaxOpenConns, migrate: true, clock: clock.New()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NewSQLite opens (and creates if needed) a SQLite store at path.
func NewSQLite(path string, opts ...Option) (*Store, error) {
	cfg := newConfig(opts)
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
		path, DefaultSQLiteBusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store at %s: %w", path, err)
	}
	// a single connection serializes writers and keeps claims free of SQLITE_BUSY
	db.SetMaxOpenConns(1)
	return newStore(db, sqliteDialect, cfg)
}

// NewPostgres opens a store on a shared Postgres database.
func NewPostgres(dsn string, opts ...Option) (*Store, error) {
	cfg := newConfig(opts)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres store: %w", err)
	}
	db.SetMaxOpenConns(cfg.maxOpenConns)
	db.SetMaxIdleConns(cfg.maxOpenConns)
	return newStore(db, postgresDialect, cfg)
}

func newStore(db *sql.DB, d dialect, cfg *config) (*Store, error) {
	s := &Store{db: db, dialect: d, clock: cfg.clock}
	if cfg.migrate {
		if err := s.MigrateUp(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	//nolint:errcheck
	defer tx.Rollback()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Close(ctx context.Context) error {
	log.Ctx(ctx).Debug().Str("dialect", s.dialect.name).Msg("closing job store")
	return s.db.Close()
}

// DB exposes the underlying handle for tests and tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// nowOr lets callers omit the timestamp of a request.
func (s *Store) nowOr(t time.Time) time.Time {
	if t.IsZero() {
		return s.clock.Now()
	}
	return t
}

// compile-time check whether the Store implementation satisfies the interface.
var _ jobstore.Store = (*Store)(nil)
