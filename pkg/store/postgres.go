package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTable is the PostgreSQL table used when none is configured.
const DefaultTable = "waypoint_documents"

// PostgresStore keeps the document in one row of a table:
//
//	CREATE TABLE waypoint_documents (
//	    name       text PRIMARY KEY,
//	    body       text NOT NULL,
//	    updated_at timestamptz NOT NULL DEFAULT now()
//	)
//
// The table is created on the first Save if it does not exist.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string // sanitized identifier
	name  string

	tableReady bool
}

// NewPostgresStore creates a pool for cfg.DSN. No connection is opened
// until the first query.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("postgres config: %w", err)
	}
	name, err := documentKey(cfg.Name, DefaultKey)
	if err != nil {
		return nil, err
	}
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	return &PostgresStore{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
		name:  name,
	}, nil
}

// Load selects the document row. A missing row or table is ErrNotFound.
func (s *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	var body string
	err := s.pool.QueryRow(ctx, "SELECT body FROM "+s.table+" WHERE name = $1", s.name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) || isUndefinedTable(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres select %s: %w", s.name, err)
	}
	return []byte(body), nil
}

// Save upserts the document row.
func (s *PostgresStore) Save(ctx context.Context, data []byte) error {
	if err := s.ensureTable(ctx); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		"INSERT INTO "+s.table+" (name, body, updated_at) VALUES ($1, $2, now()) "+
			"ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at",
		s.name, string(data),
	)
	if err != nil {
		return fmt.Errorf("postgres upsert %s: %w", s.name, err)
	}
	return nil
}

func (s *PostgresStore) ensureTable(ctx context.Context) error {
	if s.tableReady {
		return nil
	}
	_, err := s.pool.Exec(ctx, "CREATE TABLE IF NOT EXISTS "+s.table+
		" (name text PRIMARY KEY, body text NOT NULL, updated_at timestamptz NOT NULL DEFAULT now())")
	if err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	s.tableReady = true
	return nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) String() string {
	return fmt.Sprintf("postgres:%s/%s", s.table, s.name)
}

// isUndefinedTable reports SQLSTATE 42P01, returned before the first Save
// has created the table.
func isUndefinedTable(err error) bool {
	var coded interface{ SQLState() string }
	return errors.As(err, &coded) && coded.SQLState() == "42P01"
}

var _ Store = (*PostgresStore)(nil)
