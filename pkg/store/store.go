// Package store provides byte-level backends for persisting one waypoint
// document.
//
// A [Store] holds exactly one document: it can load it and replace it.
// It knows nothing about waypoints; pkg/library encodes and decodes the
// document and uses a Store only to move bytes.
//
// # Backends
//
//   - [FileStore]: a local JSON file (the default, "waypoints.json")
//   - [MemoryStore]: in-process bytes, for tests and embedding
//   - [RedisStore]: one Redis string key
//   - [S3Store]: one object in an S3-compatible bucket (MinIO, AWS)
//   - [PostgresStore]: one row of a PostgreSQL table
//   - [MongoStore]: one document of a MongoDB collection
//
// Use [Open] to build the backend selected by a [Config]. Stores returned by
// Open report every load and save to the observability store hooks.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/waypoints/pkg/observability"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned by Load when the document does not exist yet.
	ErrNotFound = errors.New("document not found")

	// ErrClosed is returned when a closed store is used.
	ErrClosed = errors.New("store closed")
)

// Store persists a single document.
type Store interface {
	// Load returns the stored document.
	// Returns ErrNotFound if nothing has been saved yet.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored document.
	Save(ctx context.Context, data []byte) error

	// Close releases connections held by the store.
	Close() error

	// String names the backend and location, e.g. "file:waypoints.json".
	String() string
}

// instrumented reports every operation of the wrapped store to the
// observability store hooks.
type instrumented struct {
	Store
}

// Instrument wraps s so that loads and saves are reported to
// [observability.Store].
func Instrument(s Store) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{Store: s}
}

func (s *instrumented) Load(ctx context.Context) ([]byte, error) {
	start := time.Now()
	data, err := s.Store.Load(ctx)
	observability.Store().OnLoad(ctx, s.Store.String(), len(data), time.Since(start), err)
	return data, err
}

func (s *instrumented) Save(ctx context.Context, data []byte) error {
	start := time.Now()
	err := s.Store.Save(ctx, data)
	observability.Store().OnSave(ctx, s.Store.String(), len(data), time.Since(start), err)
	return err
}

// Open builds the store selected by cfg.Backend and wraps it with
// [Instrument]. Network backends are created without dialing; connection
// problems surface on the first Load or Save, which are retried with
// [WithRetry].
func Open(ctx context.Context, cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", BackendFile:
		s = NewFileStore(cfg.Path)
	case BackendMemory:
		s = NewMemoryStore(nil)
	case BackendRedis:
		s, err = NewRedisStore(cfg.Redis)
	case BackendS3:
		s, err = NewS3Store(cfg.S3)
	case BackendPostgres:
		s, err = NewPostgresStore(ctx, cfg.Postgres)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.Mongo)
	}
	if err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendRedis, BackendS3, BackendPostgres, BackendMongo:
		s = WithRetry(s, DefaultRetryAttempts, DefaultRetryDelay)
	}
	return Instrument(s), nil
}
