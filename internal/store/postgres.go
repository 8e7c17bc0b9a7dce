package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/mandalnilabja/BrowserOS/internal/logging"
)

// DBConfig holds connection and pool settings for the preference database.
type DBConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultDBConfig returns default database settings.
func DefaultDBConfig(url string) DBConfig {
	return DBConfig{
		URL:             url,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

// OpenDB connects to the preference database and configures the pool.
func OpenDB(cfg DBConfig) (*sqlx.DB, error) {
	conn, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return conn, nil
}

// PreferenceStore is the primary structured settings source, backed by the
// preferences table (name text primary key, value jsonb, updated_at). Reads
// go through a short-TTL cache; the store never writes.
type PreferenceStore struct {
	db    *sqlx.DB
	cache *payloadCache
	log   *logging.Logger
}

// PreferenceStoreOptions tunes the read-through cache.
type PreferenceStoreOptions struct {
	CacheSize int
	CacheTTL  time.Duration
}

// NewPreferenceStore creates the primary source. A nil db models an absent
// host capability: every read reports ErrUnavailable.
func NewPreferenceStore(db *sqlx.DB, opts PreferenceStoreOptions) *PreferenceStore {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 16
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Second
	}
	return &PreferenceStore{
		db:    db,
		cache: newPayloadCache(opts.CacheSize, opts.CacheTTL),
		log:   logging.New("preference-store"),
	}
}

// Name identifies the source in fallback diagnostics.
func (s *PreferenceStore) Name() string {
	return "preferences"
}

// Read returns the raw JSON payload stored under the preference name.
func (s *PreferenceStore) Read(ctx context.Context, key string) ([]byte, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}

	if payload, ok := s.cache.get(key); ok {
		return payload, nil
	}

	var payload []byte
	query := `SELECT value FROM preferences WHERE name = $1`
	err := s.db.GetContext(ctx, &payload, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read preference %q: %w", key, err)
	}

	s.cache.set(key, payload)
	return payload, nil
}

// Invalidate drops any cached payload for the key. Exposed for callers that
// know the preference changed underneath them.
func (s *PreferenceStore) Invalidate(key string) {
	s.cache.invalidate(key)
}

// Ping checks database reachability.
func (s *PreferenceStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrUnavailable
	}
	return s.db.PingContext(ctx)
}
