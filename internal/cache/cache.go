package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Gateway fronts every expensive lookup with a TTL'd key-value table in
// sqlite. It never surfaces a storage error: a broken or absent backing
// store degrades to always-miss reads and failed writes, logged at warn.
// Expired entries are treated as misses at read time; nothing purges them
// proactively.
type Gateway struct {
	db         *sql.DB
	defaultTTL time.Duration
	log        *zap.Logger
}

func New(db *sql.DB, defaultTTL time.Duration, log *zap.Logger) *Gateway {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{db: db, defaultTTL: defaultTTL, log: log}
}

// Key derives a stable cache key from a semantic input: the input is trimmed
// and lowercased before hashing, so identical requests map to the same key
// regardless of call site or process.
func Key(namespace, input string) string {
	norm := strings.ToLower(strings.TrimSpace(input))
	h := sha256.Sum256([]byte(namespace + ":" + norm))
	return hex.EncodeToString(h[:])
}

// Get returns the cached value and true on a fresh hit. Expired entries and
// store failures are both misses.
func (g *Gateway) Get(ctx context.Context, key string) ([]byte, bool) {
	if g == nil || g.db == nil {
		return nil, false
	}

	var value []byte
	var expiresAt string
	err := g.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cache_entries WHERE key = ?;`, key,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		g.log.Warn("cache read failed", zap.Error(err))
		return nil, false
	}

	exp, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil || !time.Now().UTC().Before(exp) {
		return nil, false
	}
	return value, true
}

// Set stores value under key. ttl <= 0 applies the default TTL. Returns
// false (never an error) when the write did not happen.
func (g *Gateway) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if g == nil || g.db == nil {
		return false
	}
	if ttl <= 0 {
		ttl = g.defaultTTL
	}

	now := time.Now().UTC()
	_, err := g.db.ExecContext(ctx, `
INSERT OR REPLACE INTO cache_entries(key, value, expires_at, created_at)
VALUES(?,?,?,?);`,
		key,
		value,
		now.Add(ttl).Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		g.log.Warn("cache write failed", zap.Error(err))
		return false
	}
	return true
}

func (g *Gateway) Delete(ctx context.Context, key string) {
	if g == nil || g.db == nil {
		return
	}
	if _, err := g.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?;`, key); err != nil {
		g.log.Warn("cache delete failed", zap.Error(err))
	}
}

func (g *Gateway) Clear(ctx context.Context) {
	if g == nil || g.db == nil {
		return
	}
	if _, err := g.db.ExecContext(ctx, `DELETE FROM cache_entries;`); err != nil {
		g.log.Warn("cache clear failed", zap.Error(err))
	}
}
