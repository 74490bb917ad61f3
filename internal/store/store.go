// Package store composes the cache engine with operation counters and the
// snapshot-file lifecycle: load on construction, save on Close or on demand.
// All data operations delegate to the engine; the facade adds no locking of
// its own.
package store

import (
	"fmt"
	"log/slog"

	"kvstore/internal/cache"
	"kvstore/internal/logger"
)

// Config controls store construction.
type Config struct {
	// Capacity is the maximum number of entries; must be at least 1.
	Capacity int

	// SnapshotPath is the file used for load-on-start and save-on-close.
	// Empty disables persistence entirely.
	SnapshotPath string

	// Logger receives lifecycle events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Store is a bounded LRU key-value store with per-instance metrics and
// optional snapshot persistence.
type Store struct {
	cache        *cache.Cache
	metrics      *metrics
	snapshotPath string
	log          *slog.Logger
}

// New builds a store. When a snapshot path is configured it attempts to load
// the file; a missing or unusable snapshot is not fatal, the store simply
// starts empty.
func New(cfg Config) (*Store, error) {
	c, err := cache.New(cfg.Capacity)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Store{
		cache:        c,
		metrics:      newMetrics(),
		snapshotPath: cfg.SnapshotPath,
		log:          log,
	}

	if s.snapshotPath != "" {
		loaded, err := c.LoadSnapshot(s.snapshotPath)
		switch {
		case err != nil:
			log.Warn("snapshot load failed, starting empty",
				logger.Error(err), slog.String("path", s.snapshotPath))
		case loaded:
			log.Info("snapshot loaded",
				slog.String("path", s.snapshotPath), logger.Count("entries", c.Len()))
		}
	}

	return s, nil
}

// Close saves a final snapshot when persistence is configured. A save
// failure is logged and swallowed; at teardown there is no caller left to
// act on it.
func (s *Store) Close() {
	if s.snapshotPath == "" {
		return
	}
	if err := s.cache.SaveSnapshot(s.snapshotPath); err != nil {
		s.log.Error("snapshot save on close failed",
			logger.Error(err), slog.String("path", s.snapshotPath))
		return
	}
	s.log.Info("snapshot saved",
		slog.String("path", s.snapshotPath), logger.Count("entries", s.cache.Len()))
}

// Get retrieves a value, counting the operation as a hit or a miss.
func (s *Store) Get(key string) ([]byte, bool) {
	s.metrics.totalOps.Inc()

	value, ok := s.cache.Get(key)
	if ok {
		s.metrics.hits.Inc()
	} else {
		s.metrics.misses.Inc()
	}
	return value, ok
}

// Put stores a key-value pair, counting an eviction when the engine
// reports one.
func (s *Store) Put(key string, value []byte) {
	s.metrics.totalOps.Inc()
	if s.cache.Put(key, value) {
		s.metrics.evictions.Inc()
	}
}

// Remove deletes a key if present. Removals do not touch the hit/miss
// counters.
func (s *Store) Remove(key string) bool {
	s.metrics.totalOps.Inc()
	return s.cache.Remove(key)
}

// Clear drops all entries and resets every counter, including the start
// time used for the throughput rate.
func (s *Store) Clear() {
	s.cache.Clear()
	s.metrics.reset()
}

// Len returns the number of entries currently stored.
func (s *Store) Len() int { return s.cache.Len() }

// Empty reports whether the store holds no entries.
func (s *Store) Empty() bool { return s.cache.Empty() }

// Capacity returns the configured maximum number of entries.
func (s *Store) Capacity() int { return s.cache.Capacity() }

// Keys returns all keys ordered from most to least recently used.
func (s *Store) Keys() []string { return s.cache.Keys() }

// SaveSnapshot writes the current content to the configured snapshot path.
// It is a no-op when no path is configured. I/O errors propagate.
func (s *Store) SaveSnapshot() error {
	if s.snapshotPath == "" {
		return nil
	}
	return s.cache.SaveSnapshot(s.snapshotPath)
}

// LoadSnapshot replaces the current content from the configured snapshot
// path. It reports false when no path is configured or the file could not
// be used.
func (s *Store) LoadSnapshot() (bool, error) {
	if s.snapshotPath == "" {
		return false, nil
	}
	return s.cache.LoadSnapshot(s.snapshotPath)
}

// Metrics returns a point-in-time view of the operation counters.
func (s *Store) Metrics() MetricsSnapshot {
	return s.metrics.snapshot()
}
