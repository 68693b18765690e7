package aliases

import (
	"context"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/tracing"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Lister loads the full alias table.
type Lister interface {
	ListItemAliases(ctx context.Context) ([]models.ItemAlias, error)
}

// Store serves alias-cache snapshots with a TTL. Readers always get a
// complete snapshot; reload swaps the pointer, never mutates in place.
type Store struct {
	mu       sync.RWMutex
	lister   Lister
	logger   ectologger.Logger
	ttl      time.Duration
	now      func() time.Time
	cache    *Cache
	loadedAt time.Time
}

// NewStore creates a Store with the given snapshot TTL.
func NewStore(lister Lister, logger ectologger.Logger, ttl time.Duration) *Store {
	return &Store{
		lister: lister,
		logger: logger,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Get returns the current snapshot, reloading when the TTL has lapsed. A
// failed reload falls back to the previous snapshot if one exists.
func (s *Store) Get(ctx context.Context) (*Cache, error) {
	ctx, span := tracing.StartSpan(ctx, "AliasStore.Get")
	defer span.End()

	s.mu.RLock()
	cache, fresh := s.cache, s.isFresh()
	s.mu.RUnlock()
	if cache != nil && fresh {
		return cache, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache != nil && s.isFresh() {
		return s.cache, nil
	}

	log := s.logger.WithContext(ctx)
	rows, err := s.lister.ListItemAliases(ctx)
	if err != nil {
		if s.cache != nil {
			log.WithError(err).Warn("alias reload failed, serving stale snapshot")
			return s.cache, nil
		}
		log.WithError(err).Error("alias load failed with no snapshot to fall back on")
		return nil, err
	}

	s.cache = BuildCache(rows)
	s.loadedAt = s.now()
	log.WithFields(map[string]any{"aliases": s.cache.Size()}).Info("alias snapshot reloaded")
	return s.cache, nil
}

// Invalidate forces the next Get to reload. Called after alias writes so a
// confirmation is visible to the very next resolution.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadedAt = time.Time{}
}

func (s *Store) isFresh() bool {
	return !s.loadedAt.IsZero() && s.now().Sub(s.loadedAt) < s.ttl
}
