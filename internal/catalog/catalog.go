// Package catalog is the read-through cache of the game library and tag records.
// One Catalog lives for the whole process; services read from it and call
// Invalidate after every committed write.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/gamesync/gamesync-server/internal/docstore"
	"github.com/gamesync/gamesync-server/internal/domain"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
)

// Snapshot is a games and tags view read together.
type Snapshot struct {
	Games []domain.Game
	Tags  []domain.Tag
}

type entry[T any] struct {
	items  []T
	loaded bool
}

// Catalog caches the games and tags collections.
// Returned slices are copies; the games inside share their Tags backing
// arrays with the cache and must be treated as read-only.
type Catalog struct {
	store  docstore.Store
	logger *slog.Logger
	group  singleflight.Group

	mu         sync.RWMutex
	generation uint64
	games      entry[domain.Game]
	tags       entry[domain.Tag]
}

// New creates an empty catalog. Nothing is read until first use.
func New(store docstore.Store, logger *slog.Logger) *Catalog {
	return &Catalog{store: store, logger: logger}
}

// Games returns the cached games, loading them on first use.
func (c *Catalog) Games(ctx context.Context) ([]domain.Game, error) {
	return fill(ctx, c, docstore.Games, &c.games)
}

// Tags returns the cached tag records, loading them on first use.
func (c *Catalog) Tags(ctx context.Context) ([]domain.Tag, error) {
	return fill(ctx, c, docstore.Tags, &c.tags)
}

// Snapshot returns games and tags, loading both concurrently when needed.
func (c *Catalog) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Games, err = c.Games(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Tags, err = c.Tags(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Fresh drops the cache and reads a new snapshot straight from the store.
// Write paths that compute a write set from the snapshot use it.
func (c *Catalog) Fresh(ctx context.Context) (Snapshot, error) {
	c.Invalidate()
	return c.Snapshot(ctx)
}

// Invalidate drops everything cached. Loads already in flight are discarded.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.games = entry[domain.Game]{}
	c.tags = entry[domain.Tag]{}
}

func fill[T any](ctx context.Context, c *Catalog, collection string, e *entry[T]) ([]T, error) {
	c.mu.RLock()
	if e.loaded {
		items := slices.Clone(e.items)
		c.mu.RUnlock()
		return items, nil
	}
	gen := c.generation
	c.mu.RUnlock()

	key := fmt.Sprintf("%s:%d", collection, gen)
	v, err, _ := c.group.Do(key, func() (any, error) {
		docs, err := c.store.ReadAll(ctx, collection)
		if err != nil {
			return nil, domainerrors.Store(err, "read "+collection)
		}
		items, err := docstore.DecodeAll[T](docs)
		if err != nil {
			return nil, domainerrors.Store(err, "decode "+collection)
		}

		c.mu.Lock()
		if c.generation == gen {
			e.items = items
			e.loaded = true
		}
		c.mu.Unlock()

		c.logger.Debug("catalog loaded", "collection", collection, "count", len(items))
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]T)), nil
}
