package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/gamesync/gamesync-server/internal/catalog"
	"github.com/gamesync/gamesync-server/internal/config"
	"github.com/gamesync/gamesync-server/internal/logger"
	"github.com/gamesync/gamesync-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.GameIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewGameIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{GameIndex: index}, nil
}

// TriggerSearchReindexIfNeeded rebuilds the index in the background when its
// document count disagrees with the store. The store is the source of truth.
// Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	cat := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx := context.Background()
	games, err := cat.Games(ctx)
	if err != nil {
		log.Warn("Skipping search reindex check", "error", err)
		return
	}

	docCount, _ := indexHandle.DocumentCount()
	if docCount == uint64(len(games)) {
		return
	}

	log.Info("Search index out of date, triggering reindex",
		"documents", docCount,
		"game_count", len(games),
	)

	go func() {
		if err := indexHandle.Rebuild(games); err != nil {
			log.Error("Search reindex failed", "error", err)
			return
		}
		count, _ := indexHandle.DocumentCount()
		log.Info("Search reindex completed", "documents", count)
	}()
}
