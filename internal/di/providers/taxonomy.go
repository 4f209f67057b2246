package providers

import (
	"github.com/samber/do/v2"

	"github.com/gamesync/gamesync-server/internal/catalog"
	"github.com/gamesync/gamesync-server/internal/config"
	"github.com/gamesync/gamesync-server/internal/logger"
	"github.com/gamesync/gamesync-server/internal/taxonomy"
)

// ProvideCatalog provides the shared read-through cache of games and tags.
func ProvideCatalog(i do.Injector) (*catalog.Catalog, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return catalog.New(storeHandle.Store, log.Logger), nil
}

// ProvideTaxonomyManager provides the tag taxonomy manager.
func ProvideTaxonomyManager(i do.Injector) (*taxonomy.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return taxonomy.NewManager(storeHandle.Store, taxonomy.NewRegistry(), cfg.CollationTag(), log.Logger), nil
}
