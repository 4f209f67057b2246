package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/gamesync/gamesync-server/internal/auth"
	"github.com/gamesync/gamesync-server/internal/catalog"
	"github.com/gamesync/gamesync-server/internal/config"
	"github.com/gamesync/gamesync-server/internal/logger"
	"github.com/gamesync/gamesync-server/internal/service"
	"github.com/gamesync/gamesync-server/internal/suggest"
	"github.com/gamesync/gamesync-server/internal/taxonomy"
)

// ProvideTagService provides the tag service and bootstraps the taxonomy:
// stored categories are registered and, if enabled, the default tags seeded.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	cat := do.MustInvoke[*catalog.Catalog](i)
	manager := do.MustInvoke[*taxonomy.Manager](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewTagService(cat, manager, indexHandle.GameIndex, log.Logger)
	if err := svc.Bootstrap(context.Background(), cfg.Taxonomy.SeedDefaults); err != nil {
		return nil, err
	}

	log.Info("Tag taxonomy ready", "categories", len(manager.Registry().Categories()))
	return svc, nil
}

// ProvideGameService provides the game service.
func ProvideGameService(i do.Injector) (*service.GameService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cat := do.MustInvoke[*catalog.Catalog](i)
	manager := do.MustInvoke[*taxonomy.Manager](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGameService(storeHandle.Store, cat, manager, indexHandle.GameIndex, log.Logger), nil
}

// ProvidePlaySessionService provides the play session service.
func ProvidePlaySessionService(i do.Injector) (*service.PlaySessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPlaySessionService(storeHandle.Store, log.Logger), nil
}

// ProvideCollectionService provides the collection service.
func ProvideCollectionService(i do.Injector) (*service.CollectionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCollectionService(storeHandle.Store, log.Logger), nil
}

// ProvideUserService provides the user service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, tokens, log.Logger), nil
}

// ProvideSuggestionService provides the suggestion service.
func ProvideSuggestionService(i do.Injector) (*service.SuggestionService, error) {
	suggester := do.MustInvoke[suggest.Suggester](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSuggestionService(suggester, log.Logger), nil
}
