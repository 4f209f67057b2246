// Package di provides dependency injection configuration for the GameSync server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/gamesync/gamesync-server/internal/auth"
	"github.com/gamesync/gamesync-server/internal/catalog"
	"github.com/gamesync/gamesync-server/internal/config"
	"github.com/gamesync/gamesync-server/internal/di/providers"
	"github.com/gamesync/gamesync-server/internal/logger"
	"github.com/gamesync/gamesync-server/internal/service"
	"github.com/gamesync/gamesync-server/internal/suggest"
	"github.com/gamesync/gamesync-server/internal/taxonomy"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Persistence and caches
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideTaxonomyManager)
	do.Provide(injector, providers.ProvideSearchIndex)

	// External clients
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideSuggester)

	// Business services
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideGameService)
	do.Provide(injector, providers.ProvidePlaySessionService)
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideSuggestionService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	steps := []func() error{
		invoke[*config.Config](injector),
		invoke[*logger.Logger](injector),
		invoke[providers.AuthKey](injector),
		invoke[*providers.StoreHandle](injector),
		invoke[*catalog.Catalog](injector),
		invoke[*taxonomy.Manager](injector),
		invoke[*providers.SearchIndexHandle](injector),
		invoke[*auth.TokenService](injector),
		invoke[suggest.Suggester](injector),

		// Business services
		invoke[*service.TagService](injector),
		invoke[*service.GameService](injector),
		invoke[*service.PlaySessionService](injector),
		invoke[*service.CollectionService](injector),
		invoke[*service.UserService](injector),
		invoke[*service.SuggestionService](injector),
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	providers.TriggerSearchReindexIfNeeded(injector)

	_, err := do.Invoke[*providers.HTTPServerHandle](injector)
	return err
}

func invoke[T any](injector do.Injector) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}
