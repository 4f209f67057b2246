package api

import (
	"github.com/gamesync/gamesync-server/internal/docstore"
	"github.com/gamesync/gamesync-server/internal/search"
	"github.com/gamesync/gamesync-server/internal/service"
)

// Services bundles the services the handlers call.
// Store and Index are only read by the health check and may be nil.
type Services struct {
	Tags        *service.TagService
	Games       *service.GameService
	Sessions    *service.PlaySessionService
	Collections *service.CollectionService
	Users       *service.UserService
	Suggestions *service.SuggestionService

	Store docstore.Store
	Index *search.GameIndex
}
