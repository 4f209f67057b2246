package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gamesync/gamesync-server/internal/domain"
	"github.com/gamesync/gamesync-server/internal/search"
	"github.com/gamesync/gamesync-server/internal/service"
	"github.com/gamesync/gamesync-server/internal/taxonomy"
)

func (s *Server) registerGameRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/games",
		Summary:     "List games",
		Description: "Returns library games matching a name query and every selected tag",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/search",
		Summary:     "Search games",
		Description: "Full-text search over game names, descriptions and tags",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGameFilterBadges",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/filters",
		Summary:     "Active filter badges",
		Description: "Returns the badges to display for the selected tag filter",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFilterBadges)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGame",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/{id}",
		Summary:     "Get game",
		Description: "Returns a game by ID",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "createGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/games",
		Summary:     "Create game",
		Description: "Adds a game to the library. Unknown tags are created. Admin only.",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGame",
		Method:      http.MethodPatch,
		Path:        "/api/v1/games/{id}",
		Summary:     "Update game",
		Description: "Changes descriptive fields of a game. Admin only.",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "setGameTags",
		Method:      http.MethodPut,
		Path:        "/api/v1/games/{id}/tags",
		Summary:     "Set game tags",
		Description: "Replaces a game's tag list. Admin only.",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetGameTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGame",
		Method:      http.MethodDelete,
		Path:        "/api/v1/games/{id}",
		Summary:     "Delete game",
		Description: "Removes a game and drops it from every collection. Admin only.",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteGame)
}

// === DTOs ===

// ListGamesInput contains parameters for listing games.
type ListGamesInput struct {
	Query string   `query:"q" doc:"Case-insensitive name substring"`
	Tags  []string `query:"tag,explode" doc:"Tag filter as category:name, repeatable; all must match"`
}

// ListGamesOutput wraps the game list for Huma.
type ListGamesOutput struct {
	Body struct {
		Games []domain.Game `json:"games" doc:"Matching games"`
		Total int           `json:"total" doc:"Number of matching games"`
	}
}

// SearchGamesInput contains full-text search parameters.
type SearchGamesInput struct {
	Query       string   `query:"q" doc:"Search text"`
	Tags        []string `query:"tag,explode" doc:"Tag filter as category:name, repeatable"`
	Players     int      `query:"players" minimum:"0" doc:"Only games that support this many players"`
	MaxPlayTime int      `query:"max_play_time" minimum:"0" doc:"Maximum play time in minutes"`
	Sort        string   `query:"sort" enum:"relevance,name,recent" default:"relevance" doc:"Sort order"`
	Limit       int      `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Page size"`
	Offset      int      `query:"offset" minimum:"0" doc:"Page offset"`
	Facets      bool     `query:"facets" doc:"Include tag facet counts"`
}

// SearchGamesOutput wraps the search result for Huma.
type SearchGamesOutput struct {
	Body *search.Result
}

// FilterBadgesInput contains the active tag filter.
type FilterBadgesInput struct {
	Tags []string `query:"tag,explode" doc:"Tag filter as category:name, repeatable"`
}

// FilterBadgesOutput wraps the badge list for Huma.
type FilterBadgesOutput struct {
	Body struct {
		Badges []taxonomy.Badge `json:"badges" doc:"One badge per selected tag, in category order"`
	}
}

// GameIDInput addresses a single game.
type GameIDInput struct {
	ID string `path:"id" doc:"Game ID"`
}

// GameOutput wraps a single game for Huma.
type GameOutput struct {
	Body *domain.Game
}

// CreateGameInput wraps the create game request for Huma.
type CreateGameInput struct {
	Body struct {
		Name            string   `json:"name" doc:"Game name" maxLength:"200"`
		Description     string   `json:"description,omitempty" doc:"Description"`
		MinPlayers      int      `json:"min_players,omitempty" minimum:"0" doc:"Minimum players"`
		MaxPlayers      int      `json:"max_players,omitempty" minimum:"0" doc:"Maximum players; 0 means open"`
		PlayTimeMinutes int      `json:"play_time_minutes,omitempty" minimum:"0" doc:"Typical play time"`
		ImageURL        string   `json:"image_url,omitempty" doc:"Cover image URL"`
		Tags            []string `json:"tags,omitempty" doc:"Tags as category:name"`
	}
}

// UpdateGameInput wraps the update game request for Huma.
type UpdateGameInput struct {
	ID   string `path:"id" doc:"Game ID"`
	Body service.UpdateGameRequest
}

// SetGameTagsInput wraps the replacement tag list for Huma.
type SetGameTagsInput struct {
	ID   string `path:"id" doc:"Game ID"`
	Body struct {
		Tags []string `json:"tags" doc:"Tags as category:name; an empty list clears the tags"`
	}
}

// === Handlers ===

func (s *Server) handleListGames(ctx context.Context, input *ListGamesInput) (*ListGamesOutput, error) {
	if _, err := GetActor(ctx); err != nil {
		return nil, toAPIError(err)
	}

	refs, err := parseTagQuery(input.Tags)
	if err != nil {
		return nil, toAPIError(err)
	}

	games, err := s.services.Games.List(ctx, service.GameFilter{Search: input.Query, Tags: refs})
	if err != nil {
		return nil, toAPIError(err)
	}

	resp := &ListGamesOutput{}
	resp.Body.Games = games
	resp.Body.Total = len(games)
	return resp, nil
}

func (s *Server) handleSearchGames(ctx context.Context, input *SearchGamesInput) (*SearchGamesOutput, error) {
	if _, err := GetActor(ctx); err != nil {
		return nil, toAPIError(err)
	}

	refs, err := parseTagQuery(input.Tags)
	if err != nil {
		return nil, toAPIError(err)
	}

	params := search.DefaultParams()
	params.Query = input.Query
	params.Tags = refs
	params.Players = input.Players
	params.MaxPlayTime = input.MaxPlayTime
	params.SortBy = input.Sort
	params.Offset = input.Offset
	params.IncludeFacets = input.Facets
	if input.Limit > 0 {
		params.Limit = input.Limit
	}

	res, err := s.services.Games.Search(ctx, params)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &SearchGamesOutput{Body: res}, nil
}

func (s *Server) handleFilterBadges(ctx context.Context, input *FilterBadgesInput) (*FilterBadgesOutput, error) {
	if _, err := GetActor(ctx); err != nil {
		return nil, toAPIError(err)
	}

	refs, err := parseTagQuery(input.Tags)
	if err != nil {
		return nil, toAPIError(err)
	}

	resp := &FilterBadgesOutput{}
	resp.Body.Badges = s.services.Games.FilterBadges(refs)
	return resp, nil
}

func (s *Server) handleGetGame(ctx context.Context, input *GameIDInput) (*GameOutput, error) {
	if _, err := GetActor(ctx); err != nil {
		return nil, toAPIError(err)
	}

	game, err := s.services.Games.Get(ctx, input.ID)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &GameOutput{Body: game}, nil
}

func (s *Server) handleCreateGame(ctx context.Context, input *CreateGameInput) (*GameOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, toAPIError(err)
	}

	game, err := s.services.Games.Create(ctx, service.CreateGameRequest{
		Name:            input.Body.Name,
		Description:     input.Body.Description,
		MinPlayers:      input.Body.MinPlayers,
		MaxPlayers:      input.Body.MaxPlayers,
		PlayTimeMinutes: input.Body.PlayTimeMinutes,
		ImageURL:        input.Body.ImageURL,
		Tags:            input.Body.Tags,
	})
	if err != nil {
		return nil, toAPIError(err)
	}
	return &GameOutput{Body: game}, nil
}

func (s *Server) handleUpdateGame(ctx context.Context, input *UpdateGameInput) (*GameOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, toAPIError(err)
	}

	game, err := s.services.Games.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &GameOutput{Body: game}, nil
}

func (s *Server) handleSetGameTags(ctx context.Context, input *SetGameTagsInput) (*GameOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, toAPIError(err)
	}

	game, err := s.services.Games.SetTags(ctx, input.ID, service.SetTagsRequest{Tags: input.Body.Tags})
	if err != nil {
		return nil, toAPIError(err)
	}
	return &GameOutput{Body: game}, nil
}

func (s *Server) handleDeleteGame(ctx context.Context, input *GameIDInput) (*MessageOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, toAPIError(err)
	}

	if err := s.services.Games.Delete(ctx, input.ID); err != nil {
		return nil, toAPIError(err)
	}
	return &MessageOutput{Body: MessageResponse{Message: "game deleted"}}, nil
}
