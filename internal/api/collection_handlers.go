package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gamesync/gamesync-server/internal/domain"
)

func (s *Server) registerCollectionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCollection",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{kind}",
		Summary:     "Get collection",
		Description: "Returns the caller's owned games or wishlist",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "addToCollection",
		Method:      http.MethodPut,
		Path:        "/api/v1/collections/{kind}/games/{gameID}",
		Summary:     "Add game to collection",
		Description: "Adds a game. Adding to owned removes it from the wishlist.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddToCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFromCollection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collections/{kind}/games/{gameID}",
		Summary:     "Remove game from collection",
		Description: "Removes a game from the collection",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromCollection)
}

// GetCollectionInput addresses one of the caller's collections.
type GetCollectionInput struct {
	Kind string `path:"kind" doc:"owned or wishlist"`
}

// CollectionGameInput addresses a game within a collection.
type CollectionGameInput struct {
	Kind   string `path:"kind" doc:"owned or wishlist"`
	GameID string `path:"gameID" doc:"Game ID"`
}

// CollectionOutput wraps a collection for Huma.
type CollectionOutput struct {
	Body *domain.Collection
}

func (s *Server) handleGetCollection(ctx context.Context, input *GetCollectionInput) (*CollectionOutput, error) {
	actor, err := GetActor(ctx)
	if err != nil {
		return nil, toAPIError(err)
	}

	c, err := s.services.Collections.Get(ctx, actor.UserID, domain.CollectionKind(input.Kind))
	if err != nil {
		return nil, toAPIError(err)
	}
	return &CollectionOutput{Body: c}, nil
}

func (s *Server) handleAddToCollection(ctx context.Context, input *CollectionGameInput) (*CollectionOutput, error) {
	actor, err := GetActor(ctx)
	if err != nil {
		return nil, toAPIError(err)
	}

	c, err := s.services.Collections.Add(ctx, actor.UserID, domain.CollectionKind(input.Kind), input.GameID)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &CollectionOutput{Body: c}, nil
}

func (s *Server) handleRemoveFromCollection(ctx context.Context, input *CollectionGameInput) (*CollectionOutput, error) {
	actor, err := GetActor(ctx)
	if err != nil {
		return nil, toAPIError(err)
	}

	c, err := s.services.Collections.Remove(ctx, actor.UserID, domain.CollectionKind(input.Kind), input.GameID)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &CollectionOutput{Body: c}, nil
}
