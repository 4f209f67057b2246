package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/gamesync/gamesync-server/internal/catalog"
	"github.com/gamesync/gamesync-server/internal/docstore"
	"github.com/gamesync/gamesync-server/internal/domain"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/search"
	"github.com/gamesync/gamesync-server/internal/taxonomy"
	"github.com/gamesync/gamesync-server/internal/validation"
)

// GameService orchestrates the shared game library.
type GameService struct {
	store     docstore.Store
	catalog   *catalog.Catalog
	manager   *taxonomy.Manager
	index     GameIndexer
	validator *validation.Validator
	logger    *slog.Logger
}

// NewGameService creates a new game service.
func NewGameService(store docstore.Store, cat *catalog.Catalog, manager *taxonomy.Manager, index GameIndexer, logger *slog.Logger) *GameService {
	return &GameService{
		store:     store,
		catalog:   cat,
		manager:   manager,
		index:     index,
		validator: validation.New(),
		logger:    logger,
	}
}

// GameFilter narrows a library listing.
type GameFilter struct {
	Search string
	Tags   []domain.TagRef
}

// List returns the games matching filter, in library order.
func (s *GameService) List(ctx context.Context, filter GameFilter) ([]domain.Game, error) {
	games, err := s.catalog.Games(ctx)
	if err != nil {
		return nil, err
	}
	return taxonomy.FilterGames(games, taxonomy.NewSelection(filter.Tags...), filter.Search), nil
}

// FilterBadges returns the chips to show for the active tag filter.
func (s *GameService) FilterBadges(tags []domain.TagRef) []taxonomy.Badge {
	return s.manager.DeriveActiveFilterBadges(taxonomy.NewSelection(tags...))
}

// Get returns a single game.
func (s *GameService) Get(ctx context.Context, gameID string) (*domain.Game, error) {
	return getRecord[domain.Game](ctx, s.store, docstore.Games, gameID)
}

// Search runs a full-text query against the index.
func (s *GameService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	if s.index == nil {
		return nil, domainerrors.Unavailable("search is not available")
	}
	res, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search games")
	}
	return res, nil
}

// CreateGameRequest contains fields for creating a game.
type CreateGameRequest struct {
	Name            string   `json:"name" validate:"notblank,max=200"`
	Description     string   `json:"description" validate:"max=5000"`
	MinPlayers      int      `json:"min_players" validate:"gte=0,lte=100"`
	MaxPlayers      int      `json:"max_players" validate:"omitempty,lte=100,gtefield=MinPlayers"`
	PlayTimeMinutes int      `json:"play_time_minutes" validate:"gte=0,lte=10000"`
	ImageURL        string   `json:"image_url" validate:"omitempty,url"`
	Tags            []string `json:"tags" validate:"dive,tagref"`
}

// Create adds a game. Tags not yet curated are created on the way.
func (s *GameService) Create(ctx context.Context, req CreateGameRequest) (*domain.Game, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	refs, err := parseTagRefs(req.Tags)
	if err != nil {
		return nil, err
	}
	refs, err = s.ensureTags(ctx, refs)
	if err != nil {
		return nil, err
	}

	g := &domain.Game{
		Name:            req.Name,
		Description:     req.Description,
		MinPlayers:      req.MinPlayers,
		MaxPlayers:      req.MaxPlayers,
		PlayTimeMinutes: req.PlayTimeMinutes,
		ImageURL:        req.ImageURL,
		Tags:            refs,
	}
	g.InitTimestamps()

	g.ID, err = createRecord(ctx, s.store, docstore.Games, g)
	if err != nil {
		return nil, err
	}

	s.catalog.Invalidate()
	s.indexGame(g)

	s.logger.Info("game created", "game_id", g.ID, "name", g.Name, "tags", len(g.Tags))
	return g, nil
}

// UpdateGameRequest contains the game fields to change. Nil fields are kept.
type UpdateGameRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitnil,notblank,max=200"`
	Description     *string `json:"description,omitempty" validate:"omitnil,max=5000"`
	MinPlayers      *int    `json:"min_players,omitempty" validate:"omitnil,gte=0,lte=100"`
	MaxPlayers      *int    `json:"max_players,omitempty" validate:"omitnil,gte=0,lte=100"`
	PlayTimeMinutes *int    `json:"play_time_minutes,omitempty" validate:"omitnil,gte=0,lte=10000"`
	ImageURL        *string `json:"image_url,omitempty" validate:"omitnil,max=2000"`
}

// Update changes a game's descriptive fields. Tags go through SetTags.
func (s *GameService) Update(ctx context.Context, gameID string, req UpdateGameRequest) (*domain.Game, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	g, err := s.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		g.Name = *req.Name
		fields["name"] = g.Name
	}
	if req.Description != nil {
		g.Description = *req.Description
		fields["description"] = g.Description
	}
	if req.MinPlayers != nil {
		g.MinPlayers = *req.MinPlayers
		fields["min_players"] = g.MinPlayers
	}
	if req.MaxPlayers != nil {
		g.MaxPlayers = *req.MaxPlayers
		fields["max_players"] = g.MaxPlayers
	}
	if req.PlayTimeMinutes != nil {
		g.PlayTimeMinutes = *req.PlayTimeMinutes
		fields["play_time_minutes"] = g.PlayTimeMinutes
	}
	if req.ImageURL != nil {
		g.ImageURL = *req.ImageURL
		fields["image_url"] = g.ImageURL
	}
	if len(fields) == 0 {
		return g, nil
	}

	if g.MaxPlayers > 0 && g.MaxPlayers < g.MinPlayers {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"max_players": "must be greater than or equal to min_players",
		})
	}

	g.Touch()
	fields["updated_at"] = g.UpdatedAt
	if err := updateFields(ctx, s.store, docstore.Games, gameID, fields); err != nil {
		return nil, err
	}

	s.catalog.Invalidate()
	s.indexGame(g)

	s.logger.Info("game updated", "game_id", gameID, "fields", len(fields)-1)
	return g, nil
}

// SetTagsRequest replaces a game's tag list.
type SetTagsRequest struct {
	Tags []string `json:"tags" validate:"dive,tagref"`
}

// SetTags replaces a game's tags, creating any tag record that does not exist yet.
func (s *GameService) SetTags(ctx context.Context, gameID string, req SetTagsRequest) (*domain.Game, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	refs, err := parseTagRefs(req.Tags)
	if err != nil {
		return nil, err
	}

	g, err := s.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	refs, err = s.ensureTags(ctx, refs)
	if err != nil {
		return nil, err
	}

	g.Tags = refs
	g.Touch()
	if err := updateFields(ctx, s.store, docstore.Games, gameID, map[string]any{
		"tags":       g.Tags,
		"updated_at": g.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	s.catalog.Invalidate()
	s.indexGame(g)

	s.logger.Info("game tags set", "game_id", gameID, "tags", len(g.Tags))
	return g, nil
}

// Delete removes a game and drops it from every collection in one batch.
// Play sessions for the game are kept as history.
func (s *GameService) Delete(ctx context.Context, gameID string) error {
	if _, err := s.Get(ctx, gameID); err != nil {
		return err
	}

	collections, err := listRecords[domain.Collection](ctx, s.store, docstore.Collections)
	if err != nil {
		return err
	}

	now := time.Now()
	ops := []docstore.Op{docstore.DeleteOp(docstore.Games, gameID)}
	for i := range collections {
		c := &collections[i]
		if c.RemoveGame(gameID) {
			ops = append(ops, docstore.UpdateOp(docstore.Collections, c.ID, map[string]any{
				"game_ids":   c.GameIDs,
				"updated_at": now,
			}))
		}
	}

	if err := s.store.AtomicBatch(ctx, ops); err != nil {
		return storeError(err, docstore.Games, gameID)
	}

	s.catalog.Invalidate()
	if s.index != nil {
		if err := s.index.DeleteGame(gameID); err != nil {
			s.logger.Warn("failed to remove game from index", "game_id", gameID, "error", err)
		}
	}

	s.logger.Info("game deleted", "game_id", gameID, "collections_updated", len(ops)-1)
	return nil
}

// ensureTags resolves every ref to a curated tag, creating missing records.
// The result holds the normalized refs without duplicates, in input order.
func (s *GameService) ensureTags(ctx context.Context, refs []domain.TagRef) ([]domain.TagRef, error) {
	if len(refs) == 0 {
		return []domain.TagRef{}, nil
	}

	tags, err := listRecords[domain.Tag](ctx, s.store, docstore.Tags)
	if err != nil {
		return nil, err
	}

	out := make([]domain.TagRef, 0, len(refs))
	seen := make(map[domain.TagRef]bool, len(refs))
	created := false
	for _, ref := range refs {
		t, isNew, err := s.manager.EnsureTag(ctx, ref, tags)
		if err != nil {
			return nil, err
		}
		if isNew {
			tags = append(tags, t)
			created = true
		}
		if canonical := t.Ref(); !seen[canonical] {
			seen[canonical] = true
			out = append(out, canonical)
		}
	}

	if created {
		s.catalog.Invalidate()
	}
	return out, nil
}

func (s *GameService) indexGame(g *domain.Game) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexGame(g); err != nil {
		s.logger.Warn("failed to index game", "game_id", g.ID, "error", err)
	}
}
