package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gamesync/gamesync-server/internal/docstore"
	"github.com/gamesync/gamesync-server/internal/domain"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
)

// CollectionService manages each user's owned games and wishlist.
type CollectionService struct {
	store  docstore.Store
	logger *slog.Logger

	// Serializes find-or-create per process.
	mu sync.Mutex
}

// NewCollectionService creates a new collection service.
func NewCollectionService(store docstore.Store, logger *slog.Logger) *CollectionService {
	return &CollectionService{
		store:  store,
		logger: logger,
	}
}

// Get returns the user's collection of kind. A user who never added a game
// gets an empty, unsaved collection.
func (s *CollectionService) Get(ctx context.Context, userID string, kind domain.CollectionKind) (*domain.Collection, error) {
	if !kind.Valid() {
		return nil, domainerrors.Validationf("unknown collection kind %q", kind)
	}
	all, err := listRecords[domain.Collection](ctx, s.store, docstore.Collections)
	if err != nil {
		return nil, err
	}
	if c := findCollection(all, userID, kind); c != nil {
		return c, nil
	}
	return &domain.Collection{UserID: userID, Kind: kind, GameIDs: []string{}}, nil
}

// Add puts a game into the user's collection. Adding to owned also takes the
// game off the wishlist, in the same batch.
func (s *CollectionService) Add(ctx context.Context, userID string, kind domain.CollectionKind, gameID string) (*domain.Collection, error) {
	if !kind.Valid() {
		return nil, domainerrors.Validationf("unknown collection kind %q", kind)
	}
	if _, err := getRecord[domain.Game](ctx, s.store, docstore.Games, gameID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := listRecords[domain.Collection](ctx, s.store, docstore.Collections)
	if err != nil {
		return nil, err
	}

	target, err := s.findOrCreate(ctx, all, userID, kind)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var ops []docstore.Op
	if target.AddGame(gameID) {
		target.UpdatedAt = now
		ops = append(ops, collectionOp(target))
	}
	if kind == domain.CollectionOwned {
		if wishlist := findCollection(all, userID, domain.CollectionWishlist); wishlist != nil && wishlist.RemoveGame(gameID) {
			wishlist.UpdatedAt = now
			ops = append(ops, collectionOp(wishlist))
		}
	}
	if len(ops) == 0 {
		return target, nil
	}

	if err := s.store.AtomicBatch(ctx, ops); err != nil {
		return nil, storeError(err, docstore.Collections, target.ID)
	}

	s.logger.Info("game added to collection", "user_id", userID, "kind", kind, "game_id", gameID)
	return target, nil
}

// Remove takes a game out of the user's collection.
func (s *CollectionService) Remove(ctx context.Context, userID string, kind domain.CollectionKind, gameID string) (*domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Get(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	if c.ID == "" || !c.RemoveGame(gameID) {
		return c, nil
	}

	c.UpdatedAt = time.Now()
	if err := updateFields(ctx, s.store, docstore.Collections, c.ID, map[string]any{
		"game_ids":   c.GameIDs,
		"updated_at": c.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("game removed from collection", "user_id", userID, "kind", kind, "game_id", gameID)
	return c, nil
}

func (s *CollectionService) findOrCreate(ctx context.Context, all []domain.Collection, userID string, kind domain.CollectionKind) (*domain.Collection, error) {
	if c := findCollection(all, userID, kind); c != nil {
		return c, nil
	}

	c := &domain.Collection{UserID: userID, Kind: kind, GameIDs: []string{}}
	c.InitTimestamps()

	docID, err := createRecord(ctx, s.store, docstore.Collections, c)
	if err != nil {
		return nil, err
	}
	c.ID = docID
	return c, nil
}

func findCollection(all []domain.Collection, userID string, kind domain.CollectionKind) *domain.Collection {
	for i := range all {
		if all[i].UserID == userID && all[i].Kind == kind {
			return &all[i]
		}
	}
	return nil
}

func collectionOp(c *domain.Collection) docstore.Op {
	return docstore.UpdateOp(docstore.Collections, c.ID, map[string]any{
		"game_ids":   c.GameIDs,
		"updated_at": c.UpdatedAt,
	})
}
