package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/gamesync/gamesync-server/internal/catalog"
	"github.com/gamesync/gamesync-server/internal/domain"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/taxonomy"
	"github.com/gamesync/gamesync-server/internal/validation"
)

// TagService orchestrates tag curation. Mutations are admin-only; the API
// layer enforces that before calling in.
type TagService struct {
	catalog   *catalog.Catalog
	manager   *taxonomy.Manager
	index     GameIndexer
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(cat *catalog.Catalog, manager *taxonomy.Manager, index GameIndexer, logger *slog.Logger) *TagService {
	return &TagService{
		catalog:   cat,
		manager:   manager,
		index:     index,
		validator: validation.New(),
		logger:    logger,
	}
}

// Bootstrap registers the categories of stored tags and games and optionally
// seeds the default tag set. Call once at startup.
func (s *TagService) Bootstrap(ctx context.Context, seedDefaults bool) error {
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return err
	}
	tags := snap.Tags
	s.manager.RegisterStoredCategories(tags, snap.Games)

	if !seedDefaults {
		return nil
	}
	created, _, err := s.manager.SeedDefaults(ctx, tags)
	if created > 0 {
		s.catalog.Invalidate()
		s.logger.Info("default tags seeded", "created", created)
	}
	return err
}

// List returns every tag record, grouped in category display order and sorted
// by name within a category.
func (s *TagService) List(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.catalog.Tags(ctx)
	if err != nil {
		return nil, err
	}

	order := make(map[domain.Category]int)
	for i, key := range s.manager.Registry().Keys() {
		order[key] = i
	}
	rank := func(c domain.Category) int {
		if i, ok := order[c]; ok {
			return i
		}
		return len(order)
	}

	slices.SortFunc(tags, func(a, b domain.Tag) int {
		if d := rank(a.Category) - rank(b.Category); d != 0 {
			return d
		}
		if c := strings.Compare(string(a.Category), string(b.Category)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return tags, nil
}

// Categorized returns the tag names in use by games, grouped by category.
func (s *TagService) Categorized(ctx context.Context) (map[domain.Category][]string, error) {
	games, err := s.catalog.Games(ctx)
	if err != nil {
		return nil, err
	}
	return s.manager.DeriveCategorizedTags(games), nil
}

// Categories returns the known categories in display order.
func (s *TagService) Categories() []taxonomy.CategoryInfo {
	return s.manager.Registry().Categories()
}

// CreateTagRequest contains fields for creating a tag.
type CreateTagRequest struct {
	Category string `json:"category" validate:"notblank,max=50"`
	Name     string `json:"name" validate:"notblank,max=100"`
}

// Create adds a tag record.
func (s *TagService) Create(ctx context.Context, req CreateTagRequest) (domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Tag{}, err
	}

	// The duplicate check needs the authoritative list, not a cached one.
	snap, err := s.catalog.Fresh(ctx)
	if err != nil {
		return domain.Tag{}, err
	}

	t, err := s.manager.AddTag(ctx, req.Category, req.Name, snap.Tags)
	if err != nil {
		return domain.Tag{}, err
	}
	s.catalog.Invalidate()
	return t, nil
}

// Rename renames a tag and rewrites every game carrying it.
func (s *TagService) Rename(ctx context.Context, tagID, newName string) (taxonomy.RenameResult, error) {
	// 1. Read games and tags fresh, immediately before computing the write set
	snap, err := s.catalog.Fresh(ctx)
	if err != nil {
		return taxonomy.RenameResult{}, err
	}

	// 2. Resolve the tag record
	tag, ok := findTagByID(snap.Tags, tagID)
	if !ok {
		return taxonomy.RenameResult{}, domainerrors.NotFoundf("tag %s not found", tagID)
	}

	// 3. Commit the cascade
	res, err := s.manager.RenameTag(ctx, tag, newName, snap.Games)
	if err != nil {
		return taxonomy.RenameResult{}, err
	}
	if res.Unchanged {
		return res, nil
	}

	// 4. Refresh derived state
	s.catalog.Invalidate()
	s.reindex(ctx, res.AffectedGameIDs)

	return res, nil
}

// Delete removes a tag record. Games keep the value.
func (s *TagService) Delete(ctx context.Context, tagID string) (taxonomy.DeleteResult, error) {
	snap, err := s.catalog.Fresh(ctx)
	if err != nil {
		return taxonomy.DeleteResult{}, err
	}

	tag, ok := findTagByID(snap.Tags, tagID)
	if !ok {
		return taxonomy.DeleteResult{}, domainerrors.NotFoundf("tag %s not found", tagID)
	}

	res, err := s.manager.DeleteTag(ctx, tag, snap.Games)
	if err != nil {
		return taxonomy.DeleteResult{}, err
	}
	s.catalog.Invalidate()
	return res, nil
}

// reindex pushes the committed state of gameIDs to the search index.
// The store is the source of truth, so index failures are logged only.
func (s *TagService) reindex(ctx context.Context, gameIDs []string) {
	if s.index == nil || len(gameIDs) == 0 {
		return
	}

	games, err := s.catalog.Games(ctx)
	if err != nil {
		s.logger.Warn("reindex skipped", "error", err)
		return
	}

	wanted := make(map[string]bool, len(gameIDs))
	for _, gid := range gameIDs {
		wanted[gid] = true
	}
	affected := make([]domain.Game, 0, len(gameIDs))
	for _, g := range games {
		if wanted[g.ID] {
			affected = append(affected, g)
		}
	}

	if err := s.index.IndexGames(affected); err != nil {
		s.logger.Warn("reindex failed", "games", len(affected), "error", err)
	}
}

func findTagByID(tags []domain.Tag, tagID string) (domain.Tag, bool) {
	for _, t := range tags {
		if t.ID == tagID {
			return t, true
		}
	}
	return domain.Tag{}, false
}
