package taxonomy

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gamesync/gamesync-server/internal/docstore"
	"github.com/gamesync/gamesync-server/internal/domain"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
)

// Manager owns the canonical tag records and keeps the games embedding them
// consistent. Callers are expected to have authorized the actor already.
type Manager struct {
	store    docstore.Store
	registry *Registry
	locale   language.Tag
	logger   *slog.Logger
	now      func() time.Time
}

// NewManager creates a tag taxonomy manager.
func NewManager(store docstore.Store, registry *Registry, locale language.Tag, logger *slog.Logger) *Manager {
	return &Manager{
		store:    store,
		registry: registry,
		locale:   locale,
		logger:   logger,
		now:      time.Now,
	}
}

// Registry returns the category registry the manager groups by.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// RegisterStoredCategories adds the category of every tag record and of every
// tag embedded on a game to the registry. Games can carry categories whose last
// record was deleted; registering those keeps their values listed.
// Call it once after loading tags and games at startup.
func (m *Manager) RegisterStoredCategories(tags []domain.Tag, games []domain.Game) {
	register := func(c domain.Category) {
		if _, added := m.registry.Register(c); added {
			m.logger.Debug("category registered from store", "category", c)
		}
	}
	for _, t := range tags {
		register(t.Category)
	}
	for i := range games {
		for _, t := range games[i].Tags {
			register(t.Category)
		}
	}
}

// RenameResult reports what a rename touched.
type RenameResult struct {
	OperationID     string   `json:"operation_id,omitempty"`
	UpdatedTagCount int      `json:"updated_tag_count"` // Games rewritten (or, for a no-op, games embedding the tag)
	AffectedGameIDs []string `json:"affected_game_ids"`
	Unchanged       bool     `json:"unchanged,omitempty"` // New name equals the current name; nothing was written
}

// RenameTag renames tag to newName and rewrites every game in games that embeds
// the old (category, name) value. The tag record and all rewritten games are
// committed in one atomic batch: either all of them change or none do.
//
// games is the caller's snapshot; a game tagged after the snapshot was read is
// not rewritten. Renaming to the current name is a successful no-op. Renaming
// onto a name another tag in the category already has is rejected.
func (m *Manager) RenameTag(ctx context.Context, tag domain.Tag, newName string, games []domain.Game) (RenameResult, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return RenameResult{}, domainerrors.Validation("tag name cannot be empty")
	}
	if tag.ID == "" {
		return RenameResult{}, domainerrors.Validation("tag id is required")
	}

	from := tag.Ref()
	to := domain.TagRef{Category: tag.Category, Name: newName}

	// 1. Same name: report the current embed count, write nothing.
	if newName == tag.Name {
		ids := embeddingGameIDs(games, from)
		return RenameResult{UpdatedTagCount: len(ids), AffectedGameIDs: ids, Unchanged: true}, nil
	}

	// 2. Reject merges into another record of the same category.
	existing, err := m.loadTags(ctx)
	if err != nil {
		return RenameResult{}, err
	}
	for _, t := range existing {
		if t.ID != tag.ID && t.Category == to.Category && t.Name == to.Name {
			return RenameResult{}, domainerrors.AlreadyExistsf("tag %q already exists in %s", newName, tag.Category)
		}
	}

	// 3. Build the write set: the tag record plus one op per embedding game.
	// Each game's tag list is rewritten from its stored value inside the batch,
	// never from the snapshot.
	now := m.now()
	ops := []docstore.Op{
		docstore.UpdateOp(docstore.Tags, tag.ID, map[string]any{
			"name":       newName,
			"updated_at": now,
		}),
	}

	var affected []string
	seen := make(map[string]struct{})
	for i := range games {
		g := &games[i]
		if _, dup := seen[g.ID]; dup {
			continue
		}
		if !g.HasTag(from) {
			continue
		}
		seen[g.ID] = struct{}{}
		affected = append(affected, g.ID)
		ops = append(ops, docstore.TransformOp(docstore.Games, g.ID, replaceTagRef(from, to, now)))
	}

	// 4. Commit. A submitted batch runs to completion even if the caller goes away.
	opID := uuid.NewString()
	if err := m.store.AtomicBatch(context.WithoutCancel(ctx), ops); err != nil {
		m.logger.Error("tag rename batch failed",
			"op_id", opID,
			"tag_id", tag.ID,
			"category", tag.Category,
			"games", len(affected),
			"error", err,
		)
		return RenameResult{}, domainerrors.Store(err, "commit tag rename")
	}

	m.logger.Info("tag renamed",
		"op_id", opID,
		"tag_id", tag.ID,
		"category", tag.Category,
		"from", tag.Name,
		"to", newName,
		"games_updated", len(affected),
	)

	if affected == nil {
		affected = []string{}
	}
	return RenameResult{OperationID: opID, UpdatedTagCount: len(affected), AffectedGameIDs: affected}, nil
}

// AddTag creates a tag record. existing must be the full set of tag records;
// a record with the same category and name (compared case-sensitively) makes
// AddTag fail with an AlreadyExists error. A new category key is registered.
func (m *Manager) AddTag(ctx context.Context, category, name string, existing []domain.Tag) (domain.Tag, error) {
	ref, err := normalizeRef(category, name)
	if err != nil {
		return domain.Tag{}, err
	}
	if found, ok := findTag(existing, ref); ok {
		return domain.Tag{}, domainerrors.AlreadyExistsf("tag %q already exists in %s", found.Name, found.Category)
	}
	return m.create(ctx, ref)
}

// EnsureTag returns the record for ref, creating it when absent. It applies
// the same normalization and duplicate rule as AddTag. The bool reports
// whether a record was created.
func (m *Manager) EnsureTag(ctx context.Context, ref domain.TagRef, existing []domain.Tag) (domain.Tag, bool, error) {
	ref, err := normalizeRef(string(ref.Category), ref.Name)
	if err != nil {
		return domain.Tag{}, false, err
	}
	if found, ok := findTag(existing, ref); ok {
		return found, false, nil
	}
	t, err := m.create(ctx, ref)
	if err != nil {
		return domain.Tag{}, false, err
	}
	return t, true, nil
}

// DeleteResult reports the consequences of a delete.
type DeleteResult struct {
	// OrphanedGameCount is the number of games in the caller's snapshot that
	// still embed the deleted tag's value. Games are never modified by a delete.
	OrphanedGameCount int `json:"orphaned_game_count"`
}

// DeleteTag removes the canonical record only.
func (m *Manager) DeleteTag(ctx context.Context, tag domain.Tag, games []domain.Game) (DeleteResult, error) {
	if tag.ID == "" {
		return DeleteResult{}, domainerrors.Validation("tag id is required")
	}

	if err := m.store.Delete(ctx, docstore.Tags, tag.ID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return DeleteResult{}, domainerrors.NotFoundf("tag %s not found", tag.ID)
		}
		return DeleteResult{}, domainerrors.Store(err, "delete tag")
	}

	orphaned := len(embeddingGameIDs(games, tag.Ref()))
	m.logger.Info("tag deleted",
		"tag_id", tag.ID,
		"category", tag.Category,
		"name", tag.Name,
		"orphaned_games", orphaned,
	)
	return DeleteResult{OrphanedGameCount: orphaned}, nil
}

func (m *Manager) create(ctx context.Context, ref domain.TagRef) (domain.Tag, error) {
	t := domain.Tag{Category: ref.Category, Name: ref.Name}
	now := m.now()
	t.CreatedAt, t.UpdatedAt = now, now

	fields, err := docstore.Encode(t)
	if err != nil {
		return domain.Tag{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "encode tag")
	}
	t.ID, err = m.store.Create(ctx, docstore.Tags, fields)
	if err != nil {
		return domain.Tag{}, domainerrors.Store(err, "create tag")
	}

	if info, added := m.registry.Register(ref.Category); added {
		m.logger.Info("category created", "category", info.Key, "label", info.Label)
	}
	m.logger.Info("tag created", "tag_id", t.ID, "category", t.Category, "name", t.Name)
	return t, nil
}

func (m *Manager) loadTags(ctx context.Context) ([]domain.Tag, error) {
	docs, err := m.store.ReadAll(ctx, docstore.Tags)
	if err != nil {
		return nil, domainerrors.Store(err, "read tags")
	}
	tags, err := docstore.DecodeAll[domain.Tag](docs)
	if err != nil {
		return nil, domainerrors.Store(err, "decode tags")
	}
	return tags, nil
}

// newCollator builds a collator per call; collators are not safe for concurrent use.
func (m *Manager) newCollator() *collate.Collator {
	return collate.New(m.locale)
}

func normalizeRef(category, name string) (domain.TagRef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.TagRef{}, domainerrors.Validation("tag name cannot be empty")
	}
	key, err := NormalizeCategory(category)
	if err != nil {
		return domain.TagRef{}, err
	}
	return domain.TagRef{Category: key, Name: name}, nil
}

func findTag(tags []domain.Tag, ref domain.TagRef) (domain.Tag, bool) {
	for _, t := range tags {
		if t.Category == ref.Category && t.Name == ref.Name {
			return t, true
		}
	}
	return domain.Tag{}, false
}

func embeddingGameIDs(games []domain.Game, ref domain.TagRef) []string {
	ids := []string{}
	seen := make(map[string]struct{})
	for i := range games {
		if _, dup := seen[games[i].ID]; dup {
			continue
		}
		if games[i].HasTag(ref) {
			seen[games[i].ID] = struct{}{}
			ids = append(ids, games[i].ID)
		}
	}
	return ids
}

// replaceTagRef rewrites from to to in a game's stored tag list. Other entries
// and their order are kept. If the game already carried to, the rename leaves
// it once, at its first position.
func replaceTagRef(from, to domain.TagRef, now time.Time) docstore.TransformFunc {
	return func(fields map[string]any) (map[string]any, error) {
		var stored struct {
			Tags []domain.TagRef `json:"tags"`
		}
		if err := docstore.Decode(docstore.Document{Fields: fields}, &stored); err != nil {
			return nil, err
		}
		g := domain.Game{Tags: stored.Tags}
		replaced, n := g.ReplaceTag(from, to)
		if n == 0 {
			return nil, nil
		}
		return map[string]any{
			"tags":       collapseRef(replaced, to),
			"updated_at": now,
		}, nil
	}
}

// collapseRef drops every occurrence of ref after the first.
func collapseRef(refs []domain.TagRef, ref domain.TagRef) []domain.TagRef {
	out := make([]domain.TagRef, 0, len(refs))
	kept := false
	for _, r := range refs {
		if r == ref {
			if kept {
				continue
			}
			kept = true
		}
		out = append(out, r)
	}
	return out
}
