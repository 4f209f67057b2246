package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/gamesync/gamesync-server/internal/domain"
)

// GameIndex wraps a Bleve index of games.
//
// Thread safety: All public methods are safe for concurrent use.
// The mutex protects against index corruption during rebuild operations.
type GameIndex struct {
	index  bleve.Index
	path   string // Empty for in-memory indexes
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	InMemory bool         // Keep the index in memory only (tests, ephemeral servers)
	Logger   *slog.Logger // Logger for operations (uses discard if nil)
}

// mappingVersion is incremented whenever the index mapping changes.
// This triggers an automatic rebuild on startup when the version doesn't match.
const mappingVersion = "1"

// NewGameIndex creates or opens a search index.
// An existing index with an outdated mapping or that fails to open is removed
// and recreated empty; callers reindex from the store afterwards.
func NewGameIndex(opts Options) (*GameIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if opts.InMemory {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &GameIndex{index: index, logger: logger}, nil
	}

	indexPath := filepath.Join(opts.DataPath, "games.bleve")
	versionPath := filepath.Join(opts.DataPath, "games.version")

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil || string(existingVersion) != mappingVersion {
			logger.Info("search index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0o600); writeErr != nil {
			logger.Warn("failed to write search version file", "error", writeErr)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &GameIndex{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *GameIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexGame indexes or replaces a single game.
func (s *GameIndex) IndexGame(g *domain.Game) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(g.ID, NewGameDocument(g).ToMap())
}

// IndexGames indexes games in chunked batches.
func (s *GameIndex) IndexGames(games []domain.Game) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(games)
}

func (s *GameIndex) indexLocked(games []domain.Game) error {
	const batchSize = 500

	for i := 0; i < len(games); i += batchSize {
		end := min(i+batchSize, len(games))

		batch := s.index.NewBatch()
		for j := i; j < end; j++ {
			g := &games[j]
			if err := batch.Index(g.ID, NewGameDocument(g).ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", g.ID, err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// DeleteGame removes a game from the index.
func (s *GameIndex) DeleteGame(gameID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(gameID)
}

// DocumentCount returns the total number of indexed games.
func (s *GameIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops the index and indexes games from scratch.
//
// IMPORTANT: This acquires an exclusive lock and blocks all other operations.
func (s *GameIndex) Rebuild(games []domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	var (
		index bleve.Index
		err   error
	)
	if s.path == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if err := os.RemoveAll(s.path); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
		index, err = bleve.New(s.path, buildIndexMapping())
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	s.index = index

	if err := s.indexLocked(games); err != nil {
		return err
	}

	s.logger.Info("rebuilt search index", "path", s.path, "games", len(games))
	return nil
}
