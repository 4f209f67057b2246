package providers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/gamesync/gamesync-server/internal/config"
	"github.com/gamesync/gamesync-server/internal/docstore"
	"github.com/gamesync/gamesync-server/internal/logger"
	"github.com/gamesync/gamesync-server/internal/store"
	"github.com/gamesync/gamesync-server/internal/store/sqlite"
)

// StoreHandle wraps the document store with shutdown capability.
type StoreHandle struct {
	docstore.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the document store selected by configuration.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, path, err := OpenStore(cfg, log)
	if err != nil {
		return nil, err
	}

	log.Info("Document store initialized", "driver", cfg.Data.Driver, "path", path)
	return &StoreHandle{Store: st}, nil
}

// OpenStore opens the configured backend under the data path.
// It is shared with tools that run without the container.
func OpenStore(cfg *config.Config, log *logger.Logger) (docstore.Store, string, error) {
	if err := os.MkdirAll(cfg.Data.BasePath, 0o750); err != nil {
		return nil, "", fmt.Errorf("create data directory: %w", err)
	}

	switch cfg.Data.Driver {
	case config.DriverSQLite:
		path := filepath.Join(cfg.Data.BasePath, "gamesync.db")
		st, err := sqlite.Open(path, log.Logger)
		return st, path, err
	default:
		path := filepath.Join(cfg.Data.BasePath, "db")
		st, err := store.New(path, log.Logger)
		return st, path, err
	}
}
