package definition

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry serves the current catalog and swaps it atomically on reload.
type Registry struct {
	dir    string
	logger *slog.Logger

	mu      sync.RWMutex
	catalog *Catalog
}

// NewRegistry loads dir once and fails if it does not validate.
func NewRegistry(dir string, logger *slog.Logger) (*Registry, error) {
	c, err := Load(dir)
	if err != nil {
		return nil, err
	}
	logger.Info("definitions loaded", "dir", dir, "assessments", len(c.ids))
	return &Registry{dir: dir, logger: logger, catalog: c}, nil
}

// NewStaticRegistry wraps an already built catalog. Reload is a no-op.
func NewStaticRegistry(c *Catalog, logger *slog.Logger) *Registry {
	return &Registry{logger: logger, catalog: c}
}

// Catalog returns the active catalog.
func (r *Registry) Catalog() *Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog
}

// Reload re-reads the definitions directory. On failure the previous catalog
// stays active.
func (r *Registry) Reload() (*Catalog, error) {
	if r.dir == "" {
		return r.Catalog(), nil
	}
	c, err := Load(r.dir)
	if err != nil {
		r.logger.Warn("definitions reload failed", "dir", r.dir, "error", err)
		return nil, fmt.Errorf("reload definitions: %w", err)
	}

	r.mu.Lock()
	r.catalog = c
	r.mu.Unlock()

	r.logger.Info("definitions reloaded", "dir", r.dir, "assessments", len(c.ids))
	return c, nil
}
