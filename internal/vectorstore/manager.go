package vectorstore

import (
	"sync"

	"github.com/futig/support-backend/internal/embedding"
	"go.uber.org/zap"
)

// Manager hands out per-tenant indexes, creating and loading them on first
// use. Indexes are never shared across tenants.
type Manager struct {
	dir      string
	embedder embedding.Embedder
	logger   *zap.Logger

	mu      sync.Mutex
	indexes map[string]*Index
}

func NewManager(dir string, embedder embedding.Embedder, logger *zap.Logger) *Manager {
	return &Manager{
		dir:      dir,
		embedder: embedder,
		logger:   logger,
		indexes:  make(map[string]*Index),
	}
}

// Get returns the tenant's index, loading it from disk on first access
func (m *Manager) Get(tenantID string) (*Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.indexes[tenantID]; ok {
		return idx, nil
	}

	idx, err := Open(m.dir, tenantID, m.embedder, m.logger)
	if err != nil {
		return nil, err
	}
	m.indexes[tenantID] = idx
	return idx, nil
}

// Clear resets the tenant's index and drops it from the manager cache
func (m *Manager) Clear(tenantID string) error {
	idx, err := m.Get(tenantID)
	if err != nil {
		return err
	}
	if err := idx.Clear(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.indexes, tenantID)
	m.mu.Unlock()
	return nil
}
