package tokenstore

import (
	"context"
	"sync"

	"github.com/thonhub/thonhub/internal/common"
)

// MemoryStore keeps credentials in process memory. Used by tests and by
// sessions that should not outlive the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) get(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

func (m *MemoryStore) setLocked(key, value string) {
	if value == "" {
		delete(m.values, key)
		return
	}
	m.values[key] = value
}

func (m *MemoryStore) AccessToken(context.Context) (string, error) {
	return m.get(common.AccessTokenKey), nil
}

func (m *MemoryStore) RefreshToken(context.Context) (string, error) {
	return m.get(common.RefreshTokenKey), nil
}

func (m *MemoryStore) SetAccessToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(common.AccessTokenKey, token)
	return nil
}

func (m *MemoryStore) SetRefreshToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(common.RefreshTokenKey, token)
	return nil
}

func (m *MemoryStore) SetPair(_ context.Context, p Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(common.AccessTokenKey, p.AccessToken)
	m.setLocked(common.RefreshTokenKey, p.RefreshToken)
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.values)
	return nil
}
