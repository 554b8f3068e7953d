package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps uploads in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	uploads map[uuid.UUID]Upload
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{uploads: make(map[uuid.UUID]Upload)}
}

// Save stores u, replacing any upload with the same ID.
func (m *MemoryStore) Save(ctx context.Context, u Upload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads[u.ID] = u
	return nil
}

// Get returns the upload with id or ErrNotFound.
func (m *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.uploads[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// List returns up to limit summaries, newest first. A non-positive limit
// returns everything.
func (m *MemoryStore) List(ctx context.Context, limit int) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	result := make([]Summary, 0, len(m.uploads))
	for _, u := range m.uploads {
		result = append(result, u.Summary())
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// PurgeOlderThan deletes uploads created before cutoff and returns how many
// were removed.
func (m *MemoryStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, u := range m.uploads {
		if u.CreatedAt.Before(cutoff) {
			delete(m.uploads, id)
			n++
		}
	}
	return n, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() {}
