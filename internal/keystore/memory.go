package keystore

import (
	"context"
	"sync"
)

// MemoryStore keeps the record in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	rec Record

	// LoadErr, SaveErr and ClearErr, when set, are returned instead of
	// touching the record.
	LoadErr  error
	SaveErr  error
	ClearErr error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored record.
func (m *MemoryStore) Load(context.Context) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return Record{}, m.LoadErr
	}
	return copyRecord(m.rec), nil
}

// Save replaces the stored record.
func (m *MemoryStore) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.rec = copyRecord(rec)
	return nil
}

// Clear removes both entries.
func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.rec = Record{}
	return nil
}

// Backend returns "memory".
func (m *MemoryStore) Backend() string { return "memory" }

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

func copyRecord(rec Record) Record {
	if rec.User != nil {
		u := *rec.User
		rec.User = &u
	}
	return rec
}
