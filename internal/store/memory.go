package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps rooms in process memory. It backs local play and
// tests, and is the fallback when no database is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*Room)}
}

func (m *MemoryStore) CreateRoom(_ context.Context, room *Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rooms[room.Code]; exists {
		return ErrAlreadyExists
	}
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now
	m.rooms[room.Code] = room.Clone()
	return nil
}

func (m *MemoryStore) GetRoom(_ context.Context, code string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[code]
	if !ok {
		return nil, ErrNotFound
	}
	return room.Clone(), nil
}

func (m *MemoryStore) SaveRoom(_ context.Context, room *Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rooms[room.Code]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != room.Version {
		return ErrVersionConflict
	}
	room.Version++
	room.UpdatedAt = time.Now().UTC()
	m.rooms[room.Code] = room.Clone()
	return nil
}

func (m *MemoryStore) DeleteRoom(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[code]; !ok {
		return ErrNotFound
	}
	delete(m.rooms, code)
	return nil
}
