package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps collections in process. Used when no database is configured.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Record
	newID       func() string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]Record), newID: uuid.NewString}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, collection string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.collections[collection]
	out := make([]Record, len(recs))
	for i, rec := range recs {
		out[i] = Record{ID: rec.ID, Data: slices.Clone(rec.Data)}
	}
	return out, nil
}

func (s *MemoryStore) GetByID(_ context.Context, collection, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.index(collection, id)
	if i < 0 {
		return Record{}, ErrNotFound
	}
	rec := s.collections[collection][i]
	return Record{ID: rec.ID, Data: slices.Clone(rec.Data)}, nil
}

func (s *MemoryStore) Add(_ context.Context, collection string, item any) (string, error) {
	data, err := encode(item)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	s.collections[collection] = append(s.collections[collection], Record{ID: id, Data: data})
	return id, nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, item any) error {
	data, err := encode(item)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(collection, id)
	if i < 0 {
		return ErrNotFound
	}
	s.collections[collection][i].Data = data
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(collection, id)
	if i < 0 {
		return false, nil
	}
	s.collections[collection] = slices.Delete(s.collections[collection], i, i+1)
	return true, nil
}

// index must be called with the lock held
func (s *MemoryStore) index(collection, id string) int {
	return slices.IndexFunc(s.collections[collection], func(r Record) bool { return r.ID == id })
}
