package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

func nowUTC() time.Time { return time.Now().UTC() }

// MemoryStore is an in-memory RecipientStore and TemplateStore.
//
// Mutations take the write lock and replace whole records, which gives the
// same per-record atomicity as a database row update. Used by tests and as
// the backing store when no database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[uuid.UUID]memRecord
	seq      uint64
	template StoredTemplate
}

type memRecord struct {
	rec Recipient
	seq uint64 // insertion order, breaks CreatedAt ties
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]memRecord)}
}

func (s *MemoryStore) List(ctx context.Context) ([]Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]memRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].rec.CreatedAt.Equal(out[j].rec.CreatedAt) {
			return out[i].rec.CreatedAt.After(out[j].rec.CreatedAt)
		}
		return out[i].seq > out[j].seq
	})

	recs := make([]Recipient, len(out))
	for i, r := range out {
		recs[i] = r.rec
	}
	return recs, nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return Recipient{}, &NotFoundError{ID: id.String()}
	}
	return r.rec, nil
}

func (s *MemoryStore) Insert(ctx context.Context, rec Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.records[rec.ID] = memRecord{rec: rec, seq: s.seq}
	return nil
}

func (s *MemoryStore) Replace(ctx context.Context, rec Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.records[rec.ID]
	if !ok {
		return &NotFoundError{ID: rec.ID.String()}
	}
	s.records[rec.ID] = memRecord{rec: rec, seq: old.seq}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return &NotFoundError{ID: id.String()}
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) GetTemplate(ctx context.Context) (StoredTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.template, nil
}

func (s *MemoryStore) SaveTemplate(ctx context.Context, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = StoredTemplate{Raw: raw, UpdatedAt: nowUTC()}
	return nil
}
