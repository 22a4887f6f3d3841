// Package memory provides an in-process document store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/humus/pkg/core"
)

// Store implements core.Store with one map per kind.
type Store struct {
	mu     sync.RWMutex
	tables map[string]map[string]core.Document
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{tables: make(map[string]map[string]core.Document)}
}

// Initialize implements core.Store. There is nothing to prepare.
func (s *Store) Initialize(ctx context.Context) error { return nil }

// Create stores a new document.
func (s *Store) Create(ctx context.Context, doc core.Document) (string, error) {
	if doc.Kind == "" {
		return "", fmt.Errorf("document has no kind")
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.table(doc.Kind)
	if _, ok := table[doc.ID]; ok {
		return "", fmt.Errorf("%s: %w", doc.Path(), core.ErrAlreadyExists)
	}
	table[doc.ID] = doc.Clone()
	return doc.ID, nil
}

// Save creates or replaces a document.
func (s *Store) Save(ctx context.Context, doc core.Document) error {
	if doc.Kind == "" || doc.ID == "" {
		return fmt.Errorf("document needs a kind and an ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.table(doc.Kind)[doc.ID] = doc.Clone()
	return nil
}

// FindByID returns a copy of the stored document.
func (s *Store) FindByID(ctx context.Context, kind, id string) (core.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.tables[kind][id]
	if !ok {
		return core.Document{}, false, nil
	}
	return doc.Clone(), true, nil
}

// List returns every document of kind ordered by ID.
func (s *Store) List(ctx context.Context, kind string) ([]core.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]core.Document, 0, len(s.tables[kind]))
	for _, doc := range s.tables[kind] {
		docs = append(docs, doc.Clone())
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.tables[kind]
	if _, ok := table[id]; !ok {
		return fmt.Errorf("%s/%s: %w", kind, id, core.ErrNotFound)
	}
	delete(table, id)
	return nil
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory"
}

func (s *Store) table(kind string) map[string]core.Document {
	t, ok := s.tables[kind]
	if !ok {
		t = make(map[string]core.Document)
		s.tables[kind] = t
	}
	return t
}

var _ core.Store = (*Store)(nil)
