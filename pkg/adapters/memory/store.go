// Package memory provides in-memory implementations of the Arbor ports.
// This is the default backing for the engine and the workhorse for tests.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Store implements ports.ItemStore with a value map.
//
// Records are stored by value and handed out as clones, so a record
// replacement via Update is atomic: readers observe either the old or the
// new record, never a half-applied one. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	items map[string]domain.Item
}

// NewStore creates an empty in-memory item store.
func NewStore() *Store {
	return &Store{
		items: make(map[string]domain.Item),
	}
}

// Exists reports whether a live record exists for id.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

// Create inserts a new empty record. It does not touch the parent's
// Subitems; splicing is the reducer's responsibility.
func (s *Store) Create(id, parentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; ok {
		return fmt.Errorf("create %q: %w", id, domain.ErrItemExists)
	}
	if parentID != "" {
		if _, ok := s.items[parentID]; !ok {
			return fmt.Errorf("create %q: parent %q: %w", id, parentID, domain.ErrItemNotFound)
		}
	}

	s.items[id] = domain.Item{ID: id, ParentID: parentID}
	return nil
}

// Get returns a copy of the current record.
func (s *Store) Get(id string) (domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return domain.Item{}, fmt.Errorf("get %q: %w", id, domain.ErrItemNotFound)
	}
	return item.Clone(), nil
}

// Update replaces the record with fn applied to a copy of the previous
// record. The swap is a single map assignment.
func (s *Store) Update(id string, fn func(domain.Item) domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("update %q: %w", id, domain.ErrItemNotFound)
	}

	next := fn(item.Clone())
	next.ID = id // IDs are immutable; a transform cannot rename
	s.items[id] = next
	return nil
}

// Delete removes the record entirely.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("delete %q: %w", id, domain.ErrItemNotFound)
	}
	delete(s.items, id)
	return nil
}

// IDs returns all live IDs in lexical order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Roots returns the IDs of all outline roots in lexical order.
func (s *Store) Roots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var roots []string
	for id, item := range s.items {
		if item.IsRoot() {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Len returns the number of live records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Snapshot returns a deep copy of every record keyed by ID. Tests use it
// to assert that rejected facts leave the store untouched.
func (s *Store) Snapshot() map[string]domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Item, len(s.items))
	for id, item := range s.items {
		out[id] = item.Clone()
	}
	return out
}
