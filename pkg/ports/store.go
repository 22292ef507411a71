package ports

import "github.com/aretw0/arbor/pkg/domain"

// ItemStore owns the authoritative mapping of item IDs to item records.
//
// The store is deliberately dumb: it guarantees record-level atomicity and
// nothing else. Structural rules (splicing children, ordering, cycle
// freedom) are the reducer's responsibility, which keeps creation and
// linking separable and auditable.
//
// Implementations must be safe for concurrent readers; the reducer
// serializes all writes.
type ItemStore interface {
	// Exists reports whether a live record exists for id.
	Exists(id string) bool

	// Create inserts a new empty record. parentID may be empty (outline
	// root). It records the parent reference but does NOT splice the new
	// ID into the parent's Subitems. Returns domain.ErrItemExists if id
	// is already live and domain.ErrItemNotFound if parentID is given
	// but not live.
	Create(id, parentID string) error

	// Get returns a copy of the current record, or domain.ErrItemNotFound.
	Get(id string) (domain.Item, error)

	// Update replaces the record with the result of applying fn to the
	// previous record. fn must be pure; the replacement is atomic, so no
	// half-applied mutation is ever observable.
	Update(id string, fn func(domain.Item) domain.Item) error

	// Delete removes the record entirely, or domain.ErrItemNotFound.
	Delete(id string) error

	// IDs returns all live IDs in lexical order.
	IDs() []string

	// Roots returns the IDs of all outline roots in lexical order.
	Roots() []string

	// Len returns the number of live records.
	Len() int
}
