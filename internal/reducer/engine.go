// Package reducer implements the fact-dispatch core of Arbor: the mapping
// from a typed fact to a structural mutation of the item tree, and the
// pre-/postconditions each mutation must satisfy.
package reducer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Engine applies facts against an item store.
//
// Apply is synchronous and indivisible: every precondition is validated
// before the first mutation, so a rejected fact leaves the store exactly
// as it was. The engine owns the store for the duration of one Apply call.
type Engine struct {
	store   ports.ItemStore
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	orphans domain.OrphanPolicy
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithOrphanPolicy selects what happens to the subitems of deleted items.
func WithOrphanPolicy(policy domain.OrphanPolicy) Option {
	return func(e *Engine) {
		e.orphans = policy
	}
}

// New creates an engine bound to the given store.
func New(store ports.ItemStore, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		logger:  logging.NewNop(),
		orphans: domain.OrphanCascade,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the engine's item store (read-only query surface).
func (e *Engine) Store() ports.ItemStore {
	return e.store
}

// Apply dispatches a fact to its reducer.
//
// Dispatch is an exhaustive switch over the fact kind: every kind has a
// handler by construction, and anything else fails with
// domain.ErrUnknownFactKind rather than being skipped.
func (e *Engine) Apply(ctx context.Context, fact domain.Fact) error {
	var err error
	switch fact.Kind {
	case domain.FactOutlineCreated:
		err = e.applyOutlineCreated(fact)
	case domain.FactItemCreated:
		err = e.applyItemCreated(fact)
	case domain.FactTitleChanged:
		err = e.applyTitleChanged(fact)
	case domain.FactNoteChanged:
		err = e.applyNoteChanged(fact)
	case domain.FactOutlineDeleted:
		err = e.applyOutlineDeleted(fact)
	case domain.FactItemDeleted:
		err = e.applyItemDeleted(fact)
	case domain.FactItemMoved:
		err = e.applyItemMoved(fact)
	default:
		err = fmt.Errorf("%w: %q", domain.ErrUnknownFactKind, fact.Kind)
	}

	if err != nil {
		e.logger.Debug("fact rejected", "kind", fact.Kind, "id", fact.ID, "err", err)
		e.emitRejected(ctx, fact, err)
		return err
	}

	e.logger.Debug("fact applied", "kind", fact.Kind, "id", fact.ID)
	e.emitApplied(ctx, fact)
	return nil
}

func (e *Engine) emitApplied(ctx context.Context, fact domain.Fact) {
	if e.hooks.OnFactApplied == nil {
		return
	}
	e.hooks.OnFactApplied(ctx, &domain.FactEvent{
		Timestamp: time.Now(),
		Kind:      fact.Kind,
		ItemID:    fact.ID,
	})
}

func (e *Engine) emitRejected(ctx context.Context, fact domain.Fact, err error) {
	if e.hooks.OnFactRejected == nil {
		return
	}
	e.hooks.OnFactRejected(ctx, &domain.FactEvent{
		Timestamp: time.Now(),
		Kind:      fact.Kind,
		ItemID:    fact.ID,
		Reason:    domain.RejectReason(err),
	})
}

func (e *Engine) precondition(fact domain.Fact, ok bool, reason string) error {
	if ok {
		return nil
	}
	return &domain.PreconditionError{Kind: fact.Kind, ItemID: fact.ID, Reason: reason}
}

func (e *Engine) postcondition(fact domain.Fact, ok bool, check string) error {
	if ok {
		return nil
	}
	return &domain.PostconditionError{Kind: fact.Kind, ItemID: fact.ID, Check: check}
}

// --- Reducers ---

func (e *Engine) applyOutlineCreated(fact domain.Fact) error {
	if err := e.precondition(fact, fact.ID != "", "empty id"); err != nil {
		return err
	}
	if err := e.precondition(fact, !e.store.Exists(fact.ID), "id already exists"); err != nil {
		return err
	}

	if err := e.store.Create(fact.ID, ""); err != nil {
		return err
	}

	return e.postcondition(fact, e.store.Exists(fact.ID), "item exists")
}

func (e *Engine) applyItemCreated(fact domain.Fact) error {
	if err := e.precondition(fact, fact.ID != "", "empty id"); err != nil {
		return err
	}
	if err := e.precondition(fact, e.store.Exists(fact.ParentID), fmt.Sprintf("parent %q does not exist", fact.ParentID)); err != nil {
		return err
	}
	if err := e.precondition(fact, !e.store.Exists(fact.ID), "id already exists"); err != nil {
		return err
	}

	parent, err := e.store.Get(fact.ParentID)
	if err != nil {
		return err
	}
	if fact.Position < 0 || fact.Position > len(parent.Subitems) {
		return fmt.Errorf("fact %s(%s): %w: %d out of range [0,%d]",
			fact.Kind, fact.ID, domain.ErrInvalidPosition, fact.Position, len(parent.Subitems))
	}

	// All preconditions hold; mutate.
	if err := e.store.Create(fact.ID, fact.ParentID); err != nil {
		return err
	}
	err = e.store.Update(fact.ParentID, func(it domain.Item) domain.Item {
		it.Subitems = insertAt(it.Subitems, fact.ID, fact.Position)
		return it
	})
	if err != nil {
		return err
	}

	parent, err = e.store.Get(fact.ParentID)
	if err != nil {
		return err
	}
	if err := e.postcondition(fact, e.store.Exists(fact.ID), "item exists"); err != nil {
		return err
	}
	return e.postcondition(fact, countOf(parent.Subitems, fact.ID) == 1, "item linked exactly once in parent")
}

func (e *Engine) applyTitleChanged(fact domain.Fact) error {
	if err := e.precondition(fact, e.store.Exists(fact.ID), "item does not exist"); err != nil {
		return err
	}
	// The parser rejects encoded titles with line breaks; this guards
	// programmatically constructed facts.
	if err := e.precondition(fact, !strings.ContainsAny(fact.Text, "\n\r"), "title contains a line break"); err != nil {
		return err
	}

	err := e.store.Update(fact.ID, func(it domain.Item) domain.Item {
		it.Title = fact.Text
		return it
	})
	if err != nil {
		return err
	}

	got, err := e.store.Get(fact.ID)
	if err != nil {
		return err
	}
	return e.postcondition(fact, got.Title == fact.Text, "title equals decoded value")
}

func (e *Engine) applyNoteChanged(fact domain.Fact) error {
	if err := e.precondition(fact, e.store.Exists(fact.ID), "item does not exist"); err != nil {
		return err
	}

	err := e.store.Update(fact.ID, func(it domain.Item) domain.Item {
		it.Note = fact.Text
		return it
	})
	if err != nil {
		return err
	}

	got, err := e.store.Get(fact.ID)
	if err != nil {
		return err
	}
	return e.postcondition(fact, got.Note == fact.Text, "note equals decoded value")
}

func (e *Engine) applyOutlineDeleted(fact domain.Fact) error {
	if err := e.precondition(fact, e.store.Exists(fact.ID), "item does not exist"); err != nil {
		return err
	}
	item, err := e.store.Get(fact.ID)
	if err != nil {
		return err
	}
	if err := e.precondition(fact, item.IsRoot(), "item is not an outline root"); err != nil {
		return err
	}

	if err := e.disposeChildren(item, ""); err != nil {
		return err
	}
	if err := e.store.Delete(fact.ID); err != nil {
		return err
	}

	return e.postcondition(fact, !e.store.Exists(fact.ID), "item deleted")
}

func (e *Engine) applyItemDeleted(fact domain.Fact) error {
	if err := e.precondition(fact, e.store.Exists(fact.ID), "item does not exist"); err != nil {
		return err
	}
	item, err := e.store.Get(fact.ID)
	if err != nil {
		return err
	}
	if err := e.precondition(fact, !item.IsRoot(), "item is an outline root"); err != nil {
		return err
	}
	if err := e.precondition(fact, e.store.Exists(item.ParentID), fmt.Sprintf("parent %q does not exist", item.ParentID)); err != nil {
		return err
	}
	parent, err := e.store.Get(item.ParentID)
	if err != nil {
		return err
	}
	if err := e.precondition(fact, countOf(parent.Subitems, fact.ID) == 1, "item linked exactly once in parent"); err != nil {
		return err
	}

	// Unlink from the parent first, splicing orphans into the vacated
	// slot when the policy is reparent.
	replacement := []string{}
	if e.orphans == domain.OrphanReparent {
		replacement = item.Subitems
	}
	err = e.store.Update(item.ParentID, func(it domain.Item) domain.Item {
		it.Subitems = replaceID(it.Subitems, fact.ID, replacement)
		return it
	})
	if err != nil {
		return err
	}

	if err := e.disposeChildren(item, item.ParentID); err != nil {
		return err
	}
	if err := e.store.Delete(fact.ID); err != nil {
		return err
	}

	parent, err = e.store.Get(item.ParentID)
	if err != nil {
		return err
	}
	if err := e.postcondition(fact, !e.store.Exists(fact.ID), "item deleted"); err != nil {
		return err
	}
	return e.postcondition(fact, countOf(parent.Subitems, fact.ID) == 0, "item unlinked from parent")
}

func (e *Engine) applyItemMoved(fact domain.Fact) error {
	if err := e.precondition(fact, e.store.Exists(fact.ID), "item does not exist"); err != nil {
		return err
	}
	if err := e.precondition(fact, e.store.Exists(fact.ParentID), fmt.Sprintf("new parent %q does not exist", fact.ParentID)); err != nil {
		return err
	}
	item, err := e.store.Get(fact.ID)
	if err != nil {
		return err
	}
	if err := e.precondition(fact, !item.IsRoot(), "item is an outline root"); err != nil {
		return err
	}
	if err := e.precondition(fact, e.store.Exists(item.ParentID), fmt.Sprintf("old parent %q does not exist", item.ParentID)); err != nil {
		return err
	}
	// Cycle guard: re-homing an item under itself or one of its own
	// descendants would break the forest shape.
	if err := e.precondition(fact, fact.ParentID != fact.ID, "cannot move an item inside itself"); err != nil {
		return err
	}
	under, err := e.isDescendant(fact.ParentID, fact.ID)
	if err != nil {
		return err
	}
	if err := e.precondition(fact, !under, "cannot move an item inside its own descendant"); err != nil {
		return err
	}

	oldParent, err := e.store.Get(item.ParentID)
	if err != nil {
		return err
	}
	if err := e.precondition(fact, countOf(oldParent.Subitems, fact.ID) == 1, "item linked exactly once in old parent"); err != nil {
		return err
	}
	newParent, err := e.store.Get(fact.ParentID)
	if err != nil {
		return err
	}

	// Positions are interpreted against the list the item is spliced
	// into, i.e. after it has left its old slot on a same-parent move.
	limit := len(newParent.Subitems)
	sameParent := item.ParentID == fact.ParentID
	if sameParent {
		limit--
	}
	if fact.Position < 0 || fact.Position > limit {
		return fmt.Errorf("fact %s(%s): %w: %d out of range [0,%d]",
			fact.Kind, fact.ID, domain.ErrInvalidPosition, fact.Position, limit)
	}

	// All preconditions hold; mutate. A same-parent move is a single
	// atomic record swap so the item is never observably in neither (or
	// both) lists.
	if sameParent {
		err = e.store.Update(fact.ParentID, func(it domain.Item) domain.Item {
			it.Subitems = insertAt(removeID(it.Subitems, fact.ID), fact.ID, fact.Position)
			return it
		})
		if err != nil {
			return err
		}
	} else {
		err = e.store.Update(item.ParentID, func(it domain.Item) domain.Item {
			it.Subitems = removeID(it.Subitems, fact.ID)
			return it
		})
		if err != nil {
			return err
		}
		err = e.store.Update(fact.ParentID, func(it domain.Item) domain.Item {
			it.Subitems = insertAt(it.Subitems, fact.ID, fact.Position)
			return it
		})
		if err != nil {
			return err
		}
		err = e.store.Update(fact.ID, func(it domain.Item) domain.Item {
			it.ParentID = fact.ParentID
			return it
		})
		if err != nil {
			return err
		}
	}

	newParent, err = e.store.Get(fact.ParentID)
	if err != nil {
		return err
	}
	if err := e.postcondition(fact, countOf(newParent.Subitems, fact.ID) == 1, "item linked exactly once in new parent"); err != nil {
		return err
	}
	if !sameParent {
		oldParent, err = e.store.Get(item.ParentID)
		if err != nil {
			return err
		}
		if err := e.postcondition(fact, countOf(oldParent.Subitems, fact.ID) == 0, "item unlinked from old parent"); err != nil {
			return err
		}
	}
	moved, err := e.store.Get(fact.ID)
	if err != nil {
		return err
	}
	return e.postcondition(fact, moved.ParentID == fact.ParentID, "parent reference updated")
}

// disposeChildren applies the orphan policy to the subitems of an item
// that is about to be deleted. For reparent, the caller has already
// spliced the children into the new parent's list; this only rewrites
// their parent references (newParentID empty promotes them to roots).
func (e *Engine) disposeChildren(item domain.Item, newParentID string) error {
	switch e.orphans {
	case domain.OrphanReparent:
		if item.IsRoot() {
			// Children of a deleted outline become outlines themselves.
			newParentID = ""
		}
		for _, childID := range item.Subitems {
			err := e.store.Update(childID, func(it domain.Item) domain.Item {
				it.ParentID = newParentID
				return it
			})
			if err != nil {
				return err
			}
		}
		return nil
	default: // OrphanCascade
		for _, childID := range item.Subitems {
			if err := e.deleteSubtree(childID); err != nil {
				return err
			}
		}
		return nil
	}
}

// deleteSubtree removes an item and all of its descendants.
func (e *Engine) deleteSubtree(id string) error {
	item, err := e.store.Get(id)
	if err != nil {
		return err
	}
	for _, childID := range item.Subitems {
		if err := e.deleteSubtree(childID); err != nil {
			return err
		}
	}
	return e.store.Delete(id)
}

// isDescendant reports whether id is in the subtree rooted at ancestorID.
func (e *Engine) isDescendant(id, ancestorID string) (bool, error) {
	ancestor, err := e.store.Get(ancestorID)
	if err != nil {
		return false, err
	}
	for _, childID := range ancestor.Subitems {
		if childID == id {
			return true, nil
		}
		found, err := e.isDescendant(id, childID)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// --- Slice helpers ---

func insertAt(list []string, id string, pos int) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list[:pos]...)
	out = append(out, id)
	out = append(out, list[pos:]...)
	return out
}

func removeID(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// replaceID substitutes the first occurrence of id with the replacement
// sequence (possibly empty).
func replaceID(list []string, id string, replacement []string) []string {
	out := make([]string, 0, len(list)+len(replacement))
	for _, v := range list {
		if v == id {
			out = append(out, replacement...)
			continue
		}
		out = append(out, v)
	}
	return out
}

func countOf(list []string, id string) int {
	n := 0
	for _, v := range list {
		if v == id {
			n++
		}
	}
	return n
}
