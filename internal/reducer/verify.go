package reducer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Verify walks the whole store and checks the structural invariants:
// every parent reference resolves and is mirrored exactly once in the
// parent's subitem list, subitem lists contain no duplicates or dangling
// IDs, titles are single-line, and the structure is a forest (no item is
// its own ancestor).
//
// Returns nil when the store is consistent; otherwise one error listing
// every violation found.
func Verify(store ports.ItemStore) error {
	var violations []string
	report := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	items := make(map[string]domain.Item)
	for _, id := range store.IDs() {
		item, err := store.Get(id)
		if err != nil {
			return err
		}
		items[id] = item
	}

	for id, item := range items {
		if strings.ContainsAny(item.Title, "\n\r") {
			report("item %q: title contains a line break", id)
		}

		if item.ParentID != "" {
			parent, ok := items[item.ParentID]
			if !ok {
				report("item %q: parent %q does not exist", id, item.ParentID)
			} else if n := countOf(parent.Subitems, id); n != 1 {
				report("item %q: linked %d times in parent %q, want 1", id, n, item.ParentID)
			}
		}

		seen := make(map[string]bool, len(item.Subitems))
		for _, childID := range item.Subitems {
			if seen[childID] {
				report("item %q: duplicate subitem %q", id, childID)
				continue
			}
			seen[childID] = true

			child, ok := items[childID]
			if !ok {
				report("item %q: dangling subitem %q", id, childID)
				continue
			}
			if child.ParentID != id {
				report("item %q: subitem %q claims parent %q", id, childID, child.ParentID)
			}
		}
	}

	// Forest check: following parent links from any item must terminate
	// at a root without revisiting.
	for id := range items {
		visited := map[string]bool{id: true}
		cur := items[id]
		for cur.ParentID != "" {
			next, ok := items[cur.ParentID]
			if !ok {
				break // already reported above
			}
			if visited[next.ID] {
				report("item %q: is its own ancestor", id)
				break
			}
			visited[next.ID] = true
			cur = next
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return errors.New("store invariants violated:\n  " + strings.Join(violations, "\n  "))
}
