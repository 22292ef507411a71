/*
Package arbor is an event-sourced model of a hierarchical outline: a tree of
items, each with a title, a note, and an ordered sequence of child items.

State is never mutated directly. It is derived by replaying an ordered log of
facts — past-tense statements like

	Outline "inbox" was created
	Item "a" was created inside item "inbox" at position "0"
	Item "a"'s title was changed to "Buy milk"

through a deterministic reducer. Each fact kind has exactly one reducer,
which validates its preconditions against the current tree, mutates the item
store, and verifies its postconditions. A rejected fact leaves the store
untouched and halts the replay: downstream facts may depend on the rejected
mutation, so skip-and-continue is never safe.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"
		"strings"

		"github.com/aretw0/arbor"
	)

	func main() {
		eng := arbor.New()

		log1 := strings.Join([]string{
			`Outline "inbox" was created`,
			`Item "a" was created inside item "inbox" at position "0"`,
			`Item "a"'s title was changed to "Buy milk"`,
		}, "\n")

		if _, err := eng.Replay(context.Background(), strings.NewReader(log1)); err != nil {
			log.Fatal(err)
		}

		item, _ := eng.Get("a")
		fmt.Println(item.Title) // Buy milk
	}

# Architecture

The engine core (internal/reducer) only talks to the ports.ItemStore and
knows nothing about transports or persistence. Fact text parsing lives in
internal/factline; adapters for HTTP, MCP, Redis-backed fact logs, and
in-memory state live under pkg/adapters. Hosts decide where fact lines come
from and how the resulting tree is rendered.
*/
package arbor
