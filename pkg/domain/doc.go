// Package domain contains the core data structures shared across the
// Arbor engine and its adapters: items, facts, lifecycle events, and the
// error taxonomy.
//
// Nothing in this package performs I/O or holds state; it is the common
// vocabulary between the reducer core (internal/reducer), the parsing
// layer (internal/factline), and the adapters (pkg/adapters).
package domain
