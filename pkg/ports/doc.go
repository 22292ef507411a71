// Package ports defines the driven-side interfaces of the Arbor engine:
// the item store that owns tree state and the fact log that feeds replay.
//
// Adapters live in pkg/adapters. The package also ships reusable contract
// test suites so every adapter is verified against the same semantics.
package ports
