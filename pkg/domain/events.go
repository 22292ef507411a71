package domain

import (
	"context"
	"time"
)

// FactEvent describes the outcome of applying one fact.
type FactEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      FactKind  `json:"kind"`
	ItemID    string    `json:"item_id"`

	// Reason is set on rejection events (see RejectReason).
	Reason string `json:"reason,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// All hooks are optional and must not mutate the store.
type LifecycleHooks struct {
	OnFactApplied  func(context.Context, *FactEvent)
	OnFactRejected func(context.Context, *FactEvent)
}
