package ports

import "context"

// FactLog is an append-only, totally ordered sequence of fact lines.
//
// The engine never decides how the log is stored or transmitted; it only
// replays lines in order. Ordering is the host's contract: Lines must
// return exactly the appended sequence.
type FactLog interface {
	// Append adds a fact line at the end of the log.
	Append(ctx context.Context, line string) error

	// Lines returns every line in append order.
	Lines(ctx context.Context) ([]string, error)

	// Clear removes all lines.
	Clear(ctx context.Context) error
}
