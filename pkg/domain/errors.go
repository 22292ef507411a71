package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the engine's error taxonomy.
//
// Every failure class is reified as an error value; nothing is silently
// swallowed or downgraded to a log line. A host replaying a log should
// treat any of these as fatal to the replay: downstream facts may assume
// the rejected mutation happened.
var (
	// ErrPreconditionViolation signals a fact that is invalid given the
	// current tree state (e.g. creating an existing ID). The log is either
	// corrupt or out of order.
	ErrPreconditionViolation = errors.New("precondition violation")

	// ErrMalformedEncoding signals a title/note payload that is not a
	// valid quoted string, or a decoded title containing a line break.
	ErrMalformedEncoding = errors.New("malformed text encoding")

	// ErrInvalidPosition signals a position token that is not a canonical
	// non-negative integer, or an insertion index past the end of the
	// target subitem list.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrNoMatchingPattern signals a fact line recognized by no pattern.
	ErrNoMatchingPattern = errors.New("no matching fact pattern")

	// ErrUnknownFactKind signals a fact whose kind has no reducer.
	ErrUnknownFactKind = errors.New("unknown fact kind")

	// ErrItemNotFound is returned by the query surface for missing IDs.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemExists is returned by stores when creating a duplicate ID.
	ErrItemExists = errors.New("item already exists")
)

// PreconditionError reports which check rejected a fact.
// It unwraps to ErrPreconditionViolation so callers can classify with
// errors.Is while still seeing the specific reason.
type PreconditionError struct {
	Kind   FactKind
	ItemID string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("fact %s(%s): precondition violation: %s", e.Kind, e.ItemID, e.Reason)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPreconditionViolation
}

// PostconditionError reports a post-mutation check failure. This indicates
// a bug in the reducer itself, not in the fact log, but it is surfaced as
// a real error rather than a log message so replays halt.
type PostconditionError struct {
	Kind   FactKind
	ItemID string
	Check  string
}

func (e *PostconditionError) Error() string {
	return fmt.Sprintf("fact %s(%s): postcondition failed: %s", e.Kind, e.ItemID, e.Check)
}

// RejectReason classifies an error into a short label suitable for metric
// labels and lifecycle events.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrPreconditionViolation):
		return "precondition"
	case errors.Is(err, ErrMalformedEncoding):
		return "encoding"
	case errors.Is(err, ErrInvalidPosition):
		return "position"
	case errors.Is(err, ErrNoMatchingPattern):
		return "no_pattern"
	case errors.Is(err, ErrUnknownFactKind):
		return "unknown_kind"
	case errors.Is(err, ErrItemNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
