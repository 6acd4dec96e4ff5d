package cutset

import (
	"errors"
	"fmt"
)

var (
	// ErrNonCoherent reports a negative (complemented) leaf reference
	// surviving into cut-set expansion — this engine only supports coherent
	// fault trees (spec.md §8, scenario 6).
	ErrNonCoherent = errors.New("cutset: graph is non-coherent (negative leaf reference present)")
	// ErrUnexpectedCollision reports a {i, -i} pair inside a single SimpleGate
	// composition, which spec.md documents as "cannot happen in coherent
	// mode, but asserted" — reaching it is an internal invariant violation,
	// not a malformed-input condition.
	ErrUnexpectedCollision = errors.New("cutset: unexpected basic-event/module complement collision in coherent graph")
)

// GateError reports a cut-set construction failure tied to a specific gate.
type GateError struct {
	Op    string
	Index int32
	Err   error
}

func (e *GateError) Error() string {
	return fmt.Sprintf("cutset: %s: gate %d: %v", e.Op, e.Index, e.Err)
}

func (e *GateError) Unwrap() error { return e.Err }
