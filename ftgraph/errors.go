package ftgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexNotFound indicates a lookup by an index that the arena never assigned.
	ErrIndexNotFound = errors.New("ftgraph: index not found")

	// ErrNotAGate indicates an operation expected a gate index but received a leaf index.
	ErrNotAGate = errors.New("ftgraph: index does not refer to a gate")

	// ErrCycle indicates a mutation would have formed a cycle in the gate arena.
	ErrCycle = errors.New("ftgraph: operation would introduce a cycle")
)

// IndexError wraps ErrIndexNotFound / ErrNotAGate with the offending index,
// so callers can report which argument was bad without string-parsing the
// error text.
type IndexError struct {
	Op    string
	Index int32
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("ftgraph: %s: index %d: %v", e.Op, e.Index, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }

func newIndexError(op string, index int32, err error) error {
	return &IndexError{Op: op, Index: index, Err: err}
}
