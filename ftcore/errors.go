package ftcore

import "fmt"

// InvalidModelError reports bad input caught before or during graph
// construction: cyclic gate references, undefined index references,
// out-of-range ATLEAST vote counts, non-contiguous gate indices, or a
// fault tree naming an unknown top gate.
type InvalidModelError struct {
	Reason string
	Err    error
}

func (e *InvalidModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ftcore: invalid model: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("ftcore: invalid model: %s", e.Reason)
}

func (e *InvalidModelError) Unwrap() error { return e.Err }

// UnsupportedFeatureError reports a construct this core does not implement:
// a non-binary XOR gate, or a top event that is non-coherent (a negated
// leaf or gate surviving preprocessing) — spec.md §8 scenario 6.
type UnsupportedFeatureError struct {
	Feature string
	Err     error
}

func (e *UnsupportedFeatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ftcore: unsupported feature: %s: %v", e.Feature, e.Err)
	}
	return fmt.Sprintf("ftcore: unsupported feature: %s", e.Feature)
}

func (e *UnsupportedFeatureError) Unwrap() error { return e.Err }

// OrderExceededError names the "no MCS within LimitOrder" outcome for
// embedders that want to construct or match it explicitly. Analyze itself
// never returns this as a failure: spec.md §6 documents the outcome as
// permissible, so Analyze instead records the affected target in
// Result.OrderExceeded and returns a nil error.
type OrderExceededError struct {
	LimitOrder int
}

func (e *OrderExceededError) Error() string {
	return fmt.Sprintf("ftcore: no minimal cut set within limit_order %d", e.LimitOrder)
}

// InternalError reports an invariant violation or a pipeline failure with no
// input-error explanation — a bug in this module, not in the caller's input.
type InternalError struct {
	Stage string
	Err   error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("ftcore: internal error during %s: %v", e.Stage, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }
