package ftcore

// Result is the outcome of one Analyze call.
type Result struct {
	// MCS maps each analysed target's id (a FaultTree.ID, or
	// "<event tree name>/<sequence name>" for a flattened sequence) to its
	// minimal cut sets, each an ascending tuple of positive basic-event
	// indices.
	MCS map[string][][]int32

	// ModuleMCS maps each detected module's gate index to its own minimal
	// cut sets, for embedders that want to substitute them independently
	// (spec.md §4.5).
	ModuleMCS map[int32][][]int32

	// OrderExceeded lists the target ids for which no MCS survived the
	// LimitOrder bound — permissible per spec.md §6, not an error.
	OrderExceeded []string

	Diagnostics Diagnostics
}

// Diagnostics reports manifest bookkeeping computed as a side effect of
// preprocessing, per spec.md §4.8.
type Diagnostics struct {
	// OrphanPrimaryEvents lists basic-event ids that neither a gate's
	// argument set nor an event-tree CollectFormula instruction references.
	OrphanPrimaryEvents []string
	// UnusedParameters lists parameter ids no basic event's Expression
	// names.
	UnusedParameters []string
}
