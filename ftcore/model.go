package ftcore

import (
	"github.com/scramgo/ftcore/eventtree"
	"github.com/scramgo/ftcore/ftgraph"
)

// BasicEvent is a leaf random variable with an optional probability
// expression. Expression is treated as a direct reference to a Parameter's
// ID rather than a parsed arithmetic expression tree: parsing and evaluating
// expressions is out of scope (spec.md §1); Analyze only uses it for the
// unused-parameter diagnostic (§4.8).
type BasicEvent struct {
	ID         string
	Index      int32
	Expression string
}

// HouseEvent is a leaf variable fixed to a truth value at analysis time.
type HouseEvent struct {
	ID    string
	Index int32
	State bool
}

// Parameter is a named value a BasicEvent's Expression may reference.
type Parameter struct {
	ID string
}

// Gate is one node of a symbolic fault tree before indexing into the arena.
// Arguments are signed indices naming either a leaf (basic or house event)
// or another gate already declared in the same Model.
type Gate struct {
	ID        string
	Index     int32
	Kind      ftgraph.Kind
	Arguments []int32
	AtleastK  int // vote count, meaningful only when Kind == ftgraph.ATLEAST
}

// FaultTree names a top gate within the manifest.
type FaultTree struct {
	ID           string
	TopGateIndex int32
}

// Model is the manifest an embedder hands to Analyze: a flattened snapshot
// of a fault tree (or several, sharing one leaf/gate index space) plus any
// event trees whose flattened sequences should be analysed alongside them.
type Model struct {
	// NumLeaves is B, the frozen count of basic+house event indices
	// occupying [1, NumLeaves].
	NumLeaves int32

	BasicEvents []BasicEvent
	HouseEvents []HouseEvent
	Parameters  []Parameter

	// Gate indices must form the contiguous range
	// [NumLeaves+1, NumLeaves+len(Gates)]; the list itself may be in any
	// order, since Analyze sorts it by Index. ftgraph.Graph mints gate
	// indices sequentially and has no API for out-of-order assignment, a
	// deliberate simplification of the arena-owns-everything design (spec.md
	// §9). Analyze returns an InvalidModelError if this does not hold.
	Gates      []Gate
	FaultTrees []FaultTree
	EventTrees []*eventtree.EventTree
}
