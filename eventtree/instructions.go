package eventtree

// Instruction is the tagged sum of the four instruction kinds an event-tree
// branch or sequence may carry, per spec.md §4.7.
type Instruction interface {
	isInstruction()
}

// SetHouseEvent overrides a house event's fixed truth value for the
// remainder of the current path only. OQ1 (spec.md §9) is resolved as
// "local context, last instruction on a path wins": the override lives in
// that path's own pathState (cloned at every fork/link), never in the
// shared ftgraph.Graph registry, so it has no effect on a sibling path, a
// different sequence, or a different event tree.
type SetHouseEvent struct {
	Index int32
	Value bool
}

func (SetHouseEvent) isInstruction() {}

// Link transfers control to another event tree's initial state; the branch
// or sequence carrying this instruction is never itself registered as a
// terminal.
type Link struct {
	Target *EventTree
}

func (Link) isInstruction() {}

// CollectFormula appends a signed ftgraph reference (leaf or gate) to the
// current path's formula list.
type CollectFormula struct {
	Formula int32
}

func (CollectFormula) isInstruction() {}

// CollectExpression appends a probability-expression identifier to the
// current path's expression list. Expressions are never evaluated by this
// package (probability analysis is out of scope); identifiers are only
// carried through to Result.SequenceExpressions for an embedder's own use.
type CollectExpression struct {
	Expression string
}

func (CollectExpression) isInstruction() {}

// BranchTarget is the tagged sum of what a Branch continues into: either
// further branching (*Fork) or a terminal (*Sequence).
type BranchTarget interface {
	isBranchTarget()
}

// Fork branches into multiple independent paths, each explored with its own
// cloned path context.
type Fork struct {
	Paths []*Branch
}

func (*Fork) isBranchTarget() {}

// Sequence is a terminal of the event tree, identified by name. Like a
// Branch, it may itself carry instructions (most commonly a trailing Link).
type Sequence struct {
	Name         string
	Instructions []Instruction
}

func (*Sequence) isBranchTarget() {}

// Branch is one node of the tree: a list of instructions executed in order,
// followed by a BranchTarget.
type Branch struct {
	Instructions []Instruction
	Target       BranchTarget
}

// EventTree is a named forest root: a single InitialState branch.
type EventTree struct {
	Name         string
	InitialState *Branch
}
