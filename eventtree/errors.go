package eventtree

import "fmt"

// UnknownBranchTargetError reports a BranchTarget implementation the
// flattener does not recognise (only *Fork and *Sequence are defined).
type UnknownBranchTargetError struct {
	Target BranchTarget
}

func (e *UnknownBranchTargetError) Error() string {
	return fmt.Sprintf("eventtree: unknown branch target %T", e.Target)
}

// UnknownInstructionError reports an Instruction implementation the
// flattener does not recognise.
type UnknownInstructionError struct {
	Instruction Instruction
}

func (e *UnknownInstructionError) Error() string {
	return fmt.Sprintf("eventtree: unknown instruction %T", e.Instruction)
}
