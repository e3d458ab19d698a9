package determinize

import "fmt"

// Opcode identifies the kind of an Instruction.
type Opcode int

const (
	// OpReorder aliases the target cell to the source cell's value.
	OpReorder Opcode = iota
	// OpStorePos stores the current input position into the target cell.
	OpStorePos
	// OpStorePosPlusOne stores the current input position plus one.
	OpStorePosPlusOne
	// OpOpeningCommit finalizes the opening boundary held by the target cell.
	OpOpeningCommit
	// OpClosingCommit finalizes the closing boundary held by the target cell.
	OpClosingCommit
)

// String returns a readable name for the opcode.
func (op Opcode) String() string {
	switch op {
	case OpReorder:
		return "reorder"
	case OpStorePos:
		return "storePos"
	case OpStorePosPlusOne:
		return "storePos+1"
	case OpOpeningCommit:
		return "commit<"
	case OpClosingCommit:
		return "commit>"
	default:
		return fmt.Sprintf("Opcode(%d)", int(op))
	}
}

// Instruction is a single tag-maintenance operation emitted during closure or
// merge. Instructions are data, not actions: they are accumulated into
// ordered lists and executed against a live cell array at match time.
// Source is set only for OpReorder.
type Instruction struct {
	Op     Opcode
	Target *History
	Source *History
}

func reorder(target, source *History) Instruction {
	return Instruction{Op: OpReorder, Target: target, Source: source}
}

func storePos(target *History) Instruction {
	return Instruction{Op: OpStorePos, Target: target}
}

func storePosPlusOne(target *History) Instruction {
	return Instruction{Op: OpStorePosPlusOne, Target: target}
}

func openingCommit(target *History) Instruction {
	return Instruction{Op: OpOpeningCommit, Target: target}
}

func closingCommit(target *History) Instruction {
	return Instruction{Op: OpClosingCommit, Target: target}
}

// String implements fmt.Stringer.
func (i Instruction) String() string {
	if i.Op == OpReorder {
		return fmt.Sprintf("%v(%v <- %v)", i.Op, i.Target, i.Source)
	}
	return fmt.Sprintf("%v(%v)", i.Op, i.Target)
}
