// Package vm defines the instruction set and program layout executed by the
// backtracking evaluator and rendered by the Go emitter.
package vm

import "fmt"

// Op is an instruction opcode.
type Op uint8

const (
	// OpChar consumes one input symbol equal to Inst.Rune.
	OpChar Op = iota
	// OpMatch accepts the path taken so far.
	OpMatch
	// OpJump transfers control to Inst.X.
	OpJump
	// OpSplit tries Inst.X first and falls back to Inst.Y at the same input position.
	OpSplit
)

var opNames = [...]string{
	OpChar:  "char",
	OpMatch: "match",
	OpJump:  "jmp",
	OpSplit: "split",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Valid reports whether op is a known opcode.
func (op Op) Valid() bool {
	return int(op) < len(opNames)
}

// Inst is a single instruction.
//
// Field use depends on Op:
//   - OpChar: Rune
//   - OpJump: X
//   - OpSplit: X (preferred), Y (fallback)
//   - OpMatch: none
type Inst struct {
	Op   Op
	Rune rune
	X    int
	Y    int
}

// Char returns a Char instruction.
func Char(r rune) Inst { return Inst{Op: OpChar, Rune: r} }

// Match returns a Match instruction.
func Match() Inst { return Inst{Op: OpMatch} }

// Jump returns a Jump instruction.
func Jump(target int) Inst { return Inst{Op: OpJump, X: target} }

// Split returns a Split instruction.
func Split(x, y int) Inst { return Inst{Op: OpSplit, X: x, Y: y} }

// Targets returns the addresses referenced by the instruction.
func (i Inst) Targets() []int {
	switch i.Op {
	case OpJump:
		return []int{i.X}
	case OpSplit:
		return []int{i.X, i.Y}
	}
	return nil
}

func (i Inst) String() string {
	switch i.Op {
	case OpChar:
		return fmt.Sprintf("char %q", i.Rune)
	case OpMatch:
		return "match"
	case OpJump:
		return fmt.Sprintf("jmp %d", i.X)
	case OpSplit:
		return fmt.Sprintf("split %d, %d", i.X, i.Y)
	}
	return i.Op.String()
}
