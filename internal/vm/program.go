package vm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	ErrAddressRange = errors.New("address out of range")
	ErrMissingMatch = errors.New("program does not end with match")
	ErrStrayMatch   = errors.New("match before end of program")
	ErrUnknownOp    = errors.New("unknown opcode")
	ErrJumpCycle    = errors.New("jump cycle never consumes input")
)

// ValidationError reports the first structural problem found in a program.
type ValidationError struct {
	PC  int
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("vm: invalid program @ pc %d: %v", e.PC, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Program is a flat, address-indexed instruction sequence. A program is built
// once and must not be modified afterwards; it may be shared by concurrent
// readers.
type Program struct {
	Inst []Inst
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Inst)
}

// Validate checks that every referenced address is inside the program, that
// the program is terminated by exactly one trailing Match and that no chain
// of jumps loops back on itself.
func (p *Program) Validate() error {
	n := len(p.Inst)
	if n == 0 || p.Inst[n-1].Op != OpMatch {
		return &ValidationError{PC: n - 1, Err: ErrMissingMatch}
	}
	for pc, inst := range p.Inst {
		if !inst.Op.Valid() {
			return &ValidationError{PC: pc, Err: ErrUnknownOp}
		}
		if inst.Op == OpMatch && pc != n-1 {
			return &ValidationError{PC: pc, Err: ErrStrayMatch}
		}
		for _, t := range inst.Targets() {
			if t < 0 || t >= n {
				return &ValidationError{PC: pc, Err: fmt.Errorf("%w: %d", ErrAddressRange, t)}
			}
		}
	}
	return p.checkJumpCycles()
}

// checkJumpCycles rejects chains of Jump instructions that return to an
// address already on the chain. The evaluator would spin on such a chain
// without consuming input or growing its stack.
func (p *Program) checkJumpCycles() error {
	const (
		unseen = iota
		onChain
		done
	)
	state := make([]uint8, len(p.Inst))
	for start := range p.Inst {
		pc := start
		for p.Inst[pc].Op == OpJump && state[pc] == unseen {
			state[pc] = onChain
			pc = p.Inst[pc].X
		}
		if p.Inst[pc].Op == OpJump && state[pc] == onChain {
			return &ValidationError{PC: pc, Err: ErrJumpCycle}
		}
		for pc = start; p.Inst[pc].Op == OpJump && state[pc] == onChain; pc = p.Inst[pc].X {
			state[pc] = done
		}
	}
	return nil
}

// Stats counts instructions per opcode.
type Stats struct {
	Chars   int
	Matches int
	Jumps   int
	Splits  int
}

// Stats returns opcode counts for the program.
func (p *Program) Stats() Stats {
	var s Stats
	for _, inst := range p.Inst {
		switch inst.Op {
		case OpChar:
			s.Chars++
		case OpMatch:
			s.Matches++
		case OpJump:
			s.Jumps++
		case OpSplit:
			s.Splits++
		}
	}
	return s
}

// Disassemble writes one line per instruction to w.
func (p *Program) Disassemble(w io.Writer) (int, error) {
	var buf bytes.Buffer
	for pc, inst := range p.Inst {
		fmt.Fprintf(&buf, "%3d  %s\n", pc, inst)
	}
	return w.Write(buf.Bytes())
}

func (p *Program) String() string {
	var buf bytes.Buffer
	p.Disassemble(&buf)
	return buf.String()
}
