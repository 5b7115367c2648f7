// Package eval executes vm programs with a depth-first backtracking search
// over (program counter, input position) pairs.
//
// Split instructions try their first target before their second, and the
// first path to reach Match wins. That ordering is what makes alternation
// left-biased and repetition greedy. The search recurses once per pending
// alternative; patterns that loop without consuming input, such as (a*)*,
// recurse without bound.
package eval

import (
	"github.com/KromDaniel/regvm/internal/vm"
)

// machine holds the read-only inputs of one evaluation. Each recursive
// attempt carries its own pc and sp.
type machine struct {
	inst  []vm.Inst
	input []rune
	full  bool
}

// Match runs p against input starting at pc 0 and sp 0. A path succeeds as
// soon as it reaches Match; input left unconsumed at that point is not
// checked.
func Match(p *vm.Program, input []rune) (bool, error) {
	if p == nil {
		return false, &RuntimeError{Err: ErrInvalidContext}
	}
	m := &machine{inst: p.Inst, input: input}
	return m.run(0, 0)
}

// MatchFull is like Match but a path reaching Match only succeeds when it
// has consumed the whole input. Other paths keep being explored.
func MatchFull(p *vm.Program, input []rune) (bool, error) {
	if p == nil {
		return false, &RuntimeError{Err: ErrInvalidContext}
	}
	m := &machine{inst: p.Inst, input: input, full: true}
	return m.run(0, 0)
}

// Search reports whether p matches starting at any position of input,
// trying positions from left to right.
func Search(p *vm.Program, input []rune) (bool, error) {
	if p == nil {
		return false, &RuntimeError{Err: ErrInvalidContext}
	}
	m := &machine{inst: p.Inst, input: input}
	for start := 0; start <= len(input); start++ {
		ok, err := m.run(0, start)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func (m *machine) run(pc, sp int) (bool, error) {
	for {
		if pc < 0 || pc >= len(m.inst) {
			return false, &RuntimeError{Err: ErrInvalidPC, PC: pc, SP: sp}
		}

		inst := m.inst[pc]
		switch inst.Op {
		case vm.OpChar:
			if sp >= len(m.input) || m.input[sp] != inst.Rune {
				return false, nil
			}
			var err error
			if pc, err = increment(pc, ErrPCOverflow); err != nil {
				return false, &RuntimeError{Err: err, PC: pc, SP: sp}
			}
			if sp, err = increment(sp, ErrSPOverflow); err != nil {
				return false, &RuntimeError{Err: err, PC: pc, SP: sp}
			}

		case vm.OpMatch:
			if m.full && sp != len(m.input) {
				return false, nil
			}
			return true, nil

		case vm.OpJump:
			pc = inst.X

		case vm.OpSplit:
			ok, err := m.run(inst.X, sp)
			if err != nil || ok {
				return ok, err
			}
			pc = inst.Y

		default:
			return false, &RuntimeError{Err: ErrInvalidContext, PC: pc, SP: sp}
		}
	}
}
