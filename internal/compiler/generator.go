package compiler

import (
	"fmt"

	"github.com/KromDaniel/regvm/internal/ast"
	"github.com/KromDaniel/regvm/internal/vm"
)

// placeholder marks a branch target that has not been patched yet.
const placeholder = -1

// Generator lowers a syntax tree into a vm.Program. A Generator holds the
// state of one generation call: the address the next instruction will occupy
// and the instructions emitted so far.
type Generator struct {
	pc     int
	insts  []vm.Inst
	limit  int
	logger *Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithMaxInstructions bounds the program size. Zero means the full int range.
func WithMaxInstructions(n int) GeneratorOption {
	return func(g *Generator) { g.limit = n }
}

// WithLogger attaches a logger for verbose output.
func WithLogger(l *Logger) GeneratorOption {
	return func(g *Generator) { g.logger = l }
}

// NewGenerator creates a generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = NewLogger("codegen", false)
	}
	return g
}

// Generate lowers n with default options.
func Generate(n ast.Node) (*vm.Program, error) {
	return NewGenerator().Generate(n)
}

// Generate lowers n followed by a trailing Match. The generator is reset
// first, so a Generator may be reused for sequential calls.
func (g *Generator) Generate(n ast.Node) (*vm.Program, error) {
	g.pc = 0
	g.insts = nil

	if err := g.genExpr(n); err != nil {
		return nil, err
	}
	if _, err := g.emit(vm.Match()); err != nil {
		return nil, err
	}

	prog := &vm.Program{Inst: g.insts}
	g.insts = nil

	// Only a lowering bug can produce an invalid program here.
	if err := prog.Validate(); err != nil {
		return nil, &GenError{Err: err, PC: g.pc}
	}

	s := prog.Stats()
	g.logger.Log("generated %d instructions (char=%d split=%d jmp=%d) for %s",
		prog.Len(), s.Chars, s.Splits, s.Jumps, n)
	return prog, nil
}

// emit appends inst at the current address and advances the cursor.
func (g *Generator) emit(inst vm.Inst) (int, error) {
	addr := g.pc
	next, err := safeAdd(g.pc, 1, g.limit, ErrPCOverflow)
	if err != nil {
		return addr, &GenError{Err: err, PC: addr}
	}
	g.insts = append(g.insts, inst)
	g.pc = next
	return addr, nil
}

func (g *Generator) genExpr(n ast.Node) error {
	switch n := n.(type) {
	case ast.Char:
		_, err := g.emit(vm.Char(n.Rune))
		return err
	case ast.Seq:
		return g.genSeq(n.Nodes)
	case ast.Or:
		return g.genOr(n.Left, n.Right)
	case ast.Star:
		return g.genStar(n.Node)
	case ast.Plus:
		return g.genPlus(n.Node)
	case ast.Question:
		return g.genQuestion(n.Node)
	}
	return &GenError{Err: fmt.Errorf("%w %T", ErrUnknownNode, n), PC: g.pc}
}

func (g *Generator) genSeq(nodes []ast.Node) error {
	for _, n := range nodes {
		if err := g.genExpr(n); err != nil {
			return err
		}
	}
	return nil
}

//	    split L1, L2
//	L1: e1
//	    jmp L3
//	L2: e2
//	L3:
func (g *Generator) genOr(e1, e2 ast.Node) error {
	split, err := g.emit(vm.Split(placeholder, placeholder))
	if err != nil {
		return err
	}
	if err := g.patchSplitX(split, g.pc, ErrMalformedOr); err != nil {
		return err
	}

	if err := g.genExpr(e1); err != nil {
		return err
	}

	jmp, err := g.emit(vm.Jump(placeholder))
	if err != nil {
		return err
	}
	if err := g.patchSplitY(split, g.pc, ErrMalformedOr); err != nil {
		return err
	}

	if err := g.genExpr(e2); err != nil {
		return err
	}

	return g.patchJump(jmp, g.pc, ErrMalformedOr)
}

//	L1: split L2, L3
//	L2: e
//	    jmp L1
//	L3:
func (g *Generator) genStar(e ast.Node) error {
	split, err := g.emit(vm.Split(placeholder, placeholder))
	if err != nil {
		return err
	}
	if err := g.patchSplitX(split, g.pc, ErrMalformedStar); err != nil {
		return err
	}

	if err := g.genExpr(e); err != nil {
		return err
	}

	if _, err := g.emit(vm.Jump(split)); err != nil {
		return err
	}
	return g.patchSplitY(split, g.pc, ErrMalformedStar)
}

//	L1: e
//	    split L1, L2
//	L2:
func (g *Generator) genPlus(e ast.Node) error {
	start := g.pc
	if err := g.genExpr(e); err != nil {
		return err
	}

	split, err := g.emit(vm.Split(start, placeholder))
	if err != nil {
		return err
	}
	return g.patchSplitY(split, g.pc, ErrMalformedPlus)
}

//	    split L1, L2
//	L1: e
//	L2:
func (g *Generator) genQuestion(e ast.Node) error {
	split, err := g.emit(vm.Split(placeholder, placeholder))
	if err != nil {
		return err
	}
	if err := g.patchSplitX(split, g.pc, ErrMalformedQuestion); err != nil {
		return err
	}

	if err := g.genExpr(e); err != nil {
		return err
	}
	return g.patchSplitY(split, g.pc, ErrMalformedQuestion)
}

// slot returns the already emitted instruction at addr if it has kind op.
func (g *Generator) slot(addr int, op vm.Op, malformed error) (*vm.Inst, error) {
	if addr < 0 || addr >= len(g.insts) || g.insts[addr].Op != op {
		return nil, &GenError{Err: malformed, PC: addr}
	}
	return &g.insts[addr], nil
}

func (g *Generator) patchSplitX(addr, target int, malformed error) error {
	inst, err := g.slot(addr, vm.OpSplit, malformed)
	if err != nil {
		return err
	}
	inst.X = target
	return nil
}

func (g *Generator) patchSplitY(addr, target int, malformed error) error {
	inst, err := g.slot(addr, vm.OpSplit, malformed)
	if err != nil {
		return err
	}
	inst.Y = target
	return nil
}

func (g *Generator) patchJump(addr, target int, malformed error) error {
	inst, err := g.slot(addr, vm.OpJump, malformed)
	if err != nil {
		return err
	}
	inst.X = target
	return nil
}
