package compiler

import (
	"errors"
	"fmt"
	"math"
)

// Generation errors. The malformed-patch errors signal a generator bug, not a
// problem with the input tree; each operator has its own so a failure can be
// traced to the lowering that produced it.
var (
	ErrPCOverflow        = errors.New("program counter address space exhausted")
	ErrMalformedOr       = errors.New("malformed patch target for alternation")
	ErrMalformedStar     = errors.New("malformed patch target for zero-or-more")
	ErrMalformedPlus     = errors.New("malformed patch target for one-or-more")
	ErrMalformedQuestion = errors.New("malformed patch target for zero-or-one")
	ErrUnknownNode       = errors.New("unknown syntax node")
)

// GenError is returned when a program cannot be generated. No partial program
// accompanies it.
type GenError struct {
	Err error
	PC  int
}

func (e *GenError) Error() string {
	return fmt.Sprintf("codegen error @ pc %d: %v", e.PC, e.Err)
}

func (e *GenError) Unwrap() error { return e.Err }

// safeAdd returns a+b, or overflowErr if the sum would exceed limit.
func safeAdd(a, b, limit int, overflowErr error) (int, error) {
	if limit <= 0 {
		limit = math.MaxInt
	}
	if b < 0 || a > limit-b {
		return a, overflowErr
	}
	return a + b, nil
}
