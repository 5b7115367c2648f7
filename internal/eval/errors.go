package eval

import (
	"errors"
	"fmt"
	"math"
)

// Evaluation errors. An ordinary failed match is never an error.
var (
	ErrPCOverflow     = errors.New("program counter address space exhausted")
	ErrSPOverflow     = errors.New("input position counter exhausted")
	ErrInvalidPC      = errors.New("program counter outside program")
	ErrInvalidContext = errors.New("invalid evaluation context")
)

// RuntimeError is an error encountered while executing a program. It means
// the program is corrupt, not that the input failed to match.
type RuntimeError struct {
	Err error
	PC  int
	SP  int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("eval error @ pc %d sp %d: %v", e.PC, e.SP, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func increment(v int, overflowErr error) (int, error) {
	if v == math.MaxInt {
		return v, overflowErr
	}
	return v + 1, nil
}
