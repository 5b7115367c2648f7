package regvm

import "fmt"

// Stage identifies the pipeline stage that failed.
type Stage int

const (
	StageParse Stage = iota + 1
	StageGenerate
	StageEvaluate
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageGenerate:
		return "generate"
	case StageEvaluate:
		return "evaluate"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Error is the single error type surfaced by this package. Err is the
// stage's own error (from internal/ast, internal/compiler or internal/eval)
// and stays reachable through errors.Is and errors.As.
type Error struct {
	Stage   Stage
	Pattern string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("regvm: %s %q: %v", e.Stage, e.Pattern, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
