// Package regvm compiles regular expressions into a small bytecode program
// and matches strings against it with a backtracking virtual machine.
//
// Supported syntax is concatenation, alternation (|), grouping, the greedy
// quantifiers *, + and ?, counted repetition, and small character classes.
//
// Example:
//
//	ok, err := regvm.Match("(de|cd)+", "decd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ok) // true
package regvm

import (
	"fmt"

	"github.com/KromDaniel/regvm/internal/ast"
	"github.com/KromDaniel/regvm/internal/compiler"
	"github.com/KromDaniel/regvm/internal/eval"
	"github.com/KromDaniel/regvm/internal/vm"
)

// Mode selects how a program is run against a subject.
type Mode int

const (
	// ModeAnchored starts at the beginning of the subject and succeeds as
	// soon as the program reaches Match; trailing input is not checked.
	ModeAnchored Mode = iota
	// ModeFull additionally requires the whole subject to be consumed.
	ModeFull
	// ModeSearch looks for a match starting at any position.
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeAnchored:
		return "anchored"
	case ModeFull:
		return "full"
	case ModeSearch:
		return "search"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode parses a mode name. The empty string selects ModeAnchored.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "anchored":
		return ModeAnchored, nil
	case "full":
		return ModeFull, nil
	case "search":
		return ModeSearch, nil
	}
	return 0, fmt.Errorf("unknown match mode %q", s)
}

// Options configures compilation.
type Options struct {
	// Pattern is the regular expression to compile
	Pattern string

	// Mode is used by Regexp.Match
	Mode Mode

	// MaxInstructions bounds the program size (0 = unlimited)
	MaxInstructions int

	// Verbose logs analysis and generation decisions
	Verbose bool
}

// Validate checks if the options are valid.
func (o Options) Validate() error {
	if o.Mode < ModeAnchored || o.Mode > ModeSearch {
		return fmt.Errorf("invalid mode %d", int(o.Mode))
	}
	if o.MaxInstructions < 0 {
		return fmt.Errorf("max instructions cannot be negative")
	}
	return nil
}

// Regexp is a compiled pattern. It is immutable and safe for concurrent use.
type Regexp struct {
	pattern string
	mode    Mode
	tree    ast.Node
	prog    *vm.Program
}

// Match compiles pattern and reports whether subject matches it from the
// first symbol. Ordinary non-matches return false and a nil error.
func Match(pattern, subject string) (bool, error) {
	re, err := Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(subject)
}

// Compile parses pattern and generates its program with default options.
func Compile(pattern string) (*Regexp, error) {
	return CompileWith(Options{Pattern: pattern})
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// CompileWith compiles opts.Pattern.
func CompileWith(opts Options) (*Regexp, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	logger := compiler.NewLogger("regvm", opts.Verbose)

	tree, err := ast.Parse(opts.Pattern)
	if err != nil {
		return nil, &Error{Stage: StageParse, Pattern: opts.Pattern, Err: err}
	}

	if opts.Verbose {
		a := ast.Analyze(tree)
		logger.Section("Pattern Analysis")
		logger.Log("Pattern: %s", tree)
		logger.Log("Nullable: %v", a.Nullable)
		if a.NestedQuantifiers {
			logger.Warn("pattern %q has nested quantifiers and may backtrack exponentially", opts.Pattern)
		}
		if a.EmptyLoop {
			logger.Warn("pattern %q repeats a sub-pattern that can match empty input; matching may not terminate", opts.Pattern)
		}
	}

	gen := compiler.NewGenerator(
		compiler.WithMaxInstructions(opts.MaxInstructions),
		compiler.WithLogger(compiler.NewLogger("codegen", opts.Verbose)),
	)
	prog, err := gen.Generate(tree)
	if err != nil {
		return nil, &Error{Stage: StageGenerate, Pattern: opts.Pattern, Err: err}
	}

	return &Regexp{
		pattern: opts.Pattern,
		mode:    opts.Mode,
		tree:    tree,
		prog:    prog,
	}, nil
}

// String returns the source pattern.
func (re *Regexp) String() string {
	return re.pattern
}

// Mode returns the mode used by Match.
func (re *Regexp) Mode() Mode {
	return re.mode
}

// Program returns the compiled program. It must not be modified.
func (re *Regexp) Program() *vm.Program {
	return re.prog
}

// Tree returns the syntax tree the program was generated from. It is nil for
// a Regexp loaded from a program image.
func (re *Regexp) Tree() ast.Node {
	return re.tree
}

// Match runs subject in the Regexp's configured mode.
func (re *Regexp) Match(subject string) (bool, error) {
	switch re.mode {
	case ModeFull:
		return re.MatchFullString(subject)
	case ModeSearch:
		return re.SearchString(subject)
	}
	return re.MatchString(subject)
}

// MatchString runs the program from the first symbol of subject. The match
// succeeds when the program reaches Match, even with input left over.
func (re *Regexp) MatchString(subject string) (bool, error) {
	return re.MatchRunes([]rune(subject))
}

// MatchRunes is MatchString over a symbol sequence.
func (re *Regexp) MatchRunes(input []rune) (bool, error) {
	return re.wrap(eval.Match(re.prog, input))
}

// MatchFullString reports whether the whole of subject matches.
func (re *Regexp) MatchFullString(subject string) (bool, error) {
	return re.wrap(eval.MatchFull(re.prog, []rune(subject)))
}

// SearchString reports whether a match starts anywhere in subject.
func (re *Regexp) SearchString(subject string) (bool, error) {
	return re.wrap(eval.Search(re.prog, []rune(subject)))
}

func (re *Regexp) wrap(ok bool, err error) (bool, error) {
	if err != nil {
		return false, &Error{Stage: StageEvaluate, Pattern: re.pattern, Err: err}
	}
	return ok, nil
}
