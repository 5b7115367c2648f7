package regvm

import (
	"fmt"
	"io"

	"github.com/KromDaniel/regvm/internal/codegen"
	"github.com/KromDaniel/regvm/internal/compiler"
)

// GenerateOptions configures Go source generation.
type GenerateOptions struct {
	// Pattern is the regular expression to compile
	Pattern string

	// Name is the generated type name (e.g., "Email" generates "type Email struct{}" and "CompiledEmail")
	Name string

	// OutputFile is the path where generated code will be written
	OutputFile string

	// Package is the Go package name for the generated code
	Package string

	// NoPool disables sync.Pool for backtrack stack reuse
	NoPool bool

	// Full makes the generated matcher require the whole input to be consumed
	Full bool

	// MaxInstructions bounds the program size (0 = unlimited)
	MaxInstructions int

	// Verbose logs generation decisions
	Verbose bool
}

// Validate checks if the options are valid. OutputFile is only required by
// GenerateGo.
func (o GenerateOptions) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if !codegen.IsIdentifier(o.Name) {
		return fmt.Errorf("name %q is not a valid Go identifier", o.Name)
	}
	if o.Package == "" {
		return fmt.Errorf("package cannot be empty")
	}
	if !codegen.IsIdentifier(o.Package) {
		return fmt.Errorf("package %q is not a valid Go identifier", o.Package)
	}
	if o.MaxInstructions < 0 {
		return fmt.Errorf("max instructions cannot be negative")
	}
	return nil
}

// GenerateGo compiles opts.Pattern and writes a standalone Go matcher to
// opts.OutputFile. The generated MatchString accepts exactly the inputs
// Regexp.MatchString accepts (or MatchFullString when opts.Full is set).
func GenerateGo(opts GenerateOptions) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	if opts.OutputFile == "" {
		return fmt.Errorf("invalid options: output file cannot be empty")
	}

	c, err := newEmitter(opts)
	if err != nil {
		return err
	}
	c.SetOutputFile(opts.OutputFile)

	if err := c.Generate(); err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	return nil
}

// RenderGo is like GenerateGo but writes the source to w.
func RenderGo(opts GenerateOptions, w io.Writer) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	c, err := newEmitter(opts)
	if err != nil {
		return err
	}
	if err := c.Render(w); err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	return nil
}

func newEmitter(opts GenerateOptions) (*compiler.Compiler, error) {
	re, err := CompileWith(Options{
		Pattern:         opts.Pattern,
		MaxInstructions: opts.MaxInstructions,
		Verbose:         opts.Verbose,
	})
	if err != nil {
		return nil, err
	}

	return compiler.New(compiler.Config{
		Pattern: opts.Pattern,
		Name:    opts.Name,
		Package: opts.Package,
		Program: re.Program(),
		UsePool: !opts.NoPool,
		Full:    opts.Full,
		Verbose: opts.Verbose,
	}), nil
}
