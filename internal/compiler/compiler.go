// Package compiler lowers regex syntax trees into vm programs and renders
// those programs as standalone Go matchers.
package compiler

import (
	"fmt"
	"io"

	"github.com/KromDaniel/regvm/internal/codegen"
	"github.com/KromDaniel/regvm/internal/vm"
	"github.com/dave/jennifer/jen"
)

// Config holds the configuration for Go code generation.
type Config struct {
	Pattern    string
	Name       string
	OutputFile string
	Package    string
	Program    *vm.Program
	UsePool    bool // Enable sync.Pool for backtrack stack reuse
	Full       bool // Require the whole input to be consumed at Match
	Verbose    bool // Enable verbose logging of generation decisions
}

// Compiler renders a vm.Program as Go source.
type Compiler struct {
	config       Config
	file         *jen.File
	logger       *Logger
	hasChar      bool // True if the program consumes input
	hasSplit     bool // True if the program contains Split instructions
	needFallback bool // True if the TryFallback block is referenced
}

// New creates a new compiler instance.
func New(config Config) *Compiler {
	c := &Compiler{
		config: config,
		file:   jen.NewFile(config.Package),
		logger: NewLogger("emit", config.Verbose),
	}

	if config.Program != nil {
		s := config.Program.Stats()
		c.hasChar = s.Chars > 0
		c.hasSplit = s.Splits > 0
	}
	c.needFallback = c.hasChar || c.config.Full

	c.analyzeAndLog()

	return c
}

// analyzeAndLog logs the shape of the program if verbose mode is enabled.
func (c *Compiler) analyzeAndLog() {
	c.logger.Section("Program Analysis")
	c.logger.Log("Pattern: %s", c.config.Pattern)

	if c.config.Program != nil {
		c.logger.Log("Instructions: %d", c.config.Program.Len())
	}
	c.logger.Log("Consumes input: %v", c.hasChar)
	c.logger.Log("Needs backtracking: %v", c.hasSplit)
	c.logger.Log("Full match: %v", c.config.Full)
	c.logger.Log("Stack pool: %v", c.config.UsePool && c.hasSplit)
}

// SetOutputFile sets the output file path.
func (c *Compiler) SetOutputFile(path string) {
	c.config.OutputFile = path
}

// method returns a jen.Statement for declaring a method on the generated struct.
func (c *Compiler) method(name string) *jen.Statement {
	return c.file.Func().
		Params(jen.Id(c.config.Name)).
		Id(name)
}

// Generate builds the Go code and writes it to the output file.
func (c *Compiler) Generate() error {
	if c.config.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if err := c.build(); err != nil {
		return err
	}
	if err := c.file.Save(c.config.OutputFile); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// Render builds the Go code and writes the formatted source to w.
func (c *Compiler) Render(w io.Writer) error {
	if err := c.build(); err != nil {
		return err
	}
	if err := c.file.Render(w); err != nil {
		return fmt.Errorf("failed to render file: %w", err)
	}
	return nil
}

func (c *Compiler) build() error {
	if c.config.Program == nil {
		return fmt.Errorf("program cannot be nil")
	}
	if err := c.config.Program.Validate(); err != nil {
		return fmt.Errorf("invalid program: %w", err)
	}

	// Start from a fresh file so Render and Generate can both be called
	c.file = jen.NewFile(c.config.Package)
	c.file.HeaderComment(fmt.Sprintf("Code generated by regvm for pattern: %s. DO NOT EDIT.", c.config.Pattern))

	if c.config.UsePool && c.hasSplit {
		c.generateStackPool()
	}

	// Generate the main struct type
	c.file.Type().Id(c.config.Name).Struct()
	c.file.Line()

	// Generate convenience variable for direct usage
	c.file.Var().Id(fmt.Sprintf("Compiled%s", c.config.Name)).Op("=").Id(c.config.Name).Values()
	c.file.Line()

	c.method("MatchString").
		Params(jen.Id(codegen.InputName).String()).
		Params(jen.Bool()).
		Block(
			jen.Return(jen.Id(c.config.Name).Values().Dot("MatchRunes").Call(
				jen.Index().Rune().Call(jen.Id(codegen.InputName)),
			)),
		)

	matchRunesCode, err := c.generateMatchFunction()
	if err != nil {
		return fmt.Errorf("failed to generate match function: %w", err)
	}

	c.method("MatchRunes").
		Params(jen.Id(codegen.InputName).Index().Rune()).
		Params(jen.Bool()).
		Block(matchRunesCode...)

	return nil
}

// generateMatchFunction generates the goto-based matching logic.
func (c *Compiler) generateMatchFunction() ([]jen.Code, error) {
	var code []jen.Code

	if c.needFallback {
		code = append(code, jen.Id(codegen.InputLenName).Op(":=").Len(jen.Id(codegen.InputName)))
	}
	if c.needFallback || c.hasSplit {
		code = append(code, jen.Id(codegen.OffsetName).Op(":=").Lit(0))
	}

	// Only add stack initialization if backtracking is needed
	if c.hasSplit {
		if c.config.UsePool {
			code = append(code, c.generatePooledStackInit()...)
		} else {
			code = append(code,
				jen.Id(codegen.StackName).Op(":=").Make(jen.Index().Index(jen.Lit(2)).Int(), jen.Lit(0), jen.Lit(32)),
			)
		}
	}

	code = append(code,
		jen.Id(codegen.NextInstructionName).Op(":=").Lit(0),
		jen.Goto().Id(codegen.StepSelectName),
	)

	if c.needFallback {
		code = append(code, c.generateBacktracking()...)
	}

	code = append(code, c.generateStepSelector()...)

	instructions, err := c.generateInstructions()
	if err != nil {
		return nil, err
	}
	code = append(code, instructions...)

	return code, nil
}
