package compiler

import (
	"fmt"

	"github.com/KromDaniel/regvm/internal/codegen"
	"github.com/KromDaniel/regvm/internal/vm"
	"github.com/dave/jennifer/jen"
)

// generateStepSelector generates the instruction dispatch switch.
func (c *Compiler) generateStepSelector() []jen.Code {
	cases := []jen.Code{}
	for i := range c.config.Program.Inst {
		cases = append(cases,
			jen.Case(jen.Lit(i)).Block(jen.Goto().Id(codegen.InstructionName(i))),
		)
	}

	return []jen.Code{
		jen.Id(codegen.StepSelectName).Op(":"),
		jen.Switch(jen.Id(codegen.NextInstructionName)).Block(cases...),
	}
}

// generateInstructions generates code for all instructions.
func (c *Compiler) generateInstructions() ([]jen.Code, error) {
	var code []jen.Code

	for i, inst := range c.config.Program.Inst {
		instCode, err := c.generateInstruction(i, inst)
		if err != nil {
			return nil, fmt.Errorf("failed to generate instruction %d: %w", i, err)
		}
		code = append(code, instCode...)
	}

	return code, nil
}

// generateInstruction generates code for a single instruction.
func (c *Compiler) generateInstruction(pc int, inst vm.Inst) ([]jen.Code, error) {
	label := jen.Id(codegen.InstructionName(pc)).Op(":")

	switch inst.Op {
	case vm.OpChar:
		return c.generateCharInst(label, pc, inst)
	case vm.OpMatch:
		return c.generateMatchInst(label)
	case vm.OpJump:
		return []jen.Code{
			label,
			jen.Block(jen.Goto().Id(codegen.InstructionName(inst.X))),
		}, nil
	case vm.OpSplit:
		return c.generateSplitInst(label, inst)
	}

	return nil, fmt.Errorf("unsupported instruction type: %v", inst.Op)
}

// generateCharInst generates code for a Char instruction.
func (c *Compiler) generateCharInst(label *jen.Statement, pc int, inst vm.Inst) ([]jen.Code, error) {
	return []jen.Code{
		label,
		jen.Block(
			jen.If(jen.Id(codegen.InputLenName).Op("<=").Id(codegen.OffsetName)).Block(
				jen.Goto().Id(codegen.TryFallbackName),
			),
			jen.If(jen.Id(codegen.InputName).Index(jen.Id(codegen.OffsetName)).Op("!=").LitRune(inst.Rune)).Block(
				jen.Goto().Id(codegen.TryFallbackName),
			),
			jen.Id(codegen.OffsetName).Op("++"),
			jen.Goto().Id(codegen.InstructionName(pc+1)),
		),
	}, nil
}

// generateMatchInst generates code for the terminating Match instruction.
func (c *Compiler) generateMatchInst(label *jen.Statement) ([]jen.Code, error) {
	if !c.config.Full {
		return []jen.Code{
			label,
			jen.Block(jen.Return(jen.True())),
		}, nil
	}

	return []jen.Code{
		label,
		jen.Block(
			jen.If(jen.Id(codegen.OffsetName).Op("==").Id(codegen.InputLenName)).Block(
				jen.Return(jen.True()),
			),
			jen.Goto().Id(codegen.TryFallbackName),
		),
	}, nil
}

// generateSplitInst pushes the fallback branch and continues with the
// preferred one.
func (c *Compiler) generateSplitInst(label *jen.Statement, inst vm.Inst) ([]jen.Code, error) {
	return []jen.Code{
		label,
		jen.Block(
			jen.Id(codegen.StackName).Op("=").Append(
				jen.Id(codegen.StackName),
				jen.Index(jen.Lit(2)).Int().Values(jen.Id(codegen.OffsetName), jen.Lit(inst.Y)),
			),
			jen.Goto().Id(codegen.InstructionName(inst.X)),
		),
	}, nil
}
