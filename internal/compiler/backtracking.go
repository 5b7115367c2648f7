package compiler

import (
	"github.com/KromDaniel/regvm/internal/codegen"
	"github.com/dave/jennifer/jen"
)

// generateBacktracking generates the TryFallback block. It resumes the most
// recent pending Split alternative, or reports no match once the stack is
// empty. The order matches the recursive evaluator: the preferred branch is
// explored fully before its sibling.
func (c *Compiler) generateBacktracking() []jen.Code {
	if !c.hasSplit {
		return []jen.Code{
			jen.Id(codegen.TryFallbackName).Op(":"),
			jen.Return(jen.False()),
		}
	}

	return []jen.Code{
		jen.Id(codegen.TryFallbackName).Op(":"),
		jen.If(jen.Len(jen.Id(codegen.StackName)).Op(">").Lit(0)).Block(
			jen.Id("last").Op(":=").Id(codegen.StackName).Index(jen.Len(jen.Id(codegen.StackName)).Op("-").Lit(1)),
			jen.Id(codegen.OffsetName).Op("=").Id("last").Index(jen.Lit(0)),
			jen.Id(codegen.NextInstructionName).Op("=").Id("last").Index(jen.Lit(1)),
			jen.Id(codegen.StackName).Op("=").Id(codegen.StackName).Index(jen.Empty(), jen.Len(jen.Id(codegen.StackName)).Op("-").Lit(1)),
			jen.Goto().Id(codegen.StepSelectName),
		),
		jen.Return(jen.False()),
	}
}
