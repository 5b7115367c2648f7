package compiler

import (
	"fmt"

	"github.com/KromDaniel/regvm/internal/codegen"
	"github.com/dave/jennifer/jen"
)

func (c *Compiler) stackPoolName() string {
	return fmt.Sprintf("%sStackPool", codegen.LowerFirst(c.config.Name))
}

// generateStackPool generates a sync.Pool for backtrack stack reuse.
func (c *Compiler) generateStackPool() {
	c.file.Var().Id(c.stackPoolName()).Op("=").Qual("sync", "Pool").Values(jen.Dict{
		jen.Id("New"): jen.Func().Params().Interface().Block(
			jen.Id("stack").Op(":=").Make(jen.Index().Index(jen.Lit(2)).Int(), jen.Lit(0), jen.Lit(32)),
			jen.Return(jen.Op("&").Id("stack")),
		),
	})
	c.file.Line()
}

// generatePooledStackInit generates code to get a stack from the pool.
func (c *Compiler) generatePooledStackInit() []jen.Code {
	poolName := c.stackPoolName()

	return []jen.Code{
		jen.Id("stackPtr").Op(":=").Id(poolName).Dot("Get").Call().Assert(jen.Op("*").Index().Index(jen.Lit(2)).Int()),
		jen.Id(codegen.StackName).Op(":=").Parens(jen.Op("*").Id("stackPtr")).Index(jen.Empty(), jen.Lit(0)),
		jen.Defer().Func().Params().Block(
			jen.Op("*").Id("stackPtr").Op("=").Id(codegen.StackName).Index(jen.Empty(), jen.Lit(0)),
			jen.Id(poolName).Dot("Put").Call(jen.Id("stackPtr")),
		).Call(),
	}
}
