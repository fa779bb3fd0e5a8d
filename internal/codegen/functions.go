package codegen

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/mos6510"
)

// genFunction emits one function's body under the label
// "func_<name>", binding its parameters to fixed variable slots (a
// single static slot per parameter, shared by every activation, so
// recursion is not supported) and ending with an implicit RTS for void
// functions.
func (g *Generator) genFunction(fn *ast.FuncDecl) *compilerr.CompileError {
	saved := g.vars
	localVars := map[string]varSlot{}
	for k, v := range g.vars {
		localVars[k] = v
	}
	g.vars = localVars

	for _, p := range fn.Params {
		g.allocateVar(p.Name, p.Type)
	}

	g.defineLabel("func_" + fn.Name)

	savedFunc := g.currentFunc
	g.currentFunc = fn.Name
	g.returnLabel = g.newLabel("return_" + fn.Name)
	if err := g.genBlock(fn.Body); err != nil {
		g.currentFunc = savedFunc
		g.vars = saved
		return err
	}
	g.defineLabel(g.returnLabel)
	g.emitByte(mos6510.RTS)

	g.currentFunc = savedFunc
	g.vars = saved
	return nil
}

func (g *Generator) genBlock(b ast.Block) *compilerr.CompileError {
	for _, s := range b.Stmts {
		if err := g.genStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) varType(name string) cbtype.Type {
	if v, ok := g.vars[name]; ok {
		return v.typ
	}
	if t, ok := g.info.Globals[name]; ok {
		return t
	}
	return g.info.Constants[name]
}
