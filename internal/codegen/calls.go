package codegen

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/mos6510"
)

// genCallExpr dispatches a call to either a built-in (handled by its
// own emission routine, since several take KERNAL shortcuts no
// ordinary function call does) or a user function (parameters passed
// through their fixed static slots, result returned in A/TMP1).
func (g *Generator) genCallExpr(x *ast.CallExpr) (cbtype.Type, *compilerr.CompileError) {
	if builtinNames[x.Callee] {
		return g.genBuiltinCall(x)
	}
	return g.genUserCall(x)
}

var builtinNames = map[string]bool{
	"cls": true, "print": true, "println": true, "cursor": true,
	"get_key": true, "wait_for_key": true, "readln": true,
	"poke": true, "peek": true, "len": true,
}

// genUserCall evaluates each argument and stores it directly into the
// callee's parameter slot (one static slot per parameter, so a
// recursive call overwrites the parameters of the call still in
// progress), then JSRs to the function label.
func (g *Generator) genUserCall(x *ast.CallExpr) (cbtype.Type, *compilerr.CompileError) {
	sig, ok := g.info.Functions[x.Callee]
	if !ok {
		return cbtype.Type{}, compilerr.New(compilerr.ErrUndefinedFunction, "undefined function \""+x.Callee+"\"", x.Span)
	}

	fn, ok := g.functionDecls[x.Callee]
	if !ok {
		return cbtype.Type{}, compilerr.New(compilerr.ErrUndefinedFunction,
			"internal error: no declaration recorded for \""+x.Callee+"\"", x.Span)
	}

	for i, arg := range x.Args {
		paramType := sig.Params[i]
		if err := g.genAssignTo(&ast.Ident{Name: fn.Params[i].Name, Span: arg.SpanOf()}, arg, paramType); err != nil {
			return cbtype.Type{}, err
		}
	}

	g.emitJsr("func_" + x.Callee)

	if sig.Return.Kind == cbtype.Void {
		return sig.Return, nil
	}
	slot := g.returnValueSlot(x.Callee)
	if sig.Return.Is8Bit() {
		g.emitByte(mos6510.LDA_ABS)
		g.emitWord(slot)
		return sig.Return, nil
	}
	g.emitByte(mos6510.LDA_ABS)
	g.emitWord(slot)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.LDA_ABS)
	g.emitWord(slot + 1)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	return sig.Return, nil
}

// returnValueSlot names a fixed static cell a non-void function's
// result is written to just before its RTS, mirroring the parameter
// slots' single-owner convention for a language without recursion.
func (g *Generator) returnValueSlot(funcName string) uint16 {
	if slot, ok := g.vars["__return_"+funcName]; ok {
		return slot.addr
	}
	return g.allocateVar("__return_"+funcName, cbtype.Scalar(cbtype.Word))
}
