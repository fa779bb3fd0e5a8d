package codegen

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/mos6510"
)

// genBuiltinCall dispatches one of the language's ten built-ins to its
// fixed KERNAL or runtime-library emission routine. Argument count and
// type have already been validated by the analyzer, so every branch
// here assumes its arguments are well-formed.
func (g *Generator) genBuiltinCall(x *ast.CallExpr) (cbtype.Type, *compilerr.CompileError) {
	switch x.Callee {
	case "cls":
		g.emitByte(mos6510.LDA_IMM)
		g.emitByte(mos6510.Petscii.ClearScreen)
		g.emitJsrAddr(mos6510.Kernal.CHROUT)
		return cbtype.Scalar(cbtype.Void), nil

	case "print":
		return g.genPrintCall(x.Args[0], false)
	case "println":
		return g.genPrintCall(x.Args[0], true)

	case "cursor":
		// PLOT's ROM convention takes column in Y, row in X, with
		// carry clear meaning "set position" (set means would read it).
		if _, err := g.genExpr(x.Args[0]); err != nil {
			return cbtype.Type{}, err
		}
		g.emitByte(mos6510.TAY)
		if _, err := g.genExpr(x.Args[1]); err != nil {
			return cbtype.Type{}, err
		}
		g.emitByte(mos6510.TAX)
		g.emitByte(mos6510.CLC)
		g.emitJsrAddr(mos6510.Kernal.PLOT)
		return cbtype.Scalar(cbtype.Void), nil

	case "get_key":
		g.emitJsrAddr(mos6510.Kernal.GETIN)
		return cbtype.Scalar(cbtype.Byte), nil

	case "wait_for_key":
		waitLabel := g.newLabel("wait_key")
		g.defineLabel(waitLabel)
		g.emitJsrAddr(mos6510.Kernal.GETIN)
		g.emitByte(mos6510.CMP_IMM)
		g.emitByte(0)
		g.emitBranch(mos6510.BEQ, waitLabel)
		return cbtype.Scalar(cbtype.Byte), nil

	case "readln":
		g.emitJsr("__readln")
		return cbtype.Scalar(cbtype.String), nil

	case "poke":
		return g.genPokeCall(x)
	case "peek":
		return g.genPeekCall(x)

	case "len":
		return g.genLenCall(x)
	}

	return cbtype.Type{}, compilerr.New(compilerr.ErrUndefinedFunction,
		"unknown built-in \""+x.Callee+"\"", x.Span)
}

// genPrintCall evaluates its single argument and selects the
// formatting routine matching its static type, appending a carriage
// return afterward when newline is set (println vs. print).
func (g *Generator) genPrintCall(arg ast.Expr, newline bool) (cbtype.Type, *compilerr.CompileError) {
	argType := g.exprType(arg)
	if _, err := g.genExpr(arg); err != nil {
		return cbtype.Type{}, err
	}

	switch argType.Kind {
	case cbtype.String:
		g.emitStringPrintLoop()
	case cbtype.Bool:
		g.emitBoolPrint()
	case cbtype.Byte:
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.LDA_IMM)
		g.emitByte(0)
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		g.emitJsr("__print_u16")
	case cbtype.Sbyte:
		g.genWiden(argType, cbtype.Scalar(cbtype.Sword))
		g.emitJsr("__print_s16")
	case cbtype.Word:
		g.emitJsr("__print_u16")
	case cbtype.Sword:
		g.emitJsr("__print_s16")
	case cbtype.Fixed:
		g.emitJsr("__print_fixed")
	case cbtype.Float:
		g.emitJsr("__print_float")
	}

	if newline {
		g.emitByte(mos6510.LDA_IMM)
		g.emitByte(mos6510.Petscii.Return)
		g.emitJsrAddr(mos6510.Kernal.CHROUT)
	}
	return cbtype.Scalar(cbtype.Void), nil
}

// emitStringPrintLoop walks the length-prefixed buffer whose address
// genStringLit/genLoadVar leaves in TMP1/TMP1_HI, CHROUT-ing one
// character at a time.
func (g *Generator) emitStringPrintLoop() {
	g.emitByte(mos6510.LDY_IMM)
	g.emitByte(0)
	g.emitByte(mos6510.LDA_IZY)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)

	loop := g.newLabel("strprint_loop")
	done := g.newLabel("strprint_done")
	g.defineLabel(loop)
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitBranch(mos6510.BEQ, done)
	g.emitByte(mos6510.INY)
	g.emitByte(mos6510.LDA_IZY)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitJsrAddr(mos6510.Kernal.CHROUT)
	g.emitByte(mos6510.DEC_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitJmp(loop)
	g.defineLabel(done)
}

// emitBoolPrint CHROUTs the literal text "true" or "false" depending
// on the value already evaluated into A.
func (g *Generator) emitBoolPrint() {
	falseLabel := g.newLabel("boolprint_false")
	endLabel := g.newLabel("boolprint_end")

	g.emitByte(mos6510.CMP_IMM)
	g.emitByte(0)
	g.emitBranch(mos6510.BEQ, falseLabel)
	g.emitInlineChars("true")
	g.emitJmp(endLabel)
	g.defineLabel(falseLabel)
	g.emitInlineChars("false")
	g.defineLabel(endLabel)
}

func (g *Generator) emitInlineChars(s string) {
	for i := 0; i < len(s); i++ {
		g.emitByte(mos6510.LDA_IMM)
		g.emitByte(s[i])
		g.emitJsrAddr(mos6510.Kernal.CHROUT)
	}
}

// genPokeCall evaluates (address, value) and stores value at address
// via indirect-indexed addressing through TMP1/TMP1_HI.
func (g *Generator) genPokeCall(x *ast.CallExpr) (cbtype.Type, *compilerr.CompileError) {
	addrType, err := g.genExpr(x.Args[0])
	if err != nil {
		return cbtype.Type{}, err
	}
	g.genWiden(addrType, cbtype.Scalar(cbtype.Word))

	if _, err := g.genExpr(x.Args[1]); err != nil {
		return cbtype.Type{}, err
	}

	g.emitByte(mos6510.LDY_IMM)
	g.emitByte(0)
	g.emitByte(mos6510.STA_IZY)
	g.emitByte(mos6510.Zeropage.TMP1)
	return cbtype.Scalar(cbtype.Void), nil
}

// genPeekCall evaluates an address and loads the byte stored there via
// indirect-indexed addressing through TMP1/TMP1_HI.
func (g *Generator) genPeekCall(x *ast.CallExpr) (cbtype.Type, *compilerr.CompileError) {
	addrType, err := g.genExpr(x.Args[0])
	if err != nil {
		return cbtype.Type{}, err
	}
	g.genWiden(addrType, cbtype.Scalar(cbtype.Word))
	g.emitByte(mos6510.LDY_IMM)
	g.emitByte(0)
	g.emitByte(mos6510.LDA_IZY)
	g.emitByte(mos6510.Zeropage.TMP1)
	return cbtype.Scalar(cbtype.Byte), nil
}

// genLenCall resolves an array's element count at compile time and
// emits it as a word-sized immediate load into TMP1/TMP1_HI: for
// "xs: byte[4]" that is "LDA #4; STA TMP1; LDA #0; STA TMP1_HI".
func (g *Generator) genLenCall(x *ast.CallExpr) (cbtype.Type, *compilerr.CompileError) {
	ident, ok := x.Args[0].(*ast.Ident)
	if !ok {
		return cbtype.Type{}, compilerr.New(compilerr.ErrInvalidFunctionCall,
			"len() requires a named array variable", x.Args[0].SpanOf())
	}
	slot, ok := g.vars[ident.Name]
	if !ok {
		return cbtype.Type{}, compilerr.New(compilerr.ErrUndefinedVariable, "undefined array \""+ident.Name+"\"", x.Span)
	}
	count := uint16(0)
	if slot.typ.Size != nil {
		count = *slot.typ.Size
	}
	g.emitLoadWordImm(count)
	return cbtype.Scalar(cbtype.Word), nil
}
