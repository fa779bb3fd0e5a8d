package codegen

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/mos6510"
)

// genBinaryExpr evaluates a binary expression by spilling the left
// operand to the hardware stack, evaluating the right operand, moving
// it to TMP2/TMP2_HI, then restoring the left operand and combining
// the two - the same register-starved technique assemblers have used
// since the 6502's working set is a single accumulator.
func (g *Generator) genBinaryExpr(x *ast.BinaryExpr) (cbtype.Type, *compilerr.CompileError) {
	switch x.Op {
	case ast.LogAnd:
		return g.genShortCircuit(x, true)
	case ast.LogOr:
		return g.genShortCircuit(x, false)
	}

	leftType, err := g.genExpr(x.Left)
	if err != nil {
		return cbtype.Type{}, err
	}
	resultType := g.exprType(x)
	switch x.Op {
	case ast.Eq, ast.NotEq, ast.Lt, ast.Gt, ast.LtEq, ast.GtEq:
		// A comparison yields bool but operates at its operands'
		// promoted type, which decides its width and signedness.
		if t, ok := cbtype.BinaryResultType(g.exprType(x.Left), g.exprType(x.Right)); ok {
			resultType = t
		}
	}
	g.genWiden(leftType, widthOf(resultType, leftType))
	g.pushOperand(widthOf(resultType, leftType))

	rightType, err := g.genExpr(x.Right)
	if err != nil {
		return cbtype.Type{}, err
	}
	wide := widthOf(resultType, rightType)
	g.genWiden(rightType, wide)
	g.moveAccToTMP2(wide)

	g.popOperandToAccOrTMP1(wide)

	return g.emitOperator(x.Op, resultType, wide)
}

// widthOf reports whether an operand should be treated as 8-bit or
// 16-bit for this operation: the operation's promoted type, which is
// at least as wide as either operand.
func widthOf(result, operand cbtype.Type) cbtype.Type {
	if result.Is8Bit() {
		return result
	}
	return result
}

func (g *Generator) pushOperand(typ cbtype.Type) {
	if typ.Is8Bit() {
		g.emitByte(mos6510.PHA)
		return
	}
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(mos6510.PHA)
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.PHA)
}

func (g *Generator) moveAccToTMP2(typ cbtype.Type) {
	if typ.Is8Bit() {
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP2)
		return
	}
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP2_HI)
}

// popOperandToAccOrTMP1 restores the spilled left operand: into A for
// 8-bit width, or into TMP1/TMP1_HI for 16-bit width, leaving the
// right operand undisturbed in TMP2/TMP2_HI (or A is free for the
// 8-bit case, with the right operand in TMP2).
func (g *Generator) popOperandToAccOrTMP1(typ cbtype.Type) {
	if typ.Is8Bit() {
		g.emitByte(mos6510.PLA)
		return
	}
	g.emitByte(mos6510.PLA)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.PLA)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
}

// emitOperator applies x.Op to the operands now staged in A/TMP2
// (8-bit) or TMP1:TMP1_HI/TMP2:TMP2_HI (16-bit), leaving the result in
// the same convention the caller expects from genExpr.
func (g *Generator) emitOperator(op ast.BinaryOp, resultType, width cbtype.Type) (cbtype.Type, *compilerr.CompileError) {
	if width.Is8Bit() {
		return g.emit8BitOperator(op, resultType)
	}
	return g.emit16BitOperator(op, resultType)
}

func (g *Generator) emit8BitOperator(op ast.BinaryOp, resultType cbtype.Type) (cbtype.Type, *compilerr.CompileError) {
	switch op {
	case ast.Add:
		g.emitByte(mos6510.CLC)
		g.emitByte(mos6510.ADC_ZP)
		g.emitByte(mos6510.Zeropage.TMP2)
	case ast.Sub:
		g.emitByte(mos6510.SEC)
		g.emitByte(mos6510.SBC_ZP)
		g.emitByte(mos6510.Zeropage.TMP2)
	case ast.BitAnd:
		g.emitByte(mos6510.AND_ZP)
		g.emitByte(mos6510.Zeropage.TMP2)
	case ast.BitOr:
		g.emitByte(mos6510.ORA_ZP)
		g.emitByte(mos6510.Zeropage.TMP2)
	case ast.BitXor:
		g.emitByte(mos6510.EOR_ZP)
		g.emitByte(mos6510.Zeropage.TMP2)
	case ast.Mul, ast.Div, ast.Mod:
		g.genSoftMulDivMod(op, resultType.IsSigned())
	case ast.Shl, ast.Shr:
		g.genShiftByTMP2(op == ast.Shl)
	case ast.Eq, ast.NotEq, ast.Lt, ast.Gt, ast.LtEq, ast.GtEq:
		return g.genCompare8(op, resultType.IsSigned())
	default:
		return cbtype.Type{}, compilerr.New(compilerr.ErrNotImplemented, "operator not implemented", noSpan())
	}
	return resultType, nil
}

func (g *Generator) emit16BitOperator(op ast.BinaryOp, resultType cbtype.Type) (cbtype.Type, *compilerr.CompileError) {
	switch op {
	case ast.Add:
		g.emitByte(mos6510.CLC)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.ADC_ZP)
		g.emitByte(mos6510.Zeropage.TMP2)
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		g.emitByte(mos6510.ADC_ZP)
		g.emitByte(mos6510.Zeropage.TMP2_HI)
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
	case ast.Sub:
		g.emitByte(mos6510.SEC)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.SBC_ZP)
		g.emitByte(mos6510.Zeropage.TMP2)
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		g.emitByte(mos6510.SBC_ZP)
		g.emitByte(mos6510.Zeropage.TMP2_HI)
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
	case ast.BitAnd:
		g.emit16BitwiseOp(mos6510.AND_ZP)
	case ast.BitOr:
		g.emit16BitwiseOp(mos6510.ORA_ZP)
	case ast.BitXor:
		g.emit16BitwiseOp(mos6510.EOR_ZP)
	case ast.Eq, ast.NotEq, ast.Lt, ast.Gt, ast.LtEq, ast.GtEq:
		return g.genCompare16(op, resultType.IsSigned())
	default:
		return cbtype.Type{}, compilerr.New(compilerr.ErrNotImplemented,
			"16-bit multiply/divide/shift is not implemented", noSpan())
	}
	return resultType, nil
}

func (g *Generator) emit16BitwiseOp(opLo byte) {
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(opLo)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(opLo)
	g.emitByte(mos6510.Zeropage.TMP2_HI)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
}

// genShortCircuit lowers "and"/"or" without evaluating the right
// operand when the left one already decides the result.
func (g *Generator) genShortCircuit(x *ast.BinaryExpr, isAnd bool) (cbtype.Type, *compilerr.CompileError) {
	skipLabel := g.newLabel("shortcircuit_skip")
	endLabel := g.newLabel("shortcircuit_end")

	if _, err := g.genExpr(x.Left); err != nil {
		return cbtype.Type{}, err
	}
	g.emitByte(mos6510.CMP_IMM)
	g.emitByte(0)
	if isAnd {
		g.emitBranch(mos6510.BEQ, skipLabel) // left false -> result false
	} else {
		g.emitBranch(mos6510.BNE, skipLabel) // left true -> result true
	}
	if _, err := g.genExpr(x.Right); err != nil {
		return cbtype.Type{}, err
	}
	g.emitJmp(endLabel)
	g.defineLabel(skipLabel)
	g.emitByte(mos6510.LDA_IMM)
	if isAnd {
		g.emitByte(0)
	} else {
		g.emitByte(1)
	}
	g.defineLabel(endLabel)
	return cbtype.Scalar(cbtype.Bool), nil
}
