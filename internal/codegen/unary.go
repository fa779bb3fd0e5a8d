package codegen

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/mos6510"
)

func (g *Generator) genUnaryExpr(x *ast.UnaryExpr) (cbtype.Type, *compilerr.CompileError) {
	operandType, err := g.genExpr(x.X)
	if err != nil {
		return cbtype.Type{}, err
	}

	switch x.Op {
	case ast.Not:
		g.emitByte(mos6510.EOR_IMM)
		g.emitByte(1)
		return operandType, nil

	case ast.BitNot:
		if operandType.Is8Bit() {
			g.emitByte(mos6510.EOR_IMM)
			g.emitByte(0xFF)
			return operandType, nil
		}
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.EOR_IMM)
		g.emitByte(0xFF)
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		g.emitByte(mos6510.EOR_IMM)
		g.emitByte(0xFF)
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		return operandType, nil

	case ast.Neg:
		resultType := g.exprType(x)
		if operandType.Is8Bit() {
			g.genWiden(operandType, resultType)
		}
		if resultType.Is8Bit() {
			g.emitByte(mos6510.EOR_IMM)
			g.emitByte(0xFF)
			g.emitByte(mos6510.CLC)
			g.emitByte(mos6510.ADC_IMM)
			g.emitByte(1)
			return resultType, nil
		}
		// Two's-complement negation of a 16-bit value: invert both
		// bytes, then add one with carry propagation.
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.EOR_IMM)
		g.emitByte(0xFF)
		g.emitByte(mos6510.CLC)
		g.emitByte(mos6510.ADC_IMM)
		g.emitByte(1)
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		g.emitByte(mos6510.EOR_IMM)
		g.emitByte(0xFF)
		g.emitByte(mos6510.ADC_IMM)
		g.emitByte(0) // add carry from the low-byte increment
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		return resultType, nil
	}
	return operandType, nil
}

// genCastExpr evaluates x.X and reinterprets/widens it to Target,
// truncating a 16-bit value down to 8 bits by simply dropping the
// high byte already left in TMP1_HI.
func (g *Generator) genCastExpr(x *ast.CastExpr) (cbtype.Type, *compilerr.CompileError) {
	srcType, err := g.genExpr(x.X)
	if err != nil {
		return cbtype.Type{}, err
	}
	if srcType.Is8Bit() && !x.Target.Is8Bit() {
		g.genWiden(srcType, x.Target)
		return x.Target, nil
	}
	if !srcType.Is8Bit() && x.Target.Is8Bit() {
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		return x.Target, nil
	}
	return x.Target, nil
}
