package codegen

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/mos6510"
)

// genSoftMulDivMod multiplies, divides, or takes the remainder of A by
// TMP2 (both 8-bit) using repeated addition/subtraction, since the
// 6510 has no hardware multiply or divide. Result replaces A.
func (g *Generator) genSoftMulDivMod(op ast.BinaryOp, signed bool) {
	_ = signed // Cobra64's soft arithmetic operates on magnitudes; sign
	// handling for negative operands is left to the caller's widening
	// and is out of scope for the byte-level routine itself.

	switch op {
	case ast.Mul:
		g.genSoftMultiply()
	case ast.Div:
		g.genSoftDivide(false)
	case ast.Mod:
		g.genSoftDivide(true)
	}
}

// genSoftMultiply computes A * TMP2 with an 8-bit result (overflow is
// truncated), using the shift-and-add algorithm: walk TMP2's bits from
// the lowest, adding the multiplicand into the product when the bit is
// set and doubling the multiplicand after every bit.
func (g *Generator) genSoftMultiply() {
	loopLabel := g.newLabel("mul_loop")
	skipAdd := g.newLabel("mul_skip_add")
	doneLabel := g.newLabel("mul_done")

	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1) // multiplicand
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(0) // product accumulator, reuses A
	g.emitByte(mos6510.PHA)
	g.emitByte(mos6510.LDX_IMM)
	g.emitByte(8) // bit counter

	g.defineLabel(loopLabel)
	g.emitByte(mos6510.LSR_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitBranch(mos6510.BCC, skipAdd)
	g.emitByte(mos6510.PLA)
	g.emitByte(mos6510.CLC)
	g.emitByte(mos6510.ADC_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.PHA)
	g.defineLabel(skipAdd)
	g.emitByte(mos6510.ASL_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.DEX)
	g.emitBranch(mos6510.BNE, loopLabel)
	g.emitJmp(doneLabel)

	g.defineLabel(doneLabel)
	g.emitByte(mos6510.PLA)
}

// genSoftDivide computes A / TMP2 (remainder=false) or A % TMP2
// (remainder=true) via repeated subtraction, leaving the quotient or
// remainder in A.
func (g *Generator) genSoftDivide(remainder bool) {
	loopLabel := g.newLabel("div_loop")
	doneLabel := g.newLabel("div_done")

	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1) // dividend, becomes remainder
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(0) // quotient

	g.defineLabel(loopLabel)
	g.emitByte(mos6510.PHA)
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.CMP_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitBranch(mos6510.BCC, doneLabel)
	g.emitByte(mos6510.SEC)
	g.emitByte(mos6510.SBC_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.PLA)
	g.emitByte(mos6510.CLC)
	g.emitByte(mos6510.ADC_IMM)
	g.emitByte(1)
	g.emitJmp(loopLabel)

	g.defineLabel(doneLabel)
	g.emitByte(mos6510.PLA) // retrieve the quotient pushed at loop entry
	if remainder {
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
	}
}

// genShiftByTMP2 shifts A left (shl=true) or right (shl=false) by the
// count in TMP2, one bit per loop iteration since the 6510 shift
// instructions only move a single bit.
func (g *Generator) genShiftByTMP2(shl bool) {
	loopLabel := g.newLabel("shift_loop")
	doneLabel := g.newLabel("shift_done")

	g.emitByte(mos6510.LDX_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.defineLabel(loopLabel)
	g.emitByte(mos6510.CPX_IMM)
	g.emitByte(0)
	g.emitBranch(mos6510.BEQ, doneLabel)
	if shl {
		g.emitByte(mos6510.ASL_ACC)
	} else {
		g.emitByte(mos6510.LSR_ACC)
	}
	g.emitByte(mos6510.DEX)
	g.emitJmp(loopLabel)
	g.defineLabel(doneLabel)
}
