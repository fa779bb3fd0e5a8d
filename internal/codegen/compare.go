package codegen

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/mos6510"
)

// genCompare8 compares A (left) against TMP2 (right), both 8-bit, and
// leaves a 0/1 bool in A. Unsigned orderings use a plain CMP and the
// carry flag. Signed orderings use the SEC/SBC/BVC/EOR #$80 idiom,
// which corrects the subtraction's sign bit for signed overflow
// before testing it - a bare BMI/BPL on a raw SBC result is only
// valid when the subtraction didn't overflow.
func (g *Generator) genCompare8(op ast.BinaryOp, signed bool) (cbtype.Type, *compilerr.CompileError) {
	trueLabel := g.newLabel("cmp_true")
	endLabel := g.newLabel("cmp_end")

	if !signed {
		g.emitByte(mos6510.CMP_ZP)
		g.emitByte(mos6510.Zeropage.TMP2)
		switch op {
		case ast.Eq:
			g.emitBranch(mos6510.BEQ, trueLabel)
		case ast.NotEq:
			g.emitBranch(mos6510.BNE, trueLabel)
		case ast.Lt:
			g.emitBranch(mos6510.BCC, trueLabel)
		case ast.GtEq:
			g.emitBranch(mos6510.BCS, trueLabel)
		case ast.Gt:
			skip := g.newLabel("cmp_skip")
			g.emitBranch(mos6510.BEQ, skip)
			g.emitBranch(mos6510.BCS, trueLabel)
			g.defineLabel(skip)
		case ast.LtEq:
			g.emitBranch(mos6510.BCC, trueLabel)
			g.emitBranch(mos6510.BEQ, trueLabel)
		}
	} else {
		g.emitByte(mos6510.SEC)
		g.emitByte(mos6510.SBC_ZP)
		g.emitByte(mos6510.Zeropage.TMP2)
		switch op {
		case ast.Eq:
			g.emitBranch(mos6510.BEQ, trueLabel)
		case ast.NotEq:
			g.emitBranch(mos6510.BNE, trueLabel)
		default:
			noOverflow := g.newLabel("cmp_no_overflow")
			g.emitBranch(mos6510.BVC, noOverflow)
			g.emitByte(mos6510.EOR_IMM)
			g.emitByte(0x80)
			g.defineLabel(noOverflow)
			switch op {
			case ast.Lt:
				g.emitBranch(mos6510.BMI, trueLabel)
			case ast.GtEq:
				g.emitBranch(mos6510.BPL, trueLabel)
			case ast.Gt:
				g.emitByte(mos6510.CMP_IMM)
				g.emitByte(0)
				skip := g.newLabel("cmp_skip")
				g.emitBranch(mos6510.BEQ, skip)
				g.emitBranch(mos6510.BPL, trueLabel)
				g.defineLabel(skip)
			case ast.LtEq:
				g.emitBranch(mos6510.BMI, trueLabel)
				g.emitByte(mos6510.CMP_IMM)
				g.emitByte(0)
				g.emitBranch(mos6510.BEQ, trueLabel)
			}
		}
	}

	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(0)
	g.emitJmp(endLabel)
	g.defineLabel(trueLabel)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(1)
	g.defineLabel(endLabel)
	return cbtype.Scalar(cbtype.Bool), nil
}

// genCompare16 compares TMP1:TMP1_HI (left) against TMP2:TMP2_HI
// (right) and leaves a 0/1 bool in A. Equality is decided by a direct
// byte-pair comparison; orderings subtract the low bytes then the high
// bytes (optionally sign-corrected) the same way genCompare8 does.
func (g *Generator) genCompare16(op ast.BinaryOp, signed bool) (cbtype.Type, *compilerr.CompileError) {
	trueLabel := g.newLabel("cmp16_true")
	endLabel := g.newLabel("cmp16_end")

	if op == ast.Eq || op == ast.NotEq {
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.CMP_ZP)
		g.emitByte(mos6510.Zeropage.TMP2)
		loNotEqual := g.newLabel("cmp16_lo_ne")
		g.emitBranch(mos6510.BNE, loNotEqual)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		g.emitByte(mos6510.CMP_ZP)
		g.emitByte(mos6510.Zeropage.TMP2_HI)
		if op == ast.Eq {
			g.emitBranch(mos6510.BEQ, trueLabel)
		} else {
			g.emitBranch(mos6510.BNE, trueLabel)
		}
		g.defineLabel(loNotEqual)
		if op == ast.NotEq {
			g.emitJmp(trueLabel)
		}
	} else {
		g.emitByte(mos6510.SEC)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.SBC_ZP)
		g.emitByte(mos6510.Zeropage.TMP2)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		g.emitByte(mos6510.SBC_ZP)
		g.emitByte(mos6510.Zeropage.TMP2_HI)

		if signed {
			noOverflow := g.newLabel("cmp16_no_overflow")
			g.emitBranch(mos6510.BVC, noOverflow)
			g.emitByte(mos6510.EOR_IMM)
			g.emitByte(0x80)
			g.defineLabel(noOverflow)
		}

		switch op {
		case ast.Lt:
			branchOp := byte(mos6510.BCC)
			if signed {
				branchOp = mos6510.BMI
			}
			g.emitBranch(branchOp, trueLabel)
		case ast.GtEq:
			branchOp := byte(mos6510.BCS)
			if signed {
				branchOp = mos6510.BPL
			}
			g.emitBranch(branchOp, trueLabel)
		case ast.Gt:
			eqSkip := g.newLabel("cmp16_skip")
			g.emitByte(mos6510.CMP_IMM)
			g.emitByte(0)
			g.emitBranch(mos6510.BEQ, eqSkip)
			branchOp := byte(mos6510.BCS)
			if signed {
				branchOp = mos6510.BPL
			}
			g.emitBranch(branchOp, trueLabel)
			g.defineLabel(eqSkip)
		case ast.LtEq:
			branchOp := byte(mos6510.BCC)
			if signed {
				branchOp = mos6510.BMI
			}
			g.emitBranch(branchOp, trueLabel)
			g.emitByte(mos6510.CMP_IMM)
			g.emitByte(0)
			g.emitBranch(mos6510.BEQ, trueLabel)
		}
	}

	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(0)
	g.emitJmp(endLabel)
	g.defineLabel(trueLabel)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(1)
	g.defineLabel(endLabel)
	return cbtype.Scalar(cbtype.Bool), nil
}
