package codegen

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/mos6510"
)

// genExpr evaluates e and leaves the result in A (for 8-bit-wide
// types) or in the TMP1/TMP1_HI zero-page pair (for 16-bit-wide
// types), returning the type it resolved to.
func (g *Generator) genExpr(e ast.Expr) (cbtype.Type, *compilerr.CompileError) {
	switch x := e.(type) {
	case *ast.IntLit:
		return g.genIntLit(x)
	case *ast.DecimalLit:
		return g.genDecimalLit(x)
	case *ast.BoolLit:
		v := byte(0)
		if x.Value {
			v = 1
		}
		g.emitByte(mos6510.LDA_IMM)
		g.emitByte(v)
		return cbtype.Scalar(cbtype.Bool), nil
	case *ast.CharLit:
		g.emitByte(mos6510.LDA_IMM)
		g.emitByte(x.Value)
		return cbtype.Scalar(cbtype.Byte), nil
	case *ast.StringLit:
		return g.genStringLit(x)
	case *ast.Ident:
		return g.genLoadVar(x)
	case *ast.IndexExpr:
		return g.genIndexLoad(x)
	case *ast.UnaryExpr:
		return g.genUnaryExpr(x)
	case *ast.BinaryExpr:
		return g.genBinaryExpr(x)
	case *ast.CastExpr:
		return g.genCastExpr(x)
	case *ast.CallExpr:
		return g.genCallExpr(x)
	case *ast.ArrayLit:
		return g.exprType(x), nil // array literals are only meaningful as initializers; see genArrayInit
	}
	return cbtype.Scalar(cbtype.Void), nil
}

func (g *Generator) genIntLit(x *ast.IntLit) (cbtype.Type, *compilerr.CompileError) {
	if x.Value <= 255 {
		g.emitByte(mos6510.LDA_IMM)
		g.emitByte(byte(x.Value))
		return cbtype.Scalar(cbtype.Byte), nil
	}
	g.emitLoadWordImm(x.Value)
	return cbtype.Scalar(cbtype.Word), nil
}

// emitLoadWordImm loads a literal 16-bit value into TMP1/TMP1_HI.
func (g *Generator) emitLoadWordImm(v uint16) {
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(byte(v))
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(byte(v >> 8))
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
}

func (g *Generator) genDecimalLit(x *ast.DecimalLit) (cbtype.Type, *compilerr.CompileError) {
	if looksLikeFloatLiteral(x.Text) {
		bits, err := encodeFloat16(x.Text)
		if err != nil {
			return cbtype.Type{}, compilerr.New(compilerr.ErrInvalidDecimalLiteral, err.Error(), x.Span)
		}
		g.emitLoadWordImm(bits)
		return cbtype.Scalar(cbtype.Float), nil
	}
	fixed, err := encodeFixed1204(x.Text)
	if err != nil {
		return cbtype.Type{}, compilerr.New(compilerr.ErrInvalidDecimalLiteral, err.Error(), x.Span)
	}
	g.emitLoadWordImm(uint16(fixed))
	return cbtype.Scalar(cbtype.Fixed), nil
}

func (g *Generator) genLoadVar(x *ast.Ident) (cbtype.Type, *compilerr.CompileError) {
	slot, ok := g.vars[x.Name]
	if !ok {
		if _, isDataBlock := g.dataBlocks[x.Name]; isDataBlock {
			return g.genDataBlockRef(x.Name)
		}
		return cbtype.Type{}, compilerr.New(compilerr.ErrUndefinedVariable, "undefined variable \""+x.Name+"\"", x.Span)
	}
	if slot.typ.Is8Bit() {
		g.emitByte(mos6510.LDA_ABS)
		g.emitWord(slot.addr)
		return slot.typ, nil
	}
	g.emitByte(mos6510.LDA_ABS)
	g.emitWord(slot.addr)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.LDA_ABS)
	g.emitWord(slot.addr + 1)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	return slot.typ, nil
}

// genDataBlockRef loads the not-yet-known absolute address of the
// named data block into TMP1/TMP1_HI, the same 16-bit convention used
// by every other word-valued expression, and records a pending
// reference patched once every data block's address is fixed.
func (g *Generator) genDataBlockRef(name string) (cbtype.Type, *compilerr.CompileError) {
	g.emitByte(mos6510.LDA_IMM)
	loOffset := len(g.code)
	g.emitByte(0) // placeholder low byte
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)

	g.emitByte(mos6510.LDA_IMM)
	hiOffset := len(g.code)
	g.emitByte(0) // placeholder high byte
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)

	g.pendingDataRefs = append(g.pendingDataRefs, pendingDataRef{loOffset: loOffset, hiOffset: hiOffset, blockName: name})
	return cbtype.Scalar(cbtype.Word), nil
}

// genWiden converts the value currently held per src's width/location
// to dst's representation, covering the widenings the analyzer
// allows (Byte->Word, Byte->Sword, Sbyte->Sword) plus same-width
// reinterpretation. Widening an 8-bit value moves it from A into
// TMP1/TMP1_HI with a sign- or zero-extended high byte.
func (g *Generator) genWiden(src, dst cbtype.Type) {
	if src.Is8Bit() == dst.Is8Bit() {
		return
	}
	if src.Is8Bit() && !dst.Is8Bit() {
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		if src.IsSigned() {
			g.genSignExtendHighByte()
		} else {
			g.emitByte(mos6510.LDA_IMM)
			g.emitByte(0)
		}
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
	}
}

// genSignExtendHighByte leaves $00 or $FF in A depending on whether
// TMP1's bit 7 is clear or set, the high byte of a sign-extended
// 16-bit value.
func (g *Generator) genSignExtendHighByte() {
	zeroLabel := g.newLabel("sext_zero")
	endLabel := g.newLabel("sext_end")

	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.ASL_ACC) // bit 7 -> carry
	g.emitBranch(mos6510.BCC, zeroLabel)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(0xFF)
	g.emitJmp(endLabel)
	g.defineLabel(zeroLabel)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(0x00)
	g.defineLabel(endLabel)
}
