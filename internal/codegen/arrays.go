package codegen

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/mos6510"
)

// genIndexLoad evaluates Array[Index], computing the element's
// absolute address as base + index*elemSize and loading it the same
// way genLoadVar does for a plain variable.
func (g *Generator) genIndexLoad(x *ast.IndexExpr) (cbtype.Type, *compilerr.CompileError) {
	ident, ok := x.Array.(*ast.Ident)
	if !ok {
		return cbtype.Type{}, compilerr.New(compilerr.ErrInvalidType, "array expression must be a named array variable", x.Array.SpanOf())
	}
	slot, ok := g.vars[ident.Name]
	if !ok {
		return cbtype.Type{}, compilerr.New(compilerr.ErrUndefinedVariable, "undefined array \""+ident.Name+"\"", x.Span)
	}
	elemType := slot.typ.ElementType()
	elemSize := elemType.SizeOf()

	if err := g.genIndexAddress(x.Index, slot.addr, elemSize); err != nil {
		return cbtype.Type{}, err
	}

	if elemType.Is8Bit() {
		g.emitByte(mos6510.LDY_IMM)
		g.emitByte(0)
		g.emitByte(mos6510.LDA_IZY)
		g.emitByte(mos6510.Zeropage.TMP2)
		return elemType, nil
	}
	g.emitByte(mos6510.LDY_IMM)
	g.emitByte(0)
	g.emitByte(mos6510.LDA_IZY)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.LDY_IMM)
	g.emitByte(1)
	g.emitByte(mos6510.LDA_IZY)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	return elemType, nil
}

// genIndexAddress evaluates an index expression and leaves the
// element's address in the TMP2/TMP2_HI zero-page pair, ready for
// (TMP2),Y indirect-indexed addressing.
func (g *Generator) genIndexAddress(index ast.Expr, base uint16, elemSize int) *compilerr.CompileError {
	idxType, err := g.genExpr(index)
	if err != nil {
		return err
	}
	if idxType.Is8Bit() {
		g.genWiden(idxType, cbtype.Scalar(cbtype.Word))
	}

	if elemSize == 2 {
		// index*2: shift the 16-bit index left one bit.
		g.emitByte(mos6510.ASL_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.ROL_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
	}

	g.emitByte(mos6510.CLC)
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.ADC_IMM)
	g.emitByte(byte(base))
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(mos6510.ADC_IMM)
	g.emitByte(byte(base >> 8))
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP2_HI)
	return nil
}

// genStoreIndexed stores the value already evaluated into A (8-bit)
// or TMP1/TMP1_HI (16-bit) into Array[Index].
func (g *Generator) genStoreIndexed(x *ast.IndexExpr, valType cbtype.Type) *compilerr.CompileError {
	ident, ok := x.Array.(*ast.Ident)
	if !ok {
		return compilerr.New(compilerr.ErrInvalidAssignmentTarget, "array expression must be a named array variable", x.Array.SpanOf())
	}
	slot, ok := g.vars[ident.Name]
	if !ok {
		return compilerr.New(compilerr.ErrUndefinedVariable, "undefined array \""+ident.Name+"\"", x.Span)
	}
	elemType := slot.typ.ElementType()

	if valType.Is8Bit() {
		g.emitByte(mos6510.PHA)
	} else {
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		g.emitByte(mos6510.PHA)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.PHA)
	}

	if err := g.genIndexAddress(x.Index, slot.addr, elemType.SizeOf()); err != nil {
		return err
	}

	if valType.Is8Bit() {
		g.emitByte(mos6510.PLA)
		g.emitByte(mos6510.LDY_IMM)
		g.emitByte(0)
		g.emitByte(mos6510.STA_IZY)
		g.emitByte(mos6510.Zeropage.TMP2)
		return nil
	}
	g.emitByte(mos6510.PLA)
	g.emitByte(mos6510.LDY_IMM)
	g.emitByte(0)
	g.emitByte(mos6510.STA_IZY)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitByte(mos6510.PLA)
	g.emitByte(mos6510.LDY_IMM)
	g.emitByte(1)
	g.emitByte(mos6510.STA_IZY)
	g.emitByte(mos6510.Zeropage.TMP2)
	return nil
}

// genArrayInit emits per-element initialization for a VarDecl/local
// array whose initializer is an array literal, recognizing an
// all-zero literal and lowering it to a single fill loop instead of
// one store per element.
func (g *Generator) genArrayInit(name string, lit *ast.ArrayLit, elemType cbtype.Type) *compilerr.CompileError {
	slot := g.vars[name]
	if allZero(lit) {
		g.genZeroFill(slot.addr, len(lit.Elems)*elemType.SizeOf())
		return nil
	}
	for i, elem := range lit.Elems {
		t, err := g.genExpr(elem)
		if err != nil {
			return err
		}
		g.genWiden(t, elemType)
		addr := slot.addr + uint16(i*elemType.SizeOf())
		if elemType.Is8Bit() {
			g.emitByte(mos6510.STA_ABS)
			g.emitWord(addr)
		} else {
			g.emitByte(mos6510.LDA_ZP)
			g.emitByte(mos6510.Zeropage.TMP1)
			g.emitByte(mos6510.STA_ABS)
			g.emitWord(addr)
			g.emitByte(mos6510.LDA_ZP)
			g.emitByte(mos6510.Zeropage.TMP1_HI)
			g.emitByte(mos6510.STA_ABS)
			g.emitWord(addr + 1)
		}
	}
	return nil
}

func allZero(lit *ast.ArrayLit) bool {
	for _, e := range lit.Elems {
		switch v := e.(type) {
		case *ast.IntLit:
			if v.Value != 0 {
				return false
			}
		case *ast.BoolLit:
			if v.Value {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// genZeroFill emits a tight loop that stores zero into count
// consecutive bytes starting at addr, the peephole this generator
// applies for all-zero array initializers instead of one STA per
// element.
func (g *Generator) genZeroFill(addr uint16, count int) {
	loopLabel := g.newLabel("zerofill_loop")
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(0)
	g.emitByte(mos6510.LDX_IMM)
	g.emitByte(byte(count))
	g.defineLabel(loopLabel)
	g.emitByte(mos6510.STA_ABSX)
	g.emitWord(addr - 1) // X runs count..1, covering addr..addr+count-1
	g.emitByte(mos6510.DEX)
	g.emitBranch(mos6510.BNE, loopLabel)
}
