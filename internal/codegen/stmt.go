package codegen

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/mos6510"
)

func (g *Generator) genStmt(s ast.Stmt) *compilerr.CompileError {
	switch st := s.(type) {
	case *ast.VarDecl:
		g.allocateVar(st.Name, st.Type)
		if st.Init != nil {
			if err := g.genAssignTo(&ast.Ident{Name: st.Name, Span: st.Span}, st.Init, st.Type); err != nil {
				return err
			}
		}
		return nil

	case *ast.ConstDecl:
		// Constants are materialized as ordinary storage initialized
		// once; the analyzer has already checked their value.
		g.allocateVar(st.Name, st.Type)
		return g.genAssignTo(&ast.Ident{Name: st.Name, Span: st.Span}, st.Value, st.Type)

	case *ast.AssignStmt:
		return g.genAssignStmt(st)

	case *ast.ExprStmt:
		_, err := g.genExpr(st.X)
		return err

	case *ast.IfStmt:
		return g.genIfStmt(st)

	case *ast.WhileStmt:
		return g.genWhileStmt(st)

	case *ast.ForStmt:
		return g.genForStmt(st)

	case *ast.ReturnStmt:
		if st.Value != nil {
			valType, err := g.genExpr(st.Value)
			if err != nil {
				return err
			}
			retType := g.info.Functions[g.currentFunc].Return
			g.genWiden(valType, retType)
			slot := g.returnValueSlot(g.currentFunc)
			if retType.Is8Bit() {
				g.emitByte(mos6510.STA_ABS)
				g.emitWord(slot)
			} else {
				g.emitByte(mos6510.LDA_ZP)
				g.emitByte(mos6510.Zeropage.TMP1)
				g.emitByte(mos6510.STA_ABS)
				g.emitWord(slot)
				g.emitByte(mos6510.LDA_ZP)
				g.emitByte(mos6510.Zeropage.TMP1_HI)
				g.emitByte(mos6510.STA_ABS)
				g.emitWord(slot + 1)
			}
		}
		g.emitJmp(g.returnLabel)
		return nil

	case *ast.BreakStmt:
		if len(g.loopLabels) == 0 {
			return compilerr.New(compilerr.ErrBreakOutsideLoop, "internal error: break outside loop", noSpan())
		}
		g.emitJmp(g.loopLabels[len(g.loopLabels)-1].breakLabel)
		return nil

	case *ast.ContinueStmt:
		if len(g.loopLabels) == 0 {
			return compilerr.New(compilerr.ErrContinueOutsideLoop, "internal error: continue outside loop", noSpan())
		}
		g.emitJmp(g.loopLabels[len(g.loopLabels)-1].continueLabel)
		return nil

	case *ast.PassStmt:
		return nil
	}
	return nil
}

// genAssignStmt lowers compound assignment by re-synthesizing a
// binary expression ("x += y" becomes "x = x + y") when Op is not a
// plain Assign, then generating a plain store.
func (g *Generator) genAssignStmt(st *ast.AssignStmt) *compilerr.CompileError {
	targetType := g.exprType(st.Target)
	value := st.Value
	if st.Op != ast.Assign {
		value = &ast.BinaryExpr{
			Op:    compoundOpToBinary[st.Op],
			Left:  st.Target,
			Right: st.Value,
			Span:  st.Span,
		}
	}
	return g.genAssignTo(st.Target, value, targetType)
}

var compoundOpToBinary = map[ast.AssignOp]ast.BinaryOp{
	ast.AddAssign: ast.Add, ast.SubAssign: ast.Sub, ast.MulAssign: ast.Mul,
	ast.DivAssign: ast.Div, ast.ModAssign: ast.Mod, ast.AndAssign: ast.BitAnd,
	ast.OrAssign: ast.BitOr, ast.XorAssign: ast.BitXor, ast.ShlAssign: ast.Shl, ast.ShrAssign: ast.Shr,
}

// genAssignTo evaluates value and stores it into target, converting
// the result to dstType per the usual widening rules.
func (g *Generator) genAssignTo(target ast.Expr, value ast.Expr, dstType cbtype.Type) *compilerr.CompileError {
	if lit, ok := value.(*ast.ArrayLit); ok {
		ident, ok := target.(*ast.Ident)
		if !ok {
			return compilerr.New(compilerr.ErrInvalidAssignmentTarget,
				"array literal can only initialize a named array variable", target.SpanOf())
		}
		return g.genArrayInit(ident.Name, lit, dstType.ElementType())
	}

	srcType, err := g.genExpr(value)
	if err != nil {
		return err
	}
	g.genWiden(srcType, dstType)

	switch tgt := target.(type) {
	case *ast.Ident:
		return g.genStoreVar(tgt.Name, dstType)
	case *ast.IndexExpr:
		return g.genStoreIndexed(tgt, dstType)
	}
	return compilerr.New(compilerr.ErrInvalidAssignmentTarget, "invalid assignment target", target.SpanOf())
}

// genStoreVar stores the value currently held in A (8-bit types) or
// TMP1/TMP1_HI (16-bit types) into the named variable's memory slot.
func (g *Generator) genStoreVar(name string, typ cbtype.Type) *compilerr.CompileError {
	slot, ok := g.vars[name]
	if !ok {
		return compilerr.New(compilerr.ErrUndefinedVariable, "undefined variable \""+name+"\"", noSpan())
	}
	if typ.Is8Bit() {
		g.emitByte(mos6510.STA_ABS)
		g.emitWord(slot.addr)
		return nil
	}
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.STA_ABS)
	g.emitWord(slot.addr)
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(mos6510.STA_ABS)
	g.emitWord(slot.addr + 1)
	return nil
}

// genBranchIfFalse evaluates a Bool-typed condition into A and jumps
// to falseLabel when it is zero, the shared condition-check both
// if/elif chains and while loops are built from.
func (g *Generator) genBranchIfFalse(cond ast.Expr, falseLabel string) *compilerr.CompileError {
	if _, err := g.genExpr(cond); err != nil {
		return err
	}
	g.emitByte(mos6510.CMP_IMM)
	g.emitByte(0)
	g.emitBranch(mos6510.BEQ, falseLabel)
	return nil
}

func (g *Generator) genIfStmt(st *ast.IfStmt) *compilerr.CompileError {
	endLabel := g.newLabel("if_end")

	if err := g.genConditionalBranch(st.Cond, st.Then, endLabel, st.Elifs, st.Else); err != nil {
		return err
	}
	g.defineLabel(endLabel)
	return nil
}

// genConditionalBranch lowers the if/elif*/else chain by recursively
// treating each elif as the else-branch of the preceding condition.
func (g *Generator) genConditionalBranch(cond ast.Expr, then ast.Block, endLabel string, elifs []ast.ElifClause, els *ast.Block) *compilerr.CompileError {
	falseLabel := g.newLabel("if_false")
	if err := g.genBranchIfFalse(cond, falseLabel); err != nil {
		return err
	}
	if err := g.genBlock(then); err != nil {
		return err
	}
	g.emitJmp(endLabel)
	g.defineLabel(falseLabel)

	if len(elifs) > 0 {
		return g.genConditionalBranch(elifs[0].Cond, elifs[0].Body, endLabel, elifs[1:], els)
	}
	if els != nil {
		return g.genBlock(*els)
	}
	return nil
}

func (g *Generator) genWhileStmt(st *ast.WhileStmt) *compilerr.CompileError {
	startLabel := g.newLabel("while_start")
	endLabel := g.newLabel("while_end")

	g.defineLabel(startLabel)
	if err := g.genBranchIfFalse(st.Cond, endLabel); err != nil {
		return err
	}

	g.loopLabels = append(g.loopLabels, loopLabelPair{continueLabel: startLabel, breakLabel: endLabel})
	err := g.genBlock(st.Body)
	g.loopLabels = g.loopLabels[:len(g.loopLabels)-1]
	if err != nil {
		return err
	}

	g.emitJmp(startLabel)
	g.defineLabel(endLabel)
	return nil
}

// genForStmt lowers "for v in lo to|downto hi:" into an init + a
// condition-checked-first loop that increments or decrements v, with
// the induction variable always materialized as a Byte per the
// language's single integer-width loop counter.
func (g *Generator) genForStmt(st *ast.ForStmt) *compilerr.CompileError {
	g.allocateVar(st.Var, cbtype.Scalar(cbtype.Byte))
	if err := g.genAssignTo(&ast.Ident{Name: st.Var, Span: st.Span}, st.Low, cbtype.Scalar(cbtype.Byte)); err != nil {
		return err
	}

	startLabel := g.newLabel("for_start")
	continueLabel := g.newLabel("for_continue")
	endLabel := g.newLabel("for_end")
	slot := g.vars[st.Var]

	g.defineLabel(startLabel)

	if _, err := g.genExpr(st.High); err != nil {
		return err
	}
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitByte(mos6510.LDA_ABS)
	g.emitWord(slot.addr)
	g.emitByte(mos6510.CMP_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	if st.Downto {
		g.emitBranch(mos6510.BCC, endLabel) // v < hi -> done counting down
	} else {
		// Ascending bound is inclusive: the loop still runs when v == hi,
		// so equality must short-circuit past the BCS that would otherwise
		// treat "v >= hi" as "done".
		runLabel := g.newLabel("for_run")
		g.emitBranch(mos6510.BEQ, runLabel)
		g.emitBranch(mos6510.BCS, endLabel) // v > hi -> done counting up
		g.defineLabel(runLabel)
	}

	g.loopLabels = append(g.loopLabels, loopLabelPair{continueLabel: continueLabel, breakLabel: endLabel})
	err := g.genBlock(st.Body)
	g.loopLabels = g.loopLabels[:len(g.loopLabels)-1]
	if err != nil {
		return err
	}

	g.defineLabel(continueLabel)
	g.emitByte(mos6510.LDA_ABS)
	g.emitWord(slot.addr)
	if st.Downto {
		g.emitByte(mos6510.SEC)
		g.emitByte(mos6510.SBC_IMM)
		g.emitByte(1)
	} else {
		g.emitByte(mos6510.CLC)
		g.emitByte(mos6510.ADC_IMM)
		g.emitByte(1)
	}
	g.emitByte(mos6510.STA_ABS)
	g.emitWord(slot.addr)
	g.emitJmp(startLabel)
	g.defineLabel(endLabel)
	return nil
}
