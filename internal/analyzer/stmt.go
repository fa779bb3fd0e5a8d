package analyzer

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
)

func (a *Analyzer) checkFuncDecl(d *ast.FuncDecl) {
	saved := a.ctx
	a.ctx = context{inFunction: true, returnType: d.ReturnType, functionName: d.Name}

	a.pushScope()
	seen := map[string]bool{}
	for _, p := range d.Params {
		if seen[p.Name] {
			a.report(compilerr.ErrDuplicateParameterName,
				"duplicate parameter name \""+p.Name+"\"", p.Span)
			continue
		}
		seen[p.Name] = true
		a.declare(p.Name, p.Type)
	}

	a.checkBlock(d.Body)

	if d.ReturnType.Kind != cbtype.Void && !blockAlwaysReturns(d.Body) {
		a.report(compilerr.ErrMissingReturnStatement,
			"function \""+d.Name+"\" must return a value on every path", d.Span)
	}

	a.popScope()
	a.ctx = saved
}

// blockAlwaysReturns conservatively determines whether every path
// through block ends in a return statement.
func blockAlwaysReturns(b ast.Block) bool {
	for _, s := range b.Stmts {
		switch st := s.(type) {
		case *ast.ReturnStmt:
			return true
		case *ast.IfStmt:
			if st.Else == nil {
				continue
			}
			ok := blockAlwaysReturns(st.Then) && blockAlwaysReturns(*st.Else)
			for _, e := range st.Elifs {
				ok = ok && blockAlwaysReturns(e.Body)
			}
			if ok {
				return true
			}
		}
	}
	return false
}

func (a *Analyzer) checkBlock(b ast.Block) {
	for _, s := range b.Stmts {
		a.checkStmt(s)
	}
}

func (a *Analyzer) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.VarDecl:
		if st.Init != nil {
			t := a.checkExpr(st.Init)
			if !isInvalid(t) && !t.IsAssignableTo(st.Type) {
				a.report(compilerr.ErrTypeMismatch,
					"cannot initialize "+st.Type.String()+" with "+t.String(), st.Span)
			}
		}
		a.declare(st.Name, st.Type)

	case *ast.ConstDecl:
		t := a.checkExpr(st.Value)
		if !isInvalid(t) && !t.IsAssignableTo(st.Type) {
			a.report(compilerr.ErrTypeMismatch,
				"cannot initialize constant "+st.Type.String()+" with "+t.String(), st.Span)
		}
		a.declare(st.Name, st.Type)

	case *ast.AssignStmt:
		a.checkAssignStmt(st)

	case *ast.ExprStmt:
		a.checkExpr(st.X)

	case *ast.IfStmt:
		a.checkCondition(st.Cond)
		a.pushScope()
		a.checkBlock(st.Then)
		a.popScope()
		for _, e := range st.Elifs {
			a.checkCondition(e.Cond)
			a.pushScope()
			a.checkBlock(e.Body)
			a.popScope()
		}
		if st.Else != nil {
			a.pushScope()
			a.checkBlock(*st.Else)
			a.popScope()
		}

	case *ast.WhileStmt:
		a.checkCondition(st.Cond)
		savedLoop := a.ctx.inLoop
		a.ctx.inLoop = true
		a.pushScope()
		a.checkBlock(st.Body)
		a.popScope()
		a.ctx.inLoop = savedLoop

	case *ast.ForStmt:
		lowT := a.checkExpr(st.Low)
		highT := a.checkExpr(st.High)
		if !isInvalid(lowT) && !lowT.IsInteger() {
			a.report(compilerr.ErrTypeMismatch, "for-loop bound must be an integer type", st.Low.SpanOf())
		}
		if !isInvalid(highT) && !highT.IsInteger() {
			a.report(compilerr.ErrTypeMismatch, "for-loop bound must be an integer type", st.High.SpanOf())
		}
		savedLoop := a.ctx.inLoop
		a.ctx.inLoop = true
		a.pushScope()
		a.declare(st.Var, cbtype.Scalar(cbtype.Byte))
		a.checkBlock(st.Body)
		a.popScope()
		a.ctx.inLoop = savedLoop

	case *ast.ReturnStmt:
		if !a.ctx.inFunction {
			a.report(compilerr.ErrReturnOutsideFunction, "'return' outside of a function", st.Span)
			return
		}
		if st.Value == nil {
			if a.ctx.returnType.Kind != cbtype.Void {
				a.report(compilerr.ErrMissingReturnValue,
					"function \""+a.ctx.functionName+"\" must return a value", st.Span)
			}
			return
		}
		t := a.checkExpr(st.Value)
		if a.ctx.returnType.Kind == cbtype.Void {
			a.report(compilerr.ErrCannotReturnValueFromVoid,
				"cannot return a value from a void function", st.Span)
			return
		}
		if !isInvalid(t) && !t.IsAssignableTo(a.ctx.returnType) {
			a.report(compilerr.ErrTypeMismatch,
				"cannot return "+t.String()+" from function declared to return "+a.ctx.returnType.String(), st.Span)
		}

	case *ast.BreakStmt:
		if !a.ctx.inLoop {
			a.report(compilerr.ErrBreakOutsideLoop, "'break' outside of a loop", st.Span)
		}

	case *ast.ContinueStmt:
		if !a.ctx.inLoop {
			a.report(compilerr.ErrContinueOutsideLoop, "'continue' outside of a loop", st.Span)
		}

	case *ast.PassStmt:
		// no-op
	}
}

func (a *Analyzer) checkCondition(e ast.Expr) {
	t := a.checkExpr(e)
	if !isInvalid(t) && t.Kind != cbtype.Bool {
		a.report(compilerr.ErrTypeMismatch, "condition must be of type bool", e.SpanOf())
	}
}

func (a *Analyzer) checkAssignStmt(st *ast.AssignStmt) {
	targetType := a.checkExpr(st.Target)
	valueType := a.checkExpr(st.Value)
	if isInvalid(targetType) || isInvalid(valueType) {
		return
	}

	if st.Op != ast.Assign && !targetType.IsInteger() && targetType.Kind != cbtype.Fixed && targetType.Kind != cbtype.Float {
		a.report(compilerr.ErrInvalidOperatorForType,
			"compound assignment requires a numeric target", st.Span)
		return
	}

	if !valueType.IsAssignableTo(targetType) {
		a.report(compilerr.ErrTypeMismatch,
			"cannot assign "+valueType.String()+" to "+targetType.String(), st.Span)
	}
}
