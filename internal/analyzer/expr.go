package analyzer

import (
	"strconv"

	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
)

// checkExpr type-checks e and returns its resolved type, or invalid
// if a diagnostic was already reported for it.
func (a *Analyzer) checkExpr(e ast.Expr) cbtype.Type {
	switch x := e.(type) {
	case *ast.IntLit:
		if x.Value <= 255 {
			return cbtype.Scalar(cbtype.Byte)
		}
		return cbtype.Scalar(cbtype.Word)
	case *ast.DecimalLit:
		// Literal-based context sensitivity: a decimal literal is Fixed
		// unless it carries an exponent or exceeds Fixed's 12.4 range,
		// in which case it is Float. The generator re-derives the same
		// rule when encoding, so only a coarse check is needed here.
		if looksLikeFloat(x.Text) {
			return cbtype.Scalar(cbtype.Float)
		}
		return cbtype.Scalar(cbtype.Fixed)
	case *ast.BoolLit:
		return cbtype.Scalar(cbtype.Bool)
	case *ast.StringLit:
		return cbtype.Scalar(cbtype.String)
	case *ast.CharLit:
		return cbtype.Scalar(cbtype.Byte)
	case *ast.ArrayLit:
		return a.checkArrayLit(x)
	case *ast.Ident:
		if t, ok := a.lookup(x.Name); ok {
			return t
		}
		if a.info.DataBlocks[x.Name] {
			// A bare reference to a data block's name yields its
			// resolved absolute address, a 16-bit value like any
			// other word.
			return cbtype.Scalar(cbtype.Word)
		}
		a.report(compilerr.ErrUndefinedVariable, "undefined variable \""+x.Name+"\"", x.Span)
		return invalid
	case *ast.IndexExpr:
		return a.checkIndexExpr(x)
	case *ast.UnaryExpr:
		return a.checkUnaryExpr(x)
	case *ast.BinaryExpr:
		return a.checkBinaryExpr(x)
	case *ast.CastExpr:
		return a.checkCastExpr(x)
	case *ast.CallExpr:
		return a.checkCallExpr(x)
	default:
		return invalid
	}
}

func looksLikeFloat(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] == 'e' || text[i] == 'E' {
			return true
		}
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v >= 2048 || v < -2048
	}
	return false
}

func (a *Analyzer) checkArrayLit(x *ast.ArrayLit) cbtype.Type {
	if len(x.Elems) == 0 {
		return cbtype.ArrayOfUnknownSize(cbtype.Byte)
	}
	elemType := a.checkExpr(x.Elems[0])
	for _, e := range x.Elems[1:] {
		t := a.checkExpr(e)
		if !isInvalid(t) && !isInvalid(elemType) && t.Kind != elemType.Kind {
			a.report(compilerr.ErrTypeMismatch, "array elements must share a single type", e.SpanOf())
		}
	}
	if isInvalid(elemType) {
		return invalid
	}
	return cbtype.Array(elemType.Kind, uint16(len(x.Elems)))
}

func (a *Analyzer) checkIndexExpr(x *ast.IndexExpr) cbtype.Type {
	arrType := a.checkExpr(x.Array)
	idxType := a.checkExpr(x.Index)
	if !isInvalid(idxType) && !idxType.IsInteger() {
		a.report(compilerr.ErrTypeMismatch, "array index must be an integer", x.Index.SpanOf())
	}
	if isInvalid(arrType) {
		return invalid
	}
	if !arrType.IsArray() {
		a.report(compilerr.ErrTypeMismatch, "cannot index a non-array value", x.Array.SpanOf())
		return invalid
	}
	return arrType.ElementType()
}

func (a *Analyzer) checkUnaryExpr(x *ast.UnaryExpr) cbtype.Type {
	t := a.checkExpr(x.X)
	if isInvalid(t) {
		return invalid
	}
	switch x.Op {
	case ast.Not:
		if t.Kind != cbtype.Bool {
			a.report(compilerr.ErrInvalidOperatorForType, "'not' requires a bool operand", x.Span)
			return invalid
		}
		return t
	case ast.Neg:
		if !t.IsInteger() && t.Kind != cbtype.Fixed && t.Kind != cbtype.Float {
			a.report(compilerr.ErrInvalidOperatorForType, "unary '-' requires a numeric operand", x.Span)
			return invalid
		}
		if t.Kind == cbtype.Byte {
			return cbtype.Scalar(cbtype.Sbyte)
		}
		if t.Kind == cbtype.Word {
			return cbtype.Scalar(cbtype.Sword)
		}
		return t
	case ast.BitNot:
		if !t.IsInteger() {
			a.report(compilerr.ErrInvalidOperatorForType, "'~' requires an integer operand", x.Span)
			return invalid
		}
		return t
	}
	return invalid
}

func (a *Analyzer) checkBinaryExpr(x *ast.BinaryExpr) cbtype.Type {
	lt := a.checkExpr(x.Left)
	rt := a.checkExpr(x.Right)
	if isInvalid(lt) || isInvalid(rt) {
		return invalid
	}

	switch x.Op {
	case ast.LogAnd, ast.LogOr:
		if lt.Kind != cbtype.Bool || rt.Kind != cbtype.Bool {
			a.report(compilerr.ErrInvalidOperatorForType, "'and'/'or' require bool operands", x.Span)
			return invalid
		}
		return cbtype.Scalar(cbtype.Bool)

	case ast.Eq, ast.NotEq, ast.Lt, ast.Gt, ast.LtEq, ast.GtEq:
		if lt.Kind != rt.Kind && !lt.IsAssignableTo(rt) && !rt.IsAssignableTo(lt) {
			a.report(compilerr.ErrCannotCompareTypes,
				"cannot compare "+lt.String()+" with "+rt.String(), x.Span)
			return invalid
		}
		if lt.IsArray() || rt.IsArray() {
			a.report(compilerr.ErrCannotCompareTypes, "arrays cannot be compared", x.Span)
			return invalid
		}
		return cbtype.Scalar(cbtype.Bool)

	case ast.BitAnd, ast.BitOr, ast.BitXor, ast.Shl, ast.Shr, ast.Mod:
		if !lt.IsInteger() || !rt.IsInteger() {
			a.report(compilerr.ErrInvalidOperatorForType,
				"bitwise/shift/modulo operators require integer operands", x.Span)
			return invalid
		}
		result, ok := cbtype.BinaryResultType(lt, rt)
		if !ok {
			a.report(compilerr.ErrTypeMismatch, "incompatible operand types "+lt.String()+" and "+rt.String(), x.Span)
			return invalid
		}
		return result

	default: // Add, Sub, Mul, Div
		numeric := func(t cbtype.Type) bool {
			return t.IsInteger() || t.Kind == cbtype.Fixed || t.Kind == cbtype.Float
		}
		if x.Op == ast.Add && lt.Kind == cbtype.String && rt.Kind == cbtype.String {
			return cbtype.Scalar(cbtype.String)
		}
		if !numeric(lt) || !numeric(rt) {
			a.report(compilerr.ErrInvalidOperatorForType,
				"arithmetic operators require numeric operands", x.Span)
			return invalid
		}
		result, ok := cbtype.BinaryResultType(lt, rt)
		if !ok {
			a.report(compilerr.ErrTypeMismatch, "incompatible operand types "+lt.String()+" and "+rt.String(), x.Span)
			return invalid
		}
		return result
	}
}

func (a *Analyzer) checkCastExpr(x *ast.CastExpr) cbtype.Type {
	t := a.checkExpr(x.X)
	if isInvalid(t) {
		return invalid
	}
	srcNumeric := t.IsInteger() || t.Kind == cbtype.Fixed || t.Kind == cbtype.Float || t.Kind == cbtype.Bool
	dstNumeric := x.Target.IsInteger() || x.Target.Kind == cbtype.Fixed || x.Target.Kind == cbtype.Float || x.Target.Kind == cbtype.Bool
	if !srcNumeric || !dstNumeric {
		a.report(compilerr.ErrInvalidType, "cannot cast "+t.String()+" to "+x.Target.String(), x.Span)
		return invalid
	}
	return x.Target
}
