package codegen

import (
	"strconv"

	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
)

// exprType re-derives an already-analyzed expression's type during
// code generation. It never reports diagnostics - analysis has
// already guaranteed the program is well-typed - it only needs to
// know which instruction forms (8-bit vs 16-bit) to emit.
func (g *Generator) exprType(e ast.Expr) cbtype.Type {
	switch x := e.(type) {
	case *ast.IntLit:
		if x.Value <= 255 {
			return cbtype.Scalar(cbtype.Byte)
		}
		return cbtype.Scalar(cbtype.Word)
	case *ast.DecimalLit:
		if looksLikeFloatLiteral(x.Text) {
			return cbtype.Scalar(cbtype.Float)
		}
		return cbtype.Scalar(cbtype.Fixed)
	case *ast.BoolLit:
		return cbtype.Scalar(cbtype.Bool)
	case *ast.StringLit:
		return cbtype.Scalar(cbtype.String)
	case *ast.CharLit:
		return cbtype.Scalar(cbtype.Byte)
	case *ast.Ident:
		return g.varType(x.Name)
	case *ast.IndexExpr:
		return g.exprType(x.Array).ElementType()
	case *ast.UnaryExpr:
		t := g.exprType(x.X)
		if x.Op == ast.Neg {
			if t.Kind == cbtype.Byte {
				return cbtype.Scalar(cbtype.Sbyte)
			}
			if t.Kind == cbtype.Word {
				return cbtype.Scalar(cbtype.Sword)
			}
		}
		return t
	case *ast.BinaryExpr:
		switch x.Op {
		case ast.Eq, ast.NotEq, ast.Lt, ast.Gt, ast.LtEq, ast.GtEq, ast.LogAnd, ast.LogOr:
			return cbtype.Scalar(cbtype.Bool)
		default:
			lt := g.exprType(x.Left)
			rt := g.exprType(x.Right)
			if result, ok := cbtype.BinaryResultType(lt, rt); ok {
				return result
			}
			return lt
		}
	case *ast.CastExpr:
		return x.Target
	case *ast.CallExpr:
		return g.callReturnType(x.Callee)
	case *ast.ArrayLit:
		elemType := cbtype.Byte
		if len(x.Elems) > 0 {
			elemType = g.exprType(x.Elems[0]).Kind
		}
		return cbtype.Array(elemType, uint16(len(x.Elems)))
	}
	return cbtype.Scalar(cbtype.Void)
}

func (g *Generator) callReturnType(name string) cbtype.Type {
	if sig, ok := g.info.Functions[name]; ok {
		return sig.Return
	}
	return cbtype.Scalar(cbtype.Void)
}

func looksLikeFloatLiteral(text string) bool {
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
