package analyzer

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
)

func (a *Analyzer) checkCallExpr(x *ast.CallExpr) cbtype.Type {
	argTypes := make([]cbtype.Type, len(x.Args))
	anyInvalid := false
	for i, arg := range x.Args {
		argTypes[i] = a.checkExpr(arg)
		if isInvalid(argTypes[i]) {
			anyInvalid = true
		}
	}

	switch x.Callee {
	case "print", "println":
		return a.checkPrintCall(x, argTypes, anyInvalid)
	case "len":
		return a.checkLenCall(x, argTypes, anyInvalid)
	}

	sig, ok := a.info.Functions[x.Callee]
	if !ok {
		a.report(compilerr.ErrUndefinedFunction, "undefined function \""+x.Callee+"\"", x.Span)
		return invalid
	}
	if len(x.Args) != len(sig.Params) {
		a.report(compilerr.ErrWrongNumberOfArguments,
			"wrong number of arguments to \""+x.Callee+"\"", x.Span)
		return invalid
	}
	if anyInvalid {
		return invalid
	}
	for i, want := range sig.Params {
		if !argTypes[i].IsAssignableTo(want) {
			a.report(compilerr.ErrArgumentTypeMismatch,
				"argument "+string(rune('0'+i+1))+" to \""+x.Callee+"\" must be "+want.String(), x.Args[i].SpanOf())
		}
	}
	return sig.Return
}

// checkPrintCall allows print/println to take one argument of any
// printable scalar type (every type but void and arrays).
func (a *Analyzer) checkPrintCall(x *ast.CallExpr, argTypes []cbtype.Type, anyInvalid bool) cbtype.Type {
	if len(x.Args) != 1 {
		a.report(compilerr.ErrWrongNumberOfArguments,
			"\""+x.Callee+"\" takes exactly one argument", x.Span)
		return invalid
	}
	if anyInvalid {
		return invalid
	}
	t := argTypes[0]
	if t.IsArray() || t.Kind == cbtype.Void {
		a.report(compilerr.ErrArgumentTypeMismatch,
			"\""+x.Callee+"\" cannot print a value of type "+t.String(), x.Args[0].SpanOf())
		return invalid
	}
	return cbtype.Scalar(cbtype.Void)
}

// checkLenCall requires a single array argument and yields its
// element count as a word.
func (a *Analyzer) checkLenCall(x *ast.CallExpr, argTypes []cbtype.Type, anyInvalid bool) cbtype.Type {
	if len(x.Args) != 1 {
		a.report(compilerr.ErrWrongNumberOfArguments, "\"len\" takes exactly one argument", x.Span)
		return invalid
	}
	if anyInvalid {
		return invalid
	}
	if !argTypes[0].IsArray() {
		a.report(compilerr.ErrArgumentTypeMismatch, "\"len\" requires an array argument", x.Args[0].SpanOf())
		return invalid
	}
	return cbtype.Scalar(cbtype.Word)
}
