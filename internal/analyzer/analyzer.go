// Package analyzer performs Cobra64's semantic analysis pass: scope
// resolution, type checking, and control-flow rules (return coverage,
// break/continue placement). It walks the ast.Program built by
// package parser and reports every problem it finds rather than
// stopping at the first one, the way the teacher compiler's semantic
// passes accumulate diagnostics instead of failing fast.
package analyzer

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/position"
)

// invalid is returned in place of a real type after a type error has
// already been reported for an expression, so that the error doesn't
// cascade into a second, spurious diagnostic for its parent.
var invalid = cbtype.Type{Kind: cbtype.Kind(-1)}

func isInvalid(t cbtype.Type) bool { return t.Kind == cbtype.Kind(-1) }

// FuncSig is a function's resolved parameter and return types.
type FuncSig struct {
	Params []cbtype.Type
	Return cbtype.Type
}

// Info is the analyzer's output: everything the code generator needs
// to know about declared names and their resolved types.
type Info struct {
	Functions   map[string]FuncSig
	Globals     map[string]cbtype.Type
	Constants   map[string]cbtype.Type
	DataBlocks  map[string]bool
	FuncOrder   []string
	GlobalOrder []string
}

// context tracks the state that must be saved and restored across
// nested function/loop analysis.
type context struct {
	inLoop       bool
	inFunction   bool
	returnType   cbtype.Type
	functionName string
}

// Analyzer walks the AST accumulating symbol tables and diagnostics.
type Analyzer struct {
	info   *Info
	scopes []map[string]cbtype.Type
	ctx    context
	errs   []*compilerr.CompileError
}

// Analyze type-checks prog and returns the resolved symbol info plus
// every diagnostic found. A non-empty error slice means the program
// must not be handed to the code generator.
func Analyze(prog *ast.Program) (*Info, []*compilerr.CompileError) {
	a := &Analyzer{
		info: &Info{
			Functions:  map[string]FuncSig{},
			Globals:    map[string]cbtype.Type{},
			Constants:  map[string]cbtype.Type{},
			DataBlocks: map[string]bool{},
		},
	}
	a.registerBuiltins()

	// Pass 1: register every top-level name so forward references
	// between functions and globals resolve regardless of order.
	for _, item := range prog.Items {
		switch d := item.(type) {
		case *ast.FuncDecl:
			sig := FuncSig{Return: d.ReturnType}
			for _, p := range d.Params {
				sig.Params = append(sig.Params, p.Type)
			}
			if _, dup := a.info.Functions[d.Name]; dup {
				a.report(compilerr.ErrUndefinedFunction, "function \""+d.Name+"\" is already defined", d.Span)
				continue
			}
			a.info.Functions[d.Name] = sig
			a.info.FuncOrder = append(a.info.FuncOrder, d.Name)
		case *ast.VarDecl:
			a.info.Globals[d.Name] = d.Type
			a.info.GlobalOrder = append(a.info.GlobalOrder, d.Name)
		case *ast.ConstDecl:
			a.info.Constants[d.Name] = d.Type
		case *ast.DataBlock:
			if a.info.DataBlocks[d.Name] {
				a.report(compilerr.ErrDuplicateDataBlockName, "data block \""+d.Name+"\" is already defined", d.Span)
				continue
			}
			a.info.DataBlocks[d.Name] = true
		}
	}

	// Pass 2: check bodies and global initializers.
	a.pushScope()
	for name, typ := range a.info.Globals {
		a.scopes[0][name] = typ
	}
	for name, typ := range a.info.Constants {
		a.scopes[0][name] = typ
	}
	for _, item := range prog.Items {
		switch d := item.(type) {
		case *ast.FuncDecl:
			a.checkFuncDecl(d)
		case *ast.VarDecl:
			if d.Init != nil {
				initType := a.checkExpr(d.Init)
				a.requireAssignable(initType, d.Type, d.Span)
			}
		case *ast.ConstDecl:
			valType := a.checkExpr(d.Value)
			a.requireAssignable(valType, d.Type, d.Span)
		}
	}
	a.popScope()

	return a.info, a.errs
}

func (a *Analyzer) report(code compilerr.ErrorCode, msg string, span position.Span) {
	a.errs = append(a.errs, compilerr.New(code, msg, span))
}

// requireAssignable reports a TypeMismatch when src cannot be
// assigned to a destination of type dst. It is a no-op for an already
// invalid src, so a prior error doesn't cascade.
func (a *Analyzer) requireAssignable(src, dst cbtype.Type, span position.Span) {
	if isInvalid(src) {
		return
	}
	if !src.IsAssignableTo(dst) {
		a.report(compilerr.ErrTypeMismatch,
			"cannot assign "+src.String()+" to "+dst.String(), span)
	}
}

func (a *Analyzer) pushScope() { a.scopes = append(a.scopes, map[string]cbtype.Type{}) }
func (a *Analyzer) popScope()  { a.scopes = a.scopes[:len(a.scopes)-1] }

func (a *Analyzer) declare(name string, typ cbtype.Type) {
	a.scopes[len(a.scopes)-1][name] = typ
}

func (a *Analyzer) lookup(name string) (cbtype.Type, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if t, ok := a.scopes[i][name]; ok {
			return t, true
		}
	}
	return cbtype.Type{}, false
}
