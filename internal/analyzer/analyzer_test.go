package analyzer

import (
	"testing"

	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/lexer"
	"github.com/mkloubert/cobra64/internal/parser"
)

func analyze(t *testing.T, src string) (*Info, []*compilerr.CompileError) {
	t.Helper()
	toks, cerr := lexer.Tokenize(src, "test.cb64")
	if cerr != nil {
		t.Fatalf("Tokenize: %v", cerr)
	}
	prog, perr := parser.Parse(toks)
	if perr != nil {
		t.Fatalf("Parse: %v", perr)
	}
	return Analyze(prog)
}

func firstCode(errs []*compilerr.CompileError) compilerr.ErrorCode {
	if len(errs) == 0 {
		return 0
	}
	return errs[0].Code
}

func TestAnalyzeWellTypedProgram(t *testing.T) {
	src := "def add(a: byte, b: byte) -> byte:\n    return a + b\n" +
		"def main():\n    x: byte = add(1, 2)\n    print(x)\n"
	info, errs := analyze(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	sig, ok := info.Functions["add"]
	if !ok {
		t.Fatalf("function \"add\" not registered")
	}
	if sig.Return.Kind != cbtype.Byte || len(sig.Params) != 2 {
		t.Errorf("add signature = %+v, want byte(byte,byte)", sig)
	}
}

func TestAnalyzeUndefinedVariable(t *testing.T) {
	_, errs := analyze(t, "def main():\n    print(x)\n")
	if firstCode(errs) != compilerr.ErrUndefinedVariable {
		t.Fatalf("expected ErrUndefinedVariable, got %v", errs)
	}
}

func TestAnalyzeUndefinedFunction(t *testing.T) {
	_, errs := analyze(t, "def main():\n    missing(1)\n")
	if firstCode(errs) != compilerr.ErrUndefinedFunction {
		t.Fatalf("expected ErrUndefinedFunction, got %v", errs)
	}
}

func TestAnalyzeTypeMismatchOnAssignment(t *testing.T) {
	_, errs := analyze(t, "def main():\n    x: byte = 0\n    y: bool = x\n")
	if firstCode(errs) != compilerr.ErrTypeMismatch {
		t.Fatalf("expected ErrTypeMismatch, got %v", errs)
	}
}

func TestAnalyzeWrongNumberOfArguments(t *testing.T) {
	src := "def add(a: byte, b: byte) -> byte:\n    return a + b\n" +
		"def main():\n    add(1)\n"
	_, errs := analyze(t, src)
	if firstCode(errs) != compilerr.ErrWrongNumberOfArguments {
		t.Fatalf("expected ErrWrongNumberOfArguments, got %v", errs)
	}
}

func TestAnalyzeMissingReturnStatement(t *testing.T) {
	_, errs := analyze(t, "def f() -> byte:\n    x: byte = 1\n")
	if firstCode(errs) != compilerr.ErrMissingReturnStatement {
		t.Fatalf("expected ErrMissingReturnStatement, got %v", errs)
	}
}

func TestAnalyzeReturnValueFromVoidFunction(t *testing.T) {
	_, errs := analyze(t, "def f():\n    return 1\n")
	if firstCode(errs) != compilerr.ErrCannotReturnValueFromVoid {
		t.Fatalf("expected ErrCannotReturnValueFromVoid, got %v", errs)
	}
}

func TestAnalyzeBreakOutsideLoop(t *testing.T) {
	_, errs := analyze(t, "def f():\n    break\n")
	if firstCode(errs) != compilerr.ErrBreakOutsideLoop {
		t.Fatalf("expected ErrBreakOutsideLoop, got %v", errs)
	}
}

func TestAnalyzeForLoopVariableIsByte(t *testing.T) {
	// The upper bound is a word literal; the loop variable is still a
	// byte, so it can initialize a byte without a type mismatch.
	info, errs := analyze(t, "def f():\n    for i in 0 to 300:\n        b: byte = i\n")
	_ = info
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestAnalyzeDuplicateParameterName(t *testing.T) {
	_, errs := analyze(t, "def f(a: byte, a: byte):\n    pass\n")
	if firstCode(errs) != compilerr.ErrDuplicateParameterName {
		t.Fatalf("expected ErrDuplicateParameterName, got %v", errs)
	}
}

func TestAnalyzeConditionMustBeBool(t *testing.T) {
	_, errs := analyze(t, "def f():\n    x: byte = 1\n    if x:\n        pass\n")
	if firstCode(errs) != compilerr.ErrTypeMismatch {
		t.Fatalf("expected ErrTypeMismatch for non-bool condition, got %v", errs)
	}
}

func TestAnalyzeByteWidensToWord(t *testing.T) {
	_, errs := analyze(t, "def f():\n    x: byte = 1\n    y: word = x\n")
	if len(errs) != 0 {
		t.Fatalf("widening byte->word should be allowed, got %v", errs)
	}
}

func TestAnalyzeDataBlockReferenceResolvesToWord(t *testing.T) {
	src := "data palette:\n    0, 1, 2\n" +
		"def f():\n    addr: word = palette\n"
	info, errs := analyze(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !info.DataBlocks["palette"] {
		t.Fatalf("expected \"palette\" registered as a data block")
	}
}

func TestAnalyzeDuplicateDataBlockName(t *testing.T) {
	src := "data palette:\n    0\n" + "data palette:\n    1\n"
	_, errs := analyze(t, src)
	if firstCode(errs) != compilerr.ErrDuplicateDataBlockName {
		t.Fatalf("expected ErrDuplicateDataBlockName, got %v", errs)
	}
}

func TestAnalyzeLenRequiresArray(t *testing.T) {
	_, errs := analyze(t, "def f():\n    x: byte = 1\n    y: word = len(x)\n")
	if firstCode(errs) != compilerr.ErrArgumentTypeMismatch {
		t.Fatalf("expected ErrArgumentTypeMismatch, got %v", errs)
	}
}
