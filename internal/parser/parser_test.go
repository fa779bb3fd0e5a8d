package parser

import (
	"testing"

	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/lexer"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, cerr := lexer.Tokenize(src, "test.cb64")
	if cerr != nil {
		t.Fatalf("Tokenize: %v", cerr)
	}
	prog, perr := Parse(toks)
	if perr != nil {
		t.Fatalf("Parse: %v", perr)
	}
	return prog
}

func TestParseFuncDeclWithIfWhileFor(t *testing.T) {
	src := "" +
		"def main():\n" +
		"    x: byte = 0\n" +
		"    if x == 0:\n" +
		"        x += 1\n" +
		"    while x < 10:\n" +
		"        x += 1\n" +
		"    for i in 0 to 9:\n" +
		"        x += i\n" +
		"    return\n"

	prog := parseSource(t, src)
	if len(prog.Items) != 1 {
		t.Fatalf("got %d top-level items, want 1", len(prog.Items))
	}
	fn, ok := prog.Items[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("item = %T, want *ast.FuncDecl", prog.Items[0])
	}
	if fn.Name != "main" {
		t.Fatalf("func name = %q, want main", fn.Name)
	}
	if fn.ReturnType.Kind != cbtype.Void {
		t.Fatalf("return type = %v, want Void", fn.ReturnType.Kind)
	}
	if len(fn.Body.Stmts) != 5 {
		t.Fatalf("body has %d statements, want 5 (vardecl, if, while, for, return)", len(fn.Body.Stmts))
	}

	if _, ok := fn.Body.Stmts[0].(*ast.VarDecl); !ok {
		t.Errorf("stmt 0 = %T, want *ast.VarDecl", fn.Body.Stmts[0])
	}
	ifStmt, ok := fn.Body.Stmts[1].(*ast.IfStmt)
	if !ok {
		t.Fatalf("stmt 1 = %T, want *ast.IfStmt", fn.Body.Stmts[1])
	}
	if len(ifStmt.Then.Stmts) != 1 {
		t.Errorf("if-then has %d stmts, want 1", len(ifStmt.Then.Stmts))
	}
	whileStmt, ok := fn.Body.Stmts[2].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("stmt 2 = %T, want *ast.WhileStmt", fn.Body.Stmts[2])
	}
	if _, ok := whileStmt.Cond.(*ast.BinaryExpr); !ok {
		t.Errorf("while cond = %T, want *ast.BinaryExpr", whileStmt.Cond)
	}
	forStmt, ok := fn.Body.Stmts[3].(*ast.ForStmt)
	if !ok {
		t.Fatalf("stmt 3 = %T, want *ast.ForStmt", fn.Body.Stmts[3])
	}
	if forStmt.Var != "i" || forStmt.Downto {
		t.Errorf("for loop = %+v, want Var=i Downto=false", forStmt)
	}
}

func TestParseFuncDeclWithParamsAndReturnType(t *testing.T) {
	prog := parseSource(t, "def add(a: byte, b: byte) -> byte:\n    return a + b\n")
	fn := prog.Items[0].(*ast.FuncDecl)
	if len(fn.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fn.Params))
	}
	if fn.Params[0].Name != "a" || fn.Params[0].Type.Kind != cbtype.Byte {
		t.Errorf("param 0 = %+v, want a:byte", fn.Params[0])
	}
	if fn.ReturnType.Kind != cbtype.Byte {
		t.Errorf("return type = %v, want Byte", fn.ReturnType.Kind)
	}
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.ReturnStmt", fn.Body.Stmts[0])
	}
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("return value = %T, want *ast.BinaryExpr", ret.Value)
	}
	if _, ok := bin.Left.(*ast.Ident); !ok {
		t.Errorf("binary left = %T, want *ast.Ident", bin.Left)
	}
}

func TestParseConstDecl(t *testing.T) {
	prog := parseSource(t, "const SCREEN: word = $0400\n")
	c, ok := prog.Items[0].(*ast.ConstDecl)
	if !ok {
		t.Fatalf("item = %T, want *ast.ConstDecl", prog.Items[0])
	}
	if c.Name != "SCREEN" || c.Type.Kind != cbtype.Word {
		t.Errorf("const decl = %+v, want SCREEN:word", c)
	}
	lit, ok := c.Value.(*ast.IntLit)
	if !ok || lit.Value != 0x0400 {
		t.Errorf("const value = %v, want 1024", c.Value)
	}
}

func TestParseCallExpr(t *testing.T) {
	prog := parseSource(t, "def f():\n    poke(1024, 65)\n")
	fn := prog.Items[0].(*ast.FuncDecl)
	es, ok := fn.Body.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("stmt = %T, want *ast.ExprStmt", fn.Body.Stmts[0])
	}
	call, ok := es.X.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expr = %T, want *ast.CallExpr", es.X)
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
}

func TestParseAssignmentOperators(t *testing.T) {
	prog := parseSource(t, "def f():\n    x: byte = 0\n    x += 1\n    x <<= 2\n")
	fn := prog.Items[0].(*ast.FuncDecl)
	add, ok := fn.Body.Stmts[1].(*ast.AssignStmt)
	if !ok || add.Op != ast.AddAssign {
		t.Fatalf("stmt 1 = %+v, want AddAssign", fn.Body.Stmts[1])
	}
	shl, ok := fn.Body.Stmts[2].(*ast.AssignStmt)
	if !ok || shl.Op != ast.ShlAssign {
		t.Fatalf("stmt 2 = %+v, want ShlAssign", fn.Body.Stmts[2])
	}
}

func TestParseRejectsMissingTypeAnnotation(t *testing.T) {
	// At top level an identifier starts a declaration; inside a body,
	// "x = 0" would be an assignment.
	toks, cerr := lexer.Tokenize("x = 0\n", "test.cb64")
	if cerr != nil {
		t.Fatalf("Tokenize: %v", cerr)
	}
	_, perr := Parse(toks)
	if perr == nil || perr.Code != compilerr.ErrMissingTypeAnnotation {
		t.Fatalf("expected ErrMissingTypeAnnotation, got %v", perr)
	}
}

func TestParseRejectsInvalidAssignmentTarget(t *testing.T) {
	toks, cerr := lexer.Tokenize("def f():\n    1 = 2\n", "test.cb64")
	if cerr != nil {
		t.Fatalf("Tokenize: %v", cerr)
	}
	_, perr := Parse(toks)
	if perr == nil || perr.Code != compilerr.ErrInvalidAssignmentTarget {
		t.Fatalf("expected ErrInvalidAssignmentTarget, got %v", perr)
	}
}

func TestParseDataBlockWithInlineBytesAndInclude(t *testing.T) {
	src := "" +
		"data sprite_ship align 64:\n" +
		"    $01, $02, 3\n" +
		"    \"sprites.bin\", 0, 63\n"
	prog := parseSource(t, src)
	if len(prog.Items) != 1 {
		t.Fatalf("got %d top-level items, want 1", len(prog.Items))
	}
	block, ok := prog.Items[0].(*ast.DataBlock)
	if !ok {
		t.Fatalf("item = %T, want *ast.DataBlock", prog.Items[0])
	}
	if block.Name != "sprite_ship" {
		t.Errorf("name = %q, want sprite_ship", block.Name)
	}
	if block.Align != 64 {
		t.Errorf("align = %d, want 64", block.Align)
	}
	if len(block.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(block.Entries))
	}
	if got := block.Entries[0].Bytes; len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("entry 0 bytes = %v, want [1 2 3]", got)
	}
	inc := block.Entries[1]
	if inc.Path != "sprites.bin" || inc.Offset != 0 || inc.Length != 63 {
		t.Errorf("entry 1 = %+v, want path sprites.bin offset 0 length 63", inc)
	}
}

func TestParseDataBlockWithoutAlignment(t *testing.T) {
	prog := parseSource(t, "data palette:\n    0, 1, 2, 3\n")
	block := prog.Items[0].(*ast.DataBlock)
	if block.Align != 0 {
		t.Errorf("align = %d, want 0", block.Align)
	}
}

func TestParseDataBlockRejectsByteOutOfRange(t *testing.T) {
	toks, cerr := lexer.Tokenize("data bad:\n    300\n", "test.cb64")
	if cerr != nil {
		t.Fatalf("Tokenize: %v", cerr)
	}
	_, perr := Parse(toks)
	if perr == nil || perr.Code != compilerr.ErrDataByteOutOfRange {
		t.Fatalf("expected ErrDataByteOutOfRange, got %v", perr)
	}
}

func TestParseRejectsMissingDedent(t *testing.T) {
	toks, cerr := lexer.Tokenize("def f():\n    pass\n", "test.cb64")
	if cerr != nil {
		t.Fatalf("Tokenize: %v", cerr)
	}
	// A well-formed token stream always closes its indents (Tokenize
	// guarantees this), so this exercises the parser's own block-closing
	// expectation instead by dropping the Dedent that precedes EOF.
	truncated := append(toks[:len(toks)-2:len(toks)-2], toks[len(toks)-1])
	_, perr := Parse(truncated)
	if perr == nil {
		t.Fatalf("expected a parse error on a truncated token stream")
	}
}
