package lexer

import (
	"testing"

	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/token"
)

func typesOf(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func assertTypes(t *testing.T, got []token.Token, want []token.Type) {
	t.Helper()
	gotTypes := typesOf(got)
	if len(gotTypes) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot:  %v\nwant: %v", len(gotTypes), len(want), gotTypes, want)
	}
	for i := range want {
		if gotTypes[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v\ngot:  %v\nwant: %v", i, gotTypes[i], want[i], gotTypes, want)
		}
	}
}

func TestTokenizeSimpleFunction(t *testing.T) {
	src := "def main():\n    pass\n"
	toks, cerr := Tokenize(src, "test.cb64")
	if cerr != nil {
		t.Fatalf("Tokenize: %v", cerr)
	}
	assertTypes(t, toks, []token.Type{
		token.Def, token.Identifier, token.LParen, token.RParen, token.Colon, token.Newline,
		token.Indent, token.Pass, token.Newline,
		token.Dedent, token.EOF,
	})
}

func TestTokenizeIndentAndDedentNesting(t *testing.T) {
	src := "def f():\n    if true:\n        pass\n    pass\n"
	toks, cerr := Tokenize(src, "test.cb64")
	if cerr != nil {
		t.Fatalf("Tokenize: %v", cerr)
	}
	assertTypes(t, toks, []token.Type{
		token.Def, token.Identifier, token.LParen, token.RParen, token.Colon, token.Newline,
		token.Indent,
		token.If, token.Bool, token.Colon, token.Newline,
		token.Indent, token.Pass, token.Newline,
		token.Dedent,
		token.Pass, token.Newline,
		token.Dedent, token.EOF,
	})
}

func TestTokenizeOperators(t *testing.T) {
	src := "a += 1\nb <<= 2\nc == d != e\n"
	toks, cerr := Tokenize(src, "test.cb64")
	if cerr != nil {
		t.Fatalf("Tokenize: %v", cerr)
	}
	assertTypes(t, toks, []token.Type{
		token.Identifier, token.PlusEq, token.Integer, token.Newline,
		token.Identifier, token.ShlEq, token.Integer, token.Newline,
		token.Identifier, token.EqEq, token.Identifier, token.NotEq, token.Identifier, token.Newline,
		token.EOF,
	})
}

func TestTokenizeNumberForms(t *testing.T) {
	cases := []struct {
		src      string
		wantType token.Type
		wantInt  uint16
	}{
		{"123", token.Integer, 123},
		{"$FF", token.Integer, 0xFF},
		{"%1010", token.Integer, 10},
	}
	for _, c := range cases {
		toks, cerr := Tokenize(c.src+"\n", "test.cb64")
		if cerr != nil {
			t.Fatalf("Tokenize(%q): %v", c.src, cerr)
		}
		if toks[0].Type != c.wantType {
			t.Fatalf("Tokenize(%q): type = %v, want %v", c.src, toks[0].Type, c.wantType)
		}
		if toks[0].IntValue != c.wantInt {
			t.Fatalf("Tokenize(%q): value = %d, want %d", c.src, toks[0].IntValue, c.wantInt)
		}
	}
}

func TestTokenizeDecimalLiterals(t *testing.T) {
	for _, src := range []string{"3.14", "1.5e-3", "2E+2"} {
		toks, cerr := Tokenize(src+"\n", "test.cb64")
		if cerr != nil {
			t.Fatalf("Tokenize(%q): %v", src, cerr)
		}
		if toks[0].Type != token.Decimal {
			t.Fatalf("Tokenize(%q): type = %v, want Decimal", src, toks[0].Type)
		}
		if toks[0].Text != src {
			t.Fatalf("Tokenize(%q): text = %q, want %q", src, toks[0].Text, src)
		}
	}
}

func TestTokenizeStringAndCharLiterals(t *testing.T) {
	toks, cerr := Tokenize(`"hi\n" 'a'`+"\n", "test.cb64")
	if cerr != nil {
		t.Fatalf("Tokenize: %v", cerr)
	}
	if toks[0].Type != token.String || toks[0].Text != "hi\n" {
		t.Fatalf("string literal = %q (%v), want \"hi\\n\"", toks[0].Text, toks[0].Type)
	}
	if toks[1].Type != token.Char || toks[1].IntValue != uint16('a') {
		t.Fatalf("char literal = %d (%v), want 'a'", toks[1].IntValue, toks[1].Type)
	}
}

func TestTokenizeConstantNaming(t *testing.T) {
	toks, cerr := Tokenize("SCREEN_BASE\n", "test.cb64")
	if cerr != nil {
		t.Fatalf("Tokenize: %v", cerr)
	}
	if toks[0].Type != token.Identifier || toks[0].Text != "SCREEN_BASE" {
		t.Fatalf("got %v %q, want Identifier SCREEN_BASE", toks[0].Type, toks[0].Text)
	}
}

func TestTokenizeRejectsTabIndentation(t *testing.T) {
	_, cerr := Tokenize("def f():\n\tpass\n", "test.cb64")
	if cerr == nil || cerr.Code != compilerr.ErrTabNotAllowed {
		t.Fatalf("expected ErrTabNotAllowed, got %v", cerr)
	}
}

func TestTokenizeRejectsInconsistentIndentation(t *testing.T) {
	_, cerr := Tokenize("def f():\n    pass\n   pass\n", "test.cb64")
	if cerr == nil || cerr.Code != compilerr.ErrInconsistentIndentation {
		t.Fatalf("expected ErrInconsistentIndentation, got %v", cerr)
	}
}

func TestTokenizeRejectsInvalidIdentifierNaming(t *testing.T) {
	_, cerr := Tokenize("Mixed_Case\n", "test.cb64")
	if cerr == nil || cerr.Code != compilerr.ErrInvalidIdentifierNaming {
		t.Fatalf("expected ErrInvalidIdentifierNaming, got %v", cerr)
	}
}

func TestTokenizeRejectsUnterminatedString(t *testing.T) {
	_, cerr := Tokenize("\"unterminated\n", "test.cb64")
	if cerr == nil || cerr.Code != compilerr.ErrUnterminatedString {
		t.Fatalf("expected ErrUnterminatedString, got %v", cerr)
	}
}

func TestTokenizeRejectsIntegerOverflow(t *testing.T) {
	_, cerr := Tokenize("99999\n", "test.cb64")
	if cerr == nil || cerr.Code != compilerr.ErrIntegerTooLargeForWord {
		t.Fatalf("expected ErrIntegerTooLargeForWord, got %v", cerr)
	}
}

func TestTokenizeIgnoresCommentsAndBlankLines(t *testing.T) {
	src := "# a comment\n\ndef f():\n    pass  # trailing\n"
	toks, cerr := Tokenize(src, "test.cb64")
	if cerr != nil {
		t.Fatalf("Tokenize: %v", cerr)
	}
	assertTypes(t, toks, []token.Type{
		token.Def, token.Identifier, token.LParen, token.RParen, token.Colon, token.Newline,
		token.Indent, token.Pass, token.Newline,
		token.Dedent, token.EOF,
	})
}
