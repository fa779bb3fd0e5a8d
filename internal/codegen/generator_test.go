package codegen

import (
	"bytes"
	"testing"

	"github.com/mkloubert/cobra64/internal/analyzer"
	"github.com/mkloubert/cobra64/internal/lexer"
	"github.com/mkloubert/cobra64/internal/mos6510"
	"github.com/mkloubert/cobra64/internal/parser"
)

func compileToImage(t *testing.T, src string) []byte {
	t.Helper()
	toks, cerr := lexer.Tokenize(src, "test.cb64")
	if cerr != nil {
		t.Fatalf("Tokenize: %v", cerr)
	}
	prog, perr := parser.Parse(toks)
	if perr != nil {
		t.Fatalf("Parse: %v", perr)
	}
	info, errs := analyzer.Analyze(prog)
	if len(errs) != 0 {
		t.Fatalf("Analyze: %v", errs)
	}
	image, gerr := Generate(prog, info)
	if gerr != nil {
		t.Fatalf("Generate: %v", gerr)
	}
	return image
}

func TestGenerateMinimalProgramHasPRGLoadAddress(t *testing.T) {
	image := compileToImage(t, "def main():\n    pass\n")
	if len(image) < 2 {
		t.Fatalf("image too small: %d bytes", len(image))
	}
	if image[0] != 0x01 || image[1] != 0x08 {
		t.Fatalf("load address = $%02X%02X, want $0801", image[1], image[0])
	}
}

func TestGenerateEmitsCodeAfterBasicStub(t *testing.T) {
	image := compileToImage(t, "def main():\n    x: byte = 1\n")
	// The BASIC stub ("10 SYS 2062") occupies bytes [2:15) of the image;
	// CodeStart ($080E) begins right after it, at image offset 2+13=15
	// relative to the load address's own two bytes.
	if len(image) <= 2+int(CodeStart-0x0801) {
		t.Fatalf("image too short to contain generated code: %d bytes", len(image))
	}
}

func TestGenerateStringLiteralPopulatesPool(t *testing.T) {
	image := compileToImage(t, "def main():\n    print(\"hi\")\n")
	if len(image) == 0 {
		t.Fatal("empty image")
	}
	found := false
	for i := 0; i < len(image)-1; i++ {
		if image[i] == 'h' && image[i+1] == 'i' {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected the string pool to contain \"hi\" somewhere in the image")
	}
}

func TestResolveJumpsFailsOnUnresolvedLabel(t *testing.T) {
	g := &Generator{
		labels: map[string]int{},
		code:   []byte{0x4C, 0x00, 0x00}, // JMP $0000, operand awaiting patch
		pendingJumps: []pendingJump{
			{codeOffset: 1, label: "func_never_defined"},
		},
	}
	err := g.resolveJumps()
	if err == nil {
		t.Fatal("resolveJumps: expected an error for an unresolved jump target, got nil")
	}
	// The placeholder bytes must be left untouched rather than silently
	// patched to some address once resolution has failed.
	if g.code[1] != 0x00 || g.code[2] != 0x00 {
		t.Fatalf("operand bytes changed despite resolution failure: % X", g.code[1:3])
	}
}

func TestGenerateDataBlockEmitsBytesAndResolvesReference(t *testing.T) {
	src := "data palette:\n    1, 2, 3, 4\n" +
		"def main():\n    addr: word = palette\n"
	image := compileToImage(t, src)

	found := false
	for i := 0; i+3 < len(image); i++ {
		if image[i] == 1 && image[i+1] == 2 && image[i+2] == 3 && image[i+3] == 4 {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected the data pool to contain [1 2 3 4] somewhere in the image")
	}

	// With no strings, the data pool ends the image; image offset 2 is
	// address $0801.
	addr := 0x0801 + (len(image) - 4) - 2
	load := []byte{
		mos6510.LDA_IMM, byte(addr), mos6510.STA_ZP, mos6510.Zeropage.TMP1,
		mos6510.LDA_IMM, byte(addr >> 8), mos6510.STA_ZP, mos6510.Zeropage.TMP1_HI,
	}
	if !bytes.Contains(image, load) {
		t.Fatalf("expected a load of the data block address $%04X into TMP1/TMP1_HI", addr)
	}
}

func TestGenerateDataBlockAlignsStartAddress(t *testing.T) {
	src := "data palette align 16:\n    1, 2, 3\n" +
		"def main():\n    pass\n"
	image := compileToImage(t, src)
	if len(image) == 0 {
		t.Fatal("empty image")
	}

	// With no strings, the data block's bytes end the image; image
	// offset 2 is address $0801.
	n := len(image)
	if n < 3 || image[n-3] != 1 || image[n-2] != 2 || image[n-1] != 3 {
		t.Fatalf("expected the image to end with the data block bytes [1 2 3]")
	}
	start := 0x0801 + (n - 3) - 2
	if start%16 != 0 {
		t.Fatalf("data block starts at $%04X, want a multiple of 16", start)
	}
}

func TestGenerateFunctionCallRoundTrips(t *testing.T) {
	src := "def add(a: byte, b: byte) -> byte:\n    return a + b\n" +
		"def main():\n    x: byte = add(1, 2)\n    print(x)\n"
	image := compileToImage(t, src)
	if len(image) < 20 {
		t.Fatalf("unexpectedly small image for a two-function program: %d bytes", len(image))
	}
}
