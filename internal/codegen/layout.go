package codegen

import "github.com/mkloubert/cobra64/internal/position"

// basicStub returns the 13-byte BASIC program "10 SYS 2062" that the
// C64 KERNAL's BASIC interpreter runs on LOAD/RUN, transferring
// control to the machine code that immediately follows it at $080E
// (decimal 2062).
func basicStub() []byte {
	return []byte{
		0x0B, 0x08, // pointer to next BASIC line (none - end of program)
		0x0A, 0x00, // line number 10
		0x9E,                   // SYS token
		0x20, 0x32, 0x30, 0x36, 0x32, // " 2062" as PETSCII digits
		0x00, // end of line
		0x00, 0x00, // end of BASIC program
	}
}

// noSpan returns the zero Span value for internal diagnostics that
// are not attributable to a specific source location (e.g. a missing
// "main" function, detected after the whole program has been parsed).
func noSpan() position.Span { return position.Span{} }
