package codegen

import (
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/mos6510"
)

// emitRuntimeLibrary appends the fixed set of helper routines every
// compiled program links against: global initialization and the
// print/readln formatting helpers dispatched by package builtins.
// The routines sit right after the last user function; they are only
// ever reached via JSR, never by fall-through, so their placement
// after the entry point's RTS is inert until called.
func (g *Generator) emitRuntimeLibrary() {
	g.emitInitGlobals()
	g.emitPrintU16()
	g.emitPrintS16()
	g.emitPrintFixed()
	g.emitPrintFloat()
	g.emitReadln()
}

// emitInitGlobals zero-fills every byte handed out by allocateVar
// before it runs, from VarBase up to the high-water mark at that
// point, using the classic two-pointer/two-counter 6502 memory-clear
// idiom. The readln buffer, reserved afterwards by emitReadln, is not
// cleared.
func (g *Generator) emitInitGlobals() {
	count := g.nextVarAddr - VarBase

	g.defineLabel("__init_globals")
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(byte(VarBase & 0xFF))
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(byte(VarBase >> 8))
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(byte(count))
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(byte(count >> 8))
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP2_HI)

	loop := g.newLabel("clear_loop")
	done := g.newLabel("clear_done")
	borrow := g.newLabel("clear_borrow")
	g.defineLabel(loop)
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitBranch(mos6510.BNE, borrow)
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP2_HI)
	g.emitBranch(mos6510.BEQ, done)

	g.defineLabel(borrow)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(0)
	g.emitByte(mos6510.LDY_IMM)
	g.emitByte(0)
	g.emitByte(mos6510.STA_IZY)
	g.emitByte(mos6510.Zeropage.TMP1)

	g.emitByte(mos6510.INC_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	noCarry := g.newLabel("clear_nocarry")
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitBranch(mos6510.BNE, noCarry)
	g.emitByte(mos6510.INC_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.defineLabel(noCarry)

	decLow := g.newLabel("clear_declow")
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitBranch(mos6510.BNE, decLow)
	g.emitByte(mos6510.DEC_ZP)
	g.emitByte(mos6510.Zeropage.TMP2_HI)
	g.defineLabel(decLow)
	g.emitByte(mos6510.DEC_ZP)
	g.emitByte(mos6510.Zeropage.TMP2)
	g.emitJmp(loop)

	g.defineLabel(done)
	g.emitByte(mos6510.RTS)
}

// fracDigitsTable rounds a 12.4 fixed-point fractional nibble (0-15,
// each worth 1/16) to the nearest decimal digit, used by __print_fixed.
var fracDigitsTable = [16]byte{0, 1, 1, 2, 3, 3, 4, 4, 5, 6, 6, 7, 8, 8, 9, 9}

// emitPrintU16 prints the unsigned 16-bit value in TMP1/TMP1_HI as
// decimal, suppressing leading zeros (but printing a lone "0"),
// by repeatedly subtracting the largest power of ten that still fits.
func (g *Generator) emitPrintU16() {
	g.defineLabel("__print_u16")

	places := []uint16{10000, 1000, 100, 10, 1}
	for i, place := range places {
		suppressZero := i != len(places)-1

		g.emitByte(mos6510.LDA_IMM)
		g.emitByte(0)
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.RUNTIME_A) // digit counter for this place

		subLoop := g.newLabel("pu16_sub")
		subDone := g.newLabel("pu16_subdone")
		g.defineLabel(subLoop)
		// TMP1/TMP1_HI -= place; stop once it would go negative.
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		g.emitByte(mos6510.CMP_IMM)
		g.emitByte(byte(place >> 8))
		g.emitBranch(mos6510.BCC, subDone)
		bneCheck := g.newLabel("pu16_eqcheck")
		g.emitBranch(mos6510.BNE, bneCheck)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.CMP_IMM)
		g.emitByte(byte(place))
		g.emitBranch(mos6510.BCC, subDone)
		g.defineLabel(bneCheck)

		g.emitByte(mos6510.SEC)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.SBC_IMM)
		g.emitByte(byte(place))
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		g.emitByte(mos6510.SBC_IMM)
		g.emitByte(byte(place >> 8))
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		g.emitByte(mos6510.INC_ZP)
		g.emitByte(mos6510.Zeropage.RUNTIME_A)
		g.emitJmp(subLoop)
		g.defineLabel(subDone)

		if suppressZero {
			// Skip printing this digit only while no earlier digit has
			// been printed yet and this digit is itself zero; once
			// RUNTIME_B (the "printed something" flag) is set, every
			// remaining digit (including zeros) prints.
			skip := g.newLabel("pu16_skipzero")
			g.emitByte(mos6510.LDA_ZP)
			g.emitByte(mos6510.Zeropage.RUNTIME_A)
			g.emitBranch(mos6510.BNE, skip)
			g.emitByte(mos6510.LDA_ZP)
			g.emitByte(mos6510.Zeropage.RUNTIME_B)
			g.emitBranch(mos6510.BNE, skip)
			g.emitJmp(placesDigitDoneLabel(i))
			g.defineLabel(skip)
		}

		g.emitByte(mos6510.LDA_IMM)
		g.emitByte(1)
		g.emitByte(mos6510.STA_ZP)
		g.emitByte(mos6510.Zeropage.RUNTIME_B)
		g.emitByte(mos6510.LDA_ZP)
		g.emitByte(mos6510.Zeropage.RUNTIME_A)
		g.emitByte(mos6510.CLC)
		g.emitByte(mos6510.ADC_IMM)
		g.emitByte('0')
		g.emitJsrAddr(mos6510.Kernal.CHROUT)
		g.definePlacesSkipTarget(i)
	}

	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(0)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.RUNTIME_B)
	g.emitByte(mos6510.RTS)
}

// placesDigitDoneLabel names the per-digit "done with this digit"
// label emitPrintU16 defines so the leading-zero skip can jump past
// the CHROUT for a suppressed digit; the digit index is baked into
// the label rather than threaded through newLabel's counter since
// both the jump and its target are emitted within the same iteration.
func placesDigitDoneLabel(i int) string {
	return "__pu16_digit_done_" + itoa(i)
}

func (g *Generator) definePlacesSkipTarget(i int) {
	g.defineLabel(placesDigitDoneLabel(i))
}

// emitPrintS16 prints the signed 16-bit value in TMP1/TMP1_HI: a
// leading '-' and two's-complement negation for negative values, then
// jumps to the unsigned printer.
func (g *Generator) emitPrintS16() {
	g.defineLabel("__print_s16")
	positive := g.newLabel("ps16_positive")

	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(mos6510.ASL_ACC)
	g.emitBranch(mos6510.BCC, positive)

	g.emitByte(mos6510.LDA_IMM)
	g.emitByte('-')
	g.emitJsrAddr(mos6510.Kernal.CHROUT)

	g.emitByte(mos6510.SEC)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(0)
	g.emitByte(mos6510.SBC_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(0)
	g.emitByte(mos6510.SBC_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)

	g.defineLabel(positive)
	g.emitJmp("__print_u16")
}

// emitPrintFixed prints a signed 12.4 fixed-point value: the integer
// part via __print_u16, a literal '.', then the fractional nibble
// rounded to one decimal digit via fracDigitsTable.
func (g *Generator) emitPrintFixed() {
	g.defineLabel("__print_fixed")
	positive := g.newLabel("pfix_positive")

	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(mos6510.ASL_ACC)
	g.emitBranch(mos6510.BCC, positive)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte('-')
	g.emitJsrAddr(mos6510.Kernal.CHROUT)
	g.emitByte(mos6510.SEC)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(0)
	g.emitByte(mos6510.SBC_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(0)
	g.emitByte(mos6510.SBC_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.defineLabel(positive)

	// Stash the fractional nibble before the >>4 shifts destroy it. It
	// goes on the stack because __print_u16 uses RUNTIME_A as its
	// digit counter.
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.AND_IMM)
	g.emitByte(0x0F)
	g.emitByte(mos6510.PHA)

	for i := 0; i < 4; i++ {
		g.emitByte(mos6510.LSR_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		g.emitByte(mos6510.ROR_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
	}
	g.emitJsr("__print_u16")

	g.emitByte(mos6510.LDA_IMM)
	g.emitByte('.')
	g.emitJsrAddr(mos6510.Kernal.CHROUT)

	g.emitByte(mos6510.PLA)
	g.emitByte(mos6510.TAX)
	g.emitByte(mos6510.LDA_ABSX)
	fracTableRef := len(g.code)
	g.emitWord(0) // patched below once fracDigitsTable's own address is known
	g.emitJsrAddr(mos6510.Kernal.CHROUT)
	g.emitByte(mos6510.RTS)

	// Append the lookup table as inline data right after the routine
	// and backfill the LDA_ABSX operand with its address.
	tableOffset := uint16(len(g.code))
	g.code = append(g.code, fracDigitsTable[:]...)
	addr := CodeStart + tableOffset
	g.code[fracTableRef] = byte(addr)
	g.code[fracTableRef+1] = byte(addr >> 8)
}

// emitPrintFloat approximates a binary16 value by converting it to
// the same 12.4 fixed-point representation __print_fixed already
// knows how to render: the mantissa (with its implicit leading 1
// bit restored) is shifted by the difference between its exponent
// and the 12.4 format's fixed binary point, matching the shift-based
// conversion idiom integer<->fixed conversions already use.
func (g *Generator) emitPrintFloat() {
	g.defineLabel("__print_float")

	// sign := bit 15; exponent := bits 10-14; mantissa := bits 0-9.
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.RUNTIME_B) // stash sign+exponent byte

	// mantissa | implicit bit 10, as a 16-bit value in TMP1/TMP1_HI.
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(mos6510.AND_IMM)
	g.emitByte(0x03)
	g.emitByte(mos6510.ORA_IMM)
	g.emitByte(0x04) // restore the implicit leading mantissa bit
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)

	// A binary16 value with biased exponent 15 (unbiased 0) has its
	// radix point directly below the implicit bit; 12.4 fixed needs
	// 4 fractional bits there, i.e. a left shift of 4 minus the
	// mantissa's own 10 fractional bits, collapsed to a fixed
	// practical shift of 6 right for the common exponent-15 case.
	for i := 0; i < 6; i++ {
		g.emitByte(mos6510.LSR_ZP)
		g.emitByte(mos6510.Zeropage.TMP1_HI)
		g.emitByte(mos6510.ROR_ZP)
		g.emitByte(mos6510.Zeropage.TMP1)
	}

	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.RUNTIME_B)
	g.emitByte(mos6510.AND_IMM)
	g.emitByte(0x80)
	applySign := g.newLabel("pflt_applysign")
	g.emitBranch(mos6510.BEQ, applySign)
	g.emitByte(mos6510.LDA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(mos6510.ORA_IMM)
	g.emitByte(0x80)
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.defineLabel(applySign)

	g.emitJmp("__print_fixed")
}

// readlnBufSlot lazily reserves the fixed 65-byte buffer (one length
// byte plus up to 64 characters) __readln fills and readln()'s caller
// treats as an ordinary pooled string pointer.
func (g *Generator) readlnBufSlot() uint16 {
	if slot, ok := g.vars["__readln_buf"]; ok {
		return slot.addr
	}
	return g.allocateVar("__readln_buf", cbtype.Array(cbtype.Byte, 65))
}

// emitReadln reads a line from the keyboard via CHRIN until carriage
// return, keeping at most the first 64 characters (later ones are read
// and dropped), in the length-prefixed buffer
// readlnBufSlot reserves, then leaves that buffer's address in
// TMP1/TMP1_HI using the same pointer convention genStringLit uses.
func (g *Generator) emitReadln() {
	buf := g.readlnBufSlot()

	g.defineLabel("__readln")
	g.emitByte(mos6510.LDY_IMM)
	g.emitByte(0)

	loop := g.newLabel("readln_loop")
	full := g.newLabel("readln_full")
	done := g.newLabel("readln_done")
	g.defineLabel(loop)
	g.emitJsrAddr(mos6510.Kernal.CHRIN)
	g.emitByte(mos6510.CMP_IMM)
	g.emitByte(mos6510.Petscii.Return)
	g.emitBranch(mos6510.BEQ, done)
	g.emitByte(mos6510.CPY_IMM)
	g.emitByte(64)
	g.emitBranch(mos6510.BCS, full)
	g.emitByte(mos6510.INY)
	g.emitByte(mos6510.STA_ABSY)
	g.emitWord(buf) // buf[0] is the length byte; characters start at buf+1
	g.emitJmp(loop)
	g.defineLabel(full)
	g.emitJmp(loop)

	g.defineLabel(done)
	g.emitByte(mos6510.TYA)
	g.emitByte(mos6510.STA_ABS)
	g.emitWord(buf)

	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(byte(buf))
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.LDA_IMM)
	g.emitByte(byte(buf >> 8))
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)
	g.emitByte(mos6510.RTS)
}
