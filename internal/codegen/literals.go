package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/mos6510"
)

// genStringLit interns x's text into the string pool (deduplicating
// identical literals) and leaves the pool address of its length-
// prefixed bytes in TMP1/TMP1_HI. The address isn't known until the
// code's final length is fixed, so the two LDA #imm operand bytes are
// recorded as a pendingStringRef and patched by resolveStringRefs.
func (g *Generator) genStringLit(x *ast.StringLit) (cbtype.Type, *compilerr.CompileError) {
	offset, ok := g.strings[x.Value]
	if !ok {
		offset = uint16(len(g.stringPool))
		g.stringPool = append(g.stringPool, byte(len(x.Value)))
		g.stringPool = append(g.stringPool, []byte(x.Value)...)
		g.strings[x.Value] = offset
	}

	g.emitByte(mos6510.LDA_IMM)
	loOffset := len(g.code)
	g.emitByte(0) // patched: low byte of pool address
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1)
	g.emitByte(mos6510.LDA_IMM)
	hiOffset := len(g.code)
	g.emitByte(0) // patched: high byte of pool address
	g.emitByte(mos6510.STA_ZP)
	g.emitByte(mos6510.Zeropage.TMP1_HI)

	g.pendingStringRefs = append(g.pendingStringRefs, pendingStringRef{
		loOffset: loOffset, hiOffset: hiOffset, poolOffset: offset,
	})
	return cbtype.Scalar(cbtype.String), nil
}

// encodeFixed1204 parses a decimal literal's text into Cobra64's
// signed 12.4 fixed-point representation: the top 12 bits hold the
// integer part, the low 4 bits the fractional part in sixteenths.
func encodeFixed1204(text string) (int16, error) {
	neg := strings.HasPrefix(text, "-")
	if neg {
		text = text[1:]
	}

	whole, frac, _ := strings.Cut(text, ".")
	wholePart, err := strconv.ParseInt(whole, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid fixed-point literal %q", text)
	}
	if wholePart > 2047 {
		return 0, fmt.Errorf("fixed-point literal %q out of range for 12.4", text)
	}

	var fracPart int64
	if frac != "" {
		fracVal, err := strconv.ParseFloat("0."+frac, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid fixed-point literal %q", text)
		}
		fracPart = int64(fracVal*16 + 0.5) // round to nearest sixteenth
		if fracPart == 16 {
			wholePart++
			fracPart = 0
		}
	}

	raw := wholePart<<4 | fracPart
	if neg {
		raw = -raw
	}
	return int16(raw), nil
}

// encodeFloat16 parses a decimal literal's text into an IEEE-754
// binary16 value: 1 sign bit, 5-bit biased exponent, 10-bit mantissa.
// Special values (0, subnormals, infinities) are handled explicitly;
// everything else rounds to nearest-even in the 10 mantissa bits.
func encodeFloat16(text string) (uint16, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float literal %q", text)
	}

	var sign uint16
	if f < 0 {
		sign = 1 << 15
		f = -f
	}

	if f == 0 {
		return sign, nil
	}
	if f > 65504 {
		return sign | (31 << 10), nil // overflow to infinity
	}

	exp := 0
	mant := f
	for mant >= 2 {
		mant /= 2
		exp++
	}
	for mant < 1 {
		mant *= 2
		exp--
	}
	// mant is now in [1, 2); biased exponent with bias 15.
	biased := exp + 15

	if biased <= 0 {
		// Subnormal: shift the implicit leading 1 into the mantissa
		// field and drop precision below bit 0.
		shift := 1 - biased
		subMant := (mant - 1 + 1) / float64(uint32(1)<<uint(shift))
		frac := uint16(math.RoundToEven(subMant * 1024))
		return sign | frac, nil
	}
	if biased >= 31 {
		return sign | (31 << 10), nil // overflow to infinity
	}

	frac := mant - 1
	mantissaBits := uint16(math.RoundToEven(frac * 1024))
	if mantissaBits == 1024 {
		mantissaBits = 0
		biased++
		if biased >= 31 {
			return sign | (31 << 10), nil
		}
	}

	return sign | uint16(biased)<<10 | mantissaBits, nil
}
