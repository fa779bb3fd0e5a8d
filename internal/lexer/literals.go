package lexer

import (
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/position"
	"github.com/mkloubert/cobra64/internal/token"
)

// scanNumber scans a decimal integer or, when a fractional part or
// exponent follows, a Decimal literal whose verbatim text is handed to
// the analyzer/codegen to interpret as Fixed or Float from the literal
// text alone (an exponent or a value outside the 12.4 range makes it
// Float); the type of the target is not consulted.
func (lx *Lexer) scanNumber(start position.Position) *compilerr.CompileError {
	for isDigit(lx.peek()) {
		lx.advance()
	}

	isDecimal := false
	if lx.peek() == '.' && isDigit(lx.peekAt(1)) {
		isDecimal = true
		lx.advance() // '.'
		for isDigit(lx.peek()) {
			lx.advance()
		}
	}
	if lx.peek() == 'e' || lx.peek() == 'E' {
		save := lx.pos
		saveLine, saveCol := lx.line, lx.col
		lx.advance()
		if lx.peek() == '+' || lx.peek() == '-' {
			lx.advance()
		}
		if isDigit(lx.peek()) {
			isDecimal = true
			for isDigit(lx.peek()) {
				lx.advance()
			}
		} else {
			// Not actually an exponent; rewind.
			lx.pos, lx.line, lx.col = save, saveLine, saveCol
		}
	}

	text := lx.src[start.Offset:lx.pos]
	span := lx.spanFrom(start)

	if isIdentStart(lx.peek()) {
		return compilerr.New(compilerr.ErrInvalidDigitInNumber,
			"invalid digit in number literal", lx.spanFrom(start))
	}

	if isDecimal {
		lx.tokens = append(lx.tokens, token.Token{Type: token.Decimal, Span: span, Text: text})
		return nil
	}

	value, err := parseDecimalUint16(text, span)
	if err != nil {
		return err
	}
	lx.tokens = append(lx.tokens, token.Token{Type: token.Integer, Span: span, Text: text, IntValue: value})
	return nil
}

func parseDecimalUint16(text string, span position.Span) (uint16, *compilerr.CompileError) {
	var v uint32
	for i := 0; i < len(text); i++ {
		v = v*10 + uint32(text[i]-'0')
		if v > 0xFFFF {
			return 0, compilerr.New(compilerr.ErrIntegerTooLargeForWord,
				"integer literal does not fit in 16 bits", span)
		}
	}
	return uint16(v), nil
}

// scanHex scans a $-prefixed hexadecimal integer literal.
func (lx *Lexer) scanHex(start position.Position) *compilerr.CompileError {
	lx.advance() // '$'
	digitsStart := lx.pos
	for isHexDigit(lx.peek()) {
		lx.advance()
	}
	if lx.pos == digitsStart {
		return compilerr.New(compilerr.ErrInvalidHexDigit,
			"expected at least one hex digit after '$'", lx.spanFrom(start))
	}

	span := lx.spanFrom(start)
	text := lx.src[start.Offset:lx.pos]

	var v uint32
	for i := digitsStart - start.Offset; i < len(text); i++ {
		v = v*16 + uint32(hexDigitValue(text[i]))
		if v > 0xFFFF {
			return compilerr.New(compilerr.ErrIntegerTooLargeForWord,
				"hex literal does not fit in 16 bits", span)
		}
	}

	lx.tokens = append(lx.tokens, token.Token{Type: token.Integer, Span: span, Text: text, IntValue: uint16(v)})
	return nil
}

func hexDigitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// scanBinary scans a %-prefixed binary integer literal.
func (lx *Lexer) scanBinary(start position.Position) *compilerr.CompileError {
	lx.advance() // '%'
	digitsStart := lx.pos
	for isBinaryDigit(lx.peek()) {
		lx.advance()
	}
	if lx.pos == digitsStart {
		return compilerr.New(compilerr.ErrInvalidBinaryDigit,
			"expected at least one binary digit after '%'", lx.spanFrom(start))
	}

	span := lx.spanFrom(start)
	text := lx.src[start.Offset:lx.pos]

	var v uint32
	for i := digitsStart - start.Offset; i < len(text); i++ {
		v = v*2 + uint32(text[i]-'0')
		if v > 0xFFFF {
			return compilerr.New(compilerr.ErrIntegerTooLargeForWord,
				"binary literal does not fit in 16 bits", span)
		}
	}

	lx.tokens = append(lx.tokens, token.Token{Type: token.Integer, Span: span, Text: text, IntValue: uint16(v)})
	return nil
}

// scanString scans a double-quoted string literal, decoding escapes and
// rejecting literals over 255 bytes (the generator's length-prefix and
// pooling scheme is byte-addressed).
func (lx *Lexer) scanString(start position.Position) *compilerr.CompileError {
	lx.advance() // opening '"'

	var decoded []byte
	for {
		if lx.atEnd() || lx.peek() == '\n' {
			return compilerr.New(compilerr.ErrUnterminatedString,
				"unterminated string literal", lx.spanFrom(start))
		}
		c := lx.peek()
		if c == '"' {
			lx.advance()
			break
		}
		if c == '\\' {
			escStart := lx.pos0()
			lx.advance()
			decodedByte, err := lx.decodeEscape(escStart)
			if err != nil {
				return err
			}
			decoded = append(decoded, decodedByte)
			continue
		}
		decoded = append(decoded, c)
		lx.advance()
	}

	span := lx.spanFrom(start)
	if len(decoded) > 255 {
		return compilerr.New(compilerr.ErrStringTooLong,
			"string literal exceeds 255 bytes", span)
	}

	lx.tokens = append(lx.tokens, token.Token{Type: token.String, Span: span, Text: string(decoded)})
	return nil
}

// scanChar scans a single-quoted character literal, which must decode
// to exactly one byte.
func (lx *Lexer) scanChar(start position.Position) *compilerr.CompileError {
	lx.advance() // opening '\''

	if lx.peek() == '\'' {
		lx.advance()
		return compilerr.New(compilerr.ErrEmptyCharLiteral,
			"character literal cannot be empty", lx.spanFrom(start))
	}

	var value byte
	if lx.peek() == '\\' {
		escStart := lx.pos0()
		lx.advance()
		v, err := lx.decodeEscape(escStart)
		if err != nil {
			return err
		}
		value = v
	} else {
		value = lx.peek()
		lx.advance()
	}

	if lx.peek() != '\'' {
		for !lx.atEnd() && lx.peek() != '\'' && lx.peek() != '\n' {
			lx.advance()
		}
		if lx.peek() == '\'' {
			lx.advance()
		}
		return compilerr.New(compilerr.ErrCharLiteralTooLong,
			"character literal must contain exactly one character", lx.spanFrom(start))
	}
	lx.advance() // closing '\''

	span := lx.spanFrom(start)
	lx.tokens = append(lx.tokens, token.Token{Type: token.Char, Span: span, IntValue: uint16(value)})
	return nil
}

// decodeEscape decodes the character following a backslash already
// consumed by the caller; escStart is the position of the backslash.
func (lx *Lexer) decodeEscape(escStart position.Position) (byte, *compilerr.CompileError) {
	if lx.atEnd() {
		return 0, compilerr.New(compilerr.ErrInvalidEscapeSequence,
			"unterminated escape sequence", lx.spanFrom(escStart))
	}
	c := lx.peek()
	lx.advance()
	switch c {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '\\':
		return '\\', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	case '0':
		return 0, nil
	default:
		return 0, compilerr.New(compilerr.ErrInvalidEscapeSequence,
			"unknown escape sequence '\\"+string(c)+"'", lx.spanFrom(escStart))
	}
}
