// Package token defines the lexical tokens produced by the Cobra64
// lexer: keywords, literals, operators, punctuation, and the layout
// tokens (Indent/Dedent/Newline) that carry Python-style block
// structure into the parser.
package token

import (
	"fmt"

	"github.com/mkloubert/cobra64/internal/position"
)

// Type identifies the kind of a token.
type Type int

const (
	EOF Type = iota
	Newline
	Indent
	Dedent

	Identifier
	Integer
	Decimal
	String
	Char
	Bool

	// Keywords.
	Def
	If
	Elif
	Else
	While
	For
	In
	To
	Downto
	Return
	Break
	Continue
	Pass
	Const
	And
	Or
	Not
	As
	Data
	Align

	// Type keywords.
	TypeByte
	TypeWord
	TypeSbyte
	TypeSword
	TypeBool
	TypeString
	TypeFixed
	TypeFloat
	TypeVoid

	// Operators & punctuation.
	Plus
	Minus
	Star
	Slash
	Percent
	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq
	AmpEq
	PipeEq
	CaretEq
	ShlEq
	ShrEq
	EqEq
	NotEq
	Lt
	Gt
	LtEq
	GtEq
	Amp
	Pipe
	Caret
	Tilde
	Shl
	Shr
	Eq
	LParen
	RParen
	LBracket
	RBracket
	Colon
	Comma
	Arrow
)

var names = map[Type]string{
	EOF: "EOF", Newline: "NEWLINE", Indent: "INDENT", Dedent: "DEDENT",
	Identifier: "IDENTIFIER", Integer: "INTEGER", Decimal: "DECIMAL",
	String: "STRING", Char: "CHAR", Bool: "BOOL",
	Def: "def", If: "if", Elif: "elif", Else: "else", While: "while",
	For: "for", In: "in", To: "to", Downto: "downto", Return: "return",
	Break: "break", Continue: "continue", Pass: "pass", Const: "const",
	And: "and", Or: "or", Not: "not", As: "as", Data: "data", Align: "align",
	TypeByte: "byte", TypeWord: "word", TypeSbyte: "sbyte", TypeSword: "sword",
	TypeBool: "bool", TypeString: "string", TypeFixed: "fixed", TypeFloat: "float",
	TypeVoid: "void",
	Plus:     "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	PlusEq: "+=", MinusEq: "-=", StarEq: "*=", SlashEq: "/=", PercentEq: "%=",
	AmpEq: "&=", PipeEq: "|=", CaretEq: "^=", ShlEq: "<<=", ShrEq: ">>=",
	EqEq: "==", NotEq: "!=", Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=",
	Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", Shl: "<<", Shr: ">>",
	Eq: "=", LParen: "(", RParen: ")", LBracket: "[", RBracket: "]",
	Colon: ":", Comma: ",", Arrow: "->",
}

// String renders the token type's canonical spelling, or "UNKNOWN(n)"
// for an unregistered value.
func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// Keywords maps reserved words to their token type. Type-name keywords
// are included so the parser can recognize a type annotation by token
// type alone.
var Keywords = map[string]Type{
	"def": Def, "if": If, "elif": Elif, "else": Else, "while": While,
	"for": For, "in": In, "to": To, "downto": Downto, "return": Return,
	"break": Break, "continue": Continue, "pass": Pass, "const": Const,
	"and": And, "or": Or, "not": Not, "as": As, "data": Data, "align": Align,
	"byte": TypeByte, "word": TypeWord, "sbyte": TypeSbyte, "sword": TypeSword,
	"bool": TypeBool, "string": TypeString, "fixed": TypeFixed, "float": TypeFloat,
	"void": TypeVoid, "true": Bool, "false": Bool,
}

// IsTypeKeyword reports whether t names a primitive type usable in a
// type annotation or a type-cast expression.
func IsTypeKeyword(t Type) bool {
	switch t {
	case TypeByte, TypeWord, TypeSbyte, TypeSword, TypeBool, TypeString, TypeFixed, TypeFloat, TypeVoid:
		return true
	}
	return false
}

// Token is a single lexical token together with its source span and,
// for literals, its decoded value.
type Token struct {
	Type Type
	Span position.Span

	// Text holds the identifier/keyword spelling, the verbatim decimal
	// literal text, or the decoded string literal contents.
	Text string

	// IntValue holds the decoded value for Integer (0..65535) and Char
	// (0..255) literals.
	IntValue uint16

	// BoolValue holds the decoded value for Bool literals.
	BoolValue bool
}

// NewToken builds a Token of the given type and span with no payload.
func NewToken(typ Type, span position.Span) Token {
	return Token{Type: typ, Span: span}
}
