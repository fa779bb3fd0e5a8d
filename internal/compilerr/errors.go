// Package compilerr defines the closed set of diagnostics Cobra64 can
// report to a user, grouped by the stage that produces them, and a
// fluent builder for constructing one. The shape (code, message, span,
// optional hint) and the builder style follow the Orizon compiler's
// internal/diagnostics package; the enumeration itself is specific to
// Cobra64 and intentionally closed rather than open-ended.
package compilerr

import "github.com/mkloubert/cobra64/internal/position"

// ErrorCode is a stable, closed enumeration of everything that can go
// wrong compiling a Cobra64 source file. New stages may add new codes,
// but existing codes are never renumbered or repurposed.
type ErrorCode int

const (
	// Lexer errors.
	ErrTabNotAllowed ErrorCode = iota + 1
	ErrInvalidCharacter
	ErrUnterminatedString
	ErrInvalidEscapeSequence
	ErrEmptyCharLiteral
	ErrCharLiteralTooLong
	ErrIntegerTooLargeForWord
	ErrInvalidDigitInNumber
	ErrInvalidHexDigit
	ErrInvalidBinaryDigit
	ErrInvalidDecimalLiteral
	ErrIdentifierOnlyUnderscore
	ErrInvalidIdentifierNaming
	ErrInconsistentIndentation
	ErrStringTooLong

	// Parser errors.
	ErrUnexpectedToken
	ErrExpectedIdentifier
	ErrExpectedType
	ErrExpectedNewline
	ErrMissingTypeAnnotation
	ErrInvalidType
	ErrInvalidAssignmentTarget
	ErrDataByteOutOfRange
	ErrDuplicateDataBlockName

	// Analyzer errors.
	ErrUndefinedVariable
	ErrUndefinedFunction
	ErrTypeMismatch
	ErrArgumentTypeMismatch
	ErrWrongNumberOfArguments
	ErrCannotCompareTypes
	ErrInvalidOperatorForType
	ErrDuplicateParameterName
	ErrReturnOutsideFunction
	ErrMissingReturnValue
	ErrCannotReturnValueFromVoid
	ErrMissingReturnStatement
	ErrBreakOutsideLoop
	ErrContinueOutsideLoop
	ErrInvalidFunctionCall
	ErrConstantValueOutOfRange

	// Codegen errors.
	ErrBranchOutOfRange
	ErrNotImplemented
	ErrFileNotFound
	ErrFileReadError
	ErrIncludeOffsetOutOfBounds
	ErrIncludeLengthOutOfBounds
)

var codeNames = map[ErrorCode]string{
	ErrTabNotAllowed:             "TabNotAllowed",
	ErrInvalidCharacter:          "InvalidCharacter",
	ErrUnterminatedString:        "UnterminatedString",
	ErrInvalidEscapeSequence:     "InvalidEscapeSequence",
	ErrEmptyCharLiteral:          "EmptyCharLiteral",
	ErrCharLiteralTooLong:        "CharLiteralTooLong",
	ErrIntegerTooLargeForWord:    "IntegerTooLargeForWord",
	ErrInvalidDigitInNumber:      "InvalidDigitInNumber",
	ErrInvalidHexDigit:           "InvalidHexDigit",
	ErrInvalidBinaryDigit:        "InvalidBinaryDigit",
	ErrInvalidDecimalLiteral:     "InvalidDecimalLiteral",
	ErrIdentifierOnlyUnderscore:  "IdentifierOnlyUnderscore",
	ErrInvalidIdentifierNaming:   "InvalidIdentifierNaming",
	ErrInconsistentIndentation:   "InconsistentIndentation",
	ErrStringTooLong:             "StringTooLong",
	ErrUnexpectedToken:           "UnexpectedToken",
	ErrExpectedIdentifier:        "ExpectedIdentifier",
	ErrExpectedType:              "ExpectedType",
	ErrExpectedNewline:           "ExpectedNewline",
	ErrMissingTypeAnnotation:     "MissingTypeAnnotation",
	ErrInvalidType:               "InvalidType",
	ErrInvalidAssignmentTarget:   "InvalidAssignmentTarget",
	ErrDataByteOutOfRange:       "DataByteOutOfRange",
	ErrDuplicateDataBlockName:   "DuplicateDataBlockName",
	ErrUndefinedVariable:         "UndefinedVariable",
	ErrUndefinedFunction:         "UndefinedFunction",
	ErrTypeMismatch:              "TypeMismatch",
	ErrArgumentTypeMismatch:      "ArgumentTypeMismatch",
	ErrWrongNumberOfArguments:    "WrongNumberOfArguments",
	ErrCannotCompareTypes:        "CannotCompareTypes",
	ErrInvalidOperatorForType:    "InvalidOperatorForType",
	ErrDuplicateParameterName:    "DuplicateParameterName",
	ErrReturnOutsideFunction:     "ReturnOutsideFunction",
	ErrMissingReturnValue:        "MissingReturnValue",
	ErrCannotReturnValueFromVoid: "CannotReturnValueFromVoid",
	ErrMissingReturnStatement:    "MissingReturnStatement",
	ErrBreakOutsideLoop:          "BreakOutsideLoop",
	ErrContinueOutsideLoop:       "ContinueOutsideLoop",
	ErrInvalidFunctionCall:       "InvalidFunctionCall",
	ErrConstantValueOutOfRange:   "ConstantValueOutOfRange",
	ErrBranchOutOfRange:          "BranchOutOfRange",
	ErrNotImplemented:            "NotImplemented",
	ErrFileNotFound:              "FileNotFound",
	ErrFileReadError:             "FileReadError",
	ErrIncludeOffsetOutOfBounds:  "IncludeOffsetOutOfBounds",
	ErrIncludeLengthOutOfBounds:  "IncludeLengthOutOfBounds",
}

// String renders the code's symbolic name, falling back to its numeric
// E#### form for anything unregistered.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return c.Symbol()
}

// Symbol renders the stable "E####" form used in diagnostic output.
func (c ErrorCode) Symbol() string {
	return "E" + padCode(int(c))
}

func padCode(n int) string {
	digits := [4]byte{'0', '0', '0', '0'}
	for i := 3; i >= 0 && n > 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[:])
}

// CompileError is a single diagnostic: a code, a human message, the
// source span it points at, and an optional hint rendered on the next
// line. Severity defaults to error; Warning() downgrades it.
type CompileError struct {
	Code      ErrorCode
	Message   string
	Span      position.Span
	Hint      string
	IsWarning bool
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return e.Span.String() + ": " + e.Code.Symbol() + ": " + e.Message
}

// New creates an error-severity diagnostic.
func New(code ErrorCode, message string, span position.Span) *CompileError {
	return &CompileError{Code: code, Message: message, Span: span}
}

// NewWarning creates a warning-severity diagnostic.
func NewWarning(code ErrorCode, message string, span position.Span) *CompileError {
	return &CompileError{Code: code, Message: message, Span: span, IsWarning: true}
}

// WithHint attaches a one-line hint and returns the same error for chaining.
func (e *CompileError) WithHint(hint string) *CompileError {
	e.Hint = hint
	return e
}
