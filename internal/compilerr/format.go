package compilerr

import (
	"fmt"
	"strings"

	"github.com/mkloubert/cobra64/internal/position"
)

// FormatError renders a CompileError the way the CLI prints it to
// stderr: filename:line:column, the error symbol and message, a
// caret-underlined excerpt of the offending line, and an indented hint
// if one was attached.
func FormatError(err *CompileError, source string, filename string) string {
	return format(err, source, filename, "error")
}

// FormatWarning renders a CompileError flagged as a warning in the same
// shape as FormatError, with "warning" in place of "error".
func FormatWarning(err *CompileError, source string, filename string) string {
	return format(err, source, filename, "warning")
}

func format(err *CompileError, source string, filename string, label string) string {
	if filename == "" {
		filename = "<input>"
	}

	file := position.NewSourceFile(filename, source)
	span := err.Span
	if span.Start.Filename == "" {
		span = file.Span(span.Start.Offset, span.End.Offset)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s[%s]: %s\n", span.String(), label, err.Code.Symbol(), err.Message)

	sm := position.NewSourceMap()
	sm.AddFile(filename, source)
	highlighter := position.NewSpanHighlighter(sm)
	b.WriteString(highlighter.HighlightSpan(span))

	if err.Hint != "" {
		fmt.Fprintf(&b, "  hint: %s\n", err.Hint)
	}

	return b.String()
}
