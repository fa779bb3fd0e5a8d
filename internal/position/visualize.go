// This file contains source-excerpt rendering used when printing
// diagnostics and when inspecting a file during development.
package position

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SpanHighlighter renders a Span as a caret-underlined excerpt of the
// source file it belongs to. compilerr.FormatError/FormatWarning build
// on this directly; diagnostic aggregation (collecting many errors and
// warnings together) lives in package compilerr, not here, so this type
// only ever deals with one Span at a time.
type SpanHighlighter struct {
	sourceMap *SourceMap
}

// NewSpanHighlighter creates a new span highlighter.
func NewSpanHighlighter(sourceMap *SourceMap) *SpanHighlighter {
	return &SpanHighlighter{
		sourceMap: sourceMap,
	}
}

// HighlightSpan returns a string representation of the source code.
// with the specified span highlighted using ASCII art.
func (sh *SpanHighlighter) HighlightSpan(span Span) string {
	if !span.IsValid() {
		return "Invalid span"
	}

	file := sh.sourceMap.GetFile(span.Start.Filename)
	if file == nil {
		return fmt.Sprintf("File not found: %s", span.Start.Filename)
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("File: %s\n", span.Start.Filename))
	result.WriteString(fmt.Sprintf("Span: %s\n", span.String()))
	result.WriteString("\n")

	// Calculate range of lines to show (with context).
	startLine := max(1, span.Start.Line-2)
	endLine := min(len(file.Lines), span.End.Line+2)

	// Add line numbers and content.
	for lineNum := startLine; lineNum <= endLine; lineNum++ {
		line := file.GetLine(lineNum)
		result.WriteString(fmt.Sprintf("%4d | %s\n", lineNum, line))

		// Add highlighting for the current span.
		if lineNum >= span.Start.Line && lineNum <= span.End.Line {
			sh.addHighlighting(&result, lineNum, line, span)
		}
	}

	return result.String()
}

// addHighlighting adds ASCII highlighting under the relevant part of the line.
func (sh *SpanHighlighter) addHighlighting(result *strings.Builder, lineNum int, line string, span Span) {
	result.WriteString("     | ")

	if lineNum == span.Start.Line && lineNum == span.End.Line {
		// Single line span.
		sh.addSingleLineHighlight(result, line, span.Start.Column, span.End.Column)
	} else if lineNum == span.Start.Line {
		// Start of multi-line span.
		sh.addSingleLineHighlight(result, line, span.Start.Column, utf8.RuneCountInString(line)+1)
	} else if lineNum == span.End.Line {
		// End of multi-line span.
		sh.addSingleLineHighlight(result, line, 1, span.End.Column)
	} else {
		// Middle of multi-line span.
		sh.addSingleLineHighlight(result, line, 1, utf8.RuneCountInString(line)+1)
	}

	result.WriteString("\n")
}

// addSingleLineHighlight adds highlighting for a single line between given columns.
func (sh *SpanHighlighter) addSingleLineHighlight(result *strings.Builder, line string, startCol, endCol int) {
	runes := []rune(line)

	// Add spaces before the highlight.
	for i := 1; i < startCol; i++ {
		if i <= len(runes) && runes[i-1] == '\t' {
			result.WriteString("\t")
		} else {
			result.WriteString(" ")
		}
	}

	// Add the highlight.
	highlightLen := endCol - startCol
	if highlightLen > 0 {
		result.WriteString(strings.Repeat("^", min(highlightLen, len(runes)-startCol+1)))
	}
}

// HighlightMultipleSpans renders several spans one after another, used
// by tools that report more than one location at once (e.g. "defined
// here" plus "redeclared here" pairs).
func (sh *SpanHighlighter) HighlightMultipleSpans(spans []Span) string {
	if len(spans) == 0 {
		return "No spans to highlight"
	}

	var result strings.Builder

	result.WriteString("Multiple Span Highlighting\n")
	result.WriteString(strings.Repeat("=", 50) + "\n\n")

	for i, span := range spans {
		result.WriteString(fmt.Sprintf("Span %d:\n", i+1))
		result.WriteString(sh.HighlightSpan(span))
		result.WriteString("\n")
	}

	return result.String()
}

// CodeInspector provides source-map inspection helpers (per-file
// statistics, rendered source dumps) for debugging during development.
// Not wired into any cmd/cobra64 subcommand.
type CodeInspector struct {
	sourceMap *SourceMap
}

// NewCodeInspector creates a new code inspector.
func NewCodeInspector(sourceMap *SourceMap) *CodeInspector {
	return &CodeInspector{
		sourceMap: sourceMap,
	}
}

// InspectFile provides a detailed view of a source file.
func (ci *CodeInspector) InspectFile(filename string) string {
	file := ci.sourceMap.GetFile(filename)
	if file == nil {
		return fmt.Sprintf("File not found: %s", filename)
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("File Inspection: %s\n", filename))
	result.WriteString(strings.Repeat("=", 50) + "\n")
	result.WriteString(fmt.Sprintf("Total lines: %d\n", len(file.Lines)))
	result.WriteString(fmt.Sprintf("Total characters: %d\n", len(file.Content)))
	result.WriteString("\n")

	for i, line := range file.Lines {
		lineNum := i + 1
		result.WriteString(fmt.Sprintf("%4d | %s\n", lineNum, line))
	}

	return result.String()
}

// FileStats summarizes the shape of a source file: how many lines it
// has and how long they are.
type FileStats struct {
	Filename   string
	TotalLines int
	TotalChars int
	EmptyLines int
	MaxLineLen int
	MinLineLen int
	AvgLineLen float64
}

// FileStatistics returns size statistics about a source file, or the
// zero value with Filename left empty if the file isn't in the map.
func (ci *CodeInspector) FileStatistics(filename string) FileStats {
	file := ci.sourceMap.GetFile(filename)
	if file == nil {
		return FileStats{}
	}

	stats := FileStats{
		Filename:   filename,
		TotalLines: len(file.Lines),
		TotalChars: len(file.Content),
		MinLineLen: -1,
	}

	totalLineLen := 0
	for _, line := range file.Lines {
		lineLen := len(line)
		totalLineLen += lineLen

		if lineLen == 0 {
			stats.EmptyLines++
		}
		if lineLen > stats.MaxLineLen {
			stats.MaxLineLen = lineLen
		}
		if stats.MinLineLen == -1 || lineLen < stats.MinLineLen {
			stats.MinLineLen = lineLen
		}
	}

	if len(file.Lines) > 0 {
		stats.AvgLineLen = float64(totalLineLen) / float64(len(file.Lines))
	}

	return stats
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}
