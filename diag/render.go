package diag

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"golang.org/x/text/width"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
	warningLabel = color.New(color.FgYellow, color.Bold).SprintFunc()
	gutter       = color.New(color.FgBlue).SprintFunc()
	caret        = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// Render writes d in a compiler-style layout with the offending source line
// and a caret marker underneath it. Colors follow color.NoColor.
func Render(w io.Writer, filename, src string, d Diagnostic) error {
	label := errorLabel(d.Severity.String())
	if d.Severity == SeverityWarning {
		label = warningLabel(d.Severity.String())
	}

	if _, err := fmt.Fprintf(w, "%s:%s: %s: %s\n", filename, d.Span.Start, label, d.Message); err != nil {
		return err
	}

	line, lineStart, ok := sourceLine(src, d.Span.Start)
	if !ok {
		return nil
	}

	lineNo := fmt.Sprintf("%4d", d.Span.Start.Line)
	pad := strings.Repeat(" ", len(lineNo))

	startCol := d.Span.Start.Offset - lineStart
	startCol = min(max(startCol, 0), len(line))

	endCol := d.Span.End.Offset - lineStart
	if d.Span.End.Line != d.Span.Start.Line || endCol > len(line) {
		endCol = len(line)
	}

	marker := indentFor(line[:startCol]) + "^"
	if n := DisplayWidth(line[startCol:max(endCol, startCol)]); n > 1 {
		marker += strings.Repeat("~", n-1)
	}

	_, err := fmt.Fprintf(w, "%s %s %s\n%s %s %s\n", gutter(lineNo), gutter("|"), line, pad, gutter("|"), caret(marker))

	return err
}

// RenderAll renders every diagnostic in order.
func RenderAll(w io.Writer, filename, src string, diags List) error {
	for _, d := range diags {
		if err := Render(w, filename, src, d); err != nil {
			return err
		}
	}

	return nil
}

// DisplayWidth returns the number of terminal cells s occupies.
// East Asian wide and fullwidth runes take two cells.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}

	return n
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// indentFor keeps tabs so the caret lines up with the echoed source line.
func indentFor(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}

		sb.WriteString(strings.Repeat(" ", runeWidth(r)))
	}

	return sb.String()
}

func sourceLine(src string, pos Position) (string, int, bool) {
	if pos.Offset < 0 || pos.Offset > len(src) {
		return "", 0, false
	}

	start := strings.LastIndexByte(src[:pos.Offset], '\n') + 1

	end := strings.IndexByte(src[start:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += start
	}

	line := strings.TrimSuffix(src[start:end], "\r")
	if !utf8.ValidString(line) {
		line = strings.ToValidUTF8(line, "?")
	}

	return line, start, true
}
