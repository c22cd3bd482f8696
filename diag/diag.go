// Package diag holds source locations and the diagnostics produced while
// scanning and parsing rad source text.
package diag

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Position represents a position in the source code.
// Offset is a byte index; Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Span is a half-open byte range [Start, End).
type Span struct {
	Start Position
	End   Position
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// String returns the start position of the span.
func (s Span) String() string {
	return s.Start.String()
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	out := a
	if b.Start.Offset < out.Start.Offset {
		out.Start = b.Start
	}

	if b.End.Offset > out.End.Offset {
		out.End = b.End
	}

	return out
}

// Severity tells a caller whether a diagnostic must stop execution.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns the string representation of Severity
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Category classifies where a diagnostic came from.
type Category int

const (
	// LexicalError covers unterminated strings, illegal characters and nesting limits.
	LexicalError Category = iota
	// SyntaxError covers unexpected tokens and missing grammar elements.
	SyntaxError
	// StructuralWarning covers recoverable anomalies such as dedent resynchronisation.
	StructuralWarning
)

// String returns the string representation of Category
func (c Category) String() string {
	switch c {
	case LexicalError:
		return "lexical error"
	case SyntaxError:
		return "syntax error"
	case StructuralWarning:
		return "structural warning"
	default:
		return "unknown"
	}
}

// Severity returns the severity a diagnostic of this category carries.
func (c Category) Severity() Severity {
	if c == StructuralWarning {
		return SeverityWarning
	}

	return SeverityError
}

// Diagnostic is one problem found in the source.
type Diagnostic struct {
	Severity Severity
	Category Category
	Span     Span
	Message  string
	Err      error
}

// New creates a diagnostic for err located at span.
func New(category Category, span Span, err error) Diagnostic {
	return Diagnostic{
		Severity: category.Severity(),
		Category: category,
		Span:     span,
		Message:  err.Error(),
		Err:      err,
	}
}

// Newf creates a diagnostic wrapping sentinel with a formatted detail message.
func Newf(category Category, span Span, sentinel error, format string, args ...any) Diagnostic {
	return New(category, span, fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return d.Span.String() + ": " + d.Category.String() + ": " + d.Message
}

// Unwrap exposes the sentinel so errors.Is works on diagnostics.
func (d Diagnostic) Unwrap() error {
	return d.Err
}

// List is an ordered set of diagnostics.
type List []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (l List) HasErrors() bool {
	return slices.ContainsFunc(l, func(d Diagnostic) bool { return d.Severity == SeverityError })
}

// Errors returns the diagnostics with error severity.
func (l List) Errors() List {
	return l.filter(SeverityError)
}

// Warnings returns the diagnostics with warning severity.
func (l List) Warnings() List {
	return l.filter(SeverityWarning)
}

// Count returns how many diagnostics belong to category.
func (l List) Count(category Category) int {
	n := 0
	for _, d := range l {
		if d.Category == category {
			n++
		}
	}

	return n
}

func (l List) filter(severity Severity) List {
	var out List
	for _, d := range l {
		if d.Severity == severity {
			out = append(out, d)
		}
	}

	return out
}

// Sort orders diagnostics by source offset, keeping report order for ties.
func (l List) Sort() {
	slices.SortStableFunc(l, func(a, b Diagnostic) int {
		return a.Span.Start.Offset - b.Span.Start.Offset
	})
}

// Err aggregates the list into a *ParseError, or returns nil when empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}

	perr := &ParseError{}
	for _, d := range l {
		perr.Add(d)
	}

	return perr
}

// Reporter accumulates diagnostics during one scan or parse.
type Reporter struct {
	list List
}

// Add appends diagnostics to the reporter.
func (r *Reporter) Add(diags ...Diagnostic) {
	r.list = append(r.list, diags...)
}

// Report records err at span.
func (r *Reporter) Report(category Category, span Span, err error) {
	r.list = append(r.list, New(category, span, err))
}

// Reportf records a diagnostic wrapping sentinel with a formatted detail.
func (r *Reporter) Reportf(category Category, span Span, sentinel error, format string, args ...any) {
	r.list = append(r.list, Newf(category, span, sentinel, format, args...))
}

// Len returns the number of diagnostics recorded so far.
func (r *Reporter) Len() int {
	return len(r.list)
}

// Truncate drops diagnostics recorded after the first n.
func (r *Reporter) Truncate(n int) {
	if n < len(r.list) {
		r.list = r.list[:n]
	}
}

// List returns a position-ordered copy of the recorded diagnostics.
func (r *Reporter) List() List {
	out := slices.Clone(r.list)
	out.Sort()

	return out
}

// ParseError aggregates multiple parsing errors.
type ParseError struct {
	Errors []error
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	if len(e.Errors) == 0 {
		return "no parse errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString("Multiple parse errors:")

	for i, err := range e.Errors {
		sb.WriteString("\n  [")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("] ")
		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Add appends an error to the ParseError.
func (e *ParseError) Add(err error) {
	if err == nil {
		return
	}

	if perr, ok := err.(*ParseError); ok {
		e.Errors = append(e.Errors, perr.Errors...)
	} else {
		e.Errors = append(e.Errors, err)
	}
}

// Unwrap lets errors.Is and errors.As look through the aggregated errors.
func (e *ParseError) Unwrap() []error {
	return e.Errors
}

// AsParseError is a helper to extract *ParseError from error using errors.As.
func AsParseError(err error) (*ParseError, bool) {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr, true
	}

	return nil, false
}
