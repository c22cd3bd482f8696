// Package parser turns rad source text into an *ast.SourceFile.
//
// Parsing never stops at the first problem. Each error is recorded as a
// diagnostic, an error node is left in the tree and the parser resumes at
// the next line.
package parser

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shibukawa/radlang/ast"
	"github.com/shibukawa/radlang/diag"
	tok "github.com/shibukawa/radlang/tokenizer"
)

// Parse parses a complete rad script. The returned tree is never nil;
// diagnostics are ordered by position.
func Parse(src string, options ...Options) (*ast.SourceFile, diag.List) {
	p := newParser(src, resolveOptions(options))
	file := p.parseSourceFile()

	return file, p.diagnostics()
}

// ParseExpression parses src as a single expression.
func ParseExpression(src string, options ...Options) (ast.Expr, diag.List) {
	p := newParser(src, resolveOptions(options))
	for p.at(tok.NEWLINE, tok.INDENT) {
		p.next()
	}

	x := p.parseExpression()
	if !p.at(tok.NEWLINE, tok.DEDENT, tok.EOF) {
		p.unexpected("end of expression")
	}

	return x, p.diagnostics()
}

// diagnostics returns the ordered diagnostics. Characters such as | or ;
// are illegal in expressions but fine inside verbatim shell text.
func (p *parser) diagnostics() diag.List {
	return slices.DeleteFunc(p.reporter.List(), func(d diag.Diagnostic) bool {
		if !errors.Is(d, tok.ErrIllegalCharacter) {
			return false
		}

		return slices.ContainsFunc(p.shellText, func(span diag.Span) bool {
			return span.Start.Offset <= d.Span.Start.Offset && d.Span.End.Offset <= span.End.Offset
		})
	})
}

type parser struct {
	src    string
	tokens []tok.Token
	pos    int
	last   tok.Token

	reporter      diag.Reporter
	lastErrOffset int
	bailing       bool

	depth         int
	maxDepth      int
	depthReported bool

	shellText []diag.Span // verbatim shell command lines
}

func newParser(src string, opts Options) *parser {
	tz := tok.NewTokenizer(src, tok.Options{
		TabWidth:     opts.TabWidth,
		MaxNesting:   opts.MaxNesting,
		SkipComments: true,
	})

	p := &parser{
		src:           src,
		tokens:        tz.AllTokens(),
		lastErrOffset: -1,
		maxDepth:      opts.MaxDepth,
	}
	p.reporter.Add(tz.Diagnostics()...)

	return p
}

func (p *parser) parseSourceFile() *ast.SourceFile {
	file := &ast.SourceFile{}

	if p.at(tok.SHEBANG) {
		t := p.next()
		file.Shebang = &ast.Shebang{Base: ast.At(t.Span), Text: t.Value}
	}

	if p.at(tok.FILE_HEADER) {
		t := p.next()
		file.Header = &ast.FileHeader{Base: ast.At(t.Span), Contents: t.Value}
	}

	for p.at(tok.NEWLINE) {
		p.next()
	}

	if p.at(tok.ARGS) && p.peek(1).Type == tok.COLON {
		file.Args = p.parseArgBlock()
	}

	for !p.at(tok.EOF) {
		file.Stmts = append(file.Stmts, parseItems(p, p.parseStatement)...)

		if p.at(tok.DEDENT) {
			p.next()
		}
	}

	file.Loc = diag.Span{
		Start: diag.Position{Offset: 0, Line: 1, Column: 1},
		End:   p.cur().Span.End,
	}

	return file
}

// parseItems parses items until the DEDENT closing the current block or EOF.
// A stray INDENT is reported and its lines are parsed in place.
func parseItems[T any](p *parser, item func() T) []T {
	var items []T

	stray := 0

	for {
		switch p.cur().Type {
		case tok.EOF:
			return items
		case tok.NEWLINE:
			p.next()
			continue
		case tok.INDENT:
			p.errorf(p.cur().Span, ErrUnexpectedIndent, "statement is indented deeper than its block")
			p.next()
			stray++

			continue
		case tok.DEDENT:
			if stray == 0 {
				return items
			}

			stray--
			p.next()

			continue
		}

		p.bailing = false
		before := p.pos
		items = append(items, item())

		if p.pos == before {
			p.skipLine()

			if p.pos == before {
				p.next()
			}
		}
	}
}

// parseBlock parses ': NEWLINE INDENT item* DEDENT'.
func parseBlock[T any](p *parser, item func() T) ([]T, diag.Span) {
	start := p.cur().Span.Start
	mark := p.reporter.Len()

	if p.at(tok.COLON) {
		p.next()
	} else {
		p.unexpected("':'")
	}

	if p.at(tok.NEWLINE) {
		p.next()
	} else {
		if p.reporter.Len() == mark {
			p.unexpected("end of line after ':'")
		}

		p.skipLine()
	}

	if !p.at(tok.INDENT) {
		if p.reporter.Len() == mark {
			p.errorf(p.cur().Span, ErrMissingElement, "expected an indented block")
		}

		return nil, p.spanFrom(start)
	}

	p.next()

	if !p.enter() {
		p.leave()
		p.skipBlock()

		return nil, p.spanFrom(start)
	}

	items := parseItems(p, item)
	p.leave()

	if p.at(tok.DEDENT) {
		p.next()
	}

	return items, p.spanFrom(start)
}

func (p *parser) parseStmtBlock() *ast.Block {
	stmts, span := parseBlock(p, p.parseStatement)

	return &ast.Block{Base: ast.At(span), Stmts: stmts}
}

// skipBlock skips the rest of a block whose INDENT was consumed.
func (p *parser) skipBlock() {
	depth := 1
	for depth > 0 && !p.at(tok.EOF) {
		switch p.next().Type {
		case tok.INDENT:
			depth++
		case tok.DEDENT:
			depth--
		}
	}
}

func (p *parser) cur() tok.Token {
	return p.peek(0)
}

func (p *parser) peek(n int) tok.Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}

	return p.tokens[len(p.tokens)-1]
}

func (p *parser) at(types ...tok.TokenType) bool {
	cur := p.cur().Type
	for _, t := range types {
		if cur == t {
			return true
		}
	}

	return false
}

func (p *parser) atLineEnd() bool {
	return p.at(tok.NEWLINE, tok.DEDENT, tok.EOF)
}

// next consumes the current token. It never moves past EOF. Layout tokens
// do not count as the last token, so spans end on visible text.
func (p *parser) next() tok.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	switch t.Type {
	case tok.NEWLINE, tok.INDENT, tok.DEDENT, tok.EOF:
	default:
		p.last = t
	}

	return t
}

func (p *parser) expect(tt tok.TokenType, what string) (tok.Token, bool) {
	if p.at(tt) {
		return p.next(), true
	}

	p.unexpected(what)

	return p.cur(), false
}

// expectCloser consumes a closing bracket, skipping whatever precedes it on
// the same logical line when it is not next.
func (p *parser) expectCloser(tt tok.TokenType, what string) {
	if p.at(tt) {
		p.next()
		return
	}

	p.unexpected(what)
	p.skipTo(tt)

	if p.at(tt) {
		p.next()
	}
}

// skipTo advances to the closer tt at the current bracket level, stopping
// at the end of the logical line.
func (p *parser) skipTo(tt tok.TokenType) {
	level := 0

	for !p.atLineEnd() {
		switch p.cur().Type {
		case tok.OPENED_PARENS, tok.OPENED_BRACKET, tok.OPENED_BRACE:
			level++
		case tok.CLOSED_PARENS, tok.CLOSED_BRACKET, tok.CLOSED_BRACE:
			if level == 0 {
				if p.at(tt) {
					return
				}
			} else {
				level--
			}
		}

		p.next()
	}
}

// skipLine discards the rest of the logical line including its NEWLINE.
// It never crosses DEDENT or EOF.
func (p *parser) skipLine() {
	for !p.atLineEnd() {
		p.next()
	}

	if p.at(tok.NEWLINE) {
		p.next()
	}
}

// endStatement consumes the NEWLINE ending a simple statement whose span is
// already set. When tokens trail it, they are reported unless the
// statement already produced an error, and the whole line is returned as
// an error node instead.
func (p *parser) endStatement(stmt ast.Stmt, start diag.Position, mark int) ast.Stmt {
	if !p.lineClean(mark) {
		stmt = p.bad(start)
	}

	p.endLine()

	return stmt
}

// lineClean reports whether the cursor is at the end of the line. If not,
// the trailing tokens are skipped.
func (p *parser) lineClean(mark int) bool {
	if p.atLineEnd() {
		return true
	}

	if p.reporter.Len() == mark {
		p.unexpected("end of line")
	}

	for !p.atLineEnd() {
		p.next()
	}

	return false
}

func (p *parser) endLine() {
	if p.at(tok.NEWLINE) {
		p.next()
	}
}

func (p *parser) spanFrom(start diag.Position) diag.Span {
	end := p.last.Span.End
	if end.Offset < start.Offset {
		end = start
	}

	return diag.Span{Start: start, End: end}
}

func (p *parser) bad(start diag.Position) *ast.Bad {
	return &ast.Bad{Base: ast.At(p.spanFrom(start))}
}

func (p *parser) badAt(t tok.Token) *ast.Bad {
	return &ast.Bad{Base: ast.At(diag.Span{Start: t.Span.Start, End: t.Span.Start})}
}

func (p *parser) errorf(span diag.Span, sentinel error, format string, args ...any) {
	if p.bailing || span.Start.Offset == p.lastErrOffset {
		return
	}

	p.lastErrOffset = span.Start.Offset
	p.reporter.Reportf(diag.SyntaxError, span, sentinel, format, args...)
}

func (p *parser) unexpected(expected string) {
	t := p.cur()
	p.errorf(t.Span, ErrUnexpectedToken, "expected %s, found %s", expected, describe(t))
}

func describe(t tok.Token) string {
	switch t.Type {
	case tok.NEWLINE:
		return "end of line"
	case tok.EOF:
		return "end of input"
	case tok.INDENT:
		return "indent"
	case tok.DEDENT:
		return "dedent"
	case tok.STRING_START:
		return "string"
	case tok.STRING_END:
		return "end of string"
	case tok.ARG_COMMENT:
		return "'#' comment"
	}

	return fmt.Sprintf("%q", t.Value)
}

// enter tracks nesting. It reports once when the limit is exceeded.
func (p *parser) enter() bool {
	p.depth++
	if p.depth <= p.maxDepth {
		return true
	}

	if !p.depthReported {
		p.depthReported = true
		p.errorf(p.cur().Span, ErrNestingTooDeep, "limit is %d", p.maxDepth)
	}

	return false
}

func (p *parser) leave() {
	p.depth--
}

// bail abandons the current line: later errors on it are suppressed.
func (p *parser) bail() {
	p.bailing = true
	for !p.atLineEnd() {
		p.next()
	}
}

type state struct {
	pos           int
	last          tok.Token
	diags         int
	lastErrOffset int
	bailing       bool
	shellText     int
}

func (p *parser) save() state {
	return state{
		pos:           p.pos,
		last:          p.last,
		diags:         p.reporter.Len(),
		lastErrOffset: p.lastErrOffset,
		bailing:       p.bailing,
		shellText:     len(p.shellText),
	}
}

func (p *parser) restore(s state) {
	p.pos = s.pos
	p.last = s.last
	p.reporter.Truncate(s.diags)
	p.lastErrOffset = s.lastErrOffset
	p.bailing = s.bailing
	p.shellText = p.shellText[:s.shellText]
}
