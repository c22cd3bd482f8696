package parser

import (
	"unicode/utf8"

	"github.com/shibukawa/radlang/ast"
	"github.com/shibukawa/radlang/diag"
	tok "github.com/shibukawa/radlang/tokenizer"
)

var argTypeNames = map[string]bool{
	"string": true,
	"int":    true,
	"float":  true,
	"bool":   true,
}

// Words that turn an args line into a constraint.
var constraintWords = map[string]bool{
	"enum":     true,
	"regex":    true,
	"range":    true,
	"requires": true,
	"excludes": true,
	"mutually": true,
}

func (p *parser) parseArgBlock() *ast.ArgBlock {
	start := p.next().Span.Start
	block := &ast.ArgBlock{}
	block.Stmts, _ = parseBlock(p, p.parseArgStmt)
	block.Loc = p.spanFrom(start)

	return block
}

func (p *parser) parseArgStmt() ast.ArgStmt {
	if next := p.peek(1); next.Type == tok.IDENTIFIER && constraintWords[next.Value] {
		return p.parseArgConstraint()
	}

	return p.parseArgDecl()
}

func (p *parser) endArgStmt(stmt ast.ArgStmt, start diag.Position, mark int) ast.ArgStmt {
	if !p.lineClean(mark) {
		stmt = p.bad(start)
	}

	p.endLine()

	return stmt
}

// parseArgDecl parses name ["rename"] [x] type [= default] [# comment].
func (p *parser) parseArgDecl() ast.ArgStmt {
	start := p.cur().Span.Start
	mark := p.reporter.Len()

	decl := &ast.ArgDecl{Name: p.parseIdentifier("argument name")}
	if decl.Name == nil {
		return p.endArgStmt(p.bad(start), start, mark)
	}

	if p.at(tok.STRING_START) {
		decl.Rename = p.parseString()
	}

	if t := p.cur(); t.Type == tok.IDENTIFIER && utf8.RuneCountInString(t.Value) == 1 {
		p.next()
		decl.Shorthand = &ast.Identifier{Base: ast.At(t.Span), Name: t.Value}
	}

	decl.Type = p.parseArgType()
	if decl.Type == nil {
		return p.endArgStmt(p.bad(start), start, mark)
	}

	if p.at(tok.ASSIGN) {
		p.next()
		decl.Default = p.parseArgDefault(decl.Type)
	}

	if p.at(tok.ARG_COMMENT) {
		t := p.next()
		decl.Comment = &ast.ArgComment{Base: ast.At(t.Span), Text: t.Value}
	}

	decl.Loc = p.spanFrom(start)

	return p.endArgStmt(decl, start, mark)
}

func (p *parser) parseArgType() *ast.ArgType {
	t := p.cur()
	if t.Type != tok.IDENTIFIER || !argTypeNames[t.Value] {
		p.unexpected("argument type (string, int, float or bool)")
		return nil
	}

	p.next()

	typ := &ast.ArgType{Name: t.Value}
	if p.at(tok.OPENED_BRACKET) && p.peek(1).Type == tok.CLOSED_BRACKET {
		p.next()
		p.next()

		typ.List = true
	}

	typ.Loc = p.spanFrom(t.Span.Start)

	return typ
}

// parseArgDefault parses a default that must be a literal of exactly the
// declared type. A leading minus is folded into numeric literals.
func (p *parser) parseArgDefault(typ *ast.ArgType) ast.Expr {
	start := p.cur()

	if typ.List {
		if list, ok := p.parseArgList(typ.Name, ErrDefaultMismatch); ok {
			return list
		}
	} else if x, ok := p.parseArgLiteral(typ.Name); ok {
		return x
	}

	p.errorf(start.Span, ErrDefaultMismatch, "expected %s default, found %s", typ, describe(start))
	p.parseUnary()

	return p.bad(start.Span.Start)
}

// parseArgLiteral parses one literal of the named scalar type. Nothing is
// consumed when the next token does not fit.
func (p *parser) parseArgLiteral(typ string) (ast.Expr, bool) {
	negative := p.at(tok.MINUS)
	next := p.cur().Type

	if negative {
		next = p.peek(1).Type
	}

	switch {
	case typ == "string" && p.at(tok.STRING_START):
		return p.parseString(), true
	case typ == "bool" && p.at(tok.TRUE, tok.FALSE):
		t := p.next()
		return &ast.BoolLit{Base: ast.At(t.Span), Value: t.Type == tok.TRUE}, true
	case typ == "int" && next == tok.INT:
		if negative {
			p.next()
		}

		return p.parseInt(negative), true
	case typ == "float" && next == tok.FLOAT:
		if negative {
			p.next()
		}

		return p.parseFloat(negative), true
	}

	return nil, false
}

// parseArgList parses [literal, ...] with every element of type typ.
func (p *parser) parseArgList(typ string, sentinel error) (*ast.ListLit, bool) {
	if !p.at(tok.OPENED_BRACKET) {
		return nil, false
	}

	open := p.next()
	list := &ast.ListLit{}

	for !p.at(tok.CLOSED_BRACKET) && !p.atLineEnd() {
		x, ok := p.parseArgLiteral(typ)
		if !ok {
			p.errorf(p.cur().Span, sentinel, "expected %s element, found %s", typ, describe(p.cur()))
			p.skipTo(tok.CLOSED_BRACKET)

			break
		}

		list.Elems = append(list.Elems, x)

		if !p.at(tok.COMMA) {
			break
		}

		p.next()
	}

	p.expectCloser(tok.CLOSED_BRACKET, "',' or ']'")
	list.Loc = p.spanFrom(open.Span.Start)

	return list, true
}

// parseArgConstraint parses name [mutually] keyword ... for the enum,
// regex, range, requires and excludes constraints.
func (p *parser) parseArgConstraint() ast.ArgStmt {
	start := p.cur().Span.Start
	mark := p.reporter.Len()
	arg := p.parseIdentifier("argument name")
	if arg == nil {
		return p.endArgStmt(p.bad(start), start, mark)
	}

	mutual := p.cur().Is("mutually")
	if mutual {
		p.next()
	}

	kw := p.cur()
	if kw.Type != tok.IDENTIFIER || !constraintWords[kw.Value] || kw.Value == "mutually" {
		p.unexpected("constraint")
		return p.endArgStmt(p.bad(start), start, mark)
	}

	p.next()

	if p.cur().Is("mutually") {
		mutual = true
		p.next()
	}

	if mutual && kw.Value != "requires" && kw.Value != "excludes" {
		p.errorf(kw.Span, ErrInvalidConstraint, "mutually applies only to requires and excludes")
	}

	var stmt ast.ArgStmt

	switch kw.Value {
	case "enum":
		list, ok := p.parseArgList("string", ErrInvalidConstraint)
		if !ok {
			p.unexpected("list of strings")
			return p.endArgStmt(p.bad(start), start, mark)
		}

		stmt = &ast.ArgEnumConstraint{Base: ast.At(p.spanFrom(start)), Arg: arg, Values: list}
	case "regex":
		if !p.at(tok.STRING_START) {
			p.unexpected("regex string")
			return p.endArgStmt(p.bad(start), start, mark)
		}

		pattern := p.parseString()
		stmt = &ast.ArgRegexConstraint{Base: ast.At(p.spanFrom(start)), Arg: arg, Pattern: pattern}
	case "range":
		stmt = p.parseArgRange(arg, start)
	case "requires":
		targets := p.parseIdentList("argument name")
		stmt = &ast.ArgRequiresConstraint{Base: ast.At(p.spanFrom(start)), Arg: arg, Mutual: mutual, Targets: targets}
	case "excludes":
		targets := p.parseIdentList("argument name")
		stmt = &ast.ArgExcludesConstraint{Base: ast.At(p.spanFrom(start)), Arg: arg, Mutual: mutual, Targets: targets}
	}

	return p.endArgStmt(stmt, start, mark)
}

// parseArgRange parses [min, max] where '[' and ']' are inclusive ends,
// '(' and ')' exclusive ones, and either bound may be left out.
func (p *parser) parseArgRange(arg *ast.Identifier, start diag.Position) ast.ArgStmt {
	c := &ast.ArgRangeConstraint{Arg: arg}

	switch {
	case p.at(tok.OPENED_BRACKET):
		c.MinInclusive = true
	case p.at(tok.OPENED_PARENS):
	default:
		p.unexpected("'[' or '('")
		return p.bad(start)
	}

	p.next()
	c.Min = p.parseRangeBound()

	if _, ok := p.expect(tok.COMMA, "','"); !ok {
		return p.bad(start)
	}

	c.Max = p.parseRangeBound()

	switch {
	case p.at(tok.CLOSED_BRACKET):
		c.MaxInclusive = true
	case p.at(tok.CLOSED_PARENS):
	default:
		p.unexpected("']' or ')'")
		return p.bad(start)
	}

	p.next()
	c.Loc = p.spanFrom(start)

	if c.Min == nil && c.Max == nil {
		p.errorf(c.Loc, ErrInvalidConstraint, "range needs at least one bound")
	}

	return c
}

func (p *parser) parseRangeBound() ast.Expr {
	negative := p.at(tok.MINUS)
	next := p.cur().Type

	if negative {
		next = p.peek(1).Type
	}

	switch next {
	case tok.INT:
		if negative {
			p.next()
		}

		return p.parseInt(negative)
	case tok.FLOAT:
		if negative {
			p.next()
		}

		return p.parseFloat(negative)
	}

	return nil
}
