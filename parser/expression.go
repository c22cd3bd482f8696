package parser

import (
	"github.com/shibukawa/radlang/ast"
	"github.com/shibukawa/radlang/diag"
	tok "github.com/shibukawa/radlang/tokenizer"
)

// parseExpression parses a full expression, ternary included.
func (p *parser) parseExpression() ast.Expr {
	if !p.enter() {
		p.leave()
		start := p.cur()
		p.bail()

		return p.badAt(start)
	}
	defer p.leave()

	return p.parseTernary()
}

func (p *parser) parseExpressionList() []ast.Expr {
	exprs := []ast.Expr{p.parseExpression()}
	for p.at(tok.COMMA) {
		p.next()
		exprs = append(exprs, p.parseExpression())
	}

	return exprs
}

func (p *parser) parseTernary() ast.Expr {
	cond := p.parseOr()
	if !p.at(tok.QUESTION) {
		return cond
	}

	p.next()
	then := p.parseExpression()
	p.expect(tok.COLON, "':' in ternary expression")
	els := p.parseExpression()

	return &ast.Ternary{Base: ast.At(p.spanFrom(cond.Span().Start)), Cond: cond, Then: then, Else: els}
}

func (p *parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.at(tok.OR) {
		p.next()
		right := p.parseAnd()
		left = &ast.BoolOp{Base: ast.At(p.spanFrom(left.Span().Start)), Op: "or", Left: left, Right: right}
	}

	return left
}

func (p *parser) parseAnd() ast.Expr {
	left := p.parseComparison()
	for p.at(tok.AND) {
		p.next()
		right := p.parseComparison()
		left = &ast.BoolOp{Base: ast.At(p.spanFrom(left.Span().Start)), Op: "and", Left: left, Right: right}
	}

	return left
}

// comparisonOp returns the operator at the cursor and how many tokens it spans.
func (p *parser) comparisonOp() (string, int) {
	switch p.cur().Type {
	case tok.LESS_THAN, tok.LESS_EQUAL, tok.GREATER_THAN, tok.GREATER_EQUAL, tok.EQUAL, tok.NOT_EQUAL, tok.IN:
		return p.cur().Value, 1
	case tok.NOT:
		if p.peek(1).Type == tok.IN {
			return "not in", 2
		}
	}

	return "", 0
}

// parseComparison keeps chained comparisons flat and left-associative:
// a < b < c is (a < b) < c.
func (p *parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for {
		op, n := p.comparisonOp()
		if n == 0 {
			return left
		}

		for range n {
			p.next()
		}

		right := p.parseAdditive()
		left = &ast.Comparison{Base: ast.At(p.spanFrom(left.Span().Start)), Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.at(tok.PLUS, tok.MINUS) {
		op := p.next()
		right := p.parseMultiplicative()
		left = &ast.BinaryOp{Base: ast.At(p.spanFrom(left.Span().Start)), Op: op.Value, Left: left, Right: right}
	}

	return left
}

func (p *parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.at(tok.MULTIPLY, tok.DIVIDE, tok.MODULO) {
		op := p.next()
		right := p.parseUnary()
		left = &ast.BinaryOp{Base: ast.At(p.spanFrom(left.Span().Start)), Op: op.Value, Left: left, Right: right}
	}

	return left
}

func (p *parser) parseUnary() ast.Expr {
	if !p.at(tok.PLUS, tok.MINUS, tok.NOT) {
		return p.parsePostfix()
	}

	if !p.enter() {
		p.leave()
		start := p.cur()
		p.bail()

		return p.badAt(start)
	}
	defer p.leave()

	op := p.next()
	x := p.parseUnary()
	span := ast.At(p.spanFrom(op.Span.Start))

	if op.Type == tok.NOT {
		return &ast.NotOp{Base: span, X: x}
	}

	return &ast.UnaryOp{Base: span, Op: op.Value, X: x}
}

func (p *parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.cur().Type {
		case tok.OPENED_BRACKET:
			x = p.parseIndexOrSlice(x)
		case tok.DOT:
			p.next()

			name := p.parseIdentifier("field name")
			if name == nil {
				return x
			}

			if p.at(tok.OPENED_PARENS) {
				args, named := p.parseCallArgs()
				x = &ast.MethodCall{Base: ast.At(p.spanFrom(x.Span().Start)), X: x, Method: name, Args: args, Named: named}
			} else {
				x = &ast.FieldAccess{Base: ast.At(p.spanFrom(x.Span().Start)), X: x, Name: name}
			}
		default:
			return x
		}
	}
}

func (p *parser) parseIndexOrSlice(x ast.Expr) ast.Expr {
	p.next()

	var start ast.Expr
	if !p.at(tok.COLON) {
		start = p.parseExpression()
	}

	if !p.at(tok.COLON) {
		p.expectCloser(tok.CLOSED_BRACKET, "']'")
		return &ast.IndexExpr{Base: ast.At(p.spanFrom(x.Span().Start)), X: x, Index: start}
	}

	p.next()

	var end ast.Expr
	if !p.at(tok.CLOSED_BRACKET) {
		end = p.parseExpression()
	}

	p.expectCloser(tok.CLOSED_BRACKET, "']'")

	return &ast.SliceExpr{Base: ast.At(p.spanFrom(x.Span().Start)), X: x, Start: start, End: end}
}

func (p *parser) parsePrimary() ast.Expr {
	t := p.cur()

	switch t.Type {
	case tok.IDENTIFIER:
		id := p.parseIdentifier("identifier")
		if p.at(tok.OPENED_PARENS) {
			args, named := p.parseCallArgs()
			return &ast.Call{Base: ast.At(p.spanFrom(t.Span.Start)), Func: id, Args: args, Named: named}
		}

		return id
	case tok.INT:
		return p.parseInt(false)
	case tok.FLOAT:
		return p.parseFloat(false)
	case tok.TRUE, tok.FALSE:
		p.next()
		return &ast.BoolLit{Base: ast.At(t.Span), Value: t.Type == tok.TRUE}
	case tok.STRING_START:
		return p.parseString()
	case tok.OPENED_BRACKET:
		return p.parseListOrComprehension()
	case tok.OPENED_BRACE:
		return p.parseMap()
	case tok.OPENED_PARENS:
		p.next()
		x := p.parseExpression()
		p.expectCloser(tok.CLOSED_PARENS, "')'")

		return &ast.ParenExpr{Base: ast.At(p.spanFrom(t.Span.Start)), X: x}
	}

	p.unexpected("expression")

	return p.badAt(t)
}

func (p *parser) parseIdentifier(what string) *ast.Identifier {
	if !p.at(tok.IDENTIFIER) {
		p.unexpected(what)
		return nil
	}

	t := p.next()

	return &ast.Identifier{Base: ast.At(t.Span), Name: t.Value}
}

func (p *parser) parseIdentList(what string) []*ast.Identifier {
	var ids []*ast.Identifier
	for {
		id := p.parseIdentifier(what)
		if id == nil {
			return ids
		}

		ids = append(ids, id)

		if !p.at(tok.COMMA) {
			return ids
		}

		p.next()
	}
}

// parseCallArgs parses '(' positional..., name=value... ')'.
func (p *parser) parseCallArgs() ([]ast.Expr, []*ast.NamedArg) {
	p.next()

	var (
		args  []ast.Expr
		named []*ast.NamedArg
	)

	for !p.at(tok.CLOSED_PARENS) && !p.atLineEnd() {
		if p.at(tok.IDENTIFIER) && p.peek(1).Type == tok.ASSIGN {
			name := p.parseIdentifier("argument name")
			p.next()
			value := p.parseExpression()
			named = append(named, &ast.NamedArg{Base: ast.At(p.spanFrom(name.Span().Start)), Name: name, Value: value})
		} else {
			arg := p.parseExpression()
			if len(named) > 0 {
				p.errorf(arg.Span(), ErrArgumentOrder, "move it before the named arguments")
			}

			args = append(args, arg)
		}

		if !p.at(tok.COMMA) {
			break
		}

		p.next()
	}

	p.expectCloser(tok.CLOSED_PARENS, "',' or ')'")

	return args, named
}

func (p *parser) parseListOrComprehension() ast.Expr {
	open := p.next()

	if p.at(tok.CLOSED_BRACKET) {
		p.next()
		return &ast.ListLit{Base: ast.At(p.spanFrom(open.Span.Start))}
	}

	first := p.parseExpression()

	if p.at(tok.FOR) {
		p.next()

		comp := &ast.ListComprehension{Elem: first}
		comp.Vars = p.parseIdentList("loop variable")
		p.expect(tok.IN, "'in'")
		comp.Iter = p.parseExpression()

		if p.at(tok.IF) {
			p.next()
			comp.Cond = p.parseExpression()
		}

		p.expectCloser(tok.CLOSED_BRACKET, "']'")
		comp.Loc = p.spanFrom(open.Span.Start)

		return comp
	}

	list := &ast.ListLit{Elems: []ast.Expr{first}}
	for p.at(tok.COMMA) {
		p.next()

		if p.at(tok.CLOSED_BRACKET) {
			break
		}

		list.Elems = append(list.Elems, p.parseExpression())
	}

	p.expectCloser(tok.CLOSED_BRACKET, "',' or ']'")
	list.Loc = p.spanFrom(open.Span.Start)

	return list
}

func (p *parser) parseMap() ast.Expr {
	open := p.next()
	m := &ast.MapLit{}

	for !p.at(tok.CLOSED_BRACE) && !p.atLineEnd() {
		key := p.parseExpression()
		p.expect(tok.COLON, "':' after map key")
		value := p.parseExpression()
		m.Entries = append(m.Entries, &ast.MapEntry{Base: ast.At(p.spanFrom(key.Span().Start)), Key: key, Value: value})

		if !p.at(tok.COMMA) {
			break
		}

		p.next()
	}

	p.expectCloser(tok.CLOSED_BRACE, "',' or '}'")
	m.Loc = p.spanFrom(open.Span.Start)

	return m
}

// parseLambda parses param -> body. It returns nil when there is no lambda.
func (p *parser) parseLambda() *ast.Lambda {
	start := p.cur().Span.Start

	param := p.parseIdentifier("lambda parameter")
	if param == nil {
		return nil
	}

	if _, ok := p.expect(tok.ARROW, "'->'"); !ok {
		return nil
	}

	body := p.parseExpression()

	return &ast.Lambda{Base: ast.At(p.spanFrom(start)), Param: param, Body: body}
}

// isVarPath reports whether e is an identifier optionally followed by
// index, slice or field segments.
func isVarPath(e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.Identifier:
		return true
	case *ast.IndexExpr:
		return isVarPath(x.X)
	case *ast.SliceExpr:
		return isVarPath(x.X)
	case *ast.FieldAccess:
		return isVarPath(x.X)
	}

	return false
}

func (p *parser) checkTargets(targets []ast.Expr) {
	for _, target := range targets {
		if _, bad := target.(*ast.Bad); bad {
			continue
		}

		if !isVarPath(target) {
			p.errorf(target.Span(), ErrInvalidTarget, "only variables, indexes and fields can be assigned")
		}
	}
}

func spanOf(nodes []ast.Expr) diag.Span {
	span := nodes[0].Span()
	for _, n := range nodes[1:] {
		span = diag.Join(span, n.Span())
	}

	return span
}
