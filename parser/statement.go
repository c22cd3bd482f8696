package parser

import (
	"strings"

	"github.com/shibukawa/radlang/ast"
	"github.com/shibukawa/radlang/diag"
	tok "github.com/shibukawa/radlang/tokenizer"
)

func (p *parser) parseStatement() ast.Stmt {
	t := p.cur()

	switch t.Type {
	case tok.IF:
		return p.parseIf()
	case tok.FOR:
		return p.parseFor()
	case tok.WHILE:
		return p.parseWhile()
	case tok.SWITCH:
		return p.parseSwitch(nil, t.Span.Start)
	case tok.DEFER, tok.ERRDEFER:
		return p.parseDefer()
	case tok.RAD, tok.REQUEST, tok.DISPLAY:
		return p.parseRadBlock()
	case tok.ARGS:
		if p.peek(1).Type == tok.COLON {
			p.reporter.Reportf(diag.StructuralWarning, t.Span, ErrMisplacedArgBlock, "move it to the top of the script")
			return p.parseArgBlock()
		}
	case tok.DEL:
		return p.parseDel()
	case tok.BREAK:
		mark := p.reporter.Len()
		p.next()

		return p.endStatement(&ast.BreakStmt{Base: ast.At(t.Span)}, t.Span.Start, mark)
	case tok.CONTINUE:
		mark := p.reporter.Len()
		p.next()

		return p.endStatement(&ast.ContinueStmt{Base: ast.At(t.Span)}, t.Span.Start, mark)
	case tok.YIELD:
		mark := p.reporter.Len()
		p.next()

		stmt := &ast.YieldStmt{Values: p.parseExpressionList()}
		stmt.Loc = p.spanFrom(t.Span.Start)

		return p.endStatement(stmt, t.Span.Start, mark)
	}

	return p.parseSimpleStatement()
}

// parseSimpleStatement parses expression statements, assignments and
// shell commands. The kind is known only after the leading expression list.
func (p *parser) parseSimpleStatement() ast.Stmt {
	start := p.cur().Span.Start
	mark := p.reporter.Len()

	if p.atShellCommand() {
		return p.parseShellCmd(nil, start, mark)
	}

	exprs := p.parseExpressionList()

	switch p.cur().Type {
	case tok.ASSIGN:
		p.checkTargets(exprs)
		p.next()

		return p.parseAssignValue(exprs, start, mark)
	case tok.PLUS_ASSIGN, tok.MINUS_ASSIGN, tok.MULTIPLY_ASSIGN, tok.DIVIDE_ASSIGN, tok.MODULO_ASSIGN:
		p.checkSingleTarget(exprs)
		op := p.next()

		stmt := &ast.CompoundAssign{Target: exprs[0], Op: strings.TrimSuffix(op.Value, "="), Value: p.parseExpression()}
		stmt.Loc = p.spanFrom(start)

		return p.endStatement(stmt, start, mark)
	case tok.INCREMENT, tok.DECREMENT:
		p.checkSingleTarget(exprs)
		op := p.next()

		stmt := &ast.IncrDecr{Base: ast.At(p.spanFrom(start)), Target: exprs[0], Op: op.Value}

		return p.endStatement(stmt, start, mark)
	}

	if len(exprs) > 1 {
		p.unexpected("'='")
	}

	stmt := &ast.ExprStmt{Base: ast.At(p.spanFrom(start)), X: exprs[0]}

	return p.endStatement(stmt, start, mark)
}

func (p *parser) checkSingleTarget(exprs []ast.Expr) {
	if len(exprs) > 1 {
		p.errorf(spanOf(exprs[1:]), ErrInvalidTarget, "%s takes a single target", p.cur().Value)
	}

	p.checkTargets(exprs[:1])
}

// parseAssignValue parses the right-hand side after '='.
func (p *parser) parseAssignValue(targets []ast.Expr, start diag.Position, mark int) ast.Stmt {
	switch {
	case p.atShellCommand():
		return p.parseShellCmd(targets, start, mark)
	case p.at(tok.SWITCH):
		return p.parseSwitch(targets, start)
	case p.cur().Is("json"):
		if path := p.tryJSONPath(); path != nil {
			stmt := &ast.Assign{Base: ast.At(p.spanFrom(start)), Targets: targets, JSONPath: path}
			return p.endStatement(stmt, start, mark)
		}
	}

	stmt := &ast.Assign{Targets: targets, Values: p.parseExpressionList()}
	stmt.Loc = p.spanFrom(start)

	return p.endStatement(stmt, start, mark)
}

func (p *parser) parseIf() ast.Stmt {
	start := p.cur().Span.Start
	stmt := &ast.IfStmt{}
	branchStart := start

	for {
		p.next() // if

		branch := &ast.IfBranch{Cond: p.parseExpression()}
		branch.Body = p.parseStmtBlock()
		branch.Loc = p.spanFrom(branchStart)
		stmt.Branches = append(stmt.Branches, branch)

		if !p.at(tok.ELSE) {
			break
		}

		branchStart = p.next().Span.Start

		if !p.at(tok.IF) {
			stmt.Else = p.parseStmtBlock()
			break
		}
	}

	stmt.Loc = p.spanFrom(start)

	return stmt
}

func (p *parser) parseFor() ast.Stmt {
	start := p.next().Span.Start
	loop := &ast.ForLoop{Vars: p.parseIdentList("loop variable")}

	if _, ok := p.expect(tok.IN, "'in'"); ok {
		loop.Iter = p.parseExpression()
	}

	loop.Body = p.parseStmtBlock()
	loop.Loc = p.spanFrom(start)

	return loop
}

func (p *parser) parseWhile() ast.Stmt {
	start := p.next().Span.Start
	loop := &ast.WhileLoop{}

	if !p.at(tok.COLON) {
		loop.Cond = p.parseExpression()
	}

	loop.Body = p.parseStmtBlock()
	loop.Loc = p.spanFrom(start)

	return loop
}

func (p *parser) parseSwitch(targets []ast.Expr, start diag.Position) ast.Stmt {
	p.next() // switch

	sw := &ast.SwitchStmt{Targets: targets, Discriminant: p.parseExpression()}

	clauses, _ := parseBlock(p, p.parseSwitchClause)
	for _, clause := range clauses {
		switch c := clause.(type) {
		case *ast.SwitchCase:
			sw.Cases = append(sw.Cases, c)
		case *ast.SwitchDefault:
			if sw.Default != nil {
				p.errorf(c.Span(), ErrDuplicateDefault, "first default is at %s", sw.Default.Span().Start)
				continue
			}

			sw.Default = c
		}
	}

	sw.Loc = p.spanFrom(start)

	return sw
}

// parseSwitchClause parses case keys -> values, case keys: block, or the
// same two shapes for default.
func (p *parser) parseSwitchClause() ast.Node {
	start := p.cur().Span.Start
	mark := p.reporter.Len()

	var keys []ast.Expr

	switch {
	case p.at(tok.CASE):
		p.next()
		keys = p.parseExpressionList()
	case p.at(tok.DEFAULT):
		p.next()
	default:
		p.unexpected("'case' or 'default'")
		p.skipLine()

		return p.bad(start)
	}

	var (
		values []ast.Expr
		body   *ast.Block
		span   ast.Base
	)

	if p.at(tok.ARROW) {
		p.next()
		values = p.parseExpressionList()
		span = ast.At(p.spanFrom(start))

		if !p.atLineEnd() && p.reporter.Len() == mark {
			p.unexpected("end of line")
		}

		p.skipLine()
	} else {
		body = p.parseStmtBlock()
		span = ast.At(p.spanFrom(start))
	}

	if keys == nil {
		return &ast.SwitchDefault{Base: span, Values: values, Body: body}
	}

	return &ast.SwitchCase{Base: span, Keys: keys, Values: values, Body: body}
}

// parseDefer parses defer/errdefer followed by a block or a single simple
// statement.
func (p *parser) parseDefer() ast.Stmt {
	kw := p.next()
	stmt := &ast.DeferBlock{Errdefer: kw.Type == tok.ERRDEFER}

	if p.at(tok.COLON) {
		stmt.Body = p.parseStmtBlock()
	} else {
		switch p.cur().Type {
		case tok.IF, tok.FOR, tok.WHILE, tok.SWITCH, tok.DEFER, tok.ERRDEFER, tok.RAD, tok.REQUEST, tok.DISPLAY, tok.ARGS:
			p.unexpected("simple statement or ':'")
		}

		stmt.Stmt = p.parseStatement()
	}

	stmt.Loc = p.spanFrom(kw.Span.Start)

	return stmt
}

func (p *parser) parseDel() ast.Stmt {
	start := p.next().Span.Start
	mark := p.reporter.Len()
	stmt := &ast.DelStmt{}

	for {
		target := p.parsePostfix()
		p.checkTargets([]ast.Expr{target})
		stmt.Targets = append(stmt.Targets, target)

		if !p.at(tok.COMMA) {
			break
		}

		p.next()

		if p.atLineEnd() {
			break
		}
	}

	stmt.Loc = p.spanFrom(start)

	return p.endStatement(stmt, start, mark)
}
