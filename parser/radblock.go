package parser

import (
	"github.com/shibukawa/radlang/ast"
	"github.com/shibukawa/radlang/diag"
	tok "github.com/shibukawa/radlang/tokenizer"
)

var radBlockTypes = map[tok.TokenType]ast.RadBlockType{
	tok.RAD:     ast.RadBlockRad,
	tok.REQUEST: ast.RadBlockRequest,
	tok.DISPLAY: ast.RadBlockDisplay,
}

// parseRadBlock parses rad expr:, request expr: or display: and its rad
// statements.
func (p *parser) parseRadBlock() ast.Stmt {
	kw := p.next()
	block := &ast.RadBlock{Type: radBlockTypes[kw.Type]}

	if block.Type != ast.RadBlockDisplay {
		if p.at(tok.COLON) {
			p.unexpected(block.Type.String() + " source")
		} else {
			block.Source = p.parseExpression()
		}
	}

	block.Stmts, _ = parseBlock(p, p.parseRadStmt)
	block.Loc = p.spanFrom(kw.Span.Start)

	return block
}

func (p *parser) endRadStmt(stmt ast.RadStmt, start diag.Position, mark int) ast.RadStmt {
	if !p.lineClean(mark) {
		stmt = p.bad(start)
	}

	p.endLine()

	return stmt
}

func (p *parser) parseRadStmt() ast.RadStmt {
	start := p.cur().Span.Start
	mark := p.reporter.Len()
	next := p.peek(1).Type

	switch {
	case p.at(tok.IF):
		return p.parseRadIf()
	case p.cur().Is("fields") && next == tok.IDENTIFIER:
		p.next()

		fields := &ast.RadFields{Names: p.parseIdentList("field name")}
		fields.Loc = p.spanFrom(start)

		return p.endRadStmt(fields, start, mark)
	case p.cur().Is("sort") && next != tok.COMMA && next != tok.COLON:
		return p.parseRadSort()
	case p.at(tok.IDENTIFIER):
		return p.parseRadFieldModifier()
	}

	p.unexpected("fields, sort, if or a field modifier")

	return p.endRadStmt(p.bad(start), start, mark)
}

func isDirection(t tok.Token) bool {
	return t.Is("asc") || t.Is("desc")
}

// parseRadSort parses sort [field [asc|desc]], ... A bare sort asc or sort
// desc sets the direction for all columns.
func (p *parser) parseRadSort() ast.RadStmt {
	start := p.next().Span.Start
	mark := p.reporter.Len()
	sort := &ast.RadSort{}

	switch next := p.peek(1).Type; {
	case isDirection(p.cur()) && (next == tok.NEWLINE || next == tok.DEDENT || next == tok.EOF):
		sort.Direction = p.next().Value
	default:
		for p.at(tok.IDENTIFIER) {
			field := p.parseIdentifier("field name")
			spec := &ast.RadSortSpec{Field: field}

			if isDirection(p.cur()) {
				spec.Direction = p.next().Value
			}

			spec.Loc = p.spanFrom(field.Span().Start)
			sort.Specs = append(sort.Specs, spec)

			if !p.at(tok.COMMA) {
				break
			}

			p.next()
		}
	}

	sort.Loc = p.spanFrom(start)

	return p.endRadStmt(sort, start, mark)
}

// parseRadFieldModifier parses a, b: followed by a block of color and map
// modifiers.
func (p *parser) parseRadFieldModifier() ast.RadStmt {
	start := p.cur().Span.Start
	mod := &ast.RadFieldModifier{Targets: p.parseIdentList("field name")}
	mod.Mods, _ = parseBlock(p, p.parseFieldMod)
	mod.Loc = p.spanFrom(start)

	return mod
}

func (p *parser) parseFieldMod() ast.FieldMod {
	start := p.cur().Span.Start
	mark := p.reporter.Len()

	var mod ast.FieldMod

	switch {
	case p.cur().Is("color"):
		p.next()

		color := &ast.RadColor{Color: p.parseExpression()}
		color.Pattern = p.parseExpression()
		color.Loc = p.spanFrom(start)
		mod = color
	case p.cur().Is("map"):
		p.next()

		lambda := p.parseLambda()
		if lambda == nil {
			mod = p.bad(start)
			break
		}

		mod = &ast.RadMap{Base: ast.At(p.spanFrom(start)), Lambda: lambda}
	default:
		p.unexpected("color or map")
		mod = p.bad(start)
	}

	if !p.lineClean(mark) {
		mod = p.bad(start)
	}

	p.endLine()

	return mod
}

func (p *parser) parseRadIf() ast.RadStmt {
	start := p.cur().Span.Start
	stmt := &ast.RadIf{}
	branchStart := start

	for {
		p.next() // if

		branch := &ast.RadIfBranch{Cond: p.parseExpression()}
		branch.Stmts, _ = parseBlock(p, p.parseRadStmt)
		branch.Loc = p.spanFrom(branchStart)
		stmt.Branches = append(stmt.Branches, branch)

		if !p.at(tok.ELSE) {
			break
		}

		branchStart = p.next().Span.Start

		if !p.at(tok.IF) {
			stmt.Else, _ = parseBlock(p, p.parseRadStmt)
			break
		}
	}

	stmt.Loc = p.spanFrom(start)

	return stmt
}
