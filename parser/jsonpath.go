package parser

import (
	"github.com/shibukawa/radlang/ast"
	tok "github.com/shibukawa/radlang/tokenizer"
)

// tryJSONPath parses json[.segment]* as the whole right-hand side of an
// assignment. When the line is not a clean path it returns nil and leaves
// the cursor where it was.
func (p *parser) tryJSONPath() *ast.JSONPath {
	saved := p.save()

	if path := p.parseJSONPath(); path != nil && p.reporter.Len() == saved.diags && p.atLineEnd() {
		return path
	}

	p.restore(saved)

	return nil
}

func (p *parser) parseJSONPath() *ast.JSONPath {
	start := p.cur().Span.Start
	path := &ast.JSONPath{}

	for {
		seg := p.parseJSONPathSegment()
		if seg == nil {
			return nil
		}

		path.Segments = append(path.Segments, seg)

		if !p.at(tok.DOT) {
			break
		}

		p.next()
	}

	path.Loc = p.spanFrom(start)

	return path
}

// parseJSONPathSegment parses a key or * followed by [], [*] or [n]
// indexers. Keywords are valid keys.
func (p *parser) parseJSONPathSegment() *ast.JSONPathSegment {
	t := p.cur()
	seg := &ast.JSONPathSegment{Name: t.Value}

	switch {
	case t.Type == tok.MULTIPLY, t.Type == tok.IDENTIFIER, t.Type.IsKeyword():
		p.next()
	default:
		return nil
	}

	for p.at(tok.OPENED_BRACKET) {
		open := p.next()
		idx := &ast.JSONPathIndexer{}

		switch {
		case p.at(tok.MULTIPLY):
			p.next()
			idx.Wildcard = true
		case p.at(tok.INT):
			idx.Index = p.parseInt(false)
		case p.at(tok.MINUS) && p.peek(1).Type == tok.INT:
			p.next()
			idx.Index = p.parseInt(true)
		}

		if !p.at(tok.CLOSED_BRACKET) {
			return nil
		}

		p.next()
		idx.Loc = p.spanFrom(open.Span.Start)
		seg.Indexers = append(seg.Indexers, idx)
	}

	seg.Loc = p.spanFrom(t.Span.Start)

	return seg
}
