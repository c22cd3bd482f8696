package parser

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shibukawa/radlang/ast"
	"github.com/shibukawa/radlang/diag"
	tok "github.com/shibukawa/radlang/tokenizer"
)

// parseString parses STRING_START part* STRING_END. Adjacent content runs
// are merged into one StringContent.
func (p *parser) parseString() *ast.StringLit {
	open := p.next()
	lit := &ast.StringLit{
		Quote: strings.TrimPrefix(open.Value, "r"),
		Raw:   strings.HasPrefix(open.Value, "r"),
	}

	for !p.at(tok.STRING_END, tok.EOF) {
		t := p.cur()

		switch t.Type {
		case tok.STRING_CONTENT:
			p.next()

			if n := len(lit.Parts); n > 0 {
				if prev, ok := lit.Parts[n-1].(*ast.StringContent); ok {
					prev.Text += t.Value
					prev.Loc = diag.Join(prev.Loc, t.Span)

					continue
				}
			}

			lit.Parts = append(lit.Parts, &ast.StringContent{Base: ast.At(t.Span), Text: t.Value})
		case tok.ESCAPE:
			p.next()
			lit.Parts = append(lit.Parts, &ast.Escape{Base: ast.At(t.Span), Seq: t.Value})
		case tok.INTERP_START:
			lit.Parts = append(lit.Parts, p.parseInterpolation())
		default:
			// the tokenizer always closes a string; anything else is a bug upstream
			p.unexpected("string content")
			p.next()
		}
	}

	if p.at(tok.STRING_END) {
		p.next()
	}

	lit.Loc = p.spanFrom(open.Span.Start)

	return lit
}

func (p *parser) parseInterpolation() *ast.Interpolation {
	open := p.next()
	interp := &ast.Interpolation{}

	if p.at(tok.INTERP_END) {
		p.errorf(p.cur().Span, ErrMissingElement, "empty interpolation")
	} else {
		interp.X = p.parseExpression()
	}

	if p.at(tok.COLON) {
		interp.Format = p.parseFormatSpec()
	}

	if p.at(tok.INTERP_END) {
		p.next()
	} else {
		p.unexpected("'}' closing interpolation")

		for !p.at(tok.INTERP_END, tok.STRING_END, tok.NEWLINE, tok.EOF) {
			p.next()
		}

		if p.at(tok.INTERP_END) {
			p.next()
		}
	}

	interp.Loc = p.spanFrom(open.Span.Start)

	return interp
}

// parseFormatSpec parses ':' [<|>] [padding] ['.' precision]. The tokenizer
// reads 10.2 as one float, which is split back into its two integers here.
func (p *parser) parseFormatSpec() *ast.FormatSpec {
	colon := p.next()
	spec := &ast.FormatSpec{}

	if p.at(tok.LESS_THAN, tok.GREATER_THAN) {
		spec.Align = p.next().Value
	}

	switch {
	case p.at(tok.INT):
		spec.Padding = p.parseInt(false)
	case p.at(tok.FLOAT):
		t := p.next()
		whole, frac, _ := strings.Cut(t.Value, ".")
		split := t.Span.Start
		split.Offset += len(whole)
		split.Column += len(whole)

		spec.Padding = p.intFrom(whole, diag.Span{Start: t.Span.Start, End: split})

		fracStart := split
		fracStart.Offset++
		fracStart.Column++
		spec.Precision = p.intFrom(frac, diag.Span{Start: fracStart, End: t.Span.End})
	}

	if spec.Precision == nil && p.at(tok.DOT) {
		p.next()

		if p.at(tok.INT) {
			spec.Precision = p.parseInt(false)
		} else {
			p.unexpected("precision")
		}
	}

	spec.Loc = p.spanFrom(colon.Span.Start)

	return spec
}

// parseInt consumes an INT token. When negative is set the previous token
// was a folded minus sign.
func (p *parser) parseInt(negative bool) *ast.IntLit {
	t := p.next()
	raw := t.Value
	span := t.Span

	if negative {
		raw = "-" + raw
		span.Start = p.signStart(span.Start)
	}

	return p.intFrom(raw, span)
}

func (p *parser) intFrom(raw string, span diag.Span) *ast.IntLit {
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.reporter.Reportf(diag.LexicalError, span, ErrInvalidNumber, "%s is out of range", raw)
	}

	return &ast.IntLit{Base: ast.At(span), Value: value, Raw: raw}
}

func (p *parser) parseFloat(negative bool) *ast.FloatLit {
	t := p.next()
	raw := t.Value
	span := t.Span

	if negative {
		raw = "-" + raw
		span.Start = p.signStart(span.Start)
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		p.reporter.Reportf(diag.LexicalError, span, ErrInvalidNumber, "%s", raw)
	}

	return &ast.FloatLit{Base: ast.At(span), Value: value, Raw: raw}
}

// signStart returns the start of the minus token just before the number.
func (p *parser) signStart(fallback diag.Position) diag.Position {
	if p.pos >= 2 {
		if sign := p.tokens[p.pos-2]; sign.Type == tok.MINUS {
			return sign.Span.Start
		}
	}

	return fallback
}
