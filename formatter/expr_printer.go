package formatter

import (
	"strconv"
	"strings"

	"github.com/shibukawa/radlang/ast"
)

// Binding strength of each expression level, loosest first.
const (
	precTernary = iota + 1
	precOr
	precAnd
	precComparison
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

func precedence(x ast.Expr) int {
	switch x := x.(type) {
	case *ast.Ternary:
		return precTernary
	case *ast.BoolOp:
		if x.Op == "or" {
			return precOr
		}

		return precAnd
	case *ast.Comparison:
		return precComparison
	case *ast.BinaryOp:
		switch x.Op {
		case "+", "-":
			return precAdditive
		}

		return precMultiplicative
	case *ast.UnaryOp, *ast.NotOp:
		return precUnary
	case *ast.IntLit:
		if strings.HasPrefix(x.Raw, "-") {
			return precUnary
		}
	case *ast.FloatLit:
		if strings.HasPrefix(x.Raw, "-") {
			return precUnary
		}
	}

	return precPostfix
}

// operand prints x, adding parentheses when it binds looser than min.
// Parsed trees keep their parentheses as ParenExpr, so this only matters
// for trees built by hand.
func (p *printer) operand(x ast.Expr, min int) string {
	s := p.expr(x)
	if precedence(x) < min {
		return "(" + s + ")"
	}

	return s
}

func (p *printer) optExpr(x ast.Expr) string {
	if x == nil {
		return ""
	}

	return p.expr(x)
}

func (p *printer) exprs(xs []ast.Expr) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = p.expr(x)
	}

	return strings.Join(parts, ", ")
}

func (p *printer) expr(x ast.Expr) string {
	switch x := x.(type) {
	case *ast.Identifier:
		return x.Name
	case *ast.IntLit:
		if x.Raw != "" {
			return x.Raw
		}

		return strconv.FormatInt(x.Value, 10)
	case *ast.FloatLit:
		if x.Raw != "" {
			return x.Raw
		}

		return x.Value.String()
	case *ast.BoolLit:
		return strconv.FormatBool(x.Value)
	case *ast.StringLit:
		return p.stringLit(x)
	case *ast.ListLit:
		return "[" + p.exprs(x.Elems) + "]"
	case *ast.MapLit:
		entries := make([]string, len(x.Entries))
		for i, e := range x.Entries {
			entries[i] = p.expr(e.Key) + ": " + p.expr(e.Value)
		}

		return "{" + strings.Join(entries, ", ") + "}"
	case *ast.ListComprehension:
		s := "[" + p.expr(x.Elem) + " for " + idents(x.Vars) + " in " + p.expr(x.Iter)
		if x.Cond != nil {
			s += " if " + p.expr(x.Cond)
		}

		return s + "]"
	case *ast.ParenExpr:
		return "(" + p.expr(x.X) + ")"
	case *ast.UnaryOp:
		operand := p.operand(x.X, precUnary)
		if strings.HasPrefix(operand, "-") || strings.HasPrefix(operand, "+") {
			// keep - -a apart so it does not read as --
			return x.Op + " " + operand
		}

		return x.Op + operand
	case *ast.NotOp:
		return "not " + p.operand(x.X, precUnary)
	case *ast.BinaryOp:
		return p.binary(x.Op, x.Left, x.Right, precedence(x))
	case *ast.Comparison:
		return p.binary(x.Op, x.Left, x.Right, precComparison)
	case *ast.BoolOp:
		return p.binary(x.Op, x.Left, x.Right, precedence(x))
	case *ast.Ternary:
		return p.operand(x.Cond, precOr) + " ? " + p.expr(x.Then) + " : " + p.expr(x.Else)
	case *ast.Call:
		return x.Func.Name + "(" + p.args(x.Args, x.Named) + ")"
	case *ast.MethodCall:
		return p.operand(x.X, precPostfix) + "." + x.Method.Name + "(" + p.args(x.Args, x.Named) + ")"
	case *ast.IndexExpr:
		return p.operand(x.X, precPostfix) + "[" + p.expr(x.Index) + "]"
	case *ast.SliceExpr:
		return p.operand(x.X, precPostfix) + "[" + p.optExpr(x.Start) + ":" + p.optExpr(x.End) + "]"
	case *ast.FieldAccess:
		return p.operand(x.X, precPostfix) + "." + x.Name.Name
	case *ast.Lambda:
		return x.Param.Name + " -> " + p.expr(x.Body)
	case *ast.ShellText:
		return x.Text
	case nil:
		if p.err == nil {
			p.err = ErrUnprintable
		}

		return ""
	}

	p.fail(x, "unexpected "+x.Kind().String())

	return ""
}

// binary prints a left-associative operator: the right operand needs
// parentheses at equal strength.
func (p *printer) binary(op string, left, right ast.Expr, prec int) string {
	return p.operand(left, prec) + " " + op + " " + p.operand(right, prec+1)
}

func (p *printer) args(positional []ast.Expr, named []*ast.NamedArg) string {
	parts := make([]string, 0, len(positional)+len(named))
	for _, a := range positional {
		parts = append(parts, p.expr(a))
	}

	for _, n := range named {
		parts = append(parts, n.Name.Name+"="+p.expr(n.Value))
	}

	return strings.Join(parts, ", ")
}

const multilineQuote = `"""`

func (p *printer) stringLit(s *ast.StringLit) string {
	quote := s.Quote
	if quote == "" {
		quote = `"`
	}

	var sb strings.Builder
	if s.Raw {
		sb.WriteByte('r')
	}

	sb.WriteString(quote)

	if quote == multilineQuote {
		sb.WriteByte('\n')
	}

	var body strings.Builder

	for _, part := range s.Parts {
		switch part := part.(type) {
		case *ast.StringContent:
			body.WriteString(part.Text)
		case *ast.Escape:
			body.WriteString(part.Seq)
		case *ast.Interpolation:
			body.WriteByte('{')
			body.WriteString(p.expr(part.X))

			if f := part.Format; f != nil {
				body.WriteByte(':')
				body.WriteString(f.Align)

				if f.Padding != nil {
					body.WriteString(f.Padding.Raw)
				}

				if f.Precision != nil {
					body.WriteString("." + f.Precision.Raw)
				}
			}

			body.WriteByte('}')
		default:
			p.fail(part, "unexpected "+part.Kind().String())
		}
	}

	if quote == multilineQuote {
		// content lines and the closing quotes share the statement indentation
		pad := strings.Repeat(" ", p.indent*p.indentSize)
		for line := range strings.SplitSeq(body.String(), "\n") {
			if line != "" {
				sb.WriteString(pad + line)
			}

			sb.WriteByte('\n')
		}

		sb.WriteString(pad)
	} else {
		sb.WriteString(body.String())
	}

	sb.WriteString(quote)

	return sb.String()
}
