package parser

import (
	"github.com/shibukawa/radlang/ast"
	"github.com/shibukawa/radlang/diag"
	tok "github.com/shibukawa/radlang/tokenizer"
)

// Words that act as shell modifiers when they lead a shell command.
// Anywhere else they are plain identifiers.
const (
	modifierQuiet   = "quiet"
	modifierConfirm = "confirm"
	modifierUnsafe  = "unsafe"
)

func isShellModifier(t tok.Token) bool {
	return t.Is(modifierQuiet) || t.Is(modifierConfirm) || t.Is(modifierUnsafe)
}

// atShellCommand looks past a run of modifiers for '$' or '$!'.
func (p *parser) atShellCommand() bool {
	for i := 0; ; i++ {
		t := p.peek(i)
		switch {
		case t.Type == tok.DOLLAR || t.Type == tok.DOLLAR_BANG:
			return true
		case !isShellModifier(t):
			return false
		}
	}
}

// parseShellCmd parses [modifier]* ('$' | '$!') command, plus the fail or
// recover block a checked command requires.
func (p *parser) parseShellCmd(targets []ast.Expr, start diag.Position, mark int) ast.Stmt {
	cmd := &ast.ShellCmd{Targets: targets}

	for !p.at(tok.DOLLAR, tok.DOLLAR_BANG) {
		t := p.next()
		cmd.Modifiers = append(cmd.Modifiers, &ast.ShellModifier{Base: ast.At(t.Span), Name: t.Value})
	}

	sigil := p.next()

	switch {
	case sigil.Type == tok.DOLLAR_BANG:
		cmd.Mode = ast.ShellCritical

		if cmd.HasModifier(modifierUnsafe) {
			p.errorf(sigil.Span, ErrInvalidShellCommand, "a critical command cannot be unsafe")
		}
	case cmd.HasModifier(modifierUnsafe):
		cmd.Mode = ast.ShellUnsafe
	default:
		cmd.Mode = ast.ShellChecked
	}

	cmd.Command = p.parseShellCommand(sigil)
	cmd.Loc = p.spanFrom(start)

	stmt := p.endStatement(cmd, start, mark)
	if stmt != ast.Stmt(cmd) || cmd.Mode != ast.ShellChecked {
		return stmt
	}

	if !(p.cur().Is("fail") || p.cur().Is("recover")) || p.peek(1).Type != tok.COLON {
		p.errorf(cmd.Loc, ErrMissingElement, "checked shell command requires a fail or recover block")
		return cmd
	}

	kw := p.next()
	handler := &ast.ShellHandler{Recover: kw.Value == "recover", Body: p.parseStmtBlock()}
	handler.Loc = p.spanFrom(kw.Span.Start)
	cmd.Handler = handler
	cmd.Loc = p.spanFrom(start)

	return cmd
}

// parseShellCommand parses the command after the sigil. A line that is a
// command-shaped expression is kept as one; anything else, such as
// rm -rf /tmp/x or ls | wc, is taken verbatim.
func (p *parser) parseShellCommand(sigil tok.Token) ast.Expr {
	if p.atLineEnd() {
		p.errorf(sigil.Span, ErrMissingElement, "shell command expected after %s", sigil.Value)
		return p.badAt(p.cur())
	}

	saved := p.save()

	x := p.parseExpression()
	if p.reporter.Len() == saved.diags && p.atLineEnd() && isCommandExpr(x) {
		return x
	}

	p.restore(saved)

	first := p.cur()
	for !p.atLineEnd() {
		p.next()
	}

	span := diag.Span{Start: first.Span.Start, End: p.last.Span.End}
	p.shellText = append(p.shellText, span)

	return &ast.ShellText{Base: ast.At(span), Text: p.src[span.Start.Offset:span.End.Offset]}
}

// isCommandExpr reports whether x can evaluate to a command line: a
// string, a variable, a call, or a concatenation or choice of those.
// Arithmetic over bare words is shell text that happens to parse.
func isCommandExpr(x ast.Expr) bool {
	switch x := x.(type) {
	case *ast.StringLit, *ast.Identifier, *ast.FieldAccess, *ast.IndexExpr,
		*ast.Call, *ast.MethodCall, *ast.ParenExpr:
		return true
	case *ast.BinaryOp:
		return x.Op == "+" && isCommandExpr(x.Left) && isCommandExpr(x.Right)
	case *ast.Ternary:
		return isCommandExpr(x.Then) && isCommandExpr(x.Else)
	default:
		return false
	}
}
