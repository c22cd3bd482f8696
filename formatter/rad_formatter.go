package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shibukawa/radlang/ast"
	"github.com/shibukawa/radlang/diag"
	"github.com/shibukawa/radlang/parser"
	"github.com/shibukawa/radlang/tokenizer"
)

// Sentinel errors
var (
	ErrSourceHasErrors = errors.New("source has syntax errors")
	ErrUnprintable     = errors.New("tree cannot be printed")
	ErrHasComments     = errors.New("source has comments, which the formatter would drop")
)

// RadFormatter prints rad scripts in canonical layout: 4 space indentation,
// single spaces around binary operators and after commas.
type RadFormatter struct {
	indentSize int
	options    parser.Options
}

// NewRadFormatter creates a new rad formatter
func NewRadFormatter(options ...parser.Options) *RadFormatter {
	f := &RadFormatter{
		indentSize: 4, // 4 spaces for indentation
		options:    parser.DefaultOptions,
	}

	if len(options) > 0 {
		f.options = options[0]
	}

	return f
}

// Format parses src and prints it back. Sources with syntax errors or
// line comments are refused; warnings are ignored.
func (f *RadFormatter) Format(src string) (string, error) {
	file, diags := parser.Parse(src, f.options)
	if diags.HasErrors() {
		return "", fmt.Errorf("%w: %w", ErrSourceHasErrors, diags.Err())
	}

	if pos, ok := f.firstComment(src); ok {
		return "", fmt.Errorf("%w: comment at %s", ErrHasComments, pos)
	}

	return f.Print(file)
}

func (f *RadFormatter) firstComment(src string) (diag.Position, bool) {
	tz := tokenizer.NewTokenizer(src, tokenizer.Options{
		TabWidth:   f.options.TabWidth,
		MaxNesting: f.options.MaxNesting,
	})

	for t := range tz.Tokens() {
		if t.Type == tokenizer.COMMENT {
			return t.Pos(), true
		}
	}

	return diag.Position{}, false
}

// Print renders file. Trees holding error nodes cannot be printed.
func (f *RadFormatter) Print(file *ast.SourceFile) (string, error) {
	p := &printer{indentSize: f.indentSize}
	p.sourceFile(file)

	if p.err != nil {
		return "", p.err
	}

	return p.sb.String(), nil
}

type printer struct {
	sb         strings.Builder
	indentSize int
	prefix     string // written after the indentation of the next line
	indent     int    // level of the statement being printed
	err        error
}

func (p *printer) fail(n ast.Node, reason string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s at %s", ErrUnprintable, reason, n.Span().Start)
	}
}

func (p *printer) line(indent int, text string) {
	p.sb.WriteString(strings.Repeat(" ", indent*p.indentSize))
	p.sb.WriteString(p.prefix)
	p.sb.WriteString(text)
	p.sb.WriteByte('\n')

	p.prefix = ""
}

func (p *printer) sourceFile(file *ast.SourceFile) {
	preamble := false

	if file.Shebang != nil {
		p.line(0, file.Shebang.Text)
		preamble = true
	}

	if file.Header != nil {
		p.line(0, "---")
		p.sb.WriteString(file.Header.Contents)

		if c := file.Header.Contents; c != "" && !strings.HasSuffix(c, "\n") {
			p.sb.WriteByte('\n')
		}

		p.line(0, "---")
		preamble = true
	}

	if file.Args != nil {
		if preamble {
			p.sb.WriteByte('\n')
		}

		p.argBlock(0, file.Args)
		preamble = true
	}

	if preamble && len(file.Stmts) > 0 {
		p.sb.WriteByte('\n')
	}

	for _, stmt := range file.Stmts {
		p.stmt(0, stmt)
	}
}

func (p *printer) block(indent int, head string, b *ast.Block) {
	p.line(indent, head+":")

	if b == nil {
		if p.err == nil {
			p.err = fmt.Errorf("%w: %s has no block", ErrUnprintable, head)
		}

		return
	}

	if len(b.Stmts) == 0 {
		p.fail(b, "empty block")
		return
	}

	for _, stmt := range b.Stmts {
		p.stmt(indent+1, stmt)
	}
}

func (p *printer) stmt(indent int, s ast.Stmt) {
	defer func(outer int) { p.indent = outer }(p.indent)

	p.indent = indent

	switch s := s.(type) {
	case *ast.IfStmt:
		for i, br := range s.Branches {
			head := "if "
			if i > 0 {
				head = "else if "
			}

			p.block(indent, head+p.expr(br.Cond), br.Body)
		}

		if s.Else != nil {
			p.block(indent, "else", s.Else)
		}
	case *ast.ForLoop:
		p.block(indent, "for "+idents(s.Vars)+" in "+p.expr(s.Iter), s.Body)
	case *ast.WhileLoop:
		head := "while"
		if s.Cond != nil {
			head += " " + p.expr(s.Cond)
		}

		p.block(indent, head, s.Body)
	case *ast.SwitchStmt:
		p.switchStmt(indent, s)
	case *ast.DeferBlock:
		kw := "defer"
		if s.Errdefer {
			kw = "errdefer"
		}

		if s.Body != nil {
			p.block(indent, kw, s.Body)
			return
		}

		// the deferred statement starts on the keyword line
		p.prefix = kw + " "
		p.stmt(indent, s.Stmt)
	case *ast.ShellCmd:
		p.shellCmd(indent, s)
	case *ast.RadBlock:
		head := s.Type.String()
		if s.Source != nil {
			head += " " + p.expr(s.Source)
		}

		p.line(indent, head+":")
		p.radStmts(indent+1, s.Stmts)
	case *ast.ArgBlock:
		p.argBlock(indent, s)
	default:
		p.line(indent, p.simpleStmt(s))
	}
}

func (p *printer) simpleStmt(s ast.Stmt) string {
	switch s := s.(type) {
	case *ast.ExprStmt:
		return p.expr(s.X)
	case *ast.Assign:
		if s.JSONPath != nil {
			return p.exprs(s.Targets) + " = " + s.JSONPath.String()
		}

		return p.exprs(s.Targets) + " = " + p.exprs(s.Values)
	case *ast.CompoundAssign:
		return p.expr(s.Target) + " " + s.Op + "= " + p.expr(s.Value)
	case *ast.IncrDecr:
		return p.expr(s.Target) + s.Op
	case *ast.DelStmt:
		return "del " + p.exprs(s.Targets)
	case *ast.BreakStmt:
		return "break"
	case *ast.ContinueStmt:
		return "continue"
	case *ast.YieldStmt:
		return "yield " + p.exprs(s.Values)
	}

	p.fail(s, "unexpected "+s.Kind().String())

	return ""
}

func (p *printer) switchStmt(indent int, s *ast.SwitchStmt) {
	head := "switch " + p.expr(s.Discriminant)
	if len(s.Targets) > 0 {
		head = p.exprs(s.Targets) + " = " + head
	}

	p.line(indent, head+":")

	for _, c := range s.Cases {
		p.switchClause(indent+1, "case "+p.exprs(c.Keys), c.Values, c.Body)
	}

	if s.Default != nil {
		p.switchClause(indent+1, "default", s.Default.Values, s.Default.Body)
	}
}

func (p *printer) switchClause(indent int, head string, values []ast.Expr, body *ast.Block) {
	if body != nil {
		p.block(indent, head, body)
		return
	}

	p.line(indent, head+" -> "+p.exprs(values))
}

func (p *printer) shellCmd(indent int, s *ast.ShellCmd) {
	var parts []string
	if len(s.Targets) > 0 {
		parts = append(parts, p.exprs(s.Targets), "=")
	}

	for _, m := range s.Modifiers {
		parts = append(parts, m.Name)
	}

	if s.Mode == ast.ShellCritical {
		parts = append(parts, "$!")
	} else {
		parts = append(parts, "$")
	}

	parts = append(parts, p.expr(s.Command))
	p.line(indent, strings.Join(parts, " "))

	if s.Handler != nil {
		p.block(indent, s.Handler.Keyword(), s.Handler.Body)
	}
}

func (p *printer) argBlock(indent int, b *ast.ArgBlock) {
	p.line(indent, "args:")

	for _, stmt := range b.Stmts {
		p.line(indent+1, p.argStmt(stmt))
	}
}

func (p *printer) argStmt(s ast.ArgStmt) string {
	switch s := s.(type) {
	case *ast.ArgDecl:
		parts := []string{s.Name.Name}
		if s.Rename != nil {
			parts = append(parts, p.expr(s.Rename))
		}

		if s.Shorthand != nil {
			parts = append(parts, s.Shorthand.Name)
		}

		parts = append(parts, s.Type.String())

		if s.Default != nil {
			parts = append(parts, "=", p.expr(s.Default))
		}

		if s.Comment != nil {
			parts = append(parts, "# "+s.Comment.Text)
		}

		return strings.Join(parts, " ")
	case *ast.ArgEnumConstraint:
		return s.Arg.Name + " enum " + p.expr(s.Values)
	case *ast.ArgRegexConstraint:
		return s.Arg.Name + " regex " + p.expr(s.Pattern)
	case *ast.ArgRangeConstraint:
		open, closing := "(", ")"
		if s.MinInclusive {
			open = "["
		}

		if s.MaxInclusive {
			closing = "]"
		}

		return s.Arg.Name + " range " + open + p.optExpr(s.Min) + ", " + p.optExpr(s.Max) + closing
	case *ast.ArgRequiresConstraint:
		return s.Arg.Name + mutually(s.Mutual) + " requires " + idents(s.Targets)
	case *ast.ArgExcludesConstraint:
		return s.Arg.Name + mutually(s.Mutual) + " excludes " + idents(s.Targets)
	}

	p.fail(s, "unexpected "+s.Kind().String())

	return ""
}

func mutually(m bool) string {
	if m {
		return " mutually"
	}

	return ""
}

func (p *printer) radStmts(indent int, stmts []ast.RadStmt) {
	for _, s := range stmts {
		p.radStmt(indent, s)
	}
}

func (p *printer) radStmt(indent int, s ast.RadStmt) {
	switch s := s.(type) {
	case *ast.RadFields:
		p.line(indent, "fields "+idents(s.Names))
	case *ast.RadSort:
		p.line(indent, radSort(s))
	case *ast.RadFieldModifier:
		p.line(indent, idents(s.Targets)+":")

		for _, mod := range s.Mods {
			p.line(indent+1, p.fieldMod(mod))
		}
	case *ast.RadIf:
		for i, br := range s.Branches {
			head := "if "
			if i > 0 {
				head = "else if "
			}

			p.line(indent, head+p.expr(br.Cond)+":")
			p.radStmts(indent+1, br.Stmts)
		}

		if len(s.Else) > 0 {
			p.line(indent, "else:")
			p.radStmts(indent+1, s.Else)
		}
	default:
		p.fail(s, "unexpected "+s.Kind().String())
	}
}

func radSort(s *ast.RadSort) string {
	if s.Direction != "" {
		return "sort " + s.Direction
	}

	specs := make([]string, len(s.Specs))
	for i, spec := range s.Specs {
		specs[i] = spec.Field.Name
		if spec.Direction != "" {
			specs[i] += " " + spec.Direction
		}
	}

	return strings.TrimSpace("sort " + strings.Join(specs, ", "))
}

func (p *printer) fieldMod(m ast.FieldMod) string {
	switch m := m.(type) {
	case *ast.RadColor:
		return "color " + p.expr(m.Color) + " " + p.expr(m.Pattern)
	case *ast.RadMap:
		return "map " + p.expr(m.Lambda)
	}

	p.fail(m, "unexpected "+m.Kind().String())

	return ""
}

func idents(ids []*ast.Identifier) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}

	return strings.Join(names, ", ")
}
