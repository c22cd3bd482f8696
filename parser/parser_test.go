package parser

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/radlang/ast"
	"github.com/shibukawa/radlang/diag"
	tok "github.com/shibukawa/radlang/tokenizer"
)

func parseClean(t *testing.T, src string) *ast.SourceFile {
	t.Helper()

	file, diags := Parse(src)
	assert.NoError(t, diags.Err())

	return file
}

func as[T any](t *testing.T, n any) T {
	t.Helper()

	v, ok := n.(T)
	assert.True(t, ok, "unexpected node %T", n)

	return v
}

// sexpr renders an expression compactly so tests can compare tree shapes.
func sexpr(n ast.Node) string {
	if n == nil {
		return "_"
	}

	join := func(head string, nodes ...ast.Node) string {
		parts := []string{head}
		for _, node := range nodes {
			parts = append(parts, sexpr(node))
		}

		return "(" + strings.Join(parts, " ") + ")"
	}

	switch x := n.(type) {
	case *ast.Identifier:
		return x.Name
	case *ast.IntLit:
		return x.Raw
	case *ast.FloatLit:
		return x.Raw
	case *ast.BoolLit:
		return strconv.FormatBool(x.Value)
	case *ast.StringLit:
		var sb strings.Builder
		for _, part := range x.Parts {
			switch p := part.(type) {
			case *ast.StringContent:
				sb.WriteString(p.Text)
			case *ast.Escape:
				sb.WriteString(p.Seq)
			case *ast.Interpolation:
				sb.WriteString("{" + sexpr(p.X) + "}")
			}
		}

		return strconv.Quote(sb.String())
	case *ast.UnaryOp:
		return join(x.Op, x.X)
	case *ast.NotOp:
		return join("not", x.X)
	case *ast.BinaryOp:
		return join(x.Op, x.Left, x.Right)
	case *ast.Comparison:
		return join(x.Op, x.Left, x.Right)
	case *ast.BoolOp:
		return join(x.Op, x.Left, x.Right)
	case *ast.Ternary:
		return join("?", x.Cond, x.Then, x.Else)
	case *ast.ParenExpr:
		return join("paren", x.X)
	case *ast.Call:
		return callSexpr("call "+x.Func.Name, nil, x.Args, x.Named)
	case *ast.MethodCall:
		return callSexpr("."+x.Method.Name, x.X, x.Args, x.Named)
	case *ast.IndexExpr:
		return join("[]", x.X, x.Index)
	case *ast.SliceExpr:
		return join("[:]", x.X, x.Start, x.End)
	case *ast.FieldAccess:
		return join(".", x.X, x.Name)
	case *ast.ListLit:
		parts := make([]string, len(x.Elems))
		for i, e := range x.Elems {
			parts[i] = sexpr(e)
		}

		return "[" + strings.Join(parts, " ") + "]"
	case *ast.MapLit:
		parts := make([]string, len(x.Entries))
		for i, e := range x.Entries {
			parts[i] = sexpr(e.Key) + ":" + sexpr(e.Value)
		}

		return "{" + strings.Join(parts, " ") + "}"
	case *ast.ListComprehension:
		vars := make([]ast.Node, len(x.Vars))
		for i, v := range x.Vars {
			vars[i] = v
		}

		return join("comp", append(append([]ast.Node{x.Elem}, vars...), x.Iter, x.Cond)...)
	case *ast.Lambda:
		return join("->", x.Param, x.Body)
	}

	return "<" + n.Kind().String() + ">"
}

func callSexpr(head string, recv ast.Expr, args []ast.Expr, named []*ast.NamedArg) string {
	parts := []string{head}
	if recv != nil {
		parts = append(parts, sexpr(recv))
	}

	for _, a := range args {
		parts = append(parts, sexpr(a))
	}

	for _, n := range named {
		parts = append(parts, n.Name.Name+"="+sexpr(n.Value))
	}

	return "(" + strings.Join(parts, " ") + ")"
}

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"-a * b", "(* (- a) b)"},
		{"- -a", "(- (- a))"},
		{"a or b and c", "(or a (and b c))"},
		{"not a and b", "(and (not a) b)"},
		{"not not a", "(not (not a))"},
		{"a < b < c", "(< (< a b) c)"},
		{"x not in y or z in w", "(or (not in x y) (in z w))"},
		{"a ? b : c ? d : e", "(? a b (? c d e))"},
		{"a + b > c ? x : y", "(? (> (+ a b) c) x y)"},
		{"(a + b) * c", "(* (paren (+ a b)) c)"},
		{"1.5 % 2", "(% 1.5 2)"},
		{"a.b[1]", "([] (. a b) 1)"},
		{"a[1:]", "([:] a 1 _)"},
		{"a[:n - 1]", "([:] a _ (- n 1))"},
		{"x[a ? 1 : 2]", "([] x (? a 1 2))"},
		{"s.upper().strip()", "(.strip (.upper s))"},
		{"f(1, k=2)", "(call f 1 k=2)"},
		{"f()", "(call f)"},
		{"f(a, b,)", "(call f a b)"},
		{"[1, 2, 3]", "[1 2 3]"},
		{"[]", "[]"},
		{"[x * 2 for x in xs if x > 1]", "(comp (* x 2) x xs (> x 1))"},
		{"[k for k, v in m]", "(comp k k v m _)"},
		{`{"a": 1, b: true}`, `{"a":1 b:true}`},
		{`"a{f("b{c}")}d"`, `"a{(call f \"b{c}\")}d"`},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			x, diags := ParseExpression(tt.src)
			assert.NoError(t, diags.Err())
			assert.Equal(t, tt.want, sexpr(x))
		})
	}
}

func TestComparisonChainIsLeftNested(t *testing.T) {
	x, diags := ParseExpression("a<b<c")
	assert.Equal(t, 0, len(diags))

	outer := as[*ast.Comparison](t, x)
	assert.Equal(t, "<", outer.Op)
	assert.Equal(t, "c", as[*ast.Identifier](t, outer.Right).Name)

	inner := as[*ast.Comparison](t, outer.Left)
	assert.Equal(t, "a", as[*ast.Identifier](t, inner.Left).Name)
	assert.Equal(t, "b", as[*ast.Identifier](t, inner.Right).Name)
	assert.Equal(t, 0, outer.Span().Start.Offset)
	assert.Equal(t, 5, outer.Span().End.Offset)
}

func TestInterpolatedString(t *testing.T) {
	x, diags := ParseExpression(`"x={a+1}"`)
	assert.Equal(t, 0, len(diags))

	lit := as[*ast.StringLit](t, x)
	assert.Equal(t, `"`, lit.Quote)
	assert.False(t, lit.Raw)
	assert.Equal(t, 2, len(lit.Parts))
	assert.Equal(t, "x=", as[*ast.StringContent](t, lit.Parts[0]).Text)

	interp := as[*ast.Interpolation](t, lit.Parts[1])
	assert.Equal(t, "(+ a 1)", sexpr(interp.X))
	assert.Zero(t, interp.Format)
	assert.Equal(t, 9, lit.Span().End.Offset)
}

func TestStringForms(t *testing.T) {
	t.Run("escapes", func(t *testing.T) {
		x, diags := ParseExpression(`"tab\there \{x}"`)
		assert.Equal(t, 0, len(diags))

		text, ok := as[*ast.StringLit](t, x).Text()
		assert.True(t, ok)
		assert.Equal(t, "tab\there {x}", text)
	})

	t.Run("raw", func(t *testing.T) {
		x, diags := ParseExpression(`r"C:\dir{x}"`)
		assert.Equal(t, 0, len(diags))

		lit := as[*ast.StringLit](t, x)
		assert.True(t, lit.Raw)
		assert.Equal(t, `"`, lit.Quote)

		text, ok := lit.Text()
		assert.True(t, ok)
		assert.Equal(t, `C:\dir{x}`, text)
	})

	t.Run("single quotes", func(t *testing.T) {
		x, diags := ParseExpression(`'it"s'`)
		assert.Equal(t, 0, len(diags))
		assert.Equal(t, "'", as[*ast.StringLit](t, x).Quote)
	})
}

func TestMultilineString(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		file := parseClean(t, "x = \"\"\"\n    hello\n    world\n    \"\"\"\nprint(x)\n")
		assert.Equal(t, 2, len(file.Stmts))

		lit := as[*ast.StringLit](t, as[*ast.Assign](t, file.Stmts[0]).Values[0])
		assert.Equal(t, `"""`, lit.Quote)

		text, ok := lit.Text()
		assert.True(t, ok)
		assert.Equal(t, "hello\nworld", text)
	})

	t.Run("interpolation and nested block", func(t *testing.T) {
		file := parseClean(t, "if ok:\n    msg = \"\"\"\n        Hi {name}!\n          bye\n        \"\"\"\n    print(msg)\n")

		body := as[*ast.IfStmt](t, file.Stmts[0]).Branches[0].Body
		assert.Equal(t, 2, len(body.Stmts))

		lit := as[*ast.StringLit](t, as[*ast.Assign](t, body.Stmts[0]).Values[0])
		assert.Equal(t, 3, len(lit.Parts))
		assert.Equal(t, "Hi ", as[*ast.StringContent](t, lit.Parts[0]).Text)
		assert.Equal(t, "name", sexpr(as[*ast.Interpolation](t, lit.Parts[1]).X))
		assert.Equal(t, "!\n  bye", as[*ast.StringContent](t, lit.Parts[2]).Text)
	})
}

func TestInterpolationNestingLimit(t *testing.T) {
	src := "x = " + strings.Repeat(`"{`, 100) + "\ny = 1\n"

	file, diags := Parse(src, Options{MaxNesting: 4})
	assert.Equal(t, 1, len(diags))
	assert.True(t, errors.Is(diags[0], tok.ErrNestingTooDeep))
	assert.Equal(t, 2, len(file.Stmts))
}

func TestByteOrderMark(t *testing.T) {
	file := parseClean(t, "\ufeff#!/usr/bin/env rad\nx = 1\n")

	assert.NotZero(t, file.Shebang)
	assert.Equal(t, 1, len(file.Stmts))
}

func TestFormatSpec(t *testing.T) {
	tests := []struct {
		src       string
		align     string
		padding   string
		precision string
	}{
		{`"{x:<10.2}"`, "<", "10", "2"},
		{`"{x:>8}"`, ">", "8", ""},
		{`"{x:.3}"`, "", "", "3"},
		{`"{x:6}"`, "", "6", ""},
	}

	raw := func(lit *ast.IntLit) string {
		if lit == nil {
			return ""
		}

		return lit.Raw
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			x, diags := ParseExpression(tt.src)
			assert.Equal(t, 0, len(diags))

			interp := as[*ast.Interpolation](t, as[*ast.StringLit](t, x).Parts[0])
			assert.NotZero(t, interp.Format)
			assert.Equal(t, tt.align, interp.Format.Align)
			assert.Equal(t, tt.padding, raw(interp.Format.Padding))
			assert.Equal(t, tt.precision, raw(interp.Format.Precision))
		})
	}
}

func TestBlocksAndSiblings(t *testing.T) {
	file := parseClean(t, "x = 1\nif x > 0:\n    print(x)\n    x++\ny = 2\n")

	assert.Equal(t, 3, len(file.Stmts))
	as[*ast.Assign](t, file.Stmts[0])
	as[*ast.Assign](t, file.Stmts[2])

	ifStmt := as[*ast.IfStmt](t, file.Stmts[1])
	assert.Equal(t, 1, len(ifStmt.Branches))
	assert.Zero(t, ifStmt.Else)

	body := ifStmt.Branches[0].Body.Stmts
	assert.Equal(t, 2, len(body))
	assert.Equal(t, "(call print x)", sexpr(as[*ast.ExprStmt](t, body[0]).X))
	assert.Equal(t, "++", as[*ast.IncrDecr](t, body[1]).Op)
}

func TestIfElseChain(t *testing.T) {
	file := parseClean(t, `if a:
    x = 1
else if b:
    x = 2
else:
    x = 3
`)

	stmt := as[*ast.IfStmt](t, file.Stmts[0])
	assert.Equal(t, 2, len(stmt.Branches))
	assert.Equal(t, "b", sexpr(stmt.Branches[1].Cond))
	assert.NotZero(t, stmt.Else)
	assert.Equal(t, 1, len(stmt.Else.Stmts))
}

func TestLoops(t *testing.T) {
	file := parseClean(t, `for i, v in items:
    print(v)
while:
    break
while n > 0:
    n -= 1
    continue
`)

	assert.Equal(t, 3, len(file.Stmts))

	loop := as[*ast.ForLoop](t, file.Stmts[0])
	assert.Equal(t, 2, len(loop.Vars))
	assert.Equal(t, "items", sexpr(loop.Iter))

	forever := as[*ast.WhileLoop](t, file.Stmts[1])
	assert.Zero(t, forever.Cond)
	as[*ast.BreakStmt](t, forever.Body.Stmts[0])

	counted := as[*ast.WhileLoop](t, file.Stmts[2])
	assert.Equal(t, "(> n 0)", sexpr(counted.Cond))

	compound := as[*ast.CompoundAssign](t, counted.Body.Stmts[0])
	assert.Equal(t, "-", compound.Op)
	as[*ast.ContinueStmt](t, counted.Body.Stmts[1])
}

func TestAssignments(t *testing.T) {
	file := parseClean(t, "a, b = 1, 2\nm[\"k\"].v = x\ndel a, b[0],\nconfirm = true\n")

	multi := as[*ast.Assign](t, file.Stmts[0])
	assert.Equal(t, 2, len(multi.Targets))
	assert.Equal(t, 2, len(multi.Values))

	path := as[*ast.Assign](t, file.Stmts[1])
	assert.Equal(t, `(. ([] m "k") v)`, sexpr(path.Targets[0]))

	del := as[*ast.DelStmt](t, file.Stmts[2])
	assert.Equal(t, 2, len(del.Targets))

	// modifier words are ordinary identifiers outside shell commands
	assert.Equal(t, "confirm", sexpr(as[*ast.Assign](t, file.Stmts[3]).Targets[0]))
}

func TestMultiLineBrackets(t *testing.T) {
	file := parseClean(t, "x = [\n    1,\n        2,\n]\ny = f(\n  a,\n  b)\n")

	assert.Equal(t, 2, len(file.Stmts))
	assert.Equal(t, "[1 2]", sexpr(as[*ast.Assign](t, file.Stmts[0]).Values[0]))
	assert.Equal(t, "(call f a b)", sexpr(as[*ast.Assign](t, file.Stmts[1]).Values[0]))
}

func TestShellCommands(t *testing.T) {
	t.Run("unsafe without block", func(t *testing.T) {
		file := parseClean(t, "unsafe $ rm -rf /tmp/x\n")

		cmd := as[*ast.ShellCmd](t, file.Stmts[0])
		assert.Equal(t, ast.ShellUnsafe, cmd.Mode)
		assert.True(t, cmd.HasModifier("unsafe"))
		assert.Zero(t, cmd.Handler)
		assert.Equal(t, "rm -rf /tmp/x", as[*ast.ShellText](t, cmd.Command).Text)
	})

	t.Run("pipes are verbatim text", func(t *testing.T) {
		file := parseClean(t, `n = unsafe $ ls | wc -l; echo & 
x = 1
`)

		cmd := as[*ast.ShellCmd](t, file.Stmts[0])
		assert.Equal(t, "ls | wc -l; echo &", as[*ast.ShellText](t, cmd.Command).Text)
		assert.Equal(t, 2, len(file.Stmts))
	})

	t.Run("command expressions", func(t *testing.T) {
		file := parseClean(t, `unsafe $ cmd
unsafe $ "ls " + dir
unsafe $ f(x)
`)

		assert.Equal(t, "cmd", sexpr(as[*ast.ShellCmd](t, file.Stmts[0]).Command))
		as[*ast.BinaryOp](t, as[*ast.ShellCmd](t, file.Stmts[1]).Command)
		as[*ast.Call](t, as[*ast.ShellCmd](t, file.Stmts[2]).Command)
	})

	t.Run("checked with fail block", func(t *testing.T) {
		file, diags := Parse("$ ls\nfail:\n  echo err\n")

		assert.Equal(t, 1, len(file.Stmts))

		cmd := as[*ast.ShellCmd](t, file.Stmts[0])
		assert.Equal(t, ast.ShellChecked, cmd.Mode)
		assert.NotZero(t, cmd.Handler)
		assert.Equal(t, "fail", cmd.Handler.Keyword())
		assert.Equal(t, 1, len(cmd.Handler.Body.Stmts))

		// echo err is not an expression statement
		assert.Equal(t, 1, len(diags))
		assert.Equal(t, ast.KindError, cmd.Handler.Body.Stmts[0].Kind())
	})

	t.Run("checked with clean handler", func(t *testing.T) {
		file := parseClean(t, "out = quiet $ \"git status\"\nrecover:\n    print(err)\n")

		cmd := as[*ast.ShellCmd](t, file.Stmts[0])
		assert.Equal(t, 1, len(cmd.Targets))
		assert.True(t, cmd.HasModifier("quiet"))
		assert.True(t, cmd.Handler.Recover)
		assert.Equal(t, 1, len(cmd.Handler.Body.Stmts))
	})

	t.Run("critical", func(t *testing.T) {
		file := parseClean(t, "$! \"make build\"\nx = 1\n")

		cmd := as[*ast.ShellCmd](t, file.Stmts[0])
		assert.Equal(t, ast.ShellCritical, cmd.Mode)
		as[*ast.StringLit](t, cmd.Command)
		assert.Equal(t, 2, len(file.Stmts))
	})

	t.Run("verbatim text", func(t *testing.T) {
		file := parseClean(t, "unsafe $ git log --oneline\n")

		cmd := as[*ast.ShellCmd](t, file.Stmts[0])
		assert.Equal(t, "git log --oneline", as[*ast.ShellText](t, cmd.Command).Text)
	})
}

func TestShellCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
	}{
		{"checked without handler", "$ ls\nx = 1\n", ErrMissingElement},
		{"piped without handler", "$ ls | wc\nx = 1\n", ErrMissingElement},
		{"missing command", "unsafe $\n", ErrMissingElement},
		{"critical and unsafe", "unsafe $! cmd\n", ErrInvalidShellCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := Parse(tt.src)
			assert.Equal(t, 1, len(diags), "%v", diags)
			assert.True(t, errors.Is(diags[0], tt.err))
		})
	}
}

func TestArgBlock(t *testing.T) {
	file := parseClean(t, `args:
    name "user" u string # The user
    count int = -5
    ratio float = 0.5
    tags string[] = ["a", "b",]
    verbose v bool = false
    name enum ["alice", "bob"]
    name regex "^[a-z]+$"
    count range [1, 10)
    verbose mutually requires name
    ratio excludes count, tags
    tags requires mutually name
print(name)
`)

	assert.NotZero(t, file.Args)
	assert.Equal(t, 1, len(file.Stmts))

	stmts := file.Args.Stmts
	assert.Equal(t, 11, len(stmts))

	name := as[*ast.ArgDecl](t, stmts[0])
	rename, _ := name.Rename.Text()
	assert.Equal(t, "user", rename)
	assert.Equal(t, "u", name.Shorthand.Name)
	assert.Equal(t, "string", name.Type.String())
	assert.Equal(t, "The user", name.Comment.Text)
	assert.Zero(t, name.Default)

	count := as[*ast.IntLit](t, as[*ast.ArgDecl](t, stmts[1]).Default)
	assert.Equal(t, int64(-5), count.Value)
	assert.Equal(t, "-5", count.Raw)

	ratio := as[*ast.FloatLit](t, as[*ast.ArgDecl](t, stmts[2]).Default)
	assert.Equal(t, "0.5", ratio.Value.String())

	tags := as[*ast.ArgDecl](t, stmts[3])
	assert.Equal(t, "string[]", tags.Type.String())
	assert.Equal(t, `["a" "b"]`, sexpr(tags.Default))

	verbose := as[*ast.ArgDecl](t, stmts[4])
	assert.Equal(t, "v", verbose.Shorthand.Name)
	assert.Equal(t, "false", sexpr(verbose.Default))

	enum := as[*ast.ArgEnumConstraint](t, stmts[5])
	assert.Equal(t, `["alice" "bob"]`, sexpr(enum.Values))

	regex := as[*ast.ArgRegexConstraint](t, stmts[6])
	pattern, _ := regex.Pattern.Text()
	assert.Equal(t, "^[a-z]+$", pattern)

	rng := as[*ast.ArgRangeConstraint](t, stmts[7])
	assert.Equal(t, "1", sexpr(rng.Min))
	assert.Equal(t, "10", sexpr(rng.Max))
	assert.True(t, rng.MinInclusive)
	assert.False(t, rng.MaxInclusive)

	requires := as[*ast.ArgRequiresConstraint](t, stmts[8])
	assert.True(t, requires.Mutual)
	assert.Equal(t, "name", requires.Targets[0].Name)

	excludes := as[*ast.ArgExcludesConstraint](t, stmts[9])
	assert.False(t, excludes.Mutual)
	assert.Equal(t, 2, len(excludes.Targets))

	assert.True(t, as[*ast.ArgRequiresConstraint](t, stmts[10]).Mutual)
}

func TestArgRangeOpenEnds(t *testing.T) {
	file := parseClean(t, "args:\n    n int\n    n range (, -1.5]\n")

	rng := as[*ast.ArgRangeConstraint](t, file.Args.Stmts[1])
	assert.Zero(t, rng.Min)
	assert.Equal(t, "-1.5", sexpr(rng.Max))
	assert.False(t, rng.MinInclusive)
	assert.True(t, rng.MaxInclusive)
}

func TestArgBlockErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
	}{
		{"string default for int", "args:\n    count int = \"x\"\n", ErrDefaultMismatch},
		{"scalar default for list", "args:\n    ids int[] = 3\n", ErrDefaultMismatch},
		{"wrong list element", "args:\n    ids int[] = [1, 2.5]\n", ErrDefaultMismatch},
		{"float default for int", "args:\n    count int = 1.5\n", ErrDefaultMismatch},
		{"mutually on enum", "args:\n    a mutually enum [\"x\"]\n", ErrInvalidConstraint},
		{"empty range", "args:\n    a range [,]\n", ErrInvalidConstraint},
		{"unknown type", "args:\n    a number\n", ErrUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := Parse(tt.src)
			assert.Equal(t, 1, len(diags), "%v", diags)
			assert.True(t, errors.Is(diags[0], tt.err))
		})
	}
}

func TestMisplacedArgBlock(t *testing.T) {
	file, diags := Parse("x = 1\nargs:\n    a int\n")

	assert.Equal(t, 1, len(diags))
	assert.Equal(t, diag.StructuralWarning, diags[0].Category)
	assert.True(t, errors.Is(diags[0], ErrMisplacedArgBlock))
	assert.False(t, diags.HasErrors())

	assert.Zero(t, file.Args)
	assert.Equal(t, 2, len(file.Stmts))
	assert.Equal(t, 1, len(as[*ast.ArgBlock](t, file.Stmts[1]).Stmts))
}

func TestRadBlock(t *testing.T) {
	file := parseClean(t, `rad url:
    fields name, age
    sort age desc, name
    name, age:
        color "red" "^A"
        map x -> upper(x)
    if show_all:
        sort asc
    else:
        fields name
display:
    fields name
    sort
`)

	block := as[*ast.RadBlock](t, file.Stmts[0])
	assert.Equal(t, ast.RadBlockRad, block.Type)
	assert.Equal(t, "url", sexpr(block.Source))
	assert.Equal(t, 4, len(block.Stmts))

	fields := as[*ast.RadFields](t, block.Stmts[0])
	assert.Equal(t, 2, len(fields.Names))

	sort := as[*ast.RadSort](t, block.Stmts[1])
	assert.Equal(t, 2, len(sort.Specs))
	assert.Equal(t, "desc", sort.Specs[0].Direction)
	assert.Equal(t, "", sort.Specs[1].Direction)

	mod := as[*ast.RadFieldModifier](t, block.Stmts[2])
	assert.Equal(t, 2, len(mod.Targets))
	assert.Equal(t, 2, len(mod.Mods))

	color := as[*ast.RadColor](t, mod.Mods[0])
	assert.Equal(t, `"red"`, sexpr(color.Color))
	assert.Equal(t, `"^A"`, sexpr(color.Pattern))
	assert.Equal(t, "(-> x (call upper x))", sexpr(as[*ast.RadMap](t, mod.Mods[1]).Lambda))

	radIf := as[*ast.RadIf](t, block.Stmts[3])
	assert.Equal(t, 1, len(radIf.Branches))
	assert.Equal(t, "asc", as[*ast.RadSort](t, radIf.Branches[0].Stmts[0]).Direction)
	assert.Equal(t, 1, len(radIf.Else))

	display := as[*ast.RadBlock](t, file.Stmts[1])
	assert.Equal(t, ast.RadBlockDisplay, display.Type)
	assert.Zero(t, display.Source)
	assert.Equal(t, 0, len(as[*ast.RadSort](t, display.Stmts[1]).Specs))
}

func TestRequestBlockNeedsSource(t *testing.T) {
	_, diags := Parse("request:\n    fields a\n")

	assert.Equal(t, 1, len(diags))
	assert.True(t, errors.Is(diags[0], ErrUnexpectedToken))
}

func TestSwitch(t *testing.T) {
	file := parseClean(t, `result = switch mode:
    case "a", "b" -> 1
    case "c":
        yield 2
    default -> 0
switch x:
    case 1:
        print("one")
`)

	sw := as[*ast.SwitchStmt](t, file.Stmts[0])
	assert.Equal(t, 1, len(sw.Targets))
	assert.Equal(t, "mode", sexpr(sw.Discriminant))
	assert.Equal(t, 2, len(sw.Cases))
	assert.Equal(t, 2, len(sw.Cases[0].Keys))
	assert.Equal(t, "1", sexpr(sw.Cases[0].Values[0]))
	assert.Zero(t, sw.Cases[0].Body)

	yield := as[*ast.YieldStmt](t, sw.Cases[1].Body.Stmts[0])
	assert.Equal(t, "2", sexpr(yield.Values[0]))
	assert.Equal(t, "0", sexpr(sw.Default.Values[0]))

	plain := as[*ast.SwitchStmt](t, file.Stmts[1])
	assert.Equal(t, 0, len(plain.Targets))
	assert.Zero(t, plain.Default)
}

func TestSwitchDuplicateDefault(t *testing.T) {
	_, diags := Parse("switch x:\n    default -> 1\n    default -> 2\n")

	assert.Equal(t, 1, len(diags))
	assert.True(t, errors.Is(diags[0], ErrDuplicateDefault))
	assert.Equal(t, 3, diags[0].Span.Start.Line)
}

func TestDefer(t *testing.T) {
	file := parseClean(t, "defer print(\"x\")\nerrdefer:\n    cleanup()\n    log()\n")

	single := as[*ast.DeferBlock](t, file.Stmts[0])
	assert.False(t, single.Errdefer)
	as[*ast.ExprStmt](t, single.Stmt)

	block := as[*ast.DeferBlock](t, file.Stmts[1])
	assert.Equal(t, ast.KindErrdeferBlock, block.Kind())
	assert.Equal(t, 2, len(block.Body.Stmts))
}

func TestJSONPath(t *testing.T) {
	file := parseClean(t, "Name = json[].name\nId = json.items[*].id[2]\nAll = json\nn = json.count + 1\n")

	assert.Equal(t, "json[].name", as[*ast.Assign](t, file.Stmts[0]).JSONPath.String())
	assert.Equal(t, "json.items[*].id[2]", as[*ast.Assign](t, file.Stmts[1]).JSONPath.String())
	assert.Equal(t, "json", as[*ast.Assign](t, file.Stmts[2]).JSONPath.String())

	expr := as[*ast.Assign](t, file.Stmts[3])
	assert.Zero(t, expr.JSONPath)
	assert.Equal(t, "(+ (. json count) 1)", sexpr(expr.Values[0]))
}

func TestPreamble(t *testing.T) {
	file := parseClean(t, "#!/usr/bin/env rad\n---\nAbout this\n---\nx = 1\n")

	assert.Equal(t, "#!/usr/bin/env rad", file.Shebang.Text)
	assert.Equal(t, "About this\n", file.Header.Contents)
	assert.Equal(t, 1, len(file.Stmts))
}

func TestUnterminatedString(t *testing.T) {
	src := `x = "abc`
	file, diags := Parse(src)

	assert.Equal(t, 1, len(diags))
	assert.Equal(t, diag.LexicalError, diags[0].Category)

	lit := as[*ast.StringLit](t, as[*ast.Assign](t, file.Stmts[0]).Values[0])
	assert.Equal(t, 4, lit.Span().Start.Offset)
	assert.Equal(t, len(src), lit.Span().End.Offset)
}

func TestMismatchedDedent(t *testing.T) {
	file, diags := Parse("if a:\n        x = 1\n    y = 2\nz = 3\n")

	assert.Equal(t, 1, len(diags))
	assert.Equal(t, diag.StructuralWarning, diags[0].Category)
	assert.Equal(t, 3, len(file.Stmts))
	assert.Equal(t, 1, len(as[*ast.IfStmt](t, file.Stmts[0]).Branches[0].Body.Stmts))
}

func TestCallArgumentOrder(t *testing.T) {
	_, diags := ParseExpression("f(a, k=1, b)")

	assert.Equal(t, 1, len(diags))
	assert.True(t, errors.Is(diags[0], ErrArgumentOrder))
}

func TestInvalidTargets(t *testing.T) {
	tests := []string{
		"f() = 1\n",
		"1 = x\n",
		"a + b += 1\n",
		"(a) = 2\n",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, diags := Parse(src)
			assert.Equal(t, 1, len(diags))
			assert.True(t, errors.Is(diags[0], ErrInvalidTarget))
		})
	}
}

func TestDepthLimit(t *testing.T) {
	src := strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)

	_, diags := ParseExpression(src, Options{MaxDepth: 50})
	assert.Equal(t, 1, len(diags))
	assert.True(t, errors.Is(diags[0], ErrNestingTooDeep))

	x, diags := ParseExpression(src)
	assert.Equal(t, 0, len(diags))
	assert.Equal(t, ast.KindParenExpr, x.Kind())
}

func TestCleanScriptSpans(t *testing.T) {
	src := `#!/usr/bin/env rad
---
Prints users.
---
args:
    name "user" u string # who
    limit int = 10

users = [u for u in load(limit) if u.active]
total = 0
for i, u in users:
    total += u.age
    if u.age > 30 and not u.admin:
        print("{i:>3}: {u.name}")
    else if u.admin:
        continue
    else:
        break
while total > 0:
    total--
defer print("done")
unsafe $ "echo {name}"
code = $ "ls"
fail:
    exit(1)
label = total > 10 ? "many" : "few"
Name = json[].name
rad url:
    fields Name
    sort Name asc
`
	file := parseClean(t, src)
	assert.Equal(t, 10, len(file.Stmts))

	parents := ast.Parents(file)
	for n := range ast.All(file) {
		assert.NotEqual(t, ast.KindError, n.Kind())

		span := n.Span()
		assert.True(t, span.Start.Offset <= span.End.Offset, "%s at %s", n.Kind(), span)

		if parent := parents[n]; parent != nil {
			outer := parent.Span()
			assert.True(t, outer.Start.Offset <= span.Start.Offset && span.End.Offset <= outer.End.Offset,
				"%s %d-%d outside %s %d-%d", n.Kind(), span.Start.Offset, span.End.Offset,
				parent.Kind(), outer.Start.Offset, outer.End.Offset)
		}
	}
}
