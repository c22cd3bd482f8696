package ast

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Identifier is a bare name. Contextual words such as json or unsafe are
// identifiers too; their role depends on position.
type Identifier struct {
	Base
	Name string
}

// IntLit is an integer literal. Raw keeps the source spelling, which
// includes a folded leading minus for negative arg defaults.
type IntLit struct {
	Base
	Value int64
	Raw   string
}

// FloatLit is a float literal held as an exact decimal.
type FloatLit struct {
	Base
	Value decimal.Decimal
	Raw   string
}

// BoolLit is true or false.
type BoolLit struct {
	Base
	Value bool
}

// StringLit is a quoted string made of literal runs, escapes and interpolations.
type StringLit struct {
	Base
	Quote string // ", ', ` or """
	Raw   bool   // r prefix: no escapes, no interpolation
	Parts []StringPart
}

// Text returns the decoded value of a string without interpolations.
// ok is false when the string interpolates.
func (s *StringLit) Text() (text string, ok bool) {
	var sb strings.Builder
	for _, part := range s.Parts {
		switch p := part.(type) {
		case *StringContent:
			sb.WriteString(p.Text)
		case *Escape:
			sb.WriteString(p.Decoded())
		default:
			return "", false
		}
	}

	return sb.String(), true
}

// StringContent is a literal run of characters.
type StringContent struct {
	Base
	Text string
}

// Escape is a backslash escape such as \n or \{.
type Escape struct {
	Base
	Seq string
}

// Decoded returns the character the escape stands for.
func (e *Escape) Decoded() string {
	switch e.Seq {
	case `\n`:
		return "\n"
	case `\t`:
		return "\t"
	default:
		return strings.TrimPrefix(e.Seq, `\`)
	}
}

// Interpolation is a {expr} or {expr:format} segment.
type Interpolation struct {
	Base
	X      Expr
	Format *FormatSpec
}

// FormatSpec is the part after ':' in an interpolation, e.g. <10.2.
type FormatSpec struct {
	Base
	Align     string // "", "<" or ">"
	Padding   *IntLit
	Precision *IntLit
}

// ListLit is [a, b, c].
type ListLit struct {
	Base
	Elems []Expr
}

// MapLit is {k: v, ...}.
type MapLit struct {
	Base
	Entries []*MapEntry
}

// MapEntry is one key: value pair.
type MapEntry struct {
	Base
	Key   Expr
	Value Expr
}

// ListComprehension is [expr for a, b in iter if cond].
type ListComprehension struct {
	Base
	Elem Expr
	Vars []*Identifier
	Iter Expr
	Cond Expr
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Base
	X Expr
}

// UnaryOp is a prefix + or -.
type UnaryOp struct {
	Base
	Op string
	X  Expr
}

// NotOp is a prefix not.
type NotOp struct {
	Base
	X Expr
}

// BinaryOp is an arithmetic operation.
type BinaryOp struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

// Comparison is one of < <= == != >= > in "not in".
type Comparison struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

// BoolOp is and / or.
type BoolOp struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

// Ternary is cond ? then : else.
type Ternary struct {
	Base
	Cond Expr
	Then Expr
	Else Expr
}

// Call is name(args).
type Call struct {
	Base
	Func  *Identifier
	Args  []Expr
	Named []*NamedArg
}

// NamedArg is name=value inside an argument list.
type NamedArg struct {
	Base
	Name  *Identifier
	Value Expr
}

// IndexExpr is x[i].
type IndexExpr struct {
	Base
	X     Expr
	Index Expr
}

// SliceExpr is x[a:b]; either bound may be nil.
type SliceExpr struct {
	Base
	X     Expr
	Start Expr
	End   Expr
}

// FieldAccess is x.name.
type FieldAccess struct {
	Base
	X    Expr
	Name *Identifier
}

// MethodCall is x.name(args).
type MethodCall struct {
	Base
	X      Expr
	Method *Identifier
	Args   []Expr
	Named  []*NamedArg
}

// Lambda is param -> body.
type Lambda struct {
	Base
	Param *Identifier
	Body  Expr
}

// ShellText is a shell command line kept verbatim because it is not an expression.
type ShellText struct {
	Base
	Text string
}

// JSONPath is the right-hand side of a json field assignment, e.g. json.items[].name.
type JSONPath struct {
	Base
	Segments []*JSONPathSegment
}

// String renders the path the way it is written.
func (j *JSONPath) String() string {
	var sb strings.Builder
	for i, seg := range j.Segments {
		if i > 0 {
			sb.WriteByte('.')
		}

		sb.WriteString(seg.Name)

		for _, idx := range seg.Indexers {
			sb.WriteString(idx.String())
		}
	}

	return sb.String()
}

// JSONPathSegment is a key (or *) with its trailing indexers.
type JSONPathSegment struct {
	Base
	Name     string
	Indexers []*JSONPathIndexer
}

// JSONPathIndexer is [], [*] or [n].
type JSONPathIndexer struct {
	Base
	Wildcard bool
	Index    *IntLit
}

// String returns the bracketed form.
func (i *JSONPathIndexer) String() string {
	switch {
	case i.Wildcard:
		return "[*]"
	case i.Index != nil:
		return "[" + i.Index.Raw + "]"
	default:
		return "[]"
	}
}

func (*Identifier) Kind() Kind        { return KindIdentifier }
func (*IntLit) Kind() Kind            { return KindInt }
func (*FloatLit) Kind() Kind          { return KindFloat }
func (*BoolLit) Kind() Kind           { return KindBool }
func (*StringLit) Kind() Kind         { return KindString }
func (*StringContent) Kind() Kind     { return KindStringContent }
func (*Escape) Kind() Kind            { return KindEscape }
func (*Interpolation) Kind() Kind     { return KindInterpolation }
func (*FormatSpec) Kind() Kind        { return KindFormatSpec }
func (*ListLit) Kind() Kind           { return KindList }
func (*MapLit) Kind() Kind            { return KindMap }
func (*MapEntry) Kind() Kind          { return KindMapEntry }
func (*ListComprehension) Kind() Kind { return KindListComprehension }
func (*ParenExpr) Kind() Kind         { return KindParenExpr }
func (*UnaryOp) Kind() Kind           { return KindUnaryOp }
func (*NotOp) Kind() Kind             { return KindNotOp }
func (*BinaryOp) Kind() Kind          { return KindBinaryOp }
func (*Comparison) Kind() Kind        { return KindComparison }
func (*BoolOp) Kind() Kind            { return KindBoolOp }
func (*Ternary) Kind() Kind           { return KindTernary }
func (*Call) Kind() Kind              { return KindCall }
func (*NamedArg) Kind() Kind          { return KindNamedArg }
func (*IndexExpr) Kind() Kind         { return KindIndex }
func (*SliceExpr) Kind() Kind         { return KindSlice }
func (*FieldAccess) Kind() Kind       { return KindFieldAccess }
func (*MethodCall) Kind() Kind        { return KindMethodCall }
func (*Lambda) Kind() Kind            { return KindLambda }
func (*ShellText) Kind() Kind         { return KindShellText }
func (*JSONPath) Kind() Kind          { return KindJSONPath }
func (*JSONPathSegment) Kind() Kind   { return KindJSONPathSegment }
func (*JSONPathIndexer) Kind() Kind   { return KindJSONPathIndexer }

func (*Identifier) Fields() []Field    { return nil }
func (*IntLit) Fields() []Field        { return nil }
func (*FloatLit) Fields() []Field      { return nil }
func (*BoolLit) Fields() []Field       { return nil }
func (*StringContent) Fields() []Field { return nil }
func (*Escape) Fields() []Field        { return nil }
func (*ShellText) Fields() []Field     { return nil }

func (s *StringLit) Fields() []Field {
	return []Field{field("parts", list(s.Parts))}
}

func (i *Interpolation) Fields() []Field {
	return []Field{field("expr", opt(i.X)), field("format", opt(i.Format))}
}

func (f *FormatSpec) Fields() []Field {
	return []Field{field("padding", opt(f.Padding)), field("precision", opt(f.Precision))}
}

func (l *ListLit) Fields() []Field {
	return []Field{field("elements", list(l.Elems))}
}

func (m *MapLit) Fields() []Field {
	return []Field{field("entries", list(m.Entries))}
}

func (e *MapEntry) Fields() []Field {
	return []Field{field("key", opt(e.Key)), field("value", opt(e.Value))}
}

func (c *ListComprehension) Fields() []Field {
	return []Field{
		field("expr", opt(c.Elem)),
		field("vars", list(c.Vars)),
		field("iter", opt(c.Iter)),
		field("condition", opt(c.Cond)),
	}
}

func (p *ParenExpr) Fields() []Field {
	return []Field{field("expr", opt(p.X))}
}

func (u *UnaryOp) Fields() []Field {
	return []Field{field("arg", opt(u.X))}
}

func (n *NotOp) Fields() []Field {
	return []Field{field("arg", opt(n.X))}
}

func (b *BinaryOp) Fields() []Field {
	return []Field{field("left", opt(b.Left)), field("right", opt(b.Right))}
}

func (c *Comparison) Fields() []Field {
	return []Field{field("left", opt(c.Left)), field("right", opt(c.Right))}
}

func (b *BoolOp) Fields() []Field {
	return []Field{field("left", opt(b.Left)), field("right", opt(b.Right))}
}

func (t *Ternary) Fields() []Field {
	return []Field{
		field("condition", opt(t.Cond)),
		field("true_branch", opt(t.Then)),
		field("false_branch", opt(t.Else)),
	}
}

func (c *Call) Fields() []Field {
	return []Field{
		field("func", opt(c.Func)),
		field("args", list(c.Args)),
		field("named_args", list(c.Named)),
	}
}

func (n *NamedArg) Fields() []Field {
	return []Field{field("name", opt(n.Name)), field("value", opt(n.Value))}
}

func (i *IndexExpr) Fields() []Field {
	return []Field{field("root", opt(i.X)), field("index", opt(i.Index))}
}

func (s *SliceExpr) Fields() []Field {
	return []Field{field("root", opt(s.X)), field("start", opt(s.Start)), field("end", opt(s.End))}
}

func (f *FieldAccess) Fields() []Field {
	return []Field{field("root", opt(f.X)), field("field", opt(f.Name))}
}

func (m *MethodCall) Fields() []Field {
	return []Field{
		field("root", opt(m.X)),
		field("method", opt(m.Method)),
		field("args", list(m.Args)),
		field("named_args", list(m.Named)),
	}
}

func (l *Lambda) Fields() []Field {
	return []Field{field("param", opt(l.Param)), field("body", opt(l.Body))}
}

func (j *JSONPath) Fields() []Field {
	return []Field{field("segments", list(j.Segments))}
}

func (s *JSONPathSegment) Fields() []Field {
	return []Field{field("indexers", list(s.Indexers))}
}

func (i *JSONPathIndexer) Fields() []Field {
	return []Field{field("index", opt(i.Index))}
}

func (*Identifier) exprNode()        {}
func (*IntLit) exprNode()            {}
func (*FloatLit) exprNode()          {}
func (*BoolLit) exprNode()           {}
func (*StringLit) exprNode()         {}
func (*ListLit) exprNode()           {}
func (*MapLit) exprNode()            {}
func (*ListComprehension) exprNode() {}
func (*ParenExpr) exprNode()         {}
func (*UnaryOp) exprNode()           {}
func (*NotOp) exprNode()             {}
func (*BinaryOp) exprNode()          {}
func (*Comparison) exprNode()        {}
func (*BoolOp) exprNode()            {}
func (*Ternary) exprNode()           {}
func (*Call) exprNode()              {}
func (*IndexExpr) exprNode()         {}
func (*SliceExpr) exprNode()         {}
func (*FieldAccess) exprNode()       {}
func (*MethodCall) exprNode()        {}
func (*Lambda) exprNode()            {}
func (*ShellText) exprNode()         {}

func (*StringContent) stringPartNode() {}
func (*Escape) stringPartNode()        {}
func (*Interpolation) stringPartNode() {}
