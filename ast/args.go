package ast

// ArgBlock is the args: block declaring command-line parameters.
type ArgBlock struct {
	Base
	Stmts []ArgStmt
}

// ArgDecl declares one parameter:
//
//	name ["rename"] [x] type [= default] [# comment]
type ArgDecl struct {
	Base
	Name      *Identifier
	Rename    *StringLit
	Shorthand *Identifier
	Type      *ArgType
	Default   Expr
	Comment   *ArgComment
}

// ArgType is one of string, int, float, bool, optionally as a list.
type ArgType struct {
	Base
	Name string
	List bool
}

// String returns the type as written, e.g. int[].
func (t *ArgType) String() string {
	if t.List {
		return t.Name + "[]"
	}

	return t.Name
}

// ArgComment is the # description trailing a declaration.
type ArgComment struct {
	Base
	Text string
}

// ArgEnumConstraint is name enum ["a", "b"].
type ArgEnumConstraint struct {
	Base
	Arg    *Identifier
	Values *ListLit
}

// ArgRegexConstraint is name regex "pattern".
type ArgRegexConstraint struct {
	Base
	Arg     *Identifier
	Pattern *StringLit
}

// ArgRangeConstraint is name range [min, max]. Brackets are inclusive and
// parentheses exclusive; either bound may be omitted.
type ArgRangeConstraint struct {
	Base
	Arg          *Identifier
	Min          Expr
	Max          Expr
	MinInclusive bool
	MaxInclusive bool
}

// ArgRequiresConstraint is name [mutually] requires a, b.
type ArgRequiresConstraint struct {
	Base
	Arg     *Identifier
	Mutual  bool
	Targets []*Identifier
}

// ArgExcludesConstraint is name [mutually] excludes a, b.
type ArgExcludesConstraint struct {
	Base
	Arg     *Identifier
	Mutual  bool
	Targets []*Identifier
}

func (*ArgBlock) Kind() Kind              { return KindArgBlock }
func (*ArgDecl) Kind() Kind               { return KindArgDecl }
func (*ArgType) Kind() Kind               { return KindArgType }
func (*ArgComment) Kind() Kind            { return KindArgComment }
func (*ArgEnumConstraint) Kind() Kind     { return KindArgEnumConstraint }
func (*ArgRegexConstraint) Kind() Kind    { return KindArgRegexConstraint }
func (*ArgRangeConstraint) Kind() Kind    { return KindArgRangeConstraint }
func (*ArgRequiresConstraint) Kind() Kind { return KindArgRequiresConstraint }
func (*ArgExcludesConstraint) Kind() Kind { return KindArgExcludesConstraint }

func (b *ArgBlock) Fields() []Field {
	return []Field{field("stmts", list(b.Stmts))}
}

func (d *ArgDecl) Fields() []Field {
	return []Field{
		field("name", opt(d.Name)),
		field("rename", opt(d.Rename)),
		field("shorthand", opt(d.Shorthand)),
		field("type", opt(d.Type)),
		field("default", opt(d.Default)),
		field("comment", opt(d.Comment)),
	}
}

func (*ArgType) Fields() []Field    { return nil }
func (*ArgComment) Fields() []Field { return nil }

func (c *ArgEnumConstraint) Fields() []Field {
	return []Field{field("arg", opt(c.Arg)), field("values", opt(c.Values))}
}

func (c *ArgRegexConstraint) Fields() []Field {
	return []Field{field("arg", opt(c.Arg)), field("regex", opt(c.Pattern))}
}

func (c *ArgRangeConstraint) Fields() []Field {
	return []Field{field("arg", opt(c.Arg)), field("min", opt(c.Min)), field("max", opt(c.Max))}
}

func (c *ArgRequiresConstraint) Fields() []Field {
	return []Field{field("arg", opt(c.Arg)), field("targets", list(c.Targets))}
}

func (c *ArgExcludesConstraint) Fields() []Field {
	return []Field{field("arg", opt(c.Arg)), field("targets", list(c.Targets))}
}

func (*ArgDecl) argStmtNode()               {}
func (*ArgEnumConstraint) argStmtNode()     {}
func (*ArgRegexConstraint) argStmtNode()    {}
func (*ArgRangeConstraint) argStmtNode()    {}
func (*ArgRequiresConstraint) argStmtNode() {}
func (*ArgExcludesConstraint) argStmtNode() {}
