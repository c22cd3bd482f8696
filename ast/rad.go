package ast

// RadBlockType distinguishes rad, request and display blocks.
type RadBlockType int

const (
	RadBlockRad RadBlockType = iota
	RadBlockRequest
	RadBlockDisplay
)

// String returns the keyword introducing the block.
func (t RadBlockType) String() string {
	switch t {
	case RadBlockRad:
		return "rad"
	case RadBlockRequest:
		return "request"
	case RadBlockDisplay:
		return "display"
	default:
		return "unknown"
	}
}

// RadBlock describes how fetched data is filtered, sorted and shown.
// Display blocks have no Source.
type RadBlock struct {
	Base
	Type   RadBlockType
	Source Expr
	Stmts  []RadStmt
}

// RadFields is fields a, b, c.
type RadFields struct {
	Base
	Names []*Identifier
}

// RadSort is sort [field [asc|desc]], ... or a bare sort asc|desc.
type RadSort struct {
	Base
	Specs     []*RadSortSpec
	Direction string
}

// RadSortSpec is one field with an optional direction.
type RadSortSpec struct {
	Base
	Field     *Identifier
	Direction string
}

// RadFieldModifier is a, b: followed by color / map modifiers.
type RadFieldModifier struct {
	Base
	Targets []*Identifier
	Mods    []FieldMod
}

// RadColor is color <color> <pattern>.
type RadColor struct {
	Base
	Color   Expr
	Pattern Expr
}

// RadMap is map x -> expr.
type RadMap struct {
	Base
	Lambda *Lambda
}

// RadIf is an if / else if / else chain of rad statements.
type RadIf struct {
	Base
	Branches []*RadIfBranch
	Else     []RadStmt
}

// RadIfBranch is one condition with its rad statements.
type RadIfBranch struct {
	Base
	Cond  Expr
	Stmts []RadStmt
}

func (*RadBlock) Kind() Kind         { return KindRadBlock }
func (*RadFields) Kind() Kind        { return KindRadFields }
func (*RadSort) Kind() Kind          { return KindRadSort }
func (*RadSortSpec) Kind() Kind      { return KindRadSortSpec }
func (*RadFieldModifier) Kind() Kind { return KindRadFieldModifier }
func (*RadColor) Kind() Kind         { return KindRadColor }
func (*RadMap) Kind() Kind           { return KindRadMap }
func (*RadIf) Kind() Kind            { return KindRadIf }
func (*RadIfBranch) Kind() Kind      { return KindRadIfBranch }

func (b *RadBlock) Fields() []Field {
	return []Field{field("source", opt(b.Source)), field("stmts", list(b.Stmts))}
}

func (f *RadFields) Fields() []Field {
	return []Field{field("identifiers", list(f.Names))}
}

func (s *RadSort) Fields() []Field {
	return []Field{field("specifiers", list(s.Specs))}
}

func (s *RadSortSpec) Fields() []Field {
	return []Field{field("field", opt(s.Field))}
}

func (m *RadFieldModifier) Fields() []Field {
	return []Field{field("identifiers", list(m.Targets)), field("mods", list(m.Mods))}
}

func (c *RadColor) Fields() []Field {
	return []Field{field("color", opt(c.Color)), field("regex", opt(c.Pattern))}
}

func (m *RadMap) Fields() []Field {
	return []Field{field("lambda", opt(m.Lambda))}
}

func (r *RadIf) Fields() []Field {
	return []Field{field("branches", list(r.Branches)), field("else", list(r.Else))}
}

func (b *RadIfBranch) Fields() []Field {
	return []Field{field("condition", opt(b.Cond)), field("stmts", list(b.Stmts))}
}

func (*RadFields) radStmtNode()        {}
func (*RadSort) radStmtNode()          {}
func (*RadFieldModifier) radStmtNode() {}
func (*RadIf) radStmtNode()            {}

func (*RadColor) fieldModNode() {}
func (*RadMap) fieldModNode()   {}
