package ast

// SourceFile is the root of every parse.
type SourceFile struct {
	Base
	Shebang *Shebang
	Header  *FileHeader
	Args    *ArgBlock
	Stmts   []Stmt
}

// Shebang is the #! first line.
type Shebang struct {
	Base
	Text string
}

// FileHeader holds the verbatim text between the --- fences.
type FileHeader struct {
	Base
	Contents string
}

// Block is the indented body after a colon.
type Block struct {
	Base
	Stmts []Stmt
}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	Base
	X Expr
}

// Assign is a, b = x, y or a = json.path.
type Assign struct {
	Base
	Targets  []Expr
	Values   []Expr
	JSONPath *JSONPath
}

// CompoundAssign is a += x and friends. Op is the operator without '='.
type CompoundAssign struct {
	Base
	Target Expr
	Op     string
	Value  Expr
}

// IncrDecr is a++ or a--.
type IncrDecr struct {
	Base
	Target Expr
	Op     string
}

// ShellMode is the safety level of a shell command.
type ShellMode int

const (
	// ShellChecked is `$ cmd` followed by a required fail or recover block.
	ShellChecked ShellMode = iota
	// ShellUnsafe is `unsafe $ cmd`; failures are ignored.
	ShellUnsafe
	// ShellCritical is `$! cmd`; failures abort the script.
	ShellCritical
)

// String returns the string representation of ShellMode
func (m ShellMode) String() string {
	switch m {
	case ShellChecked:
		return "checked"
	case ShellUnsafe:
		return "unsafe"
	case ShellCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShellCmd runs an external command.
type ShellCmd struct {
	Base
	Targets   []Expr
	Modifiers []*ShellModifier
	Mode      ShellMode
	Command   Expr
	Handler   *ShellHandler
}

// HasModifier reports whether name appears among the modifiers.
func (s *ShellCmd) HasModifier(name string) bool {
	for _, m := range s.Modifiers {
		if m.Name == name {
			return true
		}
	}

	return false
}

// ShellModifier is quiet, confirm or unsafe.
type ShellModifier struct {
	Base
	Name string
}

// ShellHandler is the fail: or recover: block of a checked command.
type ShellHandler struct {
	Base
	Recover bool
	Body    *Block
}

// Keyword returns "fail" or "recover".
func (h *ShellHandler) Keyword() string {
	if h.Recover {
		return "recover"
	}

	return "fail"
}

// DelStmt is del a, b[0].
type DelStmt struct {
	Base
	Targets []Expr
}

// BreakStmt is break.
type BreakStmt struct {
	Base
}

// ContinueStmt is continue.
type ContinueStmt struct {
	Base
}

// YieldStmt is yield a, b.
type YieldStmt struct {
	Base
	Values []Expr
}

// IfStmt is an if / else if / else chain.
type IfStmt struct {
	Base
	Branches []*IfBranch
	Else     *Block
}

// IfBranch is one condition and its body.
type IfBranch struct {
	Base
	Cond Expr
	Body *Block
}

// ForLoop is for a, b in iter: body.
type ForLoop struct {
	Base
	Vars []*Identifier
	Iter Expr
	Body *Block
}

// WhileLoop is while cond: body. A nil Cond loops forever.
type WhileLoop struct {
	Base
	Cond Expr
	Body *Block
}

// SwitchStmt is [targets =] switch discriminant: cases.
type SwitchStmt struct {
	Base
	Targets      []Expr
	Discriminant Expr
	Cases        []*SwitchCase
	Default      *SwitchDefault
}

// SwitchCase is case k1, k2 -> v1, v2 or case k1, k2: body.
type SwitchCase struct {
	Base
	Keys   []Expr
	Values []Expr
	Body   *Block
}

// SwitchDefault is default -> v or default: body.
type SwitchDefault struct {
	Base
	Values []Expr
	Body   *Block
}

// DeferBlock is defer or errdefer with one statement or a block.
type DeferBlock struct {
	Base
	Errdefer bool
	Stmt     Stmt
	Body     *Block
}

func (*SourceFile) Kind() Kind     { return KindSourceFile }
func (*Shebang) Kind() Kind        { return KindShebang }
func (*FileHeader) Kind() Kind     { return KindFileHeader }
func (*Block) Kind() Kind          { return KindBlock }
func (*ExprStmt) Kind() Kind       { return KindExprStmt }
func (*Assign) Kind() Kind         { return KindAssign }
func (*CompoundAssign) Kind() Kind { return KindCompoundAssign }
func (*IncrDecr) Kind() Kind       { return KindIncrDecr }
func (*ShellCmd) Kind() Kind       { return KindShellCmd }
func (*ShellModifier) Kind() Kind  { return KindShellModifier }
func (*ShellHandler) Kind() Kind   { return KindShellHandler }
func (*DelStmt) Kind() Kind        { return KindDelStmt }
func (*BreakStmt) Kind() Kind      { return KindBreakStmt }
func (*ContinueStmt) Kind() Kind   { return KindContinueStmt }
func (*YieldStmt) Kind() Kind      { return KindYieldStmt }
func (*IfStmt) Kind() Kind         { return KindIfStmt }
func (*IfBranch) Kind() Kind       { return KindIfBranch }
func (*ForLoop) Kind() Kind        { return KindForLoop }
func (*WhileLoop) Kind() Kind      { return KindWhileLoop }
func (*SwitchStmt) Kind() Kind     { return KindSwitchStmt }
func (*SwitchCase) Kind() Kind     { return KindSwitchCase }
func (*SwitchDefault) Kind() Kind  { return KindSwitchDefault }

func (d *DeferBlock) Kind() Kind {
	if d.Errdefer {
		return KindErrdeferBlock
	}

	return KindDeferBlock
}

func (f *SourceFile) Fields() []Field {
	return []Field{
		field("shebang", opt(f.Shebang)),
		field("header", opt(f.Header)),
		field("args", opt(f.Args)),
		field("stmts", list(f.Stmts)),
	}
}

func (*Shebang) Fields() []Field       { return nil }
func (*FileHeader) Fields() []Field    { return nil }
func (*ShellModifier) Fields() []Field { return nil }
func (*BreakStmt) Fields() []Field     { return nil }
func (*ContinueStmt) Fields() []Field  { return nil }

func (b *Block) Fields() []Field {
	return []Field{field("stmts", list(b.Stmts))}
}

func (s *ExprStmt) Fields() []Field {
	return []Field{field("expr", opt(s.X))}
}

func (a *Assign) Fields() []Field {
	return []Field{
		field("left", list(a.Targets)),
		field("right", list(a.Values)),
		field("json_path", opt(a.JSONPath)),
	}
}

func (a *CompoundAssign) Fields() []Field {
	return []Field{field("left", opt(a.Target)), field("right", opt(a.Value))}
}

func (s *IncrDecr) Fields() []Field {
	return []Field{field("left", opt(s.Target))}
}

func (s *ShellCmd) Fields() []Field {
	return []Field{
		field("left", list(s.Targets)),
		field("modifiers", list(s.Modifiers)),
		field("command", opt(s.Command)),
		field("handler", opt(s.Handler)),
	}
}

func (h *ShellHandler) Fields() []Field {
	return []Field{field("body", opt(h.Body))}
}

func (d *DelStmt) Fields() []Field {
	return []Field{field("targets", list(d.Targets))}
}

func (y *YieldStmt) Fields() []Field {
	return []Field{field("values", list(y.Values))}
}

func (s *IfStmt) Fields() []Field {
	return []Field{field("branches", list(s.Branches)), field("else", opt(s.Else))}
}

func (b *IfBranch) Fields() []Field {
	return []Field{field("condition", opt(b.Cond)), field("body", opt(b.Body))}
}

func (f *ForLoop) Fields() []Field {
	return []Field{field("vars", list(f.Vars)), field("iter", opt(f.Iter)), field("body", opt(f.Body))}
}

func (w *WhileLoop) Fields() []Field {
	return []Field{field("condition", opt(w.Cond)), field("body", opt(w.Body))}
}

func (s *SwitchStmt) Fields() []Field {
	return []Field{
		field("left", list(s.Targets)),
		field("discriminant", opt(s.Discriminant)),
		field("cases", list(s.Cases)),
		field("default", opt(s.Default)),
	}
}

func (c *SwitchCase) Fields() []Field {
	return []Field{field("keys", list(c.Keys)), field("values", list(c.Values)), field("body", opt(c.Body))}
}

func (d *SwitchDefault) Fields() []Field {
	return []Field{field("values", list(d.Values)), field("body", opt(d.Body))}
}

func (d *DeferBlock) Fields() []Field {
	return []Field{field("stmt", opt(d.Stmt)), field("body", opt(d.Body))}
}

func (*ExprStmt) stmtNode()       {}
func (*Assign) stmtNode()         {}
func (*CompoundAssign) stmtNode() {}
func (*IncrDecr) stmtNode()       {}
func (*ShellCmd) stmtNode()       {}
func (*DelStmt) stmtNode()        {}
func (*BreakStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode()   {}
func (*YieldStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*ForLoop) stmtNode()        {}
func (*WhileLoop) stmtNode()      {}
func (*SwitchStmt) stmtNode()     {}
func (*DeferBlock) stmtNode()     {}
func (*RadBlock) stmtNode()       {}
func (*ArgBlock) stmtNode()       {}
