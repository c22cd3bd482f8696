// Package ast defines the syntax tree produced by the rad parser.
//
// Every node is one of a closed set of concrete types. Nodes expose their
// kind, their source span and their children as ordered named fields, which
// is enough to walk, dump or print a tree without a type switch.
package ast

import (
	"github.com/shibukawa/radlang/diag"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() Kind
	Span() diag.Span
	Fields() []Field
}

// Field is a named, ordered group of child nodes.
type Field struct {
	Name  string
	Nodes []Node
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// ArgStmt is a declaration or constraint inside an args block.
type ArgStmt interface {
	Node
	argStmtNode()
}

// RadStmt is a statement inside a rad, request or display block.
type RadStmt interface {
	Node
	radStmtNode()
}

// FieldMod is a modifier inside a rad field-modifier block.
type FieldMod interface {
	Node
	fieldModNode()
}

// StringPart is one piece of a string literal.
type StringPart interface {
	Node
	stringPartNode()
}

// Base carries the span shared by all nodes.
type Base struct {
	Loc diag.Span
}

// At returns a Base located at span.
func At(span diag.Span) Base {
	return Base{Loc: span}
}

// Span returns the source range of the node.
func (b Base) Span() diag.Span {
	return b.Loc
}

// Bad marks a region that failed to parse. It stands in for any
// expression, statement, arg statement, rad statement or field modifier.
type Bad struct {
	Base
}

func (*Bad) Kind() Kind      { return KindError }
func (*Bad) Fields() []Field { return nil }
func (*Bad) exprNode()       {}
func (*Bad) stmtNode()       {}
func (*Bad) argStmtNode()    {}
func (*Bad) radStmtNode()    {}
func (*Bad) fieldModNode()   {}

func list[T Node](xs []T) []Node {
	out := make([]Node, 0, len(xs))
	for _, x := range xs {
		out = append(out, x)
	}

	return out
}

func opt[T interface {
	Node
	comparable
}](n T) []Node {
	var zero T
	if n == zero {
		return nil
	}

	return []Node{n}
}

func field(name string, nodes []Node) Field {
	return Field{Name: name, Nodes: nodes}
}
