package ast

import (
	"iter"
)

// FieldByName returns the nodes stored under name, or nil when n has no
// such field or the field is empty.
func FieldByName(n Node, name string) []Node {
	for _, f := range n.Fields() {
		if f.Name == name {
			return f.Nodes
		}
	}

	return nil
}

// Children returns the direct children of n in source order of their fields.
func Children(n Node) []Node {
	var out []Node
	for _, f := range n.Fields() {
		out = append(out, f.Nodes...)
	}

	return out
}

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children of
// node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses the tree rooted at node in depth-first order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	for _, child := range Children(node) {
		Walk(v, child)
	}

	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}

	return nil
}

// Inspect calls f for every node in depth-first order. Returning false
// skips the children of that node. f is called with nil after the
// children of a node have been visited.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// All iterates over node and all of its descendants in depth-first order.
func All(node Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var walk func(Node) bool

		walk = func(n Node) bool {
			if !yield(n) {
				return false
			}

			for _, child := range Children(n) {
				if !walk(child) {
					return false
				}
			}

			return true
		}

		walk(node)
	}
}

// Parents maps every node below root to its parent. The tree itself stores
// no parent links.
func Parents(root Node) map[Node]Node {
	parents := make(map[Node]Node)

	var walk func(Node)

	walk = func(n Node) {
		for _, child := range Children(n) {
			parents[child] = n
			walk(child)
		}
	}

	walk(root)

	return parents
}

// Path returns the chain of ancestors of n from the root down to n itself.
func Path(parents map[Node]Node, n Node) []Node {
	var chain []Node
	for cur := n; cur != nil; cur = parents[cur] {
		chain = append(chain, cur)
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return chain
}

// Enclosing returns the innermost node whose span contains offset.
func Enclosing(root Node, offset int) Node {
	var found Node

	Inspect(root, func(n Node) bool {
		if n == nil {
			return false
		}

		span := n.Span()
		if offset < span.Start.Offset || offset > span.End.Offset {
			return false
		}

		found = n

		return true
	})

	return found
}
