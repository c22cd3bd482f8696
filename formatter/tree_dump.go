package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/shibukawa/radlang/ast"
)

// TreeNode is a serializable view of an AST node.
type TreeNode struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Span   string            `json:"span,omitempty" yaml:"span,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Fields []TreeField       `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// TreeField is a named child slot of a TreeNode.
type TreeField struct {
	Name  string      `json:"name" yaml:"name"`
	Nodes []*TreeNode `json:"nodes" yaml:"nodes"`
}

// DumpOptions controls tree dumps.
type DumpOptions struct {
	// Spans adds "line:col-line:col" positions to every node.
	Spans bool
}

// Tree converts n and its descendants.
func Tree(n ast.Node, opts DumpOptions) *TreeNode {
	node := &TreeNode{Kind: n.Kind().String(), Attrs: attrs(n)}

	if opts.Spans {
		span := n.Span()
		node.Span = fmt.Sprintf("%s-%s", span.Start, span.End)
	}

	for _, f := range n.Fields() {
		field := TreeField{Name: f.Name}
		for _, child := range f.Nodes {
			field.Nodes = append(field.Nodes, Tree(child, opts))
		}

		node.Fields = append(node.Fields, field)
	}

	return node
}

// DumpYAML writes the tree of n as YAML.
func DumpYAML(w io.Writer, n ast.Node, opts DumpOptions) error {
	encoder := yaml.NewEncoder(w, yaml.IndentSequence(true))
	defer encoder.Close()

	if err := encoder.Encode(Tree(n, opts)); err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}

	return nil
}

// DumpJSON writes the tree of n as indented JSON.
func DumpJSON(w io.Writer, n ast.Node, opts DumpOptions) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(Tree(n, opts)); err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}

	return nil
}

// attrs returns the scalar properties of n that are not child nodes.
func attrs(n ast.Node) map[string]string {
	switch n := n.(type) {
	case *ast.Identifier:
		return map[string]string{"name": n.Name}
	case *ast.IntLit:
		return map[string]string{"value": n.Raw}
	case *ast.FloatLit:
		return map[string]string{"value": n.Raw}
	case *ast.BoolLit:
		return map[string]string{"value": strconv.FormatBool(n.Value)}
	case *ast.StringLit:
		m := map[string]string{"quote": n.Quote}
		if n.Raw {
			m["raw"] = "true"
		}

		return m
	case *ast.StringContent:
		return map[string]string{"text": n.Text}
	case *ast.Escape:
		return map[string]string{"seq": n.Seq}
	case *ast.FormatSpec:
		if n.Align != "" {
			return map[string]string{"align": n.Align}
		}
	case *ast.UnaryOp:
		return map[string]string{"op": n.Op}
	case *ast.BinaryOp:
		return map[string]string{"op": n.Op}
	case *ast.Comparison:
		return map[string]string{"op": n.Op}
	case *ast.BoolOp:
		return map[string]string{"op": n.Op}
	case *ast.CompoundAssign:
		return map[string]string{"op": n.Op}
	case *ast.IncrDecr:
		return map[string]string{"op": n.Op}
	case *ast.ShellText:
		return map[string]string{"text": n.Text}
	case *ast.ShellCmd:
		return map[string]string{"mode": n.Mode.String()}
	case *ast.ShellModifier:
		return map[string]string{"name": n.Name}
	case *ast.ShellHandler:
		return map[string]string{"keyword": n.Keyword()}
	case *ast.JSONPathSegment:
		return map[string]string{"name": n.Name}
	case *ast.JSONPathIndexer:
		return map[string]string{"index": n.String()}
	case *ast.Shebang:
		return map[string]string{"text": n.Text}
	case *ast.FileHeader:
		return map[string]string{"contents": n.Contents}
	case *ast.ArgType:
		return map[string]string{"type": n.String()}
	case *ast.ArgComment:
		return map[string]string{"text": n.Text}
	case *ast.ArgRangeConstraint:
		return map[string]string{
			"min_inclusive": strconv.FormatBool(n.MinInclusive),
			"max_inclusive": strconv.FormatBool(n.MaxInclusive),
		}
	case *ast.ArgRequiresConstraint:
		return map[string]string{"mutual": strconv.FormatBool(n.Mutual)}
	case *ast.ArgExcludesConstraint:
		return map[string]string{"mutual": strconv.FormatBool(n.Mutual)}
	case *ast.RadBlock:
		return map[string]string{"type": n.Type.String()}
	case *ast.RadSort:
		if n.Direction != "" {
			return map[string]string{"direction": n.Direction}
		}
	case *ast.RadSortSpec:
		if n.Direction != "" {
			return map[string]string{"direction": n.Direction}
		}
	}

	return nil
}
