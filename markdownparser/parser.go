// Package markdownparser extracts rad scripts from Markdown documents so
// examples in documentation can be checked like standalone scripts.
package markdownparser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	radast "github.com/shibukawa/radlang/ast"
	"github.com/shibukawa/radlang/diag"
	"github.com/shibukawa/radlang/parser"
)

// Sentinel errors
var (
	ErrInvalidFrontMatter = errors.New("invalid front matter")
)

// Language is the info string that marks a fenced block as a rad script.
const Language = "rad"

// Document is a Markdown document with its rad code blocks.
type Document struct {
	Metadata map[string]any
	Title    string
	Blocks   []CodeBlock
}

// CodeBlock is one fenced rad block.
type CodeBlock struct {
	Source    string
	StartLine int    // line of the first script line in the Markdown file
	Heading   string // nearest heading above the block
}

// Parse parses a Markdown document and collects its rad code blocks.
func Parse(reader io.Reader) (*Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	frontMatter, bodyOffset, err := parseFrontMatter(string(content))
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
	)

	body := content[bodyOffset:]
	doc := md.Parser().Parse(text.NewReader(body))

	document := &Document{Metadata: frontMatter}

	var heading string

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			heading = extractText(node, body)
			if node.Level == 1 && document.Title == "" {
				document.Title = heading
			}

			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			if !isRadCodeBlock(node, body) || node.Lines().Len() == 0 {
				return ast.WalkSkipChildren, nil
			}

			first := node.Lines().At(0)
			document.Blocks = append(document.Blocks, CodeBlock{
				Source:    extractCodeBlockContent(node, body),
				StartLine: 1 + strings.Count(string(content[:bodyOffset+first.Start]), "\n"),
				Heading:   heading,
			})

			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk markdown: %w", err)
	}

	return document, nil
}

func isRadCodeBlock(codeBlock *ast.FencedCodeBlock, content []byte) bool {
	if codeBlock.Info == nil {
		return false
	}

	segment := codeBlock.Info.Segment

	return IsRadInfo(string(content[segment.Start:segment.Stop]))
}

// IsRadInfo reports whether a fence info string marks a rad script. Only
// the first word counts, so ```rad title=x is allowed.
func IsRadInfo(info string) bool {
	words := strings.Fields(info)
	return len(words) > 0 && strings.EqualFold(words[0], Language)
}

func extractCodeBlockContent(codeBlock ast.Node, content []byte) string {
	var result strings.Builder

	lines := codeBlock.Lines()
	for i := range lines.Len() {
		line := lines.At(i)
		result.Write(line.Value(content))
	}

	return result.String()
}

func extractText(node ast.Node, content []byte) string {
	var result strings.Builder

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch textNode := n.(type) {
		case *ast.Text:
			result.Write(textNode.Segment.Value(content))
		case *ast.String:
			result.Write(textNode.Value)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(result.String())
}

// Parse parses the block as a rad script. Diagnostic lines are moved to
// the Markdown file; offsets and columns stay relative to Source so the
// diagnostics render against it.
func (b CodeBlock) Parse(options ...parser.Options) (*radast.SourceFile, diag.List) {
	file, diags := parser.Parse(b.Source, options...)

	shift := b.StartLine - 1
	for i := range diags {
		diags[i].Span.Start.Line += shift
		diags[i].Span.End.Line += shift
	}

	return file, diags
}
