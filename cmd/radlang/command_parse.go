package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/shibukawa/radlang"
	"github.com/shibukawa/radlang/ast"
	"github.com/shibukawa/radlang/diag"
	"github.com/shibukawa/radlang/formatter"
	"github.com/shibukawa/radlang/parser"
	"github.com/shibukawa/radlang/tokenizer"
)

// ParseCmd represents the parse command
type ParseCmd struct {
	File   string `arg:"" help:"Script file (- for stdin)"`
	Format string `short:"f" help:"Dump format: yaml or json (default: output.format)"`
	Spans  bool   `short:"s" help:"Include line:column spans"`
	Expr   bool   `short:"e" help:"Parse the input as a single expression"`
}

// Run executes the parse command
func (cmd *ParseCmd) Run(ctx *Context) error {
	src, err := readSource(cmd.File)
	if err != nil {
		return err
	}

	var (
		node  ast.Node
		diags diag.List
	)

	if cmd.Expr {
		node, diags = parser.ParseExpression(src, ctx.Config.ParserOptions())
	} else {
		node, diags = parser.Parse(src, ctx.Config.ParserOptions())
	}

	format := cmd.Format
	if format == "" {
		format = ctx.Config.Output.Format
	}

	opts := formatter.DumpOptions{Spans: cmd.Spans || ctx.Config.Output.Spans}

	switch format {
	case "json":
		err = formatter.DumpJSON(ctx.Stdout, node, opts)
	case "yaml":
		err = formatter.DumpYAML(ctx.Stdout, node, opts)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	if err != nil {
		return err
	}

	return reportDiagnostics(ctx, cmd.File, src, diags)
}

// TokensCmd represents the tokens command
type TokensCmd struct {
	File     string `arg:"" help:"Script file (- for stdin)"`
	Comments bool   `help:"Include comment tokens" negatable:"" default:"true"`
}

// Run executes the tokens command
func (cmd *TokensCmd) Run(ctx *Context) error {
	src, err := readSource(cmd.File)
	if err != nil {
		return err
	}

	tok := tokenizer.NewTokenizer(src, tokenizer.Options{
		TabWidth:     ctx.Config.Parse.TabWidth,
		MaxNesting:   ctx.Config.Parse.MaxNesting,
		SkipComments: !cmd.Comments,
	})

	var data [][]string

	for _, t := range tok.AllTokens() {
		data = append(data, []string{t.Pos().String(), t.Type.String(), strconv.Quote(t.Value)})
	}

	table := tablewriter.NewWriter(ctx.Stdout)
	table.SetHeader([]string{"POS", "TYPE", "VALUE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return reportDiagnostics(ctx, cmd.File, src, tok.Diagnostics())
}

// reportDiagnostics renders diags to stderr and turns them into an error so
// the process exits non-zero.
func reportDiagnostics(ctx *Context, filename, src string, diags diag.List) error {
	if len(diags) == 0 {
		return nil
	}

	if err := diag.RenderAll(ctx.Stderr, filename, src, diags); err != nil {
		return err
	}

	return fmt.Errorf("%w: %d errors, %d warnings", radlang.ErrDiagnostics, len(diags.Errors()), len(diags.Warnings()))
}
