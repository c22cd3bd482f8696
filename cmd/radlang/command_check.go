package main

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shibukawa/radlang"
	"github.com/shibukawa/radlang/diag"
	"github.com/shibukawa/radlang/formatter"
	"github.com/shibukawa/radlang/markdownparser"
	"github.com/shibukawa/radlang/parser"
)

// CheckCmd represents the check command
type CheckCmd struct {
	Paths    []string `arg:"" optional:"" help:"Files or directories to check (default: current directory)"`
	Parallel int      `short:"p" help:"Number of files parsed concurrently (default: check.parallel)"`
}

// checkUnit is one parsed script: a whole file or a Markdown rad block.
type checkUnit struct {
	source string
	diags  diag.List
}

type checkResult struct {
	path  string
	units []checkUnit
	err   error
}

func (r checkResult) count() (errs, warnings int) {
	for _, u := range r.units {
		errs += len(u.diags.Errors())
		warnings += len(u.diags.Warnings())
	}

	return errs, warnings
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	paths := cmd.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := collectFiles(ctx.Config, paths)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("%w in %v", radlang.ErrNoInputFiles, paths)
	}

	parallel := cmd.Parallel
	if parallel <= 0 {
		parallel = ctx.Config.Check.Parallel
	}

	if ctx.Verbose {
		verboseColor.Fprintf(ctx.Stdout, "Checking %d files with %d workers\n", len(files), parallel)
	}

	results, err := checkFiles(context.Background(), files, ctx.Config.ParserOptions(), parallel)
	if err != nil {
		return err
	}

	var totalErrors, totalWarnings, failedFiles int

	for _, result := range results {
		if result.err != nil {
			failureColor.Fprintf(ctx.Stderr, "%s: %v\n", result.path, result.err)

			failedFiles++

			continue
		}

		for _, unit := range result.units {
			if err := diag.RenderAll(ctx.Stderr, result.path, unit.source, unit.diags); err != nil {
				return err
			}
		}

		errs, warnings := result.count()
		totalErrors += errs
		totalWarnings += warnings

		if ctx.Verbose && errs == 0 && warnings == 0 {
			verboseColor.Fprintf(ctx.Stdout, "ok %s\n", result.path)
		}
	}

	failed := failedFiles > 0 || totalErrors > 0 || (ctx.Config.Check.WarningsAsErrors && totalWarnings > 0)

	if !ctx.Quiet {
		summary := fmt.Sprintf("%d files checked: %d errors, %d warnings", len(files), totalErrors, totalWarnings)

		switch {
		case failed:
			failureColor.Fprintln(ctx.Stdout, summary)
		case totalWarnings > 0:
			warningColor.Fprintln(ctx.Stdout, summary)
		default:
			successColor.Fprintln(ctx.Stdout, summary)
		}
	}

	if failed {
		return fmt.Errorf("%w: %d errors, %d warnings, %d unreadable files", ErrCheckFailed, totalErrors, totalWarnings, failedFiles)
	}

	return nil
}

// checkFiles parses files concurrently. Results keep the order of files;
// a file that cannot be read is reported in its result, not as an error.
func checkFiles(ctx context.Context, files []string, opts parser.Options, parallel int) ([]checkResult, error) {
	results := make([]checkResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = checkFile(path, opts)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func checkFile(path string, opts parser.Options) checkResult {
	result := checkResult{path: path}

	src, err := readSource(path)
	if err != nil {
		result.err = err
		return result
	}

	if !formatter.IsMarkdownFile(path) {
		_, diags := parser.Parse(src, opts)
		result.units = []checkUnit{{source: src, diags: diags}}

		return result
	}

	doc, err := markdownparser.Parse(strings.NewReader(src))
	if err != nil {
		result.err = err
		return result
	}

	for _, block := range doc.Blocks {
		_, diags := block.Parse(opts)
		result.units = append(result.units, checkUnit{source: block.Source, diags: diags})
	}

	return result
}
