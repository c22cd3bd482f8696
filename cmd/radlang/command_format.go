package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shibukawa/radlang/formatter"
)

// FmtCmd represents the fmt command
type FmtCmd struct {
	Input string `arg:"" optional:"" help:"Input file or directory (default: stdin)"`
	Write bool   `short:"w" help:"Write result to input file instead of stdout"`
	Check bool   `short:"c" help:"Check if files are formatted (exit 1 if not)"`
	Diff  bool   `short:"d" help:"Show diff instead of rewriting files"`
}

// Run executes the fmt command
func (cmd *FmtCmd) Run(ctx *Context) error {
	radFormatter := formatter.NewRadFormatter(ctx.Config.ParserOptions())

	if cmd.Input == "" || cmd.Input == "-" {
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		return cmd.formatSource(ctx, radFormatter, string(input), "<stdin>", ctx.Stdout)
	}

	info, err := os.Stat(cmd.Input)
	if err != nil {
		return fmt.Errorf("failed to stat input: %w", err)
	}

	if info.IsDir() {
		return cmd.formatDirectory(ctx, radFormatter, cmd.Input)
	}

	return cmd.formatFile(ctx, radFormatter, cmd.Input)
}

// formatSource formats one file's content and writes it to writer, or
// only compares it in check and diff modes.
func (cmd *FmtCmd) formatSource(ctx *Context, radFormatter *formatter.RadFormatter, input, filename string, writer io.Writer) error {
	var (
		formatted string
		err       error
	)

	if formatter.IsMarkdownFile(filename) {
		formatted, err = formatter.NewMarkdownFormatter().Format(input)
		if err != nil {
			return fmt.Errorf("failed to format Markdown in %s: %w", filename, err)
		}

		formatted += "\n"
	} else {
		formatted, err = radFormatter.Format(input)
		if err != nil {
			return fmt.Errorf("failed to format %s: %w", filename, err)
		}
	}

	if cmd.Check {
		if strings.TrimSpace(input) != strings.TrimSpace(formatted) {
			fmt.Fprintf(ctx.Stderr, "%s is not formatted\n", filename)
			return ErrFileNotFormatted
		}

		return nil
	}

	if cmd.Diff {
		cmd.showDiff(ctx.Stdout, input, formatted, filename)
		return nil
	}

	_, err = io.WriteString(writer, formatted)

	return err
}

// formatFile formats a single file
func (cmd *FmtCmd) formatFile(ctx *Context, radFormatter *formatter.RadFormatter, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}

	if !cmd.Write || cmd.Check || cmd.Diff {
		return cmd.formatSource(ctx, radFormatter, string(data), filename, ctx.Stdout)
	}

	// write to a temporary file first so a failure never truncates the input
	tempFile, err := os.CreateTemp(filepath.Dir(filename), ".radlang-format-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	err = cmd.formatSource(ctx, radFormatter, string(data), filename, tempFile)

	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		os.Remove(tempFile.Name())
		return err
	}

	return os.Rename(tempFile.Name(), filename)
}

// formatDirectory formats all rad and Markdown files in a directory recursively
func (cmd *FmtCmd) formatDirectory(ctx *Context, radFormatter *formatter.RadFormatter, dirPath string) error {
	files, err := collectFiles(ctx.Config, []string{dirPath})
	if err != nil {
		return err
	}

	var hasErrors bool

	for _, path := range files {
		if !isRadFile(path) && !formatter.IsMarkdownFile(path) {
			continue
		}

		err = cmd.formatFile(ctx, radFormatter, path)
		if err != nil {
			fmt.Fprintf(ctx.Stderr, "Error formatting %s: %v\n", path, err)

			hasErrors = true

			continue
		}

		if cmd.Write && !cmd.Check && !cmd.Diff && !ctx.Quiet {
			fmt.Fprintf(ctx.Stdout, "Formatted: %s\n", path)
		}
	}

	if hasErrors {
		return ErrFormattingErrors
	}

	return nil
}

// showDiff shows the difference between original and formatted content
func (cmd *FmtCmd) showDiff(w io.Writer, original, formatted, filename string) {
	if strings.TrimSpace(original) == strings.TrimSpace(formatted) {
		return
	}

	fmt.Fprintf(w, "--- %s (original)\n", filename)
	fmt.Fprintf(w, "+++ %s (formatted)\n", filename)

	originalLines := strings.Split(original, "\n")
	formattedLines := strings.Split(formatted, "\n")

	for i := range max(len(originalLines), len(formattedLines)) {
		var origLine, formLine string

		if i < len(originalLines) {
			origLine = originalLines[i]
		}

		if i < len(formattedLines) {
			formLine = formattedLines[i]
		}

		if origLine != formLine {
			if origLine != "" {
				fmt.Fprintf(w, "-%s\n", origLine)
			}

			if formLine != "" {
				fmt.Fprintf(w, "+%s\n", formLine)
			}
		}
	}
}

// Help returns help text for the fmt command
func (cmd *FmtCmd) Help() string {
	return `Format rad scripts and the rad code blocks of Markdown files.

Scripts are re-printed in canonical form: 4-space indentation, single
spaces around binary operators and after commas, no redundant whitespace.
Scripts that report errors or contain // comments are left untouched.

For Markdown files, ` + "```rad" + ` blocks are formatted while the rest of the
document is preserved. Blocks that do not parse are kept as they are.

Examples:
  # Format a script and print to stdout
  radlang fmt deploy.rad

  # Format in place
  radlang fmt -w deploy.rad
  radlang fmt -w ./scripts/

  # Check if files are properly formatted
  radlang fmt -c ./scripts/

  # Format from stdin
  cat deploy.rad | radlang fmt`
}
