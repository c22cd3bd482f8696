package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/shibukawa/radlang"
)

// Context represents the global context for commands
type Context struct {
	Config  *radlang.Config
	Verbose bool
	Quiet   bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// CLI represents the command-line interface
var CLI struct {
	Config  string     `help:"Configuration file path (.yaml, .yml or .toml)" default:"radlang.yaml"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	NoColor bool       `help:"Disable colored output"`
	Parse   ParseCmd   `cmd:"" help:"Parse a script and print its syntax tree"`
	Tokens  TokensCmd  `cmd:"" help:"Print the token stream of a script"`
	Check   CheckCmd   `cmd:"" help:"Report diagnostics for scripts and Markdown rad blocks"`
	Fmt     FmtCmd     `cmd:"" help:"Format rad scripts"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.Stdout, "radlang v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("radlang"),
		kong.Description("Parser tooling for rad scripts"),
	)

	config, err := radlang.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	setupColor(config.Output.Color, CLI.NoColor)

	appCtx := &Context{
		Config:  config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}

	err = ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupColor applies output.color; --no-color wins over the config.
func setupColor(mode string, noColor bool) {
	switch {
	case noColor || mode == "never":
		color.NoColor = true
	case mode == "always":
		color.NoColor = false
	}
}
