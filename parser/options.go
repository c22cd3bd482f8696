package parser

import "github.com/shibukawa/radlang/tokenizer"

// DefaultMaxDepth bounds nested blocks and expressions.
const DefaultMaxDepth = 500

// Options controls parser limits. Zero values select the defaults.
type Options struct {
	// MaxDepth limits combined block and expression nesting.
	MaxDepth int
	// TabWidth is the indentation width of a tab character.
	TabWidth int
	// MaxNesting limits interpolation nesting inside strings.
	MaxNesting int
}

// DefaultOptions provides the default parser options.
var DefaultOptions = Options{
	MaxDepth:   DefaultMaxDepth,
	TabWidth:   tokenizer.DefaultTabWidth,
	MaxNesting: tokenizer.DefaultMaxNesting,
}

func resolveOptions(options []Options) Options {
	opts := DefaultOptions
	if len(options) > 0 {
		opts = options[0]
	}

	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	return opts
}
