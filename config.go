// Package radlang holds the configuration shared by the radlang tools.
package radlang

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/shibukawa/radlang/parser"
	"github.com/shibukawa/radlang/tokenizer"
)

// DefaultConfigFile is the file name looked up when no --config is given.
const DefaultConfigFile = "radlang.yaml"

// Config represents the radlang configuration
type Config struct {
	Parse  ParseConfig  `yaml:"parse" toml:"parse"`
	Check  CheckConfig  `yaml:"check" toml:"check"`
	Output OutputConfig `yaml:"output" toml:"output"`
}

// ParseConfig holds parser limits
type ParseConfig struct {
	MaxDepth   int `yaml:"max_depth" toml:"max_depth"`
	TabWidth   int `yaml:"tab_width" toml:"tab_width"`
	MaxNesting int `yaml:"max_nesting" toml:"max_nesting"`
}

// CheckConfig controls which files the check command visits
type CheckConfig struct {
	Include []string `yaml:"include" toml:"include"`
	Exclude []string `yaml:"exclude" toml:"exclude"`
	// Markdown is a pointer to distinguish between unset and false. If nil, Markdown files are checked
	Markdown         *bool `yaml:"markdown" toml:"markdown"`
	Parallel         int   `yaml:"parallel" toml:"parallel"`
	WarningsAsErrors bool  `yaml:"warnings_as_errors" toml:"warnings_as_errors"`
}

// OutputConfig holds output defaults of the CLI
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"`
	Color  string `yaml:"color" toml:"color"`
	Spans  bool   `yaml:"spans" toml:"spans"`
}

// ScanMarkdown reports whether rad blocks in Markdown files are checked
func (c *CheckConfig) ScanMarkdown() bool {
	return c.Markdown == nil || *c.Markdown
}

// LoadConfig loads configuration from the specified file. A missing file
// yields the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := DefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		meta, err := toml.Decode(string(data), &config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse config file: unknown key '%s'", undecoded[0])
		}
	case ".yaml", ".yml":
		// strict mode rejects unknown fields
		err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, configPath)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Parse.MaxDepth < 0 {
		return fmt.Errorf("%w: parse.max_depth must be non-negative, got %d", ErrConfigValidation, c.Parse.MaxDepth)
	}

	if c.Parse.TabWidth < 0 {
		return fmt.Errorf("%w: parse.tab_width must be non-negative, got %d", ErrConfigValidation, c.Parse.TabWidth)
	}

	if c.Parse.MaxNesting < 0 {
		return fmt.Errorf("%w: parse.max_nesting must be non-negative, got %d", ErrConfigValidation, c.Parse.MaxNesting)
	}

	if c.Check.Parallel < 0 {
		return fmt.Errorf("%w: check.parallel must be non-negative, got %d", ErrConfigValidation, c.Check.Parallel)
	}

	for _, pattern := range slices.Concat(c.Check.Include, c.Check.Exclude) {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: invalid pattern '%s': %w", ErrConfigValidation, pattern, err)
		}
	}

	switch c.Output.Format {
	case "", "yaml", "json":
	default:
		return fmt.Errorf("%w: output.format '%s' is invalid: must be one of yaml, json", ErrConfigValidation, c.Output.Format)
	}

	switch c.Output.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("%w: output.color '%s' is invalid: must be one of auto, always, never", ErrConfigValidation, c.Output.Color)
	}

	return nil
}

// ParserOptions converts the parse section into parser options
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		MaxDepth:   c.Parse.MaxDepth,
		TabWidth:   c.Parse.TabWidth,
		MaxNesting: c.Parse.MaxNesting,
	}
}

// Matches reports whether the check command should visit path. Patterns
// match against the slash separated path and against the base name.
func (c *Config) Matches(path string) bool {
	if strings.EqualFold(filepath.Ext(path), ".md") && !c.Check.ScanMarkdown() {
		return false
	}

	for _, pattern := range c.Check.Exclude {
		if matchPattern(pattern, path) {
			return false
		}
	}

	for _, pattern := range c.Check.Include {
		if matchPattern(pattern, path) {
			return true
		}
	}

	return false
}

func matchPattern(pattern, path string) bool {
	slashed := filepath.ToSlash(path)
	if ok, _ := filepath.Match(pattern, slashed); ok {
		return true
	}

	ok, _ := filepath.Match(pattern, filepath.Base(path))

	return ok
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		Parse: ParseConfig{
			MaxDepth:   parser.DefaultMaxDepth,
			TabWidth:   tokenizer.DefaultTabWidth,
			MaxNesting: tokenizer.DefaultMaxNesting,
		},
		Check: CheckConfig{
			Include:  []string{"*.rad", "*.md"},
			Exclude:  []string{},
			Parallel: 4,
		},
		Output: OutputConfig{
			Format: "yaml",
			Color:  "auto",
		},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Parse.MaxDepth == 0 {
		config.Parse.MaxDepth = defaults.Parse.MaxDepth
	}

	if config.Parse.TabWidth == 0 {
		config.Parse.TabWidth = defaults.Parse.TabWidth
	}

	if config.Parse.MaxNesting == 0 {
		config.Parse.MaxNesting = defaults.Parse.MaxNesting
	}

	if len(config.Check.Include) == 0 {
		config.Check.Include = defaults.Check.Include
	}

	if config.Check.Exclude == nil {
		config.Check.Exclude = defaults.Check.Exclude
	}

	if config.Check.Parallel == 0 {
		config.Check.Parallel = defaults.Check.Parallel
	}

	if config.Output.Format == "" {
		config.Output.Format = defaults.Output.Format
	}

	if config.Output.Color == "" {
		config.Output.Color = defaults.Output.Color
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvVarRe   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVarRe.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return bareEnvVarRe.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in path patterns
func expandConfigEnvVars(config *Config) {
	for i, pattern := range config.Check.Include {
		config.Check.Include[i] = expandEnvVars(pattern)
	}

	for i, pattern := range config.Check.Exclude {
		config.Check.Exclude[i] = expandEnvVars(pattern)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
