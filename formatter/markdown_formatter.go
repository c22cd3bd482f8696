package formatter

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shibukawa/radlang/markdownparser"
)

var (
	codeBlockStartRe = regexp.MustCompile(`^(\s*)\x60{3}([^\x60]*)$`)
	codeBlockEndRe   = regexp.MustCompile(`^(\s*)\x60{3}\s*$`)
)

// MarkdownFormatter formats rad code blocks within Markdown files
type MarkdownFormatter struct {
	radFormatter *RadFormatter
}

// NewMarkdownFormatter creates a new Markdown formatter
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{
		radFormatter: NewRadFormatter(),
	}
}

// Format formats rad code blocks within a Markdown document. Blocks that
// do not parse are left as they are.
func (f *MarkdownFormatter) Format(markdown string) (string, error) {
	var (
		result       strings.Builder
		inRadBlock   bool
		blockContent strings.Builder
		blockIndent  string
	)

	scanner := bufio.NewScanner(strings.NewReader(markdown))

	for scanner.Scan() {
		line := scanner.Text()

		if !inRadBlock {
			if match := codeBlockStartRe.FindStringSubmatch(line); match != nil && markdownparser.IsRadInfo(match[2]) {
				inRadBlock = true
				blockIndent = match[1]
				blockContent.Reset()
			}

			result.WriteString(line)
			result.WriteString("\n")

			continue
		}

		if codeBlockEndRe.MatchString(line) {
			inRadBlock = false

			f.writeBlock(&result, blockContent.String(), blockIndent)

			result.WriteString(line)
			result.WriteString("\n")

			continue
		}

		// strip the fence indentation from the script
		blockContent.WriteString(strings.TrimPrefix(line, blockIndent))
		blockContent.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading markdown: %w", err)
	}

	// an unclosed fence keeps its content verbatim
	if inRadBlock {
		result.WriteString(indentLines(blockContent.String(), blockIndent))
	}

	return strings.TrimRight(result.String(), "\n"), nil
}

func (f *MarkdownFormatter) writeBlock(result *strings.Builder, content, indent string) {
	if strings.TrimSpace(content) == "" {
		return
	}

	formatted, err := f.radFormatter.Format(content)
	if err != nil {
		formatted = content
	}

	result.WriteString(indentLines(formatted, indent))
}

func indentLines(text, indent string) string {
	var sb strings.Builder

	for line := range strings.SplitSeq(strings.TrimRight(text, "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			sb.WriteString(indent)
			sb.WriteString(line)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatFromReader formats rad code blocks from a reader and writes to a writer
func (f *MarkdownFormatter) FormatFromReader(reader io.Reader, writer io.Writer) error {
	input, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	formatted, err := f.Format(string(input))
	if err != nil {
		return fmt.Errorf("failed to format markdown: %w", err)
	}

	_, err = writer.Write([]byte(formatted))

	return err
}

// IsMarkdownFile checks if a file is a Markdown file
func IsMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown"
}
