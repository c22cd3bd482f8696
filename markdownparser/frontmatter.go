package markdownparser

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// parseFrontMatter extracts YAML front matter and returns the offset where
// the Markdown body starts, so line numbers can be mapped back to the file.
func parseFrontMatter(content string) (map[string]any, int, error) {
	if !strings.HasPrefix(content, "---\n") {
		return make(map[string]any), 0, nil
	}

	endIndex := strings.Index(content[4:], "\n---")
	if endIndex == -1 {
		return nil, 0, ErrInvalidFrontMatter
	}

	endIndex += 4

	var frontMatter map[string]any

	err := yaml.Unmarshal([]byte(content[4:endIndex]), &frontMatter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}

	if frontMatter == nil {
		frontMatter = make(map[string]any)
	}

	return frontMatter, endIndex + 4, nil
}
