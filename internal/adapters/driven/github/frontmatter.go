package github

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SkillFile is the file that marks a directory as a skill.
const SkillFile = "SKILL.md"

// frontMatter is the YAML header of a SKILL.md file.
type frontMatter struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Technologies []string `yaml:"technologies"`
	Tags         []string `yaml:"tags"`
}

// tags returns technologies, falling back to tags, trimmed and deduplicated.
func (f frontMatter) tags() []string {
	src := f.Technologies
	if len(src) == 0 {
		src = f.Tags
	}
	out := make([]string, 0, len(src))
	seen := make(map[string]bool, len(src))
	for _, t := range src {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

var fence = []byte("---")

// parseFrontMatter extracts the YAML block delimited by "---" lines at the
// top of content. A file without front matter yields a zero value.
func parseFrontMatter(content []byte) (frontMatter, error) {
	var fm frontMatter

	content = bytes.TrimPrefix(content, []byte("\ufeff"))
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(content, append(fence, '\n')) {
		return fm, nil
	}

	rest := content[len(fence)+1:]
	end := bytes.Index(rest, append([]byte("\n"), fence...))
	var block []byte
	switch {
	case bytes.HasPrefix(rest, fence):
		block = nil
	case end < 0:
		return fm, fmt.Errorf("unterminated front matter")
	default:
		block = rest[:end]
	}

	if err := yaml.Unmarshal(block, &fm); err != nil {
		return fm, fmt.Errorf("parse front matter: %w", err)
	}
	return fm, nil
}
