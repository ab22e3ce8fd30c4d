// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

const frontmatterDelim = "---"

// Frontmatter is the parsed YAML properties block of a note.
type Frontmatter map[string]any

// Title returns the note's title property, or empty when absent.
func (f Frontmatter) Title() string {
	if s, ok := f["title"].(string); ok {
		return s
	}
	return ""
}

// StripFrontmatter splits a leading YAML properties block off the note
// body. Properties confuse the converter (and Normalize would eat the
// "---" fences), so the body is converted alone. Notes without
// frontmatter come back unchanged with a nil map. A fenced block that is
// not valid YAML returns an error together with the untouched input.
func StripFrontmatter(md string) (Frontmatter, string, error) {
	rest, ok := strings.CutPrefix(md, frontmatterDelim+"\n")
	if !ok {
		// CRLF notes are normalized later; handle the fence here.
		rest, ok = strings.CutPrefix(md, frontmatterDelim+"\r\n")
		if !ok {
			return nil, md, nil
		}
	}

	end, bodyStart := closingFence(rest)
	if end < 0 {
		return nil, md, nil
	}

	var meta Frontmatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return nil, md, fmt.Errorf("parsing frontmatter: %w", err)
	}
	return meta, rest[bodyStart:], nil
}

// closingFence finds the "---" line that ends the properties block,
// returning the offset where the YAML ends and where the body begins.
func closingFence(s string) (end, bodyStart int) {
	offset := 0
	for _, line := range strings.SplitAfter(s, "\n") {
		if strings.TrimRight(line, "\r\n") == frontmatterDelim {
			return offset, offset + len(line)
		}
		offset += len(line)
	}
	return -1, -1
}
