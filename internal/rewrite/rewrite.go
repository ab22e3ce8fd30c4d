// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite turns Obsidian-flavored Markdown into the plain
// Markdown the external converter understands: image embeds become
// absolute-path image links and the block structure is normalized.
package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	embedOpen  = "![["
	embedClose = "]]"
)

// imageExts lists attachment extensions treated as images. Other embeds
// (notes, PDFs, audio) are left for the converter to ignore.
var imageExts = map[string]bool{
	".avif": true,
	".bmp":  true,
	".gif":  true,
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".svg":  true,
	".webp": true,
}

// Rewrite replaces every image embed of the form ![[name]] with a
// standard Markdown image link pointing at attachmentDir/name, in a
// single pass. Non-image embeds and ordinary image links are left
// untouched. An embed whose target does not exist under attachmentDir
// is kept verbatim and reported in the returned warnings; the output is
// never silently broken.
func Rewrite(md, attachmentDir string) (string, []string) {
	var b strings.Builder
	b.Grow(len(md))
	var warnings []string

	for i := 0; i < len(md); {
		start := strings.Index(md[i:], embedOpen)
		if start < 0 {
			b.WriteString(md[i:])
			break
		}
		start += i

		rel := strings.Index(md[start+len(embedOpen):], embedClose)
		if rel < 0 {
			// Unterminated embed; keep the rest as-is.
			b.WriteString(md[i:])
			break
		}
		inner := md[start+len(embedOpen) : start+len(embedOpen)+rel]
		end := start + len(embedOpen) + rel + len(embedClose)

		b.WriteString(md[i:start])

		link, warn := resolveEmbed(inner, attachmentDir)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		if link == "" {
			b.WriteString(md[start:end])
		} else {
			b.WriteString(link)
		}
		i = end
	}

	return b.String(), warnings
}

// resolveEmbed maps the inner text of an embed to a replacement image
// link. It returns an empty link when the embed should be kept verbatim,
// and a warning when the target image is missing.
func resolveEmbed(inner, attachmentDir string) (link, warning string) {
	// Obsidian allows "name|alias" and "name|300" display modifiers.
	ref := inner
	if idx := strings.IndexByte(ref, '|'); idx >= 0 {
		ref = ref[:idx]
	}
	ref = strings.TrimSpace(ref)

	if !imageExts[strings.ToLower(filepath.Ext(ref))] {
		return "", ""
	}

	// Embeds may carry a vault-relative folder; attachments are stored
	// flat under the attachment folder, so only the base name matters.
	base := filepath.Base(filepath.FromSlash(ref))
	target := filepath.Join(attachmentDir, base)

	if _, err := os.Stat(target); err != nil {
		return "", fmt.Sprintf("attachment not found, embed left unresolved: %s (looked in %s)", base, attachmentDir)
	}
	return fmt.Sprintf("![%s](%s)", base, target), ""
}

// Normalize prepares Markdown for the converter: line endings become
// LF, horizontal rules are dropped, runs of blank lines collapse, and a
// blank line separates consecutive non-table blocks so the converter
// treats them as distinct paragraphs. Table rows stay contiguous.
func Normalize(md string) string {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	md = strings.ReplaceAll(md, "\r", "\n")

	lines := strings.Split(md, "\n")
	out := make([]string, 0, len(lines))
	prevNonblank := false
	inTable := false

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		switch {
		case stripped == "---":
			continue
		case strings.Contains(line, "|"):
			out = append(out, line)
			prevNonblank = true
			inTable = true
		case stripped == "":
			if !prevNonblank {
				continue
			}
			out = append(out, "")
			prevNonblank = false
			inTable = false
		default:
			if prevNonblank && !inTable {
				out = append(out, "")
			}
			out = append(out, line)
			prevNonblank = true
			inTable = false
		}
	}

	return strings.Join(out, "\n")
}
