// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rtf

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bwalsh/md2rtf/pkg/types"
)

// ErrMalformed reports input that cannot be walked as RTF at all: a
// missing {\rtf header or a group close with no matching open. Callers
// decide whether to keep the unmodified file (the pipeline does).
var ErrMalformed = errors.New("malformed RTF")

// edit is a pending byte-range replacement in the source.
type edit struct {
	start, end int
	text       string
}

// picState tracks the \pict group currently being walked.
type picState struct {
	depth  int
	width  Token
	height Token
	hasW   bool
	hasH   bool
}

// rowState collects the cumulative \cellx edges of one table row.
type rowState struct {
	edges []Token
}

// Resize rewrites width and height control words so that no picture is
// wider than layout.MaxImageWidth and no table row wider than
// layout.MaxTableWidth, both in twips. Pictures keep their aspect
// ratio; table columns shrink proportionally. Elements already within
// bounds, and picture blocks with missing or zero size metadata, are
// left untouched. The returned bool reports whether anything changed.
//
// Unclosed groups at end of input are tolerated: converter output gets
// a viewer-compatibility header prepended whose group is never closed.
func Resize(src string, layout types.LayoutConfig) (string, bool, error) {
	if !strings.HasPrefix(src, `{\rtf`) {
		return src, false, fmt.Errorf(`%w: missing {\rtf header`, ErrMalformed)
	}

	s := NewScanner(src)
	depth := 0
	var pic *picState
	var row *rowState
	var edits []edit

	for {
		tok, ok := s.Next()
		if !ok {
			break
		}

		switch tok.Kind {
		case TokenGroupOpen:
			depth++
		case TokenGroupClose:
			depth--
			if depth < 0 {
				return src, false, fmt.Errorf("%w: unmatched group close at offset %d", ErrMalformed, tok.Start)
			}
			if pic != nil && depth < pic.depth {
				edits = append(edits, scalePicture(pic, layout.MaxImageWidth)...)
				pic = nil
			}
		case TokenControl:
			switch tok.Word {
			case "pict":
				pic = &picState{depth: depth}
			case "picwgoal":
				if pic != nil && tok.HasParam {
					pic.width = tok
					pic.hasW = true
				}
			case "pichgoal":
				if pic != nil && tok.HasParam {
					pic.height = tok
					pic.hasH = true
				}
			case "trowd":
				row = &rowState{}
			case "cellx":
				if row != nil && tok.HasParam {
					row.edges = append(row.edges, tok)
				}
			case "row":
				if row != nil {
					edits = append(edits, scaleRow(row, layout.MaxTableWidth)...)
					row = nil
				}
			}
		}
	}

	if pic != nil {
		edits = append(edits, scalePicture(pic, layout.MaxImageWidth)...)
	}

	if len(edits) == 0 {
		return src, false, nil
	}
	return applyEdits(src, edits), true, nil
}

// scalePicture shrinks a picture block to maxWidth, preserving aspect
// ratio. Blocks missing either dimension, or declaring a non-positive
// width, stay untouched.
func scalePicture(pic *picState, maxWidth int) []edit {
	if !pic.hasW || !pic.hasH {
		return nil
	}
	w, h := pic.width.Param, pic.height.Param
	if w <= 0 || w <= maxWidth {
		return nil
	}

	newH := h * maxWidth / w
	return []edit{
		{pic.width.Start, pic.width.End, `\picwgoal` + strconv.Itoa(maxWidth)},
		{pic.height.Start, pic.height.End, `\pichgoal` + strconv.Itoa(newH)},
	}
}

// scaleRow shrinks a table row to maxWidth. \cellx values are cumulative
// right edges, so the last edge is the row width and every edge scales
// by the same factor.
func scaleRow(row *rowState, maxWidth int) []edit {
	if len(row.edges) == 0 {
		return nil
	}
	total := row.edges[len(row.edges)-1].Param
	if total <= 0 || total <= maxWidth {
		return nil
	}

	edits := make([]edit, 0, len(row.edges))
	for _, tok := range row.edges {
		scaled := tok.Param * maxWidth / total
		edits = append(edits, edit{tok.Start, tok.End, `\cellx` + strconv.Itoa(scaled)})
	}
	return edits
}

// applyEdits rebuilds src with the replacements applied. Edits are
// produced in walk order but pictures flush at group close, so sort by
// offset before splicing.
func applyEdits(src string, edits []edit) string {
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	b.Grow(len(src))
	pos := 0
	for _, e := range edits {
		b.WriteString(src[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.WriteString(src[pos:])
	return b.String()
}
