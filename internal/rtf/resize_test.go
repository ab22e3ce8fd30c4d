// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rtf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bwalsh/md2rtf/pkg/types"
)

func layoutConfig(img, tbl int) types.LayoutConfig {
	return types.LayoutConfig{MaxImageWidth: img, MaxTableWidth: tbl}
}

func TestResizeImages(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		maxWidth int
		want     string
		changed  bool
	}{
		{
			name:     "oversized image scaled preserving aspect ratio",
			src:      `{\rtf1 {\pict\pngblip\picwgoal12000\pichgoal8000 a1b2}}`,
			maxWidth: 9000,
			want:     `{\rtf1 {\pict\pngblip\picwgoal9000\pichgoal6000 a1b2}}`,
			changed:  true,
		},
		{
			name:     "image within bounds untouched",
			src:      `{\rtf1 {\pict\pngblip\picwgoal5000\pichgoal4000 a1b2}}`,
			maxWidth: 9000,
			want:     `{\rtf1 {\pict\pngblip\picwgoal5000\pichgoal4000 a1b2}}`,
		},
		{
			name:     "missing height leaves block unmodified",
			src:      `{\rtf1 {\pict\pngblip\picwgoal12000 a1b2}}`,
			maxWidth: 9000,
			want:     `{\rtf1 {\pict\pngblip\picwgoal12000 a1b2}}`,
		},
		{
			name:     "zero width leaves block unmodified",
			src:      `{\rtf1 {\pict\pngblip\picwgoal0\pichgoal4000 a1b2}}`,
			maxWidth: 9000,
			want:     `{\rtf1 {\pict\pngblip\picwgoal0\pichgoal4000 a1b2}}`,
		},
		{
			// picwgoal/pichgoal only matter inside \pict.
			name:     "dimensions outside a pict group are ignored",
			src:      `{\rtf1 \picwgoal12000\pichgoal8000 }`,
			maxWidth: 9000,
			want:     `{\rtf1 \picwgoal12000\pichgoal8000 }`,
		},
		{
			name:     "nested property group does not end the pict block",
			src:      `{\rtf1 {\pict{\*\picprop}\pngblip\picwgoal12000\pichgoal8000 a1b2}}`,
			maxWidth: 9000,
			want:     `{\rtf1 {\pict{\*\picprop}\pngblip\picwgoal9000\pichgoal6000 a1b2}}`,
			changed:  true,
		},
		{
			name: "two images scaled independently",
			src: `{\rtf1 {\pict\picwgoal10000\pichgoal5000 aa}` +
				`{\pict\picwgoal4000\pichgoal4000 bb}}`,
			maxWidth: 8000,
			want: `{\rtf1 {\pict\picwgoal8000\pichgoal4000 aa}` +
				`{\pict\picwgoal4000\pichgoal4000 bb}}`,
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := Resize(tt.src, layoutConfig(tt.maxWidth, 1<<30))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestResizeTables(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		maxWidth int
		want     string
		changed  bool
	}{
		{
			name:     "oversized row scaled proportionally",
			src:      `{\rtf1 \trowd\cellx3000\cellx6000\cellx9000 a\cell b\cell c\cell\row }`,
			maxWidth: 7000,
			want:     `{\rtf1 \trowd\cellx2333\cellx4666\cellx7000 a\cell b\cell c\cell\row }`,
			changed:  true,
		},
		{
			name:     "row within bounds untouched",
			src:      `{\rtf1 \trowd\cellx3000\cellx6000 a\cell b\cell\row }`,
			maxWidth: 7000,
			want:     `{\rtf1 \trowd\cellx3000\cellx6000 a\cell b\cell\row }`,
		},
		{
			name:     "uneven columns keep their proportions",
			src:      `{\rtf1 \trowd\cellx8000\cellx10000 a\cell b\cell\row }`,
			maxWidth: 5000,
			want:     `{\rtf1 \trowd\cellx4000\cellx5000 a\cell b\cell\row }`,
			changed:  true,
		},
		{
			name: "each row scaled against its own width",
			src: `{\rtf1 \trowd\cellx10000 a\cell\row ` +
				`\trowd\cellx4000 b\cell\row }`,
			maxWidth: 8000,
			want: `{\rtf1 \trowd\cellx8000 a\cell\row ` +
				`\trowd\cellx4000 b\cell\row }`,
			changed: true,
		},
		{
			name:     "row without cells untouched",
			src:      `{\rtf1 \trowd\row }`,
			maxWidth: 7000,
			want:     `{\rtf1 \trowd\row }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := Resize(tt.src, layoutConfig(1<<30, tt.maxWidth))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestResizeMalformed(t *testing.T) {
	t.Run("missing rtf header", func(t *testing.T) {
		src := `hello, not rtf`
		got, changed, err := Resize(src, layoutConfig(9000, 7000))
		require.ErrorIs(t, err, ErrMalformed)
		assert.Equal(t, src, got, "input should come back untouched")
		assert.False(t, changed)
	})

	t.Run("unmatched group close", func(t *testing.T) {
		src := `{\rtf1 }}`
		_, _, err := Resize(src, layoutConfig(9000, 7000))
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("unclosed groups are tolerated", func(t *testing.T) {
		// The compatibility header prepended to converter output opens
		// a group that is never closed.
		src := `{\rtf1\ansi {\pict\picwgoal12000\pichgoal8000 aa}`
		got, changed, err := Resize(src, layoutConfig(9000, 7000))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Contains(t, got, `\picwgoal9000`)
	})

	t.Run("unclosed pict group at end of input still scales", func(t *testing.T) {
		src := `{\rtf1 {\pict\picwgoal12000\pichgoal8000 aa`
		got, _, err := Resize(src, layoutConfig(9000, 7000))
		require.NoError(t, err)
		assert.Contains(t, got, `\pichgoal6000`)
	})
}

func TestResizeBinaryData(t *testing.T) {
	// Braces inside a \bin blob must not derail group tracking or edits.
	src := `{\rtf1 {\pict\bin4 }}{{\picwgoal12000\pichgoal8000 aa}}`
	got, changed, err := Resize(src, layoutConfig(9000, 7000))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, got, `\picwgoal9000`)
	assert.True(t, strings.Contains(got, `\bin4 }}{{`), "binary payload must be preserved byte for byte")
}

func TestResizeImagesAndTablesTogether(t *testing.T) {
	src := `{\rtf1 {\pict\picwgoal15200\pichgoal7600 aa}` +
		`\trowd\cellx12000\cellx24000 x\cell y\cell\row }`
	got, changed, err := Resize(src, layoutConfig(7600, 20000))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, got, `\picwgoal7600`)
	assert.Contains(t, got, `\pichgoal3800`)
	assert.Contains(t, got, `\cellx10000`)
	assert.Contains(t, got, `\cellx20000`)
}
