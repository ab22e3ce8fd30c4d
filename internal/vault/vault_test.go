// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeVault creates a vault directory tree under a temp dir. appJSON is
// written to .obsidian/app.json unless empty.
func makeVault(t *testing.T, appJSON string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, configDirName), 0o755))
	if appJSON != "" {
		path := filepath.Join(root, configDirName, appConfigFile)
		require.NoError(t, os.WriteFile(path, []byte(appJSON), 0o644))
	}
	return root
}

func TestFind(t *testing.T) {
	t.Run("note directly in vault root", func(t *testing.T) {
		root := makeVault(t, "")
		note := filepath.Join(root, "note.md")
		require.NoError(t, os.WriteFile(note, []byte("# hi"), 0o644))

		v, err := Find(note)
		require.NoError(t, err)
		assert.Equal(t, root, v.Root)
		assert.Equal(t, filepath.Join(root, configDirName), v.ConfigDir)
	})

	t.Run("note several levels below vault root", func(t *testing.T) {
		root := makeVault(t, "")
		deep := filepath.Join(root, "projects", "2026", "q1")
		require.NoError(t, os.MkdirAll(deep, 0o755))
		note := filepath.Join(deep, "note.md")
		require.NoError(t, os.WriteFile(note, []byte("# hi"), 0o644))

		v, err := Find(note)
		require.NoError(t, err)
		assert.Equal(t, root, v.Root)
	})

	t.Run("directory as start path", func(t *testing.T) {
		root := makeVault(t, "")
		sub := filepath.Join(root, "notes")
		require.NoError(t, os.MkdirAll(sub, 0o755))

		v, err := Find(sub)
		require.NoError(t, err)
		assert.Equal(t, root, v.Root)
	})

	t.Run("no vault in any ancestor", func(t *testing.T) {
		dir := t.TempDir()
		note := filepath.Join(dir, "note.md")
		require.NoError(t, os.WriteFile(note, []byte("# hi"), 0o644))

		_, err := Find(note)
		require.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("nonexistent start path", func(t *testing.T) {
		_, err := Find(filepath.Join(t.TempDir(), "missing.md"))
		require.Error(t, err)
	})

	t.Run("a plain .obsidian file is not a config dir", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, configDirName), []byte("x"), 0o644))
		note := filepath.Join(dir, "note.md")
		require.NoError(t, os.WriteFile(note, []byte("# hi"), 0o644))

		_, err := Find(note)
		require.ErrorIs(t, err, ErrConfigNotFound)
	})
}

func TestAttachmentDir(t *testing.T) {
	tests := []struct {
		name    string
		appJSON string
		want    func(root, noteDir string) string
		wantErr error
	}{
		{
			name:    "configured vault-relative folder",
			appJSON: `{"attachmentFolderPath": "attachments"}`,
			want:    func(root, _ string) string { return filepath.Join(root, "attachments") },
		},
		{
			name:    "nested vault-relative folder",
			appJSON: `{"attachmentFolderPath": "meta/files"}`,
			want:    func(root, _ string) string { return filepath.Join(root, "meta", "files") },
		},
		{
			name:    "note-relative folder",
			appJSON: `{"attachmentFolderPath": "./files"}`,
			want:    func(_, noteDir string) string { return filepath.Join(noteDir, "files") },
		},
		{
			name:    "missing app.json defaults to vault root",
			appJSON: "",
			want:    func(root, _ string) string { return root },
		},
		{
			name:    "empty value defaults to vault root",
			appJSON: `{"attachmentFolderPath": ""}`,
			want:    func(root, _ string) string { return root },
		},
		{
			name:    "slash means vault root",
			appJSON: `{"attachmentFolderPath": "/"}`,
			want:    func(root, _ string) string { return root },
		},
		{
			name:    "other keys are ignored",
			appJSON: `{"livePreview": true, "attachmentFolderPath": "attachments"}`,
			want:    func(root, _ string) string { return filepath.Join(root, "attachments") },
		},
		{
			name:    "invalid JSON",
			appJSON: `{"attachmentFolderPath": `,
			wantErr: ErrConfigParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := makeVault(t, tt.appJSON)
			noteDir := filepath.Join(root, "notes")
			require.NoError(t, os.MkdirAll(noteDir, 0o755))
			note := filepath.Join(noteDir, "note.md")
			require.NoError(t, os.WriteFile(note, []byte("# hi"), 0o644))

			v, err := Find(note)
			require.NoError(t, err)

			got, err := v.AttachmentDir(note)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want(root, noteDir), got)
			assert.True(t, filepath.IsAbs(got), "attachment dir should be absolute")
		})
	}
}
