// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vault locates an Obsidian vault from a note path and resolves
// its configured attachment folder.
package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	configDirName = ".obsidian"
	appConfigFile = "app.json"
)

var (
	// ErrConfigNotFound reports that no .obsidian directory exists in
	// any ancestor of the note.
	ErrConfigNotFound = errors.New("no .obsidian directory found")

	// ErrConfigParse reports that app.json exists but is not valid JSON.
	ErrConfigParse = errors.New("vault configuration is not valid JSON")
)

// Vault is a located Obsidian vault.
type Vault struct {
	// Root is the vault directory, the one containing .obsidian.
	Root string

	// ConfigDir is the .obsidian directory inside Root.
	ConfigDir string
}

// appConfig mirrors the subset of .obsidian/app.json the converter needs.
type appConfig struct {
	AttachmentFolderPath string `json:"attachmentFolderPath"`
}

// Find walks from start upward until it reaches a directory containing
// .obsidian, and returns that directory as the vault root. start may be
// a file or a directory; a file searches from its parent.
func Find(start string) (*Vault, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", start, err)
	}

	dir := abs
	if info, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("stat %s: %w", start, err)
	} else if !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	for {
		cfg := filepath.Join(dir, configDirName)
		if info, err := os.Stat(cfg); err == nil && info.IsDir() {
			return &Vault{Root: dir, ConfigDir: cfg}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("%w in any ancestor of %s", ErrConfigNotFound, abs)
		}
		dir = parent
	}
}

// AttachmentDir resolves the vault's attachment folder for the given
// note, as an absolute path. Resolution follows Obsidian's
// attachmentFolderPath convention:
//
//   - missing app.json, empty value, or "/"  -> the vault root
//   - a value starting with "."              -> relative to the note's folder
//   - an absolute path                       -> used as-is
//   - anything else                          -> relative to the vault root
//
// The folder is not required to exist; missing attachments surface later
// as rewrite warnings.
func (v *Vault) AttachmentDir(notePath string) (string, error) {
	raw, err := v.attachmentFolderPath()
	if err != nil {
		return "", err
	}

	switch {
	case raw == "" || raw == "/":
		return v.Root, nil
	case filepath.IsAbs(raw):
		return filepath.Clean(raw), nil
	case strings.HasPrefix(raw, "."):
		abs, err := filepath.Abs(notePath)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", notePath, err)
		}
		return filepath.Clean(filepath.Join(filepath.Dir(abs), filepath.FromSlash(raw))), nil
	default:
		return filepath.Join(v.Root, filepath.FromSlash(raw)), nil
	}
}

// attachmentFolderPath reads attachmentFolderPath from app.json. A
// missing file is not an error; Obsidian omits the key until the user
// changes the default, and the default is the vault root.
func (v *Vault) attachmentFolderPath() (string, error) {
	path := filepath.Join(v.ConfigDir, appConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg appConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	return cfg.AttachmentFolderPath, nil
}
