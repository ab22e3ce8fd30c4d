// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const binPandoc = "pandoc"

// ErrConverterNotFound reports that no usable pandoc binary could be
// located.
var ErrConverterNotFound = errors.New("pandoc binary not found")

// ResolveBinary picks the pandoc binary for this run. An explicit
// override wins; otherwise a copy bundled beside the executable (under
// a pandoc/ directory, as packaged releases ship it) is preferred over
// whatever is on PATH.
func ResolveBinary(override string) (string, error) {
	exeDir := ""
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}
	return resolveBinary(defaultExec, exeDir, override)
}

func resolveBinary(exec executor, exeDir, override string) (string, error) {
	if override != "" {
		if _, err := exec.Stat(override); err != nil {
			return "", fmt.Errorf("%w: configured path %s: %v", ErrConverterNotFound, override, err)
		}
		return override, nil
	}

	if exeDir != "" {
		bundled := filepath.Join(exeDir, "pandoc", pandocBinName())
		if _, err := exec.Stat(bundled); err == nil {
			return bundled, nil
		}
	}

	if path, err := exec.LookPath(binPandoc); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%w: no bundled copy and nothing on PATH", ErrConverterNotFound)
}

func pandocBinName() string {
	if runtime.GOOS == "windows" {
		return binPandoc + ".exe"
	}
	return binPandoc
}
