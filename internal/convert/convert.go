// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert invokes the external pandoc binary to turn Markdown
// into RTF, and writes the result in a form Riched20-based viewers
// accept.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Converter transforms Markdown text into an RTF body. The production
// implementation shells out to pandoc; tests substitute fakes.
type Converter interface {
	Convert(ctx context.Context, markdown string) (string, error)
}

// ConversionError reports a converter subprocess failure, carrying the
// tool's diagnostic output for the user.
type ConversionError struct {
	Stderr string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("conversion failed: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Stat(name string) (os.FileInfo, error)
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (o *osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec executor = &osExecutor{}

// PandocConverter runs pandoc, piping Markdown on stdin and reading the
// RTF body from stdout.
type PandocConverter struct {
	bin  string
	exec executor
}

// NewPandocConverter resolves the pandoc binary (see ResolveBinary) and
// returns a converter bound to it.
func NewPandocConverter(override string) (*PandocConverter, error) {
	bin, err := ResolveBinary(override)
	if err != nil {
		return nil, err
	}
	return &PandocConverter{bin: bin, exec: defaultExec}, nil
}

// Bin returns the path of the resolved pandoc binary.
func (p *PandocConverter) Bin() string { return p.bin }

// Convert runs the Markdown text through pandoc and returns the RTF
// body. Pandoc emits a fragment without the outer {\rtf group; WriteRTF
// supplies it.
func (p *PandocConverter) Convert(ctx context.Context, markdown string) (string, error) {
	args := []string{"--from", "markdown", "--to", "rtf"}

	var out, diag bytes.Buffer
	if err := p.exec.RunPiped(ctx, p.bin, args, strings.NewReader(markdown), &out, &diag); err != nil {
		return "", &ConversionError{Stderr: strings.TrimSpace(diag.String()), Err: err}
	}
	if out.Len() == 0 {
		return "", &ConversionError{Stderr: strings.TrimSpace(diag.String()), Err: errors.New("pandoc produced no output")}
	}
	return out.String(), nil
}

// rtfHeader opens the root group pandoc's fragment lacks and declares a
// font table, so WordPad and other Riched20 viewers accept the file.
const rtfHeader = `{\rtf1\ansi\deff0\nouicompat{\fonttbl{\f0\fnil\fcharset0 Calibri;}}{\*\generator Riched20 10.0.22621}\viewkind4\uc1 `

// WriteRTF writes the RTF body to path, prepending the viewer
// compatibility header and terminating the stream with a NUL byte.
func WriteRTF(path, body string) error {
	var b bytes.Buffer
	b.Grow(len(rtfHeader) + len(body) + 1)
	b.WriteString(rtfHeader)
	b.WriteString(body)
	b.WriteByte(0x00)

	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
