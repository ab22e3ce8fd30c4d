// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one Markdown-to-RTF conversion end to end:
// locate the vault, rewrite image embeds, invoke the converter, scale
// oversized content in the output, and open it in a viewer.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bwalsh/md2rtf/internal/convert"
	"github.com/bwalsh/md2rtf/internal/launch"
	"github.com/bwalsh/md2rtf/internal/rewrite"
	"github.com/bwalsh/md2rtf/internal/rtf"
	"github.com/bwalsh/md2rtf/internal/vault"
	"github.com/bwalsh/md2rtf/pkg/types"
)

// Session carries everything one conversion run needs. Each run builds
// its own Session, so nothing leaks between runs and tests can inject
// fakes for the converter and the viewer.
type Session struct {
	cfg       types.ConvertConfig
	converter convert.Converter
	log       *logrus.Logger
	status    io.Writer

	// open launches the viewer; swapped out in tests.
	open func(path, viewer string) error
}

// New returns a Session for one or more runs with the given settings.
// Per-step progress is written to status; log receives the debug trail.
func New(cfg types.ConvertConfig, c convert.Converter, log *logrus.Logger, status io.Writer) *Session {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	if status == nil {
		status = io.Discard
	}
	return &Session{
		cfg:       cfg,
		converter: c,
		log:       log,
		status:    status,
		open:      launch.Open,
	}
}

// Result reports the outcome of a single conversion.
type Result struct {
	// OutputPath is the finished RTF file.
	OutputPath string

	// Warnings lists non-fatal problems: unresolved embeds, RTF that
	// could not be post-processed, a viewer that would not start.
	Warnings []string
}

// OutputPath derives the RTF path for a note: same directory, same base
// name, .rtf extension.
func OutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".rtf"
}

// Run converts the note at inputPath. Errors from any step before the
// output file exists abort the run; post-processing and viewer problems
// degrade to warnings because the converted file is already usable.
func (s *Session) Run(ctx context.Context, inputPath string) (*Result, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	absInput, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", inputPath, err)
	}

	data, err := os.ReadFile(absInput)
	if err != nil {
		return nil, fmt.Errorf("reading note: %w", err)
	}
	md := string(data)

	res := &Result{OutputPath: OutputPath(absInput)}

	// Vault discovery.
	v, err := vault.Find(absInput)
	if err != nil {
		return nil, err
	}
	attachmentDir, err := v.AttachmentDir(absInput)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(s.status, "vault: %s\n", v.Root)
	s.log.WithFields(logrus.Fields{"root": v.Root, "attachments": attachmentDir}).Debug("vault located")

	// Rewrite.
	meta, body, err := rewrite.StripFrontmatter(md)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("frontmatter not parsed, converting as-is: %v", err))
	}
	if title := meta.Title(); title != "" {
		s.log.WithField("title", title).Debug("note properties")
	}

	body, warnings := rewrite.Rewrite(body, attachmentDir)
	res.Warnings = append(res.Warnings, warnings...)
	body = rewrite.Normalize(body)
	fmt.Fprintf(s.status, "rewrote: embeds resolved against %s\n", attachmentDir)

	// Conversion.
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	rtfBody, err := s.converter.Convert(ctx, body)
	if err != nil {
		return nil, err
	}
	if err := convert.WriteRTF(res.OutputPath, rtfBody); err != nil {
		return nil, err
	}
	fmt.Fprintf(s.status, "converted: %s\n", res.OutputPath)

	// Post-processing. Malformed output is kept as-is: the file the
	// converter produced is still worth opening.
	if err := s.resize(res); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("output not resized: %v", err))
	}

	// Viewer.
	if !s.cfg.NoOpen {
		if err := s.open(res.OutputPath, s.cfg.Viewer); err != nil {
			res.Warnings = append(res.Warnings, err.Error())
		} else {
			fmt.Fprintf(s.status, "opened: %s\n", res.OutputPath)
		}
	}

	for _, w := range res.Warnings {
		s.log.Warn(w)
	}
	return res, nil
}

// resize rewrites the output file in place with oversized pictures and
// tables scaled to the configured layout targets.
func (s *Session) resize(res *Result) error {
	data, err := os.ReadFile(res.OutputPath)
	if err != nil {
		return err
	}

	out, changed, err := rtf.Resize(string(data), s.cfg.Layout)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintf(s.status, "resized: nothing exceeded the page width\n")
		return nil
	}

	if err := os.WriteFile(res.OutputPath, []byte(out), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(s.status, "resized: images capped at %d twips, tables at %d twips\n",
		s.cfg.Layout.MaxImageWidth, s.cfg.Layout.MaxTableWidth)
	return nil
}
