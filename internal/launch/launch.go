// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package launch opens a finished document in a viewer via the host
// OS's "open with default handler" mechanism.
package launch

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrLaunchFailed reports that the OS could not start a viewer. The
// caller treats this as a warning: the document itself already exists.
var ErrLaunchFailed = errors.New("could not open viewer")

// starter abstracts process startup for testing.
type starter interface {
	Start(name string, args ...string) error
}

// osStarter launches real processes without waiting for them.
type osStarter struct{}

func (osStarter) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap in the background so the child never lingers as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

var defaultStarter starter = osStarter{}

// Open launches path with the OS default handler for its type, or with
// the named viewer application when one is given. It returns as soon as
// the process starts; it never waits for the viewer to close.
func Open(path, viewer string) error {
	return open(defaultStarter, runtime.GOOS, path, viewer)
}

func open(s starter, goos, path, viewer string) error {
	var name string
	var args []string

	switch {
	case viewer != "":
		name, args = viewer, []string{path}
	case goos == "windows":
		// The empty string is the window title "start" would otherwise
		// steal from a quoted path.
		name, args = "cmd", []string{"/c", "start", "", path}
	case goos == "darwin":
		name, args = "open", []string{path}
	default:
		name, args = "xdg-open", []string{path}
	}

	if err := s.Start(name, args...); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLaunchFailed, name, err)
	}
	return nil
}
