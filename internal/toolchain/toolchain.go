// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jar2native/jar2native/pkg/types"
)

const (
	// ToolJava is the launcher binary used for probing and module listing.
	ToolJava = "java"
	// ToolJdeps is the dependency inspector.
	ToolJdeps = "jdeps"
	// ToolJlink is the runtime image linker.
	ToolJlink = "jlink"

	// binDir is the toolchain subdirectory holding tool binaries.
	binDir = "bin"
	// jmodsDir is the toolchain subdirectory holding packaged modules.
	jmodsDir = "jmods"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Option configures a Handle.
	Option func(*Handle)

	// InspectOptions are passed through to every dependency-inspector run.
	InspectOptions struct {
		// MultiRelease selects the version of multi-release JARs to analyze
		// (e.g. "17" or "base"). Empty means the inspector's default.
		MultiRelease string
		// IgnoreMissingDeps tolerates unresolvable class references.
		IgnoreMissingDeps bool
	}

	// Handle is a located JDK installation. It is created once per process by
	// Locate and passed explicitly to every component that invokes JDK tools.
	Handle struct {
		root    string
		version Version

		execCommand  ExecCommandFunc
		lookPath     func(file string) (string, error)
		getenv       func(key string) string
		evalSymlinks func(path string) (string, error)
		inspect      InspectOptions
	}

	// ToolError is returned when a JDK tool exits unsuccessfully or cannot
	// be started.
	ToolError struct {
		Tool     string
		Args     []string
		ExitCode types.ExitCode
		Stderr   string
		Err      error
	}
)

// Error implements the error interface.
func (e *ToolError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "%s %s", e.Tool, strings.Join(e.Args, " "))
	if !e.ExitCode.IsSuccess() {
		fmt.Fprintf(&msg, ": exit status %d", e.ExitCode)
	} else if e.Err != nil {
		fmt.Fprintf(&msg, ": %v", e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		first, _, _ := strings.Cut(stderr, "\n")
		fmt.Fprintf(&msg, ": %s", first)
	}
	return msg.String()
}

// Unwrap returns the underlying exec error.
func (e *ToolError) Unwrap() error { return e.Err }

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(h *Handle) {
		h.execCommand = fn
	}
}

// WithLookPath overrides how the default java binary is found on PATH.
func WithLookPath(fn func(file string) (string, error)) Option {
	return func(h *Handle) {
		h.lookPath = fn
	}
}

// WithGetenv overrides environment lookups (JAVA_HOME).
func WithGetenv(fn func(key string) string) Option {
	return func(h *Handle) {
		h.getenv = fn
	}
}

// WithEvalSymlinks overrides symlink resolution of the probed binary.
func WithEvalSymlinks(fn func(path string) (string, error)) Option {
	return func(h *Handle) {
		h.evalSymlinks = fn
	}
}

// WithInspectOptions sets flags passed to every dependency-inspector run.
func WithInspectOptions(opts InspectOptions) Option {
	return func(h *Handle) {
		h.inspect = opts
	}
}

func newHandle(opts ...Option) *Handle {
	h := &Handle{
		execCommand:  exec.CommandContext,
		lookPath:     exec.LookPath,
		getenv:       os.Getenv,
		evalSymlinks: filepath.EvalSymlinks,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Root returns the installation root directory.
func (h *Handle) Root() string { return h.root }

// Version returns the probed toolchain version. The zero Version means the
// version was not determined.
func (h *Handle) Version() Version { return h.version }

// Tool returns the path of the named tool binary. It performs no I/O.
func (h *Handle) Tool(name string) string {
	return filepath.Join(h.root, binDir, name)
}

// ModulePath returns the directory of the toolchain's packaged modules.
func (h *Handle) ModulePath() string {
	return filepath.Join(h.root, jmodsDir)
}

// RunTool runs the named tool with args and returns its standard output.
// Standard error is captured into the returned *ToolError on failure.
func (h *Handle) RunTool(ctx context.Context, name string, args ...string) (string, error) {
	return h.runBinary(ctx, h.Tool(name), args...)
}

func (h *Handle) runBinary(ctx context.Context, binary string, args ...string) (string, error) {
	cmd := h.execCommand(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		te := &ToolError{
			Tool:   filepath.Base(binary),
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			te.ExitCode = types.ExitCode(exitErr.ExitCode())
		}
		return stdout.String(), te
	}
	return stdout.String(), nil
}
