// SPDX-License-Identifier: MPL-2.0

// Package image builds trimmed Java runtime images with jlink.
package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jar2native/jar2native/internal/modules"

	"github.com/charmbracelet/log"
)

// ErrRuntimeImageBuild is the sentinel error wrapped by BuildError.
var ErrRuntimeImageBuild = errors.New("runtime image build failed")

type (
	// Toolchain is the subset of toolchain.Handle the builder needs.
	Toolchain interface {
		ModulePath() string
		Link(ctx context.Context, args ...string) error
	}

	// Options tune the produced image.
	Options struct {
		// StripDebug removes debug information from the image.
		StripDebug bool
		// Compress is the jlink compression level (e.g. "zip-6"); empty
		// leaves it unset.
		Compress string
	}

	// BuildError is returned when jlink fails. It wraps ErrRuntimeImageBuild
	// and the tool error.
	BuildError struct {
		OutputDir string
		Modules   string
		Err       error
	}

	// Builder materializes runtime images. Builds are never retried: a bad
	// module name fails the same way every time.
	Builder struct {
		toolchain Toolchain
		opts      Options
		logger    *log.Logger
		statFn    func(string) (os.FileInfo, error)
	}
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("build runtime image %s with modules [%s]: %v", e.OutputDir, e.Modules, e.Err)
}

// Unwrap returns ErrRuntimeImageBuild and the underlying cause.
func (e *BuildError) Unwrap() []error { return []error{ErrRuntimeImageBuild, e.Err} }

// NewBuilder creates a Builder. A nil logger discards output.
func NewBuilder(tc Toolchain, opts Options, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Builder{toolchain: tc, opts: opts, logger: logger, statFn: os.Stat}
}

// Build writes a runtime image containing exactly set into outputDir.
// outputDir must not exist yet; jlink refuses to overwrite.
func (b *Builder) Build(ctx context.Context, outputDir string, set modules.Set) error {
	if set.IsEmpty() {
		return &BuildError{OutputDir: outputDir, Err: errors.New("no modules to link")}
	}

	args := b.Args(outputDir, set)
	b.logger.Info("Building minimal runtime image", "output", outputDir)
	b.logger.Debug("jlink arguments", "args", args)

	if err := b.toolchain.Link(ctx, args...); err != nil {
		return &BuildError{OutputDir: outputDir, Modules: set.String(), Err: err}
	}

	b.logger.Info("Runtime image built", "modules", set.Len())
	return nil
}

// Args returns the jlink argument list for building set into outputDir.
// The module path is omitted when the toolchain ships no packaged modules,
// which lets linkable-runtime JDKs link from their own image.
func (b *Builder) Args(outputDir string, set modules.Set) []string {
	var args []string
	if mp := b.toolchain.ModulePath(); mp != "" {
		if info, err := b.statFn(mp); err == nil && info.IsDir() {
			args = append(args, "--module-path", mp)
		} else {
			b.logger.Debug("Toolchain has no packaged modules, linking from runtime image", "path", mp)
		}
	}
	args = append(args,
		"--add-modules", set.String(),
		"--output", outputDir,
		"--no-header-files",
		"--no-man-pages",
	)
	if b.opts.StripDebug {
		args = append(args, "--strip-debug")
	}
	if b.opts.Compress != "" {
		args = append(args, "--compress="+b.opts.Compress)
	}
	return args
}
