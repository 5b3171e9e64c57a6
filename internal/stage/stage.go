// SPDX-License-Identifier: MPL-2.0

// Package stage assembles the archive, the runtime image and a launcher into
// a staging directory and hands it to a bundler.
package stage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jar2native/jar2native/internal/bundle"

	"github.com/charmbracelet/log"
	"github.com/u-root/u-root/pkg/cp"
)

// DirName is the staging directory inside the work directory.
const DirName = "src"

// ErrStaging is the sentinel error wrapped by StagingError.
var ErrStaging = errors.New("staging failed")

type (
	// StagingError is returned when the staging directory cannot be
	// populated.
	StagingError struct {
		Path string
		Err  error
	}

	// Option configures an Assembler.
	Option func(*Assembler)

	// Assembler owns <workDir>/src for one packaging run.
	Assembler struct {
		workDir  string
		bundler  bundle.Bundler
		logger   *log.Logger
		copyFile func(src, dst string) error
		copyTree func(src, dst string) error
	}
)

// Error implements the error interface.
func (e *StagingError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrStaging and the underlying cause.
func (e *StagingError) Unwrap() []error { return []error{ErrStaging, e.Err} }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// WithCopyTree replaces the directory copy routine.
func WithCopyTree(fn func(src, dst string) error) Option {
	return func(a *Assembler) { a.copyTree = fn }
}

// NewAssembler creates an Assembler for workDir using bundler for the final
// artifact.
func NewAssembler(workDir string, bundler bundle.Bundler, opts ...Option) *Assembler {
	a := &Assembler{
		workDir:  workDir,
		bundler:  bundler,
		logger:   log.New(io.Discard),
		copyFile: cp.Default.Copy,
		copyTree: cp.NoFollowSymlinks.CopyTree,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dir returns the staging directory.
func (a *Assembler) Dir() string { return filepath.Join(a.workDir, DirName) }

// Prepare copies archivePath and the runtime image at imageDir into the
// staging directory and writes the launcher. It returns the launcher path.
func (a *Assembler) Prepare(archivePath, imageDir string) (string, error) {
	dir := a.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &StagingError{Path: dir, Err: err}
	}

	archiveName := filepath.Base(archivePath)
	a.logger.Debug("Copying archive", "src", archivePath)
	if err := a.copyFile(archivePath, filepath.Join(dir, archiveName)); err != nil {
		return "", &StagingError{Path: archivePath, Err: err}
	}

	imageName := filepath.Base(imageDir)
	dst := filepath.Join(dir, imageName)
	a.logger.Debug("Copying runtime image", "src", imageDir, "dst", dst)
	if err := a.copyImage(imageDir, dst); err != nil {
		return "", &StagingError{Path: imageDir, Err: err}
	}

	script, err := RenderLauncher(imageName, archiveName)
	if err != nil {
		return "", &StagingError{Path: LauncherName, Err: err}
	}
	launcher := filepath.Join(dir, LauncherName)
	if err := os.WriteFile(launcher, []byte(script), 0o755); err != nil {
		return "", &StagingError{Path: launcher, Err: err}
	}
	// WriteFile leaves the mode of an existing file alone.
	if err := os.Chmod(launcher, 0o755); err != nil {
		return "", &StagingError{Path: launcher, Err: err}
	}
	return launcher, nil
}

// copyImage copies the image tree, clearing a stale destination first. A
// copy that still collides is retried once after another removal;
// permission failures are never retried.
func (a *Assembler) copyImage(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		a.logger.Warn("Removing stale runtime image copy", "path", dst)
		if err := os.RemoveAll(dst); err != nil {
			return err
		}
	}

	err := a.copyTree(src, dst)
	if !errors.Is(err, fs.ErrExist) {
		return err
	}

	a.logger.Warn("Runtime image copy collided, retrying", "path", dst, "error", err)
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	return a.copyTree(src, dst)
}

// BuildArtifact bundles the staged launcher, runtime image and archive into
// the executable outputName and returns its path.
func (a *Assembler) BuildArtifact(ctx context.Context, launcherPath, outputName, imageDirName, archiveName string) (string, error) {
	dir := filepath.Dir(launcherPath)
	req := bundle.Request{
		Entry: launcherPath,
		Payloads: []bundle.Payload{
			{Source: filepath.Join(dir, imageDirName), Name: imageDirName},
			{Source: filepath.Join(dir, archiveName), Name: archiveName},
		},
		OutputName: outputName,
	}
	a.logger.Debug("Bundling", "entry", launcherPath, "output", outputName)
	return a.bundler.Bundle(ctx, req)
}
