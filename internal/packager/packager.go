// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jar2native/jar2native/internal/archive"
	"github.com/jar2native/jar2native/internal/bundle"
	"github.com/jar2native/jar2native/internal/image"
	"github.com/jar2native/jar2native/internal/modules"
	"github.com/jar2native/jar2native/internal/stage"
	"github.com/jar2native/jar2native/internal/toolchain"
	"github.com/jar2native/jar2native/pkg/platform"

	"github.com/charmbracelet/log"
)

const (
	// ImageDirName is the runtime image directory inside the work directory
	// and inside the artifact.
	ImageDirName = "jre"

	workDirPattern = "jar2native-*"
)

type (
	// Toolchain is everything a run needs from a located JDK.
	// *toolchain.Handle implements it.
	Toolchain interface {
		modules.Inspector
		modules.Lister
		image.Toolchain
		Root() string
		Version() toolchain.Version
	}

	// Locator finds the toolchain for a run.
	Locator func(ctx context.Context, customPath string) (Toolchain, error)

	// Options are the per-invocation settings, already merged from config
	// and flags.
	Options struct {
		JDKPath      string
		ExtraModules []string
		AllModules   bool
		OutputDir    string
		// WorkRoot is where the per-run work directory is created; empty
		// means the system temporary directory.
		WorkRoot string
		Image    image.Options
		Inspect  toolchain.InspectOptions
	}

	// Option configures an Orchestrator.
	Option func(*Orchestrator)

	// Result describes a successful run.
	Result struct {
		Archive          archive.Archive
		ToolchainRoot    string
		ToolchainVersion toolchain.Version
		Modules          modules.Set
		Artifact         string
		Started          time.Time
		Elapsed          time.Duration
	}

	// Orchestrator drives archive validation, module resolution, image
	// building, staging and bundling for one archive at a time.
	Orchestrator struct {
		opts    Options
		logger  *log.Logger
		locate  Locator
		bundler bundle.Bundler
		now     func() time.Time
	}
)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithLocator replaces toolchain discovery.
func WithLocator(fn Locator) Option {
	return func(o *Orchestrator) { o.locate = fn }
}

// WithBundler replaces the default self-extracting bundler.
func WithBundler(b bundle.Bundler) Option {
	return func(o *Orchestrator) { o.bundler = b }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an Orchestrator.
func New(opts Options, options ...Option) *Orchestrator {
	o := &Orchestrator{
		opts:   opts,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range options {
		opt(o)
	}
	if o.locate == nil {
		o.locate = DefaultLocator(opts.Inspect)
	}
	if o.bundler == nil {
		o.bundler = bundle.NewSelfExtracting(opts.OutputDir, o.logger)
	}
	return o
}

// DefaultLocator locates a JDK with toolchain.Locate.
func DefaultLocator(inspect toolchain.InspectOptions, opts ...toolchain.Option) Locator {
	return func(ctx context.Context, customPath string) (Toolchain, error) {
		h, err := toolchain.Locate(ctx, customPath, append(opts, toolchain.WithInspectOptions(inspect))...)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
}

// Package turns the archive at archivePath into a self-contained executable.
// The archive is validated before the toolchain is touched. On failure the
// returned error is a *StageError naming the failed stage. The per-run work
// directory is removed on every path.
func (o *Orchestrator) Package(ctx context.Context, archivePath string) (*Result, error) {
	run := &Run{Started: o.now(), State: StateValidating}
	o.logger.Info("Validating input", "archive", archivePath)

	a, err := archive.Open(archivePath)
	if err != nil {
		return nil, o.fail(run, err)
	}
	run.Archive = a
	o.logger.Debug("Archive accepted", "kind", a.Kind, "main_class", a.MainClass)

	workDir, err := os.MkdirTemp(o.opts.WorkRoot, workDirPattern)
	if err != nil {
		return nil, o.fail(run, err)
	}
	run.WorkDir = workDir
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			o.logger.Warn("Failed to remove work directory", "path", workDir, "error", rmErr)
		}
	}()

	if err := o.enter(ctx, run, StateResolving); err != nil {
		return nil, o.fail(run, err)
	}
	tc, err := o.locate(ctx, o.opts.JDKPath)
	if err != nil {
		return nil, o.fail(run, err)
	}
	o.logger.Info("Using JDK", "root", tc.Root(), "version", tc.Version())

	resolver := modules.NewResolver(tc, tc,
		modules.WithScratchRoot(workDir),
		modules.WithLogger(o.logger),
	)
	set, err := resolver.Resolve(ctx, a, o.opts.AllModules, o.opts.ExtraModules)
	if err != nil {
		return nil, o.fail(run, err)
	}
	run.Modules = set
	o.logger.Info("Modules resolved", "modules", set.String())

	if err := o.enter(ctx, run, StateImageBuilding); err != nil {
		return nil, o.fail(run, err)
	}
	imageDir := filepath.Join(workDir, ImageDirName)
	if err := image.NewBuilder(tc, o.opts.Image, o.logger).Build(ctx, imageDir, set); err != nil {
		return nil, o.fail(run, err)
	}

	if err := o.enter(ctx, run, StateStaging); err != nil {
		return nil, o.fail(run, err)
	}
	asm := stage.NewAssembler(workDir, o.bundler, stage.WithLogger(o.logger))
	launcher, err := asm.Prepare(a.Path, imageDir)
	if err != nil {
		return nil, o.fail(run, err)
	}

	if err := o.enter(ctx, run, StateBundling); err != nil {
		return nil, o.fail(run, err)
	}
	artifact, err := asm.BuildArtifact(ctx, launcher, platform.ExecutableName(a.Stem()), ImageDirName, a.Name())
	if err != nil {
		return nil, o.fail(run, err)
	}
	run.Artifact = artifact

	if err := run.transition(StateDone); err != nil {
		return nil, o.fail(run, err)
	}
	run.Elapsed = o.now().Sub(run.Started)
	o.logger.Info("Packaging complete", "artifact", artifact, "elapsed", run.Elapsed.Round(time.Millisecond))

	return &Result{
		Archive:          a,
		ToolchainRoot:    tc.Root(),
		ToolchainVersion: tc.Version(),
		Modules:          set,
		Artifact:         artifact,
		Started:          run.Started,
		Elapsed:          run.Elapsed,
	}, nil
}

// enter moves run into state after checking for cancellation.
func (o *Orchestrator) enter(ctx context.Context, run *Run, state State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := run.transition(state); err != nil {
		return err
	}
	o.logger.Info("Stage started", "stage", state)
	return nil
}

// fail records err against the run's current stage, moves the run to
// failed and logs the failure once.
func (o *Orchestrator) fail(run *Run, err error) error {
	stageErr := &StageError{Stage: run.State, Err: err}
	if run.State.IsTerminal() {
		stageErr.Stage = StateFailed
	}
	_ = run.transition(StateFailed)
	run.Elapsed = o.now().Sub(run.Started)
	o.logger.Error("Packaging failed", "stage", stageErr.Stage, "error", err)
	return stageErr
}
