// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jar2native/jar2native/internal/archive"

	"github.com/charmbracelet/log"
)

type (
	// Lister lists every module installed in the toolchain.
	Lister interface {
		ListAllModules(ctx context.Context) (Set, error)
	}

	// ResolverOption configures a Resolver.
	ResolverOption func(*Resolver)

	// Resolver computes the module set an archive needs at run time.
	Resolver struct {
		lister      Lister
		strategies  []Strategy
		scratchRoot string
		logger      *log.Logger
	}
)

// WithStrategies replaces the analysis chain. Strategies are tried in order.
func WithStrategies(strategies ...Strategy) ResolverOption {
	return func(r *Resolver) {
		r.strategies = strategies
	}
}

// WithScratchRoot sets the parent directory for web-archive extraction.
// The default is the system temporary directory.
func WithScratchRoot(dir string) ResolverOption {
	return func(r *Resolver) {
		r.scratchRoot = dir
	}
}

// WithLogger sets the logger used to report analysis progress and degradation.
func WithLogger(logger *log.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver whose default chain is the precise
// strategy followed by the listing strategy, both backed by inspector.
func NewResolver(inspector Inspector, lister Lister, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		lister: lister,
		strategies: []Strategy{
			NewPreciseStrategy(inspector),
			NewListingStrategy(inspector),
		},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the modules the archive needs merged with extra.
//
// When useAll is set the toolchain's full module list is used and the
// archive is not inspected. Otherwise the analysis chain runs against the
// archive's targets; if every strategy fails, the DefaultSet is used.
// Analysis degradation is never reported as an error.
func (r *Resolver) Resolve(ctx context.Context, a archive.Archive, useAll bool, extra []string) (Set, error) {
	resolved, err := r.analyze(ctx, a, useAll)
	if err != nil {
		return Set{}, err
	}
	return Merge(resolved, extra), nil
}

func (r *Resolver) analyze(ctx context.Context, a archive.Archive, useAll bool) (Set, error) {
	if useAll {
		r.logger.Info("Using all toolchain modules")
		all, err := r.lister.ListAllModules(ctx)
		if err != nil {
			return Set{}, fmt.Errorf("list toolchain modules: %w", err)
		}
		if all.IsEmpty() {
			return Set{}, fmt.Errorf("list toolchain modules: %w", ErrEmptyAnalysis)
		}
		return all, nil
	}

	if a.Kind != archive.KindWAR {
		return r.runChain(ctx, []string{a.Path}), nil
	}

	scratch, err := os.MkdirTemp(r.scratchRoot, "jar2native-war-*")
	if err != nil {
		return Set{}, fmt.Errorf("create extraction directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			r.logger.Warn("Failed to remove extraction directory", "path", scratch, "err", rmErr)
		}
	}()

	r.logger.Info("Extracting web archive", "archive", a.Name())
	targets, err := WARTargets(a.Path, scratch)
	if err != nil {
		return Set{}, err
	}
	r.logger.Debug("Analysis targets", "count", len(targets), "targets", targets)

	return r.runChain(ctx, targets), nil
}

// runChain returns the first successful strategy result, or DefaultSet.
func (r *Resolver) runChain(ctx context.Context, targets []string) Set {
	var failures []error
	for _, s := range r.strategies {
		set, err := s.Analyze(ctx, targets)
		if err == nil && !set.IsEmpty() {
			r.logger.Debug("Analysis succeeded", "strategy", s.Name(), "modules", set.String())
			return set
		}
		if err == nil {
			err = ErrEmptyAnalysis
		}
		failures = append(failures, &StrategyError{Strategy: s.Name(), Err: err})
		r.logger.Info("Falling back from analysis strategy", "strategy", s.Name(), "err", err)
	}

	def := DefaultSet()
	r.logger.Warn("Dependency inspection unavailable, using default modules",
		"modules", def.String(), "err", errors.Join(failures...))
	return def
}
