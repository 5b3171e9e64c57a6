// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// StrategyPrecise asks the inspector for an exact module list.
	StrategyPrecise = "precise"
	// StrategyListing parses the inspector's per-dependency listing.
	StrategyListing = "listing"
)

var (
	// ErrEmptyAnalysis is returned by a strategy whose tool run succeeded
	// but named no modules.
	ErrEmptyAnalysis = errors.New("analysis produced no modules")

	// bracketedModule matches a "[module.name]" annotation.
	bracketedModule = regexp.MustCompile(`\[([A-Za-z_][\w.]*)\]`)
	// bareModule matches a line holding only a dotted "module" name or a
	// "module/package" pair.
	bareModule = regexp.MustCompile(`^([A-Za-z_]\w*(?:\.[A-Za-z_]\w*)+)(?:/[\w.$]+)?$`)
)

type (
	// Inspector is the dependency-inspection capability (jdeps).
	Inspector interface {
		// PrintModuleDeps returns a comma-separated module list for targets.
		PrintModuleDeps(ctx context.Context, targets []string) (string, error)
		// ListDeps returns the line-oriented dependency listing for targets.
		ListDeps(ctx context.Context, targets []string) (string, error)
	}

	// Strategy is one step of the degrading analysis chain.
	Strategy interface {
		Name() string
		Analyze(ctx context.Context, targets []string) (Set, error)
	}

	// StrategyError records why a strategy did not produce a result.
	StrategyError struct {
		Strategy string
		Err      error
	}

	// PreciseStrategy runs the inspector in "print module deps" mode.
	PreciseStrategy struct {
		inspector Inspector
	}

	// ListingStrategy runs the inspector in "list deps" mode and collects
	// module names from its output. The base module is always included.
	ListingStrategy struct {
		inspector Inspector
	}
)

// Error implements the error interface.
func (e *StrategyError) Error() string {
	return fmt.Sprintf("%s analysis failed: %v", e.Strategy, e.Err)
}

// Unwrap returns the underlying failure.
func (e *StrategyError) Unwrap() error { return e.Err }

// NewPreciseStrategy creates the precise-mode strategy.
func NewPreciseStrategy(inspector Inspector) *PreciseStrategy {
	return &PreciseStrategy{inspector: inspector}
}

// Name returns the strategy name.
func (s *PreciseStrategy) Name() string { return StrategyPrecise }

// Analyze returns the inspector's module list, trimmed and split.
func (s *PreciseStrategy) Analyze(ctx context.Context, targets []string) (Set, error) {
	out, err := s.inspector.PrintModuleDeps(ctx, targets)
	if err != nil {
		return Set{}, err
	}
	set := ParseList(out)
	if set.IsEmpty() {
		return Set{}, ErrEmptyAnalysis
	}
	return set, nil
}

// NewListingStrategy creates the listing-mode strategy.
func NewListingStrategy(inspector Inspector) *ListingStrategy {
	return &ListingStrategy{inspector: inspector}
}

// Name returns the strategy name.
func (s *ListingStrategy) Name() string { return StrategyListing }

// Analyze parses the inspector's listing output.
func (s *ListingStrategy) Analyze(ctx context.Context, targets []string) (Set, error) {
	out, err := s.inspector.ListDeps(ctx, targets)
	if err != nil {
		return Set{}, err
	}
	return ParseListing(out), nil
}

// ParseListing extracts module names from dependency-listing output. Every
// "[module]" annotation counts, as does a line consisting solely of a
// dotted module name or a "module/package" pair. The base module is always present
// in the result.
func ParseListing(output string) Set {
	set := NewSet(BaseModule)
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if matches := bracketedModule.FindAllStringSubmatch(line, -1); len(matches) > 0 {
			for _, m := range matches {
				set.Add(m[1])
			}
			continue
		}
		if m := bareModule.FindStringSubmatch(line); m != nil {
			set.Add(m[1])
		}
	}
	return set
}
