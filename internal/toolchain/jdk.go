// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/jar2native/jar2native/internal/modules"
)

// ListAllModules returns every module installed in the toolchain, as
// reported by `java --list-modules` with the "@location" suffix stripped.
func (h *Handle) ListAllModules(ctx context.Context) (modules.Set, error) {
	out, err := h.RunTool(ctx, ToolJava, "--list-modules")
	if err != nil {
		return modules.Set{}, fmt.Errorf("list modules: %w", err)
	}
	return ParseModuleListing(out), nil
}

// ParseModuleListing parses newline-delimited "name[@location]" entries.
func ParseModuleListing(output string) modules.Set {
	var set modules.Set
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		name, _, _ := strings.Cut(sc.Text(), "@")
		set.Add(name)
	}
	return set
}

// PrintModuleDeps runs `jdeps --print-module-deps` against targets and
// returns its raw output (a comma-separated module list on success).
func (h *Handle) PrintModuleDeps(ctx context.Context, targets []string) (string, error) {
	return h.RunTool(ctx, ToolJdeps, h.jdepsArgs("--print-module-deps", true, targets)...)
}

// ListDeps runs `jdeps --list-deps` against targets and returns its output.
func (h *Handle) ListDeps(ctx context.Context, targets []string) (string, error) {
	return h.RunTool(ctx, ToolJdeps, h.jdepsArgs("--list-deps", false, targets)...)
}

// jdepsArgs builds the argument list: mode, pass-through options, targets.
// --ignore-missing-deps only affects the module-deps mode.
func (h *Handle) jdepsArgs(mode string, precise bool, targets []string) []string {
	args := []string{mode}
	if h.inspect.MultiRelease != "" {
		args = append(args, "--multi-release", h.inspect.MultiRelease)
	}
	if precise && h.inspect.IgnoreMissingDeps {
		args = append(args, "--ignore-missing-deps")
	}
	return append(args, targets...)
}

// Link runs jlink with args.
func (h *Handle) Link(ctx context.Context, args ...string) error {
	_, err := h.RunTool(ctx, ToolJlink, args...)
	return err
}
