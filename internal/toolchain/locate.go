// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MinMajorVersion is the first JDK release with the module system.
	MinMajorVersion = 9

	// javaHomeEnv names the conventional JDK location variable.
	javaHomeEnv = "JAVA_HOME"
)

var (
	// ErrToolchainNotFound is returned when no usable JDK can be located.
	ErrToolchainNotFound = errors.New("JDK not found")
	// ErrToolchainTooOld is returned (together with ErrToolchainNotFound)
	// when the probed JDK predates the module system.
	ErrToolchainTooOld = errors.New("JDK version too old (requires 9+)")

	// legacyVersion matches the "1.x" scheme used before JDK 9.
	legacyVersion = regexp.MustCompile(`version "1\.\d`)
	// versionString captures the quoted version, e.g. "17.0.2" or "21".
	versionString = regexp.MustCompile(`version "([^"]+)"`)
)

type (
	// Version is the version reported by `java -version`.
	Version struct {
		// Raw is the quoted version string, e.g. "17.0.2".
		Raw string
		// Major is the feature release number, e.g. 17.
		Major int
	}

	// NotFoundError describes a failed toolchain search. It wraps
	// ErrToolchainNotFound and the last probe failure.
	NotFoundError struct {
		Candidates []string
		Err        error
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	msg := ErrToolchainNotFound.Error()
	if len(e.Candidates) > 0 {
		msg += " (tried " + strings.Join(e.Candidates, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the sentinel and the underlying cause for errors.Is().
func (e *NotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrToolchainNotFound}
	}
	return []error{ErrToolchainNotFound, e.Err}
}

// String returns the raw version, or "unknown".
func (v Version) String() string {
	if v.Raw == "" {
		return "unknown"
	}
	return v.Raw
}

// IsZero reports whether no version was determined.
func (v Version) IsZero() bool { return v.Raw == "" }

// ParseVersion extracts the version from `java -version` output.
// Legacy "1.x" versions report the minor digit as Major (1.8 → 8).
func ParseVersion(output string) (Version, bool) {
	m := versionString.FindStringSubmatch(output)
	if m == nil {
		return Version{}, false
	}
	raw := m[1]
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '.' || r == '_' || r == '-' || r == '+' })
	if len(parts) == 0 {
		return Version{Raw: raw}, true
	}
	idx := 0
	if parts[0] == "1" && len(parts) > 1 {
		idx = 1
	}
	major, err := strconv.Atoi(parts[idx])
	if err != nil {
		return Version{Raw: raw}, true
	}
	return Version{Raw: raw, Major: major}, true
}

// Locate finds a JDK installation.
//
// A non-empty customPath is used as the installation root without
// requiring a successful probe; it is still rejected if its java binary
// reports a pre-module-system version. Otherwise $JAVA_HOME/bin/java and then
// java on PATH are probed in order; the root is derived from the resolved
// location of the first binary that answers a version query.
func Locate(ctx context.Context, customPath string, opts ...Option) (*Handle, error) {
	h := newHandle(opts...)

	if customPath != "" {
		root, err := filepath.Abs(customPath)
		if err != nil {
			return nil, fmt.Errorf("resolve JDK path %s: %w", customPath, err)
		}
		h.root = root
		v, err := h.probe(ctx, h.Tool(ToolJava))
		if errors.Is(err, ErrToolchainTooOld) {
			return nil, &NotFoundError{Candidates: []string{h.Tool(ToolJava)}, Err: err}
		}
		if err == nil {
			h.version = v
		}
		return h, nil
	}

	var (
		tried   []string
		lastErr error
	)
	for _, candidate := range h.candidates() {
		tried = append(tried, candidate)
		v, err := h.probe(ctx, candidate)
		if err != nil {
			lastErr = err
			if errors.Is(err, ErrToolchainTooOld) {
				break
			}
			continue
		}

		resolved, err := h.evalSymlinks(candidate)
		if err != nil {
			lastErr = fmt.Errorf("resolve %s: %w", candidate, err)
			continue
		}
		h.root = filepath.Dir(filepath.Dir(resolved))
		h.version = v
		return h, nil
	}

	return nil, &NotFoundError{Candidates: tried, Err: lastErr}
}

// candidates returns the java binaries to probe, in priority order.
func (h *Handle) candidates() []string {
	var out []string
	if home := strings.TrimSpace(h.getenv(javaHomeEnv)); home != "" {
		out = append(out, filepath.Join(home, binDir, ToolJava))
	}
	if p, err := h.lookPath(ToolJava); err == nil {
		if len(out) == 0 || out[0] != p {
			out = append(out, p)
		}
	}
	return out
}

// probe runs `<binary> -version` and checks the reported version.
func (h *Handle) probe(ctx context.Context, binary string) (Version, error) {
	cmd := h.execCommand(ctx, binary, "-version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return Version{}, fmt.Errorf("probe %s: %w", binary, err)
	}

	text := string(out)
	if legacyVersion.MatchString(text) {
		return Version{}, fmt.Errorf("%s: %w", binary, ErrToolchainTooOld)
	}
	v, _ := ParseVersion(text)
	if v.Major > 0 && v.Major < MinMajorVersion {
		return Version{}, fmt.Errorf("%s reports %s: %w", binary, v.Raw, ErrToolchainTooOld)
	}
	return v, nil
}
