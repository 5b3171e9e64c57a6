// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"slices"
	"strings"
)

const (
	// BaseModule is the module every Java program implicitly requires.
	BaseModule = "java.base"

	// separator joins module names in the canonical serialized form.
	separator = ","
)

// Set is a deduplicated, case-sensitive collection of module names.
// The zero value is an empty set ready for use.
type Set struct {
	names map[string]struct{}
}

// NewSet creates a Set from the given names. Names are trimmed; blank
// names are dropped.
func NewSet(names ...string) Set {
	s := Set{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// ParseList splits a comma-separated module list (the format produced by
// `jdeps --print-module-deps` and accepted by `jlink --add-modules`).
func ParseList(list string) Set {
	return NewSet(strings.Split(strings.TrimSpace(list), separator)...)
}

// DefaultSet is the conservative fallback used when dependency inspection is
// unavailable: enough to load and log from any plain class.
func DefaultSet() Set {
	return NewSet("java.instrument", BaseModule, "java.logging")
}

// Add inserts a trimmed module name. Blank names are ignored.
func (s *Set) Add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if s.names == nil {
		s.names = make(map[string]struct{})
	}
	s.names[name] = struct{}{}
}

// Contains reports whether name is in the set.
func (s Set) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of modules in the set.
func (s Set) Len() int { return len(s.names) }

// IsEmpty reports whether the set has no modules.
func (s Set) IsEmpty() bool { return len(s.names) == 0 }

// Sorted returns the module names in canonical (lexical) order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// String returns the canonical comma-joined form, e.g. "java.base,java.sql".
func (s Set) String() string {
	return strings.Join(s.Sorted(), separator)
}

// Equal reports whether both sets hold the same names.
func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for n := range s.names {
		if !other.Contains(n) {
			return false
		}
	}
	return true
}

// Union returns a new set holding the names of both sets.
func (s Set) Union(other Set) Set {
	out := NewSet(s.Sorted()...)
	for n := range other.names {
		out.Add(n)
	}
	return out
}

// Merge returns the union of resolved and the caller-supplied extra module
// names. Extra entries may themselves be comma-separated lists; blank or
// whitespace-only entries are discarded.
func Merge(resolved Set, extra []string) Set {
	out := NewSet(resolved.Sorted()...)
	for _, e := range extra {
		for _, name := range strings.Split(e, separator) {
			out.Add(name)
		}
	}
	return out
}
