// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// KindJAR is a plain Java archive. It must declare an entry point.
	KindJAR Kind = "jar"
	// KindWAR is a web archive using the WEB-INF layout.
	KindWAR Kind = "war"
)

var (
	// ErrInputNotFound is returned when the archive path does not exist.
	ErrInputNotFound = errors.New("input file not found")
	// ErrUnsupportedInputType is returned for extensions other than .jar and .war.
	ErrUnsupportedInputType = errors.New("unsupported input type")
	// ErrMissingEntryPoint is returned when a JAR manifest has no Main-Class.
	ErrMissingEntryPoint = errors.New("missing entry point")
)

type (
	// Kind identifies the archive layout.
	Kind string

	// Archive is a validated, read-only application archive.
	Archive struct {
		// Path is the absolute path of the archive file.
		Path string
		// Kind is derived from the file extension.
		Kind Kind
		// MainClass is the manifest entry point (empty for web archives
		// that do not declare one).
		MainClass string
	}

	// UnsupportedInputTypeError is returned when the extension is neither
	// .jar nor .war. It wraps ErrUnsupportedInputType.
	UnsupportedInputTypeError struct {
		Path      string
		Extension string
	}

	// MissingEntryPointError is returned when a JAR does not declare
	// Main-Class. It wraps ErrMissingEntryPoint.
	MissingEntryPointError struct {
		Path string
	}
)

// Error implements the error interface.
func (e *UnsupportedInputTypeError) Error() string {
	ext := e.Extension
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported input type %q for %s (valid: .jar, .war)", ext, e.Path)
}

// Unwrap returns ErrUnsupportedInputType for errors.Is() compatibility.
func (e *UnsupportedInputTypeError) Unwrap() error { return ErrUnsupportedInputType }

// Error implements the error interface.
func (e *MissingEntryPointError) Error() string {
	return fmt.Sprintf("%s does not declare %s in %s", e.Path, MainClassAttribute, ManifestPath)
}

// Unwrap returns ErrMissingEntryPoint for errors.Is() compatibility.
func (e *MissingEntryPointError) Unwrap() error { return ErrMissingEntryPoint }

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// Extension returns the file extension (with dot) for the kind.
func (k Kind) Extension() string { return "." + string(k) }

// KindOf classifies a path by its case-insensitive extension.
func KindOf(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case KindJAR.Extension():
		return KindJAR, nil
	case KindWAR.Extension():
		return KindWAR, nil
	default:
		return "", &UnsupportedInputTypeError{Path: path, Extension: ext}
	}
}

// Open validates path as a packageable archive. Checks run in order:
// existence, extension, then (JAR only) the manifest entry point. No
// external tool is invoked.
func Open(path string) (Archive, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Archive{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Archive{}, fmt.Errorf("%w: %s", ErrInputNotFound, abs)
		}
		return Archive{}, fmt.Errorf("stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return Archive{}, fmt.Errorf("%w: %s is a directory", ErrInputNotFound, abs)
	}

	kind, err := KindOf(abs)
	if err != nil {
		return Archive{}, err
	}

	a := Archive{Path: abs, Kind: kind}
	if kind == KindWAR {
		return a, nil
	}

	mf, err := ReadManifest(abs)
	if err != nil {
		if errors.Is(err, ErrNoManifest) {
			return Archive{}, &MissingEntryPointError{Path: abs}
		}
		return Archive{}, err
	}
	a.MainClass = mf.MainClass()
	if a.MainClass == "" {
		return Archive{}, &MissingEntryPointError{Path: abs}
	}
	return a, nil
}

// Name returns the archive file name (e.g. "app.jar").
func (a Archive) Name() string { return filepath.Base(a.Path) }

// Stem returns the file name without extension (e.g. "app").
func (a Archive) Stem() string {
	name := a.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}
