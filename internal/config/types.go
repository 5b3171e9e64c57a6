// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// MultiReleaseBase analyzes only the unversioned classes of a
	// multi-release jar.
	MultiReleaseBase MultiRelease = "base"

	// DefaultOutputDir receives artifacts when nothing else is configured.
	DefaultOutputDir OutputDirPath = "dist"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidMultiRelease is returned when a MultiRelease value is malformed.
	ErrInvalidMultiRelease = errors.New("invalid multi-release version")
	// ErrInvalidCompressLevel is returned when a CompressLevel value is malformed.
	ErrInvalidCompressLevel = errors.New("invalid compression level")
	// ErrInvalidOutputDirPath is returned when an OutputDirPath is empty.
	ErrInvalidOutputDirPath = errors.New("invalid output directory")
	// ErrInvalidFilesystemPath is returned when a FilesystemPath is whitespace-only.
	ErrInvalidFilesystemPath = errors.New("invalid filesystem path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	multiReleaseVersion = regexp.MustCompile(`^[0-9]+$`)
	compressLevel       = regexp.MustCompile(`^(zip-[0-9]|[0-2])$`)
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// MultiRelease is the release a multi-release jar is analyzed for: a
	// feature version such as "17", or "base". Empty leaves the analyzer's
	// default.
	MultiRelease string

	// InvalidMultiReleaseError is returned for a malformed MultiRelease.
	InvalidMultiReleaseError struct {
		Value MultiRelease
	}

	// CompressLevel is a jlink --compress value. Empty disables the flag.
	CompressLevel string

	// InvalidCompressLevelError is returned for a malformed CompressLevel.
	InvalidCompressLevelError struct {
		Value CompressLevel
	}

	// OutputDirPath is the artifact directory. It must not be empty.
	OutputDirPath string

	// InvalidOutputDirPathError is returned for an empty OutputDirPath.
	InvalidOutputDirPathError struct {
		Value OutputDirPath
	}

	// FilesystemPath is an optional path. The zero value means "use the
	// default"; non-zero values must not be whitespace-only.
	FilesystemPath string

	// InvalidFilesystemPathError is returned for a whitespace-only path.
	InvalidFilesystemPathError struct {
		Field string
		Value FilesystemPath
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig and collects the field-level errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// JDKPath is the JDK installation root; empty searches JAVA_HOME and PATH.
		JDKPath FilesystemPath `json:"jdk_path" mapstructure:"jdk_path"`
		// ExtraModules are added to every resolved module set.
		ExtraModules []string `json:"extra_modules" mapstructure:"extra_modules"`
		// AllModules links every installed module instead of analyzing.
		AllModules bool `json:"all_modules" mapstructure:"all_modules"`
		// OutputDir receives the executable.
		OutputDir OutputDirPath `json:"output_dir" mapstructure:"output_dir"`
		// WorkRoot is the parent of per-run work directories.
		WorkRoot FilesystemPath `json:"work_root" mapstructure:"work_root"`
		// Inspector configures dependency analysis.
		Inspector InspectorConfig `json:"inspector" mapstructure:"inspector"`
		// Image configures runtime image linking.
		Image ImageConfig `json:"image" mapstructure:"image"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// InspectorConfig configures jdeps.
	InspectorConfig struct {
		MultiRelease      MultiRelease `json:"multi_release" mapstructure:"multi_release"`
		IgnoreMissingDeps bool         `json:"ignore_missing_deps" mapstructure:"ignore_missing_deps"`
	}

	// ImageConfig configures jlink.
	ImageConfig struct {
		StripDebug bool          `json:"strip_debug" mapstructure:"strip_debug"`
		Compress   CompressLevel `json:"compress" mapstructure:"compress"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ExtraModules: []string{},
		OutputDir:    DefaultOutputDir,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	check := func(valid bool, fieldErrs []error) {
		if !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	check(c.JDKPath.isValid("jdk_path"))
	check(c.OutputDir.IsValid())
	check(c.WorkRoot.isValid("work_root"))
	check(c.Inspector.MultiRelease.IsValid())
	check(c.Image.Compress.IsValid())
	check(c.UI.ColorScheme.IsValid())
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the MultiRelease.
func (m MultiRelease) String() string { return string(m) }

// IsValid accepts "", "base" or a decimal feature version.
func (m MultiRelease) IsValid() (bool, []error) {
	if m == "" || m == MultiReleaseBase || multiReleaseVersion.MatchString(string(m)) {
		return true, nil
	}
	return false, []error{&InvalidMultiReleaseError{Value: m}}
}

// Error implements the error interface for InvalidMultiReleaseError.
func (e *InvalidMultiReleaseError) Error() string {
	return fmt.Sprintf("invalid multi-release version %q (valid: base or a version number)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidMultiReleaseError) Unwrap() error { return ErrInvalidMultiRelease }

// String returns the string representation of the CompressLevel.
func (l CompressLevel) String() string { return string(l) }

// IsValid accepts "", "zip-0".."zip-9" and the legacy "0".."2".
func (l CompressLevel) IsValid() (bool, []error) {
	if l == "" || compressLevel.MatchString(string(l)) {
		return true, nil
	}
	return false, []error{&InvalidCompressLevelError{Value: l}}
}

// Error implements the error interface for InvalidCompressLevelError.
func (e *InvalidCompressLevelError) Error() string {
	return fmt.Sprintf("invalid compression level %q (valid: zip-0..zip-9, 0..2)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidCompressLevelError) Unwrap() error { return ErrInvalidCompressLevel }

// String returns the string representation of the OutputDirPath.
func (p OutputDirPath) String() string { return string(p) }

// IsValid requires a non-blank path.
func (p OutputDirPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidOutputDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidOutputDirPathError.
func (e *InvalidOutputDirPathError) Error() string {
	return fmt.Sprintf("invalid output directory %q: must be non-empty", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidOutputDirPathError) Unwrap() error { return ErrInvalidOutputDirPath }

// String returns the string representation of the FilesystemPath.
func (p FilesystemPath) String() string { return string(p) }

// IsValid returns whether the path is empty or names something.
func (p FilesystemPath) IsValid() (bool, []error) { return p.isValid("path") }

func (p FilesystemPath) isValid(field string) (bool, []error) {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidFilesystemPathError{Field: field, Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid %s %q: non-empty value must not be whitespace-only", e.Field, e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }
