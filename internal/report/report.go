// SPDX-License-Identifier: MPL-2.0

// Package report writes a machine-readable summary of a packaging run.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jar2native/jar2native/internal/packager"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a report encoding.
type Format string

// Supported formats, chosen by the report file extension.
const (
	// FormatJSON is selected by ".json".
	FormatJSON Format = "json"
	// FormatTOML is selected by ".toml".
	FormatTOML Format = "toml"
	// FormatYAML is selected by ".yaml" or ".yml".
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for report paths with an unrecognized extension.
var ErrUnknownFormat = errors.New("unknown report format")

type (
	// Report is the serialized summary of a successful run.
	Report struct {
		Archive   ArchiveInfo   `json:"archive" toml:"archive" yaml:"archive"`
		Toolchain ToolchainInfo `json:"toolchain" toml:"toolchain" yaml:"toolchain"`
		Modules   []string      `json:"modules" toml:"modules" yaml:"modules"`
		Artifact  string        `json:"artifact" toml:"artifact" yaml:"artifact"`
		StartedAt time.Time     `json:"started_at" toml:"started_at" yaml:"started_at"`
		// ElapsedSeconds is the wall-clock duration of the run.
		ElapsedSeconds float64 `json:"elapsed_seconds" toml:"elapsed_seconds" yaml:"elapsed_seconds"`
	}

	// ArchiveInfo describes the packaged input archive.
	ArchiveInfo struct {
		Path      string `json:"path" toml:"path" yaml:"path"`
		Kind      string `json:"kind" toml:"kind" yaml:"kind"`
		MainClass string `json:"main_class,omitempty" toml:"main_class,omitempty" yaml:"main_class,omitempty"`
	}

	// ToolchainInfo records the JDK the runtime image was linked from.
	ToolchainInfo struct {
		Root    string `json:"root" toml:"root" yaml:"root"`
		Version string `json:"version" toml:"version" yaml:"version"`
	}
)

// FromResult builds a Report from a packaging result.
func FromResult(res *packager.Result) Report {
	return Report{
		Archive: ArchiveInfo{
			Path:      res.Archive.Path,
			Kind:      res.Archive.Kind.String(),
			MainClass: res.Archive.MainClass,
		},
		Toolchain: ToolchainInfo{
			Root:    res.ToolchainRoot,
			Version: res.ToolchainVersion.String(),
		},
		Modules:        res.Modules.Sorted(),
		Artifact:       res.Artifact,
		StartedAt:      res.Started.UTC(),
		ElapsedSeconds: res.Elapsed.Seconds(),
	}
}

// FormatFor picks the encoding from path's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s (use .json, .toml, .yaml or .yml)", ErrUnknownFormat, path)
	}
}

// Marshal encodes r in format f.
func (r Report) Marshal(f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatTOML:
		return toml.Marshal(r)
	case FormatYAML:
		return yaml.Marshal(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
}

// Write encodes r according to path's extension and writes it to path.
func Write(path string, r Report) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := r.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
