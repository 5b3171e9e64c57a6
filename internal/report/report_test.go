// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/jar2native/jar2native/internal/archive"
	"github.com/jar2native/jar2native/internal/modules"
	"github.com/jar2native/jar2native/internal/packager"
	"github.com/jar2native/jar2native/internal/testutil"
	"github.com/jar2native/jar2native/internal/toolchain"
)

func sampleResult() *packager.Result {
	return &packager.Result{
		Archive:          archive.Archive{Path: "/src/app.jar", Kind: archive.KindJAR, MainClass: "com.example.Main"},
		ToolchainRoot:    "/opt/jdk-21",
		ToolchainVersion: toolchain.Version{Raw: "21.0.2", Major: 21},
		Modules:          modules.NewSet("java.sql", "java.base"),
		Artifact:         "/out/app",
		Started:          time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600)),
		Elapsed:          2500 * time.Millisecond,
	}
}

func TestFormatFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"build.json", FormatJSON, false},
		{"out/BUILD.JSON", FormatJSON, false},
		{"build.toml", FormatTOML, false},
		{"build.yaml", FormatYAML, false},
		{"build.yml", FormatYAML, false},
		{"build.txt", "", true},
		{"build", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, err := FormatFor(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("FormatFor(%q) error = %v, want ErrUnknownFormat", tt.path, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("FormatFor(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
			}
		})
	}
}

func TestFromResult(t *testing.T) {
	t.Parallel()

	r := FromResult(sampleResult())
	if !slices.Equal(r.Modules, []string{"java.base", "java.sql"}) {
		t.Errorf("Modules = %v, want sorted names", r.Modules)
	}
	if r.Archive.Kind != "jar" || r.Archive.MainClass != "com.example.Main" {
		t.Errorf("Archive = %+v", r.Archive)
	}
	if r.Toolchain.Version != "21.0.2" {
		t.Errorf("Toolchain = %+v", r.Toolchain)
	}
	if r.StartedAt.Location() != time.UTC || r.StartedAt.Hour() != 9 {
		t.Errorf("StartedAt = %v, want UTC", r.StartedAt)
	}
	if r.ElapsedSeconds != 2.5 {
		t.Errorf("ElapsedSeconds = %v, want 2.5", r.ElapsedSeconds)
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		want []string
	}{
		{"json", "build.json", []string{`"artifact": "/out/app"`, `"main_class": "com.example.Main"`}},
		{"toml", "build.toml", []string{`artifact = '/out/app'`, `[toolchain]`}},
		{"yaml", "nested/build.yml", []string{"artifact: /out/app", "- java.base"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), filepath.FromSlash(tt.file))
			if err := Write(path, FromResult(sampleResult())); err != nil {
				t.Fatalf("Write() unexpected error: %v", err)
			}
			got := testutil.MustReadFile(t, path)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("report should contain %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestWrite_JSONDecodes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "build.json")
	if err := Write(path, FromResult(sampleResult())); err != nil {
		t.Fatal(err)
	}
	var decoded Report
	if err := json.Unmarshal([]byte(testutil.MustReadFile(t, path)), &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.Artifact != "/out/app" || len(decoded.Modules) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "build.xml")
	if err := Write(path, FromResult(sampleResult())); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Write() error = %v, want ErrUnknownFormat", err)
	}
}
