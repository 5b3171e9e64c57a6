// SPDX-License-Identifier: MPL-2.0

package image

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/jar2native/jar2native/internal/modules"
)

type fakeToolchain struct {
	modulePath string
	linkErr    error
	calls      [][]string
}

func (f *fakeToolchain) ModulePath() string { return f.modulePath }

func (f *fakeToolchain) Link(_ context.Context, args ...string) error {
	f.calls = append(f.calls, args)
	return f.linkErr
}

func TestArgs(t *testing.T) {
	t.Parallel()

	jdk := t.TempDir()
	jmods := filepath.Join(jdk, "jmods")
	if err := os.Mkdir(jmods, 0o755); err != nil {
		t.Fatal(err)
	}
	set := modules.NewSet("java.sql", "java.base")

	tests := []struct {
		name       string
		modulePath string
		opts       Options
		want       []string
	}{
		{
			name:       "with packaged modules",
			modulePath: jmods,
			want: []string{
				"--module-path", jmods,
				"--add-modules", "java.base,java.sql",
				"--output", "/work/jre",
				"--no-header-files", "--no-man-pages",
			},
		},
		{
			name:       "linkable runtime without jmods",
			modulePath: filepath.Join(jdk, "missing"),
			want: []string{
				"--add-modules", "java.base,java.sql",
				"--output", "/work/jre",
				"--no-header-files", "--no-man-pages",
			},
		},
		{
			name:       "size options",
			modulePath: filepath.Join(jdk, "missing"),
			opts:       Options{StripDebug: true, Compress: "zip-6"},
			want: []string{
				"--add-modules", "java.base,java.sql",
				"--output", "/work/jre",
				"--no-header-files", "--no-man-pages",
				"--strip-debug", "--compress=zip-6",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := NewBuilder(&fakeToolchain{modulePath: tt.modulePath}, tt.opts, nil)
			if got := b.Args("/work/jre", set); !slices.Equal(got, tt.want) {
				t.Errorf("Args() = %v\nwant %v", got, tt.want)
			}
		})
	}
}

func TestArgs_ModulePathIsFile(t *testing.T) {
	t.Parallel()

	tc := &fakeToolchain{modulePath: "/jdk/jmods"}
	b := NewBuilder(tc, Options{}, nil)
	b.statFn = func(string) (os.FileInfo, error) { return fileInfo{}, nil }

	if got := b.Args("/out", modules.NewSet("java.base")); slices.Contains(got, "--module-path") {
		t.Errorf("Args() = %v, should skip a module path that is not a directory", got)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	tc := &fakeToolchain{}
	b := NewBuilder(tc, Options{}, nil)

	if err := b.Build(context.Background(), "/work/jre", modules.NewSet("java.base")); err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if len(tc.calls) != 1 {
		t.Fatalf("Link calls = %d, want 1", len(tc.calls))
	}
	if !slices.Contains(tc.calls[0], "java.base") {
		t.Errorf("Link args = %v, want module list", tc.calls[0])
	}
}

func TestBuild_LinkFailure(t *testing.T) {
	t.Parallel()

	linkErr := errors.New("jlink: module not found: jdk.bogus")
	tc := &fakeToolchain{linkErr: linkErr}
	b := NewBuilder(tc, Options{}, nil)

	err := b.Build(context.Background(), "/work/jre", modules.NewSet("java.base", "jdk.bogus"))
	if !errors.Is(err, ErrRuntimeImageBuild) {
		t.Fatalf("Build() error = %v, want ErrRuntimeImageBuild", err)
	}
	if !errors.Is(err, linkErr) {
		t.Error("BuildError should wrap the tool error")
	}
	var buildErr *BuildError
	if !errors.As(err, &buildErr) || buildErr.Modules != "java.base,jdk.bogus" {
		t.Errorf("BuildError = %+v", buildErr)
	}
	if len(tc.calls) != 1 {
		t.Errorf("Link calls = %d, want exactly one attempt", len(tc.calls))
	}
}

func TestBuild_EmptySet(t *testing.T) {
	t.Parallel()

	tc := &fakeToolchain{}
	err := NewBuilder(tc, Options{}, nil).Build(context.Background(), "/work/jre", modules.Set{})
	if !errors.Is(err, ErrRuntimeImageBuild) {
		t.Fatalf("Build() error = %v, want ErrRuntimeImageBuild", err)
	}
	if len(tc.calls) != 0 {
		t.Error("jlink should not run for an empty module set")
	}
}

// fileInfo reports a regular file.
type fileInfo struct{ os.FileInfo }

func (fileInfo) IsDir() bool { return false }
