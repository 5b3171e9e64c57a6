// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/jar2native/jar2native/internal/bundle"
	"github.com/jar2native/jar2native/internal/testutil"

	"github.com/u-root/u-root/pkg/cp"
)

type recordingBundler struct {
	requests []bundle.Request
	err      error
}

func (b *recordingBundler) Bundle(_ context.Context, req bundle.Request) (string, error) {
	b.requests = append(b.requests, req)
	if b.err != nil {
		return "", b.err
	}
	return filepath.Join("/dist", req.OutputName), nil
}

// workLayout creates an archive and a runtime image the way earlier
// pipeline stages leave them in the work directory.
func workLayout(t *testing.T) (workDir, archivePath, imageDir string) {
	t.Helper()
	workDir = t.TempDir()
	archivePath = filepath.Join(t.TempDir(), "app.jar")
	testutil.WriteJar(t, archivePath, "com.example.Main", nil)

	imageDir = filepath.Join(workDir, "jre")
	testutil.MustWriteFile(t, filepath.Join(imageDir, "bin", "java"), "#!/bin/sh\n", 0o755)
	testutil.MustWriteFile(t, filepath.Join(imageDir, "lib", "modules"), "jimage", 0o644)
	testutil.MustWriteFile(t, filepath.Join(imageDir, "release"), "JAVA_VERSION=\"21\"\n", 0o644)
	return workDir, archivePath, imageDir
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	workDir, archivePath, imageDir := workLayout(t)
	a := NewAssembler(workDir, &recordingBundler{})

	launcher, err := a.Prepare(archivePath, imageDir)
	if err != nil {
		t.Fatalf("Prepare() unexpected error: %v", err)
	}
	if launcher != filepath.Join(workDir, DirName, LauncherName) {
		t.Errorf("Prepare() = %q", launcher)
	}

	entries := testutil.DirEntries(t, a.Dir())
	if want := []string{"app.jar", "jre", "launcher.sh"}; !slices.Equal(entries, want) {
		t.Errorf("staging directory = %v, want %v", entries, want)
	}

	if got := testutil.MustReadFile(t, filepath.Join(a.Dir(), "jre", "lib", "modules")); got != "jimage" {
		t.Errorf("runtime image copy content = %q", got)
	}
	if got, want := testutil.MustReadFile(t, filepath.Join(a.Dir(), "app.jar")), testutil.MustReadFile(t, archivePath); got != want {
		t.Error("archive copy differs from the original")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(launcher)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o755 {
			t.Errorf("launcher mode = %v, want 0755", info.Mode().Perm())
		}
		javaInfo, err := os.Stat(filepath.Join(a.Dir(), "jre", "bin", "java"))
		if err != nil {
			t.Fatal(err)
		}
		if javaInfo.Mode().Perm()&0o100 == 0 {
			t.Errorf("copied java mode = %v, want executable", javaInfo.Mode())
		}
	}
}

func TestPrepare_ReplacesStaleCopy(t *testing.T) {
	t.Parallel()

	workDir, archivePath, imageDir := workLayout(t)
	stale := filepath.Join(workDir, DirName, "jre", "stale.txt")
	testutil.MustWriteFile(t, stale, "old", 0o644)

	a := NewAssembler(workDir, &recordingBundler{})
	if _, err := a.Prepare(archivePath, imageDir); err != nil {
		t.Fatalf("Prepare() unexpected error: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file should be gone, stat error = %v", err)
	}
}

func TestPrepare_RetriesCollision(t *testing.T) {
	t.Parallel()

	workDir, archivePath, imageDir := workLayout(t)

	calls := 0
	a := NewAssembler(workDir, &recordingBundler{}, WithCopyTree(func(src, dst string) error {
		calls++
		if calls == 1 {
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return err
			}
			return fmt.Errorf("mkdir %s: %w", dst, fs.ErrExist)
		}
		return cp.NoFollowSymlinks.CopyTree(src, dst)
	}))

	if _, err := a.Prepare(archivePath, imageDir); err != nil {
		t.Fatalf("Prepare() unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("copy attempts = %d, want 2", calls)
	}
	if _, err := os.Stat(filepath.Join(a.Dir(), "jre", "bin", "java")); err != nil {
		t.Errorf("runtime image should be copied on retry: %v", err)
	}
}

func TestPrepare_DoesNotRetryOtherErrors(t *testing.T) {
	t.Parallel()

	workDir, archivePath, imageDir := workLayout(t)

	calls := 0
	a := NewAssembler(workDir, &recordingBundler{}, WithCopyTree(func(string, string) error {
		calls++
		return fs.ErrPermission
	}))

	_, err := a.Prepare(archivePath, imageDir)
	if !errors.Is(err, ErrStaging) || !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("Prepare() error = %v, want staging error wrapping permission denied", err)
	}
	if calls != 1 {
		t.Errorf("copy attempts = %d, want 1", calls)
	}
}

func TestPrepare_MissingImage(t *testing.T) {
	t.Parallel()

	workDir, archivePath, _ := workLayout(t)
	a := NewAssembler(workDir, &recordingBundler{})

	_, err := a.Prepare(archivePath, filepath.Join(workDir, "absent"))
	var stagingErr *StagingError
	if !errors.As(err, &stagingErr) {
		t.Fatalf("Prepare() error = %v, want *StagingError", err)
	}
}

func TestBuildArtifact(t *testing.T) {
	t.Parallel()

	workDir, archivePath, imageDir := workLayout(t)
	b := &recordingBundler{}
	a := NewAssembler(workDir, b)

	launcher, err := a.Prepare(archivePath, imageDir)
	if err != nil {
		t.Fatal(err)
	}
	out, err := a.BuildArtifact(context.Background(), launcher, "app", "jre", "app.jar")
	if err != nil {
		t.Fatalf("BuildArtifact() unexpected error: %v", err)
	}
	if out != filepath.Join("/dist", "app") {
		t.Errorf("BuildArtifact() = %q", out)
	}

	if len(b.requests) != 1 {
		t.Fatalf("bundler calls = %d, want 1", len(b.requests))
	}
	req := b.requests[0]
	if req.Entry != launcher || req.OutputName != "app" {
		t.Errorf("request = %+v", req)
	}
	want := []bundle.Payload{
		{Source: filepath.Join(a.Dir(), "jre"), Name: "jre"},
		{Source: filepath.Join(a.Dir(), "app.jar"), Name: "app.jar"},
	}
	if !slices.Equal(req.Payloads, want) {
		t.Errorf("payloads = %+v, want %+v", req.Payloads, want)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("request should be valid: %v", err)
	}
}

func TestBuildArtifact_BundlerFailure(t *testing.T) {
	t.Parallel()

	bundleErr := &bundle.Error{Output: "/dist/app", Err: errors.New("disk full")}
	a := NewAssembler(t.TempDir(), &recordingBundler{err: bundleErr})

	_, err := a.BuildArtifact(context.Background(), "/w/src/launcher.sh", "app", "jre", "app.jar")
	if !errors.Is(err, bundle.ErrBundling) {
		t.Fatalf("BuildArtifact() error = %v, want ErrBundling", err)
	}
}
