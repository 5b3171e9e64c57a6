// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/jar2native/jar2native/internal/archive"
	"github.com/jar2native/jar2native/internal/config"
	"github.com/jar2native/jar2native/internal/image"
	"github.com/jar2native/jar2native/internal/issue"
	"github.com/jar2native/jar2native/internal/modules"
	"github.com/jar2native/jar2native/internal/packager"
	"github.com/jar2native/jar2native/internal/testutil"
	"github.com/jar2native/jar2native/internal/toolchain"
	"github.com/jar2native/jar2native/pkg/platform"
	"github.com/jar2native/jar2native/pkg/types"
)

type (
	staticProvider struct {
		cfg *config.Config
		err error
	}

	fakeToolchain struct {
		root     string
		precise  string
		linkArgs [][]string
	}
)

func (p staticProvider) Load(context.Context, config.LoadOptions) (*config.Config, string, error) {
	if p.err != nil {
		return nil, "", p.err
	}
	return p.cfg, "", nil
}

func (f *fakeToolchain) PrintModuleDeps(context.Context, []string) (string, error) {
	return f.precise, nil
}

func (f *fakeToolchain) ListDeps(context.Context, []string) (string, error) {
	return "", errors.New("unused")
}

func (f *fakeToolchain) ListAllModules(context.Context) (modules.Set, error) {
	return modules.NewSet("java.base", "java.desktop"), nil
}

func (f *fakeToolchain) ModulePath() string { return filepath.Join(f.root, "jmods") }

func (f *fakeToolchain) Root() string { return f.root }

func (f *fakeToolchain) Version() toolchain.Version { return toolchain.Version{Raw: "21", Major: 21} }

func (f *fakeToolchain) Link(_ context.Context, args ...string) error {
	f.linkArgs = append(f.linkArgs, args)
	i := slices.Index(args, "--output")
	out := args[i+1]
	if err := os.MkdirAll(filepath.Join(out, "bin"), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(out, "bin", "java"), []byte("#!/bin/sh\n"), 0o755)
}

type cliHarness struct {
	tc     *fakeToolchain
	cfg    *config.Config
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.WorkRoot = config.FilesystemPath(t.TempDir())
	return &cliHarness{
		tc:  &fakeToolchain{root: t.TempDir(), precise: "java.base,java.sql"},
		cfg: cfg,
	}
}

func (h *cliHarness) run(args ...string) error {
	app := NewApp(Dependencies{
		Config: staticProvider{cfg: h.cfg},
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		Locator: func(context.Context, string) (packager.Toolchain, error) {
			return h.tc, nil
		},
	})
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&h.stdout)
	root.SetErr(&h.stderr)
	return root.ExecuteContext(context.Background())
}

func writeJar(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.jar")
	testutil.WriteJar(t, path, "com.example.Main", nil)
	return path
}

func TestRootCommand_Package(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	out := filepath.Join(t.TempDir(), "dist")
	reportPath := filepath.Join(t.TempDir(), "build.json")

	err := h.run(writeJar(t), "--output-dir", out, "--extra-modules", "jdk.crypto.ec", "--report", reportPath)
	if err != nil {
		t.Fatalf("run() unexpected error: %v\nstderr:\n%s", err, h.stderr.String())
	}

	artifact := filepath.Join(out, platform.ExecutableName("app"))
	if !strings.Contains(h.stdout.String(), artifact) {
		t.Errorf("stdout should name the artifact %s:\n%s", artifact, h.stdout.String())
	}
	if _, err := os.Stat(artifact); err != nil {
		t.Errorf("artifact missing: %v", err)
	}

	if len(h.tc.linkArgs) != 1 || !slices.Contains(h.tc.linkArgs[0], "java.base,java.sql,jdk.crypto.ec") {
		t.Errorf("jlink args = %v", h.tc.linkArgs)
	}

	rep := testutil.MustReadFile(t, reportPath)
	if !strings.Contains(rep, `"kind": "jar"`) || !strings.Contains(rep, "jdk.crypto.ec") {
		t.Errorf("report content:\n%s", rep)
	}
}

func TestRootCommand_UnsupportedInput(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	txt := filepath.Join(t.TempDir(), "notes.txt")
	testutil.MustWriteFile(t, txt, "hello", 0o644)

	err := h.run(txt, "--output-dir", t.TempDir())
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("run() error = %v, want *ExitError", err)
	}
	if exitErr.Code != types.ExitFailure {
		t.Errorf("exit code = %d, want %d", exitErr.Code, types.ExitFailure)
	}
	stderr := h.stderr.String()
	if strings.Count(stderr, "Error:") != 1 {
		t.Errorf("stderr should carry exactly one error line:\n%s", stderr)
	}
	if !strings.Contains(stderr, "unsupported input type") || !strings.Contains(stderr, "validate input archive") {
		t.Errorf("stderr = %q", stderr)
	}
	if len(h.tc.linkArgs) != 0 {
		t.Error("jlink should not run for rejected input")
	}
}

func TestRootCommand_ConfigLoadFailure(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	loadErr := issue.NewErrorContext().WithOperation("load configuration").Wrap(errors.New("bad cue")).BuildError()
	app := NewApp(Dependencies{Config: staticProvider{err: loadErr}, Stdout: &h.stdout, Stderr: &h.stderr})
	root := NewRootCommand(app)
	root.SetArgs([]string{writeJar(t)})
	root.SetOut(&h.stdout)
	root.SetErr(&h.stderr)

	var exitErr *ExitError
	if err := root.ExecuteContext(context.Background()); !errors.As(err, &exitErr) {
		t.Fatalf("Execute() error = %v, want *ExitError", err)
	}
	if !strings.Contains(h.stderr.String(), "failed to load configuration") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
}

func TestRootCommand_RequiresOneArchive(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	if err := h.run(); err == nil {
		t.Error("run() without an archive should fail")
	}
	if err := h.run("a.jar", "b.jar"); err == nil {
		t.Error("run() with two archives should fail")
	}
}

func TestModulesCommand(t *testing.T) {
	t.Parallel()

	t.Run("lines", func(t *testing.T) {
		t.Parallel()
		h := newCLIHarness(t)
		if err := h.run("modules", writeJar(t), "--extra-modules", "java.xml"); err != nil {
			t.Fatalf("run() unexpected error: %v\n%s", err, h.stderr.String())
		}
		if got := h.stdout.String(); got != "java.base\njava.sql\njava.xml\n" {
			t.Errorf("stdout = %q", got)
		}
	})

	t.Run("csv", func(t *testing.T) {
		t.Parallel()
		h := newCLIHarness(t)
		if err := h.run("modules", "--csv", writeJar(t)); err != nil {
			t.Fatalf("run() unexpected error: %v", err)
		}
		if got := h.stdout.String(); got != "java.base,java.sql\n" {
			t.Errorf("stdout = %q", got)
		}
	})

	t.Run("all modules", func(t *testing.T) {
		t.Parallel()
		h := newCLIHarness(t)
		if err := h.run("modules", "--all-modules", "--csv", writeJar(t)); err != nil {
			t.Fatalf("run() unexpected error: %v", err)
		}
		if got := h.stdout.String(); got != "java.base,java.desktop\n" {
			t.Errorf("stdout = %q", got)
		}
	})
}

func TestConfigDump(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	h.cfg.ExtraModules = []string{"java.sql"}
	if err := h.run("config", "dump"); err != nil {
		t.Fatalf("run() unexpected error: %v", err)
	}
	for _, want := range []string{`extra_modules: ["java.sql"]`, `output_dir: "dist"`, `color_scheme: "auto"`} {
		if !strings.Contains(h.stdout.String(), want) {
			t.Errorf("dump should contain %q:\n%s", want, h.stdout.String())
		}
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	if err := h.run("config", "show"); err != nil {
		t.Fatalf("run() unexpected error: %v", err)
	}
	for _, want := range []string{"Current Configuration", "(using defaults)", "output_dir", "multi_release"} {
		if !strings.Contains(h.stdout.String(), want) {
			t.Errorf("show should contain %q:\n%s", want, h.stdout.String())
		}
	}
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		want   issue.Id
		wantOK bool
	}{
		{"too old wins", &toolchain.NotFoundError{Err: toolchain.ErrToolchainTooOld}, issue.ToolchainTooOldId, true},
		{"not found", &toolchain.NotFoundError{}, issue.ToolchainNotFoundId, true},
		{"missing input", &packager.StageError{Stage: packager.StateValidating, Err: archive.ErrInputNotFound}, issue.InputNotFoundId, true},
		{"unsupported", &archive.UnsupportedInputTypeError{Path: "x.txt", Extension: ".txt"}, issue.UnsupportedInputId, true},
		{"no main class", &archive.MissingEntryPointError{Path: "x.jar"}, issue.MissingEntryPointId, true},
		{"jlink", &image.BuildError{Err: errors.New("boom")}, issue.ImageBuildFailedId, true},
		{"config", &config.InvalidConfigError{}, issue.ConfigLoadFailedId, true},
		{"tagged", &issue.ActionableError{Operation: "load configuration", Issue: issue.ConfigLoadFailedId}, issue.ConfigLoadFailedId, true},
		{"untagged", &issue.ActionableError{Operation: "load configuration"}, 0, false},
		{"unknown", errors.New("something else"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := classifyError(tt.err)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("classifyError() = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestToActionable(t *testing.T) {
	t.Parallel()

	stageErr := &packager.StageError{Stage: packager.StateResolving, Err: &toolchain.NotFoundError{}}
	var ae *issue.ActionableError
	if !errors.As(toActionable(stageErr), &ae) {
		t.Fatal("toActionable() should return an ActionableError")
	}
	if ae.Operation != "resolve required modules" {
		t.Errorf("Operation = %q", ae.Operation)
	}
	if len(ae.Suggestions) == 0 || !strings.Contains(ae.Suggestions[0], "--jdk-path") {
		t.Errorf("Suggestions = %v", ae.Suggestions)
	}
	if ae.Issue != issue.ToolchainNotFoundId {
		t.Errorf("Issue = %d, want %d", ae.Issue, issue.ToolchainNotFoundId)
	}

	plain := errors.New("plain")
	if toActionable(plain) != plain {
		t.Error("errors without a stage should pass through unchanged")
	}
}

func TestPackagerOptions_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.JDKPath = "/cfg/jdk"
	cfg.ExtraModules = []string{"java.sql"}
	cfg.OutputDir = "cfg-out"
	cfg.Image.Compress = "zip-6"

	app := NewApp(Dependencies{Config: staticProvider{cfg: cfg}})
	root := NewRootCommand(app)
	if err := root.ParseFlags([]string{"--jdk-path", "/flag/jdk", "--extra-modules", "java.xml"}); err != nil {
		t.Fatal(err)
	}

	opts := &rootOptions{}
	opts.jdkPath, _ = root.Flags().GetString("jdk-path")
	opts.extraModules, _ = root.Flags().GetStringSlice("extra-modules")
	opts.outputDir, _ = root.Flags().GetString("output-dir")

	p := opts.packagerOptions(root, cfg)
	if p.JDKPath != "/flag/jdk" {
		t.Errorf("JDKPath = %q, want flag value", p.JDKPath)
	}
	if p.OutputDir != "cfg-out" {
		t.Errorf("OutputDir = %q, want config value when the flag is unset", p.OutputDir)
	}
	if !slices.Equal(p.ExtraModules, []string{"java.sql", "java.xml"}) {
		t.Errorf("ExtraModules = %v, want config then flag entries", p.ExtraModules)
	}
	if p.Image.Compress != "zip-6" {
		t.Errorf("Image = %+v", p.Image)
	}
}
