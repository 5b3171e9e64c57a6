// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const (
	helperEnv         = "GO_WANT_HELPER_PROCESS"
	helperExitCodeEnv = "GO_HELPER_EXIT_CODE"
	helperStdoutEnv   = "GO_HELPER_STDOUT"
	helperStderrEnv   = "GO_HELPER_STDERR"
)

type (
	// MockCommandRecorder captures arguments passed to exec.Command for verification.
	// It uses the TestHelperProcess pattern to simulate command execution:
	// the package under test must declare
	//
	//	func TestHelperProcess(t *testing.T) { testutil.RunHelperProcess() }
	MockCommandRecorder struct {
		mu sync.Mutex
		// Invocations records each call to the mock exec.Command
		Invocations []MockInvocation
		// Responses maps a tool (binary base name, optionally followed by a
		// space and its first argument) to its simulated result. The
		// tool+argument key wins over the bare tool key.
		Responses map[string]MockResponse
		// Default is used for tools without a response.
		Default MockResponse
	}

	// MockResponse is what a simulated command prints and returns.
	MockResponse struct {
		ExitCode int
		Stdout   string
		Stderr   string
	}

	// MockInvocation represents a single invocation of exec.Command.
	MockInvocation struct {
		// Name is the command path as passed to exec.Command
		Name string
		// Args are the arguments passed to the command
		Args []string
	}
)

// NewMockCommandRecorder creates a new recorder with default settings (success, no output).
func NewMockCommandRecorder() *MockCommandRecorder {
	return &MockCommandRecorder{
		Invocations: make([]MockInvocation, 0),
		Responses:   make(map[string]MockResponse),
	}
}

// On registers the response for key ("jdeps" or "jdeps --list-deps").
func (m *MockCommandRecorder) On(key string, resp MockResponse) *MockCommandRecorder {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[key] = resp
	return m
}

// ContextCommandFunc returns a function that can replace exec.CommandContext
// for testing. It records invocations and returns a command that runs
// TestHelperProcess in the test binary.
func (m *MockCommandRecorder) ContextCommandFunc(t *testing.T) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		resp := m.record(name, args)

		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		//nolint:gosec // TestHelperProcess is a test-only pattern
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{
			helperEnv + "=1",
			fmt.Sprintf("%s=%d", helperExitCodeEnv, resp.ExitCode),
			helperStdoutEnv + "=" + resp.Stdout,
			helperStderrEnv + "=" + resp.Stderr,
		}
		return cmd
	}
}

func (m *MockCommandRecorder) record(name string, args []string) MockResponse {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Invocations = append(m.Invocations, MockInvocation{Name: name, Args: slices.Clone(args)})

	tool := filepath.Base(name)
	if len(args) > 0 {
		if resp, ok := m.Responses[tool+" "+args[0]]; ok {
			return resp
		}
	}
	if resp, ok := m.Responses[tool]; ok {
		return resp
	}
	return m.Default
}

// InvocationsOf returns the recorded invocations of the named tool.
func (m *MockCommandRecorder) InvocationsOf(tool string) []MockInvocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockInvocation
	for _, inv := range m.Invocations {
		if filepath.Base(inv.Name) == tool {
			out = append(out, inv)
		}
	}
	return out
}

// LastInvocation returns the most recent invocation, or nil if none.
func (m *MockCommandRecorder) LastInvocation() *MockInvocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Invocations) == 0 {
		return nil
	}
	inv := m.Invocations[len(m.Invocations)-1]
	return &inv
}

// LastArgs returns the arguments from the most recent invocation.
func (m *MockCommandRecorder) LastArgs() []string {
	if inv := m.LastInvocation(); inv != nil {
		return inv.Args
	}
	return nil
}

// AssertInvocationCount verifies the number of command invocations.
func (m *MockCommandRecorder) AssertInvocationCount(t *testing.T, expected int) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Invocations) != expected {
		t.Errorf("expected %d invocations, got %d: %v", expected, len(m.Invocations), m.Invocations)
	}
}

// AssertArgsContain verifies that the last invocation args contain the expected string.
func (m *MockCommandRecorder) AssertArgsContain(t *testing.T, expected string) {
	t.Helper()
	args := m.LastArgs()
	if !strings.Contains(strings.Join(args, " "), expected) {
		t.Errorf("expected args to contain %q, got: %v", expected, args)
	}
}

// HasArgPair checks if the last invocation contains a flag-value pair (e.g., "--output", "/tmp/jre").
func (m *MockCommandRecorder) HasArgPair(flag, value string) bool {
	args := m.LastArgs()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

// RunHelperProcess is the body of a package's TestHelperProcess. It writes
// the configured output and exits with the configured code. It returns
// immediately when not running as a helper.
func RunHelperProcess() {
	if os.Getenv(helperEnv) != "1" {
		return
	}

	if stdout := os.Getenv(helperStdoutEnv); stdout != "" {
		fmt.Fprint(os.Stdout, stdout)
	}
	if stderr := os.Getenv(helperStderrEnv); stderr != "" {
		fmt.Fprint(os.Stderr, stderr)
	}

	exitCode, _ := strconv.Atoi(os.Getenv(helperExitCodeEnv))
	os.Exit(exitCode)
}
