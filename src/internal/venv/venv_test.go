package venv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smichaku/claude.vim/src/internal/config"
)

// fakeRunner simulates the python/pip subprocesses so tests need no real
// interpreter. Creating a venv materializes the interpreter file on disk the
// way `python -m venv` would.
type fakeRunner struct {
	probeOutput string
	probeErr    error
	venvErr     error
	pipErr      error
	calls       []string
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, error) {
	call := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, call)

	switch {
	case len(args) >= 3 && args[0] == "-m" && args[1] == "venv":
		if f.venvErr != nil {
			return []byte("venv: error"), f.venvErr
		}
		interpreter := config.InterpreterPath(args[2])
		if err := os.MkdirAll(filepath.Dir(interpreter), 0755); err != nil {
			return nil, err
		}
		return nil, os.WriteFile(interpreter, []byte("#!fake python"), 0755)

	case len(args) >= 2 && args[0] == "-m" && args[1] == "pip":
		if f.pipErr != nil {
			return []byte("pip: error"), f.pipErr
		}
		return []byte("Successfully installed boto3"), nil

	case len(args) == 2 && args[0] == "-c":
		if f.probeErr != nil {
			return []byte("ModuleNotFoundError: No module named 'boto3'"), f.probeErr
		}
		return []byte(f.probeOutput + "\n"), nil
	}

	return nil, fmt.Errorf("unexpected command: %s", call)
}

// callsMatching returns the recorded calls containing the given substring
func (f *fakeRunner) callsMatching(substr string) []string {
	var matched []string
	for _, call := range f.calls {
		if strings.Contains(call, substr) {
			matched = append(matched, call)
		}
	}
	return matched
}

// newTestProvisioner builds a provisioner over a temp plugin directory with a
// fake runner and a fake base interpreter on "PATH"
func newTestProvisioner(t *testing.T) (*Provisioner, *fakeRunner, *config.Paths) {
	t.Helper()

	root := t.TempDir()
	plugin := filepath.Join(root, "plugin")
	if err := os.MkdirAll(plugin, 0755); err != nil {
		t.Fatalf("Failed to create plugin directory: %v", err)
	}

	paths := &config.Paths{
		Plugin:       plugin,
		Venv:         filepath.Join(plugin, config.VenvDirName),
		Requirements: filepath.Join(root, config.RequirementsFileName),
	}

	runner := &fakeRunner{probeOutput: "1.34.0"}

	p := New(paths)
	p.runner = runner
	p.lookPath = func(file string) (string, error) {
		return "/usr/bin/" + file, nil
	}

	return p, runner, paths
}

// makeVenv materializes a venv directory with an interpreter file
func makeVenv(t *testing.T, paths *config.Paths) {
	t.Helper()
	interpreter := paths.Interpreter()
	if err := os.MkdirAll(filepath.Dir(interpreter), 0755); err != nil {
		t.Fatalf("Failed to create venv directory: %v", err)
	}
	if err := os.WriteFile(interpreter, []byte("#!fake python"), 0755); err != nil {
		t.Fatalf("Failed to create interpreter file: %v", err)
	}
}

// writeRequirements writes a manifest next to the plugin directory
func writeRequirements(t *testing.T, paths *config.Paths) {
	t.Helper()
	if err := os.WriteFile(paths.Requirements, []byte("boto3==1.34.0\n"), 0644); err != nil {
		t.Fatalf("Failed to write requirements file: %v", err)
	}
}

func TestEnsureReady_CreatesMissingEnvironment(t *testing.T) {
	p, runner, paths := newTestProvisioner(t)
	writeRequirements(t, paths)

	interpreter, err := p.EnsureReady()
	if err != nil {
		t.Fatalf("EnsureReady() error: %v", err)
	}

	if interpreter != paths.Interpreter() {
		t.Errorf("EnsureReady() = %q, want %q", interpreter, paths.Interpreter())
	}
	if _, err := os.Stat(interpreter); err != nil {
		t.Errorf("Interpreter file missing after EnsureReady(): %v", err)
	}

	if got := runner.callsMatching("-m venv"); len(got) != 1 {
		t.Errorf("venv creation calls = %v, want exactly one", got)
	}
	if got := runner.callsMatching("pip install"); len(got) != 1 {
		t.Errorf("pip install calls = %v, want exactly one", got)
	}
}

func TestEnsureReady_Idempotent(t *testing.T) {
	p, runner, paths := newTestProvisioner(t)
	writeRequirements(t, paths)
	makeVenv(t, paths)

	// Marker file proves the environment is not recreated
	marker := filepath.Join(paths.Venv, "marker")
	if err := os.WriteFile(marker, []byte("keep"), 0644); err != nil {
		t.Fatalf("Failed to write marker: %v", err)
	}

	for i := 0; i < 2; i++ {
		interpreter, err := p.EnsureReady()
		if err != nil {
			t.Fatalf("EnsureReady() run %d error: %v", i+1, err)
		}
		if interpreter != paths.Interpreter() {
			t.Errorf("EnsureReady() run %d = %q, want %q", i+1, interpreter, paths.Interpreter())
		}
	}

	if _, err := os.Stat(marker); err != nil {
		t.Error("Ready environment was recreated; marker file is gone")
	}
	if got := runner.callsMatching("-m venv"); len(got) != 0 {
		t.Errorf("venv creation calls = %v, want none for a ready environment", got)
	}
}

func TestEnsureReady_RebuildsWhenInterpreterMissing(t *testing.T) {
	p, runner, paths := newTestProvisioner(t)
	writeRequirements(t, paths)

	// Venv directory exists but holds no interpreter
	stale := filepath.Join(paths.Venv, "leftover")
	if err := os.MkdirAll(paths.Venv, 0755); err != nil {
		t.Fatalf("Failed to create venv directory: %v", err)
	}
	if err := os.WriteFile(stale, []byte("partial"), 0644); err != nil {
		t.Fatalf("Failed to write leftover file: %v", err)
	}

	if _, err := p.EnsureReady(); err != nil {
		t.Fatalf("EnsureReady() error: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("Stale venv contents survived; expected a clean-slate rebuild")
	}
	if got := runner.callsMatching("-m venv"); len(got) != 1 {
		t.Errorf("venv creation calls = %v, want exactly one", got)
	}
}

func TestEnsureReady_RebuildsWhenProbeFails(t *testing.T) {
	p, runner, paths := newTestProvisioner(t)
	writeRequirements(t, paths)
	makeVenv(t, paths)

	runner.probeErr = errors.New("exit status 1")

	if _, err := p.EnsureReady(); err != nil {
		t.Fatalf("EnsureReady() error: %v", err)
	}

	if got := runner.callsMatching("-m venv"); len(got) != 1 {
		t.Errorf("venv creation calls = %v, want exactly one after failed probe", got)
	}
	if got := runner.callsMatching("pip install"); len(got) != 1 {
		t.Errorf("pip install calls = %v, want exactly one after failed probe", got)
	}
}

func TestEnsureReady_MissingManifestSkipsInstall(t *testing.T) {
	p, runner, _ := newTestProvisioner(t)
	// No requirements file written

	interpreter, err := p.EnsureReady()
	if err != nil {
		t.Fatalf("EnsureReady() error: %v", err)
	}

	if _, err := os.Stat(interpreter); err != nil {
		t.Errorf("Interpreter file missing after EnsureReady(): %v", err)
	}
	if got := runner.callsMatching("pip install"); len(got) != 0 {
		t.Errorf("pip install calls = %v, want none without a manifest", got)
	}
}

func TestEnsureReady_InstallerFailureIsFatal(t *testing.T) {
	p, runner, paths := newTestProvisioner(t)
	writeRequirements(t, paths)

	runner.pipErr = errors.New("exit status 1")

	if _, err := p.EnsureReady(); err == nil {
		t.Fatal("EnsureReady() should fail when pip exits non-zero")
	}
}

func TestEnsureReady_CreationFailureIsFatal(t *testing.T) {
	p, runner, _ := newTestProvisioner(t)

	runner.venvErr = errors.New("exit status 1")

	if _, err := p.EnsureReady(); err == nil {
		t.Fatal("EnsureReady() should fail when venv creation exits non-zero")
	}
}

func TestEnsureReady_NoBaseInterpreter(t *testing.T) {
	p, _, _ := newTestProvisioner(t)
	p.lookPath = func(file string) (string, error) {
		return "", errors.New("not found")
	}

	if _, err := p.EnsureReady(); err == nil {
		t.Fatal("EnsureReady() should fail when no Python is on PATH")
	}
}

func TestCheck(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		p, _, _ := newTestProvisioner(t)

		status := p.Check()
		if status.Ready {
			t.Error("Check() reports ready for a missing environment")
		}
		if status.Reason == "" {
			t.Error("Check() returned no reason for a missing environment")
		}
	})

	t.Run("missing interpreter", func(t *testing.T) {
		p, _, paths := newTestProvisioner(t)
		if err := os.MkdirAll(paths.Venv, 0755); err != nil {
			t.Fatalf("Failed to create venv directory: %v", err)
		}

		status := p.Check()
		if status.Ready {
			t.Error("Check() reports ready without an interpreter")
		}
	})

	t.Run("ready environment", func(t *testing.T) {
		p, _, paths := newTestProvisioner(t)
		makeVenv(t, paths)

		status := p.Check()
		if !status.Ready {
			t.Errorf("Check() not ready: %s", status.Reason)
		}
		if status.PackageVersion != "1.34.0" {
			t.Errorf("PackageVersion = %q, want \"1.34.0\"", status.PackageVersion)
		}
	})

	t.Run("probe failure", func(t *testing.T) {
		p, runner, paths := newTestProvisioner(t)
		makeVenv(t, paths)
		runner.probeErr = errors.New("exit status 1")

		status := p.Check()
		if status.Ready {
			t.Error("Check() reports ready when the probe fails")
		}
		if !strings.Contains(status.Reason, p.Package()) {
			t.Errorf("Reason = %q, should name the probe package", status.Reason)
		}
	})
}

func TestClean(t *testing.T) {
	p, _, paths := newTestProvisioner(t)
	makeVenv(t, paths)

	if err := p.Clean(); err != nil {
		t.Fatalf("Clean() error: %v", err)
	}
	if _, err := os.Stat(paths.Venv); !os.IsNotExist(err) {
		t.Error("Venv directory still exists after Clean()")
	}

	// Cleaning a missing environment is a no-op
	if err := p.Clean(); err != nil {
		t.Errorf("Clean() on a missing environment: %v", err)
	}
}
