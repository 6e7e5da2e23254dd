// Package venv provisions the Python virtual environment used by the
// claude.vim plugin. It checks whether a usable environment already exists
// next to the plugin, and creates or recreates it when it does not.
package venv

import (
	"fmt"
	"os"
	"os/exec"
	goruntime "runtime"
	"strings"

	"github.com/smichaku/claude.vim/src/internal/config"
	"github.com/smichaku/claude.vim/src/internal/constants"
	"github.com/smichaku/claude.vim/src/internal/manifest"
	"github.com/smichaku/claude.vim/src/internal/ui"
)

// DefaultPackage is the package whose importability decides whether the
// environment is usable.
const DefaultPackage = "boto3"

// Runner executes a command and returns its combined output.
// The default implementation spawns real processes; tests substitute a fake.
type Runner interface {
	Run(name string, args ...string) ([]byte, error)
}

type systemRunner struct{}

func (systemRunner) Run(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

// Status describes the outcome of a readiness check
type Status struct {
	Ready          bool
	Reason         string // Why the environment is not ready (empty when ready)
	PackageVersion string // Probed package version (empty when not ready)
}

// Provisioner ensures the virtual environment exists and has the required
// package installed. Safe to run repeatedly; a ready environment is left
// untouched.
type Provisioner struct {
	paths    *config.Paths
	pkg      string
	runner   Runner
	lookPath func(file string) (string, error)
}

// New creates a provisioner for the given paths
func New(paths *config.Paths) *Provisioner {
	return &Provisioner{
		paths:    paths,
		pkg:      DefaultPackage,
		runner:   systemRunner{},
		lookPath: exec.LookPath,
	}
}

// Package returns the probe package name
func (p *Provisioner) Package() string {
	return p.pkg
}

// Check inspects the environment without modifying it
func (p *Provisioner) Check() Status {
	interpreter := p.paths.Interpreter()

	if _, err := os.Stat(p.paths.Venv); os.IsNotExist(err) {
		return Status{Reason: "Virtual environment does not exist"}
	}

	if _, err := os.Stat(interpreter); os.IsNotExist(err) {
		return Status{Reason: "Virtual environment Python executable not found"}
	}

	// Probe: import the package inside the environment and read its version
	probe := fmt.Sprintf("import %s; print(%s.__version__)", p.pkg, p.pkg)
	output, err := p.runner.Run(interpreter, "-c", probe)
	if err != nil {
		ui.Debug("Probe failed: %v", err)
		return Status{Reason: fmt.Sprintf("%s not found in virtual environment", p.pkg)}
	}

	return Status{Ready: true, PackageVersion: strings.TrimSpace(string(output))}
}

// EnsureReady makes sure the environment exists and has the required package,
// recreating it from scratch when it is missing or unusable. Returns the
// interpreter path inside the environment.
func (p *Provisioner) EnsureReady() (string, error) {
	interpreter := p.paths.Interpreter()

	status := p.Check()
	if status.Ready {
		ui.Success("Virtual environment ready with %s %s", p.pkg, status.PackageVersion)
		return interpreter, nil
	}

	ui.Info("%s", status.Reason)

	// Clean slate: no partial-repair attempts
	if _, err := os.Stat(p.paths.Venv); err == nil {
		ui.Progress("Removing existing virtual environment")
		if err := os.RemoveAll(p.paths.Venv); err != nil {
			return "", fmt.Errorf("failed to remove virtual environment: %w", err)
		}
	}

	if err := p.create(); err != nil {
		return "", err
	}

	if err := p.installRequirements(); err != nil {
		return "", err
	}

	ui.Success("Virtual environment setup complete")
	return interpreter, nil
}

// create builds a fresh virtual environment, pip included
func (p *Provisioner) create() error {
	base, err := p.findBaseInterpreter()
	if err != nil {
		return err
	}
	ui.Debug("Base interpreter: %s", base)

	s := ui.NewSpinner(fmt.Sprintf("Creating virtual environment at %s", p.paths.Venv))
	s.Start()

	output, err := p.runner.Run(base, "-m", "venv", p.paths.Venv)
	if err != nil {
		s.Error("Failed to create virtual environment")
		return fmt.Errorf("failed to create virtual environment: %w\n%s", err, string(output))
	}

	s.Success("Virtual environment created")
	return nil
}

// installRequirements installs the manifest into the environment. A missing
// manifest is a warning, not an error; an installer failure is fatal.
func (p *Provisioner) installRequirements() error {
	if _, err := os.Stat(p.paths.Requirements); os.IsNotExist(err) {
		ui.Warning("%s not found, skipping package installation", p.paths.Requirements)
		return nil
	}

	if reqs, err := manifest.ParseFile(p.paths.Requirements); err == nil {
		ui.Debug("Manifest lists %d requirement(s)", len(reqs))
	}

	interpreter := p.paths.Interpreter()

	s := ui.NewSpinner(fmt.Sprintf("Installing requirements from %s", p.paths.Requirements))
	s.Start()

	output, err := p.runner.Run(interpreter, "-m", "pip", "install", "-r", p.paths.Requirements)
	if err != nil {
		s.Error("Failed to install requirements")
		return fmt.Errorf("pip install failed: %w\n%s", err, string(output))
	}
	if ui.Verbose() {
		ui.Debug("pip output:\n%s", string(output))
	}

	s.Success("Requirements installed")
	return nil
}

// findBaseInterpreter locates a system Python to create the environment with
func (p *Provisioner) findBaseInterpreter() (string, error) {
	var candidates []string
	if goruntime.GOOS == constants.OSWindows {
		candidates = []string{"py", "python"}
	} else {
		candidates = []string{"python3", "python"}
	}

	for _, name := range candidates {
		if path, err := p.lookPath(name); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no Python interpreter found on PATH (tried %s)", strings.Join(candidates, ", "))
}

// Clean removes the virtual environment directory if it exists
func (p *Provisioner) Clean() error {
	if _, err := os.Stat(p.paths.Venv); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(p.paths.Venv); err != nil {
		return fmt.Errorf("failed to remove virtual environment: %w", err)
	}
	return nil
}
