// Package config resolves the filesystem locations claude-venv operates on:
// the plugin directory, the virtual environment beneath it, and the
// requirements manifest beside it.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/smichaku/claude.vim/src/internal/constants"
)

// VenvDirName is the name of the virtual environment directory inside the
// plugin directory.
const VenvDirName = "venv"

// RequirementsFileName is the manifest file expected one directory above the
// plugin directory.
const RequirementsFileName = "requirements.txt"

// Paths holds all locations claude-venv reads or writes
type Paths struct {
	Plugin       string // Plugin directory (where the claude-venv executable lives)
	Venv         string // Virtual environment directory (<plugin>/venv)
	Requirements string // Requirements manifest (<plugin>/../requirements.txt)
}

var (
	defaultPaths *Paths
	pathsOnce    sync.Once
)

// DefaultPaths returns the resolved claude-venv paths.
// This function is thread-safe and guarantees single initialization.
func DefaultPaths() *Paths {
	pathsOnce.Do(func() {
		defaultPaths = initPaths()
	})
	return defaultPaths
}

// initPaths initializes the default paths
func initPaths() *Paths {
	plugin := getPluginDir()
	return &Paths{
		Plugin:       plugin,
		Venv:         filepath.Join(plugin, VenvDirName),
		Requirements: filepath.Join(filepath.Dir(plugin), RequirementsFileName),
	}
}

// getPluginDir returns the plugin directory containing this tool
func getPluginDir() string {
	// Check for CLAUDE_VIM_PLUGIN_DIR environment variable first
	if dir := os.Getenv("CLAUDE_VIM_PLUGIN_DIR"); dir != "" {
		return dir
	}

	// Use the directory of the running executable
	exe, err := os.Executable()
	if err == nil {
		if resolved, rerr := filepath.EvalSymlinks(exe); rerr == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}

	// Fallback to current directory if the executable path is not available
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// InterpreterPath returns the path to the Python executable inside the given
// virtual environment directory. Windows venvs keep it under Scripts\, Unix
// venvs under bin/.
func InterpreterPath(venvDir string) string {
	if runtime.GOOS == constants.OSWindows {
		return filepath.Join(venvDir, "Scripts", "python"+constants.ExtExe)
	}
	return filepath.Join(venvDir, "bin", "python")
}

// Interpreter returns the interpreter path for the default venv location
func (p *Paths) Interpreter() string {
	return InterpreterPath(p.Venv)
}

// ResetPathsCache resets the cached paths, forcing reinitialization on next
// access. Intended for tests that change CLAUDE_VIM_PLUGIN_DIR.
func ResetPathsCache() {
	pathsOnce = sync.Once{}
	defaultPaths = nil
}
