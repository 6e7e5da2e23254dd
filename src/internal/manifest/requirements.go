// Package manifest reads pip requirements files, the plain-text manifests
// listing the packages a virtual environment must contain.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Requirement is a single parsed line of a requirements file
type Requirement struct {
	Name       string // Package name, without extras
	Constraint string // Version operator, e.g. "==" (empty if unpinned)
	Version    string // Pinned version (empty if unpinned)
	Raw        string // Original line, trimmed
}

// Version operators recognized in requirement lines. Longer operators must
// come first so "==" is not matched as "=".
var operators = []string{"===", "==", ">=", "<=", "~=", "!=", ">", "<"}

// String returns the requirement in requirements.txt form
func (r Requirement) String() string {
	if r.Constraint == "" {
		return r.Name
	}
	return fmt.Sprintf("%s%s%s", r.Name, r.Constraint, r.Version)
}

// ParseFile reads and parses a requirements file
func ParseFile(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open requirements file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reqs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return reqs, nil
}

// Parse parses requirements from a reader, one requirement per line.
// Blank lines, comments, and installer option lines (e.g. --index-url) are
// skipped.
func Parse(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		req, ok := parseLine(scanner.Text())
		if ok {
			reqs = append(reqs, req)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return reqs, nil
}

// parseLine parses a single requirements line. The second return value is
// false for lines that carry no requirement.
func parseLine(line string) (Requirement, bool) {
	// Strip inline comments
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)

	if line == "" || strings.HasPrefix(line, "-") {
		return Requirement{}, false
	}

	// Strip environment markers ("; python_version < ...")
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}

	req := Requirement{Raw: line, Name: line}

	for _, op := range operators {
		if idx := strings.Index(line, op); idx >= 0 {
			req.Name = strings.TrimSpace(line[:idx])
			req.Constraint = op
			req.Version = strings.TrimSpace(line[idx+len(op):])
			break
		}
	}

	// Extras ("boto3[crt]") are part of the install spec but not the name
	if idx := strings.Index(req.Name, "["); idx >= 0 {
		req.Name = strings.TrimSpace(req.Name[:idx])
	}

	if req.Name == "" {
		return Requirement{}, false
	}

	return req, true
}
