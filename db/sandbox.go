package db

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sandbox confines file access to a base directory and its children,
// guarding against path traversal in user-supplied script paths.
type Sandbox struct {
	base string
}

// NewSandbox creates a sandbox rooted at dir. The directory is resolved
// to an absolute path; symlinks in the base are followed once here so
// later containment checks compare like with like.
func NewSandbox(dir string) (*Sandbox, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return &Sandbox{base: abs}, nil
}

// Base returns the sandbox root.
func (s *Sandbox) Base() string {
	return s.base
}

// Resolve validates that path points to an existing regular file inside
// the sandbox and returns its absolute form.
func (s *Sandbox) Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid file path %q: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	if !s.contains(abs) {
		return "", fmt.Errorf("access denied: %s (outside allowed directory)", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", path)
		}
		return "", fmt.Errorf("invalid file path %q: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("not a file: %s", path)
	}

	return abs, nil
}

// ResolveDatabase validates a database file path. Unlike Resolve the
// target need not exist yet, but its parent must be the sandbox root or
// the data/ subdirectory under it.
func (s *Sandbox) ResolveDatabase(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid database path %q: %w", path, err)
	}

	parent := filepath.Dir(abs)
	dataDir := filepath.Join(s.base, "data")
	if parent != s.base && parent != dataDir {
		return "", fmt.Errorf("database must be in %s or %s: %s", s.base, dataDir, path)
	}

	return abs, nil
}

// FindScripts walks dir for files ending in .sql and returns their
// sandbox-relative paths, sorted. Files outside the sandbox (e.g. via
// symlinks) are skipped. dir itself must be inside the sandbox.
func (s *Sandbox) FindScripts(dir string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid directory path %q: %w", dir, err)
	}
	if !s.contains(abs) {
		return nil, fmt.Errorf("access denied: %s (outside allowed directory)", dir)
	}

	var scripts []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".sql") {
			return nil
		}
		if !s.contains(path) {
			return nil
		}
		rel, err := filepath.Rel(s.base, path)
		if err != nil {
			return nil
		}
		scripts = append(scripts, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	sort.Strings(scripts)
	return scripts, nil
}

// contains reports whether an absolute path lies within the sandbox.
func (s *Sandbox) contains(abs string) bool {
	rel, err := filepath.Rel(s.base, abs)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "..")
}
