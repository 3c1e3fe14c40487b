// Package security keeps MCP tool paths inside the configured PDF directory.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideDirectory is returned for paths that escape the configured
// directory.
var ErrOutsideDirectory = errors.New("path is outside configured directory")

// PathValidator checks tool paths against the configured directory
type PathValidator struct {
	configuredDirectory string
}

// NewPathValidator creates a new path validator for the given directory
func NewPathValidator(configuredDirectory string) (*PathValidator, error) {
	if configuredDirectory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	return &PathValidator{
		configuredDirectory: configuredDirectory,
	}, nil
}

// ConfiguredDirectory returns the configured directory path
func (v *PathValidator) ConfiguredDirectory() string {
	return v.configuredDirectory
}

// Resolve turns a tool path into a clean absolute path inside the configured
// directory. Relative paths are taken relative to that directory. NUL bytes
// are stripped first.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.configuredDirectory, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	within, err := v.IsWithin(absPath)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("%w: %s", ErrOutsideDirectory, path)
	}

	return absPath, nil
}

// IsWithin reports whether path lies inside the configured directory both as
// written and with every symlink along it resolved.
func (v *PathValidator) IsWithin(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}

	absDir, err := filepath.Abs(v.configuredDirectory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	dirs := []string{filepath.Clean(absDir)}
	if realDir, err := filepath.EvalSymlinks(dirs[0]); err == nil && realDir != dirs[0] {
		dirs = append(dirs, realDir)
	}

	realPath, err := resolveExisting(cleanPath)
	if err != nil {
		return false, fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	return under(cleanPath, dirs) && under(realPath, dirs), nil
}

// resolveExisting evaluates symlinks on the longest existing prefix of path
// and joins the missing tail back on.
func resolveExisting(path string) (string, error) {
	var tail []string
	current := path
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			for i := len(tail) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, tail[i])
			}
			return resolved, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return path, nil
		}
		tail = append(tail, filepath.Base(current))
		current = parent
	}
}

func under(path string, dirs []string) bool {
	for _, dir := range dirs {
		prefix := dir
		if !strings.HasSuffix(prefix, string(filepath.Separator)) {
			prefix += string(filepath.Separator)
		}
		if path == dir || strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
