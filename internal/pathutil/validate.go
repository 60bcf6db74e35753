// Package pathutil guards the scenario files that agent tools are allowed
// to read.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ScenarioExtensions are the file types a scenario can be loaded from.
var ScenarioExtensions = []string{".yaml", ".yml", ".json"}

// ErrOutsideAllowed is returned when a path escapes every allowed directory.
var ErrOutsideAllowed = errors.New("outside allowed directories")

// Redact shortens a path to .../<parent>/<base> for error messages.
func Redact(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	parent := filepath.Base(filepath.Dir(cleaned))
	if parent == "." || parent == string(filepath.Separator) {
		return filepath.Base(cleaned)
	}
	return ".../" + parent + "/" + filepath.Base(cleaned)
}

// Within resolves path and checks that it lies inside one of dirs after
// symlinks are followed. It returns the resolved absolute path.
func Within(path string, dirs []string) (string, error) {
	switch {
	case path == "":
		return "", fmt.Errorf("invalid path: empty")
	case strings.ContainsRune(path, '\x00'):
		return "", fmt.Errorf("invalid path: contains null byte")
	case len(dirs) == 0:
		return "", fmt.Errorf("invalid path: no allowed directories configured")
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", Redact(path), err)
	}
	parent, err := resolve(filepath.Dir(abs))
	if err != nil {
		return "", err
	}
	resolved := filepath.Join(parent, filepath.Base(abs))

	for _, dir := range dirs {
		dirAbs, err := filepath.Abs(filepath.Clean(dir))
		if err != nil {
			continue
		}
		root, err := resolve(dirAbs)
		if err != nil {
			continue
		}
		if resolved == root || strings.HasPrefix(resolved, root+string(os.PathSeparator)) {
			return resolved, nil
		}
	}
	return "", fmt.Errorf("%s: %w", Redact(abs), ErrOutsideAllowed)
}

// ValidateScenario checks that path names a scenario file (by extension)
// inside one of dirs, and returns its resolved absolute path.
func ValidateScenario(path string, dirs []string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(ScenarioExtensions, ext) {
		return "", fmt.Errorf("scenario %s: unsupported extension %q (want one of %s)",
			Redact(path), ext, strings.Join(ScenarioExtensions, ", "))
	}
	return Within(path, dirs)
}

// resolve follows symlinks on the deepest existing ancestor of dir and
// re-appends the part that does not exist yet.
func resolve(dir string) (string, error) {
	if r, err := filepath.EvalSymlinks(dir); err == nil {
		return r, nil
	}
	parent := filepath.Dir(dir)
	if parent == dir {
		return "", fmt.Errorf("cannot resolve %s", Redact(dir))
	}
	r, err := resolve(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(r, filepath.Base(dir)), nil
}

// ScenarioDirs returns the directories scenarios may be read from: workDir
// and ~/.homesense/scenarios.
func ScenarioDirs(workDir string) ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return []string{workDir, filepath.Join(home, ".homesense", "scenarios")}, nil
}
