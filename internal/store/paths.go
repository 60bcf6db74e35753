package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// GlobalDir returns the path to the per-user .homesense directory.
// On Unix: ~/.homesense
// On Windows: %USERPROFILE%\.homesense
func GlobalDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".homesense"), nil
}

// DefaultPath returns the default store file for a backend inside dir.
func DefaultPath(dir, backend string) string {
	switch backend {
	case BackendSQLite:
		return filepath.Join(dir, "progress.db")
	default:
		return filepath.Join(dir, "progress.json")
	}
}
