package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExecutableDir returns the directory holding the running binary, with
// symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	return filepath.Dir(exe), nil
}

// Resolve anchors a relative path at BaseDir. Absolute paths and an empty
// BaseDir leave p unchanged.
func (p PathsConfig) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || p.BaseDir == "" {
		return path
	}
	return filepath.Join(p.BaseDir, path)
}

// JobBinDir returns where job binaries live: BinDir when set, otherwise the
// directory of the running executable.
func (p PathsConfig) JobBinDir() (string, error) {
	if p.BinDir != "" {
		return p.Resolve(p.BinDir), nil
	}
	return ExecutableDir()
}

// ReportPath returns the path of a derived artifact.
func (p PathsConfig) ReportPath(name string) string {
	return filepath.Join(p.ReportsDir, name)
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
