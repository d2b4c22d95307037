// Package security validates paths taken from the command line and from
// dataset metadata before they are opened or written.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePathWithinDirectory checks that filePath resolves inside safeDir.
// Symlinks are resolved on both sides; for paths that do not exist yet the
// nearest existing ancestor is resolved instead, so a new file below a
// symlink pointing elsewhere is rejected too.
func ValidatePathWithinDirectory(filePath, safeDir string) error {
	absPath, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	absSafeDir, err := filepath.Abs(safeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory path: %w", err)
	}

	canonicalPath := resolveExisting(absPath)
	canonicalSafeDir, err := filepath.EvalSymlinks(absSafeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory symlinks: %w", err)
	}

	relPath, err := filepath.Rel(canonicalSafeDir, canonicalPath)
	if err != nil {
		return fmt.Errorf("path is outside safe directory: %w", err)
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) || filepath.IsAbs(relPath) {
		return fmt.Errorf("path traversal detected: %s attempts to escape %s", filePath, safeDir)
	}
	return nil
}

// resolveExisting evaluates symlinks of the longest existing prefix of an
// absolute path and re-appends the missing tail.
func resolveExisting(absPath string) string {
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		return resolved
	}
	tail := ""
	for dir := absPath; ; {
		parent := filepath.Dir(dir)
		tail = filepath.Join(filepath.Base(dir), tail)
		if parent == dir {
			return absPath
		}
		if resolved, err := filepath.EvalSymlinks(parent); err == nil {
			return filepath.Join(resolved, tail)
		}
		dir = parent
	}
}

// ValidatePathWithinAllowedDirs checks that filePath is inside at least one
// of allowedDirs.
func ValidatePathWithinAllowedDirs(filePath string, allowedDirs []string) error {
	if len(allowedDirs) == 0 {
		return fmt.Errorf("no allowed directories specified")
	}
	for _, dir := range allowedDirs {
		if err := ValidatePathWithinDirectory(filePath, dir); err == nil {
			return nil
		}
	}
	return fmt.Errorf("path must be within one of the allowed directories: %v", allowedDirs)
}

// ValidateReportPath validates the destination of a run report. Reports may
// be written to the temp directory, the working directory or the dataset.
func ValidateReportPath(filePath, datasetRoot string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	allowed := []string{os.TempDir(), cwd}
	if datasetRoot != "" {
		allowed = append(allowed, datasetRoot)
	}
	return ValidatePathWithinAllowedDirs(filePath, allowed)
}

// ValidateEntryName checks that name can be joined to a directory without
// leaving it: non-empty, no separators, not "." or "..".
func ValidateEntryName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("invalid directory entry name %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("directory entry name %q contains a path separator", name)
	}
	return nil
}
