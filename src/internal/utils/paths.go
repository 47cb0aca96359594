package utils

import "path/filepath"

// GetAbsolutePath returns path if it is absolute, otherwise path joined with baseDir.
func GetAbsolutePath(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(baseDir, path))
}
