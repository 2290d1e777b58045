package common

import (
	"path"
	"strings"
)

// UnknownStr is the fallback name for enum values without a known label.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// IsStdlib reports whether pkgPath looks like a standard library import path,
// i.e. its first element has no dot.
func IsStdlib(pkgPath string) bool {
	if pkgPath == "" {
		return false
	}

	first, _, _ := strings.Cut(pkgPath, "/")

	return !strings.Contains(first, ".")
}
