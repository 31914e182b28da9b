// Package validation provides input validation for the workbench forms and
// CLI. Every check here runs before any subprocess is spawned.
package validation

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Int parses s as an integer within [min, max]. Use IntMin / IntRange for the
// common cases; bounds of math.MinInt / math.MaxInt disable that side.
func Int(label, s string, min, max int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", label, s)
	}
	if v < min {
		return 0, fmt.Errorf("%s must be >= %d, got %d", label, min, v)
	}
	if v > max {
		return 0, fmt.Errorf("%s must be <= %d, got %d", label, max, v)
	}
	return v, nil
}

// IntMin parses s as an integer with a lower bound only.
func IntMin(label, s string, min int) (int, error) {
	return Int(label, s, min, math.MaxInt)
}

// Float parses s as a float within [min, max]. Pass math.Inf(-1) / math.Inf(1)
// to disable a bound.
func Float(label, s string, min, max float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", label, s)
	}
	if v < min {
		return 0, fmt.Errorf("%s must be >= %g, got %g", label, min, v)
	}
	if v > max {
		return 0, fmt.Errorf("%s must be <= %g, got %g", label, max, v)
	}
	return v, nil
}

// FloatMin parses s as a float with a lower bound only.
func FloatMin(label, s string, min float64) (float64, error) {
	return Float(label, s, min, math.Inf(1))
}

// AnyFloat parses s as a float with no bounds.
func AnyFloat(label, s string) (float64, error) {
	return Float(label, s, math.Inf(-1), math.Inf(1))
}

// Filename validates a bare filename (not a path): non-empty, no path
// separators, no "..", no null bytes. Filenames get joined into the external
// tools' output directories, so traversal must be rejected here.
func Filename(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("filename contains null byte: %s", name)
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, '\\') {
		return fmt.Errorf("filename cannot contain path separators: %s", name)
	}
	if name == ".." {
		return fmt.Errorf("filename cannot be '..'")
	}
	return nil
}

// EnsureFitsExt appends ".fits" when missing, matching the external scripts'
// own behavior so the name shown to the user is the name on disk.
func EnsureFitsExt(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".fits") {
		return name
	}
	return name + ".fits"
}

// TrimFitsExt removes a trailing ".fits"; the mask script appends the
// extension itself and double extensions confuse the downstream tools.
func TrimFitsExt(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".fits") {
		return name[:len(name)-len(".fits")]
	}
	return name
}

// FileExists validates that path names an existing regular file.
func FileExists(label, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%s cannot be empty", label)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s not found: %s", label, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file: %s", label, path)
	}
	return nil
}

// DirExists validates that path names an existing directory.
func DirExists(label, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%s cannot be empty", label)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s not found: %s", label, path)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %s", label, path)
	}
	return nil
}
