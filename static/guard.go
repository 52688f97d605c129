// Package static provides traversal- and symlink-safe resolution of
// files under a configured root directory.
package static

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrDenied is the sentinel for guard rejections, checked with
// errors.Is.
var ErrDenied = errors.New("static path denied")

// Denial reasons reported by DeniedError.
const (
	ReasonTraversal = "path traversal sequence"
	ReasonAbsolute  = "absolute path"
	ReasonEscape    = "resolves outside root"
	ReasonSymlink   = "symlink entry"
	ReasonRoot      = "unresolvable root"
)

// DeniedError reports why the guard rejected a requested path.
type DeniedError struct {
	Requested string
	Reason    string
}

// Error implements the error interface.
func (e *DeniedError) Error() string {
	return fmt.Sprintf("static path %q denied: %s", e.Requested, e.Reason)
}

// Is checks if the error matches the target.
func (e *DeniedError) Is(target error) bool {
	if target == ErrDenied {
		return true
	}
	_, ok := target.(*DeniedError)
	return ok
}

// Resolve maps a requested root-relative path to a safe absolute path
// under root, or rejects it. Checks are applied in order: traversal
// sequences in the raw request, leading slash, escape of the
// canonicalized root, and finally a symlink entry, which is rejected
// unconditionally regardless of its target.
//
// A path whose final element does not exist passes the guard; the
// caller observes the missing file itself and reports 404 rather
// than 403.
func Resolve(requested, root string) (string, error) {
	if strings.Contains(requested, "..") ||
		strings.Contains(requested, "./") ||
		strings.Contains(requested, ".\\") {
		return "", &DeniedError{Requested: requested, Reason: ReasonTraversal}
	}
	if strings.HasPrefix(requested, "/") || strings.HasPrefix(requested, "\\") {
		return "", &DeniedError{Requested: requested, Reason: ReasonAbsolute}
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", &DeniedError{Requested: requested, Reason: ReasonRoot}
	}
	rootCanon, err := filepath.EvalSymlinks(rootAbs)
	if err != nil {
		return "", &DeniedError{Requested: requested, Reason: ReasonRoot}
	}

	candidate := filepath.Join(rootCanon, requested)

	info, err := os.Lstat(candidate)
	if errors.Is(err, fs.ErrNotExist) {
		return candidate, nil
	}
	if err != nil {
		return "", &DeniedError{Requested: requested, Reason: ReasonEscape}
	}

	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return "", &DeniedError{Requested: requested, Reason: ReasonEscape}
	}
	if resolved != rootCanon && !strings.HasPrefix(resolved, rootCanon+string(os.PathSeparator)) {
		return "", &DeniedError{Requested: requested, Reason: ReasonEscape}
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return "", &DeniedError{Requested: requested, Reason: ReasonSymlink}
	}

	return candidate, nil
}
