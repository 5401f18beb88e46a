package recording

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	apperrors "github.com/killallgit/audionote/pkg/errors"
)

// ResolvePath returns the absolute, symlink-free form of path and fails with
// INVALID_INPUT unless it lies inside dir. Missing files are allowed.
func ResolvePath(dir, path string) (string, error) {
	if dir == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "recordings directory is not configured")
	}
	if path == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "recording path is empty")
	}

	root, err := resolve(dir)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "invalid recordings directory")
	}
	target, err := resolve(path)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "invalid recording path")
	}

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "recording must be inside the recordings directory").
			WithDetail("path", path)
	}
	return target, nil
}

// resolve makes path absolute and follows symlinks. When path does not exist
// its parent is resolved instead.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	parent, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return abs, nil
		}
		return "", err
	}
	return filepath.Join(parent, filepath.Base(abs)), nil
}
