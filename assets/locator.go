package assets

import (
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
)

// ResourceLocator maps a path relative to the packaged resource tree to an
// absolute platform path. The host packaging system provides the real
// implementation; DirLocator covers the common "resources live under one
// directory" layout. A Locate error means "this candidate is unavailable",
// it never aborts a search.
type ResourceLocator interface {
	Locate(relative string) (string, error)
}

// LocatorFunc adapts a function to the ResourceLocator interface.
type LocatorFunc func(relative string) (string, error)

func (f LocatorFunc) Locate(relative string) (string, error) {
	return f(relative)
}

// DirLocator resolves relative paths inside a base directory and rejects
// paths that would escape it.
type DirLocator struct {
	base string
}

func NewDirLocator(base string) (*DirLocator, error) {
	if strings.TrimSpace(base) == "" {
		return nil, errors.New("resource base directory cannot be empty", errors.CategoryBadInput).
			WithTextCode("RESOURCE_DIR_EMPTY")
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "invalid resource base directory").
			WithTextCode("RESOURCE_DIR_INVALID").
			WithMetadata(map[string]any{"base": base})
	}

	return &DirLocator{base: abs}, nil
}

// Base returns the absolute resource base directory.
func (l *DirLocator) Base() string {
	return l.base
}

func (l *DirLocator) Locate(relative string) (string, error) {
	joined := filepath.Join(l.base, relative)

	rel, err := filepath.Rel(l.base, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("path escapes resource base directory", errors.CategoryBadInput).
			WithTextCode("RESOURCE_PATH_ESCAPE").
			WithMetadata(map[string]any{"relative": relative})
	}

	return joined, nil
}
