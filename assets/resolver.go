package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"

	appshell "github.com/goliatone/go-appshell"
)

// BuildMode distinguishes a development run (source tree available) from a
// packaged production run. It is fixed at startup and never mutated.
type BuildMode int

const (
	ModeProduction BuildMode = iota
	ModeDevelopment
)

func (m BuildMode) String() string {
	if m == ModeDevelopment {
		return "development"
	}
	return "production"
}

// ParseBuildMode maps the usual spellings onto a BuildMode.
func ParseBuildMode(s string) (BuildMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev", "debug":
		return ModeDevelopment, nil
	case "production", "prod", "release", "":
		return ModeProduction, nil
	default:
		return ModeProduction, errors.New(fmt.Sprintf("unknown build mode %q", s), errors.CategoryBadInput).
			WithTextCode("BUILD_MODE_INVALID")
	}
}

// ProjectRootFunc locates the source tree root for the development
// fallback. Only consulted when the resolver runs in development mode.
type ProjectRootFunc func() (string, error)

// ProjectRootFromEnv reads the source tree root from key. The returned
// function fails when the variable is unset, which makes a misconfigured
// development run fail loudly instead of silently probing production paths.
func ProjectRootFromEnv(key string) ProjectRootFunc {
	return func() (string, error) {
		if root := os.Getenv(key); root != "" {
			return root, nil
		}
		return "", errors.New(fmt.Sprintf("project root environment variable %s is not set", key), errors.CategoryExternal).
			WithTextCode(ErrCodeNoProjectRoot)
	}
}

// StaticProjectRoot always returns root.
func StaticProjectRoot(root string) ProjectRootFunc {
	return func() (string, error) {
		return root, nil
	}
}

type Option func(*Resolver)

func WithMode(m BuildMode) Option {
	return func(r *Resolver) {
		r.mode = m
	}
}

func WithLogger(l appshell.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithProjectRoot(fn ProjectRootFunc) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.projectRoot = fn
		}
	}
}

// Resolver loads audio assets by probing an ordered list of candidate
// locations and returning the first existing file's contents. It keeps no
// state between calls and is safe for concurrent use.
type Resolver struct {
	mode        BuildMode
	locator     ResourceLocator
	projectRoot ProjectRootFunc
	logger      appshell.Logger
}

// NewResolver builds a Resolver around the host-provided locator.
// Defaults: production mode, project root from APPSHELL_PROJECT_ROOT,
// no-op logger.
func NewResolver(locator ResourceLocator, opts ...Option) *Resolver {
	r := &Resolver{
		mode:        ModeProduction,
		locator:     locator,
		projectRoot: ProjectRootFromEnv("APPSHELL_PROJECT_ROOT"),
		logger:      appshell.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Mode returns the build mode the resolver was configured with.
func (r *Resolver) Mode() BuildMode {
	return r.mode
}

// candidatePaths returns the production search templates in priority order.
// Insertion order is the search priority.
func candidatePaths(filename string) []string {
	return []string{
		filepath.Join("resources", "audio", filename),
		filepath.Join("resources", filename),
		filepath.Join("audio", filename),
		filename,
	}
}

// Load resolves filename to the raw bytes of the first matching candidate.
//
// In development mode the source tree path <root>/resources/audio/<filename>
// is probed first; if it exists its read result is terminal. Every mode then
// walks the production templates through the locator, skipping candidates
// the locator cannot map, and returns on the first existing match. A read
// error after a match is terminal, it never falls through to later
// candidates. Existence means os.Stat succeeds, so a directory sitting at
// a candidate path is a match and its read failure is terminal.
func (r *Resolver) Load(ctx context.Context, filename string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "asset load canceled")
	}

	if strings.TrimSpace(filename) == "" {
		return nil, errors.New("filename cannot be empty", errors.CategoryValidation).
			WithTextCode(ErrCodeEmptyFilename)
	}

	if r.mode == ModeDevelopment {
		root, err := r.projectRoot()
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryExternal, "failed to locate project root for dev asset lookup").
				WithTextCode(ErrCodeNoProjectRoot)
		}

		devPath := filepath.Join(root, "resources", "audio", filename)
		if pathExists(devPath) {
			data, err := os.ReadFile(devPath)
			if err != nil {
				return nil, devReadError(devPath, err)
			}
			return data, nil
		}
		r.logger.Trace("asset %s not at dev path %s, probing resource tree", filename, devPath)
	}

	for _, candidate := range candidatePaths(filename) {
		abs, err := r.locator.Locate(candidate)
		if err != nil {
			// Candidate unavailable, not a failure of the search itself.
			r.logger.Trace("skipping candidate %s: %v", candidate, err)
			continue
		}

		if !pathExists(abs) {
			continue
		}

		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, readError(abs, err)
		}
		return data, nil
	}

	return nil, notFoundError(filename)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
