package assets

import (
	stderrors "errors"
	"fmt"

	"github.com/goliatone/go-errors"
)

const (
	ErrCodeNotFound      = "ASSET_NOT_FOUND"
	ErrCodeReadFailed    = "ASSET_READ_FAILED"
	ErrCodeEmptyFilename = "ASSET_FILENAME_EMPTY"
	ErrCodeNoProjectRoot = "ASSET_PROJECT_ROOT_UNSET"
)

func notFoundError(filename string) *errors.Error {
	return errors.New(fmt.Sprintf("Could not find audio file %s in resources", filename), errors.CategoryNotFound).
		WithTextCode(ErrCodeNotFound).
		WithMetadata(map[string]any{"filename": filename})
}

// Read failure messages carry the cause inline: the boundary contract is a
// single human-readable string, and the wrapped Source does not survive
// the trip through the envelope.
func readError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, errors.CategoryExternal, fmt.Sprintf("Failed to read file at %s: %v", path, cause)).
		WithTextCode(ErrCodeReadFailed).
		WithMetadata(map[string]any{"path": path})
}

func devReadError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, errors.CategoryExternal, fmt.Sprintf("Failed to read file from dev path %s: %v", path, cause)).
		WithTextCode(ErrCodeReadFailed).
		WithMetadata(map[string]any{"path": path})
}

// IsNotFound reports whether err means the search exhausted every candidate.
func IsNotFound(err error) bool {
	return textCode(err) == ErrCodeNotFound
}

// IsReadFailure reports whether err means a candidate existed but could not
// be read. Read failures are terminal: the search never advanced past them.
func IsReadFailure(err error) bool {
	return textCode(err) == ErrCodeReadFailed
}

func textCode(err error) string {
	var ge *errors.Error
	if stderrors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}
