package appshell

import (
	stderrors "errors"
	"fmt"

	apperrors "github.com/goliatone/go-errors"
)

// MessageError is a custom error type wrapping context around dispatch failures
type MessageError struct {
	Type    string
	Message string
	Err     error
}

func (e *MessageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *MessageError) Unwrap() error {
	return e.Err
}

// WrapError is a helper to create wrapped errors using MessageError
func WrapError(errType, msg string, err error) *MessageError {
	return &MessageError{
		Type:    errType,
		Message: msg,
		Err:     err,
	}
}

// ErrorMessage renders err for the user-facing boundary. The front-end
// contract is a plain human-readable string, so go-errors values
// contribute their bare message instead of the decorated Error() output
// (category/code prefix, metadata suffix). Codes and categories travel in
// their own envelope fields when callers want structure.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var ge *apperrors.Error
	if stderrors.As(err, &ge) && ge.Message != "" {
		return ge.Message
	}
	return err.Error()
}
