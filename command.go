package appshell

import (
	"context"
	"reflect"

	"github.com/goliatone/go-errors"
)

// Message is the interface command and query messages must implement.
// Type is the stable identifier the host uses to route an invocation,
// e.g. "greet" or "load_audio_asset".
type Message interface {
	Type() string
	Validate() error
}

// Commander is responsible for executing side effects.
type Commander[T Message] interface {
	Execute(ctx context.Context, msg T) error
}

// CommandFunc is an adapter that lets you use a function as a Commander[T].
type CommandFunc[T Message] func(ctx context.Context, msg T) error

// Execute calls the underlying function.
func (f CommandFunc[T]) Execute(ctx context.Context, msg T) error {
	return f(ctx, msg)
}

// Querier is responsible for returning data, with no side effects.
type Querier[T Message, R any] interface {
	Query(ctx context.Context, msg T) (R, error)
}

// QueryFunc is an adapter that lets you use a function as a Querier[T, R].
type QueryFunc[T Message, R any] func(ctx context.Context, msg T) (R, error)

// Query calls the underlying function.
func (f QueryFunc[T, R]) Query(ctx context.Context, msg T) (R, error) {
	return f(ctx, msg)
}

// IsNilMessage reports whether msg is nil or a typed nil pointer.
func IsNilMessage(msg any) bool {
	if msg == nil {
		return true
	}

	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Ptr {
		return false
	}

	return v.IsNil()
}

// MessageHandler provides base validation for any message type.
type MessageHandler[T any] struct{}

func (h *MessageHandler[T]) ValidateMessage(msg T) error {
	if IsNilMessage(msg) {
		return errors.New("nil message pointer", errors.CategoryValidation).
			WithTextCode("INVALID_MESSAGE")
	}

	if m, ok := any(msg).(Message); ok {
		if err := m.Validate(); err != nil {
			return errors.Wrap(err, errors.CategoryValidation, "message validation failed").
				WithTextCode("VALIDATION_FAILED")
		}
	}

	return nil
}
