// Package dispatcher routes messages to their registered handlers by
// message type. Every invocation is an independent synchronous call: no
// queueing, no retries, no de-duplication of concurrent calls.
package dispatcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-errors"

	appshell "github.com/goliatone/go-appshell"
)

// Dispatcher holds the handler table. The zero-argument constructor is all
// most hosts need; handlers are registered at startup and the table is
// effectively read-only afterwards.
type Dispatcher struct {
	mu        sync.RWMutex
	handlers  map[string][]any
	ExitOnErr bool
}

// Option defines the functional option signature.
type Option func(*Dispatcher)

// WithExitOnError makes Dispatch stop at the first failing handler instead
// of collecting errors.
func WithExitOnError() Option {
	return func(d *Dispatcher) {
		d.ExitOnErr = true
	}
}

// New applies the given options to a new instance of the dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string][]any),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Default is the process-wide dispatcher the package-level subscribe
// functions register into.
var Default = New()

func (d *Dispatcher) RegisterHandler(msgType string, handler any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[msgType] = append(d.handlers[msgType], handler)
}

func (d *Dispatcher) GetHandlers(msgType string) []any {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.handlers[msgType]
}

type commandWrapper[T appshell.Message] struct {
	cmd appshell.Commander[T]
}

type queryWrapper[T appshell.Message, R any] struct {
	qry appshell.Querier[T, R]
}

// SubscribeCommand registers a Commander for message type T on d.
// A nil d registers on Default.
func SubscribeCommand[T appshell.Message](d *Dispatcher, cmd appshell.Commander[T]) Subscription {
	if d == nil {
		d = Default
	}

	var msg T
	wrapper := &commandWrapper[T]{cmd: cmd}
	d.RegisterHandler(msg.Type(), wrapper)

	return &subs{
		dispatcher: d,
		msgType:    msg.Type(),
		handler:    wrapper,
	}
}

// SubscribeCommandFunc registers a plain function as a Commander for T.
func SubscribeCommandFunc[T appshell.Message](d *Dispatcher, handler appshell.CommandFunc[T]) Subscription {
	return SubscribeCommand(d, handler)
}

// SubscribeQuery registers a Querier for message type T on d.
// A nil d registers on Default.
func SubscribeQuery[T appshell.Message, R any](d *Dispatcher, qry appshell.Querier[T, R]) Subscription {
	if d == nil {
		d = Default
	}

	var msg T
	wrapper := &queryWrapper[T, R]{qry: qry}
	d.RegisterHandler(msg.Type(), wrapper)

	return &subs{
		dispatcher: d,
		msgType:    msg.Type(),
		handler:    wrapper,
	}
}

// SubscribeQueryFunc registers a plain function as a Querier for T, R.
func SubscribeQueryFunc[T appshell.Message, R any](d *Dispatcher, qry appshell.QueryFunc[T, R]) Subscription {
	return SubscribeQuery(d, qry)
}

func getCommandHandlers[T appshell.Message](d *Dispatcher) ([]*commandWrapper[T], error) {
	var msg T
	handlers := d.GetHandlers(msg.Type())
	if len(handlers) == 0 {
		return nil, fmt.Errorf("no command handlers for message type %s", msg.Type())
	}

	var typedHandlers []*commandWrapper[T]
	for _, h := range handlers {
		cmdHandler, ok := h.(*commandWrapper[T])
		if !ok {
			return nil, fmt.Errorf("handler does not implement Commander for type %s", msg.Type())
		}
		typedHandlers = append(typedHandlers, cmdHandler)
	}
	return typedHandlers, nil
}

// Dispatch executes all registered Commanders for T on d (nil d uses
// Default). A handler failure is terminal for that handler only, unless
// the dispatcher was built with WithExitOnError.
func Dispatch[T appshell.Message](ctx context.Context, d *Dispatcher, msg T) error {
	if d == nil {
		d = Default
	}

	if err := (&appshell.MessageHandler[T]{}).ValidateMessage(msg); err != nil {
		return err
	}

	wrappers, err := getCommandHandlers[T](d)
	if err != nil {
		return appshell.WrapError("DispatchHandlerError", err.Error(), err)
	}

	if ctx.Err() != nil {
		return appshell.WrapError("ContextError", "context canceled or deadline exceeded", ctx.Err())
	}

	var errs error
	for _, cw := range wrappers {
		if err := cw.cmd.Execute(ctx, msg); err != nil {
			wrappedErr := appshell.WrapError(
				"HandlerExecutionFailed",
				fmt.Sprintf("handler failed for type %s", msg.Type()),
				err,
			)

			if d.ExitOnErr {
				return wrappedErr
			}

			errs = errors.Join(errs, wrappedErr)
		}
	}

	return errs
}

func getQueryHandler[T appshell.Message, R any](d *Dispatcher) (*queryWrapper[T, R], error) {
	var msg T
	handlers := d.GetHandlers(msg.Type())

	if len(handlers) == 0 {
		return nil, fmt.Errorf("no query handlers for message type %s", msg.Type())
	}

	if len(handlers) > 1 {
		return nil, fmt.Errorf("multiple query handlers found for type %s, ambiguous query", msg.Type())
	}

	qh, ok := handlers[0].(*queryWrapper[T, R])
	if !ok {
		return nil, fmt.Errorf("handler does not implement Querier for type %s", msg.Type())
	}
	return qh, nil
}

// Query executes the single registered Querier for T on d (nil d uses
// Default), returning R. Query handler failures surface as-is so callers
// keep the handler's error taxonomy.
func Query[T appshell.Message, R any](ctx context.Context, d *Dispatcher, msg T) (R, error) {
	var zero R

	if d == nil {
		d = Default
	}

	if err := (&appshell.MessageHandler[T]{}).ValidateMessage(msg); err != nil {
		return zero, err
	}

	qw, err := getQueryHandler[T, R](d)
	if err != nil {
		return zero, appshell.WrapError("QueryHandlerError", err.Error(), err)
	}

	if ctx.Err() != nil {
		return zero, appshell.WrapError("ContextError", "context canceled or deadline exceeded", ctx.Err())
	}

	return qw.qry.Query(ctx, msg)
}
