// Package rpc provides a lightweight in-memory method registry the host
// bridge uses to invoke backend commands by name. Transport adapters decode
// payloads with NewRequestForMethod and call Invoke; the registry itself
// never touches the wire.
package rpc

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-errors"

	appshell "github.com/goliatone/go-appshell"
)

const (
	HandlerKindExecute = "execute"
	HandlerKindQuery   = "query"
)

// Endpoint describes a registered RPC method.
type Endpoint struct {
	Method      string        `json:"method"`
	MessageType string        `json:"messageType"`
	HandlerKind string        `json:"handlerKind"`
	Timeout     time.Duration `json:"timeout,omitempty"`
	Idempotent  bool          `json:"idempotent,omitempty"`
	Summary     string        `json:"summary,omitempty"`
	Description string        `json:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
}

type endpointEntry struct {
	endpoint Endpoint
	msgType  reflect.Type
	newReq   func() any
	invoke   func(context.Context, any) (any, error)
}

// Server is the in-memory method registry and invoker.
type Server struct {
	mu        sync.RWMutex
	endpoints map[string]endpointEntry
}

// NewServer creates an empty RPC server registry.
func NewServer() *Server {
	return &Server{
		endpoints: make(map[string]endpointEntry),
	}
}

// Resolver returns an appshell.Resolver that registers endpoint providers
// into this server. Commands that do not expose endpoints are ignored.
func Resolver(server *Server) appshell.Resolver {
	return func(cmd any) error {
		if server == nil {
			return fmt.Errorf("rpc server not configured")
		}
		if provider, ok := cmd.(EndpointsProvider); ok {
			return server.RegisterEndpoints(provider.RPCEndpoints()...)
		}
		return nil
	}
}

// RegisterEndpoint stores an explicit endpoint definition.
func (s *Server) RegisterEndpoint(def EndpointDefinition) error {
	if def == nil {
		return errors.New("rpc endpoint definition required", errors.CategoryBadInput).
			WithTextCode("RPC_ENDPOINT_NIL")
	}

	spec := def.Spec()
	if spec.Method == "" {
		return errors.New("rpc method required", errors.CategoryBadInput).
			WithTextCode("RPC_METHOD_REQUIRED")
	}

	handlerKind := string(spec.Kind)
	if handlerKind == "" {
		handlerKind = HandlerKindQuery
	}

	entry := endpointEntry{
		endpoint: Endpoint{
			Method:      spec.Method,
			MessageType: spec.MessageType,
			HandlerKind: handlerKind,
			Timeout:     spec.Timeout,
			Idempotent:  spec.Idempotent,
			Summary:     spec.Summary,
			Description: spec.Description,
			Tags:        cloneStrings(spec.Tags),
		},
		msgType: def.RequestType(),
		newReq:  def.NewRequest,
		invoke:  def.Invoke,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.endpoints[spec.Method]; exists {
		return errors.New(fmt.Sprintf("rpc method %q already registered", spec.Method), errors.CategoryConflict).
			WithTextCode("RPC_METHOD_CONFLICT")
	}
	s.endpoints[spec.Method] = entry
	return nil
}

// RegisterEndpoints stores explicit endpoint definitions in registration order.
func (s *Server) RegisterEndpoints(defs ...EndpointDefinition) error {
	for _, def := range defs {
		if err := s.RegisterEndpoint(def); err != nil {
			return err
		}
	}
	return nil
}

// Invoke executes a registered RPC method using the provided payload.
// payload should already be transport-decoded into the expected envelope.
func (s *Server) Invoke(ctx context.Context, method string, payload any) (out any, err error) {
	if method == "" {
		return nil, errors.New("rpc method required", errors.CategoryBadInput).
			WithTextCode("RPC_METHOD_REQUIRED")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.RLock()
	entry, ok := s.endpoints[method]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(fmt.Sprintf("rpc method %q not found", method), errors.CategoryNotFound).
			WithTextCode("RPC_METHOD_NOT_FOUND")
	}

	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = errors.New(fmt.Sprintf("rpc invoke panic for method %q: %v", method, p), errors.CategoryHandler).
				WithTextCode("RPC_INVOKE_PANIC")
		}
	}()

	return entry.invoke(ctx, payload)
}

// Endpoint returns endpoint metadata for the method.
func (s *Server) Endpoint(method string) (Endpoint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.endpoints[method]
	if !ok {
		return Endpoint{}, false
	}
	return cloneEndpoint(entry.endpoint), true
}

// Endpoints returns all endpoint metadata sorted by method.
func (s *Server) Endpoints() []Endpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Endpoint, 0, len(s.endpoints))
	for _, entry := range s.endpoints {
		out = append(out, cloneEndpoint(entry.endpoint))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Method < out[j].Method
	})
	return out
}

// NewRequestForMethod creates a zero-value request envelope instance for
// transport decoding.
func (s *Server) NewRequestForMethod(method string) (any, error) {
	if method == "" {
		return nil, errors.New("rpc method required", errors.CategoryBadInput).
			WithTextCode("RPC_METHOD_REQUIRED")
	}

	s.mu.RLock()
	entry, ok := s.endpoints[method]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(fmt.Sprintf("rpc method %q not found", method), errors.CategoryNotFound).
			WithTextCode("RPC_METHOD_NOT_FOUND")
	}
	if entry.newReq != nil {
		return entry.newReq(), nil
	}
	return nil, nil
}

func payloadValue(msgType reflect.Type, payload any) (reflect.Value, error) {
	if msgType == nil {
		return reflect.Value{}, fmt.Errorf("rpc message type not configured")
	}
	if payload == nil {
		return reflect.Zero(msgType), nil
	}

	value := reflect.ValueOf(payload)
	if value.Type().AssignableTo(msgType) {
		return value, nil
	}
	if value.Type().ConvertibleTo(msgType) {
		return value.Convert(msgType), nil
	}

	// Convenience conversion: value -> pointer target.
	if msgType.Kind() == reflect.Ptr && value.Type().AssignableTo(msgType.Elem()) {
		ptr := reflect.New(msgType.Elem())
		ptr.Elem().Set(value)
		return ptr, nil
	}

	return reflect.Value{}, fmt.Errorf("invalid payload type: expected %s got %s", msgType.String(), value.Type().String())
}

func cloneEndpoint(in Endpoint) Endpoint {
	out := in
	out.Tags = cloneStrings(in.Tags)
	return out
}
