package rpc

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"time"

	"github.com/goliatone/go-errors"

	appshell "github.com/goliatone/go-appshell"
)

// RequestMeta carries method-agnostic invocation metadata from the bridge.
type RequestMeta struct {
	RequestID     string            `json:"requestId,omitempty"`
	CorrelationID string            `json:"correlationId,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"`
}

// RequestEnvelope is the canonical method request shape for bridge adapters.
type RequestEnvelope[T any] struct {
	Data T           `json:"data"`
	Meta RequestMeta `json:"meta,omitempty"`
}

// Error is a transport-friendly error envelope. Message is the
// human-readable text the front-end presents; Code and Category are for
// callers that want structure.
type Error struct {
	Code     string `json:"code,omitempty"`
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
}

// ErrorFrom converts err into an Error envelope, lifting the text code and
// category when err is a go-errors value. Message is the plain
// human-readable rendering, never the decorated Error() output.
func ErrorFrom(err error) *Error {
	if err == nil {
		return nil
	}

	out := &Error{Message: appshell.ErrorMessage(err)}

	var ge *errors.Error
	if stderrors.As(err, &ge) {
		out.Code = ge.TextCode
		out.Category = fmt.Sprintf("%v", ge.Category)
	}
	return out
}

// ResponseEnvelope is the canonical method response shape for bridge
// adapters. Exactly one of Data and Error is meaningful.
type ResponseEnvelope[T any] struct {
	Data  T      `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// MethodKind describes endpoint invocation shape.
type MethodKind string

const (
	MethodKindCommand MethodKind = HandlerKindExecute
	MethodKindQuery   MethodKind = HandlerKindQuery
)

// EndpointSpec declares endpoint metadata independent from handler
// implementation details.
type EndpointSpec struct {
	Method      string
	MessageType string
	Kind        MethodKind
	Timeout     time.Duration
	Idempotent  bool
	Summary     string
	Description string
	Tags        []string
}

// EndpointDefinition is the explicit endpoint contract registered in the
// RPC server.
type EndpointDefinition interface {
	Spec() EndpointSpec
	NewRequest() any
	RequestType() reflect.Type
	ResponseType() reflect.Type
	Invoke(context.Context, any) (any, error)
}

// EndpointsProvider can expose one or more endpoint definitions for
// resolver registration.
type EndpointsProvider interface {
	RPCEndpoints() []EndpointDefinition
}

type endpointDefinition struct {
	spec    EndpointSpec
	reqType reflect.Type
	resType reflect.Type
	invoke  func(context.Context, any) (any, error)
}

func (d *endpointDefinition) Spec() EndpointSpec {
	spec := d.spec
	spec.Tags = cloneStrings(spec.Tags)
	return spec
}

func (d *endpointDefinition) NewRequest() any {
	if d.reqType == nil {
		return nil
	}
	if d.reqType.Kind() == reflect.Ptr {
		return reflect.New(d.reqType.Elem()).Interface()
	}
	return reflect.New(d.reqType).Interface()
}

func (d *endpointDefinition) RequestType() reflect.Type {
	return d.reqType
}

func (d *endpointDefinition) ResponseType() reflect.Type {
	return d.resType
}

func (d *endpointDefinition) Invoke(ctx context.Context, req any) (any, error) {
	if d.invoke == nil {
		return nil, fmt.Errorf("rpc endpoint invoke function not configured")
	}
	return d.invoke(ctx, req)
}

// NewEndpoint builds an explicit typed endpoint definition.
func NewEndpoint[Req any, Res any](
	spec EndpointSpec,
	handler func(context.Context, RequestEnvelope[Req]) (ResponseEnvelope[Res], error),
) EndpointDefinition {
	reqEnvelopeType := reflect.TypeFor[RequestEnvelope[Req]]()
	reqPtrType := reflect.PointerTo(reqEnvelopeType)
	resEnvelopeType := reflect.TypeFor[ResponseEnvelope[Res]]()

	return &endpointDefinition{
		spec:    spec,
		reqType: reqPtrType,
		resType: resEnvelopeType,
		invoke: func(ctx context.Context, payload any) (any, error) {
			reqValue, err := payloadValue(reqPtrType, payload)
			if err != nil {
				return nil, err
			}
			typedReq, ok := reqValue.Interface().(*RequestEnvelope[Req])
			if !ok || typedReq == nil {
				return nil, fmt.Errorf("invalid request payload for method %q", spec.Method)
			}
			return handler(ctx, *typedReq)
		},
	}
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
