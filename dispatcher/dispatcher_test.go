package dispatcher

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appshell "github.com/goliatone/go-appshell"
)

type pingMessage struct {
	Payload string
}

func (pingMessage) Type() string    { return "test.ping" }
func (pingMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "test.invalid" }
func (invalidMessage) Validate() error {
	return fmt.Errorf("payload is never acceptable")
}

type recorder struct {
	calls []string
	fail  bool
}

func (r *recorder) Execute(ctx context.Context, msg pingMessage) error {
	r.calls = append(r.calls, msg.Payload)
	if r.fail {
		return fmt.Errorf("handler exploded")
	}
	return nil
}

func TestDispatchRunsAllHandlers(t *testing.T) {
	d := New()
	first := &recorder{}
	second := &recorder{}

	SubscribeCommand[pingMessage](d, first)
	SubscribeCommand[pingMessage](d, second)

	err := Dispatch(context.Background(), d, pingMessage{Payload: "hello"})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, first.calls)
	assert.Equal(t, []string{"hello"}, second.calls)
}

func TestDispatchNoHandlers(t *testing.T) {
	d := New()

	err := Dispatch(context.Background(), d, pingMessage{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command handlers")
}

func TestDispatchCollectsHandlerErrors(t *testing.T) {
	d := New()
	failing := &recorder{fail: true}
	healthy := &recorder{}

	SubscribeCommand[pingMessage](d, failing)
	SubscribeCommand[pingMessage](d, healthy)

	err := Dispatch(context.Background(), d, pingMessage{Payload: "x"})
	require.Error(t, err)
	// The healthy handler still ran.
	assert.Len(t, healthy.calls, 1)
}

func TestDispatchExitOnError(t *testing.T) {
	d := New(WithExitOnError())
	failing := &recorder{fail: true}
	healthy := &recorder{}

	SubscribeCommand[pingMessage](d, failing)
	SubscribeCommand[pingMessage](d, healthy)

	err := Dispatch(context.Background(), d, pingMessage{Payload: "x"})
	require.Error(t, err)
	assert.Empty(t, healthy.calls)
}

func TestDispatchValidatesMessage(t *testing.T) {
	d := New()
	SubscribeCommandFunc(d, appshell.CommandFunc[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		t.Fatal("handler must not run for invalid message")
		return nil
	}))

	err := Dispatch(context.Background(), d, invalidMessage{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload is never acceptable")
}

func TestDispatchCanceledContext(t *testing.T) {
	d := New()
	SubscribeCommand[pingMessage](d, &recorder{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Dispatch(ctx, d, pingMessage{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}

func TestQueryReturnsHandlerResult(t *testing.T) {
	d := New()
	SubscribeQueryFunc(d, appshell.QueryFunc[pingMessage, string](func(ctx context.Context, msg pingMessage) (string, error) {
		return "pong:" + msg.Payload, nil
	}))

	out, err := Query[pingMessage, string](context.Background(), d, pingMessage{Payload: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "pong:abc", out)
}

func TestQueryErrorsSurfaceUnwrapped(t *testing.T) {
	d := New()
	queryErr := fmt.Errorf("Could not find audio file missing.wav in resources")
	SubscribeQueryFunc(d, appshell.QueryFunc[pingMessage, []byte](func(ctx context.Context, msg pingMessage) ([]byte, error) {
		return nil, queryErr
	}))

	_, err := Query[pingMessage, []byte](context.Background(), d, pingMessage{})
	require.Error(t, err)
	// The caller sees the handler's error text untouched.
	assert.Equal(t, queryErr.Error(), err.Error())
}

func TestQueryNoHandler(t *testing.T) {
	d := New()

	_, err := Query[pingMessage, string](context.Background(), d, pingMessage{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no query handlers")
}

func TestQueryAmbiguousHandlers(t *testing.T) {
	d := New()
	q := appshell.QueryFunc[pingMessage, string](func(ctx context.Context, msg pingMessage) (string, error) {
		return "", nil
	})
	SubscribeQuery[pingMessage, string](d, q)
	SubscribeQuery[pingMessage, string](d, q)

	_, err := Query[pingMessage, string](context.Background(), d, pingMessage{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestUnsubscribeRemovesHandler(t *testing.T) {
	d := New()
	sub := SubscribeCommand[pingMessage](d, &recorder{})

	assert.Len(t, d.GetHandlers(pingMessage{}.Type()), 1)
	sub.Unsubscribe()
	assert.Empty(t, d.GetHandlers(pingMessage{}.Type()))
}

func TestNilDispatcherUsesDefault(t *testing.T) {
	sub := SubscribeQueryFunc(nil, appshell.QueryFunc[pingMessage, string](func(ctx context.Context, msg pingMessage) (string, error) {
		return "default", nil
	}))
	defer sub.Unsubscribe()

	out, err := Query[pingMessage, string](context.Background(), nil, pingMessage{})
	require.NoError(t, err)
	assert.Equal(t, "default", out)
}
