// Package commands implements the backend's host-invocable command surface:
// the greet formatter and the audio asset loader. Each command bundles its
// message type, the handler, and its CLI/RPC exposure.
package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	appshell "github.com/goliatone/go-appshell"
	"github.com/goliatone/go-appshell/rpc"
)

const greetTemplate = "Hello, %s! You've been greeted from Go!"

// GreetMessage asks for a greeting addressed to Name.
type GreetMessage struct {
	Name string `json:"name"`
}

func (GreetMessage) Type() string { return "greet" }

// Validate accepts any name, including the empty string.
func (GreetMessage) Validate() error { return nil }

// Greet formats a fixed greeting. Pure: same input, same output, no side
// effects, no failure modes.
type Greet struct{}

func NewGreet() *Greet {
	return &Greet{}
}

func (g *Greet) Query(ctx context.Context, msg GreetMessage) (string, error) {
	return fmt.Sprintf(greetTemplate, msg.Name), nil
}

func (g *Greet) CLIHandler() any {
	return &greetCLI{greet: g}
}

func (g *Greet) CLIOptions() appshell.CLIConfig {
	return appshell.CLIConfig{
		Name:        "greet",
		Description: "Print a greeting for the given name.",
		Group:       "shell",
	}
}

func (g *Greet) RPCEndpoints() []rpc.EndpointDefinition {
	return []rpc.EndpointDefinition{
		rpc.NewEndpoint(rpc.EndpointSpec{
			Method:      "greet",
			MessageType: GreetMessage{}.Type(),
			Kind:        rpc.MethodKindQuery,
			Idempotent:  true,
			Summary:     "Greet a user by name.",
		}, func(ctx context.Context, req rpc.RequestEnvelope[GreetMessage]) (rpc.ResponseEnvelope[string], error) {
			out, err := g.Query(ctx, req.Data)
			if err != nil {
				return rpc.ResponseEnvelope[string]{Error: rpc.ErrorFrom(err)}, nil
			}
			return rpc.ResponseEnvelope[string]{Data: out}, nil
		}),
	}
}

type greetCLI struct {
	greet *Greet

	Name string `help:"Name to greet." default:"World"`
}

func (c *greetCLI) Run(kctx *kong.Context) error {
	out, err := c.greet.Query(context.Background(), GreetMessage{Name: c.Name})
	if err != nil {
		return err
	}
	fmt.Fprintln(kctx.Stdout, out)
	return nil
}
