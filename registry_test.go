package appshell

import (
	"context"
	"fmt"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCLICommand struct {
	name string
}

func (c *stubCLICommand) CLIHandler() any {
	return &stubCLIHandler{}
}

func (c *stubCLICommand) CLIOptions() CLIConfig {
	return CLIConfig{
		Name:        c.name,
		Description: fmt.Sprintf("Stub command %s", c.name),
		Group:       "test",
	}
}

type stubCLIHandler struct{}

func (h *stubCLIHandler) Run(ctx *kong.Context) error {
	return nil
}

type plainCommand struct{}

func (plainCommand) Execute(ctx context.Context, msg fakeMessage) error {
	return nil
}

func TestRegistryCLIRegistration(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.RegisterCommand(&stubCLICommand{name: "alpha"}))
	require.NoError(t, registry.RegisterCommand(&stubCLICommand{name: "beta"}))
	require.NoError(t, registry.RegisterCommand(plainCommand{}))

	require.NoError(t, registry.Initialize())

	options, err := registry.GetCLIOptions()
	require.NoError(t, err)
	// Only the two CLI-exposed commands contribute kong options.
	assert.Len(t, options, 2)
}

func TestRegistryResolversSeeEveryCommand(t *testing.T) {
	var seen []any
	registry := NewRegistry().AddResolver(func(cmd any) error {
		seen = append(seen, cmd)
		return nil
	})

	require.NoError(t, registry.RegisterCommand(&stubCLICommand{name: "alpha"}))
	require.NoError(t, registry.RegisterCommand(plainCommand{}))
	require.NoError(t, registry.Initialize())

	assert.Len(t, seen, 2)
}

func TestRegistryResolverErrorsJoin(t *testing.T) {
	registry := NewRegistry().AddResolver(func(cmd any) error {
		return fmt.Errorf("exposure backend down")
	})

	require.NoError(t, registry.RegisterCommand(plainCommand{}))

	err := registry.Initialize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exposure backend down")
}

func TestRegistryRejectsNilCommand(t *testing.T) {
	registry := NewRegistry()
	assert.Error(t, registry.RegisterCommand(nil))
}

func TestRegistryLifecycle(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.GetCLIOptions()
	require.Error(t, err, "CLI options unavailable before initialization")

	require.NoError(t, registry.Initialize())

	assert.Error(t, registry.Initialize(), "second initialization rejected")
	assert.Error(t, registry.RegisterCommand(&stubCLICommand{name: "late"}), "registration after initialization rejected")
}
