package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appshell "github.com/goliatone/go-appshell"
	"github.com/goliatone/go-appshell/assets"
	"github.com/goliatone/go-appshell/dispatcher"
	"github.com/goliatone/go-appshell/rpc"
)

func newAudioFixture(t *testing.T, files map[string]string) *assets.Resolver {
	t.Helper()

	resourceDir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(resourceDir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	locator, err := assets.NewDirLocator(resourceDir)
	require.NoError(t, err)
	return assets.NewResolver(locator)
}

func TestLoadAudioQuery(t *testing.T) {
	resolver := newAudioFixture(t, map[string]string{
		"resources/audio/chime.wav": "chime bytes",
	})
	cmd := NewLoadAudio(resolver)

	data, err := cmd.Query(context.Background(), LoadAudioMessage{Filename: "chime.wav"})
	require.NoError(t, err)
	assert.Equal(t, []byte("chime bytes"), data)
}

func TestLoadAudioQueryFallbackLocation(t *testing.T) {
	resolver := newAudioFixture(t, map[string]string{
		"resources/chime.wav": "fallback bytes",
	})
	cmd := NewLoadAudio(resolver)

	data, err := cmd.Query(context.Background(), LoadAudioMessage{Filename: "chime.wav"})
	require.NoError(t, err)
	assert.Equal(t, []byte("fallback bytes"), data)
}

func TestLoadAudioQueryNotFound(t *testing.T) {
	cmd := NewLoadAudio(newAudioFixture(t, nil))

	_, err := cmd.Query(context.Background(), LoadAudioMessage{Filename: "missing.wav"})
	require.Error(t, err)
	assert.True(t, assets.IsNotFound(err))
	assert.Equal(t, "Could not find audio file missing.wav in resources", appshell.ErrorMessage(err))
}

func TestLoadAudioMessageValidate(t *testing.T) {
	assert.Error(t, LoadAudioMessage{}.Validate())
	assert.Error(t, LoadAudioMessage{Filename: "  "}.Validate())
	assert.NoError(t, LoadAudioMessage{Filename: "chime.wav"}.Validate())
	assert.Equal(t, "load_audio_asset", LoadAudioMessage{}.Type())
}

func TestLoadAudioThroughDispatcher(t *testing.T) {
	resolver := newAudioFixture(t, map[string]string{
		"resources/audio/chime.wav": "chime bytes",
	})

	d := dispatcher.New()
	dispatcher.SubscribeQuery[LoadAudioMessage, []byte](d, NewLoadAudio(resolver))

	data, err := dispatcher.Query[LoadAudioMessage, []byte](context.Background(), d, LoadAudioMessage{Filename: "chime.wav"})
	require.NoError(t, err)
	assert.Equal(t, []byte("chime bytes"), data)

	// Empty filename never reaches the resolver.
	_, err = dispatcher.Query[LoadAudioMessage, []byte](context.Background(), d, LoadAudioMessage{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadAudioRPCEndpoint(t *testing.T) {
	resolver := newAudioFixture(t, map[string]string{
		"resources/audio/chime.wav": "chime bytes",
	})
	cmd := NewLoadAudio(resolver)

	server := rpc.NewServer()
	require.NoError(t, server.RegisterEndpoints(cmd.RPCEndpoints()...))

	out, err := server.Invoke(context.Background(), "load_audio_asset", &rpc.RequestEnvelope[LoadAudioMessage]{
		Data: LoadAudioMessage{Filename: "chime.wav"},
	})
	require.NoError(t, err)

	res, ok := out.(rpc.ResponseEnvelope[[]byte])
	require.True(t, ok)
	require.Nil(t, res.Error)
	assert.Equal(t, []byte("chime bytes"), res.Data)
}

func TestLoadAudioRPCEndpointFailure(t *testing.T) {
	cmd := NewLoadAudio(newAudioFixture(t, nil))

	server := rpc.NewServer()
	require.NoError(t, server.RegisterEndpoints(cmd.RPCEndpoints()...))

	out, err := server.Invoke(context.Background(), "load_audio_asset", &rpc.RequestEnvelope[LoadAudioMessage]{
		Data: LoadAudioMessage{Filename: "missing.wav"},
	})
	require.NoError(t, err)

	res, ok := out.(rpc.ResponseEnvelope[[]byte])
	require.True(t, ok)
	require.NotNil(t, res.Error)
	assert.Equal(t, "Could not find audio file missing.wav in resources", res.Error.Message)
	assert.Equal(t, assets.ErrCodeNotFound, res.Error.Code)
}

func TestLoadAudioRPCEndpointValidation(t *testing.T) {
	cmd := NewLoadAudio(newAudioFixture(t, nil))

	server := rpc.NewServer()
	require.NoError(t, server.RegisterEndpoints(cmd.RPCEndpoints()...))

	out, err := server.Invoke(context.Background(), "load_audio_asset", &rpc.RequestEnvelope[LoadAudioMessage]{})
	require.NoError(t, err)

	res, ok := out.(rpc.ResponseEnvelope[[]byte])
	require.True(t, ok)
	require.NotNil(t, res.Error)
	assert.Equal(t, "filename cannot be empty", res.Error.Message)
}

func TestLoadAudioCLIOptions(t *testing.T) {
	cmd := NewLoadAudio(newAudioFixture(t, nil))

	opts := cmd.CLIOptions()
	assert.Equal(t, "load-audio", opts.Name)
	assert.NotNil(t, cmd.CLIHandler())
}
