package commands

import (
	"context"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goliatone/go-errors"

	appshell "github.com/goliatone/go-appshell"
	"github.com/goliatone/go-appshell/assets"
	"github.com/goliatone/go-appshell/rpc"
)

// LoadAudioMessage asks for the raw bytes of a packaged audio asset.
// Filename is a leaf name relative to the resource tree, e.g. "chime.wav".
type LoadAudioMessage struct {
	Filename string `json:"filename"`
}

func (LoadAudioMessage) Type() string { return "load_audio_asset" }

func (m LoadAudioMessage) Validate() error {
	if strings.TrimSpace(m.Filename) == "" {
		return errors.New("filename cannot be empty", errors.CategoryValidation).
			WithTextCode("FILENAME_REQUIRED")
	}
	return nil
}

// LoadAudio resolves audio assets through the configured assets.Resolver.
type LoadAudio struct {
	resolver *assets.Resolver
}

func NewLoadAudio(resolver *assets.Resolver) *LoadAudio {
	return &LoadAudio{resolver: resolver}
}

func (c *LoadAudio) Query(ctx context.Context, msg LoadAudioMessage) ([]byte, error) {
	return c.resolver.Load(ctx, msg.Filename)
}

func (c *LoadAudio) CLIHandler() any {
	return &loadAudioCLI{load: c}
}

func (c *LoadAudio) CLIOptions() appshell.CLIConfig {
	return appshell.CLIConfig{
		Name:        "load-audio",
		Description: "Resolve an audio asset and write its bytes to stdout or a file.",
		Group:       "shell",
	}
}

func (c *LoadAudio) RPCEndpoints() []rpc.EndpointDefinition {
	return []rpc.EndpointDefinition{
		rpc.NewEndpoint(rpc.EndpointSpec{
			Method:      "load_audio_asset",
			MessageType: LoadAudioMessage{}.Type(),
			Kind:        rpc.MethodKindQuery,
			Idempotent:  true,
			Summary:     "Load the raw bytes of a packaged audio asset.",
		}, func(ctx context.Context, req rpc.RequestEnvelope[LoadAudioMessage]) (rpc.ResponseEnvelope[[]byte], error) {
			if err := req.Data.Validate(); err != nil {
				return rpc.ResponseEnvelope[[]byte]{Error: rpc.ErrorFrom(err)}, nil
			}
			data, err := c.Query(ctx, req.Data)
			if err != nil {
				return rpc.ResponseEnvelope[[]byte]{Error: rpc.ErrorFrom(err)}, nil
			}
			return rpc.ResponseEnvelope[[]byte]{Data: data}, nil
		}),
	}
}

type loadAudioCLI struct {
	load *LoadAudio

	Filename string `arg:"" help:"Asset filename, e.g. chime.wav."`
	Out      string `help:"Write bytes to this file instead of stdout." type:"path"`
}

func (c *loadAudioCLI) Run(kctx *kong.Context) error {
	msg := LoadAudioMessage{Filename: c.Filename}
	if err := msg.Validate(); err != nil {
		return err
	}

	data, err := c.load.Query(context.Background(), msg)
	if err != nil {
		return err
	}

	if c.Out != "" {
		return os.WriteFile(c.Out, data, 0o644)
	}

	_, err = kctx.Stdout.Write(data)
	return err
}
