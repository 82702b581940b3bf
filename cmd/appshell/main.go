// appshell is the native backend host binary. It wires the command surface
// (greet, load_audio_asset) into a kong CLI for local invocation and keeps
// the same commands registered in the RPC method registry the front-end
// bridge consumes.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/goliatone/go-logger/glog"

	appshell "github.com/goliatone/go-appshell"
	"github.com/goliatone/go-appshell/assets"
	"github.com/goliatone/go-appshell/commands"
	"github.com/goliatone/go-appshell/config"
	"github.com/goliatone/go-appshell/rpc"
)

type cli struct {
	Endpoints endpointsCmd `cmd:"" help:"Print the RPC endpoint manifest as JSON."`
}

type endpointsCmd struct{}

func (endpointsCmd) Run(kctx *kong.Context, server *rpc.Server) error {
	content, err := json.MarshalIndent(server.Endpoints(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(kctx.Stdout, string(content))
	return nil
}

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, appshell.ErrorMessage(err))
		os.Exit(1)
	}
}

func run(out io.Writer, args []string) error {
	cfg, err := config.Load(os.Getenv("APPSHELL_CONFIG"))
	if err != nil {
		return err
	}

	logger := glog.NewLogger(
		glog.WithLevel(cfg.LogLevel),
	)

	locator, err := assets.NewDirLocator(cfg.ResourceDir)
	if err != nil {
		return err
	}

	resolverOpts := []assets.Option{
		assets.WithMode(cfg.BuildMode()),
		assets.WithLogger(logger),
	}
	if cfg.ProjectRoot != "" {
		resolverOpts = append(resolverOpts, assets.WithProjectRoot(assets.StaticProjectRoot(cfg.ProjectRoot)))
	}
	resolver := assets.NewResolver(locator, resolverOpts...)

	server := rpc.NewServer()

	registry := appshell.NewRegistry().AddResolver(rpc.Resolver(server))
	if err := registry.RegisterCommand(commands.NewGreet()); err != nil {
		return err
	}
	if err := registry.RegisterCommand(commands.NewLoadAudio(resolver)); err != nil {
		return err
	}
	if err := registry.Initialize(); err != nil {
		return err
	}

	cliOptions, err := registry.GetCLIOptions()
	if err != nil {
		return err
	}

	options := append([]kong.Option{
		kong.Name("appshell"),
		kong.Description("Native backend for the desktop application shell."),
		kong.Writers(out, os.Stderr),
		kong.Bind(server),
	}, cliOptions...)

	parser, err := kong.New(&cli{}, options...)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger.Debug("invoking command %s in %s mode", kctx.Command(), cfg.Mode)

	return kctx.Run()
}
