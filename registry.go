package appshell

import (
	"strings"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/goliatone/go-errors"
)

// CLICommand is implemented by commands that want a CLI entry point.
type CLICommand interface {
	CLIHandler() any
	CLIOptions() CLIConfig
}

type CLIConfig struct {
	Name        string
	Description string
	Group       string
	Aliases     []string
	Hidden      bool
}

func (opts CLIConfig) BuildTags() []string {
	var tags []string
	if len(opts.Aliases) > 0 {
		aliases := "aliases:" + strings.Join(opts.Aliases, ",")
		tags = append(tags, aliases)
	}

	if opts.Hidden {
		tags = append(tags, `hidden:""`)
	}

	return tags
}

// Resolver registers a command with an exposure surface, e.g. the RPC
// method registry. Resolvers that do not recognize a command ignore it.
type Resolver func(cmd any) error

// Registry collects the command surface before the host starts dispatching.
// Registration is a startup-only activity: once Initialize has run, the
// surface is fixed for the process lifetime.
type Registry struct {
	mu                 sync.RWMutex
	commandsToRegister []any
	initialized        bool
	resolvers          []Resolver
	cliOptions         []kong.Option
}

func NewRegistry() *Registry {
	return &Registry{
		cliOptions: make([]kong.Option, 0),
	}
}

// AddResolver appends an exposure resolver. Resolvers run during Initialize
// in the order they were added.
func (r *Registry) AddResolver(fn Resolver) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fn != nil {
		r.resolvers = append(r.resolvers, fn)
	}
	return r
}

func (r *Registry) RegisterCommand(cmd any) error {
	if cmd == nil {
		return errors.New("command cannot be nil", errors.CategoryBadInput).
			WithTextCode("NIL_COMMAND")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return errors.New("cannot register commands after registry has been initialized", errors.CategoryConflict).
			WithTextCode("REGISTRY_ALREADY_INITIALIZED")
	}
	r.commandsToRegister = append(r.commandsToRegister, cmd)

	return nil
}

func (r *Registry) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return errors.New("registry already initialized", errors.CategoryConflict).
			WithTextCode("REGISTRY_ALREADY_INITIALIZED")
	}

	var errs error
	for _, cmd := range r.commandsToRegister {
		if cliCmd, ok := cmd.(CLICommand); ok {
			r.registerWithCLI(cliCmd)
		}

		for _, resolve := range r.resolvers {
			if err := resolve(cmd); err != nil {
				errs = errors.Join(errs, errors.Wrap(err, errors.CategoryExternal, "command exposure registration failed").
					WithTextCode("EXPOSURE_REGISTRATION_FAILED"))
			}
		}
	}

	r.initialized = true

	return errs
}

func (r *Registry) registerWithCLI(cliCmd CLICommand) {
	opts := cliCmd.CLIOptions()
	kongCmd := cliCmd.CLIHandler()

	tags := opts.BuildTags()

	option := kong.DynamicCommand(
		opts.Name,
		opts.Description,
		opts.Group,
		kongCmd,
		tags...,
	)

	r.cliOptions = append(r.cliOptions, option)
}

func (r *Registry) GetCLIOptions() ([]kong.Option, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil, errors.New("registry not initialized", errors.CategoryConflict).
			WithTextCode("REGISTRY_NOT_INITIALIZED")
	}

	options := make([]kong.Option, len(r.cliOptions))
	copy(options, r.cliOptions)
	return options, nil
}
