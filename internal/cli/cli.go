package cli

import (
	"github.com/spf13/cobra"

	"cprcheck/internal/cli/application"
	"cprcheck/internal/cli/commands"
)

type config struct {
	app *application.Application
}

type Option func(*config)

func WithApplication(app *application.Application) Option {
	return func(config *config) {
		config.app = app
	}
}

// New assembles the command tree.
func New(opts ...Option) *cobra.Command {
	cfg := &config{
		app: application.New(),
	}
	for _, fn := range opts {
		fn(cfg)
	}

	app := cfg.app

	root := commands.Root(app)
	root.AddCommand(commands.Decode(app))
	root.AddCommand(commands.Verify(app))
	root.AddCommand(commands.Version(app))

	return root
}
