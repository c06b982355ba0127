package cli

import (
	"errors"
	"io"
	"log/slog"

	"github.com/alexanderramin/incidentboard/internal/config"
	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/alexanderramin/incidentboard/internal/service"
	"github.com/spf13/cobra"
)

// annotationOffline marks commands that open no backend connection of
// their own before running.
const annotationOffline = "offline"

// App holds what CLI commands share: the resolved configuration and the
// data source. Fields left nil are filled in from the configuration when a
// command starts; tests set them directly.
type App struct {
	Config  config.Config
	Backend service.Backend
	Logger  *slog.Logger

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// PickViewer asks the user who they are. Defaults to a huh select.
	PickViewer func(users []domain.User) (domain.User, error)

	closers []func() error
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a.Logger
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// Close releases the connection and log file opened for a command.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewRootCmd creates the top-level "incidentboard" command and registers
// all subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "incidentboard",
		Short:         "Incident status board",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd, configFile)
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.incidentboard/config.yaml)")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newBoardCmd(app),
		newMoveCmd(app),
		newSeedCmd(app),
		newServeCmd(app),
		newPermsCmd(app),
	)

	return root
}
