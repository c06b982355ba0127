package cli

import (
	"fmt"
	"log/slog"

	"github.com/alexanderramin/incidentboard/internal/api"
	"github.com/alexanderramin/incidentboard/internal/config"
	"github.com/alexanderramin/incidentboard/internal/db"
	"github.com/alexanderramin/incidentboard/internal/service"
	"github.com/spf13/cobra"
)

// setup loads configuration, opens the log file and connects the backend
// unless the command is marked offline.
func (a *App) setup(cmd *cobra.Command, configFile string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.Config = cfg

	if a.Logger == nil {
		logger, closeLog, err := openLogger(cfg.LogFile)
		if err != nil {
			return err
		}
		a.Logger = logger
		a.closers = append(a.closers, closeLog)
	}

	if a.Backend != nil || cmd.Annotations[annotationOffline] == "true" {
		return nil
	}
	backend, closeBackend, err := connect(cfg, a.Logger)
	if err != nil {
		return err
	}
	a.Backend = backend
	a.closers = append(a.closers, closeBackend)
	return nil
}

// connect returns the HTTP client in remote mode and the SQLite services in
// local mode.
func connect(cfg config.Config, logger *slog.Logger) (service.Backend, func() error, error) {
	switch cfg.Mode {
	case config.ModeRemote:
		apiCfg := api.DefaultConfig()
		apiCfg.BaseURL = cfg.APIURL
		apiCfg.Timeout = cfg.RequestTimeout
		apiCfg.MaxRetries = cfg.FetchRetryMax
		client := api.NewClient(apiCfg, api.NewSlogObserver(logger))
		return client, func() error { return nil }, nil

	default:
		conn, err := db.OpenDB(cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return service.NewLocalBackend(conn, service.NewSlogUseCaseObserver(logger)), conn.Close, nil
	}
}
