package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/incidentboard/internal/db"
	"github.com/alexanderramin/incidentboard/internal/server"
	"github.com/alexanderramin/incidentboard/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the incident API from the local database",
		Long: `Serve the HTTP API the board uses in remote mode, backed by the local
SQLite database. Set redis_url to cache incident and user reads.`,
		Annotations: map[string]string{annotationOffline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config

			conn, err := db.OpenDB(cfg.DB)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer conn.Close()

			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetFormatter(&logrus.JSONFormatter{})

			var backend service.Backend = service.NewLocalBackend(conn, service.NewSlogUseCaseObserver(app.logger()))
			if cfg.RedisURL != "" {
				opts, err := redis.ParseURL(cfg.RedisURL)
				if err != nil {
					return fmt.Errorf("parsing redis_url: %w", err)
				}
				client := redis.NewClient(opts)
				defer client.Close()
				backend = server.NewCache(backend, client, cfg.CacheTTL)
				logger.WithField("ttl", cfg.CacheTTL.String()).Info("redis cache enabled")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, server.New(backend, logger), cfg.Listen, logger)
		},
	}
	cmd.Flags().String("listen", "", "listen address (default :8080)")
	return cmd
}

// runServer serves e on addr until ctx is cancelled, then shuts it down.
func runServer(ctx context.Context, e *echo.Echo, addr string, logger *logrus.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(sctx)
	})

	return g.Wait()
}
