package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cgf-quiz/internal/config"
	transport "cgf-quiz/internal/transport/http"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
	cmd.Flags().StringVar(port, "port", "", "port to listen on (overrides PORT and server.port)")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	e, err := loadEnv(ctx, configPath)
	if err != nil {
		return err
	}
	defer e.close()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = e.cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	handler := transport.NewHandler(e.ctrl, e.logger)
	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  config.Duration(e.cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.Duration(e.cfg.Server.WriteTimeout, 15*time.Second),
	}

	return serveUntilDone(ctx, server, e.logger)
}

// serveUntilDone runs server until ctx is canceled or a signal arrives, then
// shuts it down. A listen failure is returned.
func serveUntilDone(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting quiz server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
