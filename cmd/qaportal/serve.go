package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/qaportal/internal/adapters/http/api"
	"github.com/okian/qaportal/internal/adapters/http/site"
	"github.com/okian/qaportal/internal/adapters/http/swagger"
	service "github.com/okian/qaportal/internal/app"
	"github.com/okian/qaportal/internal/config"
	"github.com/okian/qaportal/pkg/logger"
)

// HTTP server timeouts.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCommand(c *cli) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard and JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				c.cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config addr)")
	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	svc, err := c.startService(ctx)
	if err != nil {
		return err
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              c.cfg.Addr,
		Handler:           newMux(ctx, svc, c.cfg, c.log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		c.log.Info(ctx, "starting HTTP server", logger.String("addr", c.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	c.log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	c.log.Info(ctx, "server stopped")
	return nil
}

// newMux registers the dashboard, the JSON API and its docs.
func newMux(ctx context.Context, svc *service.Service, cfg *config.Config, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, log.Named("api")).Register(ctx, mux)
	site.NewHandler(svc,
		site.WithCookieName(cfg.SessionCookie),
		site.WithCookieTTL(cfg.SessionTTL()),
		site.WithLogger(log.Named("site")),
	).Register(ctx, mux)
	return mux
}
