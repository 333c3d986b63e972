package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/japaniel/wordbook/pkg/api"
	"github.com/japaniel/wordbook/pkg/observe"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides the config)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	var (
		metrics        *observe.Metrics
		metricsHandler http.Handler
	)
	if a.cfg.Server.MetricsEnabled {
		shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "wordbook"})
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn().Err(err).Msg("metrics shutdown failed")
			}
		}()
		metrics = observe.DefaultMetrics()
		metricsHandler = promhttp.Handler()
	}

	e, err := a.open(ctx, openOptions{metrics: metrics, workers: true})
	if err != nil {
		return err
	}
	defer e.Close()

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           api.New(e.svc, api.Options{Metrics: metrics, MetricsHandler: metricsHandler}),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Bool("metrics", metrics != nil).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
