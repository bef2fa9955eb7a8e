package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Skryldev/jobly/api"
	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/metrics"
	"github.com/Skryldev/jobly/repo"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.HTTP.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	m := metrics.NewMetrics(nil)

	var database *db.DB
	err := db.WithRetry(ctx, retryStartup, func() error {
		var err error
		database, err = a.openDB(m)
		if err != nil {
			a.log.Warn("database not ready", "error", err)
		}
		return err
	})
	if err != nil {
		return err
	}
	defer database.Close()
	a.log.Info("database connected", "driver", database.DriverName(), "open_connections", database.Stats().OpenConnections)

	dialect := database.Dialect()
	srv := &http.Server{
		Addr: a.cfg.HTTP.Addr,
		Handler: api.New(api.Config{
			Companies: repo.NewCompanyRepo(database, dialect),
			Jobs:      repo.NewJobRepo(database, dialect),
			DB:        database,
			Metrics:   m,
			Logger:    a.log,
		}).Handler(),
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
