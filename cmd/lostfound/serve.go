package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/lostfound/internal/api"
	"github.com/erazemk/lostfound/internal/events"
	"github.com/erazemk/lostfound/internal/notify"
	"github.com/erazemk/lostfound/internal/repo"
	"github.com/erazemk/lostfound/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.cfg.Seed {
		if _, err := a.items.SeedIfEmpty(ctx); err != nil {
			return err
		}
	}
	if _, err := a.items.PruneImages(ctx); err != nil {
		return err
	}

	// Sessions live in Redis when configured, otherwise in the database.
	var kv session.Store = session.NewSettingsStore(a.db)
	if a.cfg.Redis.Addr != "" {
		rs := session.NewRedisStore(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rs.Ping(pingCtx)
		cancel()
		if err != nil {
			rs.Close()
			return err
		}
		kv = rs
		a.logger.Info("using redis session store", "addr", a.cfg.Redis.Addr)
	}

	users := repo.NewUsers(a.db, a.validator)
	sessions, err := session.New(ctx, a.db, users, kv, a.cfg.TokenExpiry, a.logger)
	if err != nil {
		kv.Close()
		return err
	}
	defer sessions.Close()

	inproc := events.NewInProcess(a.logger)
	registry := notify.NewRegistry(a.items, a.logger)
	registry.Watch(inproc)

	var bus events.Bus = inproc
	if a.cfg.AMQP.URL != "" {
		pub, err := events.DialAMQP(a.cfg.AMQP.URL, a.logger)
		if err != nil {
			return err
		}
		defer pub.Close()
		bus = events.Multi{inproc, pub}
	}

	apiRouter := api.NewRouter(api.Deps{
		Items:         a.items,
		Sessions:      sessions,
		Notifications: registry,
		Bus:           bus,
		MaxImageBytes: a.cfg.MaxImageBytes,
		Logger:        a.logger,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)

	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           api.LoggingMiddleware(a.logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	go func() {
		<-ctx.Done()
		a.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server forced to shutdown", "error", err)
		}
	}()

	a.logger.Info("server started", "addr", a.cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	a.logger.Info("server stopped, closing database")
	return nil
}
