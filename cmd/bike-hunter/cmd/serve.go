package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/bike-hunter/internal/api"
	"github.com/donaldgifford/bike-hunter/internal/api/handlers"
	"github.com/donaldgifford/bike-hunter/internal/engine"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var migrate bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and the hunt scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), migrate)
		},
	}
	c.Flags().BoolVar(&migrate, "migrate", false, "apply database migrations before starting")
	return c
}

func runServe(parent context.Context, migrate bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	if migrate {
		if err := a.store.Migrate(ctx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations complete")
	}

	sched, err := engine.NewScheduler(a.engine, a.seen, cfg.Schedule.HuntInterval, cfg.Schedule.MaintenanceInterval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := api.NewRouter(api.Deps{
		Health:  handlers.NewHealthHandler(a.store),
		Hunt:    handlers.NewHuntHandler(a.engine, handlers.WithBaseContext(ctx), handlers.WithHuntLogger(log)),
		FMV:     handlers.NewFMVHandler(a.estimator),
		Catalog: handlers.NewCatalogHandler(a.store),
		System:  handlers.NewSystemStateHandler(a.registry, a.store),
		Version: Version,
		Logger:  log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sched.Start()
	log.Info("hunting",
		"interval", cfg.Schedule.HuntInterval,
		"targets_per_run", cfg.Hunt.TargetsPerRun,
		"llm_backend", cfg.LLM.Backend,
	)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutting down server", "error", err)
	}

	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("scheduled jobs still running at shutdown")
	}

	log.Info("server stopped")
	return nil
}
