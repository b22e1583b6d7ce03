package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/klar/internal/api"
	"github.com/vytor/klar/internal/app"
	"github.com/vytor/klar/internal/jobs"
	"github.com/vytor/klar/internal/logger"
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			log := logger.Default()
			log.Info("===========================================")
			log.Info("klar server starting")
			log.Info("===========================================")
			log.Debug("addr=%s", cfg.Addr)
			log.Debug("db_path=%s", cfg.DBPath)
			log.Debug("log_level=%s", cfg.LogLevel)
			log.Debug("worker_count=%d", cfg.WorkerCount)
			log.Debug("queue_size=%d", cfg.QueueSize)
			log.Debug("snapshot_interval=%s", cfg.SnapshotInterval)

			a, err := app.Open(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Error("failed to close: %v", err)
				}
			}()

			return serve(cmd.Context(), a)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides ADDR env var)")
	return cmd
}

func serve(parent context.Context, a *app.App) error {
	log := logger.Default()

	srv := &api.Server{
		StudySetService: a.StudySets,
		CardService:     a.Cards,
		PracticeService: a.Practice,
		ReportService:   a.Reports,
		SnapshotService: a.Snapshots,
		JobQueue:        a.Queue,
		Ready:           func(ctx context.Context) error { return a.DB.PingContext(ctx) },
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	a.Start(ctx)

	scheduler := jobs.NewScheduler(a.Queue, a.Config.SnapshotInterval)
	if err := scheduler.Start(); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         a.Config.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", a.Config.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case sig := <-stop:
		log.Info("received signal %v, initiating graceful shutdown", sig)
	case <-ctx.Done():
		log.Info("context cancelled, initiating graceful shutdown")
	case runErr = <-errCh:
		log.Error("HTTP server error: %v", runErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping snapshot scheduler")
	scheduler.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("klar server stopped")
	log.Info("===========================================")
	return runErr
}
