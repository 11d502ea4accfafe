package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/booklingua/booklingua/internal/trigger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the translation event server",
	Long: `Starts the HTTP ingress for translation events and the worker pool
that executes translation jobs. Shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.db.HealthCheck(ctx, 5*time.Second); err != nil {
		return err
	}

	queue := trigger.NewQueue(a.job, a.log,
		trigger.WithWorkers(a.cfg.Pipeline.Workers),
		trigger.WithQueueSize(a.cfg.Pipeline.QueueSize),
		trigger.WithJobTimeout(a.cfg.Pipeline.JobTimeout))
	server := trigger.NewServer(a.cfg.Server.Addr, queue, a.log)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
