package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiz-admin/internal/app"
	"quiz-admin/internal/config"
	transport "quiz-admin/internal/transport/http"
)

// NewServeCmd starts the browser admin console.
func NewServeCmd(opts *options) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin console API and websocket stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", os.Getenv("PORT"), "port to listen on (overrides config)")
	return cmd
}

func runServer(ctx context.Context, opts *options, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := loadDeps(ctx, opts)
	if err != nil {
		return err
	}
	defer d.Close()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = d.cfg.Console.Port
	}
	if finalPort == "" {
		finalPort = config.DefaultConsolePort
	}

	hub := transport.NewHub()
	flow := app.NewAuthoringFlow(d.client, d.drafts, d.feedback, d.log.Named("authoring"))
	defer flow.Close()
	dir := app.NewDirectory(d.client, hub, app.DefaultDirectoryTTL, d.log.Named("directory"))
	launcher := app.NewLauncher(d.client, d.feedback, hub, d.redirectDelay(), d.log.Named("launcher"))

	mux := http.NewServeMux()
	transport.NewConsole(flow, dir, launcher, d.feedback, hub, d.log.Named("console")).Routes(mux)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		d.log.Info("starting admin console", zap.String("addr", server.Addr), zap.String("backend", d.client.BaseURL()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			d.log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		d.log.Info("shutting down server")
	case <-ctx.Done():
		d.log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
