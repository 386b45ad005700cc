/*
Package main is the entry point for the lobbychat application.

The root command runs the interactive chat client; the serve subcommand runs
the in-memory development chat server. Both load configuration from the
environment, initialize the global logging system, and handle operating system
interrupt signals for a clean shutdown.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lobbychat/internal/app/client"
	"lobbychat/internal/app/view"
	"lobbychat/internal/configs"
	"lobbychat/internal/devserver"
	"lobbychat/internal/pkg/logx"
)

func main() {
	root := &cobra.Command{
		Use:           "lobbychat",
		Short:         "Terminal client for the lobbychat room",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runClient,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory development chat server",
		RunE:  runServe,
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

// runClient starts the interactive chat client on stdin/stdout.
func runClient(cmd *cobra.Command, args []string) error {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Info("Configuration loaded",
		"environment", cfg.Environment,
		"server_url", cfg.ServerURL,
		"keepalive", cfg.KeepalivePeriod.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := client.New(cfg, view.NewTerminal(os.Stdout))
	if err != nil {
		return fmt.Errorf("failed to assemble client: %w", err)
	}

	if err := app.Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logx.Info("Client stopped.")
	return nil
}

// runServe starts the development chat server and blocks until interrupted.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Info("Configuration loaded",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := devserver.NewHub()
	go hub.Run()

	router := devserver.NewRouter(cfg, hub, devserver.NewUsers())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Development chat server starting on http://localhost:%d", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Stop()

	logx.Info("Server gracefully stopped.")
	return nil
}
