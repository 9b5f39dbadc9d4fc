package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bonktools/itemscan/internal/server"
)

const serveShutdownTimeout = 10 * time.Second

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP detection API",
	Long: `Start an HTTP server exposing the detection pipeline.

The server provides the following endpoints:
  POST /scan     - Analyze an uploaded screenshot
  GET  /healthz  - Health check endpoint
  GET  /metrics  - Prometheus metrics

Examples:
  itemscan serve
  itemscan serve --port 8080
  itemscan serve --host 0.0.0.0 --port 3000`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host, _ = cmd.Flags().GetString("host")
		}
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		noOCR, _ := cmd.Flags().GetBool("no-ocr")

		p, err := buildPipeline(cfg, noOCR, false)
		if err != nil {
			return err
		}

		srvCfg := server.DefaultConfig()
		srvCfg.Host = host
		srvCfg.Port = port
		srv := server.New(srvCfg, p)

		errCh := make(chan error, 1)
		go func() {
			slog.Info("Starting HTTP server", "host", host, "port", port)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case sig := <-sigCh:
			slog.Info("Received shutdown signal", "signal", sig.String())
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		slog.Info("Server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "interface to bind (overrides config)")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("no-ocr", false, "disable the text recognition path")
}
