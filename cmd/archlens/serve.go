package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"archlens/internal/httpapi"
)

var (
	serveHost      string
	servePort      string
	serveAuthToken string
	serveCORSAllow string
	serveRepo      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP/SSE API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "5178", "Port to listen on")
	serveCmd.Flags().StringVar(&serveAuthToken, "auth-token", "", "Bearer token required for mutating requests (env: ARCHLENS_AUTH_TOKEN)")
	serveCmd.Flags().StringVar(&serveCORSAllow, "cors-allow", "", "Comma-separated allowed CORS origins ('*' for all)")
	serveCmd.Flags().StringVar(&serveRepo, "repo", ".", "Project root to analyze")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger("human")
	registry := newRegistry(serveRepo, logger)

	token := serveAuthToken
	if token == "" {
		token = os.Getenv("ARCHLENS_AUTH_TOKEN")
	}
	var origins []string
	if serveCORSAllow != "" {
		origins = strings.Split(serveCORSAllow, ",")
	}

	addr := fmt.Sprintf("%s:%s", serveHost, servePort)
	srv := httpapi.NewServer(addr, registry, logger, httpapi.Config{
		AuthToken: token,
		CORS:      httpapi.CORSConfig{AllowedOrigins: origins},
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down http server", nil)
		return srv.Shutdown(context.Background())
	}
}
