package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/plcheng/screener/internal/api"
	"github.com/plcheng/screener/internal/api/handlers"
	"github.com/plcheng/screener/internal/external/yahoo"
	"github.com/plcheng/screener/internal/screener"
	"github.com/plcheng/screener/pkg/config"
	"github.com/plcheng/screener/pkg/httputil"
	"github.com/plcheng/screener/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the screening API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health       - Health check
  POST /api/screen   - Run a screening request
  POST /             - Same as /api/screen

Example:
  go run ./cmd/screener api
  go run ./cmd/screener api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Wire provider -> screener -> handler -> router -> server
	svc := newScreener(cfg, log)
	screenHandler := handlers.NewScreenHandler(svc, log)
	router := api.NewRouter(screenHandler, log)
	server := api.New(cfg, log, router)

	// 4. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// newScreener builds the Yahoo-backed screener shared by the api and
// screen commands
func newScreener(cfg *config.Config, log *logger.Logger) *screener.Screener {
	httpClient := httputil.NewWithTimeout(log, cfg.Screener.RequestTimeout).
		WithRateLimit(cfg.Yahoo.RatePerSecond).
		WithUserAgent(cfg.Yahoo.UserAgent)

	provider := yahoo.NewClient(httpClient, cfg.Yahoo, log)

	return screener.New(provider, cfg.Screener, log)
}
