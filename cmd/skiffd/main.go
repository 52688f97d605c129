// Package main is the entry point for the skiffd static server daemon.
// It serves static assets and a status endpoint from a YAML
// configuration file, reloading the log level when the file changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skiffhttp/skiff/config"
	"github.com/skiffhttp/skiff/httpx"
	"github.com/skiffhttp/skiff/middleware"
	"github.com/skiffhttp/skiff/observability"
	"github.com/skiffhttp/skiff/render"
	"github.com/skiffhttp/skiff/server"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	metricsAddr string
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	logger := initLogger(flags)
	defer func() { _ = logger.Sync() }()

	cfg := loadConfig(flags.configPath, logger)
	srv := initServer(cfg, logger)

	run(srv, flags, logger)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("SKIFF_CONFIG_PATH", ""),
		"Path to configuration file (empty uses defaults)")
	logLevel := flag.String("log-level", getEnvOrDefault("SKIFF_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("SKIFF_LOG_FORMAT", "json"),
		"Log format (json, console)")
	metricsAddr := flag.String("metrics-addr", getEnvOrDefault("SKIFF_METRICS_ADDR", ""),
		"Prometheus metrics listen address (empty disables)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		metricsAddr: *metricsAddr,
		showVersion: *showVersion,
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("skiffd version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// initLogger initializes the logger.
func initLogger(flags cliFlags) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// loadConfig loads the configuration file, or falls back to defaults
// when no path is given.
func loadConfig(path string, logger observability.Logger) *config.Config {
	logger.Info("starting skiffd",
		observability.String("version", version),
		observability.String("config", path),
	)

	if path == "" {
		return config.Default()
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal("failed to load configuration", observability.Error(err))
	}

	logger.Info("configuration loaded",
		observability.String("address", cfg.Address),
		observability.String("staticDir", cfg.StaticDir),
		observability.String("staticPrefix", cfg.StaticPrefix),
		observability.Int("maxConnections", cfg.MaxConnections),
	)

	return cfg
}

// initServer builds the server with its routes and middleware.
func initServer(cfg *config.Config, logger observability.Logger) *server.Server {
	opts := []server.Option{server.WithLogger(logger)}

	if len(cfg.TemplateDirs) > 0 {
		renderer, err := render.NewTemplateRenderer(cfg.TemplateDirs)
		if err != nil {
			logger.Warn("templates unavailable, continuing without renderer",
				observability.Error(err))
		} else {
			opts = append(opts, server.WithRenderer(renderer))
		}
	}

	srv := server.New(cfg, opts...)
	srv.Use(middleware.RequestID())
	srv.Use(middleware.Logging(logger))

	if err := srv.Route("/status", httpx.MethodGet).
		WithHandler(statusHandler).
		Register(); err != nil {
		logger.Fatal("failed to register status route", observability.Error(err))
	}

	return srv
}

// statusHandler reports the daemon name and version.
func statusHandler(_ *httpx.Request) *httpx.Response {
	body := fmt.Sprintf(`{"name":"skiffd","version":%q}`, version)
	return httpx.NewResponse(http.StatusOK, body).
		WithHeader("Content-Type", "application/json")
}

// run serves connections until a shutdown signal arrives.
func run(srv *server.Server, flags cliFlags, logger observability.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if flags.metricsAddr != "" {
		go startMetricsServer(flags.metricsAddr, logger)
	}

	watcher := startConfigWatcher(flags.configPath, logger)
	defer func() {
		if watcher != nil {
			_ = watcher.Stop()
		}
	}()

	if err := srv.Start(ctx); err != nil {
		logger.Fatal("server error", observability.Error(err))
	}

	logger.Info("skiffd stopped")
}

// startConfigWatcher watches the configuration file for changes.
// Address and static-path changes need a restart; only the log
// settings are noted at runtime.
func startConfigWatcher(path string, logger observability.Logger) *config.Watcher {
	if path == "" {
		return nil
	}

	watcher, err := config.NewWatcher(path, func(newCfg *config.Config) {
		logger.Info("configuration changed, restart to apply",
			observability.String("address", newCfg.Address),
			observability.String("staticDir", newCfg.StaticDir),
		)
	},
		config.WithWatcherLogger(logger),
		config.WithErrorCallback(func(err error) {
			logger.Error("configuration reload failed", observability.Error(err))
		}),
	)
	if err != nil {
		logger.Warn("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Warn("failed to start config watcher", observability.Error(err))
		return nil
	}

	return watcher
}

// startMetricsServer exposes Prometheus metrics on a separate port.
func startMetricsServer(addr string, logger observability.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("starting metrics server", observability.String("address", addr))

	metricsServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server error", observability.Error(err))
	}
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
