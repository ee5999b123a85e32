// Package main is the entry point for the edge router.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/kidylee/cloudworker-router/cache"
	"github.com/kidylee/cloudworker-router/config"
	"github.com/kidylee/cloudworker-router/httpadapter"
	"github.com/kidylee/cloudworker-router/middleware"
	"github.com/kidylee/cloudworker-router/observability"
	"github.com/kidylee/cloudworker-router/router"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// routerEnv is the environment bound to every request.
type routerEnv struct {
	Logger observability.Logger
}

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
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

	cfg := loadAndValidateConfig(flags.configPath, logger)
	app := initApplication(cfg, logger)

	runServer(app, flags.configPath, logger)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("EDGEROUTER_CONFIG_PATH", "configs/edgerouter.yaml"),
		"Path to configuration file")
	logLevel := flag.String("log-level", getEnvOrDefault("EDGEROUTER_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("EDGEROUTER_LOG_FORMAT", "json"),
		"Log format (json, console)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		showVersion: *showVersion,
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("edgerouter version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// initLogger initializes the logger.
func initLogger(flags cliFlags) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// loadAndValidateConfig loads and validates the configuration.
func loadAndValidateConfig(configPath string, logger observability.Logger) *config.Config {
	logger.Info("starting edgerouter",
		observability.String("version", version),
		observability.String("config", configPath),
	)

	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", observability.Error(err))
	}

	logger.Info("configuration loaded",
		observability.String("listen", cfg.Listen),
		observability.Int("routes", len(cfg.Routes)),
		observability.Bool("rate_limit", cfg.RateLimit.Enabled),
		observability.Bool("cache", cfg.Cache.Enabled),
	)

	return cfg
}

// application holds all application components.
type application struct {
	current     atomic.Pointer[router.Router[routerEnv]]
	server      *http.Server
	rateLimiter *middleware.RateLimiter
	store       cache.Cache
	env         routerEnv
	listen      string
}

// initApplication initializes all application components.
func initApplication(cfg *config.Config, logger observability.Logger) *application {
	app := &application{
		env:    routerEnv{Logger: logger},
		listen: cfg.Listen,
	}

	if cfg.RateLimit.Enabled {
		app.rateLimiter = middleware.NewRateLimiter(
			cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.PerClient,
			middleware.WithRateLimiterLogger(logger),
		)
	}

	if cfg.Cache.Enabled {
		store, err := openCache(cfg, logger)
		if err != nil {
			logger.Fatal("failed to open response cache", observability.Error(err))
		}
		app.store = store
	}

	rt, err := buildRouter(cfg, app, logger)
	if err != nil {
		logger.Fatal("failed to build router", observability.Error(err))
	}
	app.current.Store(rt)

	app.server = &http.Server{
		Addr: cfg.Listen,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			httpadapter.Handler(app.current.Load(), app.env).ServeHTTP(w, r)
		}),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	return app
}

// openCache opens the configured cache backend.
func openCache(cfg *config.Config, logger observability.Logger) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:       cfg.Cache.Redis.Addr,
			Password:   cfg.Cache.Redis.Password,
			DB:         cfg.Cache.Redis.DB,
			KeyPrefix:  cfg.Cache.Redis.KeyPrefix,
			DefaultTTL: cfg.Cache.TTL,
		})
	default:
		return cache.NewMemoryCache(cfg.Cache.TTL, time.Minute), nil
	}
}

// buildRouter assembles the middleware chain and the static routes
// from the configuration.
func buildRouter(cfg *config.Config, app *application, logger observability.Logger) (*router.Router[routerEnv], error) {
	rt := router.New[routerEnv]()

	rt.Use(middleware.RequestID[routerEnv]())
	rt.Use(middleware.Logging[routerEnv](logger))
	rt.Use(middleware.SecurityHeaders[routerEnv]())

	if app.rateLimiter != nil {
		key := middleware.ClientIPKey[routerEnv]()
		if !cfg.RateLimit.PerClient {
			key = nil
		}
		rt.Use(middleware.RateLimit(app.rateLimiter, key))
	}

	if app.store != nil {
		rt.Use(middleware.ResponseCache[routerEnv](app.store, cfg.Cache.TTL,
			middleware.WithCacheLogger(logger)))
	}

	for _, rc := range cfg.Routes {
		method, err := router.ParseMethod(rc.Method)
		if err != nil {
			return nil, fmt.Errorf("route %s %s: %w", rc.Method, rc.Path, err)
		}

		var opts []router.RouteOption
		if rc.Prefix {
			opts = append(opts, router.WithPrefix())
		}

		if err := rt.Register(method, rc.Path, staticHandler(rc), opts...); err != nil {
			return nil, fmt.Errorf("route %s %s: %w", rc.Method, rc.Path, err)
		}
	}

	rt.Options("*", rt.AllowedMethods())

	return rt, nil
}

// staticHandler serves the fixed response declared for a route.
func staticHandler(rc config.RouteConfig) router.Handler[routerEnv] {
	return func(_ context.Context, _ *router.Context[routerEnv]) (router.Result, error) {
		resp := router.Text(rc.Status, rc.Body)
		for key, value := range rc.Headers {
			resp.Header.Set(key, value)
		}
		return resp, nil
	}
}

// runServer runs the HTTP server and handles shutdown.
func runServer(app *application, configPath string, logger observability.Logger) {
	go func() {
		logger.Info("listening", observability.String("address", app.listen))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", observability.Error(err))
		}
	}()

	watcher := startConfigWatcher(app, configPath, logger)

	waitForShutdown(app, watcher, logger)
}

// startConfigWatcher starts the configuration watcher. Reloads swap
// the route table in place; listener and backend changes need a
// restart.
func startConfigWatcher(app *application, configPath string, logger observability.Logger) *config.Watcher {
	watcher, err := config.NewWatcher(configPath, func(newCfg *config.Config) {
		rt, buildErr := buildRouter(newCfg, app, logger)
		if buildErr != nil {
			logger.Error("failed to rebuild router", observability.Error(buildErr))
			return
		}
		app.current.Store(rt)
		logger.Info("routes reloaded", observability.Int("routes", len(newCfg.Routes)))
	}, config.WithWatcherLogger(logger))

	if err != nil {
		logger.Warn("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Warn("failed to start config watcher", observability.Error(err))
	}

	return watcher
}

// waitForShutdown waits for a signal and performs graceful shutdown.
func waitForShutdown(app *application, watcher *config.Watcher, logger observability.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", observability.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if watcher != nil {
		_ = watcher.Stop()
	}

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to stop server gracefully", observability.Error(err))
	}

	if app.rateLimiter != nil {
		app.rateLimiter.Stop()
	}

	if app.store != nil {
		if err := app.store.Close(); err != nil {
			logger.Error("failed to close cache", observability.Error(err))
		}
	}

	logger.Info("edgerouter stopped")
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
