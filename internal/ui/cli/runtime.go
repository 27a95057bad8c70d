package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreapp "snipex/internal/core/app"
	"snipex/internal/core/config"
	"snipex/internal/core/errors"
	"snipex/internal/shared/observability"
)

const defaultConfigPath = "./" + config.DefaultFile

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("snipex v%s\n", versionString)
		return 0
	}

	logger := configureLogging(opts.verbose)

	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}
	applyOptions(opts, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := setupTracing(ctx, cfg)
	if err != nil {
		logger.Error("failed to set up tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	if addr := cfg.Observability.MetricsAddr; addr != "" {
		server := NewObservabilityServer(addr)
		if err := server.Start(ctx); err != nil {
			logger.Error("failed to start metrics server", "error", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}

	application, err := coreapp.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", "error", err)
		return 1
	}

	if opts.watch {
		if err := application.Watch(ctx, opts.args, cfgPath); err != nil {
			logger.Error("watch failed", "error", err)
			return 1
		}
		return 0
	}

	if _, err := application.Scan(ctx, opts.args); err != nil {
		logger.Error("scan failed", "error", err)
		return 1
	}
	return 0
}

// loadConfig returns the loaded config and the path it came from. A missing
// default file falls back to built-in defaults with an empty path.
func loadConfig(path string) (*config.Config, string, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, path, nil
	}
	if path != defaultConfigPath || !errors.IsCode(err, errors.CodeNotFound) {
		return nil, "", err
	}
	slog.Debug("no config file found, using defaults", "path", path)
	cfg, err = config.Default()
	if err != nil {
		return nil, "", err
	}
	return cfg, "", nil
}

func applyOptions(opts cliOptions, cfg *config.Config) {
	if opts.out != "" {
		cfg.Output.Path = opts.out
	}
	if opts.pretty {
		cfg.Output.Pretty = true
	}
	if opts.metricsAddr != "" {
		cfg.Observability.MetricsAddr = opts.metricsAddr
	}
	if opts.includeTests {
		cfg.Scan.IncludeTests = true
	}
}

func setupTracing(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	tc := observability.TracingConfig{
		ServiceName: cfg.Observability.ServiceName,
		Insecure:    true,
	}
	if cfg.Observability.EnableTracing {
		tc.Endpoint = cfg.Observability.OTLPEndpoint
	}
	return observability.SetupTracing(ctx, tc)
}

// configureLogging sends logs to stderr; stdout carries results.
func configureLogging(verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return logger
}
