package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bankstacx/bankstacx/internal/dataset"
	"github.com/bankstacx/bankstacx/internal/server"
	"github.com/bankstacx/bankstacx/internal/stress"
	"github.com/bankstacx/bankstacx/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override (e.g. :8080)")
	dataFile := flag.String("data", "", "path to the line-items spreadsheet (overrides config)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Address = *address
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}

	logger, err := buildLogger(cfg, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Load the dataset if the configured file exists. A missing file is not
	// fatal here: the upload endpoint is the documented fallback for
	// supplying the sheet.
	var d *dataset.Dataset
	d, err = dataset.Load(cfg.DataFile)
	if err != nil {
		var loadErr *dataset.LoadError
		if errors.As(err, &loadErr) {
			logger.Warn("dataset not loaded at startup; waiting for upload",
				zap.String("op", "main"),
				zap.String("path", cfg.DataFile),
				zap.Error(err),
			)
			d = nil
		} else {
			logger.Fatal("failed to load line-items spreadsheet",
				zap.String("op", "main"),
				zap.String("path", cfg.DataFile),
				zap.Error(err),
			)
		}
	} else {
		logger.Info("dataset loaded",
			zap.String("op", "main"),
			zap.String("path", cfg.DataFile),
			zap.Int("banks", d.Len()),
		)
	}

	srv := server.New(server.Options{
		Logger:     logger,
		Config:     cfg,
		Benchmarks: stress.DefaultBenchmarks().Merge(cfg.Benchmarks),
		Version:    version,
		Dataset:    d,
	})

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server", zap.String("op", "main"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func buildLogger(cfg *server.Config, logLevelOverride string) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	var zapConfig zap.Config
	switch cfg.Logging.Format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "", "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", cfg.Logging.Format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if cfg.Logging.OutputFile != "" {
		zapConfig.OutputPaths = []string{cfg.Logging.OutputFile}
		zapConfig.ErrorOutputPaths = []string{cfg.Logging.OutputFile}
	}

	return zapConfig.Build()
}
