package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bankstacx/bankstacx/internal/config"
	"github.com/bankstacx/bankstacx/internal/dataset"
	"github.com/bankstacx/bankstacx/internal/report"
	"github.com/bankstacx/bankstacx/pkg/constants"
	"github.com/bankstacx/bankstacx/pkg/output"
	"github.com/bankstacx/bankstacx/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
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

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// loadConfiguration returns defaults when the default config file is simply
// absent; an explicitly passed path must exist.
func loadConfiguration(path string) (*config.Configuration, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && path == constants.DefaultConfigFile {
		return config.Default(), nil
	}
	return config.LoadConfiguration(path)
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	dataFile := flag.String("data", "", "path to the line-items spreadsheet (overrides config)")
	bank := flag.String("bank", "", "bank to analyze")
	peerCount := flag.Int("peers", 0, "number of neighbors on each side of the bank (overrides config)")
	ratioName := flag.String("ratio", "", "restrict output to one ratio from the catalog")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := loadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	dataPath := conf.DataFile
	if *dataFile != "" {
		dataPath = *dataFile
	}

	d, err := dataset.Load(dataPath)
	if err != nil {
		logger.Fatal("failed to load line-items spreadsheet",
			zap.String("op", "main"),
			zap.String("path", dataPath),
			zap.Error(err),
		)
	}

	if *bank == "" {
		fmt.Printf("No bank selected. Available banks:\n  %s\n", strings.Join(d.SortedBanks(), "\n  "))
		return
	}

	n := conf.PeerCount
	if *peerCount > 0 {
		n = *peerCount
	}
	if err := validation.ValidatePeerCount(n, len(d.Banks())); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if *ratioName != "" {
		if err := validation.ValidateRatioName(*ratioName); err != nil {
			logger.Fatal(err.Error(),
				zap.String("op", "main"),
			)
		}
	}

	builder := report.NewBuilder(logger, nil, conf.BenchmarkTable())
	results, err := builder.Full(d, *bank, n)
	if err != nil {
		logger.Fatal("failed to compute analysis report",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if *ratioName != "" {
		var kept []report.RatioAnalysis
		for _, analysis := range results.Ratios {
			if analysis.Ratio == *ratioName {
				kept = append(kept, analysis)
			}
		}
		results.Ratios = kept
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(results)
	case constants.OutputFormatCSV:
		output.CsvFormat(results)
	}
}
