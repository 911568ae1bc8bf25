package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/steadhac/ai-threat-analytics-framework/internal/runner"
	"github.com/steadhac/ai-threat-analytics-framework/internal/suites"
	"github.com/steadhac/ai-threat-analytics-framework/pkg/config"
	"github.com/steadhac/ai-threat-analytics-framework/pkg/logger"
	"github.com/steadhac/ai-threat-analytics-framework/pkg/metrics"
	"github.com/steadhac/ai-threat-analytics-framework/pkg/tracing"
)

const analyzerVersion = "1.0.0"

func main() {
	var (
		configFile     = flag.String("config", "", "Path to configuration file")
		generateConfig = flag.String("generate-config", "", "Generate example configuration file at specified path")
		suiteName      = flag.String("suite", "all", "Check suite to run (all, ai, pipelines, security)")
		reportDir      = flag.String("report-dir", "", "Directory for run reports (overrides config)")
		reportFormats  = flag.String("report-formats", "", "Comma-separated report formats: json, html")
		logLevel       = flag.String("log-level", "", "Log level (debug, info, warn, error)")
		logFormat      = flag.String("log-format", "", "Log format (text, json)")
		listChecks     = flag.Bool("list", false, "List checks in the selected suite and exit")
		version        = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *version {
		fmt.Printf("AI Threat Analytics Framework v%s\n", analyzerVersion)
		os.Exit(0)
	}

	if *generateConfig != "" {
		if err := writeExampleConfig(*generateConfig); err != nil {
			log.Fatalf("Failed to generate config file: %v", err)
		}
		fmt.Printf("Example configuration file generated at: %s\n", *generateConfig)
		os.Exit(0)
	}

	if *configFile != "" {
		if err := config.ValidateConfigPath(*configFile); err != nil {
			log.Fatalf("Invalid config file: %v", err)
		}
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *reportDir != "" {
		cfg.Reports.Dir = *reportDir
	}
	if *reportFormats != "" {
		cfg.Reports.Formats = strings.Split(*reportFormats, ",")
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:        logger.ParseLogLevel(cfg.Logging.Level),
		Format:       logger.ParseLogFormat(cfg.Logging.Format),
		Service:      cfg.Service.Name,
		Version:      cfg.Service.Version,
		EnableCaller: cfg.Logging.EnableCaller,
	})
	logger.SetDefault(appLogger)

	registry := metrics.NewRegistry()
	registry.AddGlobalLabel("suite", *suiteName)

	suite := suites.Build(cfg, appLogger, registry)
	selected, err := suites.Select(suite, *suiteName)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if *listChecks {
		fmt.Printf("Suite %q: %d checks\n", *suiteName, selected.Len())
		os.Exit(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tracer, err := tracing.NewService(&cfg.Tracing)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			appLogger.Warn("Tracing shutdown failed: %v", err)
		}
	}()

	report := selected.Run(ctx)

	paths, err := runner.WriteReports(report, cfg.Reports.Dir, cfg.Reports.Formats)
	if err != nil {
		appLogger.Error("Failed to write reports: %v", err)
	}
	for _, path := range paths {
		appLogger.Info("Report written to %s", path)
	}

	fmt.Printf("Run %s: %d passed, %d failed, %d skipped (%v)\n",
		report.RunID, report.Passed, report.Failed, report.Skipped,
		report.Duration.Round(time.Millisecond))

	if !report.Success() {
		os.Exit(1)
	}
}

func writeExampleConfig(path string) error {
	loader := config.NewLoader(config.EnvPrefix)
	return loader.WriteExample(path, config.Default())
}
