package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/SscSPs/ledger_posting/internal/dto"
	"github.com/SscSPs/ledger_posting/internal/platform/bootstrap"
	"github.com/SscSPs/ledger_posting/internal/platform/config"
	"github.com/SscSPs/ledger_posting/internal/platform/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	// the audit only reads; never migrate from here
	cfg.RunMigrations = false

	logger := logging.New(logging.Options{ServiceName: "posting-audit", Level: cfg.LogLevel, Format: cfg.LogFormat})
	ctx := logging.WithContext(context.Background(), logger)

	rt, err := bootstrap.Open(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize runtime")
		os.Exit(1)
	}

	violations, err := rt.Services.Auditor.CheckAll(ctx)
	closeErr := rt.Close()
	if err != nil {
		logger.Error().Err(err).Msg("Integrity audit failed")
		os.Exit(1)
	}
	if closeErr != nil {
		logger.Warn().Err(closeErr).Msg("Error closing runtime")
	}

	report := dto.ToAuditReportResponse(violations)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)

	if !report.Clean {
		logger.Warn().Int("violations", report.Count).Msg("Integrity audit found violations")
		os.Exit(1)
	}
	logger.Info().Msg("Integrity audit clean")
}
