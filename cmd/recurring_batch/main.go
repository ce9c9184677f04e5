package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/platform/bootstrap"
	"github.com/SscSPs/ledger_posting/internal/platform/config"
	"github.com/SscSPs/ledger_posting/internal/platform/lock"
	"github.com/SscSPs/ledger_posting/internal/platform/logging"
)

func main() {
	from := flag.String("from", "", "First date of the range (YYYY-MM-DD). Defaults to the first day of the current month.")
	to := flag.String("to", "", "Last date of the range (YYYY-MM-DD). Defaults to today.")
	journalID := flag.String("journal", "", "Optional: run a single journal.")
	journalType := flag.String("type", "", "Optional: PREPAID_RECOGNITION, DEPRECIATION or AMORTIZATION.")
	limit := flag.Int("limit", 0, "Maximum number of journals to process (default 200).")
	flag.Parse()

	req, err := buildRequest(time.Now().UTC(), *from, *to, *journalID, *journalType, *limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	os.Exit(run(req))
}

// run executes one batch and returns the process exit code.
func run(req portssvc.BatchRequest) int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	logger := logging.New(logging.Options{ServiceName: "recurring-batch", Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithContext(ctx, logger)

	rt, err := bootstrap.Open(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize runtime")
		return 1
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing runtime")
		}
	}()

	result, err := rt.Services.Recurring.RunBatch(ctx, req)
	if errors.Is(err, lock.ErrBusy) {
		logger.Warn().Msg("Another recurring batch is running; nothing to do")
		return 0
	}
	if err != nil {
		logger.Error().Err(err).Msg("Recurring batch failed")
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)

	failed := result.Count(domain.RecurringRunError)
	logger.Info().
		Int("journals", result.Journals).
		Int("posted", result.Count(domain.RecurringRunPosted)).
		Int("skipped", result.Count(domain.RecurringRunSkipped)).
		Int("errors", failed).
		Msg("Recurring batch finished")

	if failed > 0 {
		return 1
	}
	return 0
}

func buildRequest(now time.Time, from, to, journalID, journalType string, limit int) (portssvc.BatchRequest, error) {
	req := portssvc.BatchRequest{
		From:  time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		To:    now,
		Limit: limit,
	}
	var err error
	if s := strings.TrimSpace(from); s != "" {
		if req.From, err = time.Parse("2006-01-02", s); err != nil {
			return req, fmt.Errorf("invalid -from %q: %w", s, err)
		}
	}
	if s := strings.TrimSpace(to); s != "" {
		if req.To, err = time.Parse("2006-01-02", s); err != nil {
			return req, fmt.Errorf("invalid -to %q: %w", s, err)
		}
	}
	if s := strings.TrimSpace(journalID); s != "" {
		req.JournalID = &s
	}
	if s := strings.ToUpper(strings.TrimSpace(journalType)); s != "" {
		jt := domain.RecurringJournalType(s)
		if !jt.IsValid() {
			return req, fmt.Errorf("invalid -type %q", journalType)
		}
		req.JournalType = &jt
	}
	return req, nil
}
