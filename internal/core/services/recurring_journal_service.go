package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/platform/lock"
	"github.com/SscSPs/ledger_posting/internal/platform/logging"
	"github.com/SscSPs/ledger_posting/internal/platform/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	// RecurringBatchLockKey serializes batch runs across processes.
	RecurringBatchLockKey = "recurring-journals:batch"
	recurringBatchJob     = "recurring_journals"

	defaultBatchLimit = 200
	maxBatchLimit     = 1000

	// DefaultStaleClaimAfter is how long a period may stay CLAIMED before a retry
	// can take it over.
	DefaultStaleClaimAfter = 15 * time.Minute
)

type recurringJournalService struct {
	repo        portsrepo.RecurringJournalRepositoryFacade
	accounts    portsrepo.AccountCatalog
	engine      portssvc.PostingEngine
	locker      lock.Locker
	metrics     *metrics.BatchMetrics
	concurrency int
	staleAfter  time.Duration
	tracer      trace.Tracer
	now         func() time.Time
}

// RecurringOption configures the recurring journal service.
type RecurringOption func(*recurringJournalService)

// WithBatchLocker guards RunBatch with a cross-process lock.
func WithBatchLocker(l lock.Locker) RecurringOption {
	return func(s *recurringJournalService) {
		if l != nil {
			s.locker = l
		}
	}
}

func WithBatchMetrics(m *metrics.BatchMetrics) RecurringOption {
	return func(s *recurringJournalService) {
		s.metrics = m
	}
}

// WithConcurrency sets how many journals are processed at once.
func WithConcurrency(n int) RecurringOption {
	return func(s *recurringJournalService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithStaleClaimAfter sets the age after which a CLAIMED period counts as abandoned.
func WithStaleClaimAfter(d time.Duration) RecurringOption {
	return func(s *recurringJournalService) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

func WithRecurringClock(now func() time.Time) RecurringOption {
	return func(s *recurringJournalService) {
		s.now = now
	}
}

// NewRecurringJournalService creates the recurring journal scheduler.
func NewRecurringJournalService(repo portsrepo.RecurringJournalRepositoryFacade, accounts portsrepo.AccountCatalog, engine portssvc.PostingEngine, options ...RecurringOption) portssvc.RecurringJournalSvcFacade {
	svc := &recurringJournalService{
		repo:        repo,
		accounts:    accounts,
		engine:      engine,
		locker:      lock.NoopLocker{},
		concurrency: 1,
		staleAfter:  DefaultStaleClaimAfter,
		tracer:      otel.Tracer("github.com/SscSPs/ledger_posting/internal/core/services"),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RecurringJournalSvcFacade = (*recurringJournalService)(nil)

// RunBatch posts every (journal, period) in range that has not been claimed yet.
// Item failures are reported per item and never abort the batch.
func (s *recurringJournalService) RunBatch(ctx context.Context, req portssvc.BatchRequest) (*portssvc.BatchResult, error) {
	if req.From.IsZero() || req.To.IsZero() {
		return nil, apperrors.NewValidationError("from and to are required")
	}
	if req.To.Before(req.From) {
		return nil, apperrors.NewValidationError("to must not be before from")
	}
	if req.JournalType != nil && !req.JournalType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown journal type %q", *req.JournalType))
	}

	var result *portssvc.BatchResult
	err := s.locker.WithLock(ctx, RecurringBatchLockKey, func(ctx context.Context) error {
		var err error
		result, err = s.runBatch(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *recurringJournalService) runBatch(ctx context.Context, req portssvc.BatchRequest) (*portssvc.BatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "recurring.RunBatch", trace.WithAttributes(
		attribute.String("from", req.From.Format(time.RFC3339)),
		attribute.String("to", req.To.Format(time.RFC3339)),
	))
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveDuration(recurringBatchJob, time.Since(start)) }()

	logger := logging.FromContext(ctx)

	limit := req.Limit
	if limit <= 0 {
		limit = defaultBatchLimit
	}
	if limit > maxBatchLimit {
		limit = maxBatchLimit
	}

	journals, err := s.repo.ListActiveJournals(ctx, portsrepo.JournalFilter{
		JournalID:   req.JournalID,
		JournalType: req.JournalType,
		Limit:       limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring journals: %w", err)
	}

	perJournal := make([][]portssvc.BatchItem, len(journals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, journal := range journals {
		g.Go(func() error {
			perJournal[i] = s.processJournal(gctx, journal, req.From, req.To)
			return nil
		})
	}
	_ = g.Wait()

	result := &portssvc.BatchResult{Journals: len(journals)}
	for _, items := range perJournal {
		result.Items = append(result.Items, items...)
	}
	span.SetAttributes(
		attribute.Int("journals", result.Journals),
		attribute.Int("items", len(result.Items)),
	)
	logger.Info().
		Int("journals", result.Journals).
		Int("posted", result.Count(domain.RecurringRunPosted)).
		Int("skipped", result.Count(domain.RecurringRunSkipped)).
		Int("errors", result.Count(domain.RecurringRunError)).
		Msg("Recurring journal batch finished")

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// processJournal handles the journal's periods oldest first. It stops early only
// when ctx is done.
func (s *recurringJournalService) processJournal(ctx context.Context, journal domain.RecurringJournal, from, to time.Time) []portssvc.BatchItem {
	ctx = logging.WithFields(ctx, map[string]any{"journal_id": journal.JournalID})
	var items []portssvc.BatchItem
	for _, period := range journal.PeriodsBetween(from, to) {
		if ctx.Err() != nil {
			break
		}
		item := s.processPeriod(ctx, journal, period)
		s.metrics.IncItem(string(item.Status))
		items = append(items, item)
	}
	return items
}

func (s *recurringJournalService) processPeriod(ctx context.Context, journal domain.RecurringJournal, period domain.Period) portssvc.BatchItem {
	logger := logging.FromContext(ctx)

	claim := domain.RecurringJournalRun{
		RunID:       uuid.NewString(),
		JournalID:   journal.JournalID,
		PeriodKey:   period.Key(),
		PeriodStart: period.Start(),
		PeriodEnd:   period.End(),
		Status:      domain.RecurringRunClaimed,
		RunAt:       s.now(),
	}
	if err := s.repo.ClaimPeriod(ctx, claim); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Debug().Str("period", period.Key()).Msg("Period already claimed, skipping")
			return portssvc.NewBatchItem(journal.JournalID, period.Key(), domain.RecurringRunSkipped, nil, nil)
		}
		logger.Error().Err(err).Str("period", period.Key()).Msg("Failed to claim period")
		return portssvc.NewBatchItem(journal.JournalID, period.Key(), domain.RecurringRunError, nil,
			fmt.Errorf("journal %s period %s: claim: %w", journal.JournalID, period.Key(), err))
	}

	return s.postClaimed(ctx, journal, period, claim.RunID)
}

// postClaimed posts a period whose claim row is held and records the outcome on it.
func (s *recurringJournalService) postClaimed(ctx context.Context, journal domain.RecurringJournal, period domain.Period, claimID string) portssvc.BatchItem {
	logger := logging.FromContext(ctx)
	// The outcome must be recorded even if the caller goes away mid-period.
	markCtx := context.WithoutCancel(ctx)

	run, err := s.engine.PostDocument(ctx, PeriodPostRequest(journal, period))
	if err != nil {
		if markErr := s.repo.MarkRunError(markCtx, claimID, err.Error()); markErr != nil {
			logger.Error().Err(markErr).Str("period", period.Key()).Msg("Failed to record period error")
		}
		logger.Warn().Err(err).Str("period", period.Key()).Msg("Recurring journal period failed")
		return portssvc.NewBatchItem(journal.JournalID, period.Key(), domain.RecurringRunError, nil,
			fmt.Errorf("journal %s period %s: %w", journal.JournalID, period.Key(), err))
	}

	if err := s.repo.MarkRunPosted(markCtx, claimID, run.RunID); err != nil {
		logger.Error().Err(err).Str("period", period.Key()).Str("run_id", run.RunID).Msg("Posted period but failed to mark the claim")
		return portssvc.NewBatchItem(journal.JournalID, period.Key(), domain.RecurringRunError, &run.RunID,
			fmt.Errorf("journal %s period %s: mark posted: %w", journal.JournalID, period.Key(), err))
	}
	return portssvc.NewBatchItem(journal.JournalID, period.Key(), domain.RecurringRunPosted, &run.RunID, nil)
}

// PeriodPostRequest builds the posting for one period of a journal.
func PeriodPostRequest(journal domain.RecurringJournal, period domain.Period) portssvc.PostRequest {
	return portssvc.PostRequest{
		DocType:     domain.DocTypeFinancialDocumentRecognition,
		DocID:       journal.PeriodDocID(period),
		PostingDate: period.LastInstant(),
		Lines: []domain.PostingLine{{
			DebitAccount:  journal.DebitAccount,
			CreditAccount: journal.CreditAccount,
			Amount:        journal.Amount,
			Currency:      journal.Currency,
			Description:   fmt.Sprintf("Recurring journal %s for %s", journal.JournalType, period.Key()),
		}},
	}
}

// RetryPeriod resets an ERROR claim, or a CLAIMED one abandoned for longer than
// the stale threshold, and posts the period again. Posting is idempotent on the
// period's document id, so a period that did post is only marked. Claims in any
// other state are left alone and yield ErrConflict.
func (s *recurringJournalService) RetryPeriod(ctx context.Context, journalID, periodKey string) (*portssvc.BatchItem, error) {
	period, err := domain.ParsePeriodKey(periodKey)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	journal, err := s.repo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.JournalActive {
		return nil, apperrors.NewValidationError(fmt.Sprintf("journal %s is %s", journalID, journal.Status))
	}

	claim, err := s.repo.ReclaimRun(ctx, journalID, period.Key(), s.now().Add(-s.staleAfter))
	if err != nil {
		return nil, err
	}

	ctx = logging.WithFields(ctx, map[string]any{"journal_id": journalID})
	logging.FromContext(ctx).Info().Str("period", period.Key()).Msg("Retrying recurring journal period")

	item := s.postClaimed(ctx, *journal, period, claim.RunID)
	s.metrics.IncItem(string(item.Status))
	return &item, nil
}

// CreateJournal validates and stores a new ACTIVE monthly journal.
func (s *recurringJournalService) CreateJournal(ctx context.Context, req portssvc.CreateJournalRequest) (*domain.RecurringJournal, error) {
	logger := logging.FromContext(ctx)

	if !req.JournalType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown journal type %q", req.JournalType))
	}
	dayOfMonth := req.DayOfMonth
	if dayOfMonth == 0 {
		dayOfMonth = 1
	}
	if dayOfMonth < 1 || dayOfMonth > 28 {
		return nil, apperrors.NewValidationError("dayOfMonth must be between 1 and 28")
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be positive")
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, apperrors.NewValidationError("currency must be a 3-letter code")
	}
	if req.DebitAccount == "" || req.CreditAccount == "" || req.DebitAccount == req.CreditAccount {
		return nil, apperrors.NewValidationError("debit and credit accounts must be set and differ")
	}
	if req.StartDate.IsZero() {
		return nil, apperrors.NewValidationError("startDate is required")
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, apperrors.NewValidationError("endDate must not be before startDate")
	}

	found, err := s.accounts.FindAccountsByCodes(ctx, []string{req.DebitAccount, req.CreditAccount})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accounts: %w", err)
	}
	for _, code := range []string{req.DebitAccount, req.CreditAccount} {
		acc, ok := found[code]
		if !ok || !acc.IsActive {
			return nil, apperrors.NewValidationError(fmt.Sprintf("account %s does not exist or is inactive", code))
		}
	}

	var sourceDocID *string
	if req.SourceDocumentID != nil && strings.TrimSpace(*req.SourceDocumentID) != "" {
		trimmed := strings.TrimSpace(*req.SourceDocumentID)
		sourceDocID = &trimmed
	}

	now := s.now()
	journal := domain.RecurringJournal{
		JournalID:        uuid.NewString(),
		JournalType:      req.JournalType,
		SourceDocumentID: sourceDocID,
		Frequency:        domain.FrequencyMonthly,
		DayOfMonth:       dayOfMonth,
		DebitAccount:     req.DebitAccount,
		CreditAccount:    req.CreditAccount,
		Amount:           req.Amount,
		Currency:         currency,
		StartDate:        req.StartDate.UTC(),
		EndDate:          req.EndDate,
		Status:           domain.JournalActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.repo.SaveJournal(ctx, journal); err != nil {
		logger.Error().Err(err).Msg("Failed to save recurring journal")
		return nil, fmt.Errorf("failed to save recurring journal: %w", err)
	}
	logger.Info().Str("journal_id", journal.JournalID).Str("journal_type", string(journal.JournalType)).Msg("Recurring journal created")
	return &journal, nil
}

func (s *recurringJournalService) ArchiveJournal(ctx context.Context, journalID string) error {
	if _, err := s.repo.FindJournalByID(ctx, journalID); err != nil {
		return err
	}
	return s.repo.ArchiveJournal(ctx, journalID)
}

// ListRuns returns the journal's claim rows with period start in [from, to].
func (s *recurringJournalService) ListRuns(ctx context.Context, journalID string, from, to *time.Time) ([]domain.RecurringJournalRun, error) {
	if _, err := s.repo.FindJournalByID(ctx, journalID); err != nil {
		return nil, err
	}
	return s.repo.ListRuns(ctx, journalID, from, to)
}
