// Package posting turns business documents into immutable ledger records.
// It is the only package that can write ledger entries and posting runs.
//
// A voided document stays voided: posting it again returns ErrDocumentVoided.
// Corrections are posted under a new document id.
package posting

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
	"github.com/SscSPs/ledger_posting/internal/core/posting/internal/ledgerwrite"
	"github.com/SscSPs/ledger_posting/internal/platform/logging"
	"github.com/SscSPs/ledger_posting/internal/platform/metrics"
	"github.com/SscSPs/ledger_posting/internal/utils/accounting"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/SscSPs/ledger_posting/internal/core/posting"

// Metric op labels.
const (
	opPost     = "post"
	opVoid     = "void"
	opIsPosted = "is_posted"
)

// Engine implements portssvc.PostingEngine.
type Engine struct {
	store     ledgerwrite.Store
	accounts  portsrepo.AccountCatalog
	converter portssvc.CurrencyConverter
	lookups   map[domain.DocType]portssvc.DocumentLookup
	metrics   *metrics.PostingMetrics
	validate  *validator.Validate
	tracer    trace.Tracer
	now       func() time.Time
	newID     func() string
}

var _ portssvc.PostingEngine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithDocumentLookup makes PostDocument confirm that documents of docType exist.
func WithDocumentLookup(docType domain.DocType, lookup portssvc.DocumentLookup) Option {
	return func(e *Engine) {
		e.lookups[docType] = lookup
	}
}

func WithMetrics(m *metrics.PostingMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the time source used for run and entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine creates a posting engine writing through pool.
func NewEngine(pool *pgxpool.Pool, accounts portsrepo.AccountCatalog, converter portssvc.CurrencyConverter, opts ...Option) *Engine {
	return newEngine(ledgerwrite.NewPgxStore(pool), accounts, converter, opts...)
}

func newEngine(store ledgerwrite.Store, accounts portsrepo.AccountCatalog, converter portssvc.CurrencyConverter, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		accounts:  accounts,
		converter: converter,
		lookups:   make(map[domain.DocType]portssvc.DocumentLookup),
		validate:  validator.New(),
		tracer:    otel.Tracer(tracerName),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PostDocument posts req once. A retry, or a concurrent caller that lost the race,
// gets the existing POSTED run back unchanged.
func (e *Engine) PostDocument(ctx context.Context, req portssvc.PostRequest) (run *domain.PostingRun, err error) {
	ref := domain.DocumentRef{DocType: req.DocType, DocID: req.DocID}
	ctx, span, logger := e.begin(ctx, "posting.PostDocument", ref)
	outcome := metrics.OutcomeError
	defer e.finish(span, opPost, &outcome, time.Now(), &err)

	if err := e.validateRequest(ctx, req); err != nil {
		outcome = metrics.OutcomeRejected
		return nil, err
	}

	existing, err := e.postedRun(ctx, ref)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.IsReversal() {
			outcome = metrics.OutcomeRejected
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDocumentVoided, ref)
		}
		outcome = metrics.OutcomeIdempotent
		logger.Debug().Str("run_id", existing.RunID).Msg("Document already posted")
		return existing, nil
	}

	if err := e.checkAccounts(ctx, req.Lines); err != nil {
		outcome = metrics.OutcomeRejected
		return nil, err
	}
	if err := e.checkDocumentExists(ctx, ref); err != nil {
		outcome = metrics.OutcomeRejected
		return nil, err
	}

	now := e.now()
	runID := e.newID()
	entries, err := e.buildEntries(ctx, ref, runID, req, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			outcome = metrics.OutcomeRejected
		}
		return nil, err
	}

	created := domain.PostingRun{
		RunID:     runID,
		DocType:   ref.DocType,
		DocID:     ref.DocID,
		Status:    domain.RunPending,
		Kind:      domain.RunKindPosting,
		CreatedAt: now,
	}
	err = e.store.InTx(ctx, func(ctx context.Context, w ledgerwrite.Writer) error {
		version, err := w.NextVersion(ctx, ref)
		if err != nil {
			return err
		}
		created.Version = version
		if err := w.InsertRun(ctx, created); err != nil {
			return err
		}
		if err := w.InsertEntries(ctx, entries); err != nil {
			return err
		}
		return w.TransitionRun(ctx, ledgerwrite.Transition{
			RunID:   runID,
			From:    domain.RunPending,
			To:      domain.RunPosted,
			Version: version,
			At:      now,
		})
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.Error().Err(err).Msg("Failed to post document")
			return nil, err
		}
		winner, rerr := e.postedRun(ctx, ref)
		if rerr != nil {
			return nil, rerr
		}
		if winner == nil {
			outcome = metrics.OutcomeConflict
			return nil, err
		}
		if winner.IsReversal() {
			outcome = metrics.OutcomeRejected
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDocumentVoided, ref)
		}
		outcome = metrics.OutcomeConverged
		logger.Info().Str("run_id", winner.RunID).Msg("Concurrent posting won, returning its run")
		return winner, nil
	}

	created.Status = domain.RunPosted
	created.PostedAt = &now
	outcome = metrics.OutcomeCreated
	logger.Info().Str("run_id", runID).Int("lines", len(entries)).Msg("Document posted")
	return &created, nil
}

// VoidDocument reverses the document's POSTED run with compensating entries and
// returns the reversal run. Voiding twice returns the same reversal.
func (e *Engine) VoidDocument(ctx context.Context, docType domain.DocType, docID, reason string) (run *domain.PostingRun, err error) {
	ref := domain.DocumentRef{DocType: docType, DocID: docID}
	ctx, span, logger := e.begin(ctx, "posting.VoidDocument", ref)
	outcome := metrics.OutcomeError
	defer e.finish(span, opVoid, &outcome, time.Now(), &err)

	reason = strings.TrimSpace(reason)
	if err := validateRef(ref); err != nil {
		outcome = metrics.OutcomeRejected
		return nil, err
	}
	if reason == "" {
		outcome = metrics.OutcomeRejected
		return nil, apperrors.NewValidationError("void reason is required")
	}

	original, err := e.postedRun(ctx, ref)
	if err != nil {
		return nil, err
	}
	if original == nil {
		outcome = metrics.OutcomeRejected
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNothingToVoid, ref)
	}
	if original.IsReversal() {
		outcome = metrics.OutcomeIdempotent
		return original, nil
	}

	entries, err := e.store.FindEntriesByRun(ctx, original.RunID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	reversal := domain.PostingRun{
		RunID:           e.newID(),
		DocType:         ref.DocType,
		DocID:           ref.DocID,
		Version:         original.Version + 1,
		Status:          domain.RunPending,
		Kind:            domain.RunKindReversal,
		ReversalOfRunID: &original.RunID,
		CreatedAt:       now,
	}
	reversed := make([]domain.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		reversed = append(reversed, entry.Reversed(e.newID(), reversal.RunID, now))
	}

	err = e.store.InTx(ctx, func(ctx context.Context, w ledgerwrite.Writer) error {
		if err := w.TransitionRun(ctx, ledgerwrite.Transition{
			RunID:   original.RunID,
			From:    domain.RunPosted,
			To:      domain.RunVoid,
			Version: original.Version,
			At:      now,
			Reason:  &reason,
		}); err != nil {
			return err
		}
		if err := w.InsertRun(ctx, reversal); err != nil {
			return err
		}
		if err := w.InsertEntries(ctx, reversed); err != nil {
			return err
		}
		if err := w.TransitionRun(ctx, ledgerwrite.Transition{
			RunID:   reversal.RunID,
			From:    domain.RunPending,
			To:      domain.RunPosted,
			Version: reversal.Version,
			At:      now,
		}); err != nil {
			return err
		}
		return w.LinkReversal(ctx, original.RunID, reversal.RunID)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.Error().Err(err).Str("run_id", original.RunID).Msg("Failed to void document")
			return nil, err
		}
		winner, rerr := e.postedRun(ctx, ref)
		if rerr != nil {
			return nil, rerr
		}
		if winner != nil && winner.IsReversal() && winner.ReversalOfRunID != nil && *winner.ReversalOfRunID == original.RunID {
			outcome = metrics.OutcomeConverged
			return winner, nil
		}
		outcome = metrics.OutcomeConflict
		return nil, err
	}

	reversal.Status = domain.RunPosted
	reversal.PostedAt = &now
	outcome = metrics.OutcomeCreated
	logger.Info().
		Str("run_id", reversal.RunID).
		Str("reversal_of", original.RunID).
		Str("reason", reason).
		Msg("Document voided")
	return &reversal, nil
}

// IsPosted reports whether the document currently has a POSTED, non-reversal run.
func (e *Engine) IsPosted(ctx context.Context, docType domain.DocType, docID string) (posted bool, err error) {
	ref := domain.DocumentRef{DocType: docType, DocID: docID}
	ctx, span, _ := e.begin(ctx, "posting.IsPosted", ref)
	outcome := metrics.OutcomeError
	defer e.finish(span, opIsPosted, &outcome, time.Now(), &err)

	if err := validateRef(ref); err != nil {
		outcome = metrics.OutcomeRejected
		return false, err
	}
	run, err := e.postedRun(ctx, ref)
	if err != nil {
		return false, err
	}
	outcome = metrics.OutcomeOK
	return run != nil && !run.IsReversal(), nil
}

func (e *Engine) begin(ctx context.Context, name string, ref domain.DocumentRef) (context.Context, trace.Span, *zerolog.Logger) {
	ctx, span := e.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("doc_type", string(ref.DocType)),
		attribute.String("doc_id", ref.DocID),
	))
	ctx = logging.WithFields(ctx, map[string]any{
		"doc_type": string(ref.DocType),
		"doc_id":   ref.DocID,
	})
	return ctx, span, logging.FromContext(ctx)
}

func (e *Engine) finish(span trace.Span, op string, outcome *string, start time.Time, err *error) {
	if *err != nil {
		span.RecordError(*err)
		span.SetStatus(codes.Error, (*err).Error())
	}
	span.SetAttributes(attribute.String("outcome", *outcome))
	span.End()
	e.metrics.Observe(op, *outcome, time.Since(start))
}

// postedRun returns the document's POSTED run, or nil if there is none.
func (e *Engine) postedRun(ctx context.Context, ref domain.DocumentRef) (*domain.PostingRun, error) {
	run, err := e.store.FindPostedRun(ctx, ref)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return run, nil
}

func validateRef(ref domain.DocumentRef) error {
	if !ref.DocType.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown doc type %q", ref.DocType))
	}
	if strings.TrimSpace(ref.DocID) == "" {
		return apperrors.NewValidationError("docID is required")
	}
	return nil
}

func (e *Engine) validateRequest(ctx context.Context, req portssvc.PostRequest) error {
	if err := validateRef(domain.DocumentRef{DocType: req.DocType, DocID: req.DocID}); err != nil {
		return err
	}
	if req.PostingDate.IsZero() {
		return apperrors.NewValidationError("postingDate is required")
	}
	if len(req.Lines) == 0 {
		return apperrors.NewValidationError("at least one posting line is required")
	}
	for i, line := range req.Lines {
		if err := e.validate.StructCtx(ctx, line); err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("line %d: %s", i+1, describeValidation(err)))
		}
		if !line.Amount.IsPositive() {
			return apperrors.NewValidationError(fmt.Sprintf("line %d: amount must be positive", i+1))
		}
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

func (e *Engine) checkAccounts(ctx context.Context, lines []domain.PostingLine) error {
	seen := make(map[string]struct{})
	accountCodes := make([]string, 0, len(lines)*2)
	for _, line := range lines {
		for _, code := range []string{line.DebitAccount, line.CreditAccount} {
			if _, ok := seen[code]; !ok {
				seen[code] = struct{}{}
				accountCodes = append(accountCodes, code)
			}
		}
	}

	found, err := e.accounts.FindAccountsByCodes(ctx, accountCodes)
	if err != nil {
		return fmt.Errorf("failed to resolve accounts: %w", err)
	}
	for _, code := range accountCodes {
		acc, ok := found[code]
		if !ok {
			return apperrors.NewValidationError(fmt.Sprintf("account %s does not exist", code))
		}
		if !acc.IsActive {
			return apperrors.NewValidationError(fmt.Sprintf("account %s is inactive", code))
		}
	}
	return nil
}

func (e *Engine) checkDocumentExists(ctx context.Context, ref domain.DocumentRef) error {
	lookup, ok := e.lookups[ref.DocType]
	if !ok {
		return nil
	}
	exists, err := lookup.DocumentExists(ctx, ref.DocID)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", ref, err)
	}
	if !exists {
		return apperrors.NewValidationError(fmt.Sprintf("document %s does not exist", ref))
	}
	return nil
}

// buildEntries converts each line into base currency at the posting date and checks
// that the result balances.
func (e *Engine) buildEntries(ctx context.Context, ref domain.DocumentRef, runID string, req portssvc.PostRequest, now time.Time) ([]domain.LedgerEntry, error) {
	entries := make([]domain.LedgerEntry, 0, len(req.Lines))
	for i, line := range req.Lines {
		base, err := e.converter.ToBase(ctx, line.Amount, line.Currency, req.PostingDate)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if !base.IsPositive() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("line %d: %s %s rounds to zero in %s", i+1, line.Amount, line.Currency, e.converter.BaseCurrency()))
		}
		entries = append(entries, domain.LedgerEntry{
			EntryID:       e.newID(),
			PostingRunID:  &runID,
			DocType:       ref.DocType,
			DocID:         ref.DocID,
			LineNumber:    i + 1,
			DebitAccount:  line.DebitAccount,
			CreditAccount: line.CreditAccount,
			Amount:        line.Amount,
			Currency:      line.Currency,
			AmountBase:    base,
			PostingDate:   req.PostingDate,
			Description:   line.Description,
			CreatedAt:     now,
		})
	}
	if err := accounting.ValidateBalance(entries); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnbalanced, err)
	}
	return entries, nil
}
