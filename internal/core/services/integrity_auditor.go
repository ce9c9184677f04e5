package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting/internal/platform/logging"
)

type integrityAuditor struct {
	repo         portsrepo.AuditRepository
	legacyCutoff *time.Time
	staleAfter   time.Duration
	now          func() time.Time
}

// NewIntegrityAuditor creates the auditor. Orphan entries created at or before
// legacyCutoff predate posting runs and are ignored; nil checks every row.
// Recurring periods CLAIMED for longer than staleAfter are reported.
func NewIntegrityAuditor(repo portsrepo.AuditRepository, legacyCutoff *time.Time, staleAfter time.Duration) portssvc.IntegrityAuditor {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleClaimAfter
	}
	return &integrityAuditor{
		repo:         repo,
		legacyCutoff: legacyCutoff,
		staleAfter:   staleAfter,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.IntegrityAuditor = (*integrityAuditor)(nil)

// CheckAll runs every check against one snapshot and reports what it finds.
// It never writes.
func (a *integrityAuditor) CheckAll(ctx context.Context) ([]domain.Violation, error) {
	logger := logging.FromContext(ctx)
	violations := []domain.Violation{}

	err := a.repo.Snapshot(ctx, func(r portsrepo.AuditReader) error {
		dups, err := r.FindDuplicatePostedRuns(ctx)
		if err != nil {
			return err
		}
		for _, d := range dups {
			violations = append(violations, domain.Violation{
				Code:    domain.ViolationMultiplePostedRuns,
				Ref:     d.Ref,
				Message: fmt.Sprintf("%d POSTED runs: %s", len(d.RunIDs), strings.Join(d.RunIDs, ", ")),
			})
		}

		orphans, err := r.FindOrphanEntries(ctx, domain.ControlledDocTypes, a.legacyCutoff)
		if err != nil {
			return err
		}
		for _, o := range orphans {
			violations = append(violations, domain.Violation{
				Code:    domain.ViolationOrphanControlledEntry,
				Ref:     o.Ref,
				Message: fmt.Sprintf("entry %s created %s has no posting run", o.EntryID, o.CreatedAt.UTC().Format(time.RFC3339)),
			})
		}

		payments, err := r.FindPostedPaymentsWithoutEntries(ctx)
		if err != nil {
			return err
		}
		for _, id := range payments {
			violations = append(violations, domain.Violation{
				Code:    domain.ViolationPaymentWithoutEntries,
				Ref:     domain.DocumentRef{DocType: domain.DocTypePaymentExecution, DocID: id},
				Message: "payment is POSTED but has no ledger entries",
			})
		}

		transfers, err := r.FindTransfersWithMixedStatus(ctx)
		if err != nil {
			return err
		}
		for _, t := range transfers {
			violations = append(violations, domain.Violation{
				Code:    domain.ViolationTransferMixedStatus,
				Ref:     domain.DocumentRef{DocType: domain.DocTypeInternalTransfer, DocID: t.GroupID},
				Message: "transfer legs disagree on status: " + strings.Join(t.Statuses, ", "),
			})
		}

		empty, err := r.FindPostedRunsWithoutEntries(ctx)
		if err != nil {
			return err
		}
		for _, run := range empty {
			violations = append(violations, domain.Violation{
				Code:    domain.ViolationPostedRunWithoutLines,
				Ref:     run.Ref(),
				Message: fmt.Sprintf("POSTED %s run %s has no ledger entries", run.Kind, run.RunID),
			})
		}

		stale, err := r.FindStaleClaims(ctx, a.now().Add(-a.staleAfter))
		if err != nil {
			return err
		}
		for _, c := range stale {
			violations = append(violations, domain.Violation{
				Code:    domain.ViolationStaleRecurringClaim,
				Ref:     staleClaimRef(c),
				Message: fmt.Sprintf("journal %s period %s CLAIMED since %s without an outcome", c.JournalID, c.PeriodKey, c.ClaimedAt.UTC().Format(time.RFC3339)),
			})
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("Integrity audit failed")
		return nil, fmt.Errorf("integrity audit: %w", err)
	}

	logger.Info().Int("violations", len(violations)).Msg("Integrity audit finished")
	return violations, nil
}

// staleClaimRef names the document the claimed period would post under.
func staleClaimRef(c portsrepo.StaleClaim) domain.DocumentRef {
	ref := domain.DocumentRef{DocType: domain.DocTypeFinancialDocumentRecognition, DocID: c.JournalID + ":" + c.PeriodKey}
	period, err := domain.ParsePeriodKey(c.PeriodKey)
	if err != nil {
		return ref
	}
	journal := domain.RecurringJournal{JournalID: c.JournalID, JournalType: c.JournalType, SourceDocumentID: c.SourceDocumentID}
	ref.DocID = journal.PeriodDocID(period)
	return ref
}
