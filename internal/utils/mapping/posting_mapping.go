package mapping

import (
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/SscSPs/ledger_posting/internal/models"
)

// ToModelPostingRun converts a domain PostingRun to a model PostingRun
func ToModelPostingRun(d domain.PostingRun) models.PostingRun {
	return models.PostingRun{
		RunID:           d.RunID,
		DocType:         string(d.DocType),
		DocID:           d.DocID,
		Version:         d.Version,
		Status:          string(d.Status),
		Kind:            string(d.Kind),
		ReversalOfRunID: d.ReversalOfRunID,
		ReversalRunID:   d.ReversalRunID,
		CreatedAt:       d.CreatedAt,
		PostedAt:        d.PostedAt,
		VoidedAt:        d.VoidedAt,
		VoidReason:      d.VoidReason,
	}
}

// ToDomainPostingRun converts a model PostingRun to a domain PostingRun
func ToDomainPostingRun(m models.PostingRun) domain.PostingRun {
	return domain.PostingRun{
		RunID:           m.RunID,
		DocType:         domain.DocType(m.DocType),
		DocID:           m.DocID,
		Version:         m.Version,
		Status:          domain.PostingRunStatus(m.Status),
		Kind:            domain.PostingRunKind(m.Kind),
		ReversalOfRunID: m.ReversalOfRunID,
		ReversalRunID:   m.ReversalRunID,
		CreatedAt:       m.CreatedAt,
		PostedAt:        m.PostedAt,
		VoidedAt:        m.VoidedAt,
		VoidReason:      m.VoidReason,
	}
}

// ToDomainPostingRuns converts a slice of model runs.
func ToDomainPostingRuns(ms []models.PostingRun) []domain.PostingRun {
	out := make([]domain.PostingRun, len(ms))
	for i, m := range ms {
		out[i] = ToDomainPostingRun(m)
	}
	return out
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		PostingRunID:  d.PostingRunID,
		DocType:       string(d.DocType),
		DocID:         d.DocID,
		LineNumber:    d.LineNumber,
		DebitAccount:  d.DebitAccount,
		CreditAccount: d.CreditAccount,
		Amount:        d.Amount,
		Currency:      d.Currency,
		AmountBase:    d.AmountBase,
		PostingDate:   d.PostingDate,
		Description:   d.Description,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		PostingRunID:  m.PostingRunID,
		DocType:       domain.DocType(m.DocType),
		DocID:         m.DocID,
		LineNumber:    m.LineNumber,
		DebitAccount:  m.DebitAccount,
		CreditAccount: m.CreditAccount,
		Amount:        m.Amount,
		Currency:      m.Currency,
		AmountBase:    m.AmountBase,
		PostingDate:   m.PostingDate,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainLedgerEntries converts a slice of model entries.
func ToDomainLedgerEntries(ms []models.LedgerEntry) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		out[i] = ToDomainLedgerEntry(m)
	}
	return out
}
