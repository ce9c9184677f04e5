package mapping

import (
	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/SscSPs/ledger_posting/internal/models"
)

// ToModelRecurringJournal converts a domain RecurringJournal to a model RecurringJournal
func ToModelRecurringJournal(d domain.RecurringJournal) models.RecurringJournal {
	return models.RecurringJournal{
		JournalID:        d.JournalID,
		JournalType:      string(d.JournalType),
		SourceDocumentID: d.SourceDocumentID,
		Frequency:        d.Frequency,
		DayOfMonth:       d.DayOfMonth,
		DebitAccount:     d.DebitAccount,
		CreditAccount:    d.CreditAccount,
		Amount:           d.Amount,
		Currency:         d.Currency,
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		Status:           string(d.Status),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

// ToDomainRecurringJournal converts a model RecurringJournal to a domain RecurringJournal
func ToDomainRecurringJournal(m models.RecurringJournal) domain.RecurringJournal {
	return domain.RecurringJournal{
		JournalID:        m.JournalID,
		JournalType:      domain.RecurringJournalType(m.JournalType),
		SourceDocumentID: m.SourceDocumentID,
		Frequency:        m.Frequency,
		DayOfMonth:       m.DayOfMonth,
		DebitAccount:     m.DebitAccount,
		CreditAccount:    m.CreditAccount,
		Amount:           m.Amount,
		Currency:         m.Currency,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		Status:           domain.RecurringJournalStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// ToModelRecurringJournalRun converts a domain run to a model run
func ToModelRecurringJournalRun(d domain.RecurringJournalRun) models.RecurringJournalRun {
	return models.RecurringJournalRun{
		RunID:        d.RunID,
		JournalID:    d.JournalID,
		PeriodKey:    d.PeriodKey,
		PeriodStart:  d.PeriodStart,
		PeriodEnd:    d.PeriodEnd,
		Status:       string(d.Status),
		PostingRunID: d.PostingRunID,
		ErrorMessage: d.ErrorMessage,
		RunAt:        d.RunAt,
	}
}

// ToDomainRecurringJournalRun converts a model run to a domain run
func ToDomainRecurringJournalRun(m models.RecurringJournalRun) domain.RecurringJournalRun {
	return domain.RecurringJournalRun{
		RunID:        m.RunID,
		JournalID:    m.JournalID,
		PeriodKey:    m.PeriodKey,
		PeriodStart:  m.PeriodStart,
		PeriodEnd:    m.PeriodEnd,
		Status:       domain.RecurringRunStatus(m.Status),
		PostingRunID: m.PostingRunID,
		ErrorMessage: m.ErrorMessage,
		RunAt:        m.RunAt,
	}
}
