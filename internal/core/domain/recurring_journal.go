package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecurringJournalType is the accounting purpose of a recurring journal.
type RecurringJournalType string

const (
	JournalPrepaidRecognition RecurringJournalType = "PREPAID_RECOGNITION"
	JournalDepreciation       RecurringJournalType = "DEPRECIATION"
	JournalAmortization       RecurringJournalType = "AMORTIZATION"
)

// DocPrefix is the short prefix used in generated document ids.
func (t RecurringJournalType) DocPrefix() string {
	switch t {
	case JournalPrepaidRecognition:
		return "prepaid"
	case JournalDepreciation:
		return "depr"
	default:
		return "amort"
	}
}

// IsValid reports whether t is a known journal type.
func (t RecurringJournalType) IsValid() bool {
	switch t {
	case JournalPrepaidRecognition, JournalDepreciation, JournalAmortization:
		return true
	}
	return false
}

type RecurringJournalStatus string

const (
	JournalActive   RecurringJournalStatus = "ACTIVE"
	JournalArchived RecurringJournalStatus = "ARCHIVED"
)

// FrequencyMonthly is the only supported frequency.
const FrequencyMonthly = "MONTHLY"

// RecurringJournal is the template the scheduler expands into one posting per period.
type RecurringJournal struct {
	JournalID        string                 `json:"journalID"`
	JournalType      RecurringJournalType   `json:"journalType"`
	SourceDocumentID *string                `json:"sourceDocumentID,omitempty"`
	Frequency        string                 `json:"frequency"`
	DayOfMonth       int                    `json:"dayOfMonth"`
	DebitAccount     string                 `json:"debitAccount"`
	CreditAccount    string                 `json:"creditAccount"`
	Amount           decimal.Decimal        `json:"amount"`
	Currency         string                 `json:"currency"`
	StartDate        time.Time              `json:"startDate"`
	EndDate          *time.Time             `json:"endDate,omitempty"`
	Status           RecurringJournalStatus `json:"status"`
	AuditFields
}

// PeriodDocID is the document id a period posts under. Each period is its own
// document so the one-POSTED-run-per-document rule holds per period.
func (j RecurringJournal) PeriodDocID(p Period) string {
	if j.SourceDocumentID != nil && *j.SourceDocumentID != "" {
		return fmt.Sprintf("%s:%s:%s", j.JournalType.DocPrefix(), *j.SourceDocumentID, p.Key())
	}
	return fmt.Sprintf("recurring:%s:%s", j.JournalID, p.Key())
}

// PeriodsBetween returns the months intersecting [from, to] that also fall inside
// the journal's start and end months, oldest first.
func (j RecurringJournal) PeriodsBetween(from, to time.Time) []Period {
	start := MonthOf(from)
	end := MonthOf(to)
	jStart := MonthOf(j.StartDate)
	if start.Before(jStart) {
		start = jStart
	}
	if j.EndDate != nil {
		if jEnd := MonthOf(*j.EndDate); end.After(jEnd) {
			end = jEnd
		}
	}
	var periods []Period
	for p := start; !p.After(end); p = p.Next() {
		periods = append(periods, p)
	}
	return periods
}

// RecurringRunStatus is the outcome recorded for a claimed period.
type RecurringRunStatus string

const (
	RecurringRunClaimed RecurringRunStatus = "CLAIMED"
	RecurringRunPosted  RecurringRunStatus = "POSTED"
	RecurringRunError   RecurringRunStatus = "ERROR"
	// RecurringRunSkipped is never stored; it reports a period that was already claimed.
	RecurringRunSkipped RecurringRunStatus = "SKIPPED"
)

// RecurringJournalRun is the idempotency row for (journal, period).
type RecurringJournalRun struct {
	RunID        string             `json:"runID"`
	JournalID    string             `json:"journalID"`
	PeriodKey    string             `json:"periodKey"`
	PeriodStart  time.Time          `json:"periodStart"`
	PeriodEnd    time.Time          `json:"periodEnd"`
	Status       RecurringRunStatus `json:"status"`
	PostingRunID *string            `json:"postingRunID,omitempty"`
	ErrorMessage *string            `json:"errorMessage,omitempty"`
	RunAt        time.Time          `json:"runAt"`
}

// Period is a calendar month in UTC, identified by its first instant.
type Period struct {
	start time.Time
}

// MonthOf returns the period containing t.
func MonthOf(t time.Time) Period {
	u := t.UTC()
	return Period{start: time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)}
}

// ParsePeriodKey parses a YYYY-MM key.
func ParsePeriodKey(key string) (Period, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period key %q: %w", key, err)
	}
	return MonthOf(t), nil
}

func (p Period) Start() time.Time { return p.start }

// End is the first instant of the next period (exclusive).
func (p Period) End() time.Time { return p.start.AddDate(0, 1, 0) }

// LastInstant is the posting date used for the period.
func (p Period) LastInstant() time.Time { return p.End().Add(-time.Millisecond) }

func (p Period) Key() string { return p.start.Format("2006-01") }

func (p Period) Next() Period { return Period{start: p.End()} }

func (p Period) Before(o Period) bool { return p.start.Before(o.start) }

func (p Period) After(o Period) bool { return p.start.After(o.start) }
