package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_posting/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, domain.CanTransition(domain.RunPending, domain.RunPosted))
	assert.True(t, domain.CanTransition(domain.RunPosted, domain.RunVoid))
	assert.False(t, domain.CanTransition(domain.RunPending, domain.RunVoid))
	assert.False(t, domain.CanTransition(domain.RunVoid, domain.RunPosted))
	assert.False(t, domain.CanTransition(domain.RunPosted, domain.RunPending))
}

func TestParseDocType(t *testing.T) {
	dt, err := domain.ParseDocType(" sales_document ")
	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeSalesDocument, dt)
	assert.True(t, dt.IsControlled())

	_, err = domain.ParseDocType("INVOICE")
	assert.Error(t, err)

	assert.False(t, domain.DocTypeAcquiringEvent.IsControlled())
}

func TestLedgerEntry_ReversedNetsToZero(t *testing.T) {
	runID := "run-1"
	original := domain.LedgerEntry{
		EntryID:       "e-1",
		PostingRunID:  &runID,
		DocType:       domain.DocTypeSalesDocument,
		DocID:         "s-1",
		LineNumber:    1,
		DebitAccount:  "AR",
		CreditAccount: "REVENUE",
		Amount:        decimal.NewFromInt(1000),
		Currency:      "RUB",
		AmountBase:    decimal.NewFromInt(1000),
		PostingDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	rev := original.Reversed("e-2", "run-2", time.Now())

	assert.Equal(t, "REVENUE", rev.DebitAccount)
	assert.Equal(t, "AR", rev.CreditAccount)
	assert.Equal(t, 1, rev.LineNumber)
	assert.Equal(t, "REVERSAL of e-1", rev.Description)
	assert.Equal(t, "run-2", *rev.PostingRunID)
	assert.True(t, rev.AmountBase.Equal(original.AmountBase))
	assert.Equal(t, original.PostingDate, rev.PostingDate)

	for account, net := range domain.NetByAccount([]domain.LedgerEntry{original, rev}) {
		assert.True(t, net.IsZero(), "account %s should net to zero, got %s", account, net)
	}
}
