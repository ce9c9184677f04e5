package domain

import (
	"fmt"
	"strings"
)

// DocType identifies the kind of business document a posting realizes.
type DocType string

const (
	DocTypeSalesDocument                DocType = "SALES_DOCUMENT"
	DocTypeSaleReturn                   DocType = "SALE_RETURN"
	DocTypeFinancialDocument            DocType = "FINANCIAL_DOCUMENT"
	DocTypeFinancialDocumentAccrual     DocType = "FINANCIAL_DOCUMENT_ACCRUAL"
	DocTypeFinancialDocumentRecognition DocType = "FINANCIAL_DOCUMENT_RECOGNITION"
	DocTypePaymentExecution             DocType = "PAYMENT_EXECUTION"
	DocTypeInternalTransfer             DocType = "INTERNAL_TRANSFER"
	DocTypeAcquiringEvent               DocType = "ACQUIRING_EVENT"
	DocTypeMarketplacePayoutTransfer    DocType = "MARKETPLACE_PAYOUT_TRANSFER"
	DocTypeStatementLineFee             DocType = "STATEMENT_LINE_FEE"
	DocTypeSupplyReceipt                DocType = "SUPPLY_RECEIPT"
	DocTypeProductionConsumption        DocType = "PRODUCTION_CONSUMPTION"
	DocTypeProductionCompletion         DocType = "PRODUCTION_COMPLETION"
	DocTypeInventoryAdjustment          DocType = "INVENTORY_ADJUSTMENT"
	DocTypeOther                        DocType = "OTHER"
)

var knownDocTypes = map[DocType]struct{}{
	DocTypeSalesDocument:                {},
	DocTypeSaleReturn:                   {},
	DocTypeFinancialDocument:            {},
	DocTypeFinancialDocumentAccrual:     {},
	DocTypeFinancialDocumentRecognition: {},
	DocTypePaymentExecution:             {},
	DocTypeInternalTransfer:             {},
	DocTypeAcquiringEvent:               {},
	DocTypeMarketplacePayoutTransfer:    {},
	DocTypeStatementLineFee:             {},
	DocTypeSupplyReceipt:                {},
	DocTypeProductionConsumption:        {},
	DocTypeProductionCompletion:         {},
	DocTypeInventoryAdjustment:          {},
	DocTypeOther:                        {},
}

// ControlledDocTypes must always flow through the posting engine.
// Any ledger entry of these types without a posting run is an integrity violation.
var ControlledDocTypes = []DocType{
	DocTypeSalesDocument,
	DocTypeFinancialDocumentAccrual,
	DocTypeFinancialDocumentRecognition,
	DocTypePaymentExecution,
	DocTypeInternalTransfer,
}

// IsValid reports whether the doc type belongs to the known set.
func (t DocType) IsValid() bool {
	_, ok := knownDocTypes[t]
	return ok
}

// IsControlled reports whether the doc type is a controlled document type.
func (t DocType) IsControlled() bool {
	for _, c := range ControlledDocTypes {
		if c == t {
			return true
		}
	}
	return false
}

// ParseDocType normalizes and validates a doc type string.
func ParseDocType(s string) (DocType, error) {
	t := DocType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown doc type %q", s)
	}
	return t, nil
}

// DocumentRef is the (docType, docID) pair a posting run belongs to.
type DocumentRef struct {
	DocType DocType `json:"docType"`
	DocID   string  `json:"docID"`
}

func (r DocumentRef) String() string {
	return fmt.Sprintf("%s:%s", r.DocType, r.DocID)
}
