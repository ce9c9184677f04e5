package dto

import "github.com/SscSPs/ledger_posting/internal/core/domain"

// AuditReportResponse is the result of GET /audit. An empty Violations list means clean.
type AuditReportResponse struct {
	Clean      bool               `json:"clean"`
	Count      int                `json:"count"`
	Violations []domain.Violation `json:"violations"`
}

func ToAuditReportResponse(violations []domain.Violation) AuditReportResponse {
	if violations == nil {
		violations = []domain.Violation{}
	}
	return AuditReportResponse{Clean: len(violations) == 0, Count: len(violations), Violations: violations}
}
