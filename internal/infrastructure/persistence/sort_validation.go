package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// BudgetLineSortFields contains allowed sort fields for budget lines
var BudgetLineSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"account_code": true,
	"account_name": true,
	"account_type": true,
	"total_amount": true,
	"fiscal_year":  true,
	"version":      true,
	"versioned_at": true,
}

// DisbursementSortFields contains allowed sort fields for disbursements
var DisbursementSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"planned_amount": true,
	"actual_amount":  true,
	"method":         true,
	"status":         true,
	"spp_date":       true,
	"sp2d_date":      true,
}

// ActivitySortFields contains allowed sort fields for activities
var ActivitySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"kind":       true,
	"starts_at":  true,
}
