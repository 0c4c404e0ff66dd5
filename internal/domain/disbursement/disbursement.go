package disbursement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simpok/backend/internal/domain/shared"
	"github.com/simpok/backend/internal/domain/shared/valueobject"
)

// Method represents the payment mechanism of a disbursement
type Method string

const (
	MethodAdvance       Method = "ADVANCE"        // Uang Persediaan (UP)
	MethodTempAdvance   Method = "TEMP_ADVANCE"   // Tambahan Uang Persediaan (TUP)
	MethodDirectPayment Method = "DIRECT_PAYMENT" // Pembayaran Langsung (LS)
	MethodTransfer      Method = "TRANSFER"
)

// IsValid checks if the method is a valid Method
func (m Method) IsValid() bool {
	switch m {
	case MethodAdvance, MethodTempAdvance, MethodDirectPayment, MethodTransfer:
		return true
	}
	return false
}

// String returns the string representation of Method
func (m Method) String() string {
	return string(m)
}

// DisplayName returns a human-readable name for the method
func (m Method) DisplayName() string {
	switch m {
	case MethodAdvance:
		return "Uang Persediaan"
	case MethodTempAdvance:
		return "Tambahan Uang Persediaan"
	case MethodDirectPayment:
		return "Pembayaran Langsung"
	case MethodTransfer:
		return "Transfer"
	default:
		return string(m)
	}
}

// Status represents the processing stage of a disbursement
type Status string

const (
	StatusSPPSubmitted Status = "SPP_SUBMITTED" // payment request filed
	StatusSP2DIssued   Status = "SP2D_ISSUED"   // funds released by treasury
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusSPPSubmitted, StatusSP2DIssued:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the status
func (s Status) DisplayName() string {
	switch s {
	case StatusSPPSubmitted:
		return "SPP Diajukan"
	case StatusSP2DIssued:
		return "SP2D Terbit"
	default:
		return string(s)
	}
}

// Disbursement represents one cash-out request against a budget line.
// It moves through two stages: SPP submission (the payment request)
// and SP2D issuance (the treasury releasing funds). The actual amount
// is only known at release and may differ from the planned amount.
type Disbursement struct {
	shared.OwnedEntity
	BudgetLineID  uuid.UUID        `json:"budget_line_id"`
	PlannedAmount decimal.Decimal  `json:"planned_amount"`
	ActualAmount  *decimal.Decimal `json:"actual_amount"`
	Method        Method           `json:"method"`
	Status        Status           `json:"status"`
	SPPDate       *time.Time       `json:"spp_date"`
	SP2DDate      *time.Time       `json:"sp2d_date"`
	Description   string           `json:"description"`
}

// NewDisbursement creates a disbursement in the submitted stage
func NewDisbursement(
	ownerID uuid.UUID,
	budgetLineID uuid.UUID,
	plannedAmount valueobject.Money,
	method Method,
	sppDate time.Time,
) (*Disbursement, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if budgetLineID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUDGET_LINE", "Budget line ID cannot be empty")
	}
	if !plannedAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Planned amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Disbursement method is not valid")
	}
	if sppDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_SPP_DATE", "SPP date cannot be empty")
	}

	d := &Disbursement{
		OwnedEntity:   shared.NewOwnedEntity(ownerID),
		BudgetLineID:  budgetLineID,
		PlannedAmount: plannedAmount.Amount(),
		Method:        method,
		Status:        StatusSPPSubmitted,
		SPPDate:       &sppDate,
	}

	return d, nil
}

// RecordSPP updates the submission date of a not-yet-finalized disbursement
func (d *Disbursement) RecordSPP(sppDate time.Time) error {
	if d.Status == StatusSP2DIssued {
		return shared.NewDomainError("ALREADY_FINALIZED", "SP2D has already been issued for this disbursement")
	}
	if sppDate.IsZero() {
		return shared.NewDomainError("INVALID_SPP_DATE", "SPP date cannot be empty")
	}
	d.SPPDate = &sppDate
	d.Status = StatusSPPSubmitted
	d.UpdatedAt = time.Now()
	return nil
}

// RecordSP2D finalizes the disbursement: the treasury has released
// funds on the given date, for the given actual amount. A nil actual
// amount means the release matched the plan.
func (d *Disbursement) RecordSP2D(sp2dDate time.Time, actualAmount *valueobject.Money) error {
	if sp2dDate.IsZero() {
		return shared.NewDomainError("INVALID_SP2D_DATE", "SP2D date cannot be empty")
	}
	if d.SPPDate != nil && sp2dDate.Before(*d.SPPDate) {
		return shared.NewDomainError("INVALID_SP2D_DATE", "SP2D date cannot precede the SPP date")
	}
	if actualAmount != nil {
		if actualAmount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Actual amount cannot be negative")
		}
		amt := actualAmount.Amount()
		d.ActualAmount = &amt
	}
	d.SP2DDate = &sp2dDate
	d.Status = StatusSP2DIssued
	d.UpdatedAt = time.Now()
	return nil
}

// UpdateDetails revises the planned amount, method, and description.
// The plan can only change while the SP2D is pending; once funds are
// released only the description may be revised.
func (d *Disbursement) UpdateDetails(plannedAmount valueobject.Money, method Method, description string) error {
	if !plannedAmount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Planned amount must be positive")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_METHOD", "Disbursement method is not valid")
	}
	if d.Status == StatusSP2DIssued {
		if !plannedAmount.Amount().Equal(d.PlannedAmount) || method != d.Method {
			return shared.NewDomainError("ALREADY_FINALIZED", "Planned amount and method cannot change after SP2D issuance")
		}
	}
	d.PlannedAmount = plannedAmount.Amount()
	d.Method = method
	d.Description = description
	d.UpdatedAt = time.Now()
	return nil
}

// IsFinalized reports whether the SP2D stage has been reached
func (d *Disbursement) IsFinalized() bool {
	return d.Status == StatusSP2DIssued
}

// EffectiveDate returns the date the disbursement counts under for
// period reporting: the SP2D date once issued, the SPP date before.
func (d *Disbursement) EffectiveDate() *time.Time {
	if d.SP2DDate != nil {
		return d.SP2DDate
	}
	return d.SPPDate
}

// ContributingAmount returns the amount this disbursement contributes
// to realization: the actual amount when known, the planned amount
// otherwise.
func (d *Disbursement) ContributingAmount() decimal.Decimal {
	if d.ActualAmount != nil {
		return *d.ActualAmount
	}
	return d.PlannedAmount
}
