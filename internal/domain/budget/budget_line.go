package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simpok/backend/internal/domain/shared"
	"github.com/simpok/backend/internal/domain/shared/valueobject"
)

// AccountType represents the expenditure category of a budget line
type AccountType string

const (
	AccountTypePersonnel AccountType = "PERSONNEL" // Belanja Pegawai (51)
	AccountTypeGoods     AccountType = "GOODS"     // Belanja Barang (52)
	AccountTypeCapital   AccountType = "CAPITAL"   // Belanja Modal (53)
	AccountTypeSocial    AccountType = "SOCIAL"    // Belanja Bantuan Sosial (57)
	AccountTypeOther     AccountType = "OTHER"     // Belanja Lainnya
)

// IsValid checks if the type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypePersonnel, AccountTypeGoods, AccountTypeCapital,
		AccountTypeSocial, AccountTypeOther:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// DisplayName returns a human-readable name for the account type
func (t AccountType) DisplayName() string {
	switch t {
	case AccountTypePersonnel:
		return "Belanja Pegawai"
	case AccountTypeGoods:
		return "Belanja Barang"
	case AccountTypeCapital:
		return "Belanja Modal"
	case AccountTypeSocial:
		return "Belanja Bantuan Sosial"
	case AccountTypeOther:
		return "Belanja Lainnya"
	default:
		return string(t)
	}
}

// BudgetLine represents one row of the expenditure catalog (POK): an
// account code with a planned amount for a fiscal year, stamped with
// the ledger-wide version it belongs to.
//
// The version number is set once, either at creation (version 1) or by
// the snapshotter when duplicating the current catalog. In-place edits
// never touch it.
type BudgetLine struct {
	shared.OwnedEntity
	AccountCode string           `json:"account_code"`
	AccountName string           `json:"account_name"`
	AccountType AccountType      `json:"account_type"`
	ProgramID   *uuid.UUID       `json:"program_id"`
	Description string           `json:"description"`
	Volume      string           `json:"volume"`
	Unit        string           `json:"unit"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	FiscalYear  int              `json:"fiscal_year"`
	Version     int              `json:"version"`
	VersionedAt time.Time        `json:"versioned_at"`
}

// NewBudgetLine creates a new budget line at version 1
func NewBudgetLine(
	ownerID uuid.UUID,
	accountCode string,
	accountName string,
	accountType AccountType,
	description string,
	totalAmount valueobject.Money,
	fiscalYear int,
) (*BudgetLine, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if accountCode == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot be empty")
	}
	if len(accountCode) > 20 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot exceed 20 characters")
	}
	if accountName == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type is not valid")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}
	if fiscalYear < 2000 || fiscalYear > 2100 {
		return nil, shared.NewDomainError("INVALID_FISCAL_YEAR", "Fiscal year is out of range")
	}

	line := &BudgetLine{
		OwnedEntity: shared.NewOwnedEntity(ownerID),
		AccountCode: accountCode,
		AccountName: accountName,
		AccountType: accountType,
		Description: description,
		TotalAmount: totalAmount.Amount(),
		FiscalYear:  fiscalYear,
		Version:     1,
		VersionedAt: time.Now(),
	}

	return line, nil
}

// Update edits the line in place. The version number and version
// timestamp are deliberately left untouched: editing a row does not
// create a new version.
func (l *BudgetLine) Update(
	accountCode string,
	accountName string,
	accountType AccountType,
	description string,
	totalAmount valueobject.Money,
	fiscalYear int,
) error {
	if accountCode == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot be empty")
	}
	if accountName == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type is not valid")
	}
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if totalAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}
	if fiscalYear < 2000 || fiscalYear > 2100 {
		return shared.NewDomainError("INVALID_FISCAL_YEAR", "Fiscal year is out of range")
	}

	l.AccountCode = accountCode
	l.AccountName = accountName
	l.AccountType = accountType
	l.Description = description
	l.TotalAmount = totalAmount.Amount()
	l.FiscalYear = fiscalYear
	l.UpdatedAt = time.Now()

	return nil
}

// SetVolume sets the optional volume description (e.g. "10 ORG x 2 HARI")
func (l *BudgetLine) SetVolume(volume string) {
	l.Volume = volume
	l.UpdatedAt = time.Now()
}

// SetUnit sets the optional unit (satuan)
func (l *BudgetLine) SetUnit(unit string) {
	l.Unit = unit
	l.UpdatedAt = time.Now()
}

// SetUnitPrice sets the optional unit price
func (l *BudgetLine) SetUnitPrice(price *decimal.Decimal) {
	l.UnitPrice = price
	l.UpdatedAt = time.Now()
}

// SetProgram sets the optional program reference
func (l *BudgetLine) SetProgram(programID *uuid.UUID) {
	l.ProgramID = programID
	l.UpdatedAt = time.Now()
}

// CopyForVersion builds the duplicate of this line for a new ledger
// version: a fresh id, the same owner and content, and the given
// version number and stamp. The receiver is not modified.
func (l *BudgetLine) CopyForVersion(version int, stampedAt time.Time) *BudgetLine {
	copied := &BudgetLine{
		OwnedEntity: shared.NewOwnedEntity(l.OwnerID),
		AccountCode: l.AccountCode,
		AccountName: l.AccountName,
		AccountType: l.AccountType,
		ProgramID:   l.ProgramID,
		Description: l.Description,
		Volume:      l.Volume,
		Unit:        l.Unit,
		UnitPrice:   l.UnitPrice,
		TotalAmount: l.TotalAmount,
		FiscalYear:  l.FiscalYear,
		Version:     version,
		VersionedAt: stampedAt,
	}
	return copied
}

// TotalAmountMoney returns the planned total as Money
func (l *BudgetLine) TotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(l.TotalAmount)
}
