package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simpok/backend/internal/domain/budget"
)

// BudgetLineModel is the GORM model for budget lines
type BudgetLineModel struct {
	OwnedModel
	AccountCode string           `gorm:"type:varchar(20);not null;index"`
	AccountName string           `gorm:"type:varchar(255);not null"`
	AccountType string           `gorm:"type:varchar(20);not null;index"`
	ProgramID   *uuid.UUID       `gorm:"type:uuid;index"`
	Description string           `gorm:"type:text;not null"`
	Volume      string           `gorm:"type:varchar(100)"`
	Unit        string           `gorm:"type:varchar(50)"`
	UnitPrice   *decimal.Decimal `gorm:"type:decimal(18,2)"`
	TotalAmount decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	FiscalYear  int              `gorm:"not null;index"`
	Version     int              `gorm:"not null;index"`
	VersionedAt time.Time        `gorm:"not null"`
}

// TableName specifies the table name
func (BudgetLineModel) TableName() string {
	return "budget_lines"
}

// ToDomain converts the model to a domain budget line
func (m *BudgetLineModel) ToDomain() *budget.BudgetLine {
	line := &budget.BudgetLine{
		AccountCode: m.AccountCode,
		AccountName: m.AccountName,
		AccountType: budget.AccountType(m.AccountType),
		ProgramID:   m.ProgramID,
		Description: m.Description,
		Volume:      m.Volume,
		Unit:        m.Unit,
		UnitPrice:   m.UnitPrice,
		TotalAmount: m.TotalAmount,
		FiscalYear:  m.FiscalYear,
		Version:     m.Version,
		VersionedAt: m.VersionedAt,
	}
	m.PopulateOwnedEntity(&line.OwnedEntity)
	return line
}

// BudgetLineModelFromDomain converts a domain budget line to the model
func BudgetLineModelFromDomain(line *budget.BudgetLine) *BudgetLineModel {
	m := &BudgetLineModel{
		AccountCode: line.AccountCode,
		AccountName: line.AccountName,
		AccountType: line.AccountType.String(),
		ProgramID:   line.ProgramID,
		Description: line.Description,
		Volume:      line.Volume,
		Unit:        line.Unit,
		UnitPrice:   line.UnitPrice,
		TotalAmount: line.TotalAmount,
		FiscalYear:  line.FiscalYear,
		Version:     line.Version,
		VersionedAt: line.VersionedAt,
	}
	m.FromDomainOwnedEntity(line.OwnedEntity)
	return m
}
