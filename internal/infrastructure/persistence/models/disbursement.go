package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simpok/backend/internal/domain/disbursement"
)

// DisbursementModel is the GORM model for disbursements
type DisbursementModel struct {
	OwnedModel
	BudgetLineID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	PlannedAmount decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	ActualAmount  *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Method        string           `gorm:"type:varchar(20);not null"`
	Status        string           `gorm:"type:varchar(20);not null;index"`
	SPPDate       *time.Time       `gorm:"index"`
	SP2DDate      *time.Time       `gorm:"index"`
	Description   string           `gorm:"type:text"`
}

// TableName specifies the table name
func (DisbursementModel) TableName() string {
	return "disbursements"
}

// ToDomain converts the model to a domain disbursement
func (m *DisbursementModel) ToDomain() *disbursement.Disbursement {
	d := &disbursement.Disbursement{
		BudgetLineID:  m.BudgetLineID,
		PlannedAmount: m.PlannedAmount,
		ActualAmount:  m.ActualAmount,
		Method:        disbursement.Method(m.Method),
		Status:        disbursement.Status(m.Status),
		SPPDate:       m.SPPDate,
		SP2DDate:      m.SP2DDate,
		Description:   m.Description,
	}
	m.PopulateOwnedEntity(&d.OwnedEntity)
	return d
}

// DisbursementModelFromDomain converts a domain disbursement to the model
func DisbursementModelFromDomain(d *disbursement.Disbursement) *DisbursementModel {
	m := &DisbursementModel{
		BudgetLineID:  d.BudgetLineID,
		PlannedAmount: d.PlannedAmount,
		ActualAmount:  d.ActualAmount,
		Method:        d.Method.String(),
		Status:        d.Status.String(),
		SPPDate:       d.SPPDate,
		SP2DDate:      d.SP2DDate,
		Description:   d.Description,
	}
	m.FromDomainOwnedEntity(d.OwnedEntity)
	return m
}
