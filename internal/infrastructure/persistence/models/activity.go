package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/simpok/backend/internal/domain/activity"
)

// ActivityModel is the GORM model for office activities
type ActivityModel struct {
	OwnedModel
	BudgetLineID *uuid.UUID `gorm:"type:uuid;index"`
	Name         string     `gorm:"type:varchar(255);not null"`
	Kind         string     `gorm:"type:varchar(20);not null;index"`
	LocationType string     `gorm:"type:varchar(20);not null"`
	Venue        string     `gorm:"type:varchar(255)"`
	Agenda       string     `gorm:"type:text"`
	Organizer    string     `gorm:"type:varchar(255)"`
	StartsAt     time.Time  `gorm:"not null;index"`
	EndsAt       *time.Time
}

// TableName specifies the table name
func (ActivityModel) TableName() string {
	return "activities"
}

// ToDomain converts the model to a domain activity
func (m *ActivityModel) ToDomain() *activity.Activity {
	a := &activity.Activity{
		BudgetLineID: m.BudgetLineID,
		Name:         m.Name,
		Kind:         activity.Kind(m.Kind),
		LocationType: activity.LocationType(m.LocationType),
		Venue:        m.Venue,
		Agenda:       m.Agenda,
		Organizer:    m.Organizer,
		StartsAt:     m.StartsAt,
		EndsAt:       m.EndsAt,
	}
	m.PopulateOwnedEntity(&a.OwnedEntity)
	return a
}

// ActivityModelFromDomain converts a domain activity to the model
func ActivityModelFromDomain(a *activity.Activity) *ActivityModel {
	m := &ActivityModel{
		BudgetLineID: a.BudgetLineID,
		Name:         a.Name,
		Kind:         a.Kind.String(),
		LocationType: a.LocationType.String(),
		Venue:        a.Venue,
		Agenda:       a.Agenda,
		Organizer:    a.Organizer,
		StartsAt:     a.StartsAt,
		EndsAt:       a.EndsAt,
	}
	m.FromDomainOwnedEntity(a.OwnedEntity)
	return m
}
