package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/simpok/backend/internal/domain/shared"
)

// Kind represents the nature of an office activity
type Kind string

const (
	KindMeeting    Kind = "MEETING"     // Rapat
	KindTraining   Kind = "TRAINING"    // Bimbingan Teknis
	KindFieldVisit Kind = "FIELD_VISIT" // Kunjungan Lapangan
	KindOther      Kind = "OTHER"
)

// IsValid checks if the kind is a valid Kind
func (k Kind) IsValid() bool {
	switch k {
	case KindMeeting, KindTraining, KindFieldVisit, KindOther:
		return true
	}
	return false
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// LocationType indicates where an activity takes place
type LocationType string

const (
	LocationOnsite  LocationType = "ONSITE"  // Dalam Kantor
	LocationOffsite LocationType = "OFFSITE" // Luar Kantor
	LocationOnline  LocationType = "ONLINE"  // Daring
)

// IsValid checks if the location type is valid
func (l LocationType) IsValid() bool {
	switch l {
	case LocationOnsite, LocationOffsite, LocationOnline:
		return true
	}
	return false
}

// String returns the string representation of LocationType
func (l LocationType) String() string {
	return string(l)
}

// Activity represents an office event (kegiatan): a meeting, training
// or field visit with its schedule and venue.
type Activity struct {
	shared.OwnedEntity
	BudgetLineID *uuid.UUID   `json:"budget_line_id"`
	Name         string       `json:"name"`
	Kind         Kind         `json:"kind"`
	LocationType LocationType `json:"location_type"`
	Venue        string       `json:"venue"`
	Agenda       string       `json:"agenda"`
	Organizer    string       `json:"organizer"`
	StartsAt     time.Time    `json:"starts_at"`
	EndsAt       *time.Time   `json:"ends_at"`
}

// NewActivity creates a new activity
func NewActivity(
	ownerID uuid.UUID,
	name string,
	kind Kind,
	locationType LocationType,
	startsAt time.Time,
) (*Activity, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Activity name cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Activity kind is not valid")
	}
	if !locationType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location type is not valid")
	}
	if startsAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Start time cannot be empty")
	}

	a := &Activity{
		OwnedEntity:  shared.NewOwnedEntity(ownerID),
		Name:         name,
		Kind:         kind,
		LocationType: locationType,
		StartsAt:     startsAt,
	}

	return a, nil
}

// SetSchedule sets the time span of the activity
func (a *Activity) SetSchedule(startsAt time.Time, endsAt *time.Time) error {
	if startsAt.IsZero() {
		return shared.NewDomainError("INVALID_SCHEDULE", "Start time cannot be empty")
	}
	if endsAt != nil && endsAt.Before(startsAt) {
		return shared.NewDomainError("INVALID_SCHEDULE", "End time cannot precede start time")
	}
	a.StartsAt = startsAt
	a.EndsAt = endsAt
	a.UpdatedAt = time.Now()
	return nil
}

// SetDetails sets the optional venue, agenda and organizer
func (a *Activity) SetDetails(venue, agenda, organizer string) {
	a.Venue = venue
	a.Agenda = agenda
	a.Organizer = organizer
	a.UpdatedAt = time.Now()
}

// LinkBudgetLine associates the activity with a budget line, or clears
// the association when id is nil
func (a *Activity) LinkBudgetLine(id *uuid.UUID) {
	a.BudgetLineID = id
	a.UpdatedAt = time.Now()
}

// Repository defines the persistence port for activities
type Repository interface {
	Save(ctx context.Context, a *Activity) error
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Activity, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, year *int, budgetLineID *uuid.UUID, filter shared.Filter) ([]*Activity, int64, error)
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}
