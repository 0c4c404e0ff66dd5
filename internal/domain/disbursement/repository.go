package disbursement

import (
	"context"

	"github.com/google/uuid"
	"github.com/simpok/backend/internal/domain/shared"
)

var (
	// ErrReferenceNotFound is returned when a disbursement points at a
	// budget line that does not exist for the owner
	ErrReferenceNotFound = shared.NewDomainError("REFERENCE_NOT_FOUND", "Referenced budget line does not exist")
)

// Repository defines the persistence port for disbursements
type Repository interface {
	// Save persists a new or updated disbursement
	Save(ctx context.Context, d *Disbursement) error

	// FindByIDForOwner returns one disbursement, or nil when it does not exist
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Disbursement, error)

	// FindAllForOwner lists disbursements, optionally restricted to the
	// fiscal year of their effective date (sp2d date, falling back to
	// spp date) and to one budget line
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, year *int, budgetLineID *uuid.UUID, filter shared.Filter) ([]*Disbursement, int64, error)

	// DeleteForOwner removes a single disbursement
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}
