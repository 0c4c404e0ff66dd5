package budget

import (
	"context"

	"github.com/google/uuid"
	"github.com/simpok/backend/internal/domain/shared"
)

// Repository defines the persistence port for budget lines.
// All reads and writes are scoped by owner.
type Repository interface {
	// Save persists a new or updated budget line
	Save(ctx context.Context, line *BudgetLine) error

	// CreateBatch persists a set of lines in a single transaction.
	// Either every line is written or none survive.
	CreateBatch(ctx context.Context, lines []*BudgetLine) error

	// FindByIDForOwner returns one line, or nil when it does not exist
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*BudgetLine, error)

	// FindByVersionForOwner lists the lines of one ledger version
	FindByVersionForOwner(ctx context.Context, ownerID uuid.UUID, version int, filter shared.Filter) ([]*BudgetLine, int64, error)

	// ListVersionsForOwner returns the distinct version numbers present
	// for the owner, with per-version line counts and stamps
	ListVersionsForOwner(ctx context.Context, ownerID uuid.UUID) ([]VersionInfo, error)

	// DeleteForOwner removes a single line
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// DeleteByVersionForOwner removes every line of one version.
	// Used to compensate a failed snapshot batch.
	DeleteByVersionForOwner(ctx context.Context, ownerID uuid.UUID, version int) (int64, error)
}
