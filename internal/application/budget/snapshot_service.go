package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/simpok/backend/internal/domain/budget"
	"github.com/simpok/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SnapshotService duplicates the current catalog into a new ledger
// version. The whole catalog moves together: one snapshot bumps the
// version of every line at once.
type SnapshotService struct {
	repo   budget.Repository
	cache  VersionCache
	logger *zap.Logger
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(repo budget.Repository, cache VersionCache, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{repo: repo, cache: cache, logger: logger}
}

// SnapshotResponse reports the outcome of a snapshot
type SnapshotResponse struct {
	FromVersion int       `json:"from_version"`
	NewVersion  int       `json:"new_version"`
	LineCount   int       `json:"line_count"`
	StampedAt   time.Time `json:"stamped_at"`
}

// CreateSnapshot copies every line of the current version into version
// current+1. The copy is written as one atomic batch; if the batch
// cannot be completed, any rows that did land are removed and the
// ledger stays on the old version.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, ownerID uuid.UUID) (*SnapshotResponse, error) {
	infos, err := s.repo.ListVersionsForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	versions := make([]int, 0, len(infos))
	for _, info := range infos {
		versions = append(versions, info.Version)
	}
	current := budget.ResolveCurrentVersion(versions)

	lines, _, err := s.repo.FindByVersionForOwner(ctx, ownerID, current, shared.Filter{})
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, budget.ErrEmptyCurrentVersion
	}

	newVersion := current + 1
	stamp := time.Now()
	copies := make([]*budget.BudgetLine, 0, len(lines))
	for _, line := range lines {
		copies = append(copies, line.CopyForVersion(newVersion, stamp))
	}

	if err := s.repo.CreateBatch(ctx, copies); err != nil {
		s.logger.Error("snapshot batch failed, compensating",
			zap.String("owner_id", ownerID.String()),
			zap.Int("version", newVersion),
			zap.Error(err))
		if removed, delErr := s.repo.DeleteByVersionForOwner(ctx, ownerID, newVersion); delErr != nil {
			// Rows stamped with the new version may still be in the
			// ledger; the partial write is now observable.
			s.logger.Error("compensating delete failed",
				zap.String("owner_id", ownerID.String()),
				zap.Int("version", newVersion),
				zap.Int64("removed", removed),
				zap.Error(delErr))
			return nil, budget.ErrPartialBatchFailure
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, ownerID)
	}

	s.logger.Info("ledger snapshot created",
		zap.String("owner_id", ownerID.String()),
		zap.Int("from_version", current),
		zap.Int("new_version", newVersion),
		zap.Int("line_count", len(copies)))

	return &SnapshotResponse{
		FromVersion: current,
		NewVersion:  newVersion,
		LineCount:   len(copies),
		StampedAt:   stamp,
	}, nil
}
