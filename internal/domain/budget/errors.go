package budget

import "github.com/simpok/backend/internal/domain/shared"

var (
	// ErrEmptyCurrentVersion is returned when a snapshot is requested
	// but the current version holds no budget lines
	ErrEmptyCurrentVersion = shared.NewDomainError("EMPTY_CURRENT_VERSION", "Current version has no budget lines to snapshot")

	// ErrPartialBatchFailure is returned when a snapshot batch could not
	// be written completely and the partial rows were rolled back
	ErrPartialBatchFailure = shared.NewDomainError("PARTIAL_BATCH_FAILURE", "Version snapshot failed partway and was rolled back")
)
