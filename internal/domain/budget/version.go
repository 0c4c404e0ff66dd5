package budget

import "time"

// DefaultVersion is the version assumed when the ledger has never been
// snapshotted. A catalog with no rows is still addressable as version 1.
const DefaultVersion = 1

// VersionInfo summarizes one ledger version
type VersionInfo struct {
	Version   int       `json:"version"`
	LineCount int       `json:"line_count"`
	StampedAt time.Time `json:"stamped_at"`
	IsCurrent bool      `json:"is_current"`
}

// ResolveCurrentVersion returns the highest version number among the
// given versions, or DefaultVersion when none exist yet.
func ResolveCurrentVersion(versions []int) int {
	current := 0
	for _, v := range versions {
		if v > current {
			current = v
		}
	}
	if current == 0 {
		return DefaultVersion
	}
	return current
}
