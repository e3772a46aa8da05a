// Package dupes turns the duplicate report produced by an external hashing
// tool into duplicate groups and selects the keeper per group.
package dupes

import "time"

// FileRecord is one physical file observed during a scan. Records are
// immutable for the duration of a run.
type FileRecord struct {
	Path       string    `json:"path"`
	Checksum   string    `json:"checksum"`
	IsOriginal bool      `json:"is_original"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// DuplicateGroup is a set of two or more records sharing a checksum.
// Members keep the report's order; after selection exactly one member is the
// keeper and the rest are removal candidates.
type DuplicateGroup struct {
	Checksum string
	Members  []FileRecord
}
