package engine

import (
	"slices"
	"time"
)

// Snippet is one piece of source code to compare. It is treated as
// immutable once handed to the engine.
type Snippet struct {
	// ID identifies the snippet to the caller (author, version, file name).
	ID string `json:"id"`
	// Code is the raw source text.
	Code string `json:"-"`
	// Timestamp is optional.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Snapshot is a Snippet at one point of a revision history.
type Snapshot struct {
	Snippet

	// Version is a 1-based revision number; 0 means unknown.
	Version int    `json:"version,omitempty"`
	Author  string `json:"author,omitempty"`
}

// SortSnapshots orders snapshots oldest first in place. Two snapshots that
// both carry a version compare by version; otherwise they compare by
// timestamp. Ties keep their input order.
func SortSnapshots(snaps []Snapshot) {
	slices.SortStableFunc(snaps, func(a, b Snapshot) int {
		if a.Version > 0 && b.Version > 0 && a.Version != b.Version {
			return a.Version - b.Version
		}
		return a.Timestamp.Compare(b.Timestamp)
	})
}
