package history

import (
	"time"
)

const SchemaVersion = 1

// Snapshot records one completed scan.
type Snapshot struct {
	ID              string
	ProjectKey      string
	SchemaVersion   int
	Timestamp       time.Time
	Inputs          []string
	Targets         []string
	Output          string
	FileCount       int
	EndpointCount   int
	UnresolvedCount int
	Duration        time.Duration
	// Digest is the sha256 of the written definition; equal digests mean the
	// scan produced the same shapes and values.
	Digest string
}

// Change compares a snapshot with the one before it.
type Change struct {
	Snapshot
	DeltaEndpoints  int
	DeltaUnresolved int
	DefinitionSame  bool
}

// Changes pairs each snapshot with its predecessor. snapshots must be in
// ascending time order; the first entry has zero deltas.
func Changes(snapshots []Snapshot) []Change {
	out := make([]Change, len(snapshots))
	for i, s := range snapshots {
		out[i] = Change{Snapshot: s}
		if i == 0 {
			continue
		}
		prev := snapshots[i-1]
		out[i].DeltaEndpoints = s.EndpointCount - prev.EndpointCount
		out[i].DeltaUnresolved = s.UnresolvedCount - prev.UnresolvedCount
		out[i].DefinitionSame = s.Digest != "" && s.Digest == prev.Digest
	}
	return out
}
