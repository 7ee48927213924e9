package model

import "time"

// RebuildRequest asks the builder to produce a fresh snapshot.
type RebuildRequest struct {
	ID          string    // request id for log correlation
	Reason      string    // "startup", "schedule", "manual"
	RequestedAt time.Time // when the request was made
}
