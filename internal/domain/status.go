// Package domain contains the core domain models for the archiver.
package domain

// Status is the persisted archival state of a queue entry.
type Status int

// Archival status codes as stored in the queue tables' archived column.
const (
	StatusPending  Status = 0
	StatusSuccess  Status = 1
	StatusFailed   Status = 2
	StatusNotMedia Status = 3
	StatusRecheck  Status = 10
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusNotMedia:
		return "unrecognized media"
	case StatusRecheck:
		return "needs recheck"
	default:
		return "unknown"
	}
}

// Settled reports whether the status is terminal. Settled entries are never
// picked up by a later run.
func (s Status) Settled() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusNotMedia
}
