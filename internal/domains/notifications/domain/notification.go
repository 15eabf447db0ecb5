package domain

import "time"

// Status is the lifecycle stage of a sync attempt surfaced to the user.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Notification is a transient status record describing the outcome of a
// remote sync attempt. It has no explicit dismissal; a record lives until the
// next pending one supersedes it.
type Notification struct {
	ID      string
	Status  Status
	Title   string
	Message string
	At      time.Time
}

// KnownStatus reports whether s is one of the three lifecycle stages.
func KnownStatus(s Status) bool {
	switch s {
	case StatusPending, StatusSuccess, StatusError:
		return true
	}
	return false
}
