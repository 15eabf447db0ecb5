package ports

import "context"

// SyncStatus tags the outcome stage of one remote sync attempt.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)

// Notifier surfaces sync progress to whatever renders notifications. It is
// fire-and-forget: the synchronizer never fails because a notification could
// not be delivered.
type Notifier interface {
	Notify(ctx context.Context, status SyncStatus, title, message string)
}
