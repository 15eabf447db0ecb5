package ports

import (
	"context"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
)

// ChangeObserver is told about every committed cart mutation so the
// synchronizer can decide whether a remote push is due.
type ChangeObserver interface {
	Observe(cartID string, snapshot domain.Snapshot, changed bool)
}

// SyncOrchestrator executes the remote push for one snapshot, either inline
// or as a durable workflow.
type SyncOrchestrator interface {
	PushSnapshot(ctx context.Context, cartID string, snapshot domain.Snapshot) error
}
