package cart

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

// PushSnapshotActivityName replaces the remote cart document with a snapshot.
const PushSnapshotActivityName = "carts.activities.PushSnapshot"

// PushSnapshotInput carries one durable push command.
type PushSnapshotInput struct {
	CartID   string
	Snapshot domain.Snapshot
}

// Activities groups the activities operating on the cart bounded context.
type Activities struct {
	store cartports.RemoteStore
}

// NewActivities wires the remote store into the Temporal activities bundle.
func NewActivities(store cartports.RemoteStore) *Activities {
	return &Activities{store: store}
}

// PushSnapshot replaces the remote document with the snapshot.
func (a *Activities) PushSnapshot(ctx context.Context, input PushSnapshotInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.store == nil {
		logger.Error("cart push activity not initialized", "cartId", input.CartID)
		return errors.New("cart push activity not initialized")
	}
	logger.Info("PushSnapshot activity started", "cartId", input.CartID, "totalQuantity", input.Snapshot.TotalQuantity)
	if err := a.store.Push(ctx, input.Snapshot); err != nil {
		logger.Error("PushSnapshot activity failed", "cartId", input.CartID, "error", err)
		return err
	}
	logger.Info("PushSnapshot activity completed", "cartId", input.CartID)
	return nil
}
