package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	cartactivities "github.com/Apurer/go-gin-cart-server/internal/durable/temporal/activities/cart"
)

// RunCartPushSequence executes the activities needed to replace the remote
// cart document with one snapshot. Unlike the inline push, the durable path
// retries transient remote failures before giving up.
func RunCartPushSequence(ctx workflow.Context, input cartactivities.PushSnapshotInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("cart push sequence started", "cartId", input.CartID, "totalQuantity", input.Snapshot.TotalQuantity)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	if err := workflow.ExecuteActivity(ctx, cartactivities.PushSnapshotActivityName, input).Get(ctx, nil); err != nil {
		logger.Error("cart push sequence failed", "cartId", input.CartID, "error", err)
		return err
	}
	logger.Info("cart push sequence completed", "cartId", input.CartID)
	return nil
}
