package cart

import (
	"go.temporal.io/sdk/workflow"

	cartactivities "github.com/Apurer/go-gin-cart-server/internal/durable/temporal/activities/cart"
	"github.com/Apurer/go-gin-cart-server/internal/durable/temporal/sequences"
)

const (
	// CartSyncWorkflowName is the public identifier for registering the workflow.
	CartSyncWorkflowName = "carts.workflows.Sync"
	// CartSyncTaskQueue is the queue consumed by the worker processing cart workflows.
	CartSyncTaskQueue = "CART_SYNC"
)

// CartSyncWorkflowInput captures the payload required to push one snapshot.
type CartSyncWorkflowInput struct {
	Command cartactivities.PushSnapshotInput
	TraceID string
}

// CartSyncWorkflow orchestrates the activities that replace the remote cart document.
func CartSyncWorkflow(ctx workflow.Context, input CartSyncWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("CartSyncWorkflow started", withTraceID(input.TraceID, "cartId", input.Command.CartID)...)
	if err := sequences.RunCartPushSequence(ctx, input.Command); err != nil {
		logger.Error("CartSyncWorkflow failed", withTraceID(input.TraceID, "cartId", input.Command.CartID, "error", err)...)
		return err
	}
	logger.Info("CartSyncWorkflow completed", withTraceID(input.TraceID, "cartId", input.Command.CartID)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
