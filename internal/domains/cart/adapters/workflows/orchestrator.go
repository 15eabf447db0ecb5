package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
	cartactivities "github.com/Apurer/go-gin-cart-server/internal/durable/temporal/activities/cart"
	cartworkflows "github.com/Apurer/go-gin-cart-server/internal/durable/temporal/workflows/cart"
)

var _ ports.SyncOrchestrator = (*TemporalCartSync)(nil)

// TemporalCartSync runs the remote push as a durable workflow. The
// synchronizer stays the single writer; durability buys retries of transient
// remote failures, not reordering.
type TemporalCartSync struct {
	client    client.Client
	taskQueue string
}

// NewTemporalCartSync wires a Temporal client into the orchestrator.
func NewTemporalCartSync(c client.Client) *TemporalCartSync {
	return &TemporalCartSync{client: c, taskQueue: cartworkflows.CartSyncTaskQueue}
}

// PushSnapshot starts the workflow and waits for its completion.
func (o *TemporalCartSync) PushSnapshot(ctx context.Context, cartID string, snapshot domain.Snapshot) error {
	if o == nil || o.client == nil {
		return errors.New("temporal cart sync not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("cart-sync-%s-%s", cartID, traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		cartworkflows.CartSyncWorkflow,
		cartworkflows.CartSyncWorkflowInput{
			Command: cartactivities.PushSnapshotInput{CartID: cartID, Snapshot: snapshot},
			TraceID: traceComponent,
		},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return o.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId).Get(ctx, nil)
		}
		return err
	}
	return run.Get(ctx, nil)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
