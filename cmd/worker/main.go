package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	remotestoreclient "github.com/Apurer/go-gin-cart-server/internal/clients/http/remotestore"
	remotestoreadapter "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/external/remotestore"
	cartactivities "github.com/Apurer/go-gin-cart-server/internal/durable/temporal/activities/cart"
	cartworkflows "github.com/Apurer/go-gin-cart-server/internal/durable/temporal/workflows/cart"
	platformobservability "github.com/Apurer/go-gin-cart-server/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "cart-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	endpoint := strings.TrimSpace(os.Getenv("REMOTE_STORE_URL"))
	if endpoint == "" {
		logger.Error("REMOTE_STORE_URL must be set")
		os.Exit(1)
	}
	storeClient, err := remotestoreclient.NewClient(endpoint, &http.Client{Timeout: 5 * time.Second})
	if err != nil {
		logger.Error("failed to build remote store client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	activities := cartactivities.NewActivities(remotestoreadapter.NewStore(storeClient))

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, cartworkflows.CartSyncTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(cartworkflows.CartSyncWorkflow, workflow.RegisterOptions{Name: cartworkflows.CartSyncWorkflowName})
	w.RegisterActivityWithOptions(activities.PushSnapshot, activity.RegisterOptions{Name: cartactivities.PushSnapshotActivityName})

	logger.Info("worker listening", slog.String("taskQueue", cartworkflows.CartSyncTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
