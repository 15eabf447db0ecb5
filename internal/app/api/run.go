package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"golang.org/x/sync/errgroup"

	cartserver "github.com/Apurer/go-gin-cart-server/go"

	remotestoreadapter "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/external/remotestore"
	cartmemory "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/memory"
	cartobs "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/observability"
	cartpostgres "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/persistence/postgres"
	cartworkflows "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/workflows"
	cartapp "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application"
	cartsync "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application/sync"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"

	notifcartsync "github.com/Apurer/go-gin-cart-server/internal/domains/notifications/adapters/cartsync"
	notifmemory "github.com/Apurer/go-gin-cart-server/internal/domains/notifications/adapters/memory"
	notifws "github.com/Apurer/go-gin-cart-server/internal/domains/notifications/adapters/ws"
	notifapp "github.com/Apurer/go-gin-cart-server/internal/domains/notifications/application"

	remotestoreclient "github.com/Apurer/go-gin-cart-server/internal/clients/http/remotestore"
	"github.com/Apurer/go-gin-cart-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-cart-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-cart-server/internal/platform/postgres"
)

// Run boots the cart HTTP API with observability, repositories, the remote
// store synchronizer, and notifications wired.
func Run(ctx context.Context) error {
	const serviceName = "cart-api"
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cartRepo, cleanupRepo := buildCartRepository(ctx, cfg, logger)
	defer cleanupRepo()

	notifStore := notifmemory.NewStore()
	notifHub := notifws.NewHub(logger)
	notifService := notifapp.NewService(notifStore, notifapp.WithPublisher(notifHub))

	storeClient, err := remotestoreclient.NewClient(cfg.RemoteStoreURL, &http.Client{Timeout: cfg.RemoteStoreTimeout})
	if err != nil {
		return fmt.Errorf("failed to build remote store client: %w", err)
	}
	remoteStore := remotestoreadapter.NewStore(storeClient)

	relay := &observerRelay{}
	coreCartService := cartapp.NewService(cartRepo, cartapp.WithChangeObserver(relay))
	cartService := cartobs.New(
		coreCartService,
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)

	syncOptions := []cartsync.Option{
		cartsync.WithLogger(logger),
		cartsync.WithNotifier(notifcartsync.NewNotifier(notifService, logger)),
	}
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal unavailable, pushing cart snapshots inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		syncOptions = append(syncOptions, cartsync.WithOrchestrator(cartworkflows.NewTemporalCartSync(temporalClient)))
		logger.Info("Temporal cart sync enabled", slog.String("namespace", cfg.TemporalNamespace))
	}
	synchronizer := cartsync.New(cartService, remoteStore, cfg.SyncCartID, syncOptions...)
	relay.target = synchronizer

	if err := synchronizer.LoadInitial(ctx); err != nil {
		logger.Warn("initial cart load failed, starting with empty cart", slog.String("error", err.Error()))
	}

	handlers := cartserver.ApiHandleFunctions{
		CartAPI:         cartserver.NewCartAPI(cartService),
		NotificationAPI: cartserver.NewNotificationAPI(notifService, notifHub),
	}
	router := cartserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return synchronizer.Run(groupCtx)
	})
	group.Go(func() error {
		logger.Info("cart API listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("cart API exited", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// observerRelay defers binding the change observer until the synchronizer
// exists. The cart service needs an observer at construction time while the
// synchronizer needs the constructed service.
type observerRelay struct {
	target cartports.ChangeObserver
}

func (r *observerRelay) Observe(cartID string, snapshot domain.Snapshot, changed bool) {
	if r.target == nil {
		return
	}
	r.target.Observe(cartID, snapshot, changed)
}

func buildCartRepository(ctx context.Context, cfg Config, logger *slog.Logger) (cartports.Repository, func()) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory cart repository")
		return cartmemory.NewRepository(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return cartmemory.NewRepository(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		return cartmemory.NewRepository(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return cartmemory.NewRepository(), func() {}
	}
	logger.Info("cart repository configured with postgres")
	return cartpostgres.NewRepository(db), func() { _ = sqlDB.Close() }
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via configuration")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
