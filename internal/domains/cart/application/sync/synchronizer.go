// Package sync coordinates the cart with the remote document store: one
// initial load that replaces local state, and a push of the full snapshot
// after every dirty mutation, each attempt surfaced as a notification.
package sync

import (
	"context"
	"log/slog"
	"sync"

	carttypes "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application/types"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

// Notification texts shown around each remote call.
const (
	TitleSending = "Sending..."
	TitleSuccess = "Success!"
	TitleError   = "Error!"

	MessageSending     = "Sending cart data!"
	MessageSent        = "Sent cart data successfully!"
	MessageSendFailed  = "Sending cart data failed!"
	MessageFetchFailed = "Fetching cart data failed!"
)

// Synchronizer owns the two effectful flows around the cart aggregate. It
// serializes pushes through a single worker draining a one-slot mailbox, so
// rapid mutations coalesce and only the latest snapshot goes out.
type Synchronizer struct {
	carts        ports.Service
	store        ports.RemoteStore
	orchestrator ports.SyncOrchestrator
	notifier     ports.Notifier
	logger       *slog.Logger
	cartID       string

	mu     sync.Mutex
	queued *domain.Snapshot
	// first is true until the initial observation has been consumed; it is
	// the instance-level replacement for the original's module-level flag.
	first bool

	wake chan struct{}
}

// Option configures the synchronizer.
type Option func(*Synchronizer)

// WithNotifier wires the notification sink.
func WithNotifier(notifier ports.Notifier) Option {
	return func(s *Synchronizer) { s.notifier = notifier }
}

// WithOrchestrator overrides how pushes execute, e.g. as durable workflows.
func WithOrchestrator(orchestrator ports.SyncOrchestrator) Option {
	return func(s *Synchronizer) { s.orchestrator = orchestrator }
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) { s.logger = logger }
}

// New builds a synchronizer bound to one cart id. Pushes default to going
// straight through the remote store.
func New(carts ports.Service, store ports.RemoteStore, cartID string, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		carts:  carts,
		store:  store,
		cartID: cartID,
		first:  true,
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.orchestrator == nil {
		s.orchestrator = directPush{store: store}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// LoadInitial fetches the remote document once and replaces local cart state
// with it. On failure the local cart keeps its prior value and an error
// notification is emitted; the failure is not fatal to the process.
func (s *Synchronizer) LoadInitial(ctx context.Context) error {
	defer s.consumeFirstObservation()

	snapshot, err := s.store.Fetch(ctx)
	if err != nil {
		s.logger.Error("initial cart fetch failed", slog.String("cart.id", s.cartID), slog.String("error", err.Error()))
		s.notify(ctx, ports.SyncError, TitleError, MessageFetchFailed)
		return err
	}
	items := snapshot.Items
	if items == nil {
		items = []domain.Line{}
	}
	if _, err := s.carts.Replace(ctx, carttypes.ReplaceCartInput{
		CartID:        s.cartID,
		Items:         items,
		TotalQuantity: snapshot.TotalQuantity,
	}); err != nil {
		s.logger.Error("applying fetched cart failed", slog.String("cart.id", s.cartID), slog.String("error", err.Error()))
		s.notify(ctx, ports.SyncError, TitleError, MessageFetchFailed)
		return err
	}
	s.logger.Info("cart loaded from remote store", slog.String("cart.id", s.cartID), slog.Int("cart.total_quantity", snapshot.TotalQuantity))
	return nil
}

// Observe implements the change observer port. Clean snapshots and carts
// other than the bound one are ignored; the very first observation is
// swallowed so freshly loaded state is never pushed straight back.
func (s *Synchronizer) Observe(cartID string, snapshot domain.Snapshot, changed bool) {
	if cartID != s.cartID {
		return
	}
	s.mu.Lock()
	if s.first {
		s.first = false
		s.mu.Unlock()
		return
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	s.queued = &snapshot
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run drains queued snapshots until the context ends. It is the single
// writer towards the remote store; a snapshot superseded while another push
// is in flight is dropped in favor of the newest one.
func (s *Synchronizer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
		for {
			snapshot := s.dequeue()
			if snapshot == nil {
				break
			}
			s.push(ctx, *snapshot)
		}
	}
}

func (s *Synchronizer) push(ctx context.Context, snapshot domain.Snapshot) {
	s.notify(ctx, ports.SyncPending, TitleSending, MessageSending)

	if err := s.orchestrator.PushSnapshot(ctx, s.cartID, snapshot); err != nil {
		s.logger.Error("cart push failed", slog.String("cart.id", s.cartID), slog.String("error", err.Error()))
		s.notify(ctx, ports.SyncError, TitleError, MessageSendFailed)
		return
	}

	s.notify(ctx, ports.SyncSuccess, TitleSuccess, MessageSent)
	if err := s.carts.MarkSynced(ctx, carttypes.CartIdentifier{CartID: s.cartID}); err != nil {
		s.logger.Warn("clearing dirty flag failed", slog.String("cart.id", s.cartID), slog.String("error", err.Error()))
	}
}

func (s *Synchronizer) dequeue() *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.queued
	s.queued = nil
	return snapshot
}

func (s *Synchronizer) consumeFirstObservation() {
	s.mu.Lock()
	s.first = false
	s.mu.Unlock()
}

func (s *Synchronizer) notify(ctx context.Context, status ports.SyncStatus, title, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, status, title, message)
}

// directPush sends snapshots straight to the remote store.
type directPush struct {
	store ports.RemoteStore
}

func (p directPush) PushSnapshot(ctx context.Context, _ string, snapshot domain.Snapshot) error {
	return p.store.Push(ctx, snapshot)
}

var (
	_ ports.ChangeObserver   = (*Synchronizer)(nil)
	_ ports.SyncOrchestrator = directPush{}
)
