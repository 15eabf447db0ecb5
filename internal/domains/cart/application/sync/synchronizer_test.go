package sync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/go-gin-cart-server/internal/domains/cart/adapters/memory"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/application"
	carttypes "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application/types"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

type fakeStore struct {
	mu       sync.Mutex
	fetched  domain.Snapshot
	fetchErr error
	pushErr  error
	pushes   []domain.Snapshot
	pushed   chan domain.Snapshot
	gate     chan struct{}
	entered  chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{pushed: make(chan domain.Snapshot, 16)}
}

func (f *fakeStore) Fetch(context.Context) (domain.Snapshot, error) {
	if f.fetchErr != nil {
		return domain.Snapshot{}, f.fetchErr
	}
	return f.fetched, nil
}

func (f *fakeStore) Push(_ context.Context, snapshot domain.Snapshot) error {
	if f.gate != nil {
		if f.entered != nil {
			f.entered <- struct{}{}
		}
		<-f.gate
	}
	f.mu.Lock()
	f.pushes = append(f.pushes, snapshot)
	err := f.pushErr
	f.mu.Unlock()
	f.pushed <- snapshot
	return err
}

type event struct {
	status ports.SyncStatus
	title  string
	msg    string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []event
}

func (f *fakeNotifier) Notify(_ context.Context, status ports.SyncStatus, title, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event{status: status, title: title, msg: message})
}

func (f *fakeNotifier) snapshot() []event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]event{}, f.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func newHarness(t *testing.T, store *fakeStore) (*application.Service, *Synchronizer, *fakeNotifier, func()) {
	t.Helper()
	notifier := &fakeNotifier{}
	repo := cartmemory.NewRepository()

	var syncer *Synchronizer
	svc := application.NewService(repo, application.WithChangeObserver(observerFunc(func(id string, snap domain.Snapshot, changed bool) {
		syncer.Observe(id, snap, changed)
	})))
	syncer = New(svc, store, "default", WithNotifier(notifier))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		syncer.Run(ctx)
	}()
	stop := func() {
		cancel()
		<-done
	}
	return svc, syncer, notifier, stop
}

type observerFunc func(string, domain.Snapshot, bool)

func (f observerFunc) Observe(id string, snap domain.Snapshot, changed bool) { f(id, snap, changed) }

func TestLoadInitial_ReplacesLocalState(t *testing.T) {
	store := newFakeStore()
	store.fetched = domain.Snapshot{
		Items:         []domain.Line{{ID: "p1", Name: "Product 1", UnitPrice: 6, Quantity: 2, TotalPrice: 12}},
		TotalQuantity: 2,
	}
	svc, syncer, notifier, stop := newHarness(t, store)
	defer stop()

	require.NoError(t, syncer.LoadInitial(context.Background()))

	proj, err := svc.GetByID(context.Background(), carttypes.CartIdentifier{CartID: "default"})
	require.NoError(t, err)
	require.Equal(t, 2, proj.Cart.TotalQuantity)
	require.False(t, proj.Cart.Changed)
	require.Empty(t, notifier.snapshot())
	require.Empty(t, store.pushes)
}

func TestLoadInitial_FailureNotifiesAndKeepsLocalState(t *testing.T) {
	store := newFakeStore()
	store.fetchErr = errors.New("boom")
	svc, syncer, notifier, stop := newHarness(t, store)
	defer stop()

	require.Error(t, syncer.LoadInitial(context.Background()))

	events := notifier.snapshot()
	require.Len(t, events, 1)
	require.Equal(t, ports.SyncError, events[0].status)
	require.Equal(t, TitleError, events[0].title)
	require.Equal(t, MessageFetchFailed, events[0].msg)

	_, err := svc.GetByID(context.Background(), carttypes.CartIdentifier{CartID: "default"})
	require.ErrorIs(t, err, application.ErrNotFound)
}

func TestMutationAfterLoad_PushesAndClearsDirtyFlag(t *testing.T) {
	store := newFakeStore()
	svc, syncer, notifier, stop := newHarness(t, store)
	defer stop()
	require.NoError(t, syncer.LoadInitial(context.Background()))

	_, err := svc.AddItem(context.Background(), carttypes.AddItemInput{CartID: "default", ItemID: "p1", Title: "Product 1", UnitPrice: 6})
	require.NoError(t, err)

	pushed := <-store.pushed
	require.Equal(t, 1, pushed.TotalQuantity)
	require.Equal(t, "p1", pushed.Items[0].ID)

	waitFor(t, func() bool {
		proj, err := svc.GetByID(context.Background(), carttypes.CartIdentifier{CartID: "default"})
		return err == nil && !proj.Cart.Changed
	})

	waitFor(t, func() bool { return len(notifier.snapshot()) == 2 })
	events := notifier.snapshot()
	require.Equal(t, ports.SyncPending, events[0].status)
	require.Equal(t, TitleSending, events[0].title)
	require.Equal(t, MessageSending, events[0].msg)
	require.Equal(t, ports.SyncSuccess, events[1].status)
	require.Equal(t, MessageSent, events[1].msg)
}

func TestPushFailure_NotifiesErrorAndKeepsDirtyFlag(t *testing.T) {
	store := newFakeStore()
	store.pushErr = errors.New("remote down")
	svc, syncer, notifier, stop := newHarness(t, store)
	defer stop()
	require.NoError(t, syncer.LoadInitial(context.Background()))

	_, err := svc.AddItem(context.Background(), carttypes.AddItemInput{CartID: "default", ItemID: "p1", Title: "Product 1", UnitPrice: 6})
	require.NoError(t, err)

	<-store.pushed
	waitFor(t, func() bool { return len(notifier.snapshot()) == 2 })
	events := notifier.snapshot()
	require.Equal(t, ports.SyncPending, events[0].status)
	require.Equal(t, ports.SyncError, events[1].status)
	require.Equal(t, MessageSendFailed, events[1].msg)

	// no retry; local state stays the (dirty) source of truth
	require.Len(t, store.pushes, 1)
	proj, err := svc.GetByID(context.Background(), carttypes.CartIdentifier{CartID: "default"})
	require.NoError(t, err)
	require.True(t, proj.Cart.Changed)
}

func TestCleanReplaceDoesNotPush(t *testing.T) {
	store := newFakeStore()
	svc, syncer, notifier, stop := newHarness(t, store)
	defer stop()
	require.NoError(t, syncer.LoadInitial(context.Background()))

	_, err := svc.Replace(context.Background(), carttypes.ReplaceCartInput{CartID: "default", Items: nil, TotalQuantity: 0})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, store.pushes)
	require.Empty(t, notifier.snapshot())
}

func TestOtherCartsAreIgnored(t *testing.T) {
	store := newFakeStore()
	svc, syncer, _, stop := newHarness(t, store)
	defer stop()
	require.NoError(t, syncer.LoadInitial(context.Background()))

	_, err := svc.AddItem(context.Background(), carttypes.AddItemInput{CartID: "other", ItemID: "p1", Title: "Product 1", UnitPrice: 6})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, store.pushes)
}

func TestRapidMutationsCoalesceToLatestSnapshot(t *testing.T) {
	store := newFakeStore()
	store.gate = make(chan struct{})
	store.entered = make(chan struct{}, 16)
	svc, syncer, _, stop := newHarness(t, store)
	defer stop()
	require.NoError(t, syncer.LoadInitial(context.Background()))

	ctx := context.Background()
	_, err := svc.AddItem(ctx, carttypes.AddItemInput{CartID: "default", ItemID: "p1", Title: "Product 1", UnitPrice: 6})
	require.NoError(t, err)

	// while the first push is blocked, pile up more mutations
	<-store.entered
	for i := 0; i < 3; i++ {
		_, err = svc.AddItem(ctx, carttypes.AddItemInput{CartID: "default", ItemID: "p1", Title: "Product 1", UnitPrice: 6})
		require.NoError(t, err)
	}
	close(store.gate)

	first := <-store.pushed
	var last domain.Snapshot
	select {
	case last = <-store.pushed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a second push carrying the coalesced snapshot")
	}

	require.Equal(t, 4, last.TotalQuantity)
	require.LessOrEqual(t, first.TotalQuantity, 4)

	// the intermediate snapshots were dropped, not queued
	time.Sleep(50 * time.Millisecond)
	store.mu.Lock()
	total := len(store.pushes)
	store.mu.Unlock()
	require.Equal(t, 2, total)
}

func TestFirstObservationWithoutLoadIsSkipped(t *testing.T) {
	store := newFakeStore()
	_, syncer, _, stop := newHarness(t, store)
	defer stop()

	dirty := domain.Snapshot{Items: []domain.Line{{ID: "p1", Quantity: 1, UnitPrice: 6, TotalPrice: 6}}, TotalQuantity: 1}
	syncer.Observe("default", dirty, true)

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, store.pushes)

	syncer.Observe("default", dirty, true)
	<-store.pushed
}
