package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeWaiter struct {
	notifs chan struct{}

	mu     sync.Mutex
	closed bool
}

func newFakeWaiter() *fakeWaiter {
	return &fakeWaiter{notifs: make(chan struct{})}
}

func (f *fakeWaiter) WaitForNotification(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.notifs:
		return nil
	}
}

func (f *fakeWaiter) Close(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeWaiter) wasClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// blockingRefresher signals on started when a refresh begins and holds it
// until the test sends on release, so the test controls exactly when each
// refresh is in flight.
type blockingRefresher struct {
	started chan struct{}
	release chan struct{}

	mu    sync.Mutex
	count int
}

func newBlockingRefresher() *blockingRefresher {
	return &blockingRefresher{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *blockingRefresher) Refresh(ctx context.Context) error {
	b.mu.Lock()
	b.count++
	b.mu.Unlock()

	select {
	case b.started <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-b.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (b *blockingRefresher) refreshes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func waitFor(t *testing.T, ch chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestRun_BurstCoalescesIntoSingleQueuedRefresh(t *testing.T) {
	waiter := newFakeWaiter()
	refresher := newBlockingRefresher()
	listener := NewListener(testLogger(), waiter, refresher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		listener.Run(ctx)
		close(done)
	}()

	// first notification starts a refresh
	waiter.notifs <- struct{}{}
	waitFor(t, refresher.started, "first refresh to start")

	// five more changes while the refresh is in flight collapse into one
	// queued slot
	for i := 0; i < 5; i++ {
		waiter.notifs <- struct{}{}
	}

	refresher.release <- struct{}{}
	waitFor(t, refresher.started, "coalesced refresh to start")
	refresher.release <- struct{}{}

	cancel()
	waitFor(t, done, "listener to stop")

	if got := refresher.refreshes(); got != 2 {
		t.Errorf("refreshes = %d, want exactly 2 (one in flight, one coalesced)", got)
	}
	if !waiter.wasClosed() {
		t.Error("subscription not closed after Run returned")
	}
}

func TestRun_StopsCleanlyWithoutNotifications(t *testing.T) {
	waiter := newFakeWaiter()
	refresher := newBlockingRefresher()
	listener := NewListener(testLogger(), waiter, refresher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		listener.Run(ctx)
		close(done)
	}()

	cancel()
	waitFor(t, done, "listener to stop")

	if got := refresher.refreshes(); got != 0 {
		t.Errorf("refreshes = %d, want 0", got)
	}
	if !waiter.wasClosed() {
		t.Error("subscription not closed after Run returned")
	}
}
