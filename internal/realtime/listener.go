package realtime

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// NotificationWaiter blocks until the backend reports a change on the
// watched tables. Payloads are never inspected; any change means refetch.
type NotificationWaiter interface {
	WaitForNotification(ctx context.Context) error
	Close(ctx context.Context) error
}

// Refresher is what a notification ultimately triggers, normally the
// statistics aggregator.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Listener bridges change notifications to snapshot refreshes. Notifications
// land on a single-slot queue drained by one consumer, so a burst of changes
// coalesces into at most one queued refresh behind the in-flight one.
type Listener struct {
	logger    *logrus.Logger
	waiter    NotificationWaiter
	refresher Refresher

	pending chan struct{}
}

func NewListener(logger *logrus.Logger, waiter NotificationWaiter, refresher Refresher) *Listener {
	return &Listener{
		logger:    logger,
		waiter:    waiter,
		refresher: refresher,
		pending:   make(chan struct{}, 1),
	}
}

// Run blocks until ctx is canceled. On return the subscription is closed and
// both internal goroutines have exited.
func (l *Listener) Run(ctx context.Context) {
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		l.receive(ctx)
	}()
	go func() {
		defer wg.Done()
		l.consume(ctx)
	}()

	wg.Wait()

	closeCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := l.waiter.Close(closeCtx); err != nil {
		l.logger.WithError(err).Warn("failed to close realtime subscription")
	}
}

func (l *Listener) receive(ctx context.Context) {
	for {
		if err := l.waiter.WaitForNotification(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.WithError(err).Error("realtime subscription lost")
			return
		}

		select {
		case l.pending <- struct{}{}:
		default:
			// a refresh is already queued; this change rides along
		}
	}
}

func (l *Listener) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.pending:
		}

		if err := l.refresher.Refresh(ctx); err != nil && ctx.Err() == nil {
			l.logger.WithError(err).Error("realtime-triggered refresh failed")
		}
	}
}
