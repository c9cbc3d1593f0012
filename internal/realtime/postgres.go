package realtime

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PGWaiter holds a dedicated connection subscribed via LISTEN. The pool is
// not usable for this; LISTEN binds to one session.
type PGWaiter struct {
	conn *pgx.Conn
}

// Listen opens the dedicated connection and subscribes to the channel fed by
// the table triggers.
func Listen(ctx context.Context, connString, channel string) (*PGWaiter, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect for listen: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("listen on channel %s: %w", channel, err)
	}

	return &PGWaiter{conn: conn}, nil
}

func (w *PGWaiter) WaitForNotification(ctx context.Context) error {
	_, err := w.conn.WaitForNotification(ctx)
	return err
}

func (w *PGWaiter) Close(ctx context.Context) error {
	return w.conn.Close(ctx)
}
