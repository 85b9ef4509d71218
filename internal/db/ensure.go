package db

import (
	"context"
	"time"

	"jsonoracle/internal/util"

	"github.com/pkg/errors"
)

// EnsureReachable pings the server until it answers or attempts run out.
func EnsureReachable(ctx context.Context, d *DB, attempts int, backoff time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = d.PingContext(ctx); err == nil {
			return nil
		}
		util.Warnf("ping %s failed (attempt %d/%d): %v", d.Addr, i+1, attempts, err)
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "wait for server")
		case <-time.After(backoff):
		}
	}
	return errors.Wrapf(err, "server %s unreachable", d.Addr)
}
