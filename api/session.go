// Package api implements the REST API that exercises a session pool over
// HTTP.
package api

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fairq/fairq/pool"
)

// Session is the demonstration resource the work endpoint hands out: an
// expensive-to-create handle that the pool recycles between requests. A
// session is held by at most one request at a time, so its fields need no
// further locking.
type Session struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Uses      int64     `json:"uses"`
}

// SessionOptions configures session provisioning. It is forwarded verbatim
// to the session factory by the pool.
type SessionOptions struct {
	// ProvisionDelay simulates the setup cost of a real session.
	ProvisionDelay time.Duration
}

// SessionFactory returns a pool factory that mints sequentially numbered
// sessions, sleeping for the ProvisionDelay carried in the forwarded
// options.
func SessionFactory() pool.Factory[*Session] {
	var lastID atomic.Int64
	return func(ctx context.Context, opts any) (*Session, error) {
		o, _ := opts.(SessionOptions)
		if o.ProvisionDelay > 0 {
			select {
			case <-time.After(o.ProvisionDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return &Session{ID: lastID.Add(1), CreatedAt: time.Now()}, nil
	}
}
