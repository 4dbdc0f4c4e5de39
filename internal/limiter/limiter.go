// Package limiter caps how many MuPDF documents are open at once across
// every workspace in the process.
package limiter

import (
    "context"
    "sync/atomic"
)

// Renders is a counting semaphore. The zero value is not usable; call New.
type Renders struct {
    sem      chan struct{}
    inflight atomic.Int64
}

// New returns a limiter admitting at most max concurrent holders. max <= 0
// defaults to 2.
func New(max int) *Renders {
    if max <= 0 { max = 2 }
    return &Renders{sem: make(chan struct{}, max)}
}

// Acquire blocks until a slot is free or ctx is done. The returned release
// must be called exactly once.
func (r *Renders) Acquire(ctx context.Context) (func(), error) {
    select {
    case r.sem <- struct{}{}:
        return r.releaser(), nil
    case <-ctx.Done():
        return nil, ctx.Err()
    }
}

// InFlight reports the current number of holders.
func (r *Renders) InFlight() int { return int(r.inflight.Load()) }

// Cap reports the configured maximum.
func (r *Renders) Cap() int { return cap(r.sem) }

func (r *Renders) releaser() func() {
    r.inflight.Add(1)
    var once atomic.Bool
    return func() {
        if once.CompareAndSwap(false, true) {
            r.inflight.Add(-1)
            <-r.sem
        }
    }
}
