package limiter

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
    assert.Equal(t, 2, New(0).Cap())
    assert.Equal(t, 5, New(5).Cap())
}

func TestAcquireBlocksAtCapacity(t *testing.T) {
    r := New(1)
    release, err := r.Acquire(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 1, r.InFlight())

    ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
    defer cancel()
    _, err = r.Acquire(ctx)
    assert.ErrorIs(t, err, context.DeadlineExceeded)

    release()
    release()
    assert.Equal(t, 0, r.InFlight())

    again, err := r.Acquire(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 1, r.InFlight())
    again()
}

func TestWaiterWakesOnRelease(t *testing.T) {
    r := New(1)
    release, err := r.Acquire(context.Background())
    require.NoError(t, err)

    got := make(chan struct{})
    go func() {
        rel, err := r.Acquire(context.Background())
        if err == nil {
            rel()
        }
        close(got)
    }()

    release()
    select {
    case <-got:
    case <-time.After(time.Second):
        t.Fatal("waiter never acquired")
    }
}
