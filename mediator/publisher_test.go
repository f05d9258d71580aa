package mediator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucafabbri/concordia-go/contracts"
)

type stockDepleted struct {
	SKU string
}

func TestSequentialPublisher(t *testing.T) {
	t.Run("invokes handlers in registration order", func(t *testing.T) {
		p := NewSequentialPublisher()
		var order []string

		invocations := []NotificationInvocation{
			func(ctx context.Context, n contracts.Notification) error {
				order = append(order, "h1")
				return nil
			},
			func(ctx context.Context, n contracts.Notification) error {
				order = append(order, "h2")
				return nil
			},
		}

		err := p.Publish(context.Background(), invocations, stockDepleted{})

		require.NoError(t, err)
		assert.Equal(t, []string{"h1", "h2"}, order)
	})

	t.Run("handler error aborts remaining handlers", func(t *testing.T) {
		p := NewSequentialPublisher()
		boom := errors.New("h1 failed")
		h2Ran := false

		invocations := []NotificationInvocation{
			func(ctx context.Context, n contracts.Notification) error {
				return boom
			},
			func(ctx context.Context, n contracts.Notification) error {
				h2Ran = true
				return nil
			},
		}

		err := p.Publish(context.Background(), invocations, stockDepleted{})

		assert.ErrorIs(t, err, boom)
		assert.False(t, h2Ran)
	})

	t.Run("observes cancellation between handlers", func(t *testing.T) {
		p := NewSequentialPublisher()
		ctx, cancel := context.WithCancel(context.Background())
		h2Ran := false

		invocations := []NotificationInvocation{
			func(ctx context.Context, n contracts.Notification) error {
				cancel()
				return nil
			},
			func(ctx context.Context, n contracts.Notification) error {
				h2Ran = true
				return nil
			},
		}

		err := p.Publish(ctx, invocations, stockDepleted{})

		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, h2Ran)
	})
}

func TestParallelPublisher(t *testing.T) {
	t.Run("all handlers run even when one fails", func(t *testing.T) {
		p := NewParallelPublisher()
		boom := errors.New("h1 failed")
		var h2Ran atomic.Bool

		invocations := []NotificationInvocation{
			func(ctx context.Context, n contracts.Notification) error {
				return boom
			},
			func(ctx context.Context, n contracts.Notification) error {
				h2Ran.Store(true)
				return nil
			},
		}

		err := p.Publish(context.Background(), invocations, stockDepleted{})

		assert.ErrorIs(t, err, boom)
		assert.True(t, h2Ran.Load())
	})

	t.Run("aggregates every failure", func(t *testing.T) {
		p := NewParallelPublisher()
		err1 := errors.New("h1 failed")
		err2 := errors.New("h2 failed")

		invocations := []NotificationInvocation{
			func(ctx context.Context, n contracts.Notification) error {
				return err1
			},
			func(ctx context.Context, n contracts.Notification) error {
				return err2
			},
		}

		err := p.Publish(context.Background(), invocations, stockDepleted{})

		assert.ErrorIs(t, err, err1)
		assert.ErrorIs(t, err, err2)
	})

	t.Run("succeeds when all handlers succeed", func(t *testing.T) {
		p := NewParallelPublisher()
		var count atomic.Int32

		invocations := []NotificationInvocation{
			func(ctx context.Context, n contracts.Notification) error {
				count.Add(1)
				return nil
			},
			func(ctx context.Context, n contracts.Notification) error {
				count.Add(1)
				return nil
			},
			func(ctx context.Context, n contracts.Notification) error {
				count.Add(1)
				return nil
			},
		}

		err := p.Publish(context.Background(), invocations, stockDepleted{})

		require.NoError(t, err)
		assert.Equal(t, int32(3), count.Load())
	})
}

func TestBackgroundPublisher(t *testing.T) {
	t.Run("returns immediately and runs handlers in the background", func(t *testing.T) {
		p := NewBackgroundPublisher()
		started := make(chan struct{})
		release := make(chan struct{})
		var ran atomic.Bool

		invocations := []NotificationInvocation{
			func(ctx context.Context, n contracts.Notification) error {
				close(started)
				<-release
				ran.Store(true)
				return nil
			},
		}

		err := p.Publish(context.Background(), invocations, stockDepleted{})
		require.NoError(t, err)

		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatal("handler never started")
		}
		close(release)
		p.Wait()

		assert.True(t, ran.Load())
	})

	t.Run("handler errors reach the sink, not the caller", func(t *testing.T) {
		var mu sync.Mutex
		var sunk []error
		p := NewBackgroundPublisher(WithErrorSink(ErrorSinkFunc(func(n contracts.Notification, err error) {
			mu.Lock()
			defer mu.Unlock()
			sunk = append(sunk, err)
		})))

		boom := errors.New("background handler failed")
		invocations := []NotificationInvocation{
			func(ctx context.Context, n contracts.Notification) error {
				return boom
			},
		}

		err := p.Publish(context.Background(), invocations, stockDepleted{})
		require.NoError(t, err)
		p.Wait()

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, sunk, 1)
		assert.ErrorIs(t, sunk[0], boom)
	})

	t.Run("handler panics are reported, not propagated", func(t *testing.T) {
		var mu sync.Mutex
		var sunk []error
		p := NewBackgroundPublisher(WithErrorSink(ErrorSinkFunc(func(n contracts.Notification, err error) {
			mu.Lock()
			defer mu.Unlock()
			sunk = append(sunk, err)
		})))

		invocations := []NotificationInvocation{
			func(ctx context.Context, n contracts.Notification) error {
				panic("unexpected")
			},
		}

		err := p.Publish(context.Background(), invocations, stockDepleted{})
		require.NoError(t, err)
		p.Wait()

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, sunk, 1)
		assert.Contains(t, sunk[0].Error(), "panicked")
	})

	t.Run("handlers outlive the caller's cancellation", func(t *testing.T) {
		p := NewBackgroundPublisher()
		var observed atomic.Value

		invocations := []NotificationInvocation{
			func(ctx context.Context, n contracts.Notification) error {
				observed.Store(ctx.Err() == nil)
				return nil
			},
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := p.Publish(ctx, invocations, stockDepleted{})
		require.NoError(t, err)
		p.Wait()

		assert.Equal(t, true, observed.Load())
	})
}

func TestPublisherNames(t *testing.T) {
	assert.Equal(t, "sequential", NewSequentialPublisher().Name())
	assert.Equal(t, "parallel", NewParallelPublisher().Name())
	assert.Equal(t, "background", NewBackgroundPublisher().Name())
}
