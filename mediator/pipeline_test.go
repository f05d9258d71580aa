package mediator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucafabbri/concordia-go/contracts"
)

type double struct {
	Value int
}

func TestPipelineComposition(t *testing.T) {
	t.Run("zero behaviors degenerates to pre handler post", func(t *testing.T) {
		m := New()
		var order []string

		m.AddPreProcessor(PreProcessorFunc(func(ctx context.Context, req contracts.Request) error {
			order = append(order, "pre")
			return nil
		}))
		m.AddPostProcessor(PostProcessorFunc(func(ctx context.Context, req contracts.Request, response any) error {
			order = append(order, "post")
			return nil
		}))

		err := RegisterHandlerFunc(m, func(ctx context.Context, req double) (int, error) {
			order = append(order, "handler")
			return req.Value * 2, nil
		})
		require.NoError(t, err)

		res, err := m.Send(context.Background(), double{Value: 5})

		require.NoError(t, err)
		assert.Equal(t, 10, res)
		assert.Equal(t, []string{"pre", "handler", "post"}, order)
	})

	t.Run("behaviors execute in registration order and unwind in reverse", func(t *testing.T) {
		m := New()
		var order []string

		m.AddBehavior(NewBehaviorFunc("b1", func(ctx context.Context, req contracts.Request, next HandlerFunc) (any, error) {
			order = append(order, "b1-before")
			res, err := next(ctx, req)
			order = append(order, "b1-after")
			return res, err
		}))
		m.AddBehavior(NewBehaviorFunc("b2", func(ctx context.Context, req contracts.Request, next HandlerFunc) (any, error) {
			order = append(order, "b2-before")
			res, err := next(ctx, req)
			order = append(order, "b2-after")
			return res, err
		}))

		err := RegisterHandlerFunc(m, func(ctx context.Context, req double) (int, error) {
			order = append(order, "handler")
			return req.Value, nil
		})
		require.NoError(t, err)

		_, err = m.Send(context.Background(), double{Value: 1})

		require.NoError(t, err)
		assert.Equal(t, []string{"b1-before", "b2-before", "handler", "b2-after", "b1-after"}, order)
	})

	t.Run("pre-processors run in order and an error aborts the call", func(t *testing.T) {
		m := New()
		var order []string
		boom := errors.New("boom")

		m.AddPreProcessor(PreProcessorFunc(func(ctx context.Context, req contracts.Request) error {
			order = append(order, "pre1")
			return boom
		}))
		m.AddPreProcessor(PreProcessorFunc(func(ctx context.Context, req contracts.Request) error {
			order = append(order, "pre2")
			return nil
		}))

		handlerRan := false
		err := RegisterHandlerFunc(m, func(ctx context.Context, req double) (int, error) {
			handlerRan = true
			return 0, nil
		})
		require.NoError(t, err)

		_, err = m.Send(context.Background(), double{})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"pre1"}, order)
		assert.False(t, handlerRan)
	})

	t.Run("post-processors run only after handler success", func(t *testing.T) {
		m := New()
		postRan := false

		m.AddPostProcessor(PostProcessorFunc(func(ctx context.Context, req contracts.Request, response any) error {
			postRan = true
			return nil
		}))

		boom := errors.New("handler failed")
		err := RegisterHandlerFunc(m, func(ctx context.Context, req double) (int, error) {
			return 0, boom
		})
		require.NoError(t, err)

		_, err = m.Send(context.Background(), double{})

		assert.ErrorIs(t, err, boom)
		assert.False(t, postRan)
	})

	t.Run("post-processors observe but do not alter the response", func(t *testing.T) {
		m := New()
		var seen any

		m.AddPostProcessor(PostProcessorFunc(func(ctx context.Context, req contracts.Request, response any) error {
			seen = response
			return nil
		}))

		err := RegisterHandlerFunc(m, func(ctx context.Context, req double) (int, error) {
			return 42, nil
		})
		require.NoError(t, err)

		res, err := m.Send(context.Background(), double{})

		require.NoError(t, err)
		assert.Equal(t, 42, res)
		assert.Equal(t, 42, seen)
	})

	t.Run("post-processor error propagates to the caller", func(t *testing.T) {
		m := New()
		boom := errors.New("post failed")

		m.AddPostProcessor(PostProcessorFunc(func(ctx context.Context, req contracts.Request, response any) error {
			return boom
		}))

		err := RegisterHandlerFunc(m, func(ctx context.Context, req double) (int, error) {
			return 1, nil
		})
		require.NoError(t, err)

		_, err = m.Send(context.Background(), double{})

		assert.ErrorIs(t, err, boom)
	})

	t.Run("behavior that skips next short-circuits handler and post-processors", func(t *testing.T) {
		m := New()
		handlerRan := false
		postRan := false

		m.AddBehavior(NewBehaviorFunc("cache", func(ctx context.Context, req contracts.Request, next HandlerFunc) (any, error) {
			return "cached", nil
		}))
		m.AddPostProcessor(PostProcessorFunc(func(ctx context.Context, req contracts.Request, response any) error {
			postRan = true
			return nil
		}))

		err := RegisterHandlerFunc(m, func(ctx context.Context, req double) (int, error) {
			handlerRan = true
			return 0, nil
		})
		require.NoError(t, err)

		res, err := m.Send(context.Background(), double{})

		require.NoError(t, err)
		assert.Equal(t, "cached", res)
		assert.False(t, handlerRan)
		assert.False(t, postRan)
	})

	t.Run("doubling behavior with logging pre-processor", func(t *testing.T) {
		m := New()
		var order []string

		m.AddPreProcessor(PreProcessorFunc(func(ctx context.Context, req contracts.Request) error {
			order = append(order, "pre")
			return nil
		}))
		m.AddBehavior(NewBehaviorFunc("double-again", func(ctx context.Context, req contracts.Request, next HandlerFunc) (any, error) {
			order = append(order, "behavior-before")
			res, err := next(ctx, req)
			order = append(order, "behavior-after")
			if err != nil {
				return nil, err
			}
			return res.(int) * 2, nil
		}))

		err := RegisterHandlerFunc(m, func(ctx context.Context, req double) (int, error) {
			return req.Value * 2, nil
		})
		require.NoError(t, err)

		res, err := m.Send(context.Background(), double{Value: 5})

		require.NoError(t, err)
		assert.Equal(t, 20, res)
		assert.Equal(t, []string{"pre", "behavior-before", "behavior-after"}, order)
	})

	t.Run("cancelled context aborts before the handler runs", func(t *testing.T) {
		m := New()
		handlerRan := false

		err := RegisterHandlerFunc(m, func(ctx context.Context, req double) (int, error) {
			handlerRan = true
			return 0, nil
		})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = m.Send(ctx, double{})

		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, contracts.IsCancellation(err))
		assert.False(t, handlerRan)
	})
}
