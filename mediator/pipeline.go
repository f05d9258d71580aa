package mediator

import (
	"context"

	"github.com/lucafabbri/concordia-go/contracts"
)

// buildPipeline composes the per-call execution chain for a resolved
// binding: pre-processors, then the behavior chain wrapping the terminal
// handler, with post-processors running immediately after the handler
// succeeds. The chain is built fresh per dispatch and never persisted, so
// no call can observe another call's composition.
//
// Folding the behavior slice right-to-left makes the first-registered
// behavior the outermost wrapper: execution enters behaviors in
// registration order and unwinds in reverse. A behavior that returns
// without calling next skips everything inside it, including the handler
// and the post-processors.
func (m *Mediator) buildPipeline(binding requestBinding) HandlerFunc {
	m.mu.RLock()
	behaviors := m.behaviors
	pres := m.pres
	posts := m.posts
	m.mu.RUnlock()

	terminal := HandlerFunc(func(ctx context.Context, req contracts.Request) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := binding.invoke(ctx, req)
		if err != nil {
			return nil, err
		}

		for _, post := range posts {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := post.Process(ctx, req, res); err != nil {
				return nil, err
			}
		}

		return res, nil
	})

	chain := terminal
	for i := len(behaviors) - 1; i >= 0; i-- {
		behavior := behaviors[i]
		next := chain
		chain = func(ctx context.Context, req contracts.Request) (any, error) {
			return behavior.Handle(ctx, req, next)
		}
	}

	return func(ctx context.Context, req contracts.Request) (any, error) {
		for _, pre := range pres {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := pre.Process(ctx, req); err != nil {
				return nil, err
			}
		}

		return chain(ctx, req)
	}
}
