package behaviors

import (
	"context"

	"github.com/lucafabbri/concordia-go/contracts"
	"github.com/lucafabbri/concordia-go/mediator"
)

// ShortCircuitEvaluator decides whether a request should bypass the rest
// of the chain. When handled is true, result becomes the call's response
// and neither the terminal handler nor the post-processors run.
type ShortCircuitEvaluator interface {
	Evaluate(ctx context.Context, req contracts.Request) (handled bool, result any, err error)
}

// ShortCircuitEvaluatorFunc is a function adapter for ShortCircuitEvaluator.
type ShortCircuitEvaluatorFunc func(ctx context.Context, req contracts.Request) (bool, any, error)

// Evaluate implements ShortCircuitEvaluator.
func (f ShortCircuitEvaluatorFunc) Evaluate(ctx context.Context, req contracts.Request) (bool, any, error) {
	return f(ctx, req)
}

// ShortCircuitBehavior returns a replacement result without invoking the
// rest of the chain when its evaluator says so. Short-circuiting is local
// recovery, not an error: the caller sees a normal response.
type ShortCircuitBehavior struct {
	evaluator ShortCircuitEvaluator
}

// NewShortCircuitBehavior creates a new short-circuit behavior.
func NewShortCircuitBehavior(evaluator ShortCircuitEvaluator) *ShortCircuitBehavior {
	return &ShortCircuitBehavior{evaluator: evaluator}
}

// Handle implements mediator.PipelineBehavior.
func (b *ShortCircuitBehavior) Handle(ctx context.Context, req contracts.Request, next mediator.HandlerFunc) (any, error) {
	handled, result, err := b.evaluator.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}
	if handled {
		return result, nil
	}

	return next(ctx, req)
}

// Name implements mediator.PipelineBehavior.
func (b *ShortCircuitBehavior) Name() string {
	return "ShortCircuitBehavior"
}
