package mediator

import (
	"context"

	"github.com/lucafabbri/concordia-go/contracts"
)

// RequestHandler handles a specific request type and produces a response.
type RequestHandler[TReq contracts.Request, TRes any] interface {
	Handle(ctx context.Context, req TReq) (TRes, error)
}

// RequestHandlerFunc is a function adapter for RequestHandler.
type RequestHandlerFunc[TReq contracts.Request, TRes any] func(ctx context.Context, req TReq) (TRes, error)

// Handle implements RequestHandler.
func (f RequestHandlerFunc[TReq, TRes]) Handle(ctx context.Context, req TReq) (TRes, error) {
	return f(ctx, req)
}

// CommandHandler handles a fire-and-forget request that produces no
// response value.
type CommandHandler[TReq contracts.Request] interface {
	Handle(ctx context.Context, req TReq) error
}

// CommandHandlerFunc is a function adapter for CommandHandler.
type CommandHandlerFunc[TReq contracts.Request] func(ctx context.Context, req TReq) error

// Handle implements CommandHandler.
func (f CommandHandlerFunc[TReq]) Handle(ctx context.Context, req TReq) error {
	return f(ctx, req)
}

// NotificationHandler handles a broadcast notification type.
type NotificationHandler[TN contracts.Notification] interface {
	Handle(ctx context.Context, notification TN) error
}

// NotificationHandlerFunc is a function adapter for NotificationHandler.
type NotificationHandlerFunc[TN contracts.Notification] func(ctx context.Context, notification TN) error

// Handle implements NotificationHandler.
func (f NotificationHandlerFunc[TN]) Handle(ctx context.Context, notification TN) error {
	return f(ctx, notification)
}

// HandlerFunc is the untyped continuation threaded through the composed
// pipeline. Behaviors receive it as next; the innermost instance is the
// terminal handler itself.
type HandlerFunc func(ctx context.Context, req contracts.Request) (any, error)

// PipelineBehavior wraps request execution with cross-cutting logic. A
// behavior may run code before and after calling next, replace the
// response, or return without calling next to short-circuit the chain.
type PipelineBehavior interface {
	// Handle processes the request and calls next to continue the chain.
	Handle(ctx context.Context, req contracts.Request, next HandlerFunc) (any, error)

	// Name returns the behavior name for logging and debugging.
	Name() string
}

// BehaviorFunc is a function-based PipelineBehavior.
type BehaviorFunc struct {
	name string
	fn   func(ctx context.Context, req contracts.Request, next HandlerFunc) (any, error)
}

// NewBehaviorFunc creates a new function-based behavior.
func NewBehaviorFunc(name string, fn func(ctx context.Context, req contracts.Request, next HandlerFunc) (any, error)) *BehaviorFunc {
	return &BehaviorFunc{name: name, fn: fn}
}

// Handle implements PipelineBehavior.
func (b *BehaviorFunc) Handle(ctx context.Context, req contracts.Request, next HandlerFunc) (any, error) {
	return b.fn(ctx, req, next)
}

// Name implements PipelineBehavior.
func (b *BehaviorFunc) Name() string {
	return b.name
}

// PreProcessor runs before the behavior chain. A pre-processor error
// aborts the remaining pre-processors and the whole call.
type PreProcessor interface {
	Process(ctx context.Context, req contracts.Request) error
}

// PreProcessorFunc is a function adapter for PreProcessor.
type PreProcessorFunc func(ctx context.Context, req contracts.Request) error

// Process implements PreProcessor.
func (f PreProcessorFunc) Process(ctx context.Context, req contracts.Request) error {
	return f(ctx, req)
}

// PostProcessor runs after the terminal handler succeeds, receiving the
// request and the final response. Post-processors observe the response
// but do not alter the value returned to the caller.
type PostProcessor interface {
	Process(ctx context.Context, req contracts.Request, response any) error
}

// PostProcessorFunc is a function adapter for PostProcessor.
type PostProcessorFunc func(ctx context.Context, req contracts.Request, response any) error

// Process implements PostProcessor.
func (f PostProcessorFunc) Process(ctx context.Context, req contracts.Request, response any) error {
	return f(ctx, req, response)
}
