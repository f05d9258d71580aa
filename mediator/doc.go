// Package mediator implements the in-process dispatch engine: typed
// requests and commands routed to exactly one handler, notifications
// fanned out to any number of handlers, both through a configurable
// pipeline of behaviors and pre/post-processors.
//
// # Dispatch
//
// Handlers are registered with the generic helpers and resolved from the
// request's runtime type, so a single untyped Send entry point serves both
// the statically-typed and the dynamic dispatch paths:
//
//	m := mediator.New()
//
//	mediator.RegisterHandlerFunc(m, func(ctx context.Context, q GetOrder) (Order, error) {
//		return store.Load(ctx, q.ID)
//	})
//
//	order, err := mediator.Send[Order](ctx, m, GetOrder{ID: "o-42"})
//
// A request with no registered handler fails fast with
// *contracts.HandlerNotFoundError before any pipeline stage runs.
//
// # Pipeline
//
// Each Send composes a fresh execution chain: pre-processors run first in
// registration order, then behaviors wrap the terminal handler with the
// first-registered behavior outermost, and post-processors run after the
// handler succeeds. A behavior that returns without calling next
// short-circuits the chain; the handler and post-processors are skipped.
//
// # Notifications
//
// Publish resolves zero or more handlers and hands their invocations to
// the configured NotificationPublisher strategy: sequential, parallel, or
// background fire-and-forget. Zero handlers is a successful no-op; a
// missing publisher is contracts.ErrPublisherNotConfigured.
package mediator
