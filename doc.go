// Package concordia is an in-process mediator for Go: typed requests
// dispatched to exactly one handler, notifications broadcast to any
// number of subscribers, both flowing through a composable pipeline of
// behaviors and pre/post-processors.
//
// The root package provides the Client facade, which wires the mediator
// with a notification publisher strategy and optional built-in behaviors:
//
//	c, err := concordia.NewClient(
//		concordia.WithLoggingBehavior(),
//		concordia.WithValidation(),
//		concordia.WithParallelPublisher(),
//	)
//
//	m := c.Mediator()
//	mediator.RegisterHandlerFunc(m, func(ctx context.Context, q GetOrder) (Order, error) {
//		return store.Load(ctx, q.ID)
//	})
//
//	order, err := mediator.Send[Order](ctx, m, GetOrder{ID: "o-42"})
//
// See the mediator package for the dispatch engine, behaviors for the
// pipeline behavior catalog, and contracts for the marker interfaces and
// error taxonomy.
package concordia
