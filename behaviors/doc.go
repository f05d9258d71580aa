// Package behaviors provides pipeline behavior implementations for the
// concordia mediator.
//
// Built-in behaviors:
//   - ContextualBehavior: shares one flow-scoped PipelineContext across
//     every chained contextual instance of a single call
//   - LoggingBehavior: logs request dispatch with timing information
//   - ValidationBehavior: validates requests via struct tags before the
//     handler runs
//   - MetricsBehavior: collects dispatch metrics through a collector
//   - TimeoutBehavior: bounds handler execution time
//   - CircuitBreakerBehavior: refuses dispatch while a request type keeps
//     failing
//   - ShortCircuitBehavior: returns a replacement result without invoking
//     the rest of the chain
//
// Custom behaviors implement mediator.PipelineBehavior:
//
//	type AuditBehavior struct{}
//
//	func (b *AuditBehavior) Handle(ctx context.Context, req contracts.Request, next mediator.HandlerFunc) (any, error) {
//		// before
//		res, err := next(ctx, req)
//		// after
//		return res, err
//	}
//
//	func (b *AuditBehavior) Name() string { return "AuditBehavior" }
//
// Behaviors execute in registration order on the way in and unwind in
// reverse on the way out. Returning without calling next short-circuits
// the chain; the terminal handler and post-processors are skipped and the
// behavior's own return value becomes the call's result.
package behaviors
