package mediator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lucafabbri/concordia-go/contracts"
)

// NotificationInvocation is one bound handler call for a notification.
type NotificationInvocation func(ctx context.Context, notification contracts.Notification) error

// NotificationPublisher is the fan-out strategy driving how a
// notification's handler invocations execute. One instance is selected at
// startup and reused for every Publish call, so implementations must not
// retain per-call state and must be safe for concurrent use.
type NotificationPublisher interface {
	// Publish drives the handler invocations for one notification.
	Publish(ctx context.Context, invocations []NotificationInvocation, notification contracts.Notification) error

	// Name returns the strategy name for logging and debugging.
	Name() string
}

// SequentialPublisher invokes handlers one at a time in registration
// order. A handler error aborts the remaining handlers and propagates
// immediately. Use it when handler ordering or transactional
// dependencies matter.
type SequentialPublisher struct{}

// NewSequentialPublisher creates the sequential fan-out strategy.
func NewSequentialPublisher() *SequentialPublisher {
	return &SequentialPublisher{}
}

// Publish implements NotificationPublisher.
func (p *SequentialPublisher) Publish(ctx context.Context, invocations []NotificationInvocation, notification contracts.Notification) error {
	for _, invoke := range invocations {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := invoke(ctx, notification); err != nil {
			return err
		}
	}
	return nil
}

// Name implements NotificationPublisher.
func (p *SequentialPublisher) Name() string {
	return "sequential"
}

// ParallelPublisher invokes every handler concurrently and waits for all
// of them to settle. Failures are aggregated and surfaced once after the
// slowest handler finishes; siblings are never cancelled by another
// handler's failure.
type ParallelPublisher struct{}

// NewParallelPublisher creates the parallel fan-out strategy.
func NewParallelPublisher() *ParallelPublisher {
	return &ParallelPublisher{}
}

// Publish implements NotificationPublisher.
func (p *ParallelPublisher) Publish(ctx context.Context, invocations []NotificationInvocation, notification contracts.Notification) error {
	var wg sync.WaitGroup
	errChan := make(chan error, len(invocations))

	for _, invoke := range invocations {
		wg.Add(1)
		go func(invoke NotificationInvocation) {
			defer wg.Done()
			if err := invoke(ctx, notification); err != nil {
				errChan <- err
			}
		}(invoke)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("notification publish failed with %d errors: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// Name implements NotificationPublisher.
func (p *ParallelPublisher) Name() string {
	return "parallel"
}

// ErrorSink receives handler failures from the background publisher,
// which returns before its handlers run and therefore cannot surface
// their errors to the caller.
type ErrorSink interface {
	NotificationFailed(notification contracts.Notification, err error)
}

// ErrorSinkFunc is a function adapter for ErrorSink.
type ErrorSinkFunc func(notification contracts.Notification, err error)

// NotificationFailed implements ErrorSink.
func (f ErrorSinkFunc) NotificationFailed(notification contracts.Notification, err error) {
	f(notification, err)
}

// BackgroundPublisher schedules every handler invocation on a background
// goroutine and returns immediately. Handler errors never reach the
// original caller; they are reported to the configured ErrorSink (the
// logger by default) and are never silently dropped.
type BackgroundPublisher struct {
	logger *slog.Logger
	sink   ErrorSink
	wg     sync.WaitGroup
}

// BackgroundOption configures the BackgroundPublisher.
type BackgroundOption func(*BackgroundPublisher)

// WithBackgroundLogger sets the logger.
func WithBackgroundLogger(logger *slog.Logger) BackgroundOption {
	return func(p *BackgroundPublisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithErrorSink sets the sink receiving background handler failures.
func WithErrorSink(sink ErrorSink) BackgroundOption {
	return func(p *BackgroundPublisher) {
		if sink != nil {
			p.sink = sink
		}
	}
}

// NewBackgroundPublisher creates the fire-and-forget fan-out strategy.
func NewBackgroundPublisher(options ...BackgroundOption) *BackgroundPublisher {
	p := &BackgroundPublisher{
		logger: slog.Default(),
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Publish implements NotificationPublisher. The caller's cancellation is
// detached before scheduling so handlers outlive the originating call;
// context values, including the flow-scoped pipeline context of an
// enclosing dispatch, remain visible.
func (p *BackgroundPublisher) Publish(ctx context.Context, invocations []NotificationInvocation, notification contracts.Notification) error {
	detached := context.WithoutCancel(ctx)

	for _, invoke := range invocations {
		p.wg.Add(1)
		go func(invoke NotificationInvocation) {
			defer p.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					p.report(notification, fmt.Errorf("notification handler panicked: %v", r))
				}
			}()

			if err := invoke(detached, notification); err != nil {
				p.report(notification, err)
			}
		}(invoke)
	}

	return nil
}

func (p *BackgroundPublisher) report(notification contracts.Notification, err error) {
	if p.sink != nil {
		p.sink.NotificationFailed(notification, err)
		return
	}
	p.logger.Error("background notification handler failed",
		"notificationType", typeNameOf(notification),
		"error", err,
	)
}

// Wait blocks until all scheduled handler invocations have finished. Call
// it during shutdown to drain in-flight notifications.
func (p *BackgroundPublisher) Wait() {
	p.wg.Wait()
}

// Name implements NotificationPublisher.
func (p *BackgroundPublisher) Name() string {
	return "background"
}
