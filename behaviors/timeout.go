package behaviors

import (
	"context"
	"time"

	"github.com/lucafabbri/concordia-go/contracts"
	"github.com/lucafabbri/concordia-go/mediator"
)

// TimeoutBehavior bounds how long the rest of the chain may run. On
// expiry the caller receives context.DeadlineExceeded, which
// contracts.IsCancellation recognizes as a cancellation rather than a
// handler fault.
type TimeoutBehavior struct {
	timeout time.Duration
}

// NewTimeoutBehavior creates a new timeout behavior.
func NewTimeoutBehavior(timeout time.Duration) *TimeoutBehavior {
	return &TimeoutBehavior{timeout: timeout}
}

type dispatchResult struct {
	res any
	err error
}

// Handle implements mediator.PipelineBehavior.
func (b *TimeoutBehavior) Handle(ctx context.Context, req contracts.Request, next mediator.HandlerFunc) (any, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	done := make(chan dispatchResult, 1)
	go func() {
		res, err := next(timeoutCtx, req)
		done <- dispatchResult{res: res, err: err}
	}()

	select {
	case r := <-done:
		return r.res, r.err
	case <-timeoutCtx.Done():
		return nil, timeoutCtx.Err()
	}
}

// Name implements mediator.PipelineBehavior.
func (b *TimeoutBehavior) Name() string {
	return "TimeoutBehavior"
}
