package behaviors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lucafabbri/concordia-go/contracts"
	"github.com/lucafabbri/concordia-go/mediator"
)

// ErrCircuitOpen is returned when the circuit breaker refuses a dispatch.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState represents the circuit breaker state.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerBehavior refuses dispatches while requests keep failing,
// giving the downstream handler time to recover. Cancellations do not
// count as failures. Refusal happens without calling next; the chain
// inside never runs.
type CircuitBreakerBehavior struct {
	mu              sync.Mutex
	state           CircuitState
	failures        int
	successes       int
	lastFailureTime time.Time

	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
	logger           *slog.Logger
}

// CircuitBreakerOption configures the circuit breaker behavior.
type CircuitBreakerOption func(*CircuitBreakerBehavior)

// WithFailureThreshold sets how many consecutive failures trip the
// circuit open.
func WithFailureThreshold(threshold int) CircuitBreakerOption {
	return func(b *CircuitBreakerBehavior) {
		if threshold > 0 {
			b.failureThreshold = threshold
		}
	}
}

// WithSuccessThreshold sets how many half-open successes close the
// circuit again.
func WithSuccessThreshold(threshold int) CircuitBreakerOption {
	return func(b *CircuitBreakerBehavior) {
		if threshold > 0 {
			b.successThreshold = threshold
		}
	}
}

// WithOpenTimeout sets how long the circuit stays open before probing.
func WithOpenTimeout(timeout time.Duration) CircuitBreakerOption {
	return func(b *CircuitBreakerBehavior) {
		if timeout > 0 {
			b.openTimeout = timeout
		}
	}
}

// WithCircuitLogger sets the logger.
func WithCircuitLogger(logger *slog.Logger) CircuitBreakerOption {
	return func(b *CircuitBreakerBehavior) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewCircuitBreakerBehavior creates a circuit breaker behavior with
// sensible defaults: 5 failures to open, 2 successes to close, 30s open
// timeout.
func NewCircuitBreakerBehavior(options ...CircuitBreakerOption) *CircuitBreakerBehavior {
	b := &CircuitBreakerBehavior{
		state:            CircuitClosed,
		failureThreshold: 5,
		successThreshold: 2,
		openTimeout:      30 * time.Second,
		logger:           slog.Default(),
	}

	for _, opt := range options {
		opt(b)
	}

	return b
}

// State returns the current circuit state.
func (b *CircuitBreakerBehavior) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Handle implements mediator.PipelineBehavior.
func (b *CircuitBreakerBehavior) Handle(ctx context.Context, req contracts.Request, next mediator.HandlerFunc) (any, error) {
	if !b.allow() {
		return nil, fmt.Errorf("request %T refused: %w", req, ErrCircuitOpen)
	}

	res, err := next(ctx, req)
	b.record(err)
	return res, err
}

func (b *CircuitBreakerBehavior) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitClosed, CircuitHalfOpen:
		return true
	case CircuitOpen:
		if time.Since(b.lastFailureTime) >= b.openTimeout {
			b.transition(CircuitHalfOpen, "open timeout elapsed")
			return true
		}
		return false
	default:
		return true
	}
}

func (b *CircuitBreakerBehavior) record(err error) {
	if err != nil && contracts.IsCancellation(err) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		b.successes = 0
		b.lastFailureTime = time.Now()

		if b.state == CircuitHalfOpen || b.failures >= b.failureThreshold {
			b.transition(CircuitOpen, err.Error())
		}
		return
	}

	switch b.state {
	case CircuitHalfOpen:
		b.successes++
		if b.successes >= b.successThreshold {
			b.failures = 0
			b.successes = 0
			b.transition(CircuitClosed, "success threshold reached")
		}
	case CircuitClosed:
		b.failures = 0
	}
}

// transition assumes b.mu is held.
func (b *CircuitBreakerBehavior) transition(to CircuitState, reason string) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	b.logger.Info("circuit breaker state changed",
		"from", from.String(),
		"to", to.String(),
		"reason", reason,
	)
}

// Name implements mediator.PipelineBehavior.
func (b *CircuitBreakerBehavior) Name() string {
	return "CircuitBreakerBehavior"
}
