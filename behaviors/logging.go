package behaviors

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lucafabbri/concordia-go/contracts"
	"github.com/lucafabbri/concordia-go/mediator"
)

// LoggingBehavior logs every dispatch with its duration and outcome.
type LoggingBehavior struct {
	logger *slog.Logger
}

// NewLoggingBehavior creates a new logging behavior.
func NewLoggingBehavior(logger *slog.Logger) *LoggingBehavior {
	if logger == nil {
		logger = slog.Default()
	}

	return &LoggingBehavior{logger: logger}
}

// Handle implements mediator.PipelineBehavior.
func (b *LoggingBehavior) Handle(ctx context.Context, req contracts.Request, next mediator.HandlerFunc) (any, error) {
	start := time.Now()
	requestType := fmt.Sprintf("%T", req)

	attrs := []any{"requestType", requestType}
	if c, ok := req.(contracts.Correlated); ok {
		attrs = append(attrs, "requestId", c.GetID(), "correlationId", c.GetCorrelationID())
	}

	b.logger.Info("dispatching request", attrs...)

	res, err := next(ctx, req)
	duration := time.Since(start)

	switch {
	case err != nil && contracts.IsCancellation(err):
		b.logger.Warn("request cancelled", append(attrs, "duration", duration)...)
	case err != nil:
		b.logger.Error("request failed", append(attrs, "duration", duration, "error", err)...)
	default:
		b.logger.Info("request handled", append(attrs, "duration", duration)...)
	}

	return res, err
}

// Name implements mediator.PipelineBehavior.
func (b *LoggingBehavior) Name() string {
	return "LoggingBehavior"
}
