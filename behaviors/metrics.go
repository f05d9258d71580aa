package behaviors

import (
	"context"
	"fmt"
	"time"

	"github.com/lucafabbri/concordia-go/contracts"
	"github.com/lucafabbri/concordia-go/mediator"
)

// MetricsCollector receives dispatch metrics.
type MetricsCollector interface {
	IncrementRequestCount(requestType string)
	RecordDispatchTime(requestType string, duration time.Duration)
	IncrementErrorCount(requestType string)
}

// MetricsBehavior reports request counts, dispatch durations, and error
// counts to a collector.
type MetricsBehavior struct {
	collector MetricsCollector
}

// NewMetricsBehavior creates a new metrics behavior.
func NewMetricsBehavior(collector MetricsCollector) *MetricsBehavior {
	return &MetricsBehavior{collector: collector}
}

// Handle implements mediator.PipelineBehavior.
func (b *MetricsBehavior) Handle(ctx context.Context, req contracts.Request, next mediator.HandlerFunc) (any, error) {
	start := time.Now()
	requestType := fmt.Sprintf("%T", req)

	b.collector.IncrementRequestCount(requestType)

	res, err := next(ctx, req)
	b.collector.RecordDispatchTime(requestType, time.Since(start))

	if err != nil {
		b.collector.IncrementErrorCount(requestType)
	}

	return res, err
}

// Name implements mediator.PipelineBehavior.
func (b *MetricsBehavior) Name() string {
	return "MetricsBehavior"
}
