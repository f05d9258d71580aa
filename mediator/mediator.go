package mediator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lucafabbri/concordia-go/contracts"
	"github.com/lucafabbri/concordia-go/serialization"
)

// Mediator routes requests to their single terminal handler and fans
// notifications out to their subscribers. All registration state is
// read-only at dispatch time; a Mediator is safe for concurrent use.
type Mediator struct {
	registry  *handlerRegistry
	publisher NotificationPublisher
	types     serialization.TypeRegistry
	typeField string
	logger    *slog.Logger

	mu        sync.RWMutex
	behaviors []PipelineBehavior
	pres      []PreProcessor
	posts     []PostProcessor
}

// Option configures the Mediator.
type Option func(*Mediator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mediator) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithNotificationPublisher sets the fan-out strategy used by Publish.
// The strategy is process-wide: one instance, selected at startup and
// reused for every Publish call.
func WithNotificationPublisher(publisher NotificationPublisher) Option {
	return func(m *Mediator) {
		m.publisher = publisher
	}
}

// WithBehaviors appends pipeline behaviors in registration order. The
// first registered behavior is the outermost wrapper.
func WithBehaviors(behaviors ...PipelineBehavior) Option {
	return func(m *Mediator) {
		m.behaviors = append(m.behaviors, behaviors...)
	}
}

// WithPreProcessors appends pre-processors in registration order.
func WithPreProcessors(pres ...PreProcessor) Option {
	return func(m *Mediator) {
		m.pres = append(m.pres, pres...)
	}
}

// WithPostProcessors appends post-processors in registration order.
func WithPostProcessors(posts ...PostProcessor) Option {
	return func(m *Mediator) {
		m.posts = append(m.posts, posts...)
	}
}

// WithTypeRegistry sets the type registry used by SendRaw to materialize
// requests from raw payloads.
func WithTypeRegistry(types serialization.TypeRegistry) Option {
	return func(m *Mediator) {
		if types != nil {
			m.types = types
		}
	}
}

// WithTypeField sets the JSON field SendRaw reads the request type name
// from. Defaults to "$type".
func WithTypeField(field string) Option {
	return func(m *Mediator) {
		if field != "" {
			m.typeField = field
		}
	}
}

// New creates a Mediator. No notification publisher is bound by default;
// Publish fails with contracts.ErrPublisherNotConfigured until one is
// selected via WithNotificationPublisher.
func New(options ...Option) *Mediator {
	m := &Mediator{
		registry:  newHandlerRegistry(),
		types:     serialization.NewTypeRegistry(),
		typeField: defaultTypeField,
		logger:    slog.Default(),
	}

	for _, opt := range options {
		opt(m)
	}

	return m
}

// AddBehavior appends a behavior after construction. Behaviors added
// while dispatches are in flight apply only to subsequent calls.
func (m *Mediator) AddBehavior(b PipelineBehavior) *Mediator {
	if b == nil {
		return m
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.behaviors = append(m.behaviors, b)
	return m
}

// AddPreProcessor appends a pre-processor after construction.
func (m *Mediator) AddPreProcessor(p PreProcessor) *Mediator {
	if p == nil {
		return m
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pres = append(m.pres, p)
	return m
}

// AddPostProcessor appends a post-processor after construction.
func (m *Mediator) AddPostProcessor(p PostProcessor) *Mediator {
	if p == nil {
		return m
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, p)
	return m
}

// TypeRegistry returns the registry SendRaw resolves request types from.
func (m *Mediator) TypeRegistry() serialization.TypeRegistry {
	return m.types
}

// RegisteredRequestTypes returns all request type names with a handler.
func (m *Mediator) RegisteredRequestTypes() []string {
	return m.registry.registeredRequestTypes()
}

// Send dispatches a request or command to its terminal handler through
// the composed pipeline. The handler is resolved from the request's
// runtime type; a request with no handler fails with
// *contracts.HandlerNotFoundError before any pipeline stage executes.
// Commands return a nil response.
func (m *Mediator) Send(ctx context.Context, req contracts.Request) (any, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	typeName := typeNameOf(req)
	if typeName == "" {
		return nil, fmt.Errorf("request type %T must be a named type", req)
	}

	binding, ok := m.registry.request(typeName)
	if !ok {
		return nil, &contracts.HandlerNotFoundError{RequestType: typeName}
	}

	execute := m.buildPipeline(binding)
	res, err := execute(ctx, req)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("request dispatched",
		"requestType", typeName,
		"lifetime", binding.lifetime.String(),
	)
	return res, nil
}

// Publish fans a notification out to its subscribers according to the
// configured publisher strategy. Zero subscribers is a successful no-op;
// a missing strategy is contracts.ErrPublisherNotConfigured.
func (m *Mediator) Publish(ctx context.Context, notification contracts.Notification) error {
	if notification == nil {
		return fmt.Errorf("notification cannot be nil")
	}
	if m.publisher == nil {
		return contracts.ErrPublisherNotConfigured
	}

	typeName := typeNameOf(notification)
	bindings := m.registry.notificationsFor(typeName)
	if len(bindings) == 0 {
		m.logger.Debug("no handlers registered for notification", "notificationType", typeName)
		return nil
	}

	invocations := make([]NotificationInvocation, len(bindings))
	for i, b := range bindings {
		invocations[i] = b.invoke
	}

	return m.publisher.Publish(ctx, invocations, notification)
}
