package concordia

import (
	"context"
	"log/slog"

	"github.com/lucafabbri/concordia-go/behaviors"
	"github.com/lucafabbri/concordia-go/contracts"
	"github.com/lucafabbri/concordia-go/mediator"
	"github.com/lucafabbri/concordia-go/serialization"
)

// Client is the main entry point for concordia. It owns a fully wired
// Mediator; dispatch methods delegate to it.
type Client struct {
	mediator *mediator.Mediator
	logger   *slog.Logger
}

type clientConfig struct {
	logger     *slog.Logger
	publisher  mediator.NotificationPublisher
	behaviors  []mediator.PipelineBehavior
	pres       []mediator.PreProcessor
	posts      []mediator.PostProcessor
	types      serialization.TypeRegistry
	typeField  string
	logging    bool
	validation bool
}

// ClientOption configures the Client.
type ClientOption func(*clientConfig)

// WithLogger sets the logger used by the mediator and built-in behaviors.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithNotificationPublisher selects an explicit fan-out strategy.
func WithNotificationPublisher(publisher mediator.NotificationPublisher) ClientOption {
	return func(cfg *clientConfig) {
		cfg.publisher = publisher
	}
}

// WithParallelPublisher selects the parallel fan-out strategy.
func WithParallelPublisher() ClientOption {
	return func(cfg *clientConfig) {
		cfg.publisher = mediator.NewParallelPublisher()
	}
}

// WithBackgroundPublisher selects the fire-and-forget fan-out strategy.
func WithBackgroundPublisher(options ...mediator.BackgroundOption) ClientOption {
	return func(cfg *clientConfig) {
		cfg.publisher = mediator.NewBackgroundPublisher(options...)
	}
}

// WithBehaviors appends pipeline behaviors in registration order.
func WithBehaviors(bs ...mediator.PipelineBehavior) ClientOption {
	return func(cfg *clientConfig) {
		cfg.behaviors = append(cfg.behaviors, bs...)
	}
}

// WithPreProcessors appends pre-processors in registration order.
func WithPreProcessors(ps ...mediator.PreProcessor) ClientOption {
	return func(cfg *clientConfig) {
		cfg.pres = append(cfg.pres, ps...)
	}
}

// WithPostProcessors appends post-processors in registration order.
func WithPostProcessors(ps ...mediator.PostProcessor) ClientOption {
	return func(cfg *clientConfig) {
		cfg.posts = append(cfg.posts, ps...)
	}
}

// WithLoggingBehavior adds the built-in logging behavior as the outermost
// pipeline stage.
func WithLoggingBehavior() ClientOption {
	return func(cfg *clientConfig) {
		cfg.logging = true
	}
}

// WithValidation adds the built-in struct-tag validation behavior.
func WithValidation() ClientOption {
	return func(cfg *clientConfig) {
		cfg.validation = true
	}
}

// WithTypeRegistry sets the registry SendRaw materializes requests from.
func WithTypeRegistry(types serialization.TypeRegistry) ClientOption {
	return func(cfg *clientConfig) {
		cfg.types = types
	}
}

// WithTypeField sets the JSON discriminator field read by SendRaw.
func WithTypeField(field string) ClientOption {
	return func(cfg *clientConfig) {
		cfg.typeField = field
	}
}

// NewClient creates a client. The sequential publisher is the default
// fan-out strategy; pass a publisher option to change it.
func NewClient(options ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		logger:    slog.Default(),
		publisher: mediator.NewSequentialPublisher(),
	}

	for _, opt := range options {
		opt(cfg)
	}

	mediatorOpts := []mediator.Option{
		mediator.WithLogger(cfg.logger),
		mediator.WithNotificationPublisher(cfg.publisher),
	}

	// Built-in behaviors wrap user behaviors: logging outermost so it
	// observes validation refusals too.
	var bs []mediator.PipelineBehavior
	if cfg.logging {
		bs = append(bs, behaviors.NewLoggingBehavior(cfg.logger))
	}
	if cfg.validation {
		bs = append(bs, behaviors.NewValidationBehavior())
	}
	bs = append(bs, cfg.behaviors...)
	if len(bs) > 0 {
		mediatorOpts = append(mediatorOpts, mediator.WithBehaviors(bs...))
	}

	if len(cfg.pres) > 0 {
		mediatorOpts = append(mediatorOpts, mediator.WithPreProcessors(cfg.pres...))
	}
	if len(cfg.posts) > 0 {
		mediatorOpts = append(mediatorOpts, mediator.WithPostProcessors(cfg.posts...))
	}
	if cfg.types != nil {
		mediatorOpts = append(mediatorOpts, mediator.WithTypeRegistry(cfg.types))
	}
	if cfg.typeField != "" {
		mediatorOpts = append(mediatorOpts, mediator.WithTypeField(cfg.typeField))
	}

	return &Client{
		mediator: mediator.New(mediatorOpts...),
		logger:   cfg.logger,
	}, nil
}

// Mediator returns the underlying mediator for handler registration.
func (c *Client) Mediator() *mediator.Mediator {
	return c.mediator
}

// Send dispatches a request or command through the pipeline.
func (c *Client) Send(ctx context.Context, req contracts.Request) (any, error) {
	return c.mediator.Send(ctx, req)
}

// SendRaw dispatches a JSON-encoded request whose type is known only at
// run time.
func (c *Client) SendRaw(ctx context.Context, raw []byte) (any, error) {
	return c.mediator.SendRaw(ctx, raw)
}

// Publish fans a notification out to its subscribers.
func (c *Client) Publish(ctx context.Context, notification contracts.Notification) error {
	return c.mediator.Publish(ctx, notification)
}
