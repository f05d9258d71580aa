package behaviors

import (
	"context"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/lucafabbri/concordia-go/contracts"
	"github.com/lucafabbri/concordia-go/mediator"
)

// ValidationBehavior validates requests against their `validate` struct
// tags before the handler runs. An invalid request never reaches the
// terminal handler.
type ValidationBehavior struct {
	validate *validator.Validate
}

// ValidationOption configures the ValidationBehavior.
type ValidationOption func(*ValidationBehavior)

// WithValidator sets a pre-configured validator instance, for callers
// that register custom validations or translations.
func WithValidator(v *validator.Validate) ValidationOption {
	return func(b *ValidationBehavior) {
		if v != nil {
			b.validate = v
		}
	}
}

// NewValidationBehavior creates a new validation behavior.
func NewValidationBehavior(options ...ValidationOption) *ValidationBehavior {
	b := &ValidationBehavior{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	for _, opt := range options {
		opt(b)
	}

	return b
}

// Handle implements mediator.PipelineBehavior. Non-struct requests pass
// through untouched.
func (b *ValidationBehavior) Handle(ctx context.Context, req contracts.Request, next mediator.HandlerFunc) (any, error) {
	t := reflect.TypeOf(req)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return next(ctx, req)
	}

	if err := b.validate.StructCtx(ctx, req); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}

	return next(ctx, req)
}

// Name implements mediator.PipelineBehavior.
func (b *ValidationBehavior) Name() string {
	return "ValidationBehavior"
}
