package contracts

import (
	"context"
	"errors"
	"fmt"
)

// ErrPublisherNotConfigured is returned by Publish when no notification
// publisher strategy has been bound to the mediator.
var ErrPublisherNotConfigured = errors.New("notification publisher not configured")

// HandlerNotFoundError is returned when a request or command has no
// registered terminal handler. The request type name is always carried so
// callers on the dynamic dispatch path can identify the offending type.
type HandlerNotFoundError struct {
	RequestType string
}

// Error implements the error interface.
func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("no handler registered for request type %s", e.RequestType)
}

// IsHandlerNotFound reports whether err indicates a missing terminal handler.
func IsHandlerNotFound(err error) bool {
	var hnf *HandlerNotFoundError
	return errors.As(err, &hnf)
}

// InvocationError wraps a failure of the dispatch mechanism itself, as
// opposed to a failure raised by a handler or behavior. It occurs only on
// the dynamic path, where the request type is not known at compile time:
// a binding closure rejecting an incompatible concrete type, or a raw
// payload that cannot be materialized. The true cause stays inspectable
// through Unwrap.
type InvocationError struct {
	RequestType string
	Cause       error
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	return fmt.Sprintf("invocation failed for request type %s: %v", e.RequestType, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *InvocationError) Unwrap() error {
	return e.Cause
}

// IsCancellation reports whether err resulted from context cancellation or
// deadline expiry rather than a handler fault.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
