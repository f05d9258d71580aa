package mediator

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/lucafabbri/concordia-go/contracts"
)

// Lifetime annotates how a handler binding was registered. The dispatch
// path does not interpret it beyond calling Transient factories per call;
// it exists so an external composition root can carry its lifetime policy
// through registration.
type Lifetime int

const (
	// Singleton reuses one handler instance across all dispatches.
	Singleton Lifetime = iota
	// Transient creates a handler instance per dispatch via its factory.
	Transient
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// requestBinding maps a request type to its single terminal handler,
// erased to an untyped invocation closure.
type requestBinding struct {
	typeName    string
	requestType reflect.Type
	lifetime    Lifetime
	invoke      HandlerFunc
}

// notificationBinding is one subscriber for a notification type.
type notificationBinding struct {
	typeName string
	invoke   func(ctx context.Context, n contracts.Notification) error
}

// handlerRegistry holds all bindings, keyed by bare struct type name.
// Registration happens at startup; dispatch only reads.
type handlerRegistry struct {
	mu            sync.RWMutex
	requests      map[string]requestBinding
	notifications map[string][]notificationBinding
}

func newHandlerRegistry() *handlerRegistry {
	return &handlerRegistry{
		requests:      make(map[string]requestBinding),
		notifications: make(map[string][]notificationBinding),
	}
}

// addRequest stores a request binding. Exactly one handler may exist per
// request type, so duplicates are rejected.
func (r *handlerRegistry) addRequest(b requestBinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.requests[b.typeName]; exists {
		return fmt.Errorf("handler already registered for request type %s", b.typeName)
	}

	r.requests[b.typeName] = b
	return nil
}

// request resolves the binding for a request type name.
func (r *handlerRegistry) request(typeName string) (requestBinding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.requests[typeName]
	return b, ok
}

// addNotification appends a subscriber for a notification type.
// Invocation order is registration order.
func (r *handlerRegistry) addNotification(b notificationBinding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications[b.typeName] = append(r.notifications[b.typeName], b)
}

// notificationsFor returns a copy of the subscribers for a notification
// type, in registration order.
func (r *handlerRegistry) notificationsFor(typeName string) []notificationBinding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bindings, ok := r.notifications[typeName]
	if !ok {
		return nil
	}

	result := make([]notificationBinding, len(bindings))
	copy(result, bindings)
	return result
}

// registeredRequestTypes returns all request type names with a handler.
func (r *handlerRegistry) registeredRequestTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.requests))
	for typeName := range r.requests {
		types = append(types, typeName)
	}
	return types
}

// typeNameOf derives the registry key for a value: the bare struct name
// with any pointer indirection stripped.
func typeNameOf(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
