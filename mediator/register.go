package mediator

import (
	"context"
	"fmt"
	"reflect"

	"github.com/lucafabbri/concordia-go/contracts"
)

// requestTypeOf resolves the registry key and reflect.Type for the TReq
// type parameter without needing a value, so pointer request types work.
func requestTypeOf[TReq contracts.Request]() (string, reflect.Type, error) {
	t := reflect.TypeOf((*TReq)(nil)).Elem()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "", nil, fmt.Errorf("request type %v must be a named type", t)
	}
	return t.Name(), t, nil
}

// coerce asserts an untyped request back to TReq. SendRaw materializes
// requests as pointers, so a pointer to TReq is accepted as well.
func coerce[TReq contracts.Request](typeName string, req contracts.Request) (TReq, error) {
	if typed, ok := req.(TReq); ok {
		return typed, nil
	}
	if p, ok := req.(*TReq); ok {
		return *p, nil
	}

	var zero TReq
	return zero, &contracts.InvocationError{
		RequestType: typeName,
		Cause:       fmt.Errorf("request is %T, handler expects %T", req, zero),
	}
}

// RegisterHandler binds the single terminal handler for request type TReq.
// Registering a second handler for the same type is an error.
func RegisterHandler[TReq contracts.Request, TRes any](m *Mediator, handler RequestHandler[TReq, TRes]) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	typeName, requestType, err := requestTypeOf[TReq]()
	if err != nil {
		return err
	}

	return m.registry.addRequest(requestBinding{
		typeName:    typeName,
		requestType: requestType,
		lifetime:    Singleton,
		invoke: func(ctx context.Context, req contracts.Request) (any, error) {
			typed, err := coerce[TReq](typeName, req)
			if err != nil {
				return nil, err
			}
			return handler.Handle(ctx, typed)
		},
	})
}

// RegisterHandlerFunc binds a function as the terminal handler for TReq.
func RegisterHandlerFunc[TReq contracts.Request, TRes any](m *Mediator, fn func(ctx context.Context, req TReq) (TRes, error)) error {
	return RegisterHandler(m, RequestHandlerFunc[TReq, TRes](fn))
}

// RegisterHandlerFactory binds a handler factory for TReq. Transient
// bindings call the factory once per dispatch; Singleton bindings call it
// once at registration. The lifetime tag itself comes from the external
// composition root and is not otherwise interpreted.
func RegisterHandlerFactory[TReq contracts.Request, TRes any](m *Mediator, factory func() RequestHandler[TReq, TRes], lifetime Lifetime) error {
	if factory == nil {
		return fmt.Errorf("handler factory cannot be nil")
	}

	typeName, requestType, err := requestTypeOf[TReq]()
	if err != nil {
		return err
	}

	invoke := func(ctx context.Context, req contracts.Request) (any, error) {
		typed, err := coerce[TReq](typeName, req)
		if err != nil {
			return nil, err
		}
		return factory().Handle(ctx, typed)
	}
	if lifetime == Singleton {
		handler := factory()
		invoke = func(ctx context.Context, req contracts.Request) (any, error) {
			typed, err := coerce[TReq](typeName, req)
			if err != nil {
				return nil, err
			}
			return handler.Handle(ctx, typed)
		}
	}

	return m.registry.addRequest(requestBinding{
		typeName:    typeName,
		requestType: requestType,
		lifetime:    lifetime,
		invoke:      invoke,
	})
}

// RegisterCommandHandler binds the terminal handler for a fire-and-forget
// command type. The dispatched response is always nil.
func RegisterCommandHandler[TReq contracts.Request](m *Mediator, handler CommandHandler[TReq]) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	typeName, requestType, err := requestTypeOf[TReq]()
	if err != nil {
		return err
	}

	return m.registry.addRequest(requestBinding{
		typeName:    typeName,
		requestType: requestType,
		lifetime:    Singleton,
		invoke: func(ctx context.Context, req contracts.Request) (any, error) {
			typed, err := coerce[TReq](typeName, req)
			if err != nil {
				return nil, err
			}
			return nil, handler.Handle(ctx, typed)
		},
	})
}

// RegisterCommandHandlerFunc binds a function as a command handler.
func RegisterCommandHandlerFunc[TReq contracts.Request](m *Mediator, fn func(ctx context.Context, req TReq) error) error {
	return RegisterCommandHandler(m, CommandHandlerFunc[TReq](fn))
}

// RegisterNotificationHandler subscribes a handler to notification type
// TN. Any number of handlers may subscribe to the same type; sequential
// publishing invokes them in registration order.
func RegisterNotificationHandler[TN contracts.Notification](m *Mediator, handler NotificationHandler[TN]) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	t := reflect.TypeOf((*TN)(nil)).Elem()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	typeName := t.Name()
	if typeName == "" {
		return fmt.Errorf("notification type %v must be a named type", t)
	}

	m.registry.addNotification(notificationBinding{
		typeName: typeName,
		invoke: func(ctx context.Context, n contracts.Notification) error {
			typed, ok := n.(TN)
			if !ok {
				if p, okp := n.(*TN); okp {
					typed, ok = *p, true
				}
			}
			if !ok {
				return fmt.Errorf("notification is %T, handler expects %v", n, t)
			}
			return handler.Handle(ctx, typed)
		},
	})
	return nil
}

// RegisterNotificationHandlerFunc subscribes a function to TN.
func RegisterNotificationHandlerFunc[TN contracts.Notification](m *Mediator, fn func(ctx context.Context, notification TN) error) error {
	return RegisterNotificationHandler(m, NotificationHandlerFunc[TN](fn))
}

// Send dispatches a request and asserts the response to TRes. It is a
// typed convenience over Mediator.Send for callers that know the response
// type at compile time.
func Send[TRes any](ctx context.Context, m *Mediator, req contracts.Request) (TRes, error) {
	var zero TRes

	res, err := m.Send(ctx, req)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}

	typed, ok := res.(TRes)
	if !ok {
		return zero, fmt.Errorf("response is %T, caller expects %T", res, zero)
	}
	return typed, nil
}
