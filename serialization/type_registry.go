package serialization

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/lucafabbri/concordia-go/contracts"
)

// TypeRegistry resolves request types from their registered names. The
// dynamic dispatch path uses it to materialize a request struct from a raw
// payload whose type is only known at run time.
type TypeRegistry interface {
	// Register registers a request type under an explicit type name.
	Register(typeName string, req contracts.Request) error

	// RegisterType registers a request type under its struct name.
	RegisterType(req contracts.Request) error

	// Get retrieves the reflect.Type for a registered type name.
	Get(typeName string) (reflect.Type, error)

	// CreateInstance creates a new pointer instance of the registered type.
	CreateInstance(typeName string) (contracts.Request, error)

	// GetTypeName returns the registered name for a request value.
	GetTypeName(req contracts.Request) (string, error)

	// IsRegistered checks whether a type name is registered.
	IsRegistered(typeName string) bool

	// ListTypes returns all registered type names.
	ListTypes() []string
}

// DefaultTypeRegistry is the default implementation of TypeRegistry.
type DefaultTypeRegistry struct {
	types map[string]reflect.Type
	names map[reflect.Type]string
	mu    sync.RWMutex
}

// NewTypeRegistry creates a new type registry.
func NewTypeRegistry() *DefaultTypeRegistry {
	return &DefaultTypeRegistry{
		types: make(map[string]reflect.Type),
		names: make(map[reflect.Type]string),
	}
}

// Register registers a request type under an explicit type name.
func (r *DefaultTypeRegistry) Register(typeName string, req contracts.Request) error {
	if typeName == "" {
		return fmt.Errorf("type name cannot be empty")
	}
	if req == nil {
		return fmt.Errorf("request type cannot be nil")
	}

	t := reflect.TypeOf(req)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("request type must be a struct, got %v", t.Kind())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.types[typeName]; exists {
		if existing == t {
			// Same type, ignore
			return nil
		}
		return fmt.Errorf("type name %s already registered to %v", typeName, existing)
	}

	r.types[typeName] = t
	r.names[t] = typeName

	return nil
}

// RegisterType registers a request type under its bare struct name, which
// is what the dynamic dispatch path keys handler bindings by.
func (r *DefaultTypeRegistry) RegisterType(req contracts.Request) error {
	if req == nil {
		return fmt.Errorf("request type cannot be nil")
	}

	t := reflect.TypeOf(req)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	typeName := t.Name()
	if typeName == "" {
		return fmt.Errorf("cannot determine type name for %v", t)
	}

	return r.Register(typeName, req)
}

// Get retrieves the reflect.Type for a registered type name.
func (r *DefaultTypeRegistry) Get(typeName string) (reflect.Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.types[typeName]
	if !exists {
		return nil, fmt.Errorf("type %s not registered", typeName)
	}

	return t, nil
}

// CreateInstance creates a new pointer instance of the registered type,
// ready to be unmarshaled into.
func (r *DefaultTypeRegistry) CreateInstance(typeName string) (contracts.Request, error) {
	t, err := r.Get(typeName)
	if err != nil {
		return nil, err
	}

	return reflect.New(t).Interface(), nil
}

// GetTypeName returns the registered name for a request value.
func (r *DefaultTypeRegistry) GetTypeName(req contracts.Request) (string, error) {
	if req == nil {
		return "", fmt.Errorf("request cannot be nil")
	}

	t := reflect.TypeOf(req)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	name, exists := r.names[t]
	if !exists {
		return "", fmt.Errorf("type %v not registered", t)
	}

	return name, nil
}

// IsRegistered checks whether a type name is registered.
func (r *DefaultTypeRegistry) IsRegistered(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.types[typeName]
	return exists
}

// ListTypes returns all registered type names.
func (r *DefaultTypeRegistry) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.types))
	for typeName := range r.types {
		types = append(types, typeName)
	}

	return types
}
