package behaviors

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lucafabbri/concordia-go/contracts"
	"github.com/lucafabbri/concordia-go/mediator"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

// pipelineContextKey carries the shared PipelineContext through one
// logical call.
const pipelineContextKey contextKey = "concordia:pipeline:context"

// PipelineContext is the mutable record shared by every contextual
// behavior within one logical call. It is created by the first contextual
// behavior entered, reused by every subsequent one, and disposed when the
// creating behavior unwinds. Concurrent calls never share an instance:
// the context travels inside the call's context.Context, which the
// pipeline threads explicitly through every stage.
type PipelineContext struct {
	ID        string
	StartedAt time.Time

	mu         sync.RWMutex
	success    bool
	errCode    string
	errMessage string
	values     map[string]any
	disposed   bool
}

// NewPipelineContext creates a context marked optimistically successful.
func NewPipelineContext() *PipelineContext {
	return &PipelineContext{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		success:   true,
		values:    make(map[string]any),
	}
}

// Success reports whether the call is still considered successful.
func (pc *PipelineContext) Success() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.success
}

// Fail marks the call failed and records the error message.
func (pc *PipelineContext) Fail(err error) {
	if err == nil {
		return
	}
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.success = false
	pc.errMessage = err.Error()
}

// FailWithCode marks the call failed with an explicit code and message.
func (pc *PipelineContext) FailWithCode(code, message string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.success = false
	pc.errCode = code
	pc.errMessage = message
}

// ErrorCode returns the recorded error code, if any.
func (pc *PipelineContext) ErrorCode() string {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.errCode
}

// ErrorMessage returns the recorded error message, if any.
func (pc *PipelineContext) ErrorMessage() string {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.errMessage
}

// Set stores a value in the shared context.
func (pc *PipelineContext) Set(key string, value any) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.values[key] = value
}

// Get retrieves a value from the shared context.
func (pc *PipelineContext) Get(key string) (any, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	value, exists := pc.values[key]
	return value, exists
}

// GetString retrieves a string value from the shared context.
func (pc *PipelineContext) GetString(key string) (string, bool) {
	value, exists := pc.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// GetInt retrieves an int value from the shared context.
func (pc *PipelineContext) GetInt(key string) (int, bool) {
	value, exists := pc.Get(key)
	if !exists {
		return 0, false
	}
	i, ok := value.(int)
	return i, ok
}

// Increment adds one to an int value and returns the new count.
func (pc *PipelineContext) Increment(key string) int {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	count, _ := pc.values[key].(int)
	count++
	pc.values[key] = count
	return count
}

// Disposed reports whether the owning behavior has released the context.
func (pc *PipelineContext) Disposed() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.disposed
}

// dispose releases the shared state. Only the behavior that created the
// context calls it, exactly once, on every exit path.
func (pc *PipelineContext) dispose() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.disposed = true
	pc.values = make(map[string]any)
}

// FromContext retrieves the shared pipeline context of the current call.
func FromContext(ctx context.Context) (*PipelineContext, bool) {
	value := ctx.Value(pipelineContextKey)
	if value == nil {
		return nil, false
	}
	pc, ok := value.(*PipelineContext)
	return pc, ok
}

// WithPipelineContext attaches a pipeline context for the stages below.
func WithPipelineContext(ctx context.Context, pc *PipelineContext) context.Context {
	return context.WithValue(ctx, pipelineContextKey, pc)
}

// ContextualProcessor receives the shared pipeline context on entry and
// exit of its behavior. OnExit always runs, with err carrying the chain's
// failure when there is one, so every chained processor observes the
// final state of the call.
type ContextualProcessor interface {
	OnEnter(ctx context.Context, pc *PipelineContext, req contracts.Request) error
	OnExit(ctx context.Context, pc *PipelineContext, req contracts.Request, err error)
}

// ContextualBehavior is the reusable base for behaviors that cooperate
// through one call-scoped PipelineContext. The first contextual instance
// entered for a call creates the context and owns its disposal; every
// nested instance detects the existing context and reuses it without
// creating or disposing anything.
type ContextualBehavior struct {
	name string
	proc ContextualProcessor
}

// NewContextualBehavior wraps a processor into a pipeline behavior.
func NewContextualBehavior(name string, proc ContextualProcessor) *ContextualBehavior {
	return &ContextualBehavior{name: name, proc: proc}
}

// Handle implements mediator.PipelineBehavior.
func (b *ContextualBehavior) Handle(ctx context.Context, req contracts.Request, next mediator.HandlerFunc) (any, error) {
	pc, exists := FromContext(ctx)
	if !exists {
		pc = NewPipelineContext()
		ctx = WithPipelineContext(ctx, pc)
		// Owner disposes on every exit path, including downstream errors.
		defer pc.dispose()
	}

	if err := b.proc.OnEnter(ctx, pc, req); err != nil {
		pc.Fail(err)
		b.proc.OnExit(ctx, pc, req, err)
		return nil, err
	}

	res, err := next(ctx, req)
	if err != nil {
		pc.Fail(err)
	}

	b.proc.OnExit(ctx, pc, req, err)
	return res, err
}

// Name implements mediator.PipelineBehavior.
func (b *ContextualBehavior) Name() string {
	return b.name
}
