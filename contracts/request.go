package contracts

import (
	"time"

	"github.com/google/uuid"
)

// Request marks an operation that is dispatched to exactly one handler.
// A request may produce a response value or be a fire-and-forget command;
// the distinction is made at handler registration, not here.
type Request interface{}

// Notification marks a broadcast event. Zero or more handlers may be
// registered for a notification type and no response is collected.
type Notification interface{}

// Correlated is implemented by messages that carry identity and
// correlation metadata. The engine never requires it; behaviors such as
// logging use it when present.
type Correlated interface {
	GetID() string
	GetTimestamp() time.Time
	GetCorrelationID() string
	SetCorrelationID(correlationID string)
}

// BaseRequest provides identity fields for request types that want them.
// Embed it by value; the engine treats the enclosing struct as plain data.
type BaseRequest struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlationId,omitempty"`
}

// NewBaseRequest creates a BaseRequest with a generated ID and the
// current UTC timestamp.
func NewBaseRequest() BaseRequest {
	return BaseRequest{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
	}
}

// GetID returns the request ID.
func (r BaseRequest) GetID() string {
	return r.ID
}

// GetTimestamp returns the request creation time.
func (r BaseRequest) GetTimestamp() time.Time {
	return r.Timestamp
}

// GetCorrelationID returns the correlation ID.
func (r BaseRequest) GetCorrelationID() string {
	return r.CorrelationID
}

// SetCorrelationID sets the correlation ID.
func (r *BaseRequest) SetCorrelationID(correlationID string) {
	r.CorrelationID = correlationID
}

// BaseNotification provides identity fields for notification types.
type BaseNotification struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Source        string    `json:"source,omitempty"`
}

// NewBaseNotification creates a BaseNotification with a generated ID and
// the current UTC timestamp.
func NewBaseNotification() BaseNotification {
	return BaseNotification{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
	}
}

// GetID returns the notification ID.
func (n BaseNotification) GetID() string {
	return n.ID
}

// GetTimestamp returns the notification creation time.
func (n BaseNotification) GetTimestamp() time.Time {
	return n.Timestamp
}

// GetCorrelationID returns the correlation ID.
func (n BaseNotification) GetCorrelationID() string {
	return n.CorrelationID
}

// SetCorrelationID sets the correlation ID.
func (n *BaseNotification) SetCorrelationID(correlationID string) {
	n.CorrelationID = correlationID
}
