package mediator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/lucafabbri/concordia-go/contracts"
)

// defaultTypeField is the JSON field carrying the request type name in
// raw payloads.
const defaultTypeField = "$type"

// SendRaw dispatches a JSON-encoded request whose concrete type is known
// only at run time. The type name is read from the configured
// discriminator field, the request is materialized through the type
// registry and unmarshaled, and the result flows through the exact same
// pipeline as Send.
//
// A type name with no registered request type or no registered handler
// fails with *contracts.HandlerNotFoundError naming the runtime type. A
// payload that cannot be materialized fails with
// *contracts.InvocationError wrapping the true cause.
func (m *Mediator) SendRaw(ctx context.Context, raw []byte) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("raw request cannot be empty")
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("raw request is not valid JSON")
	}

	typeName := gjson.GetBytes(raw, m.typeField).String()
	if typeName == "" {
		return nil, fmt.Errorf("raw request missing %q discriminator field", m.typeField)
	}

	req, err := m.types.CreateInstance(typeName)
	if err != nil {
		return nil, &contracts.HandlerNotFoundError{RequestType: typeName}
	}

	if err := json.Unmarshal(raw, req); err != nil {
		return nil, &contracts.InvocationError{
			RequestType: typeName,
			Cause:       fmt.Errorf("unmarshal raw request: %w", err),
		}
	}

	return m.Send(ctx, req)
}
