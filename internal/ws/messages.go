package ws

import (
	"encoding/json"
	"fmt"

	"github.com/quizparty/quizparty/internal/model"
)

// Envelope is the wire framing for every message in both directions:
// a named event plus an event-specific JSON body.
type Envelope struct {
	Event model.EventType `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode marshals an outbound event with its payload
func Encode(event model.EventType, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", event, err)
		}
		data = b
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

// Decode unmarshals an inbound envelope
func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode message: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("message has no event name")
	}
	return env, nil
}
