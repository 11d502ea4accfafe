// Package trigger accepts translation events over HTTP and feeds them to a
// worker queue that executes the translation job.
package trigger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// EventName is the only event this service reacts to.
const EventName = "book/translate.requested"

// Event is a request to translate one paid order.
type Event struct {
	Name string    `json:"name"`
	Data EventData `json:"data"`
}

type EventData struct {
	OrderID uuid.UUID `json:"orderId"`
}

const eventSchema = `{
  "type": "object",
  "required": ["name", "data"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "data": {
      "type": "object",
      "required": ["orderId"],
      "properties": {
        "orderId": {"type": "string", "minLength": 1}
      }
    }
  }
}`

var compiledEventSchema = jsonschema.MustCompileString("event.json", eventSchema)

// ParseEvent decodes and validates a raw event payload. It rejects payloads
// that fail the schema, carry an unknown event name, or an unparseable
// order id.
func ParseEvent(body []byte) (*Event, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if err := compiledEventSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}

	var raw struct {
		Name string `json:"name"`
		Data struct {
			OrderID string `json:"orderId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if raw.Name != EventName {
		return nil, fmt.Errorf("unsupported event %q", raw.Name)
	}
	id, err := uuid.Parse(strings.TrimSpace(raw.Data.OrderID))
	if err != nil {
		return nil, fmt.Errorf("invalid order id %q: %w", raw.Data.OrderID, err)
	}
	return &Event{Name: raw.Name, Data: EventData{OrderID: id}}, nil
}
