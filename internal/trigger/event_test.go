package trigger

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseEvent(t *testing.T) {
	id := uuid.New()
	body := `{"name":"book/translate.requested","data":{"orderId":"` + id.String() + `"}}`

	event, err := ParseEvent([]byte(body))
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	if event.Name != EventName {
		t.Errorf("name = %q", event.Name)
	}
	if event.Data.OrderID != id {
		t.Errorf("order id = %s, want %s", event.Data.OrderID, id)
	}
}

func TestParseEventRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"not json", `{{`, "decode event"},
		{"missing data", `{"name":"book/translate.requested"}`, "invalid event"},
		{"missing order id", `{"name":"book/translate.requested","data":{}}`, "invalid event"},
		{"wrong event name", `{"name":"book/other","data":{"orderId":"` + uuid.NewString() + `"}}`, "unsupported event"},
		{"bad uuid", `{"name":"book/translate.requested","data":{"orderId":"not-a-uuid"}}`, "invalid order id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}
