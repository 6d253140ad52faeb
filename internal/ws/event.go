package ws

import (
	"encoding/json"
	"time"
)

type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Publish encodes an event and broadcasts it. It never blocks the caller.
func (h *Hub) Publish(eventType string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Printf("WS publish error | type=%s error=%v", eventType, err)
		return
	}
	h.Broadcast(b)
}
