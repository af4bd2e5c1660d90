package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ListingEvent struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
}

// Publisher turns listing mutations into hub broadcasts.
type Publisher struct {
	hub *Hub
	now func() time.Time
}

func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub, now: time.Now}
}

func (p *Publisher) Publish(eventType string, id uuid.UUID) {
	if p == nil || p.hub == nil {
		return
	}

	evt := ListingEvent{
		Type:      eventType,
		ID:        id.String(),
		Timestamp: p.now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	p.hub.Broadcast(b)
}
