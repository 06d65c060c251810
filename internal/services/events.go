package services

import (
	"encoding/json"
	"time"

	"inventory/internal/models"
)

// Product event types published after a successful write.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher delivers product events to a message broker.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// ProductEvent is the JSON body of a published product event.
type ProductEvent struct {
	Type       string         `json:"type"`
	Product    models.Product `json:"product"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func (e ProductEvent) marshal() ([]byte, error) {
	return json.Marshal(e)
}
