package models

import "time"

// Item represents a todo item. Timestamps are milliseconds since the Unix epoch.
type Item struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Checked   bool   `json:"checked"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

const (
	EventItemCreated = "item.created"
	EventItemUpdated = "item.updated"
)

// ItemEvent is the message payload published to Kafka after a successful write.
type ItemEvent struct {
	Type       string `json:"type"` // item.created, item.updated
	ID         string `json:"id"`
	Item       Item   `json:"item"`
	OccurredAt int64  `json:"occurredAt"`
}

// NewItemEvent builds an event for item stamped with its last update time.
func NewItemEvent(eventType string, item Item) ItemEvent {
	return ItemEvent{
		Type:       eventType,
		ID:         item.ID,
		Item:       item,
		OccurredAt: item.UpdatedAt,
	}
}

// Millis converts t to milliseconds since the Unix epoch.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
