// Package queue defines the content change events exchanged over RabbitMQ
// and the consumer that writes them to the audit log.
package queue

import "time"

// ContentQueue is the durable queue carrying ContentChangedEvent messages.
const ContentQueue = "content.changed"

// Actions recorded in ContentChangedEvent.Action.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ContentChangedEvent is published after an admin successfully creates,
// updates or deletes a content row.
type ContentChangedEvent struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	ID         uint64    `json:"id"`
	ActorID    uint64    `json:"actor_id"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}
