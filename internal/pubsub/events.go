// Package pubsub fans typed change events out to any number of subscribers.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened to the published payload.
type EventType string

const (
	EventLoaded  EventType = "loaded"
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
	EventCleared EventType = "cleared"
)

// Event is one published payload with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber is the read side of a Broker.
type Subscriber[T any] interface {
	Subscribe(context.Context) <-chan Event[T]
}
