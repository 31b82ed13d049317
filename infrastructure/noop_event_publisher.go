package infrastructure

import (
	"lotto/domain/events"
)

// NoopEventPublisher discards every event. Used when the ledger runs without
// an event consumer, and in tests that only care about ledger state.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a publisher that discards events
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish discards the event.
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
