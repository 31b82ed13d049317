package events

import (
	"time"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeTicketsPurchased    EventType = "tickets_purchased"
	EventTypeTicketRefunded      EventType = "ticket_refunded"
	EventTypeTicketsRefunded     EventType = "tickets_refunded"
	EventTypeNumbersDrawn        EventType = "numbers_drawn"
	EventTypeTicketPriceUpdated  EventType = "ticket_price_updated"
	EventTypeLockDurationUpdated EventType = "lock_duration_updated"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// AllEventTypes lists every event type the ledger emits, in a stable order.
// Used by subscribers that want the full committed stream.
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeTicketsPurchased,
		EventTypeTicketRefunded,
		EventTypeTicketsRefunded,
		EventTypeNumbersDrawn,
		EventTypeTicketPriceUpdated,
		EventTypeLockDurationUpdated,
	}
}

// TicketsPurchasedEvent fires after a purchase commits. Covers both single
// tickets and batches.
type TicketsPurchasedEvent struct {
	OwnerID     int64     `json:"owner_id"`
	TicketIDs   []int64   `json:"ticket_ids"`
	Numbers     [][]int64 `json:"numbers"`
	TotalCost   int64     `json:"total_cost"` // gross amount collected
	PurchasedAt time.Time `json:"purchased_at"`
}

func (e TicketsPurchasedEvent) Type() EventType {
	return EventTypeTicketsPurchased
}

// TicketRefundedEvent fires after a single-ticket refund commits.
type TicketRefundedEvent struct {
	OwnerID    int64     `json:"owner_id"`
	TicketID   int64     `json:"ticket_id"`
	Amount     int64     `json:"amount"`
	RefundedAt time.Time `json:"refunded_at"`
}

func (e TicketRefundedEvent) Type() EventType {
	return EventTypeTicketRefunded
}

// TicketsRefundedEvent fires after a refund-all commits.
type TicketsRefundedEvent struct {
	OwnerID     int64     `json:"owner_id"`
	TicketCount int       `json:"ticket_count"`
	TotalAmount int64     `json:"total_amount"`
	RefundedAt  time.Time `json:"refunded_at"`
}

func (e TicketsRefundedEvent) Type() EventType {
	return EventTypeTicketsRefunded
}

// NumbersDrawnEvent fires after a draw commits.
type NumbersDrawnEvent struct {
	Period  int64     `json:"period"`
	Numbers []int64   `json:"numbers"`
	DrawnAt time.Time `json:"drawn_at"`
}

func (e NumbersDrawnEvent) Type() EventType {
	return EventTypeNumbersDrawn
}

// TicketPriceUpdatedEvent fires when the administrator changes the price.
type TicketPriceUpdatedEvent struct {
	OldPrice int64 `json:"old_price"`
	NewPrice int64 `json:"new_price"`
}

func (e TicketPriceUpdatedEvent) Type() EventType {
	return EventTypeTicketPriceUpdated
}

// LockDurationUpdatedEvent fires when the administrator changes the refund
// lock window.
type LockDurationUpdatedEvent struct {
	OldDuration time.Duration `json:"old_duration"`
	NewDuration time.Duration `json:"new_duration"`
}

func (e LockDurationUpdatedEvent) Type() EventType {
	return EventTypeLockDurationUpdated
}
