package entities

import (
	"time"
)

// Ticket represents a purchased lottery entry. Tickets are immutable once
// issued; removal is the only mutation the ledger ever applies to them.
type Ticket struct {
	ID          int64     `json:"id"`
	Numbers     []int64   `json:"numbers"`
	PurchasedAt time.Time `json:"purchased_at"`
	PricePaid   int64     `json:"price_paid"` // net amount after the house fee
}

// IsRefundable returns true once the lock window has fully elapsed.
// A ticket becomes refundable at exactly purchasedAt + lockDuration.
func (t *Ticket) IsRefundable(lockDuration time.Duration, now time.Time) bool {
	return !now.Before(t.PurchasedAt.Add(lockDuration))
}

// EligibleForDraw reports whether the ticket participates in a draw that
// happened at drawnAt. Tickets purchased at or after the draw timestamp are
// not eligible.
func (t *Ticket) EligibleForDraw(drawnAt time.Time) bool {
	return t.PurchasedAt.Before(drawnAt)
}

// TicketRecord pairs a ticket with its current owner, as resolved through the
// reverse index. Used by the administrator-only ledger-wide scans.
type TicketRecord struct {
	Ticket  *Ticket `json:"ticket"`
	OwnerID int64   `json:"owner_id"`
}
