package interfaces

import (
	"context"
	"time"

	"lotto/domain/entities"
	"lotto/domain/events"
)

// TicketRepository defines data access over the ticket ledger. All mutating
// methods operate on the unit of work's working state and only become visible
// on commit.
type TicketRepository interface {
	// Issue assigns the next ticket id, appends the ticket to the owner's
	// list and records the reverse-index entry. Never fails on valid input;
	// validation happens upstream.
	Issue(ctx context.Context, ownerID int64, numbers []int64, pricePaid int64, purchasedAt time.Time) (*entities.Ticket, error)

	// FindByOwner returns the owner's ticket with the given id, or nil when
	// the owner holds no such ticket.
	FindByOwner(ctx context.Context, ownerID, ticketID int64) (*entities.Ticket, error)

	// Remove deletes the owner's ticket via compacting swap-removal and
	// retires its id from the reverse index. The owner's list order is not
	// preserved across removals.
	Remove(ctx context.Context, ownerID, ticketID int64) error

	// RemovePurchasedBefore removes every ticket of the owner purchased at or
	// before cutoff in a single compacting scan, and returns the removed
	// tickets.
	RemovePurchasedBefore(ctx context.Context, ownerID int64, cutoff time.Time) ([]*entities.Ticket, error)

	// ListByOwner returns a bounded window over the owner's tickets.
	ListByOwner(ctx context.Context, ownerID int64, start, limit int) ([]*entities.Ticket, error)

	// CountByOwner returns the number of tickets the owner currently holds.
	CountByOwner(ctx context.Context, ownerID int64) (int, error)

	// CountPurchasedBefore counts the owner's tickets purchased at or before
	// cutoff.
	CountPurchasedBefore(ctx context.Context, ownerID int64, cutoff time.Time) (int, error)

	// OwnerOf resolves a ticket id through the reverse index. ok is false
	// when the id is unused or has been refunded.
	OwnerOf(ctx context.Context, ticketID int64) (ownerID int64, ok bool, err error)

	// GetByID resolves a ticket id to its record, or nil when the id has no
	// live owner.
	GetByID(ctx context.Context, ticketID int64) (*entities.TicketRecord, error)

	// NextTicketID returns the id the next issued ticket will receive.
	NextTicketID(ctx context.Context) (int64, error)

	// TotalIssued returns how many tickets have ever been issued.
	TotalIssued(ctx context.Context) (int64, error)

	// CountActive returns the number of live (not refunded) tickets.
	CountActive(ctx context.Context) (int, error)
}

// DrawRepository defines data access over draw periods.
type DrawRepository interface {
	// CurrentPeriod returns the period the next draw will complete.
	CurrentPeriod(ctx context.Context) (int64, error)

	// Record stores a completed draw for the current period and advances the
	// period counter. Recording over an existing period fails.
	Record(ctx context.Context, draw *entities.Draw) error

	// ByPeriod returns the draw recorded for a completed period, or nil when
	// the period has no record.
	ByPeriod(ctx context.Context, period int64) (*entities.Draw, error)

	// Latest returns the most recently completed draw, or nil when no draw
	// has happened yet.
	Latest(ctx context.Context) (*entities.Draw, error)
}

// SettingsRepository defines access to the administrator-controlled ledger
// configuration.
type SettingsRepository interface {
	// Get returns the current settings.
	Get(ctx context.Context) (*entities.Settings, error)

	// Update replaces the settings after validation.
	Update(ctx context.Context, settings *entities.Settings) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}
