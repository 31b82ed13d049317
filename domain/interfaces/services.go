package interfaces

import (
	"context"
	"time"

	"lotto/domain/entities"
)

// PurchaseResult summarizes a committed purchase.
type PurchaseResult struct {
	Tickets   []*entities.Ticket
	TotalCost int64 // gross amount collected from the buyer
}

// RefundResult summarizes a committed bulk refund.
type RefundResult struct {
	TicketsRefunded int
	TotalAmount     int64
}

// TicketService defines purchase, refund and ticket query operations.
type TicketService interface {
	// PurchaseTicket validates a pick, collects the ticket price and issues
	// one ticket.
	PurchaseTicket(ctx context.Context, ownerID int64, numbers []int64) (*entities.Ticket, error)

	// PurchaseTickets issues a bounded batch all-or-nothing: every pick is
	// validated and the full batch price collected before any ticket is
	// issued; ids come out strictly increasing and gap-free.
	PurchaseTickets(ctx context.Context, ownerID int64, picks [][]int64) (*PurchaseResult, error)

	// RefundTicket refunds one ticket past its lock window and returns the
	// amount paid out.
	RefundTicket(ctx context.Context, ownerID, ticketID int64) (int64, error)

	// RefundAllTickets refunds every refundable ticket the owner holds in a
	// single pass and a single payout.
	RefundAllTickets(ctx context.Context, ownerID int64) (*RefundResult, error)

	// GetUserTickets returns a bounded window over the owner's tickets.
	GetUserTickets(ctx context.Context, ownerID int64, start, limit int) ([]*entities.Ticket, error)

	// CountUserTickets returns how many tickets the owner holds.
	CountUserTickets(ctx context.Context, ownerID int64) (int, error)

	// CountRefundableTickets returns how many of the owner's tickets are past
	// their lock window right now.
	CountRefundableTickets(ctx context.Context, ownerID int64) (int, error)

	// TotalTickets returns how many tickets have ever been issued.
	TotalTickets(ctx context.Context) (int64, error)

	// CountActiveTickets returns the number of live tickets across all owners.
	CountActiveTickets(ctx context.Context) (int, error)

	// SetTicketPrice updates the ticket price. Administrator only.
	SetTicketPrice(ctx context.Context, callerID, newPrice int64) error

	// SetLockDuration updates the refund lock window. Administrator only.
	SetLockDuration(ctx context.Context, callerID int64, lockDuration time.Duration) error
}

// DrawService defines the draw engine and its read surface.
type DrawService interface {
	// ConductDraw produces the current period's winning numbers from the
	// supplied entropy and advances the period. Administrator only.
	ConductDraw(ctx context.Context, callerID int64, entropy []byte) (*entities.Draw, error)

	// GetDrawHistory returns the draw recorded for a period.
	GetDrawHistory(ctx context.Context, period int64) (*entities.Draw, error)

	// GetCurrentWinningNumbers returns the most recently completed draw.
	GetCurrentWinningNumbers(ctx context.Context) (*entities.Draw, error)
}

// WinCheckService defines match-counting and reconciliation queries.
type WinCheckService interface {
	// CheckForWins evaluates a window of the owner's tickets against the
	// latest completed draw.
	CheckForWins(ctx context.Context, ownerID int64, start, limit int) ([]*entities.WinResult, error)

	// CheckAllTickets reconciles the ticket-id range [startID, startID+limit)
	// against the latest completed draw, skipping refunded ids.
	// Administrator only.
	CheckAllTickets(ctx context.Context, callerID, startID, limit int64) ([]*entities.CheckResult, error)

	// ViewAllTickets returns ticket records for the id range
	// [startID, startID+limit), skipping refunded ids. Administrator only.
	ViewAllTickets(ctx context.Context, callerID, startID, limit int64) ([]*entities.TicketRecord, error)
}

// PaymentGateway is the external rail that moves value between a payer and
// the ledger. Both calls are ordinary fallible operations; a failure aborts
// the surrounding ledger operation before anything commits.
type PaymentGateway interface {
	// TransferIn collects amount from the payer.
	TransferIn(ctx context.Context, payerID, amount int64) error

	// TransferOut pays amount out to the payee.
	TransferOut(ctx context.Context, payeeID, amount int64) error
}

// UnitOfWork scopes one ledger operation. Begin takes the ledger's writer
// lock and snapshots its state; repositories obtained from the unit of work
// mutate the snapshot; Commit installs it atomically and flushes buffered
// events, Rollback discards both.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	TicketRepository() TicketRepository
	DrawRepository() DrawRepository
	SettingsRepository() SettingsRepository

	// EventPublisher returns the transaction-scoped publisher. Events
	// published through it are delivered only after a successful commit.
	EventPublisher() EventPublisher
}

// UnitOfWorkFactory creates units of work bound to the ledger.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
