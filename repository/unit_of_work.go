package repository

import (
	"context"
	"fmt"

	"lotto/domain/entities"
	"lotto/domain/events"
	"lotto/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// unitOfWork implements the UnitOfWork interface over the in-memory ledger.
// Begin takes the ledger's writer lock and clones its state; repositories
// mutate the clone; Commit installs the clone atomically and flushes buffered
// events; Rollback discards both. A failed operation therefore leaves the
// ledger exactly as it was.
type unitOfWork struct {
	ledger    *Ledger
	working   *ledgerState
	publisher *transactionalPublisher

	ticketRepo   *TicketRepository
	drawRepo     *DrawRepository
	settingsRepo *SettingsRepository

	active bool
}

type unitOfWorkFactory struct {
	ledger        *Ledger
	realPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a UnitOfWork factory bound to the ledger.
// Events published inside a unit of work are delivered to realPublisher only
// after a successful commit.
func NewUnitOfWorkFactory(ledger *Ledger, realPublisher interfaces.EventPublisher) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		ledger:        ledger,
		realPublisher: realPublisher,
	}
}

// Create creates a new unit of work.
func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{
		ledger:    f.ledger,
		publisher: newTransactionalPublisher(f.realPublisher),
	}
}

// Begin acquires the ledger's writer lock and snapshots its state. A nested
// attempt while another operation holds the ledger - including a payment
// gateway calling back into the ledger from inside an outstanding operation -
// is rejected with ErrOperationInProgress rather than blocking.
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return fmt.Errorf("unit of work already started")
	}
	if !u.ledger.mu.TryLock() {
		return fmt.Errorf("cannot begin unit of work: %w", entities.ErrOperationInProgress)
	}

	u.working = u.ledger.state.clone()
	u.ticketRepo = newTicketRepository(u.working)
	u.drawRepo = newDrawRepository(u.working)
	u.settingsRepo = newSettingsRepository(u.working)
	u.active = true

	return nil
}

// Commit installs the working state and flushes buffered events.
func (u *unitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no unit of work to commit")
	}

	u.ledger.state = u.working
	u.finish()

	// Flushed after the lock is released so subscribers may start their own
	// operations against the committed state.
	if err := u.publisher.Flush(); err != nil {
		log.WithError(err).Error("failed to flush events after commit")
	}
	return nil
}

// Rollback discards the working state and any buffered events. Calling it
// after Commit is a no-op, so callers can defer it unconditionally.
func (u *unitOfWork) Rollback() error {
	if !u.active {
		return nil
	}
	u.publisher.Discard()
	u.finish()
	return nil
}

func (u *unitOfWork) finish() {
	u.working = nil
	u.ticketRepo = nil
	u.drawRepo = nil
	u.settingsRepo = nil
	u.active = false
	u.ledger.mu.Unlock()
}

// TicketRepository returns the transaction-scoped ticket repository.
func (u *unitOfWork) TicketRepository() interfaces.TicketRepository {
	u.mustBeActive()
	return u.ticketRepo
}

// DrawRepository returns the transaction-scoped draw repository.
func (u *unitOfWork) DrawRepository() interfaces.DrawRepository {
	u.mustBeActive()
	return u.drawRepo
}

// SettingsRepository returns the transaction-scoped settings repository.
func (u *unitOfWork) SettingsRepository() interfaces.SettingsRepository {
	u.mustBeActive()
	return u.settingsRepo
}

// EventPublisher returns the transaction-scoped publisher.
func (u *unitOfWork) EventPublisher() interfaces.EventPublisher {
	return u.publisher
}

func (u *unitOfWork) mustBeActive() {
	if !u.active {
		panic("unit of work used outside Begin/Commit")
	}
}

// transactionalPublisher holds events until flush. Publish buffers; Flush
// hands everything to the real publisher after commit; Discard drops the
// buffer on rollback.
type transactionalPublisher struct {
	realPublisher interfaces.EventPublisher
	pending       []events.Event
}

func newTransactionalPublisher(realPublisher interfaces.EventPublisher) *transactionalPublisher {
	return &transactionalPublisher{realPublisher: realPublisher}
}

// Publish stores an event in the pending queue without delivering it.
func (p *transactionalPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

// Flush delivers all pending events. A failing event is logged and skipped so
// partial failure does not block the rest.
func (p *transactionalPublisher) Flush() error {
	for _, event := range p.pending {
		if err := p.realPublisher.Publish(event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("failed to publish event during flush")
		}
	}
	p.pending = p.pending[:0]
	return nil
}

// Discard clears all pending events without publishing them.
func (p *transactionalPublisher) Discard() {
	p.pending = p.pending[:0]
}
