package services

import (
	"context"
	"fmt"
	"time"

	"lotto/domain/entities"
	"lotto/domain/events"
	"lotto/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	// maxBatchTickets bounds a single bulk purchase to keep per-call work
	// bounded.
	maxBatchTickets = 17

	// maxPageSize bounds every paginated read window.
	maxPageSize = 100
)

// ticketService implements purchase, refund and ticket query operations.
type ticketService struct {
	tickets        interfaces.TicketRepository
	settings       interfaces.SettingsRepository
	payments       interfaces.PaymentGateway
	eventPublisher interfaces.EventPublisher
	adminID        int64
}

// NewTicketService creates a new ticket service bound to one unit of work's
// repositories.
func NewTicketService(
	tickets interfaces.TicketRepository,
	settings interfaces.SettingsRepository,
	payments interfaces.PaymentGateway,
	eventPublisher interfaces.EventPublisher,
	adminID int64,
) interfaces.TicketService {
	return &ticketService{
		tickets:        tickets,
		settings:       settings,
		payments:       payments,
		eventPublisher: eventPublisher,
		adminID:        adminID,
	}
}

// PurchaseTicket validates a pick, collects the ticket price and issues one
// ticket.
func (s *ticketService) PurchaseTicket(ctx context.Context, ownerID int64, numbers []int64) (*entities.Ticket, error) {
	result, err := s.purchase(ctx, ownerID, [][]int64{numbers}, -1)
	if err != nil {
		return nil, err
	}
	return result.Tickets[0], nil
}

// PurchaseTickets issues a bounded batch all-or-nothing.
func (s *ticketService) PurchaseTickets(ctx context.Context, ownerID int64, picks [][]int64) (*interfaces.PurchaseResult, error) {
	if len(picks) == 0 {
		return nil, entities.ErrEmptyBatch
	}
	if len(picks) > maxBatchTickets {
		return nil, &entities.BatchLimitError{Size: len(picks), Limit: maxBatchTickets}
	}
	return s.purchase(ctx, ownerID, picks, 0)
}

// purchase is the shared path for single and batch purchases. Every pick is
// validated and the full price collected before any ticket is issued; all
// mutations live on the unit of work's snapshot, so a failure anywhere leaves
// the ledger untouched.
func (s *ticketService) purchase(ctx context.Context, ownerID int64, picks [][]int64, firstIndex int) (*interfaces.PurchaseResult, error) {
	for i, pick := range picks {
		if err := entities.ValidateNumbers(pick); err != nil {
			if numErr, ok := err.(*entities.NumbersError); ok {
				numErr.Index = firstIndex + i
				return nil, numErr
			}
			return nil, err
		}
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	totalCost := settings.TicketPrice * int64(len(picks))
	netPrice := settings.NetPrice()

	if err := s.payments.TransferIn(ctx, ownerID, totalCost); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrTransferFailed, err)
	}

	now := time.Now().UTC()
	tickets := make([]*entities.Ticket, 0, len(picks))
	ticketIDs := make([]int64, 0, len(picks))
	allNumbers := make([][]int64, 0, len(picks))
	for _, pick := range picks {
		ticket, err := s.tickets.Issue(ctx, ownerID, pick, netPrice, now)
		if err != nil {
			return nil, fmt.Errorf("failed to issue ticket: %w", err)
		}
		tickets = append(tickets, ticket)
		ticketIDs = append(ticketIDs, ticket.ID)
		allNumbers = append(allNumbers, ticket.Numbers)
	}

	if err := s.eventPublisher.Publish(events.TicketsPurchasedEvent{
		OwnerID:     ownerID,
		TicketIDs:   ticketIDs,
		Numbers:     allNumbers,
		TotalCost:   totalCost,
		PurchasedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish purchase event: %w", err)
	}

	log.WithFields(log.Fields{
		"ownerID":   ownerID,
		"tickets":   len(tickets),
		"totalCost": totalCost,
	}).Info("tickets purchased")

	return &interfaces.PurchaseResult{Tickets: tickets, TotalCost: totalCost}, nil
}

// RefundTicket refunds one ticket past its lock window and returns the amount
// paid out.
func (s *ticketService) RefundTicket(ctx context.Context, ownerID, ticketID int64) (int64, error) {
	holderID, ok, err := s.tickets.OwnerOf(ctx, ticketID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve ticket owner: %w", err)
	}
	if !ok {
		return 0, entities.ErrTicketNotFound
	}
	if holderID != ownerID {
		return 0, entities.ErrNotOwner
	}

	ticket, err := s.tickets.FindByOwner(ctx, ownerID, ticketID)
	if err != nil {
		return 0, fmt.Errorf("failed to find ticket: %w", err)
	}
	if ticket == nil {
		return 0, entities.ErrTicketNotFound
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get settings: %w", err)
	}
	now := time.Now().UTC()
	if !ticket.IsRefundable(settings.LockDuration, now) {
		return 0, entities.ErrTicketLocked
	}

	if err := s.tickets.Remove(ctx, ownerID, ticketID); err != nil {
		return 0, fmt.Errorf("failed to remove ticket: %w", err)
	}

	if err := s.payments.TransferOut(ctx, ownerID, ticket.PricePaid); err != nil {
		return 0, fmt.Errorf("%w: %v", entities.ErrTransferFailed, err)
	}

	if err := s.eventPublisher.Publish(events.TicketRefundedEvent{
		OwnerID:    ownerID,
		TicketID:   ticketID,
		Amount:     ticket.PricePaid,
		RefundedAt: now,
	}); err != nil {
		return 0, fmt.Errorf("failed to publish refund event: %w", err)
	}

	log.WithFields(log.Fields{
		"ownerID":  ownerID,
		"ticketID": ticketID,
		"amount":   ticket.PricePaid,
	}).Info("ticket refunded")

	return ticket.PricePaid, nil
}

// RefundAllTickets refunds every refundable ticket the owner holds in one
// compacting pass and one payout.
func (s *ticketService) RefundAllTickets(ctx context.Context, ownerID int64) (*interfaces.RefundResult, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	now := time.Now().UTC()
	cutoff := now.Add(-settings.LockDuration)
	removed, err := s.tickets.RemovePurchasedBefore(ctx, ownerID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to remove refundable tickets: %w", err)
	}

	var total int64
	for _, ticket := range removed {
		total += ticket.PricePaid
	}
	if total == 0 {
		return nil, entities.ErrNothingRefundable
	}

	if err := s.payments.TransferOut(ctx, ownerID, total); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrTransferFailed, err)
	}

	if err := s.eventPublisher.Publish(events.TicketsRefundedEvent{
		OwnerID:     ownerID,
		TicketCount: len(removed),
		TotalAmount: total,
		RefundedAt:  now,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish refund event: %w", err)
	}

	log.WithFields(log.Fields{
		"ownerID": ownerID,
		"tickets": len(removed),
		"total":   total,
	}).Info("all refundable tickets refunded")

	return &interfaces.RefundResult{TicketsRefunded: len(removed), TotalAmount: total}, nil
}

// GetUserTickets returns a bounded window over the owner's tickets. Positions
// are not stable across refunds because removal compacts the list.
func (s *ticketService) GetUserTickets(ctx context.Context, ownerID int64, start, limit int) ([]*entities.Ticket, error) {
	if err := validateWindow(start, limit); err != nil {
		return nil, err
	}
	return s.tickets.ListByOwner(ctx, ownerID, start, limit)
}

// CountUserTickets returns how many tickets the owner holds.
func (s *ticketService) CountUserTickets(ctx context.Context, ownerID int64) (int, error) {
	return s.tickets.CountByOwner(ctx, ownerID)
}

// CountRefundableTickets returns how many of the owner's tickets are past
// their lock window right now.
func (s *ticketService) CountRefundableTickets(ctx context.Context, ownerID int64) (int, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get settings: %w", err)
	}
	cutoff := time.Now().UTC().Add(-settings.LockDuration)
	return s.tickets.CountPurchasedBefore(ctx, ownerID, cutoff)
}

// TotalTickets returns how many tickets have ever been issued.
func (s *ticketService) TotalTickets(ctx context.Context) (int64, error) {
	return s.tickets.TotalIssued(ctx)
}

// CountActiveTickets returns the number of live tickets across all owners.
func (s *ticketService) CountActiveTickets(ctx context.Context) (int, error) {
	return s.tickets.CountActive(ctx)
}

// SetTicketPrice updates the ticket price. Administrator only.
func (s *ticketService) SetTicketPrice(ctx context.Context, callerID, newPrice int64) error {
	if callerID != s.adminID {
		return entities.ErrNotAdministrator
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	oldPrice := settings.TicketPrice
	settings.TicketPrice = newPrice
	if err := s.settings.Update(ctx, settings); err != nil {
		return err
	}

	return s.eventPublisher.Publish(events.TicketPriceUpdatedEvent{
		OldPrice: oldPrice,
		NewPrice: newPrice,
	})
}

// SetLockDuration updates the refund lock window. Administrator only.
func (s *ticketService) SetLockDuration(ctx context.Context, callerID int64, lockDuration time.Duration) error {
	if callerID != s.adminID {
		return entities.ErrNotAdministrator
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	oldDuration := settings.LockDuration
	settings.LockDuration = lockDuration
	if err := s.settings.Update(ctx, settings); err != nil {
		return err
	}

	return s.eventPublisher.Publish(events.LockDurationUpdatedEvent{
		OldDuration: oldDuration,
		NewDuration: lockDuration,
	})
}

// validateWindow checks a positional pagination window.
func validateWindow(start, limit int) error {
	if start < 0 || limit <= 0 || limit > maxPageSize {
		return &entities.RangeError{Start: int64(start), Limit: int64(limit)}
	}
	return nil
}
