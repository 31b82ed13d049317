package services

import (
	"context"
	"fmt"

	"lotto/domain/entities"
	"lotto/domain/interfaces"
)

// maxScanLimit bounds the administrator id-range scans.
const maxScanLimit = 1000

// winCheckService implements match-counting and reconciliation queries.
type winCheckService struct {
	tickets interfaces.TicketRepository
	draws   interfaces.DrawRepository
	adminID int64
}

// NewWinCheckService creates a new win-check service bound to one unit of
// work's repositories.
func NewWinCheckService(
	tickets interfaces.TicketRepository,
	draws interfaces.DrawRepository,
	adminID int64,
) interfaces.WinCheckService {
	return &winCheckService{
		tickets: tickets,
		draws:   draws,
		adminID: adminID,
	}
}

// CheckForWins evaluates a window of the owner's tickets against the latest
// completed draw. Tickets purchased at or after the draw timestamp are
// reported with zero matches and Eligible=false.
func (s *winCheckService) CheckForWins(ctx context.Context, ownerID int64, start, limit int) ([]*entities.WinResult, error) {
	if err := validateWindow(start, limit); err != nil {
		return nil, err
	}

	draw, err := s.draws.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest draw: %w", err)
	}
	if draw == nil {
		return nil, entities.ErrNoCompletedDraw
	}

	tickets, err := s.tickets.ListByOwner(ctx, ownerID, start, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	results := make([]*entities.WinResult, 0, len(tickets))
	for _, ticket := range tickets {
		result := &entities.WinResult{
			TicketID: ticket.ID,
			Numbers:  ticket.Numbers,
			Period:   draw.Period,
		}
		if ticket.EligibleForDraw(draw.DrawnAt) {
			result.Eligible = true
			result.MatchCount, result.MatchedNumbers = entities.MatchNumbers(ticket.Numbers, draw.Numbers)
		}
		results = append(results, result)
	}

	return results, nil
}

// CheckAllTickets reconciles the ticket-id range [startID, startID+limit)
// against the latest completed draw. Refunded ids leave gaps in the reverse
// index and are skipped without error, as are tickets purchased after the
// draw. Administrator only.
func (s *winCheckService) CheckAllTickets(ctx context.Context, callerID, startID, limit int64) ([]*entities.CheckResult, error) {
	if callerID != s.adminID {
		return nil, entities.ErrNotAdministrator
	}
	if err := validateScan(startID, limit); err != nil {
		return nil, err
	}

	draw, err := s.draws.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest draw: %w", err)
	}
	if draw == nil {
		return nil, entities.ErrNoCompletedDraw
	}

	var results []*entities.CheckResult
	for id := startID; id < startID+limit; id++ {
		record, err := s.tickets.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ticket %d: %w", id, err)
		}
		if record == nil || !record.Ticket.EligibleForDraw(draw.DrawnAt) {
			continue
		}

		count, matched := entities.MatchNumbers(record.Ticket.Numbers, draw.Numbers)
		results = append(results, &entities.CheckResult{
			TicketID:       record.Ticket.ID,
			OwnerID:        record.OwnerID,
			Numbers:        record.Ticket.Numbers,
			MatchCount:     count,
			MatchedNumbers: matched,
		})
	}

	return results, nil
}

// ViewAllTickets returns ticket records for the id range
// [startID, startID+limit), skipping refunded ids. Administrator only.
func (s *winCheckService) ViewAllTickets(ctx context.Context, callerID, startID, limit int64) ([]*entities.TicketRecord, error) {
	if callerID != s.adminID {
		return nil, entities.ErrNotAdministrator
	}
	if err := validateScan(startID, limit); err != nil {
		return nil, err
	}

	var records []*entities.TicketRecord
	for id := startID; id < startID+limit; id++ {
		record, err := s.tickets.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ticket %d: %w", id, err)
		}
		if record == nil {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// validateScan checks an id-range scan window. Ticket ids start at 1.
func validateScan(startID, limit int64) error {
	if startID < 1 || limit <= 0 || limit > maxScanLimit {
		return &entities.RangeError{Start: startID, Limit: limit}
	}
	return nil
}
