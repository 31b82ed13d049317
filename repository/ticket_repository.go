package repository

import (
	"context"
	"time"

	"lotto/domain/entities"
)

// TicketRepository implements ticket data access against a unit of work's
// working state.
type TicketRepository struct {
	state *ledgerState
}

func newTicketRepository(state *ledgerState) *TicketRepository {
	return &TicketRepository{state: state}
}

// Issue assigns the next ticket id, appends the ticket to the owner's list
// and records the reverse-index entry.
func (r *TicketRepository) Issue(ctx context.Context, ownerID int64, numbers []int64, pricePaid int64, purchasedAt time.Time) (*entities.Ticket, error) {
	t := &entities.Ticket{
		ID:          r.state.nextTicketID,
		Numbers:     entities.CopyNumbers(numbers),
		PurchasedAt: purchasedAt,
		PricePaid:   pricePaid,
	}
	r.state.ticketsByOwner[ownerID] = append(r.state.ticketsByOwner[ownerID], t)
	r.state.ownerByTicketID[t.ID] = ownerID
	r.state.nextTicketID++
	return t, nil
}

// FindByOwner linearly scans the owner's list for the ticket id.
func (r *TicketRepository) FindByOwner(ctx context.Context, ownerID, ticketID int64) (*entities.Ticket, error) {
	idx := r.findIndex(ownerID, ticketID)
	if idx < 0 {
		return nil, nil
	}
	return r.state.ticketsByOwner[ownerID][idx], nil
}

// Remove deletes the owner's ticket via compacting swap-removal.
func (r *TicketRepository) Remove(ctx context.Context, ownerID, ticketID int64) error {
	idx := r.findIndex(ownerID, ticketID)
	if idx < 0 {
		return entities.ErrTicketNotFound
	}
	r.state.removeAt(ownerID, idx)
	return nil
}

// RemovePurchasedBefore removes every ticket purchased at or before cutoff in
// one compacting scan. The scan index does not advance after a removal: the
// element swapped into the slot still needs to be examined.
func (r *TicketRepository) RemovePurchasedBefore(ctx context.Context, ownerID int64, cutoff time.Time) ([]*entities.Ticket, error) {
	var removed []*entities.Ticket
	i := 0
	for i < len(r.state.ticketsByOwner[ownerID]) {
		t := r.state.ticketsByOwner[ownerID][i]
		if !t.PurchasedAt.After(cutoff) {
			removed = append(removed, r.state.removeAt(ownerID, i))
			continue
		}
		i++
	}
	return removed, nil
}

// ListByOwner returns a bounded window over the owner's tickets. The window
// is positional; positions are not stable across removals.
func (r *TicketRepository) ListByOwner(ctx context.Context, ownerID int64, start, limit int) ([]*entities.Ticket, error) {
	list := r.state.ticketsByOwner[ownerID]
	if start >= len(list) {
		return nil, nil
	}
	end := start + limit
	if end > len(list) {
		end = len(list)
	}
	return append([]*entities.Ticket(nil), list[start:end]...), nil
}

// CountByOwner returns the number of tickets the owner currently holds.
func (r *TicketRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	return len(r.state.ticketsByOwner[ownerID]), nil
}

// CountPurchasedBefore counts the owner's tickets purchased at or before
// cutoff.
func (r *TicketRepository) CountPurchasedBefore(ctx context.Context, ownerID int64, cutoff time.Time) (int, error) {
	count := 0
	for _, t := range r.state.ticketsByOwner[ownerID] {
		if !t.PurchasedAt.After(cutoff) {
			count++
		}
	}
	return count, nil
}

// OwnerOf resolves a ticket id through the reverse index.
func (r *TicketRepository) OwnerOf(ctx context.Context, ticketID int64) (int64, bool, error) {
	ownerID, ok := r.state.ownerByTicketID[ticketID]
	return ownerID, ok, nil
}

// GetByID resolves a ticket id to its record, or nil when the id has no live
// owner.
func (r *TicketRepository) GetByID(ctx context.Context, ticketID int64) (*entities.TicketRecord, error) {
	ownerID, ok := r.state.ownerByTicketID[ticketID]
	if !ok {
		return nil, nil
	}
	idx := r.findIndex(ownerID, ticketID)
	if idx < 0 {
		// Invariant 1 violated; surface loudly rather than hiding it.
		return nil, entities.ErrTicketNotFound
	}
	return &entities.TicketRecord{
		Ticket:  r.state.ticketsByOwner[ownerID][idx],
		OwnerID: ownerID,
	}, nil
}

// NextTicketID returns the id the next issued ticket will receive.
func (r *TicketRepository) NextTicketID(ctx context.Context) (int64, error) {
	return r.state.nextTicketID, nil
}

// TotalIssued returns how many tickets have ever been issued.
func (r *TicketRepository) TotalIssued(ctx context.Context) (int64, error) {
	return r.state.nextTicketID - 1, nil
}

// CountActive returns the number of live tickets across all owners.
func (r *TicketRepository) CountActive(ctx context.Context) (int, error) {
	return len(r.state.ownerByTicketID), nil
}

// findIndex is the O(n) scan of an owner's list. Returns -1 when absent.
func (r *TicketRepository) findIndex(ownerID, ticketID int64) int {
	for i, t := range r.state.ticketsByOwner[ownerID] {
		if t.ID == ticketID {
			return i
		}
	}
	return -1
}
