package repository

import (
	"fmt"
	"sync"
	"time"

	"lotto/domain/entities"
)

// ledgerState is the authoritative ledger content. Units of work operate on a
// deep-enough clone: maps and ticket slices are copied, ticket structs are
// shared because they are immutable once issued.
type ledgerState struct {
	ticketsByOwner  map[int64][]*entities.Ticket
	ownerByTicketID map[int64]int64
	nextTicketID    int64

	settings entities.Settings

	currentPeriod          int64
	winningNumbersByPeriod map[int64][]int64
	drawDateByPeriod       map[int64]time.Time
}

func newLedgerState(settings entities.Settings) *ledgerState {
	return &ledgerState{
		ticketsByOwner:         make(map[int64][]*entities.Ticket),
		ownerByTicketID:        make(map[int64]int64),
		nextTicketID:           1,
		settings:               settings,
		currentPeriod:          0,
		winningNumbersByPeriod: make(map[int64][]int64),
		drawDateByPeriod:       make(map[int64]time.Time),
	}
}

// clone copies everything a unit of work may mutate. Slice backing arrays are
// copied because compacting removal writes in place.
func (s *ledgerState) clone() *ledgerState {
	c := &ledgerState{
		ticketsByOwner:         make(map[int64][]*entities.Ticket, len(s.ticketsByOwner)),
		ownerByTicketID:        make(map[int64]int64, len(s.ownerByTicketID)),
		nextTicketID:           s.nextTicketID,
		settings:               s.settings,
		currentPeriod:          s.currentPeriod,
		winningNumbersByPeriod: make(map[int64][]int64, len(s.winningNumbersByPeriod)),
		drawDateByPeriod:       make(map[int64]time.Time, len(s.drawDateByPeriod)),
	}
	for owner, list := range s.ticketsByOwner {
		c.ticketsByOwner[owner] = append([]*entities.Ticket(nil), list...)
	}
	for id, owner := range s.ownerByTicketID {
		c.ownerByTicketID[id] = owner
	}
	for period, numbers := range s.winningNumbersByPeriod {
		c.winningNumbersByPeriod[period] = numbers
	}
	for period, date := range s.drawDateByPeriod {
		c.drawDateByPeriod[period] = date
	}
	return c
}

// removeAt performs the compacting swap-delete: the entry at idx is
// overwritten with the last entry and the list shrinks by one. The owner's
// list order is not preserved. The removed ticket's id is retired from the
// reverse index.
func (s *ledgerState) removeAt(ownerID int64, idx int) *entities.Ticket {
	list := s.ticketsByOwner[ownerID]
	t := list[idx]
	last := len(list) - 1
	list[idx] = list[last]
	list[last] = nil
	if last == 0 {
		delete(s.ticketsByOwner, ownerID)
	} else {
		s.ticketsByOwner[ownerID] = list[:last]
	}
	delete(s.ownerByTicketID, t.ID)
	return t
}

// Ledger owns the process-wide ticket and draw state. It is created once at
// startup and mutated only through units of work; the mutex enforces a single
// logical writer per operation.
type Ledger struct {
	mu    sync.Mutex
	state *ledgerState
}

// NewLedger creates an empty ledger with the given initial settings.
func NewLedger(settings entities.Settings) (*Ledger, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger settings: %w", err)
	}
	return &Ledger{state: newLedgerState(settings)}, nil
}

// Verify walks the ledger invariants: owner list and reverse index agree in
// both directions, every live pick is well formed, ids stay below the
// counter, and every completed period has a full record. Intended for tests.
func (l *Ledger) Verify() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.state

	seen := make(map[int64]int64, len(s.ownerByTicketID))
	for owner, list := range s.ticketsByOwner {
		if len(list) == 0 {
			return fmt.Errorf("owner %d has an empty ticket list entry", owner)
		}
		for _, t := range list {
			if _, dup := seen[t.ID]; dup {
				return fmt.Errorf("ticket id %d appears more than once", t.ID)
			}
			seen[t.ID] = owner
			if indexed, ok := s.ownerByTicketID[t.ID]; !ok || indexed != owner {
				return fmt.Errorf("ticket %d held by %d but reverse index says %d (present=%v)", t.ID, owner, indexed, ok)
			}
			if err := entities.ValidateNumbers(t.Numbers); err != nil {
				return fmt.Errorf("ticket %d has invalid numbers: %w", t.ID, err)
			}
			if t.ID >= s.nextTicketID {
				return fmt.Errorf("ticket %d not below next id %d", t.ID, s.nextTicketID)
			}
		}
	}
	for id, owner := range s.ownerByTicketID {
		if held, ok := seen[id]; !ok || held != owner {
			return fmt.Errorf("reverse index entry %d->%d has no matching ticket", id, owner)
		}
	}

	for period := int64(0); period < s.currentPeriod; period++ {
		numbers, ok := s.winningNumbersByPeriod[period]
		if !ok {
			return fmt.Errorf("completed period %d has no winning numbers", period)
		}
		if err := entities.ValidateNumbers(numbers); err != nil {
			return fmt.Errorf("period %d has invalid winning numbers: %w", period, err)
		}
		if _, ok := s.drawDateByPeriod[period]; !ok {
			return fmt.Errorf("completed period %d has no draw date", period)
		}
	}
	for period := range s.winningNumbersByPeriod {
		if period >= s.currentPeriod {
			return fmt.Errorf("winning numbers recorded for open period %d", period)
		}
	}

	return nil
}
