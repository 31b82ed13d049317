package entities

import (
	"time"
)

// HouseFeePercent is the cut taken from every ticket purchase. The remainder
// is the amount refunded when a ticket is returned.
const HouseFeePercent = 2

// Settings holds the administrator-controlled ledger configuration.
type Settings struct {
	TicketPrice  int64         `json:"ticket_price"`
	LockDuration time.Duration `json:"lock_duration"`
}

// NetPrice returns the post-fee amount credited to a ticket, i.e. the amount
// paid back on refund.
func (s *Settings) NetPrice() int64 {
	return s.TicketPrice - s.TicketPrice*HouseFeePercent/100
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.TicketPrice <= 0 {
		return ErrInvalidPrice
	}
	if s.LockDuration < 0 {
		return ErrInvalidLockDuration
	}
	return nil
}
