package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ErrInsufficientFunds is returned when a transfer cannot be covered.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Treasury is the in-process payment rail: it tracks per-account balances
// plus the house account the ticket ledger collects into and refunds from.
// It implements the PaymentGateway interface.
type Treasury struct {
	mu       sync.Mutex
	balances map[int64]int64
	house    int64
}

// NewTreasury creates an empty treasury.
func NewTreasury() *Treasury {
	return &Treasury{balances: make(map[int64]int64)}
}

// Deposit credits an account. Used to seed player balances.
func (t *Treasury) Deposit(accountID, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive, got %d", amount)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances[accountID] += amount
	return nil
}

// SeedOnce credits an account's starting balance the first time the account
// is seen. Returns false without touching the balance when the account
// already exists.
func (t *Treasury) SeedOnce(accountID, amount int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.balances[accountID]; ok {
		return false
	}
	t.balances[accountID] = amount
	return true
}

// Balance returns an account's current balance.
func (t *Treasury) Balance(accountID int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balances[accountID]
}

// HouseBalance returns the amount currently held by the house.
func (t *Treasury) HouseBalance() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.house
}

// TransferIn collects amount from the payer into the house account.
func (t *Treasury) TransferIn(ctx context.Context, payerID, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("transfer amount must not be negative, got %d", amount)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.balances[payerID] < amount {
		return fmt.Errorf("%w: account %d has %d, needs %d", ErrInsufficientFunds, payerID, t.balances[payerID], amount)
	}
	t.balances[payerID] -= amount
	t.house += amount

	log.WithFields(log.Fields{
		"payerID": payerID,
		"amount":  amount,
	}).Debug("transfer in")
	return nil
}

// TransferOut pays amount from the house account to the payee.
func (t *Treasury) TransferOut(ctx context.Context, payeeID, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("transfer amount must not be negative, got %d", amount)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.house < amount {
		return fmt.Errorf("%w: house has %d, needs %d", ErrInsufficientFunds, t.house, amount)
	}
	t.house -= amount
	t.balances[payeeID] += amount

	log.WithFields(log.Fields{
		"payeeID": payeeID,
		"amount":  amount,
	}).Debug("transfer out")
	return nil
}
