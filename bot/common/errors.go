package common

import (
	"errors"
	"fmt"

	"lotto/domain/entities"
)

// UserMessage translates a domain error into something safe to show in
// Discord. Unknown errors get a generic message so internals never leak into
// chat.
func UserMessage(err error) string {
	var numbersErr *entities.NumbersError
	if errors.As(err, &numbersErr) {
		switch numbersErr.Kind {
		case entities.NumbersWrongCount:
			return fmt.Sprintf("A pick needs exactly %d numbers, got %d.", entities.PickCount, numbersErr.Count)
		case entities.NumbersOutOfRange:
			return fmt.Sprintf("Number %d is out of range. Pick numbers between %d and %d.", numbersErr.Value, entities.MinNumber, entities.MaxNumber)
		case entities.NumbersDuplicate:
			return fmt.Sprintf("Number %d appears more than once. All six numbers must be distinct.", numbersErr.Value)
		}
	}

	var batchErr *entities.BatchLimitError
	if errors.As(err, &batchErr) {
		return fmt.Sprintf("You can buy at most %d tickets at once, got %d.", batchErr.Limit, batchErr.Size)
	}

	var rangeErr *entities.RangeError
	if errors.As(err, &rangeErr) {
		return "Invalid page window. Start must be non-negative and the limit positive."
	}

	switch {
	case errors.Is(err, entities.ErrNotOwner):
		return "That ticket belongs to someone else."
	case errors.Is(err, entities.ErrNotAdministrator):
		return "Only the administrator can do that."
	case errors.Is(err, entities.ErrTicketNotFound):
		return "No such ticket."
	case errors.Is(err, entities.ErrTicketLocked):
		return "That ticket is still inside its lock window and cannot be refunded yet."
	case errors.Is(err, entities.ErrNothingRefundable):
		return "You have no refundable tickets right now."
	case errors.Is(err, entities.ErrNoCompletedDraw):
		return "No draw has been completed yet."
	case errors.Is(err, entities.ErrNoSuchPeriod):
		return "No draw exists for that period."
	case errors.Is(err, entities.ErrEmptyBatch):
		return "Provide at least one pick."
	case errors.Is(err, entities.ErrTransferFailed):
		return "Payment failed. Check your balance and try again."
	case errors.Is(err, entities.ErrOperationInProgress):
		return "The ledger is busy. Try again in a moment."
	}

	return "Something went wrong. Please try again."
}
