package entities

import (
	"errors"
	"fmt"
)

// Authorization errors. Checked before any state is touched.
var (
	ErrNotOwner         = errors.New("caller does not own this ticket")
	ErrNotAdministrator = errors.New("caller is not the administrator")
)

// State errors. Detected before any irreversible mutation; the operation
// aborts cleanly.
var (
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTicketLocked        = errors.New("ticket is still inside its lock window")
	ErrNothingRefundable   = errors.New("no refundable tickets")
	ErrNoCompletedDraw     = errors.New("no draw has been completed yet")
	ErrNoSuchPeriod        = errors.New("no draw recorded for this period")
	ErrDrawFailed          = errors.New("draw failed: slot retry limit exceeded")
	ErrEmptyBatch          = errors.New("batch contains no tickets")
	ErrInvalidPrice        = errors.New("ticket price must be positive")
	ErrInvalidLockDuration = errors.New("lock duration must not be negative")
)

// Collaborator and concurrency errors.
var (
	// ErrTransferFailed wraps a payment gateway failure so callers can
	// distinguish "your request was invalid" from "funds could not move".
	ErrTransferFailed = errors.New("payment transfer failed")

	// ErrOperationInProgress is returned when an operation attempts to begin
	// while another one holds the ledger, including re-entrant calls made by
	// a payment gateway from inside an outstanding operation.
	ErrOperationInProgress = errors.New("another ledger operation is in progress")
)

// NumbersErrorKind classifies pick-shape validation failures.
type NumbersErrorKind string

const (
	NumbersWrongCount NumbersErrorKind = "wrong_count"
	NumbersOutOfRange NumbersErrorKind = "out_of_range"
	NumbersDuplicate  NumbersErrorKind = "duplicate"
)

// NumbersError reports why a candidate pick was rejected, carrying the
// offending value or the observed count.
type NumbersError struct {
	Kind  NumbersErrorKind
	Value int64 // offending number for OutOfRange/Duplicate
	Count int   // observed length for WrongCount
	Index int   // position in a batch, -1 for single purchases
}

func (e *NumbersError) Error() string {
	switch e.Kind {
	case NumbersWrongCount:
		return fmt.Sprintf("pick must contain exactly %d numbers, got %d", PickCount, e.Count)
	case NumbersOutOfRange:
		return fmt.Sprintf("number %d is outside [%d, %d]", e.Value, MinNumber, MaxNumber)
	case NumbersDuplicate:
		return fmt.Sprintf("number %d appears more than once", e.Value)
	default:
		return "invalid pick"
	}
}

// BatchLimitError is returned when a bulk purchase exceeds the per-call
// ticket bound.
type BatchLimitError struct {
	Size  int
	Limit int
}

func (e *BatchLimitError) Error() string {
	return fmt.Sprintf("batch of %d tickets exceeds the limit of %d", e.Size, e.Limit)
}

// RangeError reports an invalid pagination or scan window.
type RangeError struct {
	Start int64
	Limit int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range: start=%d limit=%d", e.Start, e.Limit)
}
