package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lotto/domain/entities"
	"lotto/domain/events"
	"lotto/domain/testhelpers"
)

const testAdminID = int64(999)

func defaultSettings() *entities.Settings {
	return &entities.Settings{TicketPrice: 1000, LockDuration: 24 * time.Hour}
}

func validPick() []int64 {
	return []int64{3, 17, 22, 31, 40, 49}
}

func TestTicketService_PurchaseTicket(t *testing.T) {
	ctx := context.Background()

	mockTickets := new(testhelpers.MockTicketRepository)
	mockSettings := new(testhelpers.MockSettingsRepository)
	mockPayments := new(testhelpers.MockPaymentGateway)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewTicketService(mockTickets, mockSettings, mockPayments, mockPublisher, testAdminID)

	issued := &entities.Ticket{ID: 1, Numbers: validPick(), PricePaid: 980}

	mockSettings.On("Get", ctx).Return(defaultSettings(), nil)
	// The full gross price is collected before any ticket is issued
	mockPayments.On("TransferIn", ctx, int64(100), int64(1000)).Return(nil)
	// Tickets carry the net (post-fee) price
	mockTickets.On("Issue", ctx, int64(100), validPick(), int64(980), mock.AnythingOfType("time.Time")).Return(issued, nil)
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		purchased, ok := e.(events.TicketsPurchasedEvent)
		return ok && purchased.OwnerID == 100 &&
			len(purchased.TicketIDs) == 1 && purchased.TicketIDs[0] == 1 &&
			purchased.TotalCost == 1000
	})).Return(nil)

	ticket, err := service.PurchaseTicket(ctx, 100, validPick())

	require.NoError(t, err)
	assert.Equal(t, int64(1), ticket.ID)
	assert.Equal(t, int64(980), ticket.PricePaid)

	mockTickets.AssertExpectations(t)
	mockSettings.AssertExpectations(t)
	mockPayments.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestTicketService_PurchaseTicket_InvalidNumbers(t *testing.T) {
	ctx := context.Background()

	mockTickets := new(testhelpers.MockTicketRepository)
	mockSettings := new(testhelpers.MockSettingsRepository)
	mockPayments := new(testhelpers.MockPaymentGateway)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewTicketService(mockTickets, mockSettings, mockPayments, mockPublisher, testAdminID)

	_, err := service.PurchaseTicket(ctx, 100, []int64{1, 2, 3, 4, 5, 50})

	var numbersErr *entities.NumbersError
	require.ErrorAs(t, err, &numbersErr)
	assert.Equal(t, entities.NumbersOutOfRange, numbersErr.Kind)

	// Validation failed before any money moved or tickets were touched
	mockPayments.AssertNotCalled(t, "TransferIn", mock.Anything, mock.Anything, mock.Anything)
	mockTickets.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTicketService_PurchaseTicket_PaymentFails(t *testing.T) {
	ctx := context.Background()

	mockTickets := new(testhelpers.MockTicketRepository)
	mockSettings := new(testhelpers.MockSettingsRepository)
	mockPayments := new(testhelpers.MockPaymentGateway)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewTicketService(mockTickets, mockSettings, mockPayments, mockPublisher, testAdminID)

	mockSettings.On("Get", ctx).Return(defaultSettings(), nil)
	mockPayments.On("TransferIn", ctx, int64(100), int64(1000)).Return(errors.New("insufficient balance"))

	_, err := service.PurchaseTicket(ctx, 100, validPick())

	assert.ErrorIs(t, err, entities.ErrTransferFailed)
	mockTickets.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestTicketService_PurchaseTickets(t *testing.T) {
	ctx := context.Background()

	mockTickets := new(testhelpers.MockTicketRepository)
	mockSettings := new(testhelpers.MockSettingsRepository)
	mockPayments := new(testhelpers.MockPaymentGateway)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewTicketService(mockTickets, mockSettings, mockPayments, mockPublisher, testAdminID)

	picks := [][]int64{
		{1, 2, 3, 4, 5, 6},
		{7, 8, 9, 10, 11, 12},
		{13, 14, 15, 16, 17, 18},
	}

	mockSettings.On("Get", ctx).Return(defaultSettings(), nil)
	mockPayments.On("TransferIn", ctx, int64(100), int64(3000)).Return(nil)
	for i, p := range picks {
		mockTickets.On("Issue", ctx, int64(100), p, int64(980), mock.AnythingOfType("time.Time")).
			Return(&entities.Ticket{ID: int64(i + 1), Numbers: p, PricePaid: 980}, nil)
	}
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		purchased, ok := e.(events.TicketsPurchasedEvent)
		return ok && len(purchased.TicketIDs) == 3 && purchased.TotalCost == 3000
	})).Return(nil)

	result, err := service.PurchaseTickets(ctx, 100, picks)

	require.NoError(t, err)
	assert.Len(t, result.Tickets, 3)
	assert.Equal(t, int64(3000), result.TotalCost)

	mockTickets.AssertExpectations(t)
	mockPayments.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestTicketService_PurchaseTickets_BatchLimits(t *testing.T) {
	ctx := context.Background()

	mockTickets := new(testhelpers.MockTicketRepository)
	mockSettings := new(testhelpers.MockSettingsRepository)
	mockPayments := new(testhelpers.MockPaymentGateway)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewTicketService(mockTickets, mockSettings, mockPayments, mockPublisher, testAdminID)

	t.Run("empty batch", func(t *testing.T) {
		_, err := service.PurchaseTickets(ctx, 100, nil)
		assert.ErrorIs(t, err, entities.ErrEmptyBatch)
	})

	t.Run("oversized batch", func(t *testing.T) {
		picks := make([][]int64, 18)
		for i := range picks {
			picks[i] = validPick()
		}

		_, err := service.PurchaseTickets(ctx, 100, picks)

		var batchErr *entities.BatchLimitError
		require.ErrorAs(t, err, &batchErr)
		assert.Equal(t, 18, batchErr.Size)
		assert.Equal(t, 17, batchErr.Limit)
	})

	mockPayments.AssertNotCalled(t, "TransferIn", mock.Anything, mock.Anything, mock.Anything)
}

func TestTicketService_PurchaseTickets_BadPickReportsIndex(t *testing.T) {
	ctx := context.Background()

	mockTickets := new(testhelpers.MockTicketRepository)
	mockSettings := new(testhelpers.MockSettingsRepository)
	mockPayments := new(testhelpers.MockPaymentGateway)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewTicketService(mockTickets, mockSettings, mockPayments, mockPublisher, testAdminID)

	picks := [][]int64{
		{1, 2, 3, 4, 5, 6},
		{7, 7, 9, 10, 11, 12}, // duplicate in the second pick
	}

	_, err := service.PurchaseTickets(ctx, 100, picks)

	var numbersErr *entities.NumbersError
	require.ErrorAs(t, err, &numbersErr)
	assert.Equal(t, entities.NumbersDuplicate, numbersErr.Kind)
	assert.Equal(t, 1, numbersErr.Index)

	// The whole batch is rejected before any money moves
	mockPayments.AssertNotCalled(t, "TransferIn", mock.Anything, mock.Anything, mock.Anything)
	mockTickets.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTicketService_RefundTicket(t *testing.T) {
	ctx := context.Background()

	mockTickets := new(testhelpers.MockTicketRepository)
	mockSettings := new(testhelpers.MockSettingsRepository)
	mockPayments := new(testhelpers.MockPaymentGateway)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewTicketService(mockTickets, mockSettings, mockPayments, mockPublisher, testAdminID)

	ticket := &entities.Ticket{
		ID:          7,
		Numbers:     validPick(),
		PurchasedAt: time.Now().UTC().Add(-48 * time.Hour),
		PricePaid:   980,
	}

	mockTickets.On("OwnerOf", ctx, int64(7)).Return(int64(100), true, nil)
	mockTickets.On("FindByOwner", ctx, int64(100), int64(7)).Return(ticket, nil)
	mockSettings.On("Get", ctx).Return(defaultSettings(), nil)
	mockTickets.On("Remove", ctx, int64(100), int64(7)).Return(nil)
	// The refund pays back the net price stored on the ticket
	mockPayments.On("TransferOut", ctx, int64(100), int64(980)).Return(nil)
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		refunded, ok := e.(events.TicketRefundedEvent)
		return ok && refunded.OwnerID == 100 && refunded.TicketID == 7 && refunded.Amount == 980
	})).Return(nil)

	amount, err := service.RefundTicket(ctx, 100, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(980), amount)

	mockTickets.AssertExpectations(t)
	mockPayments.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestTicketService_RefundTicket_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown ticket", func(t *testing.T) {
		mockTickets := new(testhelpers.MockTicketRepository)
		service := NewTicketService(mockTickets, new(testhelpers.MockSettingsRepository), new(testhelpers.MockPaymentGateway), new(testhelpers.MockEventPublisher), testAdminID)

		mockTickets.On("OwnerOf", ctx, int64(7)).Return(int64(0), false, nil)

		_, err := service.RefundTicket(ctx, 100, 7)
		assert.ErrorIs(t, err, entities.ErrTicketNotFound)
	})

	t.Run("someone else's ticket", func(t *testing.T) {
		mockTickets := new(testhelpers.MockTicketRepository)
		service := NewTicketService(mockTickets, new(testhelpers.MockSettingsRepository), new(testhelpers.MockPaymentGateway), new(testhelpers.MockEventPublisher), testAdminID)

		mockTickets.On("OwnerOf", ctx, int64(7)).Return(int64(200), true, nil)

		_, err := service.RefundTicket(ctx, 100, 7)
		assert.ErrorIs(t, err, entities.ErrNotOwner)
		mockTickets.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ticket still locked", func(t *testing.T) {
		mockTickets := new(testhelpers.MockTicketRepository)
		mockSettings := new(testhelpers.MockSettingsRepository)
		mockPayments := new(testhelpers.MockPaymentGateway)
		service := NewTicketService(mockTickets, mockSettings, mockPayments, new(testhelpers.MockEventPublisher), testAdminID)

		ticket := &entities.Ticket{
			ID:          7,
			Numbers:     validPick(),
			PurchasedAt: time.Now().UTC().Add(-time.Hour),
			PricePaid:   980,
		}
		mockTickets.On("OwnerOf", ctx, int64(7)).Return(int64(100), true, nil)
		mockTickets.On("FindByOwner", ctx, int64(100), int64(7)).Return(ticket, nil)
		mockSettings.On("Get", ctx).Return(defaultSettings(), nil)

		_, err := service.RefundTicket(ctx, 100, 7)
		assert.ErrorIs(t, err, entities.ErrTicketLocked)
		mockTickets.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
		mockPayments.AssertNotCalled(t, "TransferOut", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("payout failure", func(t *testing.T) {
		mockTickets := new(testhelpers.MockTicketRepository)
		mockSettings := new(testhelpers.MockSettingsRepository)
		mockPayments := new(testhelpers.MockPaymentGateway)
		service := NewTicketService(mockTickets, mockSettings, mockPayments, new(testhelpers.MockEventPublisher), testAdminID)

		ticket := &entities.Ticket{
			ID:          7,
			Numbers:     validPick(),
			PurchasedAt: time.Now().UTC().Add(-48 * time.Hour),
			PricePaid:   980,
		}
		mockTickets.On("OwnerOf", ctx, int64(7)).Return(int64(100), true, nil)
		mockTickets.On("FindByOwner", ctx, int64(100), int64(7)).Return(ticket, nil)
		mockSettings.On("Get", ctx).Return(defaultSettings(), nil)
		mockTickets.On("Remove", ctx, int64(100), int64(7)).Return(nil)
		mockPayments.On("TransferOut", ctx, int64(100), int64(980)).Return(errors.New("gateway down"))

		_, err := service.RefundTicket(ctx, 100, 7)
		assert.ErrorIs(t, err, entities.ErrTransferFailed)
	})
}

func TestTicketService_RefundAllTickets(t *testing.T) {
	ctx := context.Background()

	mockTickets := new(testhelpers.MockTicketRepository)
	mockSettings := new(testhelpers.MockSettingsRepository)
	mockPayments := new(testhelpers.MockPaymentGateway)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewTicketService(mockTickets, mockSettings, mockPayments, mockPublisher, testAdminID)

	removed := []*entities.Ticket{
		{ID: 1, PricePaid: 980},
		{ID: 3, PricePaid: 490},
	}

	mockSettings.On("Get", ctx).Return(defaultSettings(), nil)
	mockTickets.On("RemovePurchasedBefore", ctx, int64(100), mock.AnythingOfType("time.Time")).Return(removed, nil)
	// One payout for the whole batch
	mockPayments.On("TransferOut", ctx, int64(100), int64(1470)).Return(nil)
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		refunded, ok := e.(events.TicketsRefundedEvent)
		return ok && refunded.TicketCount == 2 && refunded.TotalAmount == 1470
	})).Return(nil)

	result, err := service.RefundAllTickets(ctx, 100)

	require.NoError(t, err)
	assert.Equal(t, 2, result.TicketsRefunded)
	assert.Equal(t, int64(1470), result.TotalAmount)

	mockPayments.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestTicketService_RefundAllTickets_NothingRefundable(t *testing.T) {
	ctx := context.Background()

	mockTickets := new(testhelpers.MockTicketRepository)
	mockSettings := new(testhelpers.MockSettingsRepository)
	mockPayments := new(testhelpers.MockPaymentGateway)

	service := NewTicketService(mockTickets, mockSettings, mockPayments, new(testhelpers.MockEventPublisher), testAdminID)

	mockSettings.On("Get", ctx).Return(defaultSettings(), nil)
	mockTickets.On("RemovePurchasedBefore", ctx, int64(100), mock.AnythingOfType("time.Time")).Return([]*entities.Ticket{}, nil)

	_, err := service.RefundAllTickets(ctx, 100)

	assert.ErrorIs(t, err, entities.ErrNothingRefundable)
	mockPayments.AssertNotCalled(t, "TransferOut", mock.Anything, mock.Anything, mock.Anything)
}

func TestTicketService_GetUserTickets_WindowValidation(t *testing.T) {
	ctx := context.Background()

	service := NewTicketService(new(testhelpers.MockTicketRepository), new(testhelpers.MockSettingsRepository), new(testhelpers.MockPaymentGateway), new(testhelpers.MockEventPublisher), testAdminID)

	tests := []struct {
		name  string
		start int
		limit int
	}{
		{name: "negative start", start: -1, limit: 10},
		{name: "zero limit", start: 0, limit: 0},
		{name: "negative limit", start: 0, limit: -5},
		{name: "limit above cap", start: 0, limit: 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.GetUserTickets(ctx, 100, tt.start, tt.limit)

			var rangeErr *entities.RangeError
			assert.ErrorAs(t, err, &rangeErr)
		})
	}
}

func TestTicketService_SetTicketPrice(t *testing.T) {
	ctx := context.Background()

	mockSettings := new(testhelpers.MockSettingsRepository)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewTicketService(new(testhelpers.MockTicketRepository), mockSettings, new(testhelpers.MockPaymentGateway), mockPublisher, testAdminID)

	t.Run("non-admin rejected", func(t *testing.T) {
		err := service.SetTicketPrice(ctx, 100, 2000)
		assert.ErrorIs(t, err, entities.ErrNotAdministrator)
	})

	t.Run("admin updates price", func(t *testing.T) {
		mockSettings.On("Get", ctx).Return(defaultSettings(), nil).Once()
		mockSettings.On("Update", ctx, mock.MatchedBy(func(s *entities.Settings) bool {
			return s.TicketPrice == 2000
		})).Return(nil).Once()
		mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
			updated, ok := e.(events.TicketPriceUpdatedEvent)
			return ok && updated.OldPrice == 1000 && updated.NewPrice == 2000
		})).Return(nil).Once()

		err := service.SetTicketPrice(ctx, testAdminID, 2000)
		require.NoError(t, err)

		mockSettings.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})
}

func TestTicketService_SetLockDuration(t *testing.T) {
	ctx := context.Background()

	mockSettings := new(testhelpers.MockSettingsRepository)
	mockPublisher := new(testhelpers.MockEventPublisher)

	service := NewTicketService(new(testhelpers.MockTicketRepository), mockSettings, new(testhelpers.MockPaymentGateway), mockPublisher, testAdminID)

	t.Run("non-admin rejected", func(t *testing.T) {
		err := service.SetLockDuration(ctx, 100, time.Hour)
		assert.ErrorIs(t, err, entities.ErrNotAdministrator)
	})

	t.Run("admin updates lock window", func(t *testing.T) {
		mockSettings.On("Get", ctx).Return(defaultSettings(), nil).Once()
		mockSettings.On("Update", ctx, mock.MatchedBy(func(s *entities.Settings) bool {
			return s.LockDuration == 48*time.Hour
		})).Return(nil).Once()
		mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
			updated, ok := e.(events.LockDurationUpdatedEvent)
			return ok && updated.OldDuration == 24*time.Hour && updated.NewDuration == 48*time.Hour
		})).Return(nil).Once()

		err := service.SetLockDuration(ctx, testAdminID, 48*time.Hour)
		require.NoError(t, err)

		mockSettings.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})
}
