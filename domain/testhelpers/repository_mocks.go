package testhelpers

import (
	"context"
	"time"

	"lotto/domain/entities"
	"lotto/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Issue(ctx context.Context, ownerID int64, numbers []int64, pricePaid int64, purchasedAt time.Time) (*entities.Ticket, error) {
	args := m.Called(ctx, ownerID, numbers, pricePaid, purchasedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByOwner(ctx context.Context, ownerID, ticketID int64) (*entities.Ticket, error) {
	args := m.Called(ctx, ownerID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Remove(ctx context.Context, ownerID, ticketID int64) error {
	args := m.Called(ctx, ownerID, ticketID)
	return args.Error(0)
}

func (m *MockTicketRepository) RemovePurchasedBefore(ctx context.Context, ownerID int64, cutoff time.Time) ([]*entities.Ticket, error) {
	args := m.Called(ctx, ownerID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListByOwner(ctx context.Context, ownerID int64, start, limit int) ([]*entities.Ticket, error) {
	args := m.Called(ctx, ownerID, start, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *MockTicketRepository) CountPurchasedBefore(ctx context.Context, ownerID int64, cutoff time.Time) (int, error) {
	args := m.Called(ctx, ownerID, cutoff)
	return args.Int(0), args.Error(1)
}

func (m *MockTicketRepository) OwnerOf(ctx context.Context, ticketID int64) (int64, bool, error) {
	args := m.Called(ctx, ticketID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, ticketID int64) (*entities.TicketRecord, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TicketRecord), args.Error(1)
}

func (m *MockTicketRepository) NextTicketID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) TotalIssued(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockDrawRepository is a mock implementation of DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) CurrentPeriod(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDrawRepository) Record(ctx context.Context, draw *entities.Draw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockDrawRepository) ByPeriod(ctx context.Context, period int64) (*entities.Draw, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) Latest(ctx context.Context) (*entities.Draw, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*entities.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Update(ctx context.Context, settings *entities.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) TransferIn(ctx context.Context, payerID, amount int64) error {
	args := m.Called(ctx, payerID, amount)
	return args.Error(0)
}

func (m *MockPaymentGateway) TransferOut(ctx context.Context, payeeID, amount int64) error {
	args := m.Called(ctx, payeeID, amount)
	return args.Error(0)
}
