package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotto/domain/entities"
)

func testSettings() entities.Settings {
	return entities.Settings{TicketPrice: 1000, LockDuration: 24 * time.Hour}
}

func pick(offset int64) []int64 {
	return []int64{1 + offset, 2 + offset, 3 + offset, 4 + offset, 5 + offset, 6 + offset}
}

func TestTicketRepository_Issue(t *testing.T) {
	ctx := context.Background()
	state := newLedgerState(testSettings())
	repo := newTicketRepository(state)
	now := time.Now().UTC()

	first, err := repo.Issue(ctx, 100, pick(0), 980, now)
	require.NoError(t, err)
	second, err := repo.Issue(ctx, 100, pick(10), 980, now)
	require.NoError(t, err)
	third, err := repo.Issue(ctx, 200, pick(20), 980, now)
	require.NoError(t, err)

	// Ids are assigned from 1, strictly increasing and gap-free
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, int64(3), third.ID)

	nextID, err := repo.NextTicketID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), nextID)

	ownerID, ok, err := repo.OwnerOf(ctx, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(200), ownerID)

	count, err := repo.CountByOwner(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTicketRepository_Issue_CopiesNumbers(t *testing.T) {
	ctx := context.Background()
	repo := newTicketRepository(newLedgerState(testSettings()))

	numbers := pick(0)
	ticket, err := repo.Issue(ctx, 100, numbers, 980, time.Now().UTC())
	require.NoError(t, err)

	numbers[0] = 49
	assert.Equal(t, int64(1), ticket.Numbers[0])
}

func TestTicketRepository_Remove(t *testing.T) {
	ctx := context.Background()
	repo := newTicketRepository(newLedgerState(testSettings()))
	now := time.Now().UTC()

	for i := int64(0); i < 3; i++ {
		_, err := repo.Issue(ctx, 100, pick(i*10), 980, now)
		require.NoError(t, err)
	}

	require.NoError(t, repo.Remove(ctx, 100, 2))

	// The removed id is retired from the reverse index
	_, ok, err := repo.OwnerOf(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	// The remaining tickets survive the compaction
	count, err := repo.CountByOwner(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	for _, id := range []int64{1, 3} {
		ticket, err := repo.FindByOwner(ctx, 100, id)
		require.NoError(t, err)
		require.NotNil(t, ticket)
	}

	// Removing again reports not found
	assert.ErrorIs(t, repo.Remove(ctx, 100, 2), entities.ErrTicketNotFound)
}

func TestTicketRepository_Remove_LastTicketDropsOwner(t *testing.T) {
	ctx := context.Background()
	state := newLedgerState(testSettings())
	repo := newTicketRepository(state)

	_, err := repo.Issue(ctx, 100, pick(0), 980, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Remove(ctx, 100, 1))

	count, err := repo.CountByOwner(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// The owner key is gone entirely, not left as an empty list
	_, exists := state.ticketsByOwner[100]
	assert.False(t, exists)
}

func TestTicketRepository_RemovePurchasedBefore(t *testing.T) {
	ctx := context.Background()
	repo := newTicketRepository(newLedgerState(testSettings()))

	cutoff := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	old := cutoff.Add(-time.Hour)
	fresh := cutoff.Add(time.Hour)

	// Ordered [old, fresh, old]: removing index 0 swaps the trailing old
	// ticket into the examined slot, so the scan must not advance past it
	_, err := repo.Issue(ctx, 100, pick(0), 980, old)
	require.NoError(t, err)
	_, err = repo.Issue(ctx, 100, pick(10), 980, fresh)
	require.NoError(t, err)
	_, err = repo.Issue(ctx, 100, pick(20), 980, old)
	require.NoError(t, err)

	removed, err := repo.RemovePurchasedBefore(ctx, 100, cutoff)
	require.NoError(t, err)

	require.Len(t, removed, 2)
	removedIDs := []int64{removed[0].ID, removed[1].ID}
	assert.ElementsMatch(t, []int64{1, 3}, removedIDs)

	remaining, err := repo.ListByOwner(ctx, 100, 0, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, int64(2), remaining[0].ID)
}

func TestTicketRepository_RemovePurchasedBefore_CutoffInclusive(t *testing.T) {
	ctx := context.Background()
	repo := newTicketRepository(newLedgerState(testSettings()))

	cutoff := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.Issue(ctx, 100, pick(0), 980, cutoff)
	require.NoError(t, err)

	removed, err := repo.RemovePurchasedBefore(ctx, 100, cutoff)
	require.NoError(t, err)
	assert.Len(t, removed, 1)
}

func TestTicketRepository_RemovePurchasedBefore_NothingToRemove(t *testing.T) {
	ctx := context.Background()
	repo := newTicketRepository(newLedgerState(testSettings()))

	cutoff := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.Issue(ctx, 100, pick(0), 980, cutoff.Add(time.Hour))
	require.NoError(t, err)

	removed, err := repo.RemovePurchasedBefore(ctx, 100, cutoff)
	require.NoError(t, err)
	assert.Empty(t, removed)

	count, err := repo.CountByOwner(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTicketRepository_ListByOwner(t *testing.T) {
	ctx := context.Background()
	repo := newTicketRepository(newLedgerState(testSettings()))
	now := time.Now().UTC()

	for i := int64(0); i < 5; i++ {
		_, err := repo.Issue(ctx, 100, pick(i), 980, now)
		require.NoError(t, err)
	}

	t.Run("full window", func(t *testing.T) {
		tickets, err := repo.ListByOwner(ctx, 100, 0, 5)
		require.NoError(t, err)
		assert.Len(t, tickets, 5)
	})

	t.Run("window clipped at the end", func(t *testing.T) {
		tickets, err := repo.ListByOwner(ctx, 100, 3, 10)
		require.NoError(t, err)
		assert.Len(t, tickets, 2)
	})

	t.Run("window past the end", func(t *testing.T) {
		tickets, err := repo.ListByOwner(ctx, 100, 5, 10)
		require.NoError(t, err)
		assert.Empty(t, tickets)
	})

	t.Run("unknown owner", func(t *testing.T) {
		tickets, err := repo.ListByOwner(ctx, 999, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, tickets)
	})
}

func TestTicketRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := newTicketRepository(newLedgerState(testSettings()))

	issued, err := repo.Issue(ctx, 100, pick(0), 980, time.Now().UTC())
	require.NoError(t, err)

	record, err := repo.GetByID(ctx, issued.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, int64(100), record.OwnerID)
	assert.Equal(t, issued.ID, record.Ticket.ID)

	missing, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTicketRepository_TotalsSurviveRemoval(t *testing.T) {
	ctx := context.Background()
	repo := newTicketRepository(newLedgerState(testSettings()))
	now := time.Now().UTC()

	for i := int64(0); i < 4; i++ {
		_, err := repo.Issue(ctx, 100+i, pick(i), 980, now)
		require.NoError(t, err)
	}
	require.NoError(t, repo.Remove(ctx, 101, 2))

	// TotalIssued counts refunded tickets, CountActive does not
	total, err := repo.TotalIssued(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	active, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, active)

	// Refunded ids are never reused
	next, err := repo.NextTicketID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), next)
}

func TestLedger_VerifyAfterChurn(t *testing.T) {
	ctx := context.Background()
	ledger, err := NewLedger(testSettings())
	require.NoError(t, err)
	repo := newTicketRepository(ledger.state)
	now := time.Now().UTC()

	for i := int64(0); i < 10; i++ {
		_, err := repo.Issue(ctx, 100+i%3, pick(i%40), 980, now)
		require.NoError(t, err)
	}
	require.NoError(t, repo.Remove(ctx, 100, 1))
	require.NoError(t, repo.Remove(ctx, 101, 2))
	_, err = repo.RemovePurchasedBefore(ctx, 102, now)
	require.NoError(t, err)

	assert.NoError(t, ledger.Verify())
}

func TestNewLedger_RejectsInvalidSettings(t *testing.T) {
	_, err := NewLedger(entities.Settings{TicketPrice: 0, LockDuration: time.Hour})
	assert.ErrorIs(t, err, entities.ErrInvalidPrice)
}
