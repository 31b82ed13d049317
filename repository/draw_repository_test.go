package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotto/domain/entities"
)

func TestDrawRepository_Record(t *testing.T) {
	ctx := context.Background()
	repo := newDrawRepository(newLedgerState(testSettings()))
	drawnAt := time.Now().UTC()

	period, err := repo.CurrentPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), period)

	err = repo.Record(ctx, &entities.Draw{Period: 0, Numbers: pick(0), DrawnAt: drawnAt})
	require.NoError(t, err)

	// Recording advances the period
	period, err = repo.CurrentPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), period)

	draw, err := repo.ByPeriod(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, draw)
	assert.Equal(t, pick(0), draw.Numbers)
	assert.Equal(t, drawnAt, draw.DrawnAt)
}

func TestDrawRepository_Record_RejectsWrongPeriod(t *testing.T) {
	ctx := context.Background()
	repo := newDrawRepository(newLedgerState(testSettings()))

	err := repo.Record(ctx, &entities.Draw{Period: 5, Numbers: pick(0), DrawnAt: time.Now().UTC()})
	assert.Error(t, err)

	period, err := repo.CurrentPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), period)
}

func TestDrawRepository_Record_RejectsInvalidNumbers(t *testing.T) {
	ctx := context.Background()
	repo := newDrawRepository(newLedgerState(testSettings()))

	err := repo.Record(ctx, &entities.Draw{Period: 0, Numbers: []int64{1, 2, 3}, DrawnAt: time.Now().UTC()})
	assert.Error(t, err)
}

func TestDrawRepository_ByPeriod_MissingPeriod(t *testing.T) {
	ctx := context.Background()
	repo := newDrawRepository(newLedgerState(testSettings()))

	draw, err := repo.ByPeriod(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, draw)
}

func TestDrawRepository_Latest(t *testing.T) {
	ctx := context.Background()
	repo := newDrawRepository(newLedgerState(testSettings()))

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, repo.Record(ctx, &entities.Draw{Period: 0, Numbers: pick(0), DrawnAt: time.Now().UTC()}))
	require.NoError(t, repo.Record(ctx, &entities.Draw{Period: 1, Numbers: pick(10), DrawnAt: time.Now().UTC()}))

	latest, err = repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, int64(1), latest.Period)
	assert.Equal(t, pick(10), latest.Numbers)
}

func TestDrawRepository_RecordedNumbersAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := newDrawRepository(newLedgerState(testSettings()))

	numbers := pick(0)
	require.NoError(t, repo.Record(ctx, &entities.Draw{Period: 0, Numbers: numbers, DrawnAt: time.Now().UTC()}))

	// Mutating the caller's slice must not touch the record
	numbers[0] = 49
	draw, err := repo.ByPeriod(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), draw.Numbers[0])

	// Nor may mutating a returned draw
	draw.Numbers[1] = 48
	again, err := repo.ByPeriod(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.Numbers[1])
}

func TestSettingsRepository_UpdateValidates(t *testing.T) {
	ctx := context.Background()
	repo := newSettingsRepository(newLedgerState(testSettings()))

	err := repo.Update(ctx, &entities.Settings{TicketPrice: -1, LockDuration: time.Hour})
	assert.ErrorIs(t, err, entities.ErrInvalidPrice)

	// The failed update left the old settings in place
	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), settings.TicketPrice)

	require.NoError(t, repo.Update(ctx, &entities.Settings{TicketPrice: 500, LockDuration: time.Hour}))
	settings, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(500), settings.TicketPrice)
	assert.Equal(t, time.Hour, settings.LockDuration)
}

func TestSettingsRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := newSettingsRepository(newLedgerState(testSettings()))

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	settings.TicketPrice = 1

	again, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), again.TicketPrice)
}
