package infrastructure

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreasury_TransferIn(t *testing.T) {
	ctx := context.Background()
	treasury := NewTreasury()
	require.NoError(t, treasury.Deposit(100, 5000))

	require.NoError(t, treasury.TransferIn(ctx, 100, 3000))

	assert.Equal(t, int64(2000), treasury.Balance(100))
	assert.Equal(t, int64(3000), treasury.HouseBalance())
}

func TestTreasury_TransferIn_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	treasury := NewTreasury()
	require.NoError(t, treasury.Deposit(100, 500))

	err := treasury.TransferIn(ctx, 100, 1000)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(500), treasury.Balance(100))
	assert.Equal(t, int64(0), treasury.HouseBalance())
}

func TestTreasury_TransferOut(t *testing.T) {
	ctx := context.Background()
	treasury := NewTreasury()
	require.NoError(t, treasury.Deposit(100, 5000))
	require.NoError(t, treasury.TransferIn(ctx, 100, 3000))

	require.NoError(t, treasury.TransferOut(ctx, 100, 2940))

	assert.Equal(t, int64(4940), treasury.Balance(100))
	assert.Equal(t, int64(60), treasury.HouseBalance())

	// The house cannot pay out more than it holds
	err := treasury.TransferOut(ctx, 100, 100)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestTreasury_RejectsNegativeAmounts(t *testing.T) {
	ctx := context.Background()
	treasury := NewTreasury()

	assert.Error(t, treasury.TransferIn(ctx, 100, -1))
	assert.Error(t, treasury.TransferOut(ctx, 100, -1))
	assert.Error(t, treasury.Deposit(100, 0))
}

func TestTreasury_SeedOnce(t *testing.T) {
	treasury := NewTreasury()

	assert.True(t, treasury.SeedOnce(100, 1000))
	assert.Equal(t, int64(1000), treasury.Balance(100))

	// A second seed must not credit again
	assert.False(t, treasury.SeedOnce(100, 1000))
	assert.Equal(t, int64(1000), treasury.Balance(100))

	// An account known through a transfer is not reseeded either
	ctx := context.Background()
	require.NoError(t, treasury.TransferIn(ctx, 100, 1000))
	assert.False(t, treasury.SeedOnce(100, 1000))
	assert.Equal(t, int64(0), treasury.Balance(100))
}

func TestTreasury_ConcurrentTransfers(t *testing.T) {
	ctx := context.Background()
	treasury := NewTreasury()
	require.NoError(t, treasury.Deposit(100, 10000))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = treasury.TransferIn(ctx, 100, 100)
		}()
	}
	wg.Wait()

	// Every transfer succeeded exactly once; money is conserved
	assert.Equal(t, int64(0), treasury.Balance(100))
	assert.Equal(t, int64(10000), treasury.HouseBalance())
}
