package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceCache_RoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c := NewBalanceCache()
	c.now = func() time.Time { return now }
	id := uuid.New()

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Hit)

	require.NoError(t, c.Set(ctx, id, got.Generation, dec("50.5"), 5*time.Minute))
	got, err = c.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, got.Hit)
	assert.Equal(t, "50.5", got.Balance.String())

	now = now.Add(5 * time.Minute)
	got, _ = c.Get(ctx, id)
	assert.False(t, got.Hit, "entry must expire at ttl")
}

func TestBalanceCache_InvalidateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := NewBalanceCache()
	id := uuid.New()

	require.NoError(t, c.Set(ctx, id, 0, dec("1"), time.Minute))
	require.NoError(t, c.Invalidate(ctx, id))
	require.NoError(t, c.Invalidate(ctx, id))

	got, _ := c.Get(ctx, id)
	assert.False(t, got.Hit)
	assert.Equal(t, int64(2), got.Generation)
}

func TestBalanceCache_SetAfterInvalidateIsDropped(t *testing.T) {
	ctx := context.Background()
	c := NewBalanceCache()
	id := uuid.New()

	miss, err := c.Get(ctx, id)
	require.NoError(t, err)

	// A write commits and invalidates between the reader's lookup and its Set.
	require.NoError(t, c.Invalidate(ctx, id))
	require.NoError(t, c.Set(ctx, id, miss.Generation, dec("100"), time.Minute))

	got, _ := c.Get(ctx, id)
	assert.False(t, got.Hit, "a balance read before the write must not be cached")

	require.NoError(t, c.Set(ctx, id, got.Generation, dec("50"), time.Minute))
	got, _ = c.Get(ctx, id)
	require.True(t, got.Hit)
	assert.Equal(t, "50", got.Balance.String())
}

func TestResponseCache_ScopeInvalidation(t *testing.T) {
	ctx := context.Background()
	c := NewResponseCache()

	require.NoError(t, c.Set(ctx, "wallets", 0, "/api/wallets/", []byte("w"), time.Minute))
	require.NoError(t, c.Set(ctx, "transactions", 0, "/api/transactions/", []byte("t"), time.Minute))

	require.NoError(t, c.Invalidate(ctx, "wallets"))

	got, gen, err := c.Get(ctx, "wallets", "/api/wallets/")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int64(1), gen)

	got, gen, err = c.Get(ctx, "transactions", "/api/transactions/")
	require.NoError(t, err)
	assert.Equal(t, []byte("t"), got)
	assert.Equal(t, int64(0), gen)
}

func TestResponseCache_SetAfterInvalidateIsDropped(t *testing.T) {
	ctx := context.Background()
	c := NewResponseCache()

	_, gen, err := c.Get(ctx, "transactions", "/api/transactions/")
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, "transactions"))
	require.NoError(t, c.Set(ctx, "transactions", gen, "/api/transactions/", []byte("old"), time.Minute))

	got, _, err := c.Get(ctx, "transactions", "/api/transactions/")
	require.NoError(t, err)
	assert.Nil(t, got)
}
