package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceCache_SetAndGet(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewBalanceCache(client)
	ctx := context.Background()
	id := uuid.New()

	miss, err := cache.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, miss.Hit)
	assert.Equal(t, int64(0), miss.Generation)

	require.NoError(t, cache.Set(ctx, id, miss.Generation, decimal.RequireFromString("99999999.99999999"), 5*time.Minute))

	raw, err := s.Get("wallet_balance_" + id.String())
	require.NoError(t, err)
	assert.Equal(t, "99999999.99999999", raw)
	assert.Equal(t, 5*time.Minute, s.TTL("wallet_balance_"+id.String()))

	got, err := cache.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, got.Hit)
	assert.Equal(t, "99999999.99999999", got.Balance.String())
}

func TestBalanceCache_TTLExpiry(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewBalanceCache(client)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, cache.Set(ctx, id, 0, decimal.NewFromInt(10), time.Second))
	s.FastForward(2 * time.Second)

	got, err := cache.Get(ctx, id)
	assert.NoError(t, err)
	assert.False(t, got.Hit, "expired key should be a miss")
}

func TestBalanceCache_Invalidate(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewBalanceCache(client)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, cache.Set(ctx, id, 0, decimal.NewFromInt(10), time.Minute))
	require.NoError(t, cache.Invalidate(ctx, id))
	require.NoError(t, cache.Invalidate(ctx, id), "invalidate must be idempotent")

	got, err := cache.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Hit)
	assert.Equal(t, int64(2), got.Generation)

	genKey := "wallet_balance_" + id.String() + ":gen"
	assert.Equal(t, 24*time.Hour, s.TTL(genKey))
}

func TestBalanceCache_SetWithStaleGenerationIsDropped(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewBalanceCache(client)
	ctx := context.Background()
	id := uuid.New()

	miss, err := cache.Get(ctx, id)
	require.NoError(t, err)

	// The wallet changes and is invalidated before the reader repopulates.
	require.NoError(t, cache.Invalidate(ctx, id))
	require.NoError(t, cache.Set(ctx, id, miss.Generation, decimal.NewFromInt(100), time.Minute))
	assert.False(t, s.Exists("wallet_balance_"+id.String()), "pre-write balance must not be cached")

	fresh, err := cache.Get(ctx, id)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, id, fresh.Generation, decimal.NewFromInt(50), time.Minute))

	got, err := cache.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, got.Hit)
	assert.Equal(t, "50", got.Balance.String())
}

func TestBalanceCache_RejectsNonPositiveTTL(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewBalanceCache(client)

	assert.Error(t, cache.Set(context.Background(), uuid.New(), 0, decimal.NewFromInt(1), 0))
}

func TestBalanceCache_CorruptValue(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewBalanceCache(client)
	id := uuid.New()

	require.NoError(t, s.Set("wallet_balance_"+id.String(), "not-a-number"))

	got, err := cache.Get(context.Background(), id)
	assert.Error(t, err)
	assert.False(t, got.Hit)
}

func TestBalanceCache_ServerDown(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewBalanceCache(client)
	s.Close()

	_, err := cache.Get(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.Error(t, cache.Set(context.Background(), uuid.New(), 0, decimal.NewFromInt(1), time.Minute))
	assert.Error(t, cache.Invalidate(context.Background(), uuid.New()))
}
