package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCache_SetGet(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewResponseCache(client)
	ctx := context.Background()

	got, gen, err := cache.Get(ctx, "transactions", "/api/transactions/?page=1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int64(0), gen)

	body := []byte(`{"data":[]}`)
	require.NoError(t, cache.Set(ctx, "transactions", gen, "/api/transactions/?page=1", body, 15*time.Minute))

	got, _, err = cache.Get(ctx, "transactions", "/api/transactions/?page=1")
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestResponseCache_InvalidateBumpsGeneration(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewResponseCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "wallets", 0, "k", []byte("old"), time.Minute))
	require.NoError(t, cache.Set(ctx, "transactions", 0, "k", []byte("other"), time.Minute))
	require.NoError(t, cache.Invalidate(ctx, "wallets"))

	got, gen, err := cache.Get(ctx, "wallets", "k")
	require.NoError(t, err)
	assert.Nil(t, got, "entries of the previous generation must not be served")
	assert.Equal(t, int64(1), gen)

	got, _, err = cache.Get(ctx, "transactions", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("other"), got, "other scopes are untouched")

	raw, err := s.Get("respcache:wallets:gen")
	require.NoError(t, err)
	assert.Equal(t, "1", raw)

	require.NoError(t, cache.Set(ctx, "wallets", gen, "k", []byte("new"), time.Minute))
	got, _, err = cache.Get(ctx, "wallets", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestResponseCache_SetWithStaleGenerationIsNeverServed(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewResponseCache(client)
	ctx := context.Background()

	_, gen, err := cache.Get(ctx, "transactions", "k")
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(ctx, "transactions"))
	require.NoError(t, cache.Set(ctx, "transactions", gen, "k", []byte("old"), time.Minute))

	got, _, err := cache.Get(ctx, "transactions", "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResponseCache_TTLExpiry(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewResponseCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "wallets", 0, "k", []byte("x"), 15*time.Minute))
	s.FastForward(15*time.Minute + time.Second)

	got, _, err := cache.Get(ctx, "wallets", "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}
