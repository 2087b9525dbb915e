package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"wallet-transaction-api/internal/core/ports"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// BalanceKeyPrefix prefixes every cached balance: wallet_balance_{id}.
// The wallet's generation counter lives next to it at wallet_balance_{id}:gen.
const BalanceKeyPrefix = "wallet_balance_"

// generationTTL keeps an idle wallet's generation counter around far longer
// than any read-through takes, and then lets it expire.
const generationTTL = 24 * time.Hour

// setIfCurrent stores ARGV[2] under KEYS[1] for ARGV[3] ms only while
// KEYS[2] still holds generation ARGV[1]. A missing counter is generation 0.
var setIfCurrent = goredis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// BalanceCache implements ports.BalanceCache using Redis string keys.
type BalanceCache struct {
	client goredis.Cmdable
}

// NewBalanceCache creates a new Redis-backed balance cache.
func NewBalanceCache(client goredis.Cmdable) *BalanceCache {
	return &BalanceCache{client: client}
}

func balanceKey(walletID uuid.UUID) string {
	return BalanceKeyPrefix + walletID.String()
}

func balanceGenerationKey(walletID uuid.UUID) string {
	return balanceKey(walletID) + ":gen"
}

// Get returns the cached balance, if any, and the wallet's current generation.
func (c *BalanceCache) Get(ctx context.Context, walletID uuid.UUID) (ports.CachedBalance, error) {
	vals, err := c.client.MGet(ctx, balanceKey(walletID), balanceGenerationKey(walletID)).Result()
	if err != nil {
		return ports.CachedBalance{}, fmt.Errorf("redis balance get: %w", err)
	}

	var out ports.CachedBalance
	if raw, ok := vals[1].(string); ok {
		gen, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return ports.CachedBalance{}, fmt.Errorf("redis balance generation %q: %w", raw, err)
		}
		out.Generation = gen
	}

	raw, ok := vals[0].(string)
	if !ok {
		return out, nil
	}
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return ports.CachedBalance{}, fmt.Errorf("redis balance decode %q: %w", raw, err)
	}
	out.Balance = balance
	out.Hit = true
	return out, nil
}

// Set caches balance with ttl unless the wallet was invalidated after the Get
// that returned generation. A refused write is not an error.
func (c *BalanceCache) Set(ctx context.Context, walletID uuid.UUID, generation int64, balance decimal.Decimal, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("redis balance set: ttl must be positive, got %s", ttl)
	}
	keys := []string{balanceKey(walletID), balanceGenerationKey(walletID)}
	err := setIfCurrent.Run(ctx, c.client, keys, strconv.FormatInt(generation, 10), balance.String(), ttl.Milliseconds()).Err()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redis balance set: %w", err)
	}
	return nil
}

// Invalidate deletes the cached balance and starts a new generation.
// Invalidating a wallet with nothing cached is not an error.
func (c *BalanceCache) Invalidate(ctx context.Context, walletID uuid.UUID) error {
	genKey := balanceGenerationKey(walletID)
	_, err := c.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, balanceKey(walletID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis balance invalidate: %w", err)
	}
	return nil
}
