package ports

//go:generate mockgen -source=caches.go -destination=mocks/mock_caches.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceCache is a read-through cache of wallet balances. It is never the
// source of truth; a miss means "ask the store".
//
// Every Invalidate starts a new generation for the wallet. Set stores a value
// only while the generation returned by the preceding Get is still current,
// so a store read that raced a committed write cannot repopulate the cache
// with the pre-write balance.
type BalanceCache interface {
	Get(ctx context.Context, walletID uuid.UUID) (CachedBalance, error)
	Set(ctx context.Context, walletID uuid.UUID, generation int64, balance decimal.Decimal, ttl time.Duration) error
	// Invalidate is idempotent.
	Invalidate(ctx context.Context, walletID uuid.UUID) error
}

// CachedBalance is the result of a BalanceCache lookup. Generation is set on
// hits and misses alike.
type CachedBalance struct {
	Balance    decimal.Decimal
	Hit        bool
	Generation int64
}

// ResponseCache stores rendered list responses per scope ("wallets", "transactions").
// Invalidate drops every entry of a scope by starting a new generation; Set
// with a generation that is no longer current stores nothing readable.
type ResponseCache interface {
	// Get returns the body (nil on miss) and the scope generation it looked in.
	Get(ctx context.Context, scope, key string) ([]byte, int64, error)
	Set(ctx context.Context, scope string, generation int64, key string, body []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, scope string) error
}

// RateLimitStore counts requests per key in fixed windows.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error)
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}
