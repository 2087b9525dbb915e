package memory

import (
	"context"
	"sync"
	"time"

	"wallet-transaction-api/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type balanceEntry struct {
	balance   decimal.Decimal
	expiresAt time.Time
}

// BalanceCache implements ports.BalanceCache in process memory.
type BalanceCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]balanceEntry
	generations map[uuid.UUID]int64
	now         func() time.Time
}

// NewBalanceCache creates an empty BalanceCache.
func NewBalanceCache() *BalanceCache {
	return &BalanceCache{
		entries:     make(map[uuid.UUID]balanceEntry),
		generations: make(map[uuid.UUID]int64),
		now:         time.Now,
	}
}

func (c *BalanceCache) Get(_ context.Context, walletID uuid.UUID) (ports.CachedBalance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := ports.CachedBalance{Generation: c.generations[walletID]}
	e, ok := c.entries[walletID]
	if !ok {
		return out, nil
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, walletID)
		return out, nil
	}
	out.Balance = e.balance
	out.Hit = true
	return out, nil
}

// Set drops the write when walletID was invalidated after the Get that
// returned generation.
func (c *BalanceCache) Set(_ context.Context, walletID uuid.UUID, generation int64, balance decimal.Decimal, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[walletID] != generation {
		return nil
	}
	c.entries[walletID] = balanceEntry{balance: balance, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *BalanceCache) Invalidate(_ context.Context, walletID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generations[walletID]++
	delete(c.entries, walletID)
	return nil
}

type responseEntry struct {
	body      []byte
	expiresAt time.Time
}

type responseScope struct {
	generation int64
	entries    map[string]responseEntry
}

// ResponseCache implements ports.ResponseCache in process memory.
type ResponseCache struct {
	mu     sync.Mutex
	scopes map[string]*responseScope
	now    func() time.Time
}

// NewResponseCache creates an empty ResponseCache.
func NewResponseCache() *ResponseCache {
	return &ResponseCache{scopes: make(map[string]*responseScope), now: time.Now}
}

// scope returns the named scope, creating it at generation 0. Callers hold mu.
func (c *ResponseCache) scope(name string) *responseScope {
	s, ok := c.scopes[name]
	if !ok {
		s = &responseScope{entries: make(map[string]responseEntry)}
		c.scopes[name] = s
	}
	return s
}

func (c *ResponseCache) Get(_ context.Context, scope, key string) ([]byte, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.scope(scope)
	e, ok := s.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, s.generation, nil
	}
	return e.body, s.generation, nil
}

// Set drops the write when scope was invalidated after the Get that returned
// generation.
func (c *ResponseCache) Set(_ context.Context, scope string, generation int64, key string, body []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.scope(scope)
	if s.generation != generation {
		return nil
	}
	s.entries[key] = responseEntry{body: append([]byte(nil), body...), expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *ResponseCache) Invalidate(_ context.Context, scope string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.scope(scope)
	s.generation++
	s.entries = make(map[string]responseEntry)
	return nil
}
