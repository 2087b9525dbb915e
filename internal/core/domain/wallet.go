package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceScale is the number of fractional digits a wallet balance is stored with.
const BalanceScale int32 = 8

// MaxBalance is the largest balance a NUMERIC(18,8) column can hold.
var MaxBalance = decimal.RequireFromString("9999999999.99999999")

// Wallet is an account holding a non-negative decimal balance.
// Version is bumped on every successful save and guards against lost updates.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	Label     string          `json:"label"`
	Balance   decimal.Decimal `json:"balance"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProspectiveBalance returns the balance after applying amount, or the rule it breaks.
// The result is exact; NormalizeBalance rounds it to storage scale.
func (w *Wallet) ProspectiveBalance(amount decimal.Decimal) (decimal.Decimal, error) {
	next := w.Balance.Add(amount)
	if err := CheckBalance(next); err != nil {
		return decimal.Zero, err
	}
	return next, nil
}

// CheckBalance enforces 0 <= b <= MaxBalance.
func CheckBalance(b decimal.Decimal) error {
	if b.IsNegative() {
		return ErrNegativeBalance
	}
	if b.GreaterThan(MaxBalance) {
		return ErrBalanceOverflow
	}
	return nil
}

// NormalizeBalance rounds b half-even to BalanceScale, matching the column type.
func NormalizeBalance(b decimal.Decimal) decimal.Decimal {
	return b.RoundBank(BalanceScale)
}
