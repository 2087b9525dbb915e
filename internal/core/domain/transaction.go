package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits a transaction amount may carry.
const AmountScale int32 = 18

// MaxTxIDLength bounds the externally supplied transaction identifier.
const MaxTxIDLength = 100

var amountLimit = decimal.New(1, 18)

// Transaction is an immutable signed delta applied once to exactly one wallet.
// Credits are positive, debits negative.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	WalletID  uuid.UUID       `json:"wallet_id"`
	TxID      string          `json:"txid"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// ValidateAmount rejects amounts that NUMERIC(36,18) cannot hold without rounding.
func ValidateAmount(a decimal.Decimal) error {
	if CheckDecimalRange(a) != nil {
		return ErrAmountPrecision
	}
	if !a.Equal(a.Truncate(AmountScale)) {
		return ErrAmountPrecision
	}
	if a.Abs().GreaterThanOrEqual(amountLimit) {
		return ErrAmountPrecision
	}
	return nil
}
