package dto

import (
	"time"

	"wallet-transaction-api/internal/core/domain"
	"wallet-transaction-api/pkg/response"

	"github.com/shopspring/decimal"
)

// WalletAttributes is the rendered form of a wallet.
type WalletAttributes struct {
	Label     string `json:"label"`
	Balance   string `json:"balance"`
	Version   int64  `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// TransactionAttributes is the rendered form of a transaction.
type TransactionAttributes struct {
	Wallet    string `json:"wallet"`
	TxID      string `json:"txid"`
	Amount    string `json:"amount"`
	Timestamp string `json:"timestamp"`
}

// BalanceAttributes is the body of GET /wallets/{id}/balance/.
type BalanceAttributes struct {
	Balance string `json:"balance"`
}

// Wallet renders w. Balances are fixed at storage scale.
func Wallet(w *domain.Wallet) response.Resource {
	return response.Resource{
		Type: TypeWallet,
		ID:   w.ID.String(),
		Attributes: WalletAttributes{
			Label:     w.Label,
			Balance:   w.Balance.StringFixed(domain.BalanceScale),
			Version:   w.Version,
			CreatedAt: w.CreatedAt.Format(time.RFC3339Nano),
			UpdatedAt: w.UpdatedAt.Format(time.RFC3339Nano),
		},
	}
}

// Wallets renders a page of wallets.
func Wallets(ws []domain.Wallet) []response.Resource {
	out := make([]response.Resource, 0, len(ws))
	for i := range ws {
		out = append(out, Wallet(&ws[i]))
	}
	return out
}

// Transaction renders t. Amounts are fixed at full precision.
func Transaction(t *domain.Transaction) response.Resource {
	return response.Resource{
		Type: TypeTransaction,
		ID:   t.ID.String(),
		Attributes: TransactionAttributes{
			Wallet:    t.WalletID.String(),
			TxID:      t.TxID,
			Amount:    t.Amount.StringFixed(domain.AmountScale),
			Timestamp: t.Timestamp.Format(time.RFC3339Nano),
		},
	}
}

// Transactions renders a page of transactions.
func Transactions(ts []domain.Transaction) []response.Resource {
	out := make([]response.Resource, 0, len(ts))
	for i := range ts {
		out = append(out, Transaction(&ts[i]))
	}
	return out
}

// Balance renders a wallet balance read.
func Balance(walletID string, b decimal.Decimal) response.Resource {
	return response.Resource{
		Type:       TypeWalletBalance,
		ID:         walletID,
		Attributes: BalanceAttributes{Balance: b.StringFixed(domain.BalanceScale)},
	}
}
