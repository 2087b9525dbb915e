package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"wallet-transaction-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletService defines wallet business logic.
type WalletService interface {
	CreateWallet(ctx context.Context, req CreateWalletRequest) (*domain.Wallet, error)
	GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	// GetBalance consults the balance cache before the store.
	GetBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
	ListWallets(ctx context.Context, params WalletListParams) ([]domain.Wallet, int64, error)
	UpdateWallet(ctx context.Context, req UpdateWalletRequest) (*domain.Wallet, error)
	DeleteWallet(ctx context.Context, id uuid.UUID) error
}

// CreateWalletRequest holds validated input for wallet creation.
type CreateWalletRequest struct {
	Label   string
	Balance decimal.Decimal
}

// UpdateWalletRequest is a partial update; nil fields are left untouched.
// Version, when set, must match the stored version.
type UpdateWalletRequest struct {
	ID      uuid.UUID
	Label   *string
	Balance *decimal.Decimal
	Version *int64
}

// LedgerService applies transactions to wallet balances.
type LedgerService interface {
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// CreateTransactionRequest holds validated input for the balance mutation.
type CreateTransactionRequest struct {
	WalletID uuid.UUID
	TxID     string
	Amount   decimal.Decimal
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
	Issuer  string
}
