package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"

	"wallet-transaction-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for wallets.
// Save is a compare-and-swap on (id, version) and must run inside a unit of work.
// Getters return (nil, nil) when the wallet does not exist.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	// Save persists label and balance if the stored version still equals wallet.Version,
	// then increments wallet.Version. Returns domain.ErrVersionConflict on mismatch and
	// domain.ErrWalletNotFound when the row is gone.
	Save(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, params WalletListParams) ([]domain.Wallet, int64, error)
}

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	// Create returns domain.ErrDuplicateTxID or domain.ErrWalletNotFound on constraint violations.
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error)
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// WalletListParams holds filter + pagination for listing wallets.
type WalletListParams struct {
	Label    *string
	Ordering domain.Ordering
	Page     int
	PageSize int
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	WalletID *uuid.UUID
	TxID     *string
	Amount   *decimal.Decimal
	Ordering domain.Ordering
	Page     int
	PageSize int
}

// Offset returns the row offset for the requested page.
func (p TransactionListParams) Offset() int { return offset(p.Page, p.PageSize) }

// Offset returns the row offset for the requested page.
func (p WalletListParams) Offset() int { return offset(p.Page, p.PageSize) }

func offset(page, size int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * size
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
