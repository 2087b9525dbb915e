package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-transaction-api/internal/core/domain"
	"wallet-transaction-api/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const walletColumns = `id, label, balance, version, created_at, updated_at`

var walletOrderColumns = map[string]string{
	"label":      "label",
	"balance":    "balance",
	"created_at": "created_at",
}

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (` + walletColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.Label, w.Balance, w.Version, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return translate("insert wallet", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID.
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	return getWallet(ctx, r.pool, id)
}

// GetByIDTx fetches a wallet inside tx. No row lock is taken.
func (r *WalletRepo) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	return getWallet(ctx, tx, id)
}

func getWallet(ctx context.Context, q querier, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w := &domain.Wallet{}
	err := q.QueryRow(ctx, query, id).Scan(
		&w.ID, &w.Label, &w.Balance, &w.Version, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}
	return w, nil
}

// Save writes label and balance if the stored version still equals w.Version.
// A concurrent writer that committed first makes the WHERE clause miss; the row
// is then probed to tell a conflict from a deleted wallet.
func (r *WalletRepo) Save(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `UPDATE wallets
		SET label = $1, balance = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3 AND version = $4
		RETURNING version, updated_at`

	err := tx.QueryRow(ctx, query, w.Label, w.Balance, w.ID, w.Version).Scan(&w.Version, &w.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return translate("save wallet", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM wallets WHERE id = $1)`, w.ID).Scan(&exists); err != nil {
		return fmt.Errorf("probe wallet: %w", err)
	}
	if !exists {
		return domain.ErrWalletNotFound
	}
	return domain.ErrVersionConflict
}

// Delete removes a wallet; its transactions go with it (ON DELETE CASCADE).
func (r *WalletRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wallets WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete wallet: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns a page of wallets and the total matching count.
func (r *WalletRepo) List(ctx context.Context, params ports.WalletListParams) ([]domain.Wallet, int64, error) {
	var w whereBuilder
	if params.Label != nil {
		w.add("label = $%d", *params.Label)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM wallets"+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count wallets: %w", err)
	}

	order := orderBy(params.Ordering, walletOrderColumns, domain.DefaultWalletOrdering)
	query := fmt.Sprintf(`SELECT %s FROM wallets%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		walletColumns, w.clause(), order, w.next(), w.next()+1)
	args := append(w.args, params.PageSize, params.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	wallets := make([]domain.Wallet, 0, params.PageSize)
	for rows.Next() {
		var wl domain.Wallet
		if err := rows.Scan(&wl.ID, &wl.Label, &wl.Balance, &wl.Version, &wl.CreatedAt, &wl.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, wl)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate wallet rows: %w", err)
	}
	return wallets, total, nil
}
