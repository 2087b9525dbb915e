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

const transactionColumns = `id, wallet_id, txid, amount, "timestamp"`

var transactionOrderColumns = map[string]string{
	"amount":    "amount",
	"txid":      "txid",
	"timestamp": `"timestamp"`,
}

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a transaction inside tx. Duplicate txids and dangling wallet
// references come back as domain errors.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `) VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query, t.ID, t.WalletID, t.TxID, t.Amount, t.Timestamp)
	if err != nil {
		return translate("insert transaction", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return getTransaction(ctx, r.pool, id)
}

// GetByIDTx fetches a transaction inside tx.
func (r *TransactionRepo) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	return getTransaction(ctx, tx, id)
}

func getTransaction(ctx context.Context, q querier, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t := &domain.Transaction{}
	err := q.QueryRow(ctx, query, id).Scan(&t.ID, &t.WalletID, &t.TxID, &t.Amount, &t.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, nil
}

// Delete removes a transaction inside tx.
func (r *TransactionRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns a filtered, ordered page of transactions and the total count.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var w whereBuilder
	if params.WalletID != nil {
		w.add("wallet_id = $%d", *params.WalletID)
	}
	if params.TxID != nil {
		w.add("txid = $%d", *params.TxID)
	}
	if params.Amount != nil {
		w.add("amount = $%d", *params.Amount)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM transactions"+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	order := orderBy(params.Ordering, transactionOrderColumns, domain.DefaultTransactionOrdering)
	query := fmt.Sprintf(`SELECT %s FROM transactions%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		transactionColumns, w.clause(), order, w.next(), w.next()+1)
	args := append(w.args, params.PageSize, params.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0, params.PageSize)
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.TxID, &t.Amount, &t.Timestamp); err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, total, nil
}
