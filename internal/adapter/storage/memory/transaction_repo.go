package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"wallet-transaction-api/internal/core/domain"
	"wallet-transaction-api/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository on a Store.
type TransactionRepo struct {
	s *Store
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(s *Store) *TransactionRepo {
	return &TransactionRepo{s: s}
}

// Create inserts a transaction inside tx, enforcing the wallet reference and txid uniqueness.
func (r *TransactionRepo) Create(_ context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	t, err := r.s.unwrap(tx)
	if err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.wallets[txn.WalletID]; !ok {
		return fmt.Errorf("insert transaction: %w", domain.ErrWalletNotFound)
	}
	if _, ok := r.s.txids[txn.TxID]; ok {
		return fmt.Errorf("insert transaction: %w", domain.ErrDuplicateTxID)
	}

	r.s.txns[txn.ID] = *txn
	r.s.txids[txn.TxID] = txn.ID
	id, txid := txn.ID, txn.TxID
	t.record(func() {
		delete(r.s.txns, id)
		delete(r.s.txids, txid)
	})
	return nil
}

// GetByID returns a copy of the transaction, or nil.
func (r *TransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	txn, ok := r.s.txns[id]
	if !ok {
		return nil, nil
	}
	return &txn, nil
}

// GetByIDTx returns a copy of the transaction, or nil.
func (r *TransactionRepo) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	if _, err := r.s.unwrap(tx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a transaction inside tx.
func (r *TransactionRepo) Delete(_ context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	t, err := r.s.unwrap(tx)
	if err != nil {
		return false, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	txn, ok := r.s.txns[id]
	if !ok {
		return false, nil
	}
	delete(r.s.txns, id)
	delete(r.s.txids, txn.TxID)
	t.record(func() {
		r.s.txns[txn.ID] = txn
		r.s.txids[txn.TxID] = txn.ID
	})
	return true, nil
}

// List filters, orders and pages transactions.
func (r *TransactionRepo) List(_ context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.s.mu.RLock()
	matched := make([]domain.Transaction, 0, len(r.s.txns))
	for _, txn := range r.s.txns {
		if params.WalletID != nil && txn.WalletID != *params.WalletID {
			continue
		}
		if params.TxID != nil && txn.TxID != *params.TxID {
			continue
		}
		if params.Amount != nil && !txn.Amount.Equal(*params.Amount) {
			continue
		}
		matched = append(matched, txn)
	}
	r.s.mu.RUnlock()

	o := params.Ordering
	if o.Field == "" {
		o = domain.DefaultTransactionOrdering
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var c int
		switch o.Field {
		case "txid":
			c = strings.Compare(a.TxID, b.TxID)
		case "timestamp":
			c = a.Timestamp.Compare(b.Timestamp)
		default:
			c = a.Amount.Cmp(b.Amount)
		}
		return less(c, a.ID, b.ID, o.Desc)
	})

	return page(matched, params.Page, params.PageSize), int64(len(matched)), nil
}
