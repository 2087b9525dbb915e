package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"wallet-transaction-api/internal/core/domain"
	"wallet-transaction-api/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository on a Store.
type WalletRepo struct {
	s *Store
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(s *Store) *WalletRepo {
	return &WalletRepo{s: s}
}

// Create inserts a wallet. The balance check mirrors the storage constraint.
func (r *WalletRepo) Create(_ context.Context, w *domain.Wallet) error {
	if err := domain.CheckBalance(w.Balance); err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.wallets[w.ID]; ok {
		return fmt.Errorf("insert wallet: duplicate id %s", w.ID)
	}
	stored := *w
	stored.Balance = domain.NormalizeBalance(w.Balance)
	r.s.wallets[w.ID] = stored
	return nil
}

// GetByID returns a copy of the wallet, or nil.
func (r *WalletRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	w, ok := r.s.wallets[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

// GetByIDTx returns a copy of the wallet, or nil.
func (r *WalletRepo) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	if _, err := r.s.unwrap(tx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Save is the compare-and-swap on (id, version).
func (r *WalletRepo) Save(_ context.Context, tx pgx.Tx, w *domain.Wallet) error {
	t, err := r.s.unwrap(tx)
	if err != nil {
		return err
	}
	if err := domain.CheckBalance(w.Balance); err != nil {
		return fmt.Errorf("save wallet: %w", err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.wallets[w.ID]
	if !ok {
		return domain.ErrWalletNotFound
	}
	if cur.Version != w.Version {
		return domain.ErrVersionConflict
	}

	next := cur
	next.Label = w.Label
	next.Balance = domain.NormalizeBalance(w.Balance)
	next.Version = cur.Version + 1
	next.UpdatedAt = time.Now().UTC()
	r.s.wallets[w.ID] = next
	t.record(func() { r.s.wallets[cur.ID] = cur })

	w.Version = next.Version
	w.UpdatedAt = next.UpdatedAt
	return nil
}

// Delete removes the wallet and cascades to its transactions.
func (r *WalletRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	select {
	case r.s.writer <- struct{}{}:
		defer func() { <-r.s.writer }()
	case <-ctx.Done():
		return false, ctx.Err()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.wallets[id]; !ok {
		return false, nil
	}
	delete(r.s.wallets, id)
	for txnID, txn := range r.s.txns {
		if txn.WalletID == id {
			delete(r.s.txns, txnID)
			delete(r.s.txids, txn.TxID)
		}
	}
	return true, nil
}

// List filters, orders and pages wallets.
func (r *WalletRepo) List(_ context.Context, params ports.WalletListParams) ([]domain.Wallet, int64, error) {
	r.s.mu.RLock()
	matched := make([]domain.Wallet, 0, len(r.s.wallets))
	for _, w := range r.s.wallets {
		if params.Label != nil && w.Label != *params.Label {
			continue
		}
		matched = append(matched, w)
	}
	r.s.mu.RUnlock()

	o := params.Ordering
	if o.Field == "" {
		o = domain.DefaultWalletOrdering
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var c int
		switch o.Field {
		case "label":
			c = strings.Compare(a.Label, b.Label)
		case "balance":
			c = a.Balance.Cmp(b.Balance)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		return less(c, a.ID, b.ID, o.Desc)
	})

	return page(matched, params.Page, params.PageSize), int64(len(matched)), nil
}
