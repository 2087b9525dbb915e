// Package memory is a process-local storage backend. Units of work are
// serialised and rolled back through an undo log, so it honours the same
// atomicity contract as the postgres adapter without a database.
package memory

import (
	"context"
	"errors"
	"sync"

	"wallet-transaction-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var errForeignTx = errors.New("memory: transaction was not started by this store")

// Store holds wallets and transactions.
type Store struct {
	writer chan struct{} // holds a token for the lifetime of a unit of work

	mu      sync.RWMutex
	wallets map[uuid.UUID]domain.Wallet
	txns    map[uuid.UUID]domain.Transaction
	txids   map[string]uuid.UUID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		writer:  make(chan struct{}, 1),
		wallets: make(map[uuid.UUID]domain.Wallet),
		txns:    make(map[uuid.UUID]domain.Transaction),
		txids:   make(map[string]uuid.UUID),
	}
}

// Begin implements ports.DBTransactor. It waits until no other unit of work
// is open, or until ctx is done.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case s.writer <- struct{}{}:
		return &Tx{store: s}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Tx is the memory unit of work. Only Commit and Rollback are implemented;
// the embedded pgx.Tx is nil and panics if anything else is called.
type Tx struct {
	pgx.Tx
	store *Store
	undo  []func()
	done  bool
}

// Commit keeps the staged writes.
func (t *Tx) Commit(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.undo = nil
	<-t.store.writer
	return nil
}

// Rollback reverts every write made through this Tx, newest first.
func (t *Tx) Rollback(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true

	t.store.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.store.mu.Unlock()

	t.undo = nil
	<-t.store.writer
	return nil
}

// record registers an undo step. Callers hold store.mu.
func (t *Tx) record(fn func()) {
	t.undo = append(t.undo, fn)
}

func (s *Store) unwrap(tx pgx.Tx) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t.store != s {
		return nil, errForeignTx
	}
	if t.done {
		return nil, pgx.ErrTxClosed
	}
	return t, nil
}
