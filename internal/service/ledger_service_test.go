package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wallet-transaction-api/internal/core/domain"
	"wallet-transaction-api/internal/core/ports"
	"wallet-transaction-api/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type ledgerTestDeps struct {
	svc        *LedgerServiceImpl
	txRepo     *mocks.MockTransactionRepository
	walletRepo *mocks.MockWalletRepository
	transactor *mocks.MockDBTransactor
	cache      *mocks.MockBalanceCache
}

func setupLedgerService(t *testing.T, reverseOnDelete bool) *ledgerTestDeps {
	ctrl := gomock.NewController(t)
	d := &ledgerTestDeps{
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		cache:      mocks.NewMockBalanceCache(ctrl),
	}
	d.svc = NewLedgerService(d.txRepo, d.walletRepo, d.transactor, d.cache, reverseOnDelete, zerolog.Nop())
	return d
}

// ==================== CreateTransaction ====================

func TestLedgerService_CreateTransaction_Success(t *testing.T) {
	d := setupLedgerService(t, true)
	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	gomock.InOrder(
		d.transactor.EXPECT().Begin(ctx).Return(tx, nil),
		d.walletRepo.EXPECT().GetByIDTx(ctx, tx, walletID).Return(&domain.Wallet{ID: walletID, Balance: dec("100"), Version: 2}, nil),
		d.walletRepo.EXPECT().Save(ctx, tx, gomock.Any()).DoAndReturn(func(_ context.Context, _ pgx.Tx, w *domain.Wallet) error {
			assert.Equal(t, "50", w.Balance.String())
			assert.Equal(t, int64(2), w.Version)
			w.Version++
			return nil
		}),
		d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(func(_ context.Context, _ pgx.Tx, txn *domain.Transaction) error {
			assert.Equal(t, walletID, txn.WalletID)
			assert.Equal(t, "tx-001", txn.TxID)
			return nil
		}),
		d.cache.EXPECT().Invalidate(ctx, walletID).Return(nil),
	)

	txn, err := d.svc.CreateTransaction(ctx, ports.CreateTransactionRequest{WalletID: walletID, TxID: "tx-001", Amount: dec("-50")})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, txn.ID)
	assert.Equal(t, "-50", txn.Amount.String())
	assert.False(t, txn.Timestamp.IsZero())
	assert.True(t, tx.committed)
}

func TestLedgerService_CreateTransaction_NegativeBalance(t *testing.T) {
	d := setupLedgerService(t, true)
	walletID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDTx(gomock.Any(), tx, walletID).Return(&domain.Wallet{ID: walletID, Balance: dec("50")}, nil)
	// No Save, no Create, no Invalidate.

	_, err := d.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{WalletID: walletID, TxID: "t", Amount: dec("-100")})
	assertAppError(t, err, "WLT_001")
	assert.True(t, tx.rolledBack)
}

func TestLedgerService_CreateTransaction_SubUnitOverdraft(t *testing.T) {
	d := setupLedgerService(t, true)
	walletID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDTx(gomock.Any(), tx, walletID).Return(&domain.Wallet{ID: walletID, Balance: dec("0")}, nil)

	// Rounds to 0.00000000 at storage scale, but is negative before rounding.
	_, err := d.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{WalletID: walletID, TxID: "t", Amount: dec("-0.000000000000000001")})
	assertAppError(t, err, "WLT_001")
}

func TestLedgerService_CreateTransaction_WalletMissing(t *testing.T) {
	d := setupLedgerService(t, true)
	walletID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDTx(gomock.Any(), tx, walletID).Return(nil, nil)

	_, err := d.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{WalletID: walletID, TxID: "t", Amount: dec("1")})
	assertAppError(t, err, "WLT_003")
}

func TestLedgerService_CreateTransaction_VersionConflict(t *testing.T) {
	d := setupLedgerService(t, true)
	walletID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDTx(gomock.Any(), tx, walletID).Return(&domain.Wallet{ID: walletID, Balance: dec("10")}, nil)
	d.walletRepo.EXPECT().Save(gomock.Any(), tx, gomock.Any()).Return(domain.ErrVersionConflict)

	_, err := d.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{WalletID: walletID, TxID: "t", Amount: dec("1")})
	assertAppError(t, err, "WLT_002")
	assert.False(t, tx.committed)
}

func TestLedgerService_CreateTransaction_WalletDeletedConcurrently(t *testing.T) {
	d := setupLedgerService(t, true)
	walletID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDTx(gomock.Any(), tx, walletID).Return(&domain.Wallet{ID: walletID, Balance: dec("10")}, nil)
	d.walletRepo.EXPECT().Save(gomock.Any(), tx, gomock.Any()).Return(domain.ErrWalletNotFound)

	_, err := d.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{WalletID: walletID, TxID: "t", Amount: dec("1")})
	assertAppError(t, err, "WLT_003")
}

func TestLedgerService_CreateTransaction_DuplicateTxID(t *testing.T) {
	d := setupLedgerService(t, true)
	walletID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDTx(gomock.Any(), tx, walletID).Return(&domain.Wallet{ID: walletID, Balance: dec("10")}, nil)
	d.walletRepo.EXPECT().Save(gomock.Any(), tx, gomock.Any()).Return(nil)
	d.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(errors.Join(errors.New("insert transaction"), domain.ErrDuplicateTxID))

	_, err := d.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{WalletID: walletID, TxID: "dup", Amount: dec("1")})
	assertAppError(t, err, "TXN_001")
	assert.True(t, tx.rolledBack, "wallet save must be rolled back with the failed insert")
}

func TestLedgerService_CreateTransaction_CommitFailure(t *testing.T) {
	d := setupLedgerService(t, true)
	walletID := uuid.New()
	tx := &mockTx{commitErr: errors.New("connection lost")}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDTx(gomock.Any(), tx, walletID).Return(&domain.Wallet{ID: walletID}, nil)
	d.walletRepo.EXPECT().Save(gomock.Any(), tx, gomock.Any()).Return(nil)
	d.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)

	_, err := d.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{WalletID: walletID, TxID: "t", Amount: dec("1")})
	assertAppError(t, err, "SYS_001")
}

func TestLedgerService_CreateTransaction_InputValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     ports.CreateTransactionRequest
		errCode string
	}{
		{"blank txid", ports.CreateTransactionRequest{TxID: " ", Amount: dec("1")}, "REQ_001"},
		{"long txid", ports.CreateTransactionRequest{TxID: strings.Repeat("a", domain.MaxTxIDLength+1), Amount: dec("1")}, "REQ_001"},
		{"19 decimal places", ports.CreateTransactionRequest{TxID: "t", Amount: dec("0.0000000000000000001")}, "TXN_002"},
		{"too large", ports.CreateTransactionRequest{TxID: "t", Amount: dec("1000000000000000000")}, "TXN_002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupLedgerService(t, true)
			tt.req.WalletID = uuid.New()
			_, err := d.svc.CreateTransaction(context.Background(), tt.req)
			assertAppError(t, err, tt.errCode)
		})
	}
}

func TestLedgerService_CreateTransaction_InvalidationFailureIsNotFatal(t *testing.T) {
	d := setupLedgerService(t, true)
	walletID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDTx(gomock.Any(), tx, walletID).Return(&domain.Wallet{ID: walletID}, nil)
	d.walletRepo.EXPECT().Save(gomock.Any(), tx, gomock.Any()).Return(nil)
	d.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	d.cache.EXPECT().Invalidate(gomock.Any(), walletID).Return(errors.New("redis down"))

	_, err := d.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{WalletID: walletID, TxID: "t", Amount: dec("1")})
	assert.NoError(t, err)
	assert.True(t, tx.committed)
}

// ==================== Get / List ====================

func TestLedgerService_GetTransaction_NotFound(t *testing.T) {
	d := setupLedgerService(t, true)
	id := uuid.New()
	d.txRepo.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)

	_, err := d.svc.GetTransaction(context.Background(), id)
	assertAppError(t, err, "REQ_404")
}

func TestLedgerService_ListTransactions(t *testing.T) {
	d := setupLedgerService(t, true)
	walletID := uuid.New()
	params := ports.TransactionListParams{WalletID: &walletID, Ordering: domain.DefaultTransactionOrdering, Page: 1, PageSize: 10}
	d.txRepo.EXPECT().List(gomock.Any(), params).Return([]domain.Transaction{{TxID: "a"}, {TxID: "b"}}, int64(2), nil)

	txns, total, err := d.svc.ListTransactions(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, txns, 2)
	assert.Equal(t, int64(2), total)
}

func TestLedgerService_ListTransactions_StoreFailure(t *testing.T) {
	d := setupLedgerService(t, true)
	d.txRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, int64(0), errors.New("timeout"))

	_, _, err := d.svc.ListTransactions(context.Background(), ports.TransactionListParams{Page: 1, PageSize: 10})
	assertAppError(t, err, "SYS_001")
}

func TestLedgerService_ListTransactions_AmountOutOfRange(t *testing.T) {
	d := setupLedgerService(t, true)
	for _, amount := range []decimal.Decimal{decimal.New(1, -2000000000), decimal.New(1, 2000000000)} {
		_, _, err := d.svc.ListTransactions(context.Background(), ports.TransactionListParams{Amount: &amount, Page: 1, PageSize: 10})
		assertAppError(t, err, "REQ_001")
	}
}

// ==================== DeleteTransaction ====================

func TestLedgerService_DeleteTransaction_ReversesAmount(t *testing.T) {
	d := setupLedgerService(t, true)
	ctx := context.Background()
	walletID := uuid.New()
	txnID := uuid.New()
	tx := &mockTx{}

	gomock.InOrder(
		d.transactor.EXPECT().Begin(ctx).Return(tx, nil),
		d.txRepo.EXPECT().GetByIDTx(ctx, tx, txnID).Return(&domain.Transaction{ID: txnID, WalletID: walletID, Amount: dec("30")}, nil),
		d.walletRepo.EXPECT().GetByIDTx(ctx, tx, walletID).Return(&domain.Wallet{ID: walletID, Balance: dec("100")}, nil),
		d.walletRepo.EXPECT().Save(ctx, tx, gomock.Any()).DoAndReturn(func(_ context.Context, _ pgx.Tx, w *domain.Wallet) error {
			assert.Equal(t, "70", w.Balance.String())
			return nil
		}),
		d.txRepo.EXPECT().Delete(ctx, tx, txnID).Return(true, nil),
		d.cache.EXPECT().Invalidate(ctx, walletID).Return(nil),
	)

	require.NoError(t, d.svc.DeleteTransaction(ctx, txnID))
	assert.True(t, tx.committed)
}

func TestLedgerService_DeleteTransaction_SpentCreditCannotBeReversed(t *testing.T) {
	d := setupLedgerService(t, true)
	walletID := uuid.New()
	txnID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.txRepo.EXPECT().GetByIDTx(gomock.Any(), tx, txnID).Return(&domain.Transaction{ID: txnID, WalletID: walletID, Amount: dec("100")}, nil)
	d.walletRepo.EXPECT().GetByIDTx(gomock.Any(), tx, walletID).Return(&domain.Wallet{ID: walletID, Balance: dec("20")}, nil)

	err := d.svc.DeleteTransaction(context.Background(), txnID)
	assertAppError(t, err, "WLT_001")
	assert.True(t, tx.rolledBack)
}

func TestLedgerService_DeleteTransaction_WithoutReversal(t *testing.T) {
	d := setupLedgerService(t, false)
	walletID := uuid.New()
	txnID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.txRepo.EXPECT().GetByIDTx(gomock.Any(), tx, txnID).Return(&domain.Transaction{ID: txnID, WalletID: walletID, Amount: dec("100")}, nil)
	d.txRepo.EXPECT().Delete(gomock.Any(), tx, txnID).Return(true, nil)
	d.cache.EXPECT().Invalidate(gomock.Any(), walletID).Return(nil)

	require.NoError(t, d.svc.DeleteTransaction(context.Background(), txnID))
}

func TestLedgerService_DeleteTransaction_NotFound(t *testing.T) {
	d := setupLedgerService(t, true)
	txnID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.txRepo.EXPECT().GetByIDTx(gomock.Any(), tx, txnID).Return(nil, nil)

	err := d.svc.DeleteTransaction(context.Background(), txnID)
	assertAppError(t, err, "REQ_404")
}

func TestLedgerService_BeginFailure(t *testing.T) {
	d := setupLedgerService(t, true)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(nil, errors.New("pool exhausted")).Times(2)

	_, err := d.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{WalletID: uuid.New(), TxID: "t", Amount: dec("1")})
	assertAppError(t, err, "SYS_001")

	err = d.svc.DeleteTransaction(context.Background(), uuid.New())
	assertAppError(t, err, "SYS_001")
}
