package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"wallet-transaction-api/internal/core/domain"
	"wallet-transaction-api/internal/core/ports"
	"wallet-transaction-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService. Every balance change runs
// in one unit of work together with the transaction row it belongs to.
type LedgerServiceImpl struct {
	txRepo          ports.TransactionRepository
	walletRepo      ports.WalletRepository
	transactor      ports.DBTransactor
	cache           ports.BalanceCache
	reverseOnDelete bool
	log             zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl. When reverseOnDelete is
// set, deleting a transaction subtracts its amount from the wallet again.
func NewLedgerService(
	txRepo ports.TransactionRepository,
	walletRepo ports.WalletRepository,
	transactor ports.DBTransactor,
	cache ports.BalanceCache,
	reverseOnDelete bool,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		txRepo:          txRepo,
		walletRepo:      walletRepo,
		transactor:      transactor,
		cache:           cache,
		reverseOnDelete: reverseOnDelete,
		log:             log,
	}
}

// CreateTransaction applies req.Amount to the wallet and records the
// transaction. Either both writes commit or neither does.
func (s *LedgerServiceImpl) CreateTransaction(ctx context.Context, req ports.CreateTransactionRequest) (*domain.Transaction, error) {
	txid, err := validateTxID(req.TxID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, translate("validate amount", err)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDTx(ctx, dbTx, req.WalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrRelatedWalletNotFound()
	}

	if err := s.applyDelta(ctx, dbTx, wallet, req.Amount); err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:        uuid.New(),
		WalletID:  wallet.ID,
		TxID:      txid,
		Amount:    req.Amount,
		Timestamp: time.Now().UTC(),
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return nil, apperror.ErrRelatedWalletNotFound()
		}
		return nil, translate("create transaction", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	invalidateBalance(ctx, s.cache, s.log, wallet.ID)

	s.log.Info().
		Str("transaction_id", txn.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("txid", txn.TxID).
		Str("amount", txn.Amount.String()).
		Str("balance", wallet.Balance.String()).
		Int64("version", wallet.Version).
		Msg("transaction created")

	return txn, nil
}

// GetTransaction returns a transaction or REQ_404.
func (s *LedgerServiceImpl) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	return txn, nil
}

// ListTransactions returns one page of transactions and the total count.
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Amount != nil && domain.CheckDecimalRange(*params.Amount) != nil {
		return nil, 0, apperror.Validation("amount: Enter a number.")
	}
	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	if err := checkPage(params.Page, params.PageSize, total); err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// DeleteTransaction removes a transaction. With reversal enabled the wallet
// is debited by the transaction's amount in the same unit of work, so a
// credit that has already been spent cannot be deleted.
func (s *LedgerServiceImpl) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	txn, err := s.txRepo.GetByIDTx(ctx, dbTx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return apperror.ErrNotFound("transaction")
	}

	if s.reverseOnDelete {
		wallet, err := s.walletRepo.GetByIDTx(ctx, dbTx, txn.WalletID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("get wallet: %w", err))
		}
		if wallet == nil {
			return apperror.ErrNotFound("wallet")
		}
		if err := s.applyDelta(ctx, dbTx, wallet, txn.Amount.Neg()); err != nil {
			return err
		}
	}

	deleted, err := s.txRepo.Delete(ctx, dbTx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("delete transaction: %w", err))
	}
	if !deleted {
		return apperror.ErrNotFound("transaction")
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	invalidateBalance(ctx, s.cache, s.log, txn.WalletID)

	s.log.Info().
		Str("transaction_id", txn.ID.String()).
		Str("wallet_id", txn.WalletID.String()).
		Bool("reversed", s.reverseOnDelete).
		Msg("transaction deleted")

	return nil
}

// applyDelta checks the exact prospective balance, then saves the wallet
// rounded to storage scale through the version CAS.
func (s *LedgerServiceImpl) applyDelta(ctx context.Context, dbTx pgx.Tx, wallet *domain.Wallet, delta decimal.Decimal) error {
	next, err := wallet.ProspectiveBalance(delta)
	if err != nil {
		return translate("apply delta", err)
	}
	next = domain.NormalizeBalance(next)
	if err := domain.CheckBalance(next); err != nil {
		return translate("apply delta", err)
	}

	wallet.Balance = next
	if err := s.walletRepo.Save(ctx, dbTx, wallet); err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return apperror.ErrRelatedWalletNotFound()
		}
		return translate("save wallet", err)
	}
	return nil
}

func validateTxID(raw string) (string, error) {
	txid := strings.TrimSpace(raw)
	if txid == "" {
		return "", apperror.Validation("txid: This field may not be blank.")
	}
	if utf8.RuneCountInString(txid) > domain.MaxTxIDLength {
		return "", apperror.Validation(fmt.Sprintf("txid: Ensure this field has no more than %d characters.", domain.MaxTxIDLength))
	}
	return txid, nil
}
