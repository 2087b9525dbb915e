package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"wallet-transaction-api/internal/core/domain"
	"wallet-transaction-api/internal/core/ports"
	"wallet-transaction-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MaxLabelLength bounds a wallet label.
const MaxLabelLength = 100

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	transactor ports.DBTransactor
	cache      ports.BalanceCache
	balanceTTL time.Duration
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	transactor ports.DBTransactor,
	cache ports.BalanceCache,
	balanceTTL time.Duration,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		transactor: transactor,
		cache:      cache,
		balanceTTL: balanceTTL,
		log:        log,
	}
}

// CreateWallet validates and inserts a new wallet with version 0.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, req ports.CreateWalletRequest) (*domain.Wallet, error) {
	label, err := validateLabel(req.Label)
	if err != nil {
		return nil, err
	}
	if err := validateBalance(req.Balance); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	w := &domain.Wallet{
		ID:        uuid.New(),
		Label:     label,
		Balance:   domain.NormalizeBalance(req.Balance),
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.walletRepo.Create(ctx, w); err != nil {
		return nil, translate("create wallet", err)
	}

	s.log.Info().
		Str("wallet_id", w.ID.String()).
		Str("label", w.Label).
		Str("balance", w.Balance.String()).
		Msg("wallet created")

	return w, nil
}

// GetWallet returns a wallet or REQ_404.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	w, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if w == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	return w, nil
}

// GetBalance is the read-through path: cache first, then the store, then
// repopulate under the generation the lookup saw. Cache failures degrade to
// a store read.
func (s *WalletServiceImpl) GetBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	cached, cacheErr := s.cache.Get(ctx, id)
	if cacheErr != nil {
		s.log.Warn().Err(cacheErr).Str("wallet_id", id.String()).Msg("balance cache read failed, falling through to DB")
	}
	if cacheErr == nil && cached.Hit {
		return cached.Balance, nil
	}

	w, err := s.GetWallet(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	if cacheErr == nil {
		if err := s.cache.Set(ctx, id, cached.Generation, w.Balance, s.balanceTTL); err != nil {
			s.log.Warn().Err(err).Str("wallet_id", id.String()).Msg("failed to cache balance")
		}
	}
	return w.Balance, nil
}

// ListWallets returns one page of wallets and the total count.
func (s *WalletServiceImpl) ListWallets(ctx context.Context, params ports.WalletListParams) ([]domain.Wallet, int64, error) {
	wallets, total, err := s.walletRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}
	if err := checkPage(params.Page, params.PageSize, total); err != nil {
		return nil, 0, err
	}
	return wallets, total, nil
}

// UpdateWallet applies a partial update through the version CAS. A direct
// balance edit bypasses transaction history but not the balance rules.
func (s *WalletServiceImpl) UpdateWallet(ctx context.Context, req ports.UpdateWalletRequest) (*domain.Wallet, error) {
	var label string
	if req.Label != nil {
		l, err := validateLabel(*req.Label)
		if err != nil {
			return nil, err
		}
		label = l
	}
	if req.Balance != nil {
		if err := validateBalance(*req.Balance); err != nil {
			return nil, err
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	w, err := s.walletRepo.GetByIDTx(ctx, dbTx, req.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if w == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if req.Version != nil && *req.Version != w.Version {
		return nil, apperror.ErrConflict()
	}

	previous := w.Balance
	if req.Label != nil {
		w.Label = label
	}
	if req.Balance != nil {
		w.Balance = domain.NormalizeBalance(*req.Balance)
	}

	if err := s.walletRepo.Save(ctx, dbTx, w); err != nil {
		return nil, translate("save wallet", err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	invalidateBalance(ctx, s.cache, s.log, w.ID)

	s.log.Info().
		Str("wallet_id", w.ID.String()).
		Int64("version", w.Version).
		Str("previous_balance", previous.String()).
		Str("balance", w.Balance.String()).
		Msg("wallet updated")

	return w, nil
}

// DeleteWallet removes a wallet and, through the cascade, its transactions.
func (s *WalletServiceImpl) DeleteWallet(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.walletRepo.Delete(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("delete wallet: %w", err))
	}
	if !deleted {
		return apperror.ErrNotFound("wallet")
	}

	invalidateBalance(ctx, s.cache, s.log, id)

	s.log.Info().Str("wallet_id", id.String()).Msg("wallet deleted")
	return nil
}

func validateLabel(raw string) (string, error) {
	label := strings.TrimSpace(raw)
	if label == "" {
		return "", apperror.Validation("label: This field may not be blank.")
	}
	if utf8.RuneCountInString(label) > MaxLabelLength {
		return "", apperror.Validation(fmt.Sprintf("label: Ensure this field has no more than %d characters.", MaxLabelLength))
	}
	return label, nil
}

func validateBalance(b decimal.Decimal) error {
	if domain.CheckDecimalRange(b) != nil {
		return apperror.Validation("balance: A valid number is required.")
	}
	if !b.Equal(b.Truncate(domain.BalanceScale)) {
		return apperror.Validation(fmt.Sprintf("balance: Ensure that there are no more than %d decimal places.", domain.BalanceScale))
	}
	if err := domain.CheckBalance(b); err != nil {
		return translate("validate balance", err)
	}
	return nil
}

// invalidateBalance drops the cached balance after a committed write. The
// write already succeeded, so a failure here is logged and not returned.
func invalidateBalance(ctx context.Context, cache ports.BalanceCache, log zerolog.Logger, walletID uuid.UUID) {
	if err := cache.Invalidate(ctx, walletID); err != nil {
		log.Error().Err(err).Str("wallet_id", walletID.String()).Msg("failed to invalidate balance cache")
	}
}
