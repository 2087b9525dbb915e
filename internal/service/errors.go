package service

import (
	"errors"
	"fmt"

	"wallet-transaction-api/internal/core/domain"
	"wallet-transaction-api/pkg/apperror"
)

// translate maps domain sentinels raised by the stores into client-facing
// AppErrors. Anything unrecognised becomes SYS_001 with op as context.
func translate(op string, err error) error {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, domain.ErrNegativeBalance):
		return apperror.ErrNegativeBalance()
	case errors.Is(err, domain.ErrBalanceOverflow):
		return apperror.ErrBalanceOverflow()
	case errors.Is(err, domain.ErrVersionConflict):
		return apperror.ErrConflict()
	case errors.Is(err, domain.ErrDuplicateTxID):
		return apperror.ErrDuplicateTxID()
	case errors.Is(err, domain.ErrAmountPrecision):
		return apperror.ErrAmountPrecision()
	case errors.Is(err, domain.ErrWalletNotFound):
		return apperror.ErrNotFound("wallet")
	case errors.Is(err, domain.ErrTransactionNotFound):
		return apperror.ErrNotFound("transaction")
	default:
		return apperror.InternalError(fmt.Errorf("%s: %w", op, err))
	}
}

// checkPage rejects a page number beyond the last page. An empty result set
// still has one (empty) page.
func checkPage(page, pageSize int, total int64) error {
	if page <= 1 || pageSize <= 0 {
		return nil
	}
	pages := (total + int64(pageSize) - 1) / int64(pageSize)
	if int64(page) > pages {
		return apperror.ErrInvalidPage()
	}
	return nil
}
