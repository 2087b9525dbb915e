package postgres

import (
	"errors"
	"fmt"

	"wallet-transaction-api/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate.
const (
	codeNumericOutOfRange   = "22003"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
)

// Constraint names from schema.sql.
const (
	constraintBalanceNonNegative = "wallet_balance_non_negative"
	constraintTxIDUnique         = "transactions_txid_key"
	constraintTransactionWallet  = "transactions_wallet_id_fkey"
)

// translate maps constraint violations onto domain errors, keeping the
// driver error in the chain. Other errors are wrapped with op only.
func translate(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeCheckViolation && pgErr.ConstraintName == constraintBalanceNonNegative:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrNegativeBalance, err)
		case pgErr.Code == codeNumericOutOfRange:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrBalanceOverflow, err)
		case pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraintTxIDUnique:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicateTxID, err)
		case pgErr.Code == codeForeignKeyViolation && pgErr.ConstraintName == constraintTransactionWallet:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrWalletNotFound, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
