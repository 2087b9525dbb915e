package domain

import "errors"

// Storage and domain rule violations. Adapters translate driver errors into
// these; services translate these into apperror values.
var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrVersionConflict     = errors.New("wallet version conflict")
	ErrNegativeBalance     = errors.New("wallet balance cannot be negative")
	ErrBalanceOverflow     = errors.New("wallet balance exceeds maximum")
	ErrAmountPrecision     = errors.New("amount exceeds supported precision")
	ErrDuplicateTxID       = errors.New("duplicate txid")
)
