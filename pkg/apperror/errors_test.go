package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   ErrNegativeBalance(),
			expected: "[WLT_001] Wallet balance cannot be negative",
		},
		{
			name:     "with wrapped error",
			appErr:   InternalError(fmt.Errorf("connection refused")),
			expected: "[SYS_001] An unexpected error occurred.: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New("REQ_001", "test", http.StatusBadRequest).Unwrap())
}

func TestErrorCatalog(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
		message    string
	}{
		{"NegativeBalance", ErrNegativeBalance(), "WLT_001", 400, "Wallet balance cannot be negative"},
		{"Conflict", ErrConflict(), "WLT_002", 409, "Conflict: the wallet has been modified since it was last read"},
		{"RelatedWalletNotFound", ErrRelatedWalletNotFound(), "WLT_003", 400, "related wallet not found"},
		{"BalanceOverflow", ErrBalanceOverflow(), "WLT_004", 400, "Wallet balance exceeds maximum"},
		{"DuplicateTxID", ErrDuplicateTxID(), "TXN_001", 400, "unique constraint violated"},
		{"Validation", Validation("label is required"), "REQ_001", 400, "label is required"},
		{"NotFound", ErrNotFound("wallet"), "REQ_404", 404, "wallet not found"},
		{"InvalidPage", ErrInvalidPage(), "REQ_404", 404, "Invalid page."},
		{"PayloadTooLarge", ErrPayloadTooLarge(), "REQ_413", 413, "Request body too large"},
		{"InvalidToken", ErrInvalidToken(), "AUTH_001", 401, "Invalid or expired token"},
		{"RateLimit", ErrRateLimitExceeded(), "RATE_001", 429, "Rate limit exceeded"},
		{"Internal", InternalError(errors.New("boom")), "SYS_001", 500, "An unexpected error occurred."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.message, tt.err.Message)
		})
	}
}

func TestUnsupportedMediaType(t *testing.T) {
	err := ErrUnsupportedMediaType("text/plain")
	assert.Equal(t, http.StatusUnsupportedMediaType, err.HTTPStatus)
	assert.Contains(t, err.Message, "text/plain")
}
