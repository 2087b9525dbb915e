package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"detail"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet rules (WLT) ----

func ErrNegativeBalance() *AppError {
	return New("WLT_001", "Wallet balance cannot be negative", http.StatusBadRequest)
}

func ErrConflict() *AppError {
	return New("WLT_002", "Conflict: the wallet has been modified since it was last read", http.StatusConflict)
}

func ErrRelatedWalletNotFound() *AppError {
	return New("WLT_003", "related wallet not found", http.StatusBadRequest)
}

func ErrBalanceOverflow() *AppError {
	return New("WLT_004", "Wallet balance exceeds maximum", http.StatusBadRequest)
}

// ---- Transaction rules (TXN) ----

func ErrDuplicateTxID() *AppError {
	return New("TXN_001", "unique constraint violated", http.StatusBadRequest)
}

func ErrAmountPrecision() *AppError {
	return New("TXN_002", "amount must have at most 18 decimal places and fewer than 19 integer digits", http.StatusBadRequest)
}

// ---- Request (REQ) ----

// Validation returns a REQ_001 validation error.
func Validation(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("REQ_404", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInvalidPage() *AppError {
	return New("REQ_404", "Invalid page.", http.StatusNotFound)
}

func ErrUnsupportedMediaType(mediaType string) *AppError {
	return New("REQ_415", fmt.Sprintf("Unsupported media type %q in request.", mediaType), http.StatusUnsupportedMediaType)
}

// ErrResourceTypeMismatch is returned when data.type does not name the endpoint's resource.
func ErrResourceTypeMismatch(got, want string) *AppError {
	return New("REQ_409", fmt.Sprintf("The resource object's type (%s) is not the type that constitute the collection represented by the endpoint (%s).", got, want), http.StatusConflict)
}

func ErrResourceIDMismatch() *AppError {
	return New("REQ_409", "The resource object's id does not match the URL.", http.StatusConflict)
}

func ErrPayloadTooLarge() *AppError {
	return New("REQ_413", "Request body too large", http.StatusRequestEntityTooLarge)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error. The cause is never rendered.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "An unexpected error occurred.", http.StatusInternalServerError, err)
}

func ErrServiceUnavailable(err error) *AppError {
	return Wrap("SYS_002", "Service unavailable", http.StatusServiceUnavailable, err)
}
