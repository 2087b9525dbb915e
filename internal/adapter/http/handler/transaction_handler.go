package handler

import (
	"wallet-transaction-api/internal/adapter/http/dto"
	"wallet-transaction-api/internal/core/domain"
	"wallet-transaction-api/internal/core/ports"
	"wallet-transaction-api/pkg/apperror"
	"wallet-transaction-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransactionHandler handles /transactions endpoints.
type TransactionHandler struct {
	svc        ports.LedgerService
	pagination Pagination
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(svc ports.LedgerService, pagination Pagination) *TransactionHandler {
	return &TransactionHandler{svc: svc, pagination: pagination}
}

// List handles GET /transactions/ with wallet, txid and amount filters.
func (h *TransactionHandler) List(c *gin.Context) {
	page, size, err := h.pagination.page(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	order, err := ordering(c, domain.TransactionOrderFields, domain.DefaultTransactionOrdering)
	if err != nil {
		response.Error(c, err)
		return
	}
	walletID, err := optionalUUID(c, "wallet", "filter[wallet]", "wallet")
	if err != nil {
		response.Error(c, err)
		return
	}
	amount, err := optionalDecimal(c, "amount", "filter[amount]", "amount")
	if err != nil {
		response.Error(c, err)
		return
	}

	txns, total, err := h.svc.ListTransactions(c.Request.Context(), ports.TransactionListParams{
		WalletID: walletID,
		TxID:     optionalString(c, "filter[txid]", "txid"),
		Amount:   amount,
		Ordering: order,
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.Transactions(txns), page, size, total)
}

// Create handles POST /transactions/.
func (h *TransactionHandler) Create(c *gin.Context) {
	var doc dto.CreateTransactionDocument
	if err := bindJSON(c, &doc); err != nil {
		response.Error(c, err)
		return
	}
	dto.SanitizeStruct(&doc)
	if doc.Data.Type != dto.TypeTransaction {
		response.Error(c, apperror.ErrResourceTypeMismatch(doc.Data.Type, dto.TypeTransaction))
		return
	}

	walletID, ok := doc.WalletID()
	if !ok {
		response.Error(c, apperror.ErrRelatedWalletNotFound())
		return
	}
	amount, err := doc.Data.Attributes.Amount.Decimal()
	if err != nil {
		response.Error(c, apperror.Validation("amount: A valid number is required."))
		return
	}

	txn, err := h.svc.CreateTransaction(c.Request.Context(), ports.CreateTransactionRequest{
		WalletID: walletID,
		TxID:     doc.Data.Attributes.TxID,
		Amount:   amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.Transaction(txn))
}

// Get handles GET /transactions/{id}/.
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := pathID(c, "transaction")
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.svc.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.Transaction(txn))
}

// Delete handles DELETE /transactions/{id}/.
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "transaction")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.svc.DeleteTransaction(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
