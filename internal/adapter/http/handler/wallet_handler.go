package handler

import (
	"wallet-transaction-api/internal/adapter/http/dto"
	"wallet-transaction-api/internal/core/domain"
	"wallet-transaction-api/internal/core/ports"
	"wallet-transaction-api/pkg/apperror"
	"wallet-transaction-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// WalletHandler handles /wallets endpoints.
type WalletHandler struct {
	svc        ports.WalletService
	pagination Pagination
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc ports.WalletService, pagination Pagination) *WalletHandler {
	return &WalletHandler{svc: svc, pagination: pagination}
}

// List handles GET /wallets/.
func (h *WalletHandler) List(c *gin.Context) {
	page, size, err := h.pagination.page(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	order, err := ordering(c, domain.WalletOrderFields, domain.DefaultWalletOrdering)
	if err != nil {
		response.Error(c, err)
		return
	}

	wallets, total, err := h.svc.ListWallets(c.Request.Context(), ports.WalletListParams{
		Label:    optionalString(c, "filter[label]", "label"),
		Ordering: order,
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.Wallets(wallets), page, size, total)
}

// Create handles POST /wallets/.
func (h *WalletHandler) Create(c *gin.Context) {
	var doc dto.CreateWalletDocument
	if err := bindJSON(c, &doc); err != nil {
		response.Error(c, err)
		return
	}
	dto.SanitizeStruct(&doc)
	if doc.Data.Type != dto.TypeWallet {
		response.Error(c, apperror.ErrResourceTypeMismatch(doc.Data.Type, dto.TypeWallet))
		return
	}

	balance := decimal.Zero
	if raw := doc.Data.Attributes.Balance; raw != nil {
		b, err := raw.Decimal()
		if err != nil {
			response.Error(c, apperror.Validation("balance: A valid number is required."))
			return
		}
		balance = b
	}

	w, err := h.svc.CreateWallet(c.Request.Context(), ports.CreateWalletRequest{
		Label:   doc.Data.Attributes.Label,
		Balance: balance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.Wallet(w))
}

// Get handles GET /wallets/{id}/.
func (h *WalletHandler) Get(c *gin.Context) {
	id, err := pathID(c, "wallet")
	if err != nil {
		response.Error(c, err)
		return
	}

	w, err := h.svc.GetWallet(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.Wallet(w))
}

// Balance handles GET /wallets/{id}/balance/.
func (h *WalletHandler) Balance(c *gin.Context) {
	id, err := pathID(c, "wallet")
	if err != nil {
		response.Error(c, err)
		return
	}

	balance, err := h.svc.GetBalance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.Balance(id.String(), balance))
}

// Update handles PATCH /wallets/{id}/.
func (h *WalletHandler) Update(c *gin.Context) {
	id, err := pathID(c, "wallet")
	if err != nil {
		response.Error(c, err)
		return
	}

	var doc dto.UpdateWalletDocument
	if err := bindJSON(c, &doc); err != nil {
		response.Error(c, err)
		return
	}
	dto.SanitizeStruct(&doc)
	if doc.Data.Type != dto.TypeWallet {
		response.Error(c, apperror.ErrResourceTypeMismatch(doc.Data.Type, dto.TypeWallet))
		return
	}
	if doc.Data.ID != "" && doc.Data.ID != id.String() {
		response.Error(c, apperror.ErrResourceIDMismatch())
		return
	}

	attrs := doc.Data.Attributes
	req := ports.UpdateWalletRequest{ID: id, Label: attrs.Label, Version: attrs.Version}
	if attrs.Balance != nil {
		b, err := attrs.Balance.Decimal()
		if err != nil {
			response.Error(c, apperror.Validation("balance: A valid number is required."))
			return
		}
		req.Balance = &b
	}

	w, err := h.svc.UpdateWallet(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.Wallet(w))
}

// Delete handles DELETE /wallets/{id}/.
func (h *WalletHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "wallet")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.svc.DeleteWallet(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
