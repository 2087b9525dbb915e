package dto

import (
	"bytes"
	"encoding/json"

	"wallet-transaction-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Resource type names.
const (
	TypeWallet        = "Wallet"
	TypeTransaction   = "Transaction"
	TypeWalletBalance = "WalletBalance"
)

// DecimalString holds a decimal exactly as the client sent it. It accepts a
// JSON string ("100.50") or a JSON number (100.50) without going through float64.
// Any other token is kept raw and fails the decimal_string rule, so the error
// names the field it came from.
type DecimalString string

// UnmarshalJSON implements json.Unmarshaler.
func (d *DecimalString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = DecimalString(s)
		return nil
	}
	*d = DecimalString(b)
	return nil
}

// Decimal parses the value, refusing exponents outside domain bounds.
func (d DecimalString) Decimal() (decimal.Decimal, error) {
	return domain.ParseDecimal(string(d))
}

// ResourceIdentifier is a JSON:API {type, id} pair.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship is a to-one relationship object.
type Relationship struct {
	Data *ResourceIdentifier `json:"data"`
}

// ---- Wallet ----

// CreateWalletDocument is the body of POST /wallets/.
type CreateWalletDocument struct {
	Data struct {
		Type       string                 `json:"type" binding:"required"`
		Attributes CreateWalletAttributes `json:"attributes"`
	} `json:"data"`
}

// CreateWalletAttributes are the attributes accepted on wallet creation.
type CreateWalletAttributes struct {
	Label   string         `json:"label" binding:"required,max=100"`
	Balance *DecimalString `json:"balance" binding:"omitempty,decimal_string"`
}

// UpdateWalletDocument is the body of PATCH /wallets/{id}/.
type UpdateWalletDocument struct {
	Data struct {
		Type       string                 `json:"type" binding:"required"`
		ID         string                 `json:"id"`
		Attributes UpdateWalletAttributes `json:"attributes"`
	} `json:"data"`
}

// UpdateWalletAttributes is a partial update; absent fields stay untouched.
// Version, when present, must equal the stored version.
type UpdateWalletAttributes struct {
	Label   *string        `json:"label" binding:"omitempty,max=100"`
	Balance *DecimalString `json:"balance" binding:"omitempty,decimal_string"`
	Version *int64         `json:"version" binding:"omitempty,min=0"`
}

// ---- Transaction ----

// CreateTransactionDocument is the body of POST /transactions/. The wallet
// may be given as attributes.wallet or as relationships.wallet.
type CreateTransactionDocument struct {
	Data struct {
		Type          string                      `json:"type" binding:"required"`
		Attributes    CreateTransactionAttributes `json:"attributes"`
		Relationships struct {
			Wallet *Relationship `json:"wallet"`
		} `json:"relationships"`
	} `json:"data"`
}

// CreateTransactionAttributes are the attributes of a new transaction.
type CreateTransactionAttributes struct {
	TxID   string        `json:"txid" binding:"required,max=100,txid"`
	Amount DecimalString `json:"amount" binding:"required,decimal_string"`
	Wallet string        `json:"wallet"`
}

// WalletID resolves the referenced wallet. ok is false when none was given
// or the id is not a UUID.
func (d *CreateTransactionDocument) WalletID() (id uuid.UUID, ok bool) {
	raw := d.Data.Attributes.Wallet
	if rel := d.Data.Relationships.Wallet; rel != nil && rel.Data != nil && rel.Data.ID != "" {
		raw = rel.Data.ID
	}
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
