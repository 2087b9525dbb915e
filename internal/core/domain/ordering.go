package domain

import (
	"fmt"
	"strings"
)

// Ordering is a validated sort instruction such as "-amount".
type Ordering struct {
	Field string
	Desc  bool
}

func (o Ordering) String() string {
	if o.Desc {
		return "-" + o.Field
	}
	return o.Field
}

// Orderable fields per resource.
var (
	WalletOrderFields      = []string{"label", "balance", "created_at"}
	TransactionOrderFields = []string{"amount", "txid", "timestamp"}
)

// Default orderings.
var (
	DefaultWalletOrdering      = Ordering{Field: "created_at"}
	DefaultTransactionOrdering = Ordering{Field: "amount", Desc: true}
)

// ParseOrdering parses raw ("amount", "-amount") against allowed fields.
// An empty raw value yields def.
func ParseOrdering(raw string, allowed []string, def Ordering) (Ordering, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	o := Ordering{Field: strings.TrimPrefix(raw, "-"), Desc: strings.HasPrefix(raw, "-")}
	for _, f := range allowed {
		if f == o.Field {
			return o, nil
		}
	}
	return Ordering{}, fmt.Errorf("invalid ordering field %q", o.Field)
}
