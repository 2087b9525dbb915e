package postgres

import (
	"fmt"
	"strings"

	"wallet-transaction-api/internal/core/domain"
)

// whereBuilder collects AND-ed conditions with positional placeholders.
type whereBuilder struct {
	conditions []string
	args       []any
}

// add appends a condition; format must contain exactly one %d for the placeholder index.
func (w *whereBuilder) add(format string, arg any) {
	w.args = append(w.args, arg)
	w.conditions = append(w.conditions, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

// next is the index of the next free placeholder.
func (w *whereBuilder) next() int {
	return len(w.args) + 1
}

// orderBy renders an ORDER BY list from a whitelist; id breaks ties so pages are stable.
func orderBy(o domain.Ordering, columns map[string]string, def domain.Ordering) string {
	col, ok := columns[o.Field]
	if !ok {
		o = def
		col = columns[def.Field]
	}
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	return col + " " + dir + ", id " + dir
}
