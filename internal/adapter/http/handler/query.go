package handler

import (
	"strconv"

	"wallet-transaction-api/internal/core/domain"
	"wallet-transaction-api/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pagination holds list paging limits.
type Pagination struct {
	PageSize    int
	MaxPageSize int
}

// query returns the first non-empty value among names, so both ?page=2 and
// ?page[number]=2 work.
func query(c *gin.Context, names ...string) string {
	for _, n := range names {
		if v := c.Query(n); v != "" {
			return v
		}
	}
	return ""
}

// page parses page number and size. A malformed page number is an invalid
// page; a malformed or oversized size falls back to the configured bounds.
func (p Pagination) page(c *gin.Context) (int, int, error) {
	page := 1
	if raw := query(c, "page[number]", "page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0, 0, apperror.ErrInvalidPage()
		}
		page = n
	}

	size := p.PageSize
	if raw := query(c, "page[size]", "page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			size = n
		}
	}
	if p.MaxPageSize > 0 && size > p.MaxPageSize {
		size = p.MaxPageSize
	}
	return page, size, nil
}

func ordering(c *gin.Context, allowed []string, def domain.Ordering) (domain.Ordering, error) {
	o, err := domain.ParseOrdering(query(c, "sort", "ordering"), allowed, def)
	if err != nil {
		return domain.Ordering{}, apperror.Validation("ordering: " + err.Error())
	}
	return o, nil
}

func optionalString(c *gin.Context, names ...string) *string {
	if v := query(c, names...); v != "" {
		return &v
	}
	return nil
}

func optionalUUID(c *gin.Context, field string, names ...string) (*uuid.UUID, error) {
	raw := query(c, names...)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.Validation(field + ": Select a valid choice. That choice is not one of the available choices.")
	}
	return &id, nil
}

func optionalDecimal(c *gin.Context, field string, names ...string) (*decimal.Decimal, error) {
	raw := query(c, names...)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDecimal(raw)
	if err != nil {
		return nil, apperror.Validation(field + ": Enter a number.")
	}
	return &d, nil
}

// pathID parses the :id segment. An id that is not a UUID cannot exist.
func pathID(c *gin.Context, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.ErrNotFound(entity)
	}
	return id, nil
}
