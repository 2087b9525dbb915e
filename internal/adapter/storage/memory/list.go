package memory

import (
	"bytes"

	"github.com/google/uuid"
)

// less orders by c, then by id, both in the requested direction.
func less(c int, a, b uuid.UUID, desc bool) bool {
	if c == 0 {
		c = bytes.Compare(a[:], b[:])
	}
	if desc {
		return c > 0
	}
	return c < 0
}

func page[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
