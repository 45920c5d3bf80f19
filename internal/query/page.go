// Package query holds the read-side logic shared by the handlers:
// filtering record slices, ordering them, and cutting pages out of the
// result. Everything here is pure and works on copies returned by the
// storage layer.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLimit applies when a list request carries no usable limit.
	DefaultLimit = 20
	// MaxLimit caps a single page.
	MaxLimit = 100
)

// ErrInvalidParam marks a malformed query-string value.
var ErrInvalidParam = errors.New("invalid query parameter")

// Pagination is an offset/limit window.
type Pagination struct {
	Limit  int
	Offset int
}

// Page describes the slice handed back to a client.
type Page struct {
	Total  int `json:"total"`
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ParsePagination reads limit/offset strings. Empty or non-positive limits
// fall back to defaultLimit; values above MaxLimit are clamped. Malformed
// numbers are reported as ErrInvalidParam.
func ParsePagination(rawLimit, rawOffset string, defaultLimit int) (Pagination, error) {
	p := Pagination{Limit: defaultLimit}

	if s := strings.TrimSpace(rawLimit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Pagination{}, fmt.Errorf("limit %q: %w", rawLimit, ErrInvalidParam)
		}
		if n > 0 {
			p.Limit = n
		}
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if s := strings.TrimSpace(rawOffset); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return Pagination{}, fmt.Errorf("offset %q: %w", rawOffset, ErrInvalidParam)
		}
		p.Offset = n
	}

	return p, nil
}

// Paginate cuts the window out of items and reports the page metadata.
// Total is always len(items); Page is floor(offset/limit)+1.
func Paginate[T any](items []T, p Pagination) ([]T, Page) {
	meta := Page{
		Total:  len(items),
		Page:   p.Offset/p.Limit + 1,
		Limit:  p.Limit,
		Offset: p.Offset,
	}

	if p.Offset >= len(items) {
		return []T{}, meta
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end], meta
}

// containsFold reports whether substr is within s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
