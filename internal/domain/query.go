package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SortField selects the secondary sort key for memo listings. The primary
// key is always pinned-first.
type SortField string

// Supported sort fields.
const (
	SortByUpdatedAt SortField = "updatedAt"
	SortByCreatedAt SortField = "createdAt"
	SortByTitle     SortField = "title"
)

// SortOrder selects the direction of the secondary sort key.
type SortOrder string

// Supported sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Pagination defaults and bounds.
const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// MemoQuery describes a filtered, sorted, paginated memo listing request.
// The zero value lists the first page of all active memos ordered by
// pinned-first then most recently updated.
type MemoQuery struct {
	Search   string
	TagID    uuid.UUID // uuid.Nil means no tag filter
	Sort     SortField
	Order    SortOrder
	Page     int
	PageSize int
}

// Normalize fills in defaults and clamps out-of-range values. Unknown sort
// fields and orders fall back to the defaults rather than failing; the
// query layer never errors on a malformed sort request.
func (q MemoQuery) Normalize() MemoQuery {
	switch q.Sort {
	case SortByUpdatedAt, SortByCreatedAt, SortByTitle:
	default:
		q.Sort = SortByUpdatedAt
	}
	switch q.Order {
	case SortAsc, SortDesc:
	default:
		q.Order = SortDesc
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// Offset returns the row offset for the normalized query.
func (q MemoQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// CacheKey returns a canonical string key for request-scoped memoization of
// query results. Two queries with identical parameters share a key.
func (q MemoQuery) CacheKey() string {
	var b strings.Builder
	b.WriteString("memos?search=")
	b.WriteString(q.Search)
	b.WriteString("&tag=")
	if q.TagID != uuid.Nil {
		b.WriteString(q.TagID.String())
	}
	fmt.Fprintf(&b, "&sort=%s&order=%s&page=%d&size=%d", q.Sort, q.Order, q.Page, q.PageSize)
	return b.String()
}

// Pagination describes the position of a page within the full result set.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// NewPagination computes the pagination descriptor for a page of the given
// size over total matching rows.
func NewPagination(page, pageSize, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page*pageSize < total,
	}
}

// PaginatedMemos is one page of memos plus its pagination descriptor.
type PaginatedMemos struct {
	Memos      []*MemoWithTags `json:"memos"`
	Pagination Pagination      `json:"pagination"`
}
