package repository

import (
	"fmt"
	"log/slog"
)

// Query selects a page of products, optionally limited to one section.
type Query struct {
	Section string

	Limit int

	Paginator *Paginator
}

// NewQuery returns a query over all sections with the default limit.
func NewQuery() *Query {
	return &Query{Limit: DefaultPaginationLimit}
}

// WithSection restricts the query to one section.
func (q *Query) WithSection(section string) *Query {
	q.Section = section
	return q
}

// ApplyPagination sets the page size and decodes the continuation token.
func (q *Query) ApplyPagination(limit int32, token string) error {
	queryLimit := DefaultPaginationLimit
	if limit > 0 {
		queryLimit = min(maxPaginationLimit, int(limit))
	}
	q.Limit = queryLimit

	if token == "" {
		return nil
	}

	paginator, err := DecodePageToken(token)
	if err != nil {
		slog.Error("failed to decode page token", slog.Any("err", err), slog.String("token", token))
		return fmt.Errorf("invalid page token: %w", ErrInvalidPaginationToken)
	}
	q.Paginator = paginator
	return nil
}
