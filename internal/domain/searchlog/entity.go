package searchlog

import "context"

// Key identifies one counter row. Query is stored lowercased.
type Key struct {
	Date     string
	Location string
	Query    string
}

// Count is one aggregated (query, dimension) cell, where Dim is a date or a
// location depending on the report.
type Count struct {
	Query string
	Dim   string
	Count int64
}

type Repository interface {
	Increment(ctx context.Context, k Key) error
	CountsByDate(ctx context.Context) ([]Count, error)
	CountsByLocation(ctx context.Context) ([]Count, error)
}
