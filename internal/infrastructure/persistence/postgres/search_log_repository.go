package postgres

import (
	"context"
	"fmt"

	"skill-ledger/internal/database"
	"skill-ledger/internal/domain/searchlog"
)

type SearchLogRepository struct {
	db database.DB
}

func NewSearchLogRepository(db database.DB) *SearchLogRepository {
	return &SearchLogRepository{db: db}
}

func (r *SearchLogRepository) Increment(ctx context.Context, k searchlog.Key) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO search_log (date, loc, query, count, updated_at)
VALUES ($1, $2, $3, 1, now())
ON CONFLICT (date, loc, query)
DO UPDATE SET count = search_log.count + 1, updated_at = now()`,
		k.Date, k.Location, k.Query,
	)
	return err
}

func (r *SearchLogRepository) CountsByDate(ctx context.Context) ([]searchlog.Count, error) {
	return r.countsBy(ctx, "date")
}

func (r *SearchLogRepository) CountsByLocation(ctx context.Context) ([]searchlog.Count, error) {
	return r.countsBy(ctx, "loc")
}

// countsBy only accepts the fixed column names above.
func (r *SearchLogRepository) countsBy(ctx context.Context, column string) ([]searchlog.Count, error) {
	switch column {
	case "date", "loc":
	default:
		return nil, fmt.Errorf("search_log: unsupported dimension %q", column)
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(
		`SELECT query, %s, SUM(count)::BIGINT FROM search_log GROUP BY query, %s`, column, column,
	))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]searchlog.Count, 0)
	for rows.Next() {
		var c searchlog.Count
		if err := rows.Scan(&c.Query, &c.Dim, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
