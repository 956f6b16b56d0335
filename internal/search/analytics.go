package search

import (
	"sort"

	"skill-ledger/internal/domain/searchlog"
)

type SeriesPoint struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type QueryTrend struct {
	Query  string        `json:"query"`
	Total  int64         `json:"total"`
	Series []SeriesPoint `json:"series"`
}

// Nest groups flat (query, dim) counts into one trend per query. Duplicate
// cells are summed. Trends are sorted by total descending then query, and
// each series by key.
func Nest(counts []searchlog.Count) []QueryTrend {
	byQuery := make(map[string]map[string]int64)
	for _, c := range counts {
		dims, ok := byQuery[c.Query]
		if !ok {
			dims = make(map[string]int64)
			byQuery[c.Query] = dims
		}
		dims[c.Dim] += c.Count
	}

	out := make([]QueryTrend, 0, len(byQuery))
	for q, dims := range byQuery {
		tr := QueryTrend{Query: q, Series: make([]SeriesPoint, 0, len(dims))}
		for k, n := range dims {
			tr.Series = append(tr.Series, SeriesPoint{Key: k, Count: n})
			tr.Total += n
		}
		sort.Slice(tr.Series, func(i, j int) bool { return tr.Series[i].Key < tr.Series[j].Key })
		out = append(out, tr)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Query < out[j].Query
	})
	return out
}
