package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"skill-ledger/internal/domain/employee"
	"skill-ledger/internal/domain/searchlog"
	"skill-ledger/internal/search"

	"golang.org/x/sync/errgroup"
)

const (
	searchDateLayout         = "2006-01-02"
	defaultSearchConcurrency = 8
)

type SearchInput struct {
	Query      string
	Location   string
	Date       string
	SortByProf bool
}

type SearchUsecase interface {
	Search(ctx context.Context, in SearchInput) ([]search.Hit, error)
	AnalyticsByDate(ctx context.Context) ([]search.QueryTrend, error)
	AnalyticsByLocation(ctx context.Context) ([]search.QueryTrend, error)
}

type SearchService struct {
	employees   employee.Repository
	ledger      Ledger
	searchLog   searchlog.Repository
	cache       Cache
	cacheTTL    time.Duration
	concurrency int
	logger      *log.Logger
	now         func() time.Time
}

type SearchServiceOptions struct {
	Cache       Cache
	CacheTTL    time.Duration
	Concurrency int
	Logger      *log.Logger
}

func NewSearchService(employees employee.Repository, ledger Ledger, searchLog searchlog.Repository, opts SearchServiceOptions) *SearchService {
	s := &SearchService{
		employees:   employees,
		ledger:      ledger,
		searchLog:   searchLog,
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
		now:         time.Now,
	}
	if s.concurrency <= 0 {
		s.concurrency = defaultSearchConcurrency
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

func (s *SearchService) Search(ctx context.Context, in SearchInput) ([]search.Hit, error) {
	q := search.NormalizeQuery(in.Query)
	if q == "" {
		return nil, ErrInvalidInput
	}

	s.logSearch(ctx, in)

	ids, err := s.employees.ListIDs(ctx)
	if err != nil {
		return nil, backendErr("employee.list_ids", err)
	}

	slots := make([]*search.Hit, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			hit, err := s.searchEmployee(gctx, id, q)
			if err != nil {
				return err
			}
			slots[i] = hit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Printf("[Search] failed | query=%q err=%v", q, err)
		return nil, err
	}

	hits := make([]search.Hit, 0, len(slots))
	for _, h := range slots {
		if h != nil {
			hits = append(hits, *h)
		}
	}
	if in.SortByProf {
		search.SortByProficiency(hits)
	}
	return hits, nil
}

// searchEmployee returns nil when the employee has no matching skill or was
// removed after the id listing.
func (s *SearchService) searchEmployee(ctx context.Context, empID int64, q string) (*search.Hit, error) {
	e, err := s.employees.GetByID(ctx, empID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			return nil, nil
		}
		return nil, backendErr("employee.get", err)
	}

	matched, err := s.matchedSkills(ctx, empID, q)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, nil
	}
	return &search.Hit{EmpID: empID, Employee: e, Skills: matched}, nil
}

func (s *SearchService) matchedSkills(ctx context.Context, empID int64, q string) ([]employee.LedgerSkill, error) {
	key := SearchCacheKey(empID, q)
	if s.cache != nil {
		var cached []employee.LedgerSkill
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			return cached, nil
		}
	}

	skills, err := ledgerSkills(ctx, s.ledger, s.cache, s.cacheTTL, s.logger, empID)
	if err != nil {
		return nil, err
	}
	matched := search.MatchSkills(skills, q)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, matched, s.cacheTTL); err != nil {
			s.logger.Printf("[Cache] set failed | key=%s err=%v", key, err)
		}
	}
	return matched, nil
}

// logSearch counts the call. A failed write is logged and does not fail the
// search.
func (s *SearchService) logSearch(ctx context.Context, in SearchInput) {
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = s.now().UTC().Format(searchDateLayout)
	}
	k := searchlog.Key{Date: date, Location: in.Location, Query: search.LogQuery(in.Query)}
	if err := s.searchLog.Increment(ctx, k); err != nil {
		s.logger.Printf("[Search] log increment failed | date=%s loc=%q query=%q err=%v", k.Date, k.Location, k.Query, err)
	}
}

func (s *SearchService) AnalyticsByDate(ctx context.Context) ([]search.QueryTrend, error) {
	counts, err := s.searchLog.CountsByDate(ctx)
	if err != nil {
		return nil, backendErr("searchlog.by_date", err)
	}
	return search.Nest(counts), nil
}

func (s *SearchService) AnalyticsByLocation(ctx context.Context) ([]search.QueryTrend, error) {
	counts, err := s.searchLog.CountsByLocation(ctx)
	if err != nil {
		return nil, backendErr("searchlog.by_location", err)
	}
	return search.Nest(counts), nil
}
