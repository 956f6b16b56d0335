package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strconv"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const (
	ledgerKeyPrefix = "ledger:emp:"
	searchKeyPrefix = "search:emp:"
)

func LedgerCacheKey(empID int64) string {
	return ledgerKeyPrefix + strconv.FormatInt(empID, 10)
}

// SearchCacheKey expects a query already passed through search.NormalizeQuery.
func SearchCacheKey(empID int64, normalizedQuery string) string {
	sum := sha256.Sum256([]byte(normalizedQuery))
	return searchKeyPrefix + strconv.FormatInt(empID, 10) + ":" + hex.EncodeToString(sum[:])
}

func searchCachePattern(empID int64) string {
	return searchKeyPrefix + strconv.FormatInt(empID, 10) + ":*"
}

// invalidateEmployee drops both keyspaces for one employee. Failures are
// logged only; entries expire on their own.
func invalidateEmployee(ctx context.Context, c Cache, logger *log.Logger, empID int64) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, LedgerCacheKey(empID)); err != nil && logger != nil {
		logger.Printf("[Cache] invalidate ledger failed | emp_id=%d err=%v", empID, err)
	}
	if err := c.DeleteByPattern(ctx, searchCachePattern(empID)); err != nil && logger != nil {
		logger.Printf("[Cache] invalidate search failed | emp_id=%d err=%v", empID, err)
	}
}
