package cache

import (
	"context"
	"encoding/json"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultSize = 1000
	DefaultTTL  = 10 * time.Minute
)

// Memory is a bounded in-process cache. Every entry shares the same expiry;
// the ttl argument of SetJSON is ignored. Values are stored as JSON so reads
// never alias a caller's data.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *Memory) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := m.lru.Get(key)
	if !ok || len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.lru.Add(key, b)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}

// DeleteByPattern accepts the same glob subset as redis SCAN MATCH for keys
// without slashes.
func (m *Memory) DeleteByPattern(_ context.Context, pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return err
	}
	for _, k := range m.lru.Keys() {
		if ok, _ := path.Match(pattern, k); ok {
			m.lru.Remove(k)
		}
	}
	return nil
}

func (m *Memory) Len() int {
	return m.lru.Len()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Delete(context.Context, string) error                      { return nil }
func (Noop) DeleteByPattern(context.Context, string) error             { return nil }
