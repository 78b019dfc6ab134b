package historycache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yanqian/underwriting-gateway/internal/domain/underwriting"
)

const defaultSize = 1024

// MemoryCache keeps histories in a bounded process-local LRU whose entries expire after ttl.
type MemoryCache struct {
	lru *expirable.LRU[string, underwriting.History]
}

// NewMemoryCache builds a cache holding at most size borrowers.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = defaultSize
	}
	return &MemoryCache{lru: expirable.NewLRU[string, underwriting.History](size, nil, ttl)}
}

// Get implements underwriting.HistoryCache.
func (c *MemoryCache) Get(_ context.Context, userID string) (underwriting.History, bool, error) {
	history, ok := c.lru.Get(userID)
	if !ok {
		return nil, false, nil
	}
	return cloneHistory(history), true, nil
}

// Set implements underwriting.HistoryCache.
func (c *MemoryCache) Set(_ context.Context, userID string, history underwriting.History) error {
	c.lru.Add(userID, cloneHistory(history))
	return nil
}

// Delete implements underwriting.HistoryCache.
func (c *MemoryCache) Delete(_ context.Context, userID string) error {
	c.lru.Remove(userID)
	return nil
}

// Len reports the number of cached borrowers.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// cloneHistory copies records so cached entries never alias caller memory.
func cloneHistory(history underwriting.History) underwriting.History {
	out := make(underwriting.History, len(history))
	for i, record := range history {
		if record.DTI != nil {
			dti := *record.DTI
			record.DTI = &dti
		}
		if record.LTV != nil {
			ltv := *record.LTV
			record.LTV = &ltv
		}
		if record.Reasons != nil {
			record.Reasons = append([]string(nil), record.Reasons...)
		}
		out[i] = record
	}
	return out
}

var _ underwriting.HistoryCache = (*MemoryCache)(nil)
