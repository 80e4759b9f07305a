package usecase

import (
	"context"
	"fmt"
)

// ResetCache is the use case behind `nx reset`
type ResetCache struct {
	cache TaskCache
}

// NewResetCache creates a new ResetCache use case
func NewResetCache(cache TaskCache) *ResetCache {
	return &ResetCache{cache: cache}
}

// Run removes every cached task result
func (uc *ResetCache) Run(ctx context.Context) error {
	if err := uc.cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
